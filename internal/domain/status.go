package domain

import "fmt"

type ItemStatus string

const (
	ItemStatusAvailable  ItemStatus = "Disponível"
	ItemStatusReserved   ItemStatus = "Reservado"
	ItemStatusRented     ItemStatus = "Alugado"
	ItemStatusReturned   ItemStatus = "Devolução"
	ItemStatusLaundry    ItemStatus = "Na Lavanderia"
	ItemStatusAtelier    ItemStatus = "No Atelier"
	ItemStatusQuarantine ItemStatus = "Quarentena"
)

var itemStatuses = []ItemStatus{
	ItemStatusAvailable,
	ItemStatusReserved,
	ItemStatusRented,
	ItemStatusReturned,
	ItemStatusLaundry,
	ItemStatusAtelier,
	ItemStatusQuarantine,
}

func (s ItemStatus) Valid() bool {
	for _, v := range itemStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Offerable reports whether an item in this status may be committed to a new
// contract at all. Dates are checked separately.
func (s ItemStatus) Offerable() bool {
	return s == ItemStatusAvailable || s == ItemStatusReserved || s == ItemStatusRented
}

// PostReturn reports whether the unit is back from the client.
func (s ItemStatus) PostReturn() bool {
	switch s {
	case ItemStatusReturned, ItemStatusLaundry, ItemStatusAtelier, ItemStatusAvailable:
		return true
	}
	return false
}

func ParseItemStatus(s string) (ItemStatus, error) {
	st := ItemStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown item status %q", s)
	}
	return st, nil
}

type ContractStatus string

const (
	ContractStatusDraft     ContractStatus = "Rascunho"
	ContractStatusScheduled ContractStatus = "Agendado"
	ContractStatusActive    ContractStatus = "Ativo"
	ContractStatusFinished  ContractStatus = "Finalizado"
	ContractStatusCanceled  ContractStatus = "Cancelado"
)

var contractStatuses = []ContractStatus{
	ContractStatusDraft,
	ContractStatusScheduled,
	ContractStatusActive,
	ContractStatusFinished,
	ContractStatusCanceled,
}

func (s ContractStatus) Valid() bool {
	for _, v := range contractStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func (s ContractStatus) Terminal() bool {
	return s == ContractStatusFinished || s == ContractStatusCanceled
}

func ParseContractStatus(s string) (ContractStatus, error) {
	st := ContractStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown contract status %q", s)
	}
	return st, nil
}

type ContractType string

const (
	ContractTypeRental ContractType = "Aluguel"
	ContractTypeSale   ContractType = "Venda"
)

func (t ContractType) Valid() bool {
	return t == ContractTypeRental || t == ContractTypeSale
}

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "Agendado"
	AppointmentStatusDone      AppointmentStatus = "Concluído"
	AppointmentStatusCanceled  AppointmentStatus = "Cancelado"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusDone, AppointmentStatusCanceled:
		return true
	}
	return false
}

type AppointmentType string

const (
	AppointmentTypeFitting    AppointmentType = "Prova"
	AppointmentTypePickup     AppointmentType = "Retirada"
	AppointmentTypeReturn     AppointmentType = "Devolução"
	AppointmentTypeAdjustment AppointmentType = "Ajuste"
	AppointmentTypeOther      AppointmentType = "Outro"
)

func (t AppointmentType) Valid() bool {
	switch t {
	case AppointmentTypeFitting, AppointmentTypePickup, AppointmentTypeReturn,
		AppointmentTypeAdjustment, AppointmentTypeOther:
		return true
	}
	return false
}

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "pending"
	TransactionStatusPaid    TransactionStatus = "paid"
)

func (s TransactionStatus) Valid() bool {
	return s == TransactionStatusPending || s == TransactionStatusPaid
}

type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
	NotificationSuccess NotificationType = "success"
)

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleManager   Role = "manager"
	RoleAttendant Role = "attendant"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleAttendant
}
