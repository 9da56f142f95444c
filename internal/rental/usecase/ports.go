package usecase

import (
	"context"

	"locatrajes/internal/availability"
	"locatrajes/internal/domain"
	"locatrajes/internal/lifecycle"
)

type ContractStore interface {
	Snapshot() availability.StaticSnapshot
	ItemsByID() map[string]domain.Item
	Contract(id string) (domain.Contract, bool)
	Contracts() []domain.Contract
	CreateContract(ctx context.Context, c domain.Contract) (domain.Contract, error)
	UpdateContract(ctx context.Context, c domain.Contract) (domain.Contract, error)
	DeleteContract(ctx context.Context, id string) error
	Apply(ctx context.Context, cs lifecycle.Changeset) error
}

type InventoryStore interface {
	Items() []domain.Item
	Item(id string) (domain.Item, bool)
	ItemsByID() map[string]domain.Item
	Contracts() []domain.Contract
	CreateItem(ctx context.Context, it domain.Item) (domain.Item, error)
	UpdateItem(ctx context.Context, it domain.Item) (domain.Item, error)
	DeleteItem(ctx context.Context, id string) error
	Apply(ctx context.Context, cs lifecycle.Changeset) error
}

type ClientStore interface {
	Clients() []domain.Client
	Client(id string) (domain.Client, bool)
	Contracts() []domain.Contract
	CreateClient(ctx context.Context, c domain.Client) (domain.Client, error)
	UpdateClient(ctx context.Context, c domain.Client) (domain.Client, error)
	DeleteClient(ctx context.Context, id string) error
}

type ScheduleStore interface {
	Appointments() []domain.Appointment
	Appointment(id string) (domain.Appointment, bool)
	Contracts() []domain.Contract
	CreateAppointment(ctx context.Context, a domain.Appointment) (domain.Appointment, error)
	UpdateAppointment(ctx context.Context, a domain.Appointment) (domain.Appointment, error)
	DeleteAppointment(ctx context.Context, id string) error
}

type FinanceStore interface {
	Transactions() []domain.Transaction
	Transaction(id string) (domain.Transaction, bool)
	Contracts() []domain.Contract
	Notifications() []domain.Notification
	CreateTransaction(ctx context.Context, t domain.Transaction) (domain.Transaction, error)
	UpdateTransaction(ctx context.Context, t domain.Transaction) (domain.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
	AddNotification(ctx context.Context, n domain.Notification) (domain.Notification, error)
	UpdateNotification(ctx context.Context, n domain.Notification) (domain.Notification, error)
}

type AddressLookup interface {
	Lookup(ctx context.Context, cep string) (domain.Address, error)
}
