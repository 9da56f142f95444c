package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"locatrajes/internal/availability"
	"locatrajes/internal/domain"
	apperrors "locatrajes/internal/errors"
)

type ContractRequest struct {
	ClientID     *string         `json:"clientId"`
	ClientName   string          `json:"clientName"`
	ContractType string          `json:"contractType"`
	Items        []string        `json:"items"`
	StartDate    string          `json:"startDate"`
	EndDate      string          `json:"endDate"`
	Status       string          `json:"status"`
	TotalValue   decimal.Decimal `json:"totalValue"`
	PaidAmount   decimal.Decimal `json:"paidAmount"`
	Notes        string          `json:"notes"`
}

func (r ContractRequest) ToDomain(id string) (domain.Contract, error) {
	var details []apperrors.ValidationDetail
	c := domain.Contract{
		ID:           id,
		ClientID:     r.ClientID,
		ClientName:   r.ClientName,
		ContractType: domain.ContractType(r.ContractType),
		Items:        r.Items,
		StartDate:    dateField("startDate", r.StartDate, &details),
		EndDate:      dateField("endDate", r.EndDate, &details),
		TotalValue:   r.TotalValue,
		PaidAmount:   r.PaidAmount,
		Notes:        r.Notes,
	}
	if r.Status != "" {
		st, err := domain.ParseContractStatus(r.Status)
		if err != nil {
			details = append(details, apperrors.ValidationDetail{Field: "status", Message: err.Error()})
		}
		c.Status = st
	}
	return c, invalid(details)
}

type ContractResponse struct {
	ID              string          `json:"id"`
	ClientID        *string         `json:"clientId,omitempty"`
	ClientName      string          `json:"clientName"`
	ContractType    string          `json:"contractType"`
	Items           []string        `json:"items"`
	PickedUpItems   []string        `json:"pickedUpItems,omitempty"`
	ReturnedItems   []string        `json:"returnedItems,omitempty"`
	StartDate       string          `json:"startDate"`
	EndDate         string          `json:"endDate"`
	Status          string          `json:"status"`
	TotalValue      decimal.Decimal `json:"totalValue"`
	PaidAmount      decimal.Decimal `json:"paidAmount"`
	Balance         decimal.Decimal `json:"balance"`
	Signature       string          `json:"signature,omitempty"`
	ManualSignature bool            `json:"manualSignature"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func NewContractResponse(c domain.Contract) ContractResponse {
	items := c.Items
	if items == nil {
		items = []string{}
	}
	return ContractResponse{
		ID:              c.ID,
		ClientID:        c.ClientID,
		ClientName:      c.ClientName,
		ContractType:    string(c.ContractType),
		Items:           items,
		PickedUpItems:   c.PickedUp,
		ReturnedItems:   c.Returned,
		StartDate:       FormatDate(c.StartDate),
		EndDate:         FormatDate(c.EndDate),
		Status:          string(c.Status),
		TotalValue:      c.TotalValue,
		PaidAmount:      c.PaidAmount,
		Balance:         c.Balance,
		Signature:       c.Signature,
		ManualSignature: c.ManualSignature,
		Notes:           c.Notes,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func NewContractResponses(cs []domain.Contract) []ContractResponse {
	out := make([]ContractResponse, len(cs))
	for i, c := range cs {
		out[i] = NewContractResponse(c)
	}
	return out
}

type AvailabilityRequest struct {
	Items             []string `json:"items"`
	StartDate         string   `json:"startDate"`
	EndDate           string   `json:"endDate"`
	ExcludeContractID string   `json:"excludeContractId"`
}

// Dates returns the parsed period or a validation error.
func (r AvailabilityRequest) Dates() (time.Time, time.Time, error) {
	var details []apperrors.ValidationDetail
	start := dateField("startDate", r.StartDate, &details)
	end := dateField("endDate", r.EndDate, &details)
	return start, end, invalid(details)
}

type ItemAvailability struct {
	ItemID    string `json:"itemId"`
	Available bool   `json:"available"`
	Requested int    `json:"requested"`
	Committed int    `json:"committed"`
	Capacity  int    `json:"capacity"`
}

type AvailabilityResponse struct {
	Available bool               `json:"available"`
	Items     []ItemAvailability `json:"items"`
}

func NewAvailabilityResponse(checks []availability.ItemCheck) AvailabilityResponse {
	resp := AvailabilityResponse{Available: true, Items: make([]ItemAvailability, len(checks))}
	for i, c := range checks {
		resp.Items[i] = ItemAvailability{
			ItemID:    c.ItemID,
			Available: c.Available,
			Requested: c.Requested,
			Committed: c.Committed,
			Capacity:  c.Capacity,
		}
		if !c.Available {
			resp.Available = false
		}
	}
	return resp
}

type PaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type SignatureRequest struct {
	Signature       string `json:"signature"`
	ManualSignature bool   `json:"manualSignature"`
}
