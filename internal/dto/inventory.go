package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"locatrajes/internal/domain"
	apperrors "locatrajes/internal/errors"
)

type ItemRequest struct {
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Size          string          `json:"size"`
	Color         string          `json:"color"`
	Price         decimal.Decimal `json:"price"`
	TotalQuantity *int            `json:"totalQuantity"`
	Status        string          `json:"status"`
}

func (r ItemRequest) ToDomain(id string) (domain.Item, error) {
	it := domain.Item{
		ID:            id,
		Name:          r.Name,
		Category:      r.Category,
		Size:          r.Size,
		Color:         r.Color,
		Price:         r.Price,
		TotalQuantity: r.TotalQuantity,
	}
	if r.Status != "" {
		st, err := domain.ParseItemStatus(r.Status)
		if err != nil {
			return it, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
				Field:   "status",
				Message: err.Error(),
			})
		}
		it.Status = st
	}
	return it, nil
}

type TriageRequest struct {
	Status string `json:"status"`
}

type ItemResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Category      string          `json:"category,omitempty"`
	Size          string          `json:"size,omitempty"`
	Color         string          `json:"color,omitempty"`
	Price         decimal.Decimal `json:"price"`
	TotalQuantity *int            `json:"totalQuantity,omitempty"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func NewItemResponse(it domain.Item) ItemResponse {
	return ItemResponse{
		ID:            it.ID,
		Name:          it.Name,
		Category:      it.Category,
		Size:          it.Size,
		Color:         it.Color,
		Price:         it.Price,
		TotalQuantity: it.TotalQuantity,
		Status:        string(it.Status),
		CreatedAt:     it.CreatedAt,
		UpdatedAt:     it.UpdatedAt,
	}
}

func NewItemResponses(items []domain.Item) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i, it := range items {
		out[i] = NewItemResponse(it)
	}
	return out
}

type AddressDTO struct {
	CEP          string `json:"cep"`
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

func (a AddressDTO) ToDomain() domain.Address {
	return domain.Address(a)
}

func NewAddressDTO(a domain.Address) AddressDTO {
	return AddressDTO(a)
}

type ClientRequest struct {
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Phone    string     `json:"phone"`
	Document string     `json:"document"`
	Address  AddressDTO `json:"address"`
}

func (r ClientRequest) ToDomain(id string) domain.Client {
	return domain.Client{
		ID:       id,
		Name:     r.Name,
		Email:    r.Email,
		Phone:    r.Phone,
		Document: r.Document,
		Address:  r.Address.ToDomain(),
	}
}

type ClientResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	Document  string     `json:"document,omitempty"`
	Address   AddressDTO `json:"address"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func NewClientResponse(c domain.Client) ClientResponse {
	return ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Document:  c.Document,
		Address:   NewAddressDTO(c.Address),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func NewClientResponses(cs []domain.Client) []ClientResponse {
	out := make([]ClientResponse, len(cs))
	for i, c := range cs {
		out[i] = NewClientResponse(c)
	}
	return out
}
