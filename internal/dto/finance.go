package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"locatrajes/internal/domain"
	apperrors "locatrajes/internal/errors"
)

type TransactionRequest struct {
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	DueDate     *string         `json:"dueDate"`
	Status      string          `json:"status"`
}

func (r TransactionRequest) ToDomain(id string) (domain.Transaction, error) {
	var details []apperrors.ValidationDetail
	t := domain.Transaction{
		ID:          id,
		Type:        domain.TransactionType(r.Type),
		Description: r.Description,
		Category:    r.Category,
		Amount:      r.Amount,
		Date:        dateField("date", r.Date, &details),
		Status:      domain.TransactionStatus(r.Status),
	}
	if r.DueDate != nil && *r.DueDate != "" {
		due := dateField("dueDate", *r.DueDate, &details)
		if !due.IsZero() {
			t.DueDate = &due
		}
	}
	return t, invalid(details)
}

type TransactionResponse struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Category    string          `json:"category,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	DueDate     *string         `json:"dueDate,omitempty"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func NewTransactionResponse(t domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		Type:        string(t.Type),
		Description: t.Description,
		Category:    t.Category,
		Amount:      t.Amount,
		Date:        FormatDate(t.Date),
		DueDate:     formatDatePtr(t.DueDate),
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func NewTransactionResponses(ts []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(ts))
	for i, t := range ts {
		out[i] = NewTransactionResponse(t)
	}
	return out
}

type NotificationResponse struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Date    time.Time `json:"date"`
	Read    bool      `json:"read"`
	Link    string    `json:"link,omitempty"`
}

func NewNotificationResponses(ns []domain.Notification) []NotificationResponse {
	out := make([]NotificationResponse, len(ns))
	for i, n := range ns {
		out[i] = NotificationResponse{
			ID:      n.ID,
			Type:    string(n.Type),
			Title:   n.Title,
			Message: n.Message,
			Date:    n.Date,
			Read:    n.Read,
			Link:    n.Link,
		}
	}
	return out
}
