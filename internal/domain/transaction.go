package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a manual financial entry, outside any contract.
type Transaction struct {
	ID          string
	Type        TransactionType
	Description string
	Category    string
	Amount      decimal.Decimal
	Date        time.Time
	DueDate     *time.Time
	Status      TransactionStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Notification struct {
	ID      string
	Type    NotificationType
	Title   string
	Message string
	Date    time.Time
	Read    bool
	Link    string
}
