package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Item struct {
	ID            string
	Name          string
	Category      string
	Size          string
	Color         string
	Price         decimal.Decimal
	TotalQuantity *int
	Status        ItemStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Quantity returns the number of physical units; single-unit when unset.
func (i Item) Quantity() int {
	if i.TotalQuantity == nil {
		return 1
	}
	return *i.TotalQuantity
}
