package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Contract struct {
	ID              string
	ClientID        *string
	ClientName      string
	ContractType    ContractType
	Items           []string
	StartDate       time.Time
	EndDate         time.Time
	Status          ContractStatus
	TotalValue      decimal.Decimal
	PaidAmount      decimal.Decimal
	Balance         decimal.Decimal
	Signature       string
	ManualSignature bool
	Notes           string
	PickedUp        []string
	Returned        []string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (c *Contract) SetTotalValue(v decimal.Decimal) {
	c.TotalValue = v
	c.Balance = c.TotalValue.Sub(c.PaidAmount)
}

func (c *Contract) SetPaidAmount(v decimal.Decimal) {
	c.PaidAmount = v
	c.Balance = c.TotalValue.Sub(c.PaidAmount)
}

// Settle marks the contract as fully paid.
func (c *Contract) Settle() {
	c.SetPaidAmount(c.TotalValue)
}

func (c Contract) IsSigned() bool {
	return c.Signature != "" || c.ManualSignature
}

// Units counts how many units of itemID the contract commits.
func (c Contract) Units(itemID string) int {
	n := 0
	for _, id := range c.Items {
		if id == itemID {
			n++
		}
	}
	return n
}

// DistinctItemIDs returns the referenced item ids in first-seen order.
func (c Contract) DistinctItemIDs() []string {
	seen := make(map[string]struct{}, len(c.Items))
	ids := make([]string, 0, len(c.Items))
	for _, id := range c.Items {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// Clone returns a copy that shares no slices with c.
func (c Contract) Clone() Contract {
	out := c
	out.Items = append([]string(nil), c.Items...)
	out.PickedUp = append([]string(nil), c.PickedUp...)
	out.Returned = append([]string(nil), c.Returned...)
	if c.ClientID != nil {
		id := *c.ClientID
		out.ClientID = &id
	}
	return out
}

// HasPickedUp and HasReturned read the contract's own custody record. Item
// status is shared by every contract using that id, custody is not.
func (c Contract) HasPickedUp(itemID string) bool {
	return contains(c.PickedUp, itemID)
}

func (c Contract) HasReturned(itemID string) bool {
	return contains(c.Returned, itemID)
}

func (c *Contract) MarkPickedUp(itemID string) {
	if !contains(c.PickedUp, itemID) {
		c.PickedUp = append(c.PickedUp, itemID)
	}
}

func (c *Contract) MarkReturned(itemID string) {
	if !contains(c.Returned, itemID) {
		c.Returned = append(c.Returned, itemID)
	}
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
