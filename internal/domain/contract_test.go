package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestContract_BalanceFollowsTotalAndPaid(t *testing.T) {
	c := Contract{}

	c.SetTotalValue(decimal.NewFromInt(300))
	assert.True(t, c.Balance.Equal(decimal.NewFromInt(300)))

	c.SetPaidAmount(decimal.NewFromInt(120))
	assert.True(t, c.Balance.Equal(decimal.NewFromInt(180)))

	c.SetTotalValue(decimal.NewFromInt(250))
	assert.True(t, c.Balance.Equal(decimal.NewFromInt(130)))
}

func TestContract_Settle(t *testing.T) {
	c := Contract{}
	c.SetTotalValue(decimal.RequireFromString("199.90"))
	c.SetPaidAmount(decimal.NewFromInt(50))

	c.Settle()

	assert.True(t, c.PaidAmount.Equal(c.TotalValue))
	assert.True(t, c.Balance.IsZero())
}

func TestContract_IsSigned(t *testing.T) {
	tests := []struct {
		name     string
		contract Contract
		signed   bool
	}{
		{name: "unsigned", contract: Contract{}, signed: false},
		{name: "electronic signature", contract: Contract{Signature: "data:image/png;base64,AAA"}, signed: true},
		{name: "manual flag", contract: Contract{ManualSignature: true}, signed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.signed, tt.contract.IsSigned())
		})
	}
}

func TestContract_UnitsAndDistinct(t *testing.T) {
	c := Contract{Items: []string{"a", "b", "a", "c", "a"}}

	assert.Equal(t, 3, c.Units("a"))
	assert.Equal(t, 1, c.Units("b"))
	assert.Equal(t, 0, c.Units("z"))
	assert.Equal(t, []string{"a", "b", "c"}, c.DistinctItemIDs())
}

func TestContract_CloneDoesNotShareItems(t *testing.T) {
	clientID := "client-1"
	c := Contract{Items: []string{"a"}, ClientID: &clientID}

	cp := c.Clone()
	cp.Items[0] = "b"
	*cp.ClientID = "client-2"

	assert.Equal(t, "a", c.Items[0])
	assert.Equal(t, "client-1", *c.ClientID)
}

func TestItem_QuantityDefaultsToOne(t *testing.T) {
	three := 3

	assert.Equal(t, 1, Item{}.Quantity())
	assert.Equal(t, 3, Item{TotalQuantity: &three}.Quantity())
}

func TestNormalizeDate(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	late := time.Date(2026, 3, 10, 23, 30, 0, 0, loc)

	got := NormalizeDate(late)

	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, 2, DaysBetween(late, AddDays(late, 2)))
}
