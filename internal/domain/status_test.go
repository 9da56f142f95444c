package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItemStatus_Offerable(t *testing.T) {
	offerable := map[ItemStatus]bool{
		ItemStatusAvailable:  true,
		ItemStatusReserved:   true,
		ItemStatusRented:     true,
		ItemStatusReturned:   false,
		ItemStatusLaundry:    false,
		ItemStatusAtelier:    false,
		ItemStatusQuarantine: false,
	}

	for status, want := range offerable {
		assert.Equal(t, want, status.Offerable(), string(status))
	}
}

func TestItemStatus_PostReturn(t *testing.T) {
	assert.True(t, ItemStatusReturned.PostReturn())
	assert.True(t, ItemStatusLaundry.PostReturn())
	assert.True(t, ItemStatusAtelier.PostReturn())
	assert.True(t, ItemStatusAvailable.PostReturn())
	assert.False(t, ItemStatusRented.PostReturn())
	assert.False(t, ItemStatusReserved.PostReturn())
	assert.False(t, ItemStatusQuarantine.PostReturn())
}

func TestParseStatuses(t *testing.T) {
	st, err := ParseItemStatus("Na Lavanderia")
	assert.NoError(t, err)
	assert.Equal(t, ItemStatusLaundry, st)

	_, err = ParseItemStatus("Perdido")
	assert.Error(t, err)

	cs, err := ParseContractStatus("Ativo")
	assert.NoError(t, err)
	assert.Equal(t, ContractStatusActive, cs)
	assert.False(t, cs.Terminal())
	assert.True(t, ContractStatusCanceled.Terminal())

	_, err = ParseContractStatus("ACTIVE")
	assert.Error(t, err)
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, ContractTypeRental.Valid())
	assert.False(t, ContractType("Troca").Valid())
	assert.True(t, AppointmentTypeFitting.Valid())
	assert.True(t, AppointmentStatusDone.Valid())
	assert.True(t, TransactionTypeExpense.Valid())
	assert.True(t, TransactionStatusPending.Valid())
	assert.True(t, RoleAttendant.Valid())
	assert.False(t, Role("root").Valid())
}
