package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"locatrajes/internal/domain"
	apperrors "locatrajes/internal/errors"
	"locatrajes/internal/lifecycle"
)

func newInventoryUseCase(h *harness) *InventoryUseCase {
	return NewInventoryUseCase(h.store, zap.NewNop(), nil, 3)
}

func TestCreateItem_DefaultsToAvailable(t *testing.T) {
	h := newHarness(t, seed{})
	uc := newInventoryUseCase(h)

	created, err := uc.Create(context.Background(), domain.Item{Name: "Vestido longo", Price: decimal.NewFromInt(180)})
	require.NoError(t, err)
	assert.Equal(t, domain.ItemStatusAvailable, created.Status)
	assert.Equal(t, "srv-1", created.ID)
	assert.Len(t, uc.List(), 1)
}

func TestCreateItem_Validation(t *testing.T) {
	uc := newInventoryUseCase(newHarness(t, seed{}))
	zero := 0

	_, err := uc.Create(context.Background(), domain.Item{TotalQuantity: &zero, Price: decimal.NewFromInt(-1)})
	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Len(t, ve.Details, 3)
}

func TestUpdateItem_KeepsStatus(t *testing.T) {
	h := newHarness(t, seed{items: []domain.Item{item("a", domain.ItemStatusLaundry)}})
	uc := newInventoryUseCase(h)

	edit := item("a", domain.ItemStatusAvailable)
	edit.Name = "Terno azul"
	updated, err := uc.Update(context.Background(), edit)
	require.NoError(t, err)
	assert.Equal(t, "Terno azul", updated.Name)
	assert.Equal(t, domain.ItemStatusLaundry, updated.Status)
}

func TestDeleteItem_RefusedWhileInLiveContract(t *testing.T) {
	h := newHarness(t, seed{
		items: []domain.Item{item("a", domain.ItemStatusReserved), item("b", domain.ItemStatusAvailable)},
		contracts: []domain.Contract{
			contract("k1", domain.ContractStatusScheduled, date(12), date(14), "a"),
			contract("k2", domain.ContractStatusFinished, date(1), date(3), "b"),
		},
	})
	uc := newInventoryUseCase(h)

	err := uc.Delete(context.Background(), "a")
	ce, ok := apperrors.IsConflictError(err)
	require.True(t, ok)
	assert.Equal(t, CodeItemInUse, ce.Code)
	assert.Equal(t, []string{"k1"}, ce.IDs)

	require.NoError(t, uc.Delete(context.Background(), "b"))
	_, err = uc.Get("b")
	_, ok = apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestTriage_FinishesContractWhenLastItemComesBack(t *testing.T) {
	h := newHarness(t, seed{
		items:     []domain.Item{item("a", domain.ItemStatusQuarantine), item("b", domain.ItemStatusReturned)},
		contracts: []domain.Contract{returnedContract("k1", "a", "b")},
	})
	uc := newInventoryUseCase(h)

	it, err := uc.Triage(context.Background(), "a", domain.ItemStatusLaundry)
	require.NoError(t, err)
	assert.Equal(t, domain.ItemStatusLaundry, it.Status)

	c, ok := h.store.Contract("k1")
	require.True(t, ok)
	assert.Equal(t, domain.ContractStatusFinished, c.Status)
}

func returnedContract(id string, items ...string) domain.Contract {
	k := contract(id, domain.ContractStatusActive, date(5), date(9), items...)
	k.PickedUp = items
	k.Returned = items
	return k
}

func TestTriage_SharedItemLeavesOtherContractOpen(t *testing.T) {
	mine := contract("k1", domain.ContractStatusActive, date(5), date(9), "x")
	mine.PickedUp = []string{"x"}
	theirs := contract("k2", domain.ContractStatusActive, date(5), date(9), "x", "y")
	theirs.PickedUp = []string{"x", "y"}
	theirs.Returned = []string{"y"}
	theirs.SetTotalValue(decimal.NewFromInt(400))
	theirs.SetPaidAmount(decimal.NewFromInt(100))
	two := 2
	x := item("x", domain.ItemStatusRented)
	x.TotalQuantity = &two
	h := newHarness(t, seed{
		items:     []domain.Item{x, item("y", domain.ItemStatusReturned)},
		contracts: []domain.Contract{mine, theirs},
	})

	finished, err := newContractUseCase(h).ReturnItem(context.Background(), "k1", "x")
	require.NoError(t, err)
	assert.Equal(t, domain.ContractStatusFinished, finished.Status)

	_, err = newInventoryUseCase(h).Triage(context.Background(), "x", domain.ItemStatusLaundry)
	require.NoError(t, err)

	open, ok := h.store.Contract("k2")
	require.True(t, ok)
	assert.Equal(t, domain.ContractStatusActive, open.Status)
	assert.True(t, open.PaidAmount.Equal(decimal.NewFromInt(100)))
	assert.True(t, open.Balance.Equal(decimal.NewFromInt(300)))
}

func TestTriage_RejectsContractDrivenStatus(t *testing.T) {
	h := newHarness(t, seed{items: []domain.Item{item("a", domain.ItemStatusReserved)}})
	uc := newInventoryUseCase(h)

	_, err := uc.Triage(context.Background(), "a", domain.ItemStatusLaundry)
	ce, ok := apperrors.IsConflictError(err)
	require.True(t, ok)
	assert.Equal(t, lifecycle.CodeInvalidTransition, ce.Code)
	assert.Equal(t, domain.ItemStatusReserved, itemStatus(t, h, "a"))
}

func TestTriage_FailureRestoresItem(t *testing.T) {
	h := newHarness(t, seed{items: []domain.Item{item("a", domain.ItemStatusLaundry)}})
	h.changes.ApplyChangesetFunc = func(ctx context.Context, cs lifecycle.Changeset) error {
		return errBackend
	}
	uc := newInventoryUseCase(h)

	_, err := uc.Triage(context.Background(), "a", domain.ItemStatusAvailable)
	assert.ErrorIs(t, err, errBackend)
	assert.Equal(t, domain.ItemStatusLaundry, itemStatus(t, h, "a"))
}
