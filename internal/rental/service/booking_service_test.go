package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"locatrajes/internal/availability"
	"locatrajes/internal/domain"
	apperrors "locatrajes/internal/errors"
	"locatrajes/internal/lifecycle"
	"locatrajes/internal/rental/repository"
	"locatrajes/internal/testutil"
)

var day = time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

func intPtr(i int) *int {
	return &i
}

type mockTransactionManager struct {
	BeginTxFunc func(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

func (m *mockTransactionManager) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	return m.BeginTxFunc(ctx, opts)
}

func contract(id string, status domain.ContractStatus, start, end time.Time, items ...string) domain.Contract {
	return domain.Contract{
		ID:           id,
		ClientName:   "Maria",
		ContractType: domain.ContractTypeRental,
		Items:        items,
		StartDate:    start,
		EndDate:      end,
		Status:       status,
	}
}

func TestCheckBooking_RejectsOverlapWithinBuffer(t *testing.T) {
	e := availability.NewEvaluator(availability.DefaultBufferDays)
	items := []domain.Item{{ID: "terno-1", Status: domain.ItemStatusAvailable}}
	existing := []domain.Contract{contract("k1", domain.ContractStatusScheduled, day, day.AddDate(0, 0, 2), "terno-1")}

	next := contract("k2", domain.ContractStatusScheduled, day.AddDate(0, 0, 4), day.AddDate(0, 0, 5), "terno-1")
	err := CheckBooking(e, items, existing, next, "")

	ce, ok := apperrors.IsConflictError(err)
	require.True(t, ok)
	assert.Equal(t, availability.CodeItemUnavailable, ce.Code)
	assert.Equal(t, []string{"terno-1"}, ce.IDs)

	next = contract("k2", domain.ContractStatusScheduled, day.AddDate(0, 0, 5), day.AddDate(0, 0, 6), "terno-1")
	assert.NoError(t, CheckBooking(e, items, existing, next, ""))
}

func TestCheckBooking_MultiUnitAndSelfExclusion(t *testing.T) {
	e := availability.NewEvaluator(availability.DefaultBufferDays)
	items := []domain.Item{{ID: "gravata", Status: domain.ItemStatusAvailable, TotalQuantity: intPtr(3)}}
	existing := []domain.Contract{contract("k1", domain.ContractStatusActive, day, day, "gravata", "gravata")}

	assert.NoError(t, CheckBooking(e, items, existing,
		contract("k2", domain.ContractStatusDraft, day, day, "gravata"), ""))
	assert.Error(t, CheckBooking(e, items, existing,
		contract("k2", domain.ContractStatusDraft, day, day, "gravata", "gravata"), ""))
	assert.NoError(t, CheckBooking(e, items, existing,
		contract("k1", domain.ContractStatusActive, day, day, "gravata", "gravata", "gravata"), "k1"))
}

func TestCheckBooking_MissingItemIsUnavailable(t *testing.T) {
	e := availability.NewEvaluator(availability.DefaultBufferDays)

	err := CheckBooking(e, nil, nil, contract("k1", domain.ContractStatusDraft, day, day, "ghost"), "")

	ce, ok := apperrors.IsConflictError(err)
	require.True(t, ok)
	assert.Equal(t, []string{"ghost"}, ce.IDs)
}

func TestCreate_BeginTxFailure(t *testing.T) {
	beginErr := errors.New("connection refused")
	txMgr := &mockTransactionManager{
		BeginTxFunc: func(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
			assert.Equal(t, sql.LevelRepeatableRead, opts.Isolation)
			return nil, beginErr
		},
	}
	svc := NewBookingService(txMgr, nil, nil, availability.NewEvaluator(2), zap.NewNop(), time.Second)

	_, err := svc.Create(context.Background(), contract("", domain.ContractStatusDraft, day, day, "a"))
	assert.ErrorIs(t, err, beginErr)

	err = svc.ApplyChangeset(context.Background(), lifecycle.Changeset{Items: []domain.Item{{ID: "a"}}})
	assert.ErrorIs(t, err, beginErr)
}

// Integration Tests

func newIntegrationService(t *testing.T) (*BookingService, *repository.MySQLItemRepository, *sql.DB) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	itemRepo := repository.NewMySQLItemRepository(db)
	svc := NewBookingService(db, itemRepo, repository.NewMySQLContractRepository(db),
		availability.NewEvaluator(availability.DefaultBufferDays), zap.NewNop(), 5*time.Second)
	return svc, itemRepo, db
}

func TestBookingService_CreateRejectsOverbooking(t *testing.T) {
	svc, itemRepo, _ := newIntegrationService(t)
	ctx := context.Background()

	_, err := itemRepo.Create(ctx, domain.Item{ID: "vestido-azul", Name: "Vestido azul", Status: domain.ItemStatusAvailable})
	require.NoError(t, err)

	first, err := svc.Create(ctx, contract("", domain.ContractStatusScheduled, day, day.AddDate(0, 0, 2), "vestido-azul"))
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	_, err = svc.Create(ctx, contract("", domain.ContractStatusScheduled, day.AddDate(0, 0, 3), day.AddDate(0, 0, 4), "vestido-azul"))
	_, ok := apperrors.IsConflictError(err)
	assert.True(t, ok)

	_, err = svc.Create(ctx, contract("", domain.ContractStatusScheduled, day.AddDate(0, 0, 5), day.AddDate(0, 0, 6), "vestido-azul"))
	assert.NoError(t, err)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestBookingService_ApplyChangeset(t *testing.T) {
	svc, itemRepo, _ := newIntegrationService(t)
	ctx := context.Background()

	_, err := itemRepo.Create(ctx, domain.Item{ID: "terno-preto", Name: "Terno preto", Status: domain.ItemStatusReserved})
	require.NoError(t, err)
	c, err := svc.Create(ctx, contract("", domain.ContractStatusScheduled, day, day, "terno-preto"))
	require.NoError(t, err)

	items := map[string]domain.Item{"terno-preto": {ID: "terno-preto", Status: domain.ItemStatusReserved}}
	cs, err := lifecycle.Cancel(c, items)
	require.NoError(t, err)
	require.NoError(t, svc.ApplyChangeset(ctx, cs))

	stored, err := itemRepo.FindByID(ctx, "terno-preto")
	require.NoError(t, err)
	assert.Equal(t, domain.ItemStatusAvailable, stored.Status)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, domain.ContractStatusCanceled, all[0].Status)
	assert.Equal(t, []string{"terno-preto"}, all[0].Items)
}
