package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"locatrajes/internal/domain"
	"locatrajes/internal/errors"
	"locatrajes/internal/testutil"
)

// Unit Tests

func TestNewRepositories(t *testing.T) {
	db := &sql.DB{}

	assert.Equal(t, db, NewMySQLItemRepository(db).db)
	assert.Equal(t, db, NewMySQLContractRepository(db).db)
	assert.Equal(t, db, NewMySQLClientRepository(db).db)
	assert.Equal(t, db, NewMySQLAppointmentRepository(db).db)
	assert.Equal(t, db, NewMySQLTransactionRepository(db).db)
	assert.Equal(t, db, NewMySQLNotificationRepository(db).db)
}

func TestInClause(t *testing.T) {
	placeholders, args := inClause([]string{"a", "b", "c"})

	assert.Equal(t, "?, ?, ?", placeholders)
	assert.Equal(t, []interface{}{"a", "b", "c"}, args)
}

func TestNullStringRoundTrip(t *testing.T) {
	empty := ""
	id := "client-1"

	assert.False(t, nullString(nil).Valid)
	assert.False(t, nullString(&empty).Valid)
	assert.Equal(t, "client-1", *stringPtr(nullString(&id)))
	assert.Nil(t, stringPtr(sql.NullString{}))
}

// Integration Tests

func setup(t *testing.T) *sql.DB {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })
	return db
}

func TestItemRepository_CRUD(t *testing.T) {
	db := setup(t)
	repo := NewMySQLItemRepository(db)
	ctx := context.Background()

	qty := 2
	created, err := repo.Create(ctx, domain.Item{
		Name:          "Smoking",
		Category:      "Ternos",
		Size:          "48",
		Price:         decimal.RequireFromString("350.00"),
		TotalQuantity: &qty,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, domain.ItemStatusAvailable, created.Status)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Smoking", found.Name)
	assert.Equal(t, 2, found.Quantity())
	assert.True(t, found.Price.Equal(decimal.RequireFromString("350")))

	found.Status = domain.ItemStatusLaundry
	_, err = repo.Update(ctx, *found)
	require.NoError(t, err)

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, domain.ItemStatusLaundry, items[0].Status)

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.FindByID(ctx, created.ID)
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestItemRepository_UpdateNotFound(t *testing.T) {
	db := setup(t)
	repo := NewMySQLItemRepository(db)

	_, err := repo.Update(context.Background(), domain.Item{ID: "ghost", Name: "x", Status: domain.ItemStatusAvailable})
	nfe, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
	assert.NotNil(t, nfe)
}

func TestContractRepository_ItemsKeepOrderAndDuplicates(t *testing.T) {
	db := setup(t)
	repo := NewMySQLContractRepository(db)
	ctx := context.Background()

	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	c := domain.Contract{
		ID:           "k1",
		ClientName:   "João",
		ContractType: domain.ContractTypeRental,
		Items:        []string{"b", "a", "b"},
		StartDate:    start,
		EndDate:      start.AddDate(0, 0, 2),
		Status:       domain.ContractStatusScheduled,
		CreatedAt:    start,
		UpdatedAt:    start,
	}
	c.SetTotalValue(decimal.NewFromInt(500))
	c.SetPaidAmount(decimal.NewFromInt(200))

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Insert(ctx, tx, c))
	require.NoError(t, tx.Commit())

	found, err := repo.FindByID(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "b"}, found.Items)
	assert.Nil(t, found.ClientID)
	assert.True(t, found.Balance.Equal(decimal.NewFromInt(300)))
	assert.True(t, found.StartDate.Equal(start))
}

func TestContractRepository_CustodyPersisted(t *testing.T) {
	db := setup(t)
	repo := NewMySQLContractRepository(db)
	ctx := context.Background()

	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	c := domain.Contract{
		ID:           "k1",
		ContractType: domain.ContractTypeRental,
		Items:        []string{"x", "y"},
		StartDate:    start,
		EndDate:      start.AddDate(0, 0, 2),
		Status:       domain.ContractStatusActive,
		CreatedAt:    start,
		UpdatedAt:    start,
	}
	c.MarkPickedUp("x")

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Insert(ctx, tx, c))
	require.NoError(t, tx.Commit())

	found, err := repo.FindByID(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, found.PickedUp)
	assert.Empty(t, found.Returned)

	found.MarkPickedUp("y")
	found.MarkReturned("x")
	tx, err = db.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, repo.UpdateState(ctx, tx, *found))
	require.NoError(t, tx.Commit())

	found, err = repo.FindByID(ctx, "k1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"x", "y"}, found.PickedUp)
	assert.Equal(t, []string{"x"}, found.Returned)
	assert.True(t, found.HasReturned("x"))
	assert.False(t, found.HasReturned("y"))
}

func TestContractRepository_FindLiveByItemIDs(t *testing.T) {
	db := setup(t)
	repo := NewMySQLContractRepository(db)
	ctx := context.Background()
	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	insert := func(id string, status domain.ContractStatus, offset int, items ...string) {
		tx, err := db.BeginTx(ctx, nil)
		require.NoError(t, err)
		require.NoError(t, repo.Insert(ctx, tx, domain.Contract{
			ID:           id,
			ContractType: domain.ContractTypeRental,
			Items:        items,
			StartDate:    start.AddDate(0, 0, offset),
			EndDate:      start.AddDate(0, 0, offset+1),
			Status:       status,
			CreatedAt:    start,
			UpdatedAt:    start,
		}))
		require.NoError(t, tx.Commit())
	}
	insert("live", domain.ContractStatusActive, 0, "a")
	insert("cancelled", domain.ContractStatusCanceled, 0, "a")
	insert("far", domain.ContractStatusScheduled, 30, "a")
	insert("other-item", domain.ContractStatusScheduled, 0, "z")

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	found, err := repo.FindLiveByItemIDs(ctx, tx, []string{"a"}, start, start.AddDate(0, 0, 5))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "live", found[0].ID)
	assert.Equal(t, []string{"a"}, found[0].Items)
}

func TestTransactionRepository_DueDateNullable(t *testing.T) {
	db := setup(t)
	repo := NewMySQLTransactionRepository(db)
	ctx := context.Background()
	due := time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)

	_, err := repo.Create(ctx, domain.Transaction{
		Type:    domain.TransactionTypeExpense,
		Amount:  decimal.NewFromInt(120),
		Date:    due,
		DueDate: &due,
		Status:  domain.TransactionStatusPending,
	})
	require.NoError(t, err)
	_, err = repo.Create(ctx, domain.Transaction{
		Type:   domain.TransactionTypeIncome,
		Amount: decimal.NewFromInt(80),
		Date:   due,
		Status: domain.TransactionStatusPaid,
	})
	require.NoError(t, err)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	withDue := 0
	for _, tr := range all {
		if tr.DueDate != nil {
			withDue++
			assert.True(t, tr.DueDate.Equal(due))
		}
	}
	assert.Equal(t, 1, withDue)
}

func TestNotificationRepository_KeepsID(t *testing.T) {
	db := setup(t)
	repo := NewMySQLNotificationRepository(db)
	ctx := context.Background()

	n, err := repo.Create(ctx, domain.Notification{
		ID:      "fin-due-tx1",
		Type:    domain.NotificationWarning,
		Title:   "Conta a vencer",
		Message: "Aluguel da loja vence em 2 dias",
		Date:    time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "fin-due-tx1", n.ID)

	n.Read = true
	_, err = repo.Update(ctx, n)
	require.NoError(t, err)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].Read)
}
