package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"locatrajes/internal/domain"
)

const transactionColumns = `id, type, description, category, amount, date, due_date, status, created_at, updated_at`

type MySQLTransactionRepository struct {
	db *sql.DB
}

func NewMySQLTransactionRepository(db *sql.DB) *MySQLTransactionRepository {
	return &MySQLTransactionRepository{db: db}
}

func (r *MySQLTransactionRepository) List(ctx context.Context) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+transactionColumns+` FROM transactions ORDER BY date DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		var (
			t       domain.Transaction
			txType  string
			status  string
			dueDate sql.NullTime
		)
		err := rows.Scan(
			&t.ID, &txType, &t.Description, &t.Category, &t.Amount, &t.Date,
			&dueDate, &status, &t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction row: %w", err)
		}
		t.Type = domain.TransactionType(txType)
		t.Status = domain.TransactionStatus(status)
		if dueDate.Valid {
			d := dueDate.Time
			t.DueDate = &d
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}
	return transactions, nil
}

func dueDateArg(d *time.Time) interface{} {
	if d == nil {
		return nil
	}
	return domain.NormalizeDate(*d)
}

func (r *MySQLTransactionRepository) Create(ctx context.Context, t domain.Transaction) (domain.Transaction, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := time.Now().UTC().Truncate(time.Second)
	t.CreatedAt, t.UpdatedAt = now, now

	query := `
		INSERT INTO transactions (id, type, description, category, amount, date, due_date, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		t.ID, string(t.Type), t.Description, t.Category, t.Amount,
		domain.NormalizeDate(t.Date), dueDateArg(t.DueDate), string(t.Status),
		t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("inserting transaction: %w", err)
	}
	return t, nil
}

func (r *MySQLTransactionRepository) Update(ctx context.Context, t domain.Transaction) (domain.Transaction, error) {
	t.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	query := `
		UPDATE transactions
		SET type = ?, description = ?, category = ?, amount = ?, date = ?, due_date = ?, status = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		string(t.Type), t.Description, t.Category, t.Amount,
		domain.NormalizeDate(t.Date), dueDateArg(t.DueDate), string(t.Status),
		t.UpdatedAt, t.ID,
	)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("updating transaction: %w", err)
	}
	if err := expectAffected(result, "transaction", t.ID); err != nil {
		return domain.Transaction{}, err
	}
	return t, nil
}

func (r *MySQLTransactionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}
	return expectAffected(result, "transaction", id)
}
