package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"locatrajes/internal/domain"
	"locatrajes/internal/errors"
)

const itemColumns = `id, name, category, size, color, price, total_quantity, status, created_at, updated_at`

type MySQLItemRepository struct {
	db *sql.DB
}

func NewMySQLItemRepository(db *sql.DB) *MySQLItemRepository {
	return &MySQLItemRepository{db: db}
}

func scanItem(scan func(dest ...interface{}) error) (domain.Item, error) {
	var (
		it       domain.Item
		quantity sql.NullInt64
		status   string
	)
	err := scan(
		&it.ID, &it.Name, &it.Category, &it.Size, &it.Color, &it.Price,
		&quantity, &status, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return it, err
	}
	if quantity.Valid {
		q := int(quantity.Int64)
		it.TotalQuantity = &q
	}
	it.Status = domain.ItemStatus(status)
	return it, nil
}

func queryItems(ctx context.Context, q querier, query string, args ...interface{}) ([]domain.Item, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		it, err := scanItem(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning item row: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating item rows: %w", err)
	}
	return items, nil
}

func (r *MySQLItemRepository) List(ctx context.Context) ([]domain.Item, error) {
	return queryItems(ctx, r.db, `SELECT `+itemColumns+` FROM items ORDER BY name, id`)
}

func (r *MySQLItemRepository) FindByID(ctx context.Context, id string) (*domain.Item, error) {
	it, err := scanItem(r.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id).Scan)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("item with id %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying item by id: %w", err)
	}
	return &it, nil
}

// FindByIDsForUpdate locks the item rows in ascending id order so concurrent
// bookings of overlapping item sets acquire locks in the same sequence.
func (r *MySQLItemRepository) FindByIDsForUpdate(ctx context.Context, tx *sql.Tx, ids []string) ([]domain.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	placeholders, args := inClause(sorted)
	query := fmt.Sprintf(`SELECT %s FROM items WHERE id IN (%s) ORDER BY id FOR UPDATE`, itemColumns, placeholders)
	return queryItems(ctx, tx, query, args...)
}

func (r *MySQLItemRepository) Create(ctx context.Context, it domain.Item) (domain.Item, error) {
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	if it.Status == "" {
		it.Status = domain.ItemStatusAvailable
	}
	now := time.Now().UTC().Truncate(time.Second)
	it.CreatedAt, it.UpdatedAt = now, now

	query := `
		INSERT INTO items (id, name, category, size, color, price, total_quantity, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		it.ID, it.Name, it.Category, it.Size, it.Color, it.Price,
		quantityArg(it.TotalQuantity), string(it.Status), it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		return domain.Item{}, fmt.Errorf("inserting item: %w", err)
	}
	return it, nil
}

func (r *MySQLItemRepository) Update(ctx context.Context, it domain.Item) (domain.Item, error) {
	it.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	query := `
		UPDATE items
		SET name = ?, category = ?, size = ?, color = ?, price = ?, total_quantity = ?, status = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		it.Name, it.Category, it.Size, it.Color, it.Price,
		quantityArg(it.TotalQuantity), string(it.Status), it.UpdatedAt, it.ID,
	)
	if err != nil {
		return domain.Item{}, fmt.Errorf("updating item: %w", err)
	}
	if err := expectAffected(result, "item", it.ID); err != nil {
		return domain.Item{}, err
	}
	return it, nil
}

func (r *MySQLItemRepository) UpdateStatus(ctx context.Context, tx *sql.Tx, id string, status domain.ItemStatus) error {
	query := `UPDATE items SET status = ?, updated_at = ? WHERE id = ?`

	result, err := tx.ExecContext(ctx, query, string(status), time.Now().UTC().Truncate(time.Second), id)
	if err != nil {
		return fmt.Errorf("updating item status: %w", err)
	}
	return expectAffected(result, "item", id)
}

func (r *MySQLItemRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return expectAffected(result, "item", id)
}

func quantityArg(q *int) interface{} {
	if q == nil {
		return nil
	}
	return *q
}
