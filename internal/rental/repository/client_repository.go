package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"locatrajes/internal/domain"
	"locatrajes/internal/errors"
)

const clientColumns = `id, name, email, phone, document, cep, street, number, complement, neighborhood, city, state, created_at, updated_at`

type MySQLClientRepository struct {
	db *sql.DB
}

func NewMySQLClientRepository(db *sql.DB) *MySQLClientRepository {
	return &MySQLClientRepository{db: db}
}

func scanClient(scan func(dest ...interface{}) error) (domain.Client, error) {
	var c domain.Client
	err := scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Document,
		&c.Address.CEP, &c.Address.Street, &c.Address.Number, &c.Address.Complement,
		&c.Address.Neighborhood, &c.Address.City, &c.Address.State,
		&c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

func (r *MySQLClientRepository) List(ctx context.Context) ([]domain.Client, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("querying clients: %w", err)
	}
	defer rows.Close()

	var clients []domain.Client
	for rows.Next() {
		c, err := scanClient(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning client row: %w", err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating client rows: %w", err)
	}
	return clients, nil
}

func (r *MySQLClientRepository) FindByID(ctx context.Context, id string) (*domain.Client, error) {
	c, err := scanClient(r.db.QueryRowContext(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = ?`, id).Scan)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("client with id %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying client by id: %w", err)
	}
	return &c, nil
}

func (r *MySQLClientRepository) Create(ctx context.Context, c domain.Client) (domain.Client, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC().Truncate(time.Second)
	c.CreatedAt, c.UpdatedAt = now, now

	query := `
		INSERT INTO clients (id, name, email, phone, document, cep, street, number, complement,
		                     neighborhood, city, state, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.Name, c.Email, c.Phone, c.Document,
		c.Address.CEP, c.Address.Street, c.Address.Number, c.Address.Complement,
		c.Address.Neighborhood, c.Address.City, c.Address.State,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return domain.Client{}, fmt.Errorf("inserting client: %w", err)
	}
	return c, nil
}

func (r *MySQLClientRepository) Update(ctx context.Context, c domain.Client) (domain.Client, error) {
	c.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	query := `
		UPDATE clients
		SET name = ?, email = ?, phone = ?, document = ?, cep = ?, street = ?, number = ?,
		    complement = ?, neighborhood = ?, city = ?, state = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		c.Name, c.Email, c.Phone, c.Document,
		c.Address.CEP, c.Address.Street, c.Address.Number, c.Address.Complement,
		c.Address.Neighborhood, c.Address.City, c.Address.State,
		c.UpdatedAt, c.ID,
	)
	if err != nil {
		return domain.Client{}, fmt.Errorf("updating client: %w", err)
	}
	if err := expectAffected(result, "client", c.ID); err != nil {
		return domain.Client{}, err
	}
	return c, nil
}

func (r *MySQLClientRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting client: %w", err)
	}
	return expectAffected(result, "client", id)
}
