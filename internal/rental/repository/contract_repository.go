package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"locatrajes/internal/domain"
	"locatrajes/internal/errors"
)

const contractColumns = `id, client_id, client_name, contract_type, start_date, end_date, status,
	total_value, paid_amount, signature, manual_signature, notes, created_at, updated_at`

type MySQLContractRepository struct {
	db *sql.DB
}

func NewMySQLContractRepository(db *sql.DB) *MySQLContractRepository {
	return &MySQLContractRepository{db: db}
}

func scanContract(scan func(dest ...interface{}) error) (domain.Contract, error) {
	var (
		c            domain.Contract
		clientID     sql.NullString
		contractType string
		status       string
		signature    sql.NullString
		notes        sql.NullString
	)
	err := scan(
		&c.ID, &clientID, &c.ClientName, &contractType, &c.StartDate, &c.EndDate, &status,
		&c.TotalValue, &c.PaidAmount, &signature, &c.ManualSignature, &notes,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return c, err
	}
	c.ClientID = stringPtr(clientID)
	c.ContractType = domain.ContractType(contractType)
	c.Status = domain.ContractStatus(status)
	c.Signature = signature.String
	c.Notes = notes.String
	c.SetPaidAmount(c.PaidAmount)
	return c, nil
}

func (r *MySQLContractRepository) queryContracts(ctx context.Context, q querier, query string, args ...interface{}) ([]domain.Contract, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying contracts: %w", err)
	}
	defer rows.Close()

	var contracts []domain.Contract
	for rows.Next() {
		c, err := scanContract(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning contract row: %w", err)
		}
		contracts = append(contracts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contract rows: %w", err)
	}

	if err := r.attachItems(ctx, q, contracts); err != nil {
		return nil, err
	}
	return contracts, nil
}

// attachItems fills each contract's ordered item list and custody record
// from contract_items.
func (r *MySQLContractRepository) attachItems(ctx context.Context, q querier, contracts []domain.Contract) error {
	if len(contracts) == 0 {
		return nil
	}
	ids := make([]string, len(contracts))
	for i, c := range contracts {
		ids[i] = c.ID
	}
	placeholders, args := inClause(ids)
	query := fmt.Sprintf(`
		SELECT contract_id, item_id, picked_up, returned
		FROM contract_items
		WHERE contract_id IN (%s)
		ORDER BY contract_id, position`, placeholders)

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("querying contract items: %w", err)
	}
	defer rows.Close()

	byContract := make(map[string]*domain.Contract, len(contracts))
	for i := range contracts {
		byContract[contracts[i].ID] = &contracts[i]
	}
	for rows.Next() {
		var (
			contractID, itemID string
			pickedUp, returned bool
		)
		if err := rows.Scan(&contractID, &itemID, &pickedUp, &returned); err != nil {
			return fmt.Errorf("scanning contract item row: %w", err)
		}
		c, ok := byContract[contractID]
		if !ok {
			continue
		}
		c.Items = append(c.Items, itemID)
		if pickedUp {
			c.MarkPickedUp(itemID)
		}
		if returned {
			c.MarkReturned(itemID)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating contract item rows: %w", err)
	}
	return nil
}

func (r *MySQLContractRepository) List(ctx context.Context) ([]domain.Contract, error) {
	return r.queryContracts(ctx, r.db, `SELECT `+contractColumns+` FROM contracts ORDER BY start_date, id`)
}

func (r *MySQLContractRepository) FindByID(ctx context.Context, id string) (*domain.Contract, error) {
	contracts, err := r.queryContracts(ctx, r.db, `SELECT `+contractColumns+` FROM contracts WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(contracts) == 0 {
		return nil, errors.NewNotFoundError(fmt.Sprintf("contract with id %s not found", id))
	}
	return &contracts[0], nil
}

func (r *MySQLContractRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id string) (*domain.Contract, error) {
	contracts, err := r.queryContracts(ctx, tx, `SELECT `+contractColumns+` FROM contracts WHERE id = ? FOR UPDATE`, id)
	if err != nil {
		return nil, err
	}
	if len(contracts) == 0 {
		return nil, errors.NewNotFoundError(fmt.Sprintf("contract with id %s not found", id))
	}
	return &contracts[0], nil
}

// FindLiveByItemIDs returns the non-terminal contracts that reference any of
// itemIDs and whose date range touches [from, to].
func (r *MySQLContractRepository) FindLiveByItemIDs(ctx context.Context, tx *sql.Tx, itemIDs []string, from, to time.Time) ([]domain.Contract, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	placeholders, args := inClause(itemIDs)
	query := fmt.Sprintf(`
		SELECT %s
		FROM contracts
		WHERE status NOT IN (?, ?)
		  AND start_date <= ?
		  AND end_date >= ?
		  AND id IN (SELECT contract_id FROM contract_items WHERE item_id IN (%s))
		ORDER BY id`, contractColumns, placeholders)

	all := append([]interface{}{
		string(domain.ContractStatusFinished), string(domain.ContractStatusCanceled), to, from,
	}, args...)
	return r.queryContracts(ctx, tx, query, all...)
}

func (r *MySQLContractRepository) Insert(ctx context.Context, tx *sql.Tx, c domain.Contract) error {
	query := `
		INSERT INTO contracts (id, client_id, client_name, contract_type, start_date, end_date, status,
		                       total_value, paid_amount, signature, manual_signature, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := tx.ExecContext(ctx, query,
		c.ID, nullString(c.ClientID), c.ClientName, string(c.ContractType),
		domain.NormalizeDate(c.StartDate), domain.NormalizeDate(c.EndDate), string(c.Status),
		c.TotalValue, c.PaidAmount, c.Signature, c.ManualSignature, c.Notes,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting contract: %w", err)
	}
	return r.ReplaceItems(ctx, tx, c)
}

func (r *MySQLContractRepository) Update(ctx context.Context, tx *sql.Tx, c domain.Contract) error {
	query := `
		UPDATE contracts
		SET client_id = ?, client_name = ?, contract_type = ?, start_date = ?, end_date = ?, status = ?,
		    total_value = ?, paid_amount = ?, signature = ?, manual_signature = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := tx.ExecContext(ctx, query,
		nullString(c.ClientID), c.ClientName, string(c.ContractType),
		domain.NormalizeDate(c.StartDate), domain.NormalizeDate(c.EndDate), string(c.Status),
		c.TotalValue, c.PaidAmount, c.Signature, c.ManualSignature, c.Notes, c.UpdatedAt,
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating contract: %w", err)
	}
	if err := expectAffected(result, "contract", c.ID); err != nil {
		return err
	}
	return r.ReplaceItems(ctx, tx, c)
}

// UpdateState persists the fields a status transition may change.
func (r *MySQLContractRepository) UpdateState(ctx context.Context, tx *sql.Tx, c domain.Contract) error {
	query := `
		UPDATE contracts
		SET status = ?, total_value = ?, paid_amount = ?, signature = ?, manual_signature = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := tx.ExecContext(ctx, query,
		string(c.Status), c.TotalValue, c.PaidAmount, c.Signature, c.ManualSignature,
		time.Now().UTC().Truncate(time.Second), c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating contract state: %w", err)
	}
	if err := expectAffected(result, "contract", c.ID); err != nil {
		return err
	}
	return r.updateCustody(ctx, tx, c)
}

// updateCustody rewrites the picked_up and returned flags of every row of c.
func (r *MySQLContractRepository) updateCustody(ctx context.Context, tx *sql.Tx, c domain.Contract) error {
	query := `UPDATE contract_items SET picked_up = ?, returned = ? WHERE contract_id = ? AND item_id = ?`
	seen := make(map[string]bool, len(c.Items))
	for _, itemID := range c.Items {
		if seen[itemID] {
			continue
		}
		seen[itemID] = true
		if _, err := tx.ExecContext(ctx, query, c.HasPickedUp(itemID), c.HasReturned(itemID), c.ID, itemID); err != nil {
			return fmt.Errorf("updating contract item custody: %w", err)
		}
	}
	return nil
}

func (r *MySQLContractRepository) ReplaceItems(ctx context.Context, tx *sql.Tx, c domain.Contract) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM contract_items WHERE contract_id = ?`, c.ID); err != nil {
		return fmt.Errorf("clearing contract items: %w", err)
	}

	query := `INSERT INTO contract_items (contract_id, position, item_id, picked_up, returned) VALUES (?, ?, ?, ?, ?)`
	for pos, itemID := range c.Items {
		if _, err := tx.ExecContext(ctx, query, c.ID, pos, itemID, c.HasPickedUp(itemID), c.HasReturned(itemID)); err != nil {
			return fmt.Errorf("inserting contract item: %w", err)
		}
	}
	return nil
}

func (r *MySQLContractRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM contracts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting contract: %w", err)
	}
	return expectAffected(result, "contract", id)
}
