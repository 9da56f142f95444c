package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"locatrajes/internal/domain"
	"locatrajes/internal/errors"
)

// erDupEntry is MySQL's duplicate primary key error.
const erDupEntry = 1062

type MySQLNotificationRepository struct {
	db *sql.DB
}

func NewMySQLNotificationRepository(db *sql.DB) *MySQLNotificationRepository {
	return &MySQLNotificationRepository{db: db}
}

func (r *MySQLNotificationRepository) List(ctx context.Context) ([]domain.Notification, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, type, title, message, date, is_read, link FROM notifications ORDER BY date DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("querying notifications: %w", err)
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var (
			n     domain.Notification
			nType string
		)
		if err := rows.Scan(&n.ID, &nType, &n.Title, &n.Message, &n.Date, &n.Read, &n.Link); err != nil {
			return nil, fmt.Errorf("scanning notification row: %w", err)
		}
		n.Type = domain.NotificationType(nType)
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notification rows: %w", err)
	}
	return notifications, nil
}

// Create keeps the caller's id when set; alert ids are derived from their
// source transaction.
func (r *MySQLNotificationRepository) Create(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}

	query := `INSERT INTO notifications (id, type, title, message, date, is_read, link) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, n.ID, string(n.Type), n.Title, n.Message, n.Date.UTC(), n.Read, n.Link)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if stderrors.As(err, &mysqlErr) && mysqlErr.Number == erDupEntry {
			return domain.Notification{}, errors.NewConflictError(errors.CodeDuplicateID,
				fmt.Sprintf("notification %s already exists", n.ID), n.ID)
		}
		return domain.Notification{}, fmt.Errorf("inserting notification: %w", err)
	}
	return n, nil
}

func (r *MySQLNotificationRepository) Update(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	query := `UPDATE notifications SET type = ?, title = ?, message = ?, date = ?, is_read = ?, link = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, string(n.Type), n.Title, n.Message, n.Date.UTC(), n.Read, n.Link, n.ID)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("updating notification: %w", err)
	}
	if err := expectAffected(result, "notification", n.ID); err != nil {
		return domain.Notification{}, err
	}
	return n, nil
}

func (r *MySQLNotificationRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting notification: %w", err)
	}
	return expectAffected(result, "notification", id)
}
