package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"locatrajes/internal/domain"
)

const appointmentColumns = `id, client_id, client_name, contract_id, date, time, type, status, notes, created_at, updated_at`

type MySQLAppointmentRepository struct {
	db *sql.DB
}

func NewMySQLAppointmentRepository(db *sql.DB) *MySQLAppointmentRepository {
	return &MySQLAppointmentRepository{db: db}
}

func (r *MySQLAppointmentRepository) List(ctx context.Context) ([]domain.Appointment, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+appointmentColumns+` FROM appointments ORDER BY date, time, id`)
	if err != nil {
		return nil, fmt.Errorf("querying appointments: %w", err)
	}
	defer rows.Close()

	var appointments []domain.Appointment
	for rows.Next() {
		var (
			a          domain.Appointment
			clientID   sql.NullString
			contractID sql.NullString
			apptType   string
			status     string
			notes      sql.NullString
		)
		err := rows.Scan(
			&a.ID, &clientID, &a.ClientName, &contractID, &a.Date, &a.Time,
			&apptType, &status, &notes, &a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning appointment row: %w", err)
		}
		a.ClientID = stringPtr(clientID)
		a.ContractID = stringPtr(contractID)
		a.Type = domain.AppointmentType(apptType)
		a.Status = domain.AppointmentStatus(status)
		a.Notes = notes.String
		appointments = append(appointments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating appointment rows: %w", err)
	}
	return appointments, nil
}

func (r *MySQLAppointmentRepository) Create(ctx context.Context, a domain.Appointment) (domain.Appointment, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = domain.AppointmentStatusScheduled
	}
	now := time.Now().UTC().Truncate(time.Second)
	a.CreatedAt, a.UpdatedAt = now, now

	query := `
		INSERT INTO appointments (id, client_id, client_name, contract_id, date, time, type, status, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, nullString(a.ClientID), a.ClientName, nullString(a.ContractID),
		domain.NormalizeDate(a.Date), a.Time, string(a.Type), string(a.Status), a.Notes,
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return domain.Appointment{}, fmt.Errorf("inserting appointment: %w", err)
	}
	return a, nil
}

func (r *MySQLAppointmentRepository) Update(ctx context.Context, a domain.Appointment) (domain.Appointment, error) {
	a.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	query := `
		UPDATE appointments
		SET client_id = ?, client_name = ?, contract_id = ?, date = ?, time = ?, type = ?, status = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		nullString(a.ClientID), a.ClientName, nullString(a.ContractID),
		domain.NormalizeDate(a.Date), a.Time, string(a.Type), string(a.Status), a.Notes,
		a.UpdatedAt, a.ID,
	)
	if err != nil {
		return domain.Appointment{}, fmt.Errorf("updating appointment: %w", err)
	}
	if err := expectAffected(result, "appointment", a.ID); err != nil {
		return domain.Appointment{}, err
	}
	return a, nil
}

func (r *MySQLAppointmentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting appointment: %w", err)
	}
	return expectAffected(result, "appointment", id)
}
