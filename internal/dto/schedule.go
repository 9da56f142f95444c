package dto

import (
	"time"

	"locatrajes/internal/agenda"
	"locatrajes/internal/domain"
	apperrors "locatrajes/internal/errors"
)

type AppointmentRequest struct {
	ClientID   *string `json:"clientId"`
	ClientName string  `json:"clientName"`
	ContractID *string `json:"contractId"`
	Date       string  `json:"date"`
	Time       string  `json:"time"`
	Type       string  `json:"type"`
	Notes      string  `json:"notes"`
}

func (r AppointmentRequest) ToDomain(id string) (domain.Appointment, error) {
	var details []apperrors.ValidationDetail
	a := domain.Appointment{
		ID:         id,
		ClientID:   r.ClientID,
		ClientName: r.ClientName,
		ContractID: r.ContractID,
		Date:       dateField("date", r.Date, &details),
		Time:       r.Time,
		Type:       domain.AppointmentType(r.Type),
		Notes:      r.Notes,
	}
	return a, invalid(details)
}

type AppointmentResponse struct {
	ID         string    `json:"id"`
	ClientID   *string   `json:"clientId,omitempty"`
	ClientName string    `json:"clientName"`
	ContractID *string   `json:"contractId,omitempty"`
	Date       string    `json:"date"`
	Time       string    `json:"time,omitempty"`
	Type       string    `json:"type"`
	Status     string    `json:"status"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func NewAppointmentResponse(a domain.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:         a.ID,
		ClientID:   a.ClientID,
		ClientName: a.ClientName,
		ContractID: a.ContractID,
		Date:       FormatDate(a.Date),
		Time:       a.Time,
		Type:       string(a.Type),
		Status:     string(a.Status),
		Notes:      a.Notes,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

func NewAppointmentResponses(as []domain.Appointment) []AppointmentResponse {
	out := make([]AppointmentResponse, len(as))
	for i, a := range as {
		out[i] = NewAppointmentResponse(a)
	}
	return out
}

type AgendaEntry struct {
	Kind          string `json:"kind"`
	Date          string `json:"date"`
	Time          string `json:"time,omitempty"`
	ClientName    string `json:"clientName"`
	ContractID    string `json:"contractId,omitempty"`
	AppointmentID string `json:"appointmentId,omitempty"`
	Label         string `json:"label"`
}

type AgendaResponse struct {
	Today    []AgendaEntry `json:"today"`
	Overdue  []AgendaEntry `json:"overdue"`
	Upcoming []AgendaEntry `json:"upcoming"`
}

func NewAgendaEntries(entries []agenda.Entry) []AgendaEntry {
	out := make([]AgendaEntry, len(entries))
	for i, e := range entries {
		out[i] = AgendaEntry{
			Kind:          string(e.Kind),
			Date:          FormatDate(e.Date),
			Time:          e.Time,
			ClientName:    e.ClientName,
			ContractID:    e.ContractID,
			AppointmentID: e.AppointmentID,
			Label:         e.Label,
		}
	}
	return out
}

func NewAgendaResponse(v agenda.View) AgendaResponse {
	return AgendaResponse{
		Today:    NewAgendaEntries(v.Today),
		Overdue:  NewAgendaEntries(v.Overdue),
		Upcoming: NewAgendaEntries(v.Upcoming),
	}
}

// ParseDay reads an optional ?day= query value.
func ParseDay(value string) (time.Time, error) {
	var details []apperrors.ValidationDetail
	d := dateField("day", value, &details)
	return d, invalid(details)
}
