package domain

import "time"

type Appointment struct {
	ID         string
	ClientID   *string
	ClientName string
	ContractID *string
	Date       time.Time
	Time       string
	Type       AppointmentType
	Status     AppointmentStatus
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
