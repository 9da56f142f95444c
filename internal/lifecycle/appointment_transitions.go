package lifecycle

import (
	"fmt"

	"locatrajes/internal/domain"
	apperrors "locatrajes/internal/errors"
)

func CompleteAppointment(a domain.Appointment) (domain.Appointment, error) {
	return moveAppointment(a, domain.AppointmentStatusDone)
}

func CancelAppointment(a domain.Appointment) (domain.Appointment, error) {
	return moveAppointment(a, domain.AppointmentStatusCanceled)
}

// Appointments never cascade into contracts or items.
func moveAppointment(a domain.Appointment, to domain.AppointmentStatus) (domain.Appointment, error) {
	if a.Status != domain.AppointmentStatusScheduled {
		return a, apperrors.NewConflictError(CodeInvalidTransition,
			fmt.Sprintf("appointment %s is already %s", a.ID, a.Status))
	}
	a.Status = to
	return a, nil
}
