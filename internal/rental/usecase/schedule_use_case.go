package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"locatrajes/internal/agenda"
	"locatrajes/internal/domain"
	apperrors "locatrajes/internal/errors"
	"locatrajes/internal/infrastructure/metrics"
	"locatrajes/internal/lifecycle"
)

type ScheduleUseCase struct {
	store            ScheduleStore
	clock            domain.Clock
	agendaDays       int
	logger           *zap.Logger
	metrics          *metrics.Metrics
	maxRetryAttempts int
}

func NewScheduleUseCase(
	store ScheduleStore,
	clock domain.Clock,
	agendaDays int,
	logger *zap.Logger,
	m *metrics.Metrics,
	maxRetryAttempts int,
) *ScheduleUseCase {
	if agendaDays <= 0 {
		agendaDays = agenda.DefaultDays
	}
	return &ScheduleUseCase{
		store:            store,
		clock:            clock,
		agendaDays:       agendaDays,
		logger:           logger,
		metrics:          m,
		maxRetryAttempts: maxRetryAttempts,
	}
}

func (uc *ScheduleUseCase) List() []domain.Appointment {
	return uc.store.Appointments()
}

func (uc *ScheduleUseCase) Get(id string) (domain.Appointment, error) {
	a, ok := uc.store.Appointment(id)
	if !ok {
		return domain.Appointment{}, apperrors.NewNotFoundError(fmt.Sprintf("appointment %s not found", id))
	}
	return a, nil
}

func (uc *ScheduleUseCase) Create(ctx context.Context, a domain.Appointment) (domain.Appointment, error) {
	a.ID = ""
	if a.Status == "" {
		a.Status = domain.AppointmentStatusScheduled
	}
	if err := validateAppointment(a); err != nil {
		return domain.Appointment{}, err
	}

	var created domain.Appointment
	err := withDeadlockRetry(ctx, uc.logger, uc.maxRetryAttempts, "create appointment", func() error {
		var err error
		created, err = uc.store.CreateAppointment(ctx, a)
		return err
	})
	if err != nil {
		return domain.Appointment{}, err
	}
	uc.logger.Info("appointment created", zap.String("appointmentId", created.ID), zap.String("type", string(created.Type)))
	return created, nil
}

func (uc *ScheduleUseCase) Update(ctx context.Context, a domain.Appointment) (domain.Appointment, error) {
	current, err := uc.Get(a.ID)
	if err != nil {
		return domain.Appointment{}, err
	}
	a.Status = current.Status
	a.CreatedAt = current.CreatedAt
	if err := validateAppointment(a); err != nil {
		return domain.Appointment{}, err
	}
	return uc.save(ctx, "update appointment", a)
}

func (uc *ScheduleUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.Get(id); err != nil {
		return err
	}
	return withDeadlockRetry(ctx, uc.logger, uc.maxRetryAttempts, "delete appointment", func() error {
		return uc.store.DeleteAppointment(ctx, id)
	})
}

func (uc *ScheduleUseCase) Complete(ctx context.Context, id string) (domain.Appointment, error) {
	return uc.move(ctx, id, "complete_appointment", lifecycle.CompleteAppointment)
}

func (uc *ScheduleUseCase) Cancel(ctx context.Context, id string) (domain.Appointment, error) {
	return uc.move(ctx, id, "cancel_appointment", lifecycle.CancelAppointment)
}

// Agenda returns today's events, overdue ones and the configured window ahead.
func (uc *ScheduleUseCase) Agenda() agenda.View {
	return agenda.Build(uc.store.Contracts(), uc.store.Appointments(), uc.clock.Now(), uc.agendaDays)
}

func (uc *ScheduleUseCase) Day(day time.Time) []agenda.Entry {
	return agenda.OnDay(uc.store.Contracts(), uc.store.Appointments(), day)
}

func (uc *ScheduleUseCase) move(
	ctx context.Context,
	id, op string,
	fn func(domain.Appointment) (domain.Appointment, error),
) (domain.Appointment, error) {
	current, err := uc.Get(id)
	if err != nil {
		return domain.Appointment{}, err
	}
	next, err := fn(current)
	if err != nil {
		return domain.Appointment{}, err
	}
	saved, err := uc.save(ctx, op, next)
	if err != nil {
		return domain.Appointment{}, err
	}
	uc.metrics.TransitionApplied(op)
	return saved, nil
}

func (uc *ScheduleUseCase) save(ctx context.Context, op string, a domain.Appointment) (domain.Appointment, error) {
	var saved domain.Appointment
	err := withDeadlockRetry(ctx, uc.logger, uc.maxRetryAttempts, op, func() error {
		var err error
		saved, err = uc.store.UpdateAppointment(ctx, a)
		return err
	})
	if err != nil {
		return domain.Appointment{}, err
	}
	return saved, nil
}

func validateAppointment(a domain.Appointment) error {
	var details []apperrors.ValidationDetail
	if a.Date.IsZero() {
		details = append(details, apperrors.ValidationDetail{Field: "date", Message: "required field"})
	}
	if a.Time != "" {
		if _, err := time.Parse("15:04", a.Time); err != nil {
			details = append(details, apperrors.ValidationDetail{Field: "time", Message: "must be HH:MM"})
		}
	}
	if !a.Type.Valid() {
		details = append(details, apperrors.ValidationDetail{Field: "type", Message: fmt.Sprintf("unknown type %q", a.Type)})
	}
	if !a.Status.Valid() {
		details = append(details, apperrors.ValidationDetail{Field: "status", Message: fmt.Sprintf("unknown status %q", a.Status)})
	}
	if (a.ClientID == nil || *a.ClientID == "") && a.ClientName == "" {
		details = append(details, apperrors.ValidationDetail{Field: "clientName", Message: "client is required"})
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid appointment", details...)
	}
	return nil
}
