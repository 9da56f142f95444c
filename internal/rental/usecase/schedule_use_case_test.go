package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"locatrajes/internal/agenda"
	"locatrajes/internal/domain"
	apperrors "locatrajes/internal/errors"
	"locatrajes/internal/lifecycle"
)

func newScheduleUseCase(h *harness) *ScheduleUseCase {
	return NewScheduleUseCase(h.store, domain.FixedClock{T: today}, 0, zap.NewNop(), nil, 3)
}

func appointment(id string, d int, at string) domain.Appointment {
	return domain.Appointment{
		ID:         id,
		ClientName: "Maria",
		Date:       date(d),
		Time:       at,
		Type:       domain.AppointmentTypeFitting,
		Status:     domain.AppointmentStatusScheduled,
	}
}

func TestScheduleUseCase_CreateDefaultsToScheduled(t *testing.T) {
	uc := newScheduleUseCase(newHarness(t, seed{}))

	a := appointment("", 12, "10:30")
	a.Status = ""
	created, err := uc.Create(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentStatusScheduled, created.Status)
}

func TestScheduleUseCase_InvalidTime(t *testing.T) {
	uc := newScheduleUseCase(newHarness(t, seed{}))

	_, err := uc.Create(context.Background(), appointment("", 12, "25:99"))
	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "time", ve.Details[0].Field)
}

func TestScheduleUseCase_CompleteOnlyOnce(t *testing.T) {
	h := newHarness(t, seed{appointments: []domain.Appointment{appointment("ap1", 10, "09:00")}})
	uc := newScheduleUseCase(h)

	done, err := uc.Complete(context.Background(), "ap1")
	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentStatusDone, done.Status)

	_, err = uc.Cancel(context.Background(), "ap1")
	ce, ok := apperrors.IsConflictError(err)
	require.True(t, ok)
	assert.Equal(t, lifecycle.CodeInvalidTransition, ce.Code)
}

func TestScheduleUseCase_UpdateKeepsStatus(t *testing.T) {
	h := newHarness(t, seed{appointments: []domain.Appointment{appointment("ap1", 10, "09:00")}})
	uc := newScheduleUseCase(h)

	edit := appointment("ap1", 11, "16:00")
	edit.Status = domain.AppointmentStatusDone
	updated, err := uc.Update(context.Background(), edit)
	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentStatusScheduled, updated.Status)
	assert.Equal(t, "16:00", updated.Time)
}

func TestScheduleUseCase_Agenda(t *testing.T) {
	h := newHarness(t, seed{
		appointments: []domain.Appointment{
			appointment("late", 8, "09:00"),
			appointment("now", 10, "15:00"),
		},
		contracts: []domain.Contract{
			contract("k1", domain.ContractStatusScheduled, date(10), date(12), "a"),
			contract("k2", domain.ContractStatusActive, date(5), date(13), "b"),
		},
	})
	uc := newScheduleUseCase(h)

	view := uc.Agenda()
	require.Len(t, view.Overdue, 1)
	assert.Equal(t, "late", view.Overdue[0].AppointmentID)
	require.Len(t, view.Today, 2)
	assert.Equal(t, agenda.KindPickup, view.Today[0].Kind)
	require.Len(t, view.Upcoming, 1)
	assert.Equal(t, agenda.KindReturn, view.Upcoming[0].Kind)

	assert.Len(t, uc.Day(date(13)), 1)
}
