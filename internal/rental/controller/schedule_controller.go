package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"locatrajes/internal/agenda"
	"locatrajes/internal/domain"
	"locatrajes/internal/dto"
)

type ScheduleUseCase interface {
	List() []domain.Appointment
	Get(id string) (domain.Appointment, error)
	Create(ctx context.Context, a domain.Appointment) (domain.Appointment, error)
	Update(ctx context.Context, a domain.Appointment) (domain.Appointment, error)
	Delete(ctx context.Context, id string) error
	Complete(ctx context.Context, id string) (domain.Appointment, error)
	Cancel(ctx context.Context, id string) (domain.Appointment, error)
	Agenda() agenda.View
	Day(day time.Time) []agenda.Entry
}

type ScheduleController struct {
	responder
	useCase ScheduleUseCase
}

func NewScheduleController(useCase ScheduleUseCase, logger *zap.Logger) *ScheduleController {
	return &ScheduleController{
		responder: responder{logger: logger},
		useCase:   useCase,
	}
}

func (c *ScheduleController) List(w http.ResponseWriter, r *http.Request) {
	c.writeJSON(w, http.StatusOK, dto.NewAppointmentResponses(c.useCase.List()))
}

func (c *ScheduleController) Get(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.begin("get appointment")
	a, err := c.useCase.Get(chi.URLParam(r, "appointmentId"))
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}
	c.writeJSON(w, http.StatusOK, dto.NewAppointmentResponse(a))
}

func (c *ScheduleController) Create(w http.ResponseWriter, r *http.Request) {
	c.save(w, r, "create appointment", "", http.StatusCreated, c.useCase.Create)
}

func (c *ScheduleController) Update(w http.ResponseWriter, r *http.Request) {
	c.save(w, r, "update appointment", chi.URLParam(r, "appointmentId"), http.StatusOK, c.useCase.Update)
}

func (c *ScheduleController) save(
	w http.ResponseWriter,
	r *http.Request,
	op, id string,
	status int,
	save func(ctx context.Context, a domain.Appointment) (domain.Appointment, error),
) {
	traceID, logger := c.begin(op)

	var req dto.AppointmentRequest
	if !c.decode(w, r, traceID, &req, logger) {
		return
	}
	a, err := req.ToDomain(id)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	saved, err := save(r.Context(), a)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}
	c.writeJSON(w, status, dto.NewAppointmentResponse(saved))
}

func (c *ScheduleController) Delete(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.begin("delete appointment")
	if err := c.useCase.Delete(r.Context(), chi.URLParam(r, "appointmentId")); err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *ScheduleController) Complete(w http.ResponseWriter, r *http.Request) {
	c.move(w, r, "complete appointment", c.useCase.Complete)
}

func (c *ScheduleController) Cancel(w http.ResponseWriter, r *http.Request) {
	c.move(w, r, "cancel appointment", c.useCase.Cancel)
}

func (c *ScheduleController) move(
	w http.ResponseWriter,
	r *http.Request,
	op string,
	fn func(ctx context.Context, id string) (domain.Appointment, error),
) {
	traceID, logger := c.begin(op)
	a, err := fn(r.Context(), chi.URLParam(r, "appointmentId"))
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}
	c.writeJSON(w, http.StatusOK, dto.NewAppointmentResponse(a))
}

// Agenda answers the dashboard view, or a single day when ?day= is given.
func (c *ScheduleController) Agenda(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.begin("agenda")

	value := r.URL.Query().Get("day")
	if value == "" {
		c.writeJSON(w, http.StatusOK, dto.NewAgendaResponse(c.useCase.Agenda()))
		return
	}

	day, err := dto.ParseDay(value)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}
	c.writeJSON(w, http.StatusOK, dto.NewAgendaEntries(c.useCase.Day(day)))
}
