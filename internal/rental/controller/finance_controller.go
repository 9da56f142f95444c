package controller

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"locatrajes/internal/auth"
	"locatrajes/internal/domain"
	"locatrajes/internal/dto"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type FinanceUseCase interface {
	ListTransactions(role domain.Role) ([]domain.Transaction, error)
	CreateTransaction(ctx context.Context, role domain.Role, t domain.Transaction) (domain.Transaction, error)
	UpdateTransaction(ctx context.Context, role domain.Role, t domain.Transaction) (domain.Transaction, error)
	DeleteTransaction(ctx context.Context, role domain.Role, id string) error
	ScanAlerts(ctx context.Context, role domain.Role) ([]domain.Notification, error)
	Notifications(role domain.Role) []domain.Notification
	MarkNotificationRead(ctx context.Context, role domain.Role, id string) (domain.Notification, error)
	Report(role domain.Role) ([]byte, error)
}

type FinanceController struct {
	responder
	useCase FinanceUseCase
}

func NewFinanceController(useCase FinanceUseCase, logger *zap.Logger) *FinanceController {
	return &FinanceController{
		responder: responder{logger: logger},
		useCase:   useCase,
	}
}

func (c *FinanceController) ListTransactions(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.begin("list transactions")
	txs, err := c.useCase.ListTransactions(auth.RoleFrom(r.Context()))
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}
	c.writeJSON(w, http.StatusOK, dto.NewTransactionResponses(txs))
}

func (c *FinanceController) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	c.saveTransaction(w, r, "create transaction", "", http.StatusCreated, c.useCase.CreateTransaction)
}

func (c *FinanceController) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	c.saveTransaction(w, r, "update transaction", chi.URLParam(r, "transactionId"), http.StatusOK, c.useCase.UpdateTransaction)
}

func (c *FinanceController) saveTransaction(
	w http.ResponseWriter,
	r *http.Request,
	op, id string,
	status int,
	save func(ctx context.Context, role domain.Role, t domain.Transaction) (domain.Transaction, error),
) {
	traceID, logger := c.begin(op)

	var req dto.TransactionRequest
	if !c.decode(w, r, traceID, &req, logger) {
		return
	}
	t, err := req.ToDomain(id)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	saved, err := save(r.Context(), auth.RoleFrom(r.Context()), t)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}
	c.writeJSON(w, status, dto.NewTransactionResponse(saved))
}

func (c *FinanceController) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.begin("delete transaction")
	err := c.useCase.DeleteTransaction(r.Context(), auth.RoleFrom(r.Context()), chi.URLParam(r, "transactionId"))
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *FinanceController) ScanAlerts(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.begin("scan alerts")
	added, err := c.useCase.ScanAlerts(r.Context(), auth.RoleFrom(r.Context()))
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}
	c.writeJSON(w, http.StatusOK, dto.NewNotificationResponses(added))
}

func (c *FinanceController) Notifications(w http.ResponseWriter, r *http.Request) {
	c.writeJSON(w, http.StatusOK, dto.NewNotificationResponses(c.useCase.Notifications(auth.RoleFrom(r.Context()))))
}

func (c *FinanceController) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.begin("mark notification read")
	n, err := c.useCase.MarkNotificationRead(r.Context(), auth.RoleFrom(r.Context()), chi.URLParam(r, "notificationId"))
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}
	c.writeJSON(w, http.StatusOK, dto.NewNotificationResponses([]domain.Notification{n})[0])
}

func (c *FinanceController) Report(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.begin("financial report")
	data, err := c.useCase.Report(auth.RoleFrom(r.Context()))
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	name := fmt.Sprintf("relatorio-financeiro-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logger.Error("failed to write report", zap.Error(err))
	}
}
