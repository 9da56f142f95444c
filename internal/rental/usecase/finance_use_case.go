package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"locatrajes/internal/alerts"
	"locatrajes/internal/domain"
	apperrors "locatrajes/internal/errors"
	"locatrajes/internal/infrastructure/metrics"
	"locatrajes/internal/report"
)

// FinanceUseCase owns manual transactions, the alert feed and the financial
// report. Financial data is visible only to the roles the generator allows.
type FinanceUseCase struct {
	store            FinanceStore
	generator        *alerts.Generator
	clock            domain.Clock
	logger           *zap.Logger
	metrics          *metrics.Metrics
	maxRetryAttempts int
}

func NewFinanceUseCase(
	store FinanceStore,
	generator *alerts.Generator,
	clock domain.Clock,
	logger *zap.Logger,
	m *metrics.Metrics,
	maxRetryAttempts int,
) *FinanceUseCase {
	return &FinanceUseCase{
		store:            store,
		generator:        generator,
		clock:            clock,
		logger:           logger,
		metrics:          m,
		maxRetryAttempts: maxRetryAttempts,
	}
}

func (uc *FinanceUseCase) authorize(role domain.Role) error {
	if !uc.generator.CanSeeFinancial(role) {
		return apperrors.NewForbiddenError(fmt.Sprintf("role %q cannot access financial data", role))
	}
	return nil
}

func (uc *FinanceUseCase) ListTransactions(role domain.Role) ([]domain.Transaction, error) {
	if err := uc.authorize(role); err != nil {
		return nil, err
	}
	return uc.store.Transactions(), nil
}

func (uc *FinanceUseCase) CreateTransaction(ctx context.Context, role domain.Role, t domain.Transaction) (domain.Transaction, error) {
	if err := uc.authorize(role); err != nil {
		return domain.Transaction{}, err
	}
	t.ID = ""
	if t.Status == "" {
		t.Status = domain.TransactionStatusPending
	}
	if err := validateTransaction(t); err != nil {
		return domain.Transaction{}, err
	}

	var created domain.Transaction
	err := withDeadlockRetry(ctx, uc.logger, uc.maxRetryAttempts, "create transaction", func() error {
		var err error
		created, err = uc.store.CreateTransaction(ctx, t)
		return err
	})
	if err != nil {
		return domain.Transaction{}, err
	}
	uc.logger.Info("transaction created",
		zap.String("transactionId", created.ID), zap.String("type", string(created.Type)),
		zap.String("amount", created.Amount.StringFixed(2)))
	return created, nil
}

func (uc *FinanceUseCase) UpdateTransaction(ctx context.Context, role domain.Role, t domain.Transaction) (domain.Transaction, error) {
	if err := uc.authorize(role); err != nil {
		return domain.Transaction{}, err
	}
	current, ok := uc.store.Transaction(t.ID)
	if !ok {
		return domain.Transaction{}, apperrors.NewNotFoundError(fmt.Sprintf("transaction %s not found", t.ID))
	}
	t.CreatedAt = current.CreatedAt
	if err := validateTransaction(t); err != nil {
		return domain.Transaction{}, err
	}

	var updated domain.Transaction
	err := withDeadlockRetry(ctx, uc.logger, uc.maxRetryAttempts, "update transaction", func() error {
		var err error
		updated, err = uc.store.UpdateTransaction(ctx, t)
		return err
	})
	if err != nil {
		return domain.Transaction{}, err
	}
	return updated, nil
}

func (uc *FinanceUseCase) DeleteTransaction(ctx context.Context, role domain.Role, id string) error {
	if err := uc.authorize(role); err != nil {
		return err
	}
	if _, ok := uc.store.Transaction(id); !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("transaction %s not found", id))
	}
	return withDeadlockRetry(ctx, uc.logger, uc.maxRetryAttempts, "delete transaction", func() error {
		return uc.store.DeleteTransaction(ctx, id)
	})
}

// ScanAlerts generates due and overdue alerts for pending expenses and
// persists the ones not yet in the feed. Roles without financial access get
// nothing.
func (uc *FinanceUseCase) ScanAlerts(ctx context.Context, role domain.Role) ([]domain.Notification, error) {
	fresh := uc.generator.Scan(uc.store.Transactions(), uc.store.Notifications(), role, uc.clock.Now())
	if len(fresh) == 0 {
		return nil, nil
	}

	added := make([]domain.Notification, 0, len(fresh))
	byType := map[domain.NotificationType]int{}
	for _, n := range fresh {
		saved, err := uc.store.AddNotification(ctx, n)
		if apperrors.IsDuplicateID(err) {
			// A concurrent scan stored the same alert first.
			uc.logger.Debug("alert already present", zap.String("notificationId", n.ID))
			continue
		}
		if err != nil {
			uc.logger.Error("failed to persist alert", zap.String("notificationId", n.ID), zap.Error(err))
			return added, err
		}
		added = append(added, saved)
		byType[saved.Type]++
	}
	for t, n := range byType {
		uc.metrics.AlertsGenerated(string(t), n)
	}

	uc.logger.Info("financial alerts generated", zap.Int("count", len(added)), zap.String("role", string(role)))
	return added, nil
}

// Notifications lists the feed, hiding financial alerts from roles that
// cannot see them.
func (uc *FinanceUseCase) Notifications(role domain.Role) []domain.Notification {
	all := uc.store.Notifications()
	if uc.generator.CanSeeFinancial(role) {
		return all
	}
	out := make([]domain.Notification, 0, len(all))
	for _, n := range all {
		if !isFinancialAlert(n) {
			out = append(out, n)
		}
	}
	return out
}

func (uc *FinanceUseCase) MarkNotificationRead(ctx context.Context, role domain.Role, id string) (domain.Notification, error) {
	for _, n := range uc.Notifications(role) {
		if n.ID != id {
			continue
		}
		if n.Read {
			return n, nil
		}
		n.Read = true
		return uc.store.UpdateNotification(ctx, n)
	}
	return domain.Notification{}, apperrors.NewNotFoundError(fmt.Sprintf("notification %s not found", id))
}

// Report renders the contracts and transactions workbook.
func (uc *FinanceUseCase) Report(role domain.Role) ([]byte, error) {
	if err := uc.authorize(role); err != nil {
		return nil, err
	}
	data, err := report.Financial(uc.store.Contracts(), uc.store.Transactions(), uc.clock.Now())
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build financial report", err)
	}
	return data, nil
}

func isFinancialAlert(n domain.Notification) bool {
	return strings.HasPrefix(n.ID, alerts.DueAlertID("")) || strings.HasPrefix(n.ID, alerts.OverdueAlertID(""))
}

func validateTransaction(t domain.Transaction) error {
	var details []apperrors.ValidationDetail
	if !t.Type.Valid() {
		details = append(details, apperrors.ValidationDetail{Field: "type", Message: "must be income or expense"})
	}
	if strings.TrimSpace(t.Description) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "description", Message: "required field"})
	}
	if !t.Amount.IsPositive() {
		details = append(details, apperrors.ValidationDetail{Field: "amount", Message: "must be greater than zero"})
	}
	if t.Date.IsZero() {
		details = append(details, apperrors.ValidationDetail{Field: "date", Message: "required field"})
	}
	if !t.Status.Valid() {
		details = append(details, apperrors.ValidationDetail{Field: "status", Message: "must be pending or paid"})
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid transaction", details...)
	}
	return nil
}
