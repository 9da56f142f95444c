package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"locatrajes/internal/availability"
	"locatrajes/internal/domain"
	apperrors "locatrajes/internal/errors"
	"locatrajes/internal/infrastructure/metrics"
	"locatrajes/internal/lifecycle"
)

const (
	CodeContractLocked = "CONTRACT_LOCKED"
	CodeContractInUse  = "CONTRACT_IN_USE"
)

type AvailabilityQuery struct {
	ItemIDs           []string
	Start             time.Time
	End               time.Time
	ExcludeContractID string
}

type ContractUseCase struct {
	store            ContractStore
	evaluator        *availability.Evaluator
	clock            domain.Clock
	logger           *zap.Logger
	metrics          *metrics.Metrics
	maxRetryAttempts int
}

func NewContractUseCase(
	store ContractStore,
	evaluator *availability.Evaluator,
	clock domain.Clock,
	logger *zap.Logger,
	m *metrics.Metrics,
	maxRetryAttempts int,
) *ContractUseCase {
	return &ContractUseCase{
		store:            store,
		evaluator:        evaluator,
		clock:            clock,
		logger:           logger,
		metrics:          m,
		maxRetryAttempts: maxRetryAttempts,
	}
}

func (uc *ContractUseCase) List() []domain.Contract {
	return uc.store.Contracts()
}

func (uc *ContractUseCase) Get(id string) (domain.Contract, error) {
	c, ok := uc.store.Contract(id)
	if !ok {
		return domain.Contract{}, apperrors.NewNotFoundError(fmt.Sprintf("contract %s not found", id))
	}
	return c, nil
}

// CheckAvailability answers the booking question against the local state.
// It is advisory: the persistence layer re-checks under lock on write.
func (uc *ContractUseCase) CheckAvailability(q AvailabilityQuery) ([]availability.ItemCheck, error) {
	if len(q.ItemIDs) == 0 {
		return nil, apperrors.NewValidationError("invalid availability query", apperrors.ValidationDetail{
			Field:   "items",
			Message: "at least one item is required",
		})
	}
	if err := validatePeriod(q.Start, q.End); err != nil {
		return nil, err
	}

	checks := uc.evaluator.CheckItems(uc.store.Snapshot(), q.ItemIDs, q.Start, q.End, q.ExcludeContractID)
	for _, c := range checks {
		uc.metrics.AvailabilityChecked(c.Available)
	}
	return checks, nil
}

func (uc *ContractUseCase) Create(ctx context.Context, c domain.Contract) (domain.Contract, error) {
	uc.logger.Info("create contract started", zap.Int("itemCount", len(c.Items)), zap.String("status", string(c.Status)))

	c = c.Clone()
	c.ID = ""
	if c.Status == "" {
		c.Status = domain.ContractStatusDraft
	}
	if c.Status != domain.ContractStatusDraft && c.Status != domain.ContractStatusScheduled {
		return domain.Contract{}, apperrors.NewValidationError("invalid contract", apperrors.ValidationDetail{
			Field:   "status",
			Message: fmt.Sprintf("new contracts must be %s or %s", domain.ContractStatusDraft, domain.ContractStatusScheduled),
		})
	}
	if err := validateContract(c); err != nil {
		return domain.Contract{}, err
	}
	c.SetTotalValue(c.TotalValue)

	if err := uc.precheck(c, ""); err != nil {
		return domain.Contract{}, err
	}

	var created domain.Contract
	err := withDeadlockRetry(ctx, uc.logger, uc.maxRetryAttempts, "create contract", func() error {
		var err error
		created, err = uc.store.CreateContract(ctx, c)
		return err
	})
	if err != nil {
		return domain.Contract{}, err
	}

	if created.Status == domain.ContractStatusScheduled {
		cs := lifecycle.Reserve(created, uc.store.ItemsByID())
		if err := uc.apply(ctx, "reserve", cs); err != nil {
			if delErr := uc.store.DeleteContract(ctx, created.ID); delErr != nil {
				uc.logger.Error("failed to remove contract after reservation failure",
					zap.String("contractId", created.ID), zap.Error(delErr))
			}
			return domain.Contract{}, err
		}
	}

	uc.logger.Info("contract created", zap.String("contractId", created.ID), zap.String("status", string(created.Status)))
	return created, nil
}

// Update edits the commercial data of a non-terminal contract. Status,
// payments and signature only change through their own operations.
func (uc *ContractUseCase) Update(ctx context.Context, c domain.Contract) (domain.Contract, error) {
	current, err := uc.Get(c.ID)
	if err != nil {
		return domain.Contract{}, err
	}
	if current.Status.Terminal() {
		return domain.Contract{}, apperrors.NewConflictError(CodeContractLocked,
			fmt.Sprintf("contract %s is %s and can no longer be edited", current.ID, current.Status))
	}

	next := c.Clone()
	next.Status = current.Status
	next.PaidAmount = current.PaidAmount
	next.Signature = current.Signature
	next.ManualSignature = current.ManualSignature
	next.PickedUp = current.PickedUp
	next.Returned = current.Returned
	next.CreatedAt = current.CreatedAt
	if err := validateContract(next); err != nil {
		return domain.Contract{}, err
	}
	next.SetTotalValue(next.TotalValue)

	if current.Status == domain.ContractStatusActive && !sameItems(current.Items, next.Items) {
		return domain.Contract{}, apperrors.NewConflictError(CodeContractLocked,
			fmt.Sprintf("items of active contract %s cannot change", current.ID))
	}
	if availability.BookingChanged(current, next) {
		if err := uc.precheck(next, next.ID); err != nil {
			return domain.Contract{}, err
		}
	}

	var updated domain.Contract
	err = withDeadlockRetry(ctx, uc.logger, uc.maxRetryAttempts, "update contract", func() error {
		var err error
		updated, err = uc.store.UpdateContract(ctx, next)
		return err
	})
	if err != nil {
		return domain.Contract{}, err
	}

	cs := lifecycle.Rebook(current, updated, uc.store.ItemsByID(), uc.store.Contracts())
	if err := uc.apply(ctx, "rebook", cs); err != nil {
		if _, restoreErr := uc.store.UpdateContract(ctx, current); restoreErr != nil {
			uc.logger.Error("failed to restore contract after rebook failure",
				zap.String("contractId", current.ID), zap.Error(restoreErr))
		}
		return domain.Contract{}, err
	}

	uc.logger.Info("contract updated", zap.String("contractId", updated.ID))
	return updated, nil
}

func (uc *ContractUseCase) Delete(ctx context.Context, id string) error {
	c, err := uc.Get(id)
	if err != nil {
		return err
	}
	if c.Status != domain.ContractStatusDraft && c.Status != domain.ContractStatusCanceled {
		return apperrors.NewConflictError(CodeContractInUse,
			fmt.Sprintf("contract %s is %s; cancel it before deleting", id, c.Status))
	}

	err = withDeadlockRetry(ctx, uc.logger, uc.maxRetryAttempts, "delete contract", func() error {
		return uc.store.DeleteContract(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.logger.Info("contract deleted", zap.String("contractId", id))
	return nil
}

func (uc *ContractUseCase) Schedule(ctx context.Context, id string) (domain.Contract, error) {
	return uc.transition(ctx, id, "schedule", func(c domain.Contract, items map[string]domain.Item) (lifecycle.Changeset, error) {
		return lifecycle.Schedule(c, items)
	})
}

func (uc *ContractUseCase) ConfirmPickup(ctx context.Context, id string) (domain.Contract, error) {
	now := uc.clock.Now()
	return uc.transition(ctx, id, "confirm_pickup", func(c domain.Contract, items map[string]domain.Item) (lifecycle.Changeset, error) {
		return lifecycle.ConfirmPickup(c, items, now)
	})
}

func (uc *ContractUseCase) PickupItem(ctx context.Context, id, itemID string) (domain.Contract, error) {
	now := uc.clock.Now()
	return uc.transition(ctx, id, "pickup_item", func(c domain.Contract, items map[string]domain.Item) (lifecycle.Changeset, error) {
		return lifecycle.PickupItem(c, items, itemID, now)
	})
}

func (uc *ContractUseCase) ReceiveReturn(ctx context.Context, id string) (domain.Contract, error) {
	return uc.transition(ctx, id, "receive_return", func(c domain.Contract, items map[string]domain.Item) (lifecycle.Changeset, error) {
		return lifecycle.ReceiveReturn(c, items)
	})
}

func (uc *ContractUseCase) ReturnItem(ctx context.Context, id, itemID string) (domain.Contract, error) {
	return uc.transition(ctx, id, "return_item", func(c domain.Contract, items map[string]domain.Item) (lifecycle.Changeset, error) {
		return lifecycle.ReturnItem(c, items, itemID)
	})
}

func (uc *ContractUseCase) Cancel(ctx context.Context, id string) (domain.Contract, error) {
	return uc.transition(ctx, id, "cancel", func(c domain.Contract, items map[string]domain.Item) (lifecycle.Changeset, error) {
		return lifecycle.Cancel(c, items)
	})
}

func (uc *ContractUseCase) RegisterPayment(ctx context.Context, id string, amount decimal.Decimal) (domain.Contract, error) {
	return uc.transition(ctx, id, "register_payment", func(c domain.Contract, _ map[string]domain.Item) (lifecycle.Changeset, error) {
		next, err := lifecycle.RegisterPayment(c, amount)
		if err != nil {
			return lifecycle.Changeset{}, err
		}
		return lifecycle.Changeset{Contracts: []domain.Contract{next}}, nil
	})
}

func (uc *ContractUseCase) Sign(ctx context.Context, id, signature string, manual bool) (domain.Contract, error) {
	return uc.transition(ctx, id, "sign", func(c domain.Contract, _ map[string]domain.Item) (lifecycle.Changeset, error) {
		next, err := lifecycle.Sign(c, signature, manual)
		if err != nil {
			return lifecycle.Changeset{}, err
		}
		return lifecycle.Changeset{Contracts: []domain.Contract{next}}, nil
	})
}

type transitionFunc func(c domain.Contract, items map[string]domain.Item) (lifecycle.Changeset, error)

// transition computes the next state from the current snapshot and applies it
// as one changeset. A deadlock retry recomputes from the restored state.
func (uc *ContractUseCase) transition(ctx context.Context, id, op string, fn transitionFunc) (domain.Contract, error) {
	uc.logger.Info("contract transition started", zap.String("contractId", id), zap.String("operation", op))

	var result domain.Contract
	err := withDeadlockRetry(ctx, uc.logger, uc.maxRetryAttempts, op, func() error {
		current, err := uc.Get(id)
		if err != nil {
			return err
		}
		cs, err := fn(current, uc.store.ItemsByID())
		if err != nil {
			return err
		}
		if err := uc.store.Apply(ctx, cs); err != nil {
			return err
		}
		if next, ok := cs.Contract(id); ok {
			result = next
		} else {
			result = current
		}
		return nil
	})
	if err != nil {
		uc.logger.Warn("contract transition rejected",
			zap.String("contractId", id), zap.String("operation", op), zap.Error(err))
		return domain.Contract{}, err
	}

	uc.metrics.TransitionApplied(op)
	uc.logger.Info("contract transition applied",
		zap.String("contractId", id), zap.String("operation", op), zap.String("status", string(result.Status)))
	return result, nil
}

func (uc *ContractUseCase) apply(ctx context.Context, op string, cs lifecycle.Changeset) error {
	if cs.Empty() {
		return nil
	}
	err := withDeadlockRetry(ctx, uc.logger, uc.maxRetryAttempts, op, func() error {
		return uc.store.Apply(ctx, cs)
	})
	if err != nil {
		return err
	}
	uc.metrics.TransitionApplied(op)
	return nil
}

func (uc *ContractUseCase) precheck(c domain.Contract, excludeID string) error {
	checks := uc.evaluator.CheckItems(uc.store.Snapshot(), c.Items, c.StartDate, c.EndDate, excludeID)
	for _, check := range checks {
		uc.metrics.AvailabilityChecked(check.Available)
	}
	if ids := availability.Unavailable(checks); len(ids) > 0 {
		return apperrors.NewConflictError(availability.CodeItemUnavailable,
			fmt.Sprintf("items unavailable for the requested period: %s", strings.Join(ids, ", ")), ids...)
	}
	return nil
}

func validatePeriod(start, end time.Time) error {
	var details []apperrors.ValidationDetail
	if start.IsZero() {
		details = append(details, apperrors.ValidationDetail{Field: "startDate", Message: "required field"})
	}
	if end.IsZero() {
		details = append(details, apperrors.ValidationDetail{Field: "endDate", Message: "required field"})
	}
	if len(details) == 0 && domain.NormalizeDate(end).Before(domain.NormalizeDate(start)) {
		details = append(details, apperrors.ValidationDetail{Field: "endDate", Message: "must not be before startDate"})
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid period", details...)
	}
	return nil
}

func validateContract(c domain.Contract) error {
	var details []apperrors.ValidationDetail
	if len(c.Items) == 0 {
		details = append(details, apperrors.ValidationDetail{Field: "items", Message: "must not be empty"})
	}
	for _, id := range c.Items {
		if strings.TrimSpace(id) == "" {
			details = append(details, apperrors.ValidationDetail{Field: "items", Message: "item ids must not be blank"})
			break
		}
	}
	if err := validatePeriod(c.StartDate, c.EndDate); err != nil {
		ve, _ := apperrors.IsValidationError(err)
		details = append(details, ve.Details...)
	}
	if !c.ContractType.Valid() {
		details = append(details, apperrors.ValidationDetail{
			Field:   "contractType",
			Message: fmt.Sprintf("must be %s or %s", domain.ContractTypeRental, domain.ContractTypeSale),
		})
	}
	if (c.ClientID == nil || *c.ClientID == "") && strings.TrimSpace(c.ClientName) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "clientName", Message: "client is required"})
	}
	if c.TotalValue.IsNegative() {
		details = append(details, apperrors.ValidationDetail{Field: "totalValue", Message: "must not be negative"})
	}
	if c.PaidAmount.IsNegative() {
		details = append(details, apperrors.ValidationDetail{Field: "paidAmount", Message: "must not be negative"})
	} else if c.PaidAmount.GreaterThan(c.TotalValue) {
		details = append(details, apperrors.ValidationDetail{Field: "paidAmount", Message: "must not exceed totalValue"})
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid contract", details...)
	}
	return nil
}

func sameItems(a, b []string) bool {
	count := make(map[string]int, len(a))
	for _, id := range a {
		count[id]++
	}
	for _, id := range b {
		count[id]--
	}
	for _, n := range count {
		if n != 0 {
			return false
		}
	}
	return true
}
