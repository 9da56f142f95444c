package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"locatrajes/internal/domain"
	apperrors "locatrajes/internal/errors"
	"locatrajes/internal/infrastructure/metrics"
	"locatrajes/internal/lifecycle"
)

const CodeItemInUse = "ITEM_IN_USE"

type InventoryUseCase struct {
	store            InventoryStore
	logger           *zap.Logger
	metrics          *metrics.Metrics
	maxRetryAttempts int
}

func NewInventoryUseCase(store InventoryStore, logger *zap.Logger, m *metrics.Metrics, maxRetryAttempts int) *InventoryUseCase {
	return &InventoryUseCase{
		store:            store,
		logger:           logger,
		metrics:          m,
		maxRetryAttempts: maxRetryAttempts,
	}
}

func (uc *InventoryUseCase) List() []domain.Item {
	return uc.store.Items()
}

func (uc *InventoryUseCase) Get(id string) (domain.Item, error) {
	it, ok := uc.store.Item(id)
	if !ok {
		return domain.Item{}, apperrors.NewNotFoundError(fmt.Sprintf("item %s not found", id))
	}
	return it, nil
}

func (uc *InventoryUseCase) Create(ctx context.Context, it domain.Item) (domain.Item, error) {
	it.ID = ""
	if it.Status == "" {
		it.Status = domain.ItemStatusAvailable
	}
	if err := validateItem(it); err != nil {
		return domain.Item{}, err
	}

	var created domain.Item
	err := withDeadlockRetry(ctx, uc.logger, uc.maxRetryAttempts, "create item", func() error {
		var err error
		created, err = uc.store.CreateItem(ctx, it)
		return err
	})
	if err != nil {
		return domain.Item{}, err
	}
	uc.logger.Info("item created", zap.String("itemId", created.ID), zap.String("name", created.Name))
	return created, nil
}

// Update edits the catalogue data. The status is kept; it only moves
// through contract operations and Triage.
func (uc *InventoryUseCase) Update(ctx context.Context, it domain.Item) (domain.Item, error) {
	current, err := uc.Get(it.ID)
	if err != nil {
		return domain.Item{}, err
	}
	it.Status = current.Status
	it.CreatedAt = current.CreatedAt
	if err := validateItem(it); err != nil {
		return domain.Item{}, err
	}

	var updated domain.Item
	err = withDeadlockRetry(ctx, uc.logger, uc.maxRetryAttempts, "update item", func() error {
		var err error
		updated, err = uc.store.UpdateItem(ctx, it)
		return err
	})
	if err != nil {
		return domain.Item{}, err
	}
	return updated, nil
}

func (uc *InventoryUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.Get(id); err != nil {
		return err
	}
	for _, c := range uc.store.Contracts() {
		if !c.Status.Terminal() && c.Units(id) > 0 {
			return apperrors.NewConflictError(CodeItemInUse,
				fmt.Sprintf("item %s is part of contract %s", id, c.ID), c.ID)
		}
	}

	err := withDeadlockRetry(ctx, uc.logger, uc.maxRetryAttempts, "delete item", func() error {
		return uc.store.DeleteItem(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.logger.Info("item deleted", zap.String("itemId", id))
	return nil
}

// Triage moves an item through the post-return processing states and
// applies the resulting contract changes together with it.
func (uc *InventoryUseCase) Triage(ctx context.Context, id string, target domain.ItemStatus) (domain.Item, error) {
	var result domain.Item
	err := withDeadlockRetry(ctx, uc.logger, uc.maxRetryAttempts, "triage", func() error {
		cs, err := lifecycle.TriageItem(uc.store.ItemsByID(), uc.store.Contracts(), id, target)
		if err != nil {
			return err
		}
		if err := uc.store.Apply(ctx, cs); err != nil {
			return err
		}
		for _, it := range cs.Items {
			if it.ID == id {
				result = it
			}
		}
		return nil
	})
	if err != nil {
		return domain.Item{}, err
	}

	uc.metrics.TransitionApplied("triage")
	uc.logger.Info("item triaged", zap.String("itemId", id), zap.String("status", string(result.Status)))
	return result, nil
}

func validateItem(it domain.Item) error {
	var details []apperrors.ValidationDetail
	if strings.TrimSpace(it.Name) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "name", Message: "required field"})
	}
	if !it.Status.Valid() {
		details = append(details, apperrors.ValidationDetail{Field: "status", Message: fmt.Sprintf("unknown status %q", it.Status)})
	}
	if it.TotalQuantity != nil && *it.TotalQuantity < 1 {
		details = append(details, apperrors.ValidationDetail{Field: "totalQuantity", Message: "must be at least 1"})
	}
	if it.Price.IsNegative() {
		details = append(details, apperrors.ValidationDetail{Field: "price", Message: "must not be negative"})
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid item", details...)
	}
	return nil
}
