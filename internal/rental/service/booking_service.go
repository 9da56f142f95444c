package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"locatrajes/internal/availability"
	"locatrajes/internal/domain"
	apperrors "locatrajes/internal/errors"
	"locatrajes/internal/lifecycle"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type ItemRepository interface {
	FindByIDsForUpdate(ctx context.Context, tx *sql.Tx, ids []string) ([]domain.Item, error)
	UpdateStatus(ctx context.Context, tx *sql.Tx, id string, status domain.ItemStatus) error
}

type ContractRepository interface {
	List(ctx context.Context) ([]domain.Contract, error)
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id string) (*domain.Contract, error)
	FindLiveByItemIDs(ctx context.Context, tx *sql.Tx, itemIDs []string, from, to time.Time) ([]domain.Contract, error)
	Insert(ctx context.Context, tx *sql.Tx, c domain.Contract) error
	Update(ctx context.Context, tx *sql.Tx, c domain.Contract) error
	UpdateState(ctx context.Context, tx *sql.Tx, c domain.Contract) error
	Delete(ctx context.Context, id string) error
}

// BookingService is the contract persistence gateway. Writes that commit
// items re-run the availability evaluation inside a REPEATABLE READ
// transaction holding row locks on those items, which makes it the
// authoritative guard against overbooking across sessions.
type BookingService struct {
	db           TransactionManager
	itemRepo     ItemRepository
	contractRepo ContractRepository
	evaluator    *availability.Evaluator
	logger       *zap.Logger
	txTimeout    time.Duration
}

func NewBookingService(
	db TransactionManager,
	itemRepo ItemRepository,
	contractRepo ContractRepository,
	evaluator *availability.Evaluator,
	logger *zap.Logger,
	txTimeout time.Duration,
) *BookingService {
	return &BookingService{
		db:           db,
		itemRepo:     itemRepo,
		contractRepo: contractRepo,
		evaluator:    evaluator,
		logger:       logger,
		txTimeout:    txTimeout,
	}
}

func (s *BookingService) List(ctx context.Context) ([]domain.Contract, error) {
	return s.contractRepo.List(ctx)
}

func (s *BookingService) Delete(ctx context.Context, id string) error {
	return s.contractRepo.Delete(ctx, id)
}

func (s *BookingService) Create(ctx context.Context, c domain.Contract) (domain.Contract, error) {
	c = c.Clone()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC().Truncate(time.Second)
	c.CreatedAt, c.UpdatedAt = now, now
	c.SetTotalValue(c.TotalValue)

	err := s.inTx(ctx, func(txCtx context.Context, tx *sql.Tx) error {
		if err := s.evaluate(txCtx, tx, c, ""); err != nil {
			return err
		}
		return s.contractRepo.Insert(txCtx, tx, c)
	})
	if err != nil {
		return domain.Contract{}, err
	}

	s.logger.Info("contract booked", zap.String("contractId", c.ID), zap.Int("itemCount", len(c.Items)))
	return c, nil
}

// Update rewrites the contract. Availability is re-checked, excluding the
// contract itself, only when its dates or items change.
func (s *BookingService) Update(ctx context.Context, c domain.Contract) (domain.Contract, error) {
	c = c.Clone()
	c.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	c.SetTotalValue(c.TotalValue)

	err := s.inTx(ctx, func(txCtx context.Context, tx *sql.Tx) error {
		current, err := s.contractRepo.FindByIDForUpdate(txCtx, tx, c.ID)
		if err != nil {
			return err
		}
		if availability.BookingChanged(*current, c) {
			if err := s.evaluate(txCtx, tx, c, c.ID); err != nil {
				return err
			}
		}
		return s.contractRepo.Update(txCtx, tx, c)
	})
	if err != nil {
		return domain.Contract{}, err
	}
	return c, nil
}

// ApplyChangeset persists a transition atomically. Item rows are written in
// ascending id order, matching the lock order used by bookings.
func (s *BookingService) ApplyChangeset(ctx context.Context, cs lifecycle.Changeset) error {
	items := append([]domain.Item(nil), cs.Items...)
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	return s.inTx(ctx, func(txCtx context.Context, tx *sql.Tx) error {
		for _, it := range items {
			if err := s.itemRepo.UpdateStatus(txCtx, tx, it.ID, it.Status); err != nil {
				return err
			}
		}
		for _, c := range cs.Contracts {
			if err := s.contractRepo.UpdateState(txCtx, tx, c); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BookingService) inTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return err
	}
	// MySQL ignores the rollback once committed.
	defer tx.Rollback()

	if err := fn(txCtx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.Error(err))
		return err
	}
	return nil
}

func (s *BookingService) evaluate(ctx context.Context, tx *sql.Tx, c domain.Contract, excludeID string) error {
	if c.Status.Terminal() || len(c.Items) == 0 {
		return nil
	}
	ids := c.DistinctItemIDs()
	items, err := s.itemRepo.FindByIDsForUpdate(ctx, tx, ids)
	if err != nil {
		return err
	}

	from := domain.AddDays(c.StartDate, -s.evaluator.BufferDays())
	contracts, err := s.contractRepo.FindLiveByItemIDs(ctx, tx, ids, from, domain.NormalizeDate(c.EndDate))
	if err != nil {
		return err
	}

	if err := CheckBooking(s.evaluator, items, contracts, c, excludeID); err != nil {
		s.logger.Warn("booking rejected", zap.String("contractId", c.ID), zap.Error(err))
		return err
	}
	return nil
}

// CheckBooking evaluates c against a locked view of its items and the live
// contracts touching them.
func CheckBooking(e *availability.Evaluator, items []domain.Item, contracts []domain.Contract, c domain.Contract, excludeID string) error {
	snap := availability.NewStaticSnapshot(items, contracts)
	checks := e.CheckItems(snap, c.Items, c.StartDate, c.EndDate, excludeID)
	unavailable := availability.Unavailable(checks)
	if len(unavailable) == 0 {
		return nil
	}
	return apperrors.NewConflictError(availability.CodeItemUnavailable,
		fmt.Sprintf("items unavailable for %s to %s", c.StartDate.Format("2006-01-02"), c.EndDate.Format("2006-01-02")),
		unavailable...)
}
