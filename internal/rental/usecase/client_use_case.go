package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"locatrajes/internal/domain"
	apperrors "locatrajes/internal/errors"
)

const CodeClientInUse = "CLIENT_IN_USE"

type ClientUseCase struct {
	store            ClientStore
	lookup           AddressLookup
	logger           *zap.Logger
	maxRetryAttempts int
}

func NewClientUseCase(store ClientStore, lookup AddressLookup, logger *zap.Logger, maxRetryAttempts int) *ClientUseCase {
	return &ClientUseCase{
		store:            store,
		lookup:           lookup,
		logger:           logger,
		maxRetryAttempts: maxRetryAttempts,
	}
}

func (uc *ClientUseCase) List() []domain.Client {
	return uc.store.Clients()
}

func (uc *ClientUseCase) Get(id string) (domain.Client, error) {
	c, ok := uc.store.Client(id)
	if !ok {
		return domain.Client{}, apperrors.NewNotFoundError(fmt.Sprintf("client %s not found", id))
	}
	return c, nil
}

func (uc *ClientUseCase) Create(ctx context.Context, c domain.Client) (domain.Client, error) {
	c.ID = ""
	if err := validateClient(c); err != nil {
		return domain.Client{}, err
	}

	var created domain.Client
	err := withDeadlockRetry(ctx, uc.logger, uc.maxRetryAttempts, "create client", func() error {
		var err error
		created, err = uc.store.CreateClient(ctx, c)
		return err
	})
	if err != nil {
		return domain.Client{}, err
	}
	uc.logger.Info("client created", zap.String("clientId", created.ID))
	return created, nil
}

func (uc *ClientUseCase) Update(ctx context.Context, c domain.Client) (domain.Client, error) {
	current, err := uc.Get(c.ID)
	if err != nil {
		return domain.Client{}, err
	}
	c.CreatedAt = current.CreatedAt
	if err := validateClient(c); err != nil {
		return domain.Client{}, err
	}

	var updated domain.Client
	err = withDeadlockRetry(ctx, uc.logger, uc.maxRetryAttempts, "update client", func() error {
		var err error
		updated, err = uc.store.UpdateClient(ctx, c)
		return err
	})
	if err != nil {
		return domain.Client{}, err
	}
	return updated, nil
}

func (uc *ClientUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.Get(id); err != nil {
		return err
	}
	for _, c := range uc.store.Contracts() {
		if c.Status.Terminal() || c.ClientID == nil || *c.ClientID != id {
			continue
		}
		return apperrors.NewConflictError(CodeClientInUse,
			fmt.Sprintf("client %s has open contract %s", id, c.ID), c.ID)
	}

	err := withDeadlockRetry(ctx, uc.logger, uc.maxRetryAttempts, "delete client", func() error {
		return uc.store.DeleteClient(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.logger.Info("client deleted", zap.String("clientId", id))
	return nil
}

// LookupAddress resolves a CEP into a partial address for the client form.
func (uc *ClientUseCase) LookupAddress(ctx context.Context, cep string) (domain.Address, error) {
	if uc.lookup == nil {
		return domain.Address{}, apperrors.NewInternalError("address lookup is not configured", nil)
	}
	return uc.lookup.Lookup(ctx, cep)
}

func validateClient(c domain.Client) error {
	var details []apperrors.ValidationDetail
	if strings.TrimSpace(c.Name) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "name", Message: "required field"})
	}
	if c.Email != "" && !strings.Contains(c.Email, "@") {
		details = append(details, apperrors.ValidationDetail{Field: "email", Message: "invalid email"})
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid client", details...)
	}
	return nil
}
