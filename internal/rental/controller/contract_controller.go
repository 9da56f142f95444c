package controller

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"locatrajes/internal/availability"
	"locatrajes/internal/domain"
	"locatrajes/internal/dto"
	"locatrajes/internal/rental/usecase"
)

type ContractUseCase interface {
	List() []domain.Contract
	Get(id string) (domain.Contract, error)
	CheckAvailability(q usecase.AvailabilityQuery) ([]availability.ItemCheck, error)
	Create(ctx context.Context, c domain.Contract) (domain.Contract, error)
	Update(ctx context.Context, c domain.Contract) (domain.Contract, error)
	Delete(ctx context.Context, id string) error
	Schedule(ctx context.Context, id string) (domain.Contract, error)
	ConfirmPickup(ctx context.Context, id string) (domain.Contract, error)
	PickupItem(ctx context.Context, id, itemID string) (domain.Contract, error)
	ReceiveReturn(ctx context.Context, id string) (domain.Contract, error)
	ReturnItem(ctx context.Context, id, itemID string) (domain.Contract, error)
	Cancel(ctx context.Context, id string) (domain.Contract, error)
	RegisterPayment(ctx context.Context, id string, amount decimal.Decimal) (domain.Contract, error)
	Sign(ctx context.Context, id, signature string, manual bool) (domain.Contract, error)
}

type ContractController struct {
	responder
	useCase ContractUseCase
}

func NewContractController(useCase ContractUseCase, logger *zap.Logger) *ContractController {
	return &ContractController{
		responder: responder{logger: logger},
		useCase:   useCase,
	}
}

func (c *ContractController) List(w http.ResponseWriter, r *http.Request) {
	c.writeJSON(w, http.StatusOK, dto.NewContractResponses(c.useCase.List()))
}

func (c *ContractController) Get(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.begin("get contract")
	contract, err := c.useCase.Get(chi.URLParam(r, "contractId"))
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}
	c.writeJSON(w, http.StatusOK, dto.NewContractResponse(contract))
}

func (c *ContractController) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.begin("check availability")

	var req dto.AvailabilityRequest
	if !c.decode(w, r, traceID, &req, logger) {
		return
	}
	start, end, err := req.Dates()
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	checks, err := c.useCase.CheckAvailability(usecase.AvailabilityQuery{
		ItemIDs:           req.Items,
		Start:             start,
		End:               end,
		ExcludeContractID: req.ExcludeContractID,
	})
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}
	c.writeJSON(w, http.StatusOK, dto.NewAvailabilityResponse(checks))
}

func (c *ContractController) Create(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.begin("create contract")

	var req dto.ContractRequest
	if !c.decode(w, r, traceID, &req, logger) {
		return
	}
	contract, err := req.ToDomain("")
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	created, err := c.useCase.Create(r.Context(), contract)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}
	c.writeJSON(w, http.StatusCreated, dto.NewContractResponse(created))
}

func (c *ContractController) Update(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.begin("update contract")

	var req dto.ContractRequest
	if !c.decode(w, r, traceID, &req, logger) {
		return
	}
	contract, err := req.ToDomain(chi.URLParam(r, "contractId"))
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	updated, err := c.useCase.Update(r.Context(), contract)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}
	c.writeJSON(w, http.StatusOK, dto.NewContractResponse(updated))
}

func (c *ContractController) Delete(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.begin("delete contract")
	if err := c.useCase.Delete(r.Context(), chi.URLParam(r, "contractId")); err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *ContractController) Schedule(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, "schedule", c.useCase.Schedule)
}

func (c *ContractController) ConfirmPickup(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, "confirm pickup", c.useCase.ConfirmPickup)
}

func (c *ContractController) ReceiveReturn(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, "receive return", c.useCase.ReceiveReturn)
}

func (c *ContractController) Cancel(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, "cancel", c.useCase.Cancel)
}

func (c *ContractController) PickupItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemId")
	c.transition(w, r, "pickup item", func(ctx context.Context, id string) (domain.Contract, error) {
		return c.useCase.PickupItem(ctx, id, itemID)
	})
}

func (c *ContractController) ReturnItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemId")
	c.transition(w, r, "return item", func(ctx context.Context, id string) (domain.Contract, error) {
		return c.useCase.ReturnItem(ctx, id, itemID)
	})
}

func (c *ContractController) RegisterPayment(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.begin("register payment")

	var req dto.PaymentRequest
	if !c.decode(w, r, traceID, &req, logger) {
		return
	}
	contract, err := c.useCase.RegisterPayment(r.Context(), chi.URLParam(r, "contractId"), req.Amount)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}
	c.writeJSON(w, http.StatusOK, dto.NewContractResponse(contract))
}

func (c *ContractController) Sign(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.begin("sign")

	var req dto.SignatureRequest
	if !c.decode(w, r, traceID, &req, logger) {
		return
	}
	contract, err := c.useCase.Sign(r.Context(), chi.URLParam(r, "contractId"), req.Signature, req.ManualSignature)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}
	c.writeJSON(w, http.StatusOK, dto.NewContractResponse(contract))
}

func (c *ContractController) transition(
	w http.ResponseWriter,
	r *http.Request,
	op string,
	fn func(ctx context.Context, id string) (domain.Contract, error),
) {
	traceID, logger := c.begin(op)
	contract, err := fn(r.Context(), chi.URLParam(r, "contractId"))
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}
	c.writeJSON(w, http.StatusOK, dto.NewContractResponse(contract))
}
