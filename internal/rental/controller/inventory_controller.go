package controller

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"locatrajes/internal/domain"
	"locatrajes/internal/dto"
)

type InventoryUseCase interface {
	List() []domain.Item
	Get(id string) (domain.Item, error)
	Create(ctx context.Context, it domain.Item) (domain.Item, error)
	Update(ctx context.Context, it domain.Item) (domain.Item, error)
	Delete(ctx context.Context, id string) error
	Triage(ctx context.Context, id string, target domain.ItemStatus) (domain.Item, error)
}

type ClientUseCase interface {
	List() []domain.Client
	Get(id string) (domain.Client, error)
	Create(ctx context.Context, c domain.Client) (domain.Client, error)
	Update(ctx context.Context, c domain.Client) (domain.Client, error)
	Delete(ctx context.Context, id string) error
	LookupAddress(ctx context.Context, cep string) (domain.Address, error)
}

// InventoryController serves the item registry and the client book.
type InventoryController struct {
	responder
	items   InventoryUseCase
	clients ClientUseCase
}

func NewInventoryController(items InventoryUseCase, clients ClientUseCase, logger *zap.Logger) *InventoryController {
	return &InventoryController{
		responder: responder{logger: logger},
		items:     items,
		clients:   clients,
	}
}

func (c *InventoryController) ListItems(w http.ResponseWriter, r *http.Request) {
	c.writeJSON(w, http.StatusOK, dto.NewItemResponses(c.items.List()))
}

func (c *InventoryController) GetItem(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.begin("get item")
	it, err := c.items.Get(chi.URLParam(r, "itemId"))
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}
	c.writeJSON(w, http.StatusOK, dto.NewItemResponse(it))
}

func (c *InventoryController) CreateItem(w http.ResponseWriter, r *http.Request) {
	c.saveItem(w, r, "create item", "", http.StatusCreated, c.items.Create)
}

func (c *InventoryController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	c.saveItem(w, r, "update item", chi.URLParam(r, "itemId"), http.StatusOK, c.items.Update)
}

func (c *InventoryController) saveItem(
	w http.ResponseWriter,
	r *http.Request,
	op, id string,
	status int,
	save func(ctx context.Context, it domain.Item) (domain.Item, error),
) {
	traceID, logger := c.begin(op)

	var req dto.ItemRequest
	if !c.decode(w, r, traceID, &req, logger) {
		return
	}
	it, err := req.ToDomain(id)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	saved, err := save(r.Context(), it)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}
	c.writeJSON(w, status, dto.NewItemResponse(saved))
}

func (c *InventoryController) DeleteItem(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.begin("delete item")
	if err := c.items.Delete(r.Context(), chi.URLParam(r, "itemId")); err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *InventoryController) TriageItem(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.begin("triage item")

	var req dto.TriageRequest
	if !c.decode(w, r, traceID, &req, logger) {
		return
	}
	it, err := c.items.Triage(r.Context(), chi.URLParam(r, "itemId"), domain.ItemStatus(req.Status))
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}
	c.writeJSON(w, http.StatusOK, dto.NewItemResponse(it))
}

func (c *InventoryController) ListClients(w http.ResponseWriter, r *http.Request) {
	c.writeJSON(w, http.StatusOK, dto.NewClientResponses(c.clients.List()))
}

func (c *InventoryController) GetClient(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.begin("get client")
	client, err := c.clients.Get(chi.URLParam(r, "clientId"))
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}
	c.writeJSON(w, http.StatusOK, dto.NewClientResponse(client))
}

func (c *InventoryController) CreateClient(w http.ResponseWriter, r *http.Request) {
	c.saveClient(w, r, "create client", "", http.StatusCreated, c.clients.Create)
}

func (c *InventoryController) UpdateClient(w http.ResponseWriter, r *http.Request) {
	c.saveClient(w, r, "update client", chi.URLParam(r, "clientId"), http.StatusOK, c.clients.Update)
}

func (c *InventoryController) saveClient(
	w http.ResponseWriter,
	r *http.Request,
	op, id string,
	status int,
	save func(ctx context.Context, cl domain.Client) (domain.Client, error),
) {
	traceID, logger := c.begin(op)

	var req dto.ClientRequest
	if !c.decode(w, r, traceID, &req, logger) {
		return
	}

	saved, err := save(r.Context(), req.ToDomain(id))
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}
	c.writeJSON(w, status, dto.NewClientResponse(saved))
}

func (c *InventoryController) DeleteClient(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.begin("delete client")
	if err := c.clients.Delete(r.Context(), chi.URLParam(r, "clientId")); err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *InventoryController) LookupAddress(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.begin("lookup address")
	addr, err := c.clients.LookupAddress(r.Context(), chi.URLParam(r, "cep"))
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}
	c.writeJSON(w, http.StatusOK, dto.NewAddressDTO(addr))
}
