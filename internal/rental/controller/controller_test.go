package controller

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"locatrajes/internal/auth"
	"locatrajes/internal/availability"
	"locatrajes/internal/domain"
	"locatrajes/internal/dto"
	apperrors "locatrajes/internal/errors"
	"locatrajes/internal/rental/usecase"
)

type mockContractUseCase struct {
	ContractUseCase
	GetFunc               func(id string) (domain.Contract, error)
	CreateFunc            func(ctx context.Context, c domain.Contract) (domain.Contract, error)
	CheckAvailabilityFunc func(q usecase.AvailabilityQuery) ([]availability.ItemCheck, error)
	ConfirmPickupFunc     func(ctx context.Context, id string) (domain.Contract, error)
	PickupItemFunc        func(ctx context.Context, id, itemID string) (domain.Contract, error)
	RegisterPaymentFunc   func(ctx context.Context, id string, amount decimal.Decimal) (domain.Contract, error)
}

func (m *mockContractUseCase) Get(id string) (domain.Contract, error) {
	return m.GetFunc(id)
}

func (m *mockContractUseCase) Create(ctx context.Context, c domain.Contract) (domain.Contract, error) {
	return m.CreateFunc(ctx, c)
}

func (m *mockContractUseCase) CheckAvailability(q usecase.AvailabilityQuery) ([]availability.ItemCheck, error) {
	return m.CheckAvailabilityFunc(q)
}

func (m *mockContractUseCase) ConfirmPickup(ctx context.Context, id string) (domain.Contract, error) {
	return m.ConfirmPickupFunc(ctx, id)
}

func (m *mockContractUseCase) PickupItem(ctx context.Context, id, itemID string) (domain.Contract, error) {
	return m.PickupItemFunc(ctx, id, itemID)
}

func (m *mockContractUseCase) RegisterPayment(ctx context.Context, id string, amount decimal.Decimal) (domain.Contract, error) {
	return m.RegisterPaymentFunc(ctx, id, amount)
}

func contractRouter(uc ContractUseCase) http.Handler {
	ctrl := NewContractController(uc, zap.NewNop())
	r := chi.NewRouter()
	r.Post("/availability", ctrl.CheckAvailability)
	r.Post("/contracts", ctrl.Create)
	r.Get("/contracts/{contractId}", ctrl.Get)
	r.Post("/contracts/{contractId}/pickup", ctrl.ConfirmPickup)
	r.Post("/contracts/{contractId}/payments", ctrl.RegisterPayment)
	r.Post("/contracts/{contractId}/items/{itemId}/pickup", ctrl.PickupItem)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, dto.ErrorResponse) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var errResp dto.ErrorResponse
	if rec.Code >= 400 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	}
	return rec, errResp
}

func TestCreateContract_Created(t *testing.T) {
	uc := &mockContractUseCase{
		CreateFunc: func(ctx context.Context, c domain.Contract) (domain.Contract, error) {
			assert.Equal(t, []string{"dress", "veil"}, c.Items)
			assert.Equal(t, time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC), c.StartDate)
			assert.Equal(t, domain.ContractStatusScheduled, c.Status)
			assert.True(t, c.TotalValue.Equal(decimal.NewFromInt(450)))
			c.ID = "srv-1"
			return c, nil
		},
	}

	rec, _ := do(t, contractRouter(uc), http.MethodPost, "/contracts", `{
		"clientName": "Maria",
		"contractType": "Aluguel",
		"items": ["dress", "veil"],
		"startDate": "2026-09-12",
		"endDate": "2026-09-14",
		"status": "Agendado",
		"totalValue": 450
	}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp dto.ContractResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "srv-1", resp.ID)
	assert.Equal(t, "2026-09-14", resp.EndDate)
}

func TestCreateContract_BadDate(t *testing.T) {
	uc := &mockContractUseCase{}

	rec, resp := do(t, contractRouter(uc), http.MethodPost, "/contracts",
		`{"items": ["a"], "startDate": "12/09/2026", "endDate": "2026-09-14", "status": "Perdido"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", resp.Code)
	require.Len(t, resp.Details, 2)
	assert.Equal(t, "startDate", resp.Details[0].Field)
	assert.Equal(t, "status", resp.Details[1].Field)
	assert.NotEmpty(t, resp.TraceID)
}

func TestCreateContract_InvalidJSON(t *testing.T) {
	rec, resp := do(t, contractRouter(&mockContractUseCase{}), http.MethodPost, "/contracts", `{"items":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "body", resp.Details[0].Field)
}

func TestCreateContract_Unavailable(t *testing.T) {
	uc := &mockContractUseCase{
		CreateFunc: func(ctx context.Context, c domain.Contract) (domain.Contract, error) {
			return domain.Contract{}, apperrors.NewConflictError(availability.CodeItemUnavailable, "items unavailable", "dress")
		},
	}

	rec, resp := do(t, contractRouter(uc), http.MethodPost, "/contracts",
		`{"items": ["dress"], "startDate": "2026-09-12", "endDate": "2026-09-14"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, availability.CodeItemUnavailable, resp.Code)
	assert.Equal(t, []string{"dress"}, resp.IDs)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", apperrors.NewNotFoundError("contract k1 not found"), http.StatusNotFound, "NOT_FOUND"},
		{"precondition", apperrors.NewPreconditionError("SIGNATURE_REQUIRED", "sign first"), http.StatusUnprocessableEntity, "SIGNATURE_REQUIRED"},
		{"forbidden", apperrors.NewForbiddenError("no"), http.StatusForbidden, "FORBIDDEN"},
		{"deadlock", apperrors.NewDeadlockError("max retries exceeded"), http.StatusConflict, "DEADLOCK"},
		{"unexpected", stderrors.New("db down"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockContractUseCase{
				ConfirmPickupFunc: func(ctx context.Context, id string) (domain.Contract, error) {
					assert.Equal(t, "k1", id)
					return domain.Contract{}, tt.err
				},
			}

			rec, resp := do(t, contractRouter(uc), http.MethodPost, "/contracts/k1/pickup", "")
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, resp.Code)
			assert.Equal(t, tt.status, resp.Status)
		})
	}
}

func TestInternalErrorHidesCause(t *testing.T) {
	uc := &mockContractUseCase{
		GetFunc: func(id string) (domain.Contract, error) {
			return domain.Contract{}, stderrors.New("dial tcp 10.0.0.3:3306: connection refused")
		},
	}

	rec, resp := do(t, contractRouter(uc), http.MethodGet, "/contracts/k1", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, resp.Message, "10.0.0.3")
}

func TestPickupItem_PassesItemID(t *testing.T) {
	uc := &mockContractUseCase{
		PickupItemFunc: func(ctx context.Context, id, itemID string) (domain.Contract, error) {
			assert.Equal(t, "k1", id)
			assert.Equal(t, "veil", itemID)
			return domain.Contract{ID: id, Status: domain.ContractStatusActive}, nil
		},
	}

	rec, _ := do(t, contractRouter(uc), http.MethodPost, "/contracts/k1/items/veil/pickup", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"Ativo"`)
}

func TestRegisterPayment_DecodesAmount(t *testing.T) {
	uc := &mockContractUseCase{
		RegisterPaymentFunc: func(ctx context.Context, id string, amount decimal.Decimal) (domain.Contract, error) {
			assert.True(t, amount.Equal(decimal.RequireFromString("99.90")))
			return domain.Contract{ID: id}, nil
		},
	}

	rec, _ := do(t, contractRouter(uc), http.MethodPost, "/contracts/k1/payments", `{"amount": "99.90"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCheckAvailability_Response(t *testing.T) {
	uc := &mockContractUseCase{
		CheckAvailabilityFunc: func(q usecase.AvailabilityQuery) ([]availability.ItemCheck, error) {
			assert.Equal(t, "k9", q.ExcludeContractID)
			return []availability.ItemCheck{
				{ItemID: "dress", Requested: 1, Capacity: 1, Found: true, Offerable: true, Available: true},
				{ItemID: "veil", Requested: 1, Committed: 1, Capacity: 1, Found: true, Offerable: true},
			}, nil
		},
	}

	rec, _ := do(t, contractRouter(uc), http.MethodPost, "/availability",
		`{"items": ["dress", "veil"], "startDate": "2026-09-12", "endDate": "2026-09-14", "excludeContractId": "k9"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.AvailabilityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Available)
	require.Len(t, resp.Items, 2)
	assert.True(t, resp.Items[0].Available)
	assert.Equal(t, 1, resp.Items[1].Committed)
}

type mockFinanceUseCase struct {
	FinanceUseCase
	ReportFunc func(role domain.Role) ([]byte, error)
}

func (m *mockFinanceUseCase) Report(role domain.Role) ([]byte, error) {
	return m.ReportFunc(role)
}

func TestFinanceReport(t *testing.T) {
	uc := &mockFinanceUseCase{
		ReportFunc: func(role domain.Role) ([]byte, error) {
			if role != domain.RoleAdmin {
				return nil, apperrors.NewForbiddenError("role cannot access financial data")
			}
			return []byte("PK\x03\x04"), nil
		},
	}
	ctrl := NewFinanceController(uc, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/reports/financial", nil)
	req = req.WithContext(auth.WithClaims(req.Context(), &auth.Claims{Username: "ana", Role: domain.RoleAdmin}))
	rec := httptest.NewRecorder()
	ctrl.Report(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")

	req = httptest.NewRequest(http.MethodGet, "/reports/financial", nil)
	req = req.WithContext(auth.WithClaims(req.Context(), &auth.Claims{Username: "bia", Role: domain.RoleAttendant}))
	rec = httptest.NewRecorder()
	ctrl.Report(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
