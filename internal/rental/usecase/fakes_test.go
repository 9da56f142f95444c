package usecase

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"locatrajes/internal/domain"
	apperrors "locatrajes/internal/errors"
	"locatrajes/internal/lifecycle"
	"locatrajes/internal/store"
)

var errBackend = stderrors.New("backend unavailable")

var today = time.Date(2026, 9, 10, 14, 0, 0, 0, time.UTC)

func date(d int) time.Time {
	return time.Date(2026, 9, d, 0, 0, 0, 0, time.UTC)
}

// memGateway keeps rows in memory and assigns sequential ids. Setting Err
// makes every write fail. BeforeCreate runs ahead of each insert, while the
// store has the row pending.
type memGateway[T any] struct {
	rows         []T
	idOf         func(T) string
	setID        func(*T, string)
	seq          int
	Err          error
	BeforeCreate func(v T)
}

func newMemGateway[T any](idOf func(T) string, setID func(*T, string), rows ...T) *memGateway[T] {
	return &memGateway[T]{rows: rows, idOf: idOf, setID: setID}
}

func (g *memGateway[T]) List(ctx context.Context) ([]T, error) {
	return append([]T(nil), g.rows...), nil
}

func (g *memGateway[T]) Create(ctx context.Context, v T) (T, error) {
	if g.BeforeCreate != nil {
		g.BeforeCreate(v)
	}
	if g.Err != nil {
		var zero T
		return zero, g.Err
	}
	if g.idOf(v) == "" {
		g.seq++
		g.setID(&v, fmt.Sprintf("srv-%d", g.seq))
	}
	g.rows = append(g.rows, v)
	return v, nil
}

func (g *memGateway[T]) Update(ctx context.Context, v T) (T, error) {
	if g.Err != nil {
		var zero T
		return zero, g.Err
	}
	for i := range g.rows {
		if g.idOf(g.rows[i]) == g.idOf(v) {
			g.rows[i] = v
			return v, nil
		}
	}
	var zero T
	return zero, apperrors.NewNotFoundError("row not found")
}

func (g *memGateway[T]) Delete(ctx context.Context, id string) error {
	if g.Err != nil {
		return g.Err
	}
	for i := range g.rows {
		if g.idOf(g.rows[i]) == id {
			g.rows = append(g.rows[:i], g.rows[i+1:]...)
			return nil
		}
	}
	return apperrors.NewNotFoundError("row not found")
}

type mockChangesetWriter struct {
	ApplyChangesetFunc func(ctx context.Context, cs lifecycle.Changeset) error
	applied            []lifecycle.Changeset
}

func (m *mockChangesetWriter) ApplyChangeset(ctx context.Context, cs lifecycle.Changeset) error {
	if m.ApplyChangesetFunc != nil {
		if err := m.ApplyChangesetFunc(ctx, cs); err != nil {
			return err
		}
	}
	m.applied = append(m.applied, cs)
	return nil
}

type harness struct {
	store         *store.Store
	items         *memGateway[domain.Item]
	clients       *memGateway[domain.Client]
	contracts     *memGateway[domain.Contract]
	appointments  *memGateway[domain.Appointment]
	transactions  *memGateway[domain.Transaction]
	notifications *memGateway[domain.Notification]
	changes       *mockChangesetWriter
}

type seed struct {
	items        []domain.Item
	clients      []domain.Client
	contracts    []domain.Contract
	appointments []domain.Appointment
	transactions []domain.Transaction
}

func newHarness(t *testing.T, s seed) *harness {
	t.Helper()
	h := &harness{
		items: newMemGateway(func(v domain.Item) string { return v.ID },
			func(v *domain.Item, id string) { v.ID = id }, s.items...),
		clients: newMemGateway(func(v domain.Client) string { return v.ID },
			func(v *domain.Client, id string) { v.ID = id }, s.clients...),
		contracts: newMemGateway(func(v domain.Contract) string { return v.ID },
			func(v *domain.Contract, id string) { v.ID = id }, s.contracts...),
		appointments: newMemGateway(func(v domain.Appointment) string { return v.ID },
			func(v *domain.Appointment, id string) { v.ID = id }, s.appointments...),
		transactions: newMemGateway(func(v domain.Transaction) string { return v.ID },
			func(v *domain.Transaction, id string) { v.ID = id }, s.transactions...),
		notifications: newMemGateway(func(v domain.Notification) string { return v.ID },
			func(v *domain.Notification, id string) { v.ID = id }),
		changes: &mockChangesetWriter{},
	}
	h.store = store.New(store.Gateways{
		Items:         h.items,
		Clients:       h.clients,
		Contracts:     h.contracts,
		Appointments:  h.appointments,
		Transactions:  h.transactions,
		Notifications: h.notifications,
		Changes:       h.changes,
	}, zap.NewNop(), nil)
	require.NoError(t, h.store.Load(context.Background()))
	return h
}

func item(id string, status domain.ItemStatus) domain.Item {
	return domain.Item{ID: id, Name: "Terno " + id, Status: status}
}

func contract(id string, status domain.ContractStatus, start, end time.Time, items ...string) domain.Contract {
	return domain.Contract{
		ID:           id,
		ClientName:   "Maria",
		ContractType: domain.ContractTypeRental,
		Status:       status,
		StartDate:    start,
		EndDate:      end,
		Items:        items,
	}
}
