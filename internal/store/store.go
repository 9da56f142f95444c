package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"locatrajes/internal/availability"
	"locatrajes/internal/domain"
	"locatrajes/internal/errors"
	"locatrajes/internal/infrastructure/metrics"
	"locatrajes/internal/lifecycle"
)

// TempIDPrefix marks entities created locally and not yet confirmed by the
// persistence gateway.
const TempIDPrefix = "tmp-"

func IsTempID(id string) bool {
	return strings.HasPrefix(id, TempIDPrefix)
}

// Gateway is the persistence service for one entity type. Create and Update
// return the entity as stored.
type Gateway[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, v T) (T, error)
	Update(ctx context.Context, v T) (T, error)
	Delete(ctx context.Context, id string) error
}

// ChangesetWriter persists every contract and item of a transition atomically.
type ChangesetWriter interface {
	ApplyChangeset(ctx context.Context, cs lifecycle.Changeset) error
}

type Gateways struct {
	Items         Gateway[domain.Item]
	Clients       Gateway[domain.Client]
	Contracts     Gateway[domain.Contract]
	Appointments  Gateway[domain.Appointment]
	Transactions  Gateway[domain.Transaction]
	Notifications Gateway[domain.Notification]
	Changes       ChangesetWriter
}

type entity[T any] struct {
	name  string
	col   *collection[T]
	gw    Gateway[T]
	setID func(*T, string)
	clone func(T) T
}

// Store is the in-memory application state mirrored from the persistence
// gateways. Every write is optimistic: the local collection changes first and
// is restored if the gateway call fails. The lock is never held across a
// gateway call.
type Store struct {
	mu      sync.RWMutex
	changes ChangesetWriter
	logger  *zap.Logger
	metrics *metrics.Metrics

	items         *entity[domain.Item]
	clients       *entity[domain.Client]
	contracts     *entity[domain.Contract]
	appointments  *entity[domain.Appointment]
	transactions  *entity[domain.Transaction]
	notifications *entity[domain.Notification]
}

func New(gw Gateways, logger *zap.Logger, m *metrics.Metrics) *Store {
	return &Store{
		changes: gw.Changes,
		logger:  logger,
		metrics: m,
		items: &entity[domain.Item]{
			name:  "item",
			col:   newCollection(func(v domain.Item) string { return v.ID }),
			gw:    gw.Items,
			setID: func(v *domain.Item, id string) { v.ID = id },
		},
		clients: &entity[domain.Client]{
			name:  "client",
			col:   newCollection(func(v domain.Client) string { return v.ID }),
			gw:    gw.Clients,
			setID: func(v *domain.Client, id string) { v.ID = id },
		},
		contracts: &entity[domain.Contract]{
			name:  "contract",
			col:   newCollection(func(v domain.Contract) string { return v.ID }),
			gw:    gw.Contracts,
			setID: func(v *domain.Contract, id string) { v.ID = id },
			clone: domain.Contract.Clone,
		},
		appointments: &entity[domain.Appointment]{
			name:  "appointment",
			col:   newCollection(func(v domain.Appointment) string { return v.ID }),
			gw:    gw.Appointments,
			setID: func(v *domain.Appointment, id string) { v.ID = id },
		},
		transactions: &entity[domain.Transaction]{
			name:  "transaction",
			col:   newCollection(func(v domain.Transaction) string { return v.ID }),
			gw:    gw.Transactions,
			setID: func(v *domain.Transaction, id string) { v.ID = id },
		},
		notifications: &entity[domain.Notification]{
			name:  "notification",
			col:   newCollection(func(v domain.Notification) string { return v.ID }),
			gw:    gw.Notifications,
			setID: func(v *domain.Notification, id string) { v.ID = id },
		},
	}
}

// Load replaces every collection with the gateways' current lists. Nothing
// changes unless all lists load.
func (s *Store) Load(ctx context.Context) error {
	items, err := s.items.gw.List(ctx)
	if err != nil {
		return fmt.Errorf("loading items: %w", err)
	}
	clients, err := s.clients.gw.List(ctx)
	if err != nil {
		return fmt.Errorf("loading clients: %w", err)
	}
	contracts, err := s.contracts.gw.List(ctx)
	if err != nil {
		return fmt.Errorf("loading contracts: %w", err)
	}
	appointments, err := s.appointments.gw.List(ctx)
	if err != nil {
		return fmt.Errorf("loading appointments: %w", err)
	}
	transactions, err := s.transactions.gw.List(ctx)
	if err != nil {
		return fmt.Errorf("loading transactions: %w", err)
	}
	notifications, err := s.notifications.gw.List(ctx)
	if err != nil {
		return fmt.Errorf("loading notifications: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items.col.reset(items)
	s.clients.col.reset(clients)
	s.contracts.col.reset(contracts)
	s.appointments.col.reset(appointments)
	s.transactions.col.reset(transactions)
	s.notifications.col.reset(notifications)

	s.logger.Info("store loaded",
		zap.Int("items", len(items)),
		zap.Int("contracts", len(contracts)),
		zap.Int("clients", len(clients)),
		zap.Int("appointments", len(appointments)),
		zap.Int("transactions", len(transactions)),
		zap.Int("notifications", len(notifications)),
	)
	return nil
}

func (s *Store) rolledBack(kind, op, id string, err error) {
	s.logger.Warn("optimistic write rolled back",
		zap.String("entity", kind),
		zap.String("operation", op),
		zap.String("id", id),
		zap.Error(err),
	)
	s.metrics.RolledBack(kind, op)
}

func cloned[T any](e *entity[T], v T) T {
	if e.clone == nil {
		return v
	}
	return e.clone(v)
}

// create inserts v under a temporary id (or its own id when it already has
// one), persists it, then re-keys the entry to the stored entity.
func create[T any](ctx context.Context, s *Store, e *entity[T], v T) (T, error) {
	var zero T
	v = cloned(e, v)

	key := e.col.idOf(v)
	request := v
	if key == "" {
		key = TempIDPrefix + uuid.NewString()
		e.setID(&v, key)
	}

	s.mu.Lock()
	if _, exists := e.col.get(key); exists {
		s.mu.Unlock()
		return zero, errors.NewConflictError(errors.CodeDuplicateID, fmt.Sprintf("%s %s already exists", e.name, key), key)
	}
	e.col.put(v)
	s.mu.Unlock()

	created, err := e.gw.Create(ctx, request)
	if err != nil {
		s.mu.Lock()
		e.col.remove(key)
		s.mu.Unlock()
		s.rolledBack(e.name, "create", key, err)
		return zero, err
	}

	s.mu.Lock()
	e.col.replace(key, cloned(e, created))
	s.mu.Unlock()
	return created, nil
}

func update[T any](ctx context.Context, s *Store, e *entity[T], v T) (T, error) {
	var zero T
	v = cloned(e, v)
	id := e.col.idOf(v)

	s.mu.Lock()
	prev, ok := e.col.get(id)
	if !ok {
		s.mu.Unlock()
		return zero, errors.NewNotFoundError(fmt.Sprintf("%s %s not found", e.name, id))
	}
	e.col.put(v)
	s.mu.Unlock()

	updated, err := e.gw.Update(ctx, v)
	if err != nil {
		s.mu.Lock()
		e.col.put(prev)
		s.mu.Unlock()
		s.rolledBack(e.name, "update", id, err)
		return zero, err
	}

	s.mu.Lock()
	e.col.put(cloned(e, updated))
	s.mu.Unlock()
	return updated, nil
}

func remove[T any](ctx context.Context, s *Store, e *entity[T], id string) error {
	s.mu.Lock()
	prev, idx, ok := e.col.remove(id)
	s.mu.Unlock()
	if !ok {
		return errors.NewNotFoundError(fmt.Sprintf("%s %s not found", e.name, id))
	}

	if err := e.gw.Delete(ctx, id); err != nil {
		s.mu.Lock()
		e.col.insertAt(idx, prev)
		s.mu.Unlock()
		s.rolledBack(e.name, "delete", id, err)
		return err
	}
	return nil
}

func lookup[T any](s *Store, e *entity[T], id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := e.col.get(id)
	if !ok {
		return v, false
	}
	return cloned(e, v), true
}

func list[T any](s *Store, e *entity[T]) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := e.col.all()
	if e.clone != nil {
		for i := range out {
			out[i] = e.clone(out[i])
		}
	}
	return out
}

// Apply writes a transition's changeset. Local state changes first; if the
// writer fails every touched contract and item is restored.
func (s *Store) Apply(ctx context.Context, cs lifecycle.Changeset) error {
	if cs.Empty() {
		return nil
	}

	type prevContract struct {
		v       domain.Contract
		existed bool
	}
	type prevItem struct {
		v       domain.Item
		existed bool
	}

	s.mu.Lock()
	contracts := make([]prevContract, len(cs.Contracts))
	for i, c := range cs.Contracts {
		v, ok := s.contracts.col.get(c.ID)
		contracts[i] = prevContract{v: v, existed: ok}
		s.contracts.col.put(c.Clone())
	}
	items := make([]prevItem, len(cs.Items))
	for i, it := range cs.Items {
		v, ok := s.items.col.get(it.ID)
		items[i] = prevItem{v: v, existed: ok}
		s.items.col.put(it)
	}
	s.mu.Unlock()

	if err := s.changes.ApplyChangeset(ctx, cs); err != nil {
		s.mu.Lock()
		for i := len(cs.Contracts) - 1; i >= 0; i-- {
			if contracts[i].existed {
				s.contracts.col.put(contracts[i].v)
			} else {
				s.contracts.col.remove(cs.Contracts[i].ID)
			}
		}
		for i := len(cs.Items) - 1; i >= 0; i-- {
			if items[i].existed {
				s.items.col.put(items[i].v)
			} else {
				s.items.col.remove(cs.Items[i].ID)
			}
		}
		s.mu.Unlock()

		s.logger.Warn("changeset rolled back",
			zap.Int("contracts", len(cs.Contracts)),
			zap.Int("items", len(cs.Items)),
			zap.Error(err),
		)
		s.metrics.RolledBack("changeset", "apply")
		return err
	}
	return nil
}

// Snapshot returns a consistent copy of the registry and ledger for the
// availability evaluator and the transition functions.
func (s *Store) Snapshot() availability.StaticSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	contracts := s.contracts.col.all()
	for i := range contracts {
		contracts[i] = contracts[i].Clone()
	}
	return availability.NewStaticSnapshot(s.items.col.all(), contracts)
}

// Item and Contracts make *Store an availability.Snapshot.
func (s *Store) Item(id string) (domain.Item, bool) {
	return lookup(s, s.items, id)
}

func (s *Store) Contracts() []domain.Contract {
	return list(s, s.contracts)
}

func (s *Store) Items() []domain.Item {
	return list(s, s.items)
}

func (s *Store) Contract(id string) (domain.Contract, bool) {
	return lookup(s, s.contracts, id)
}

func (s *Store) Clients() []domain.Client {
	return list(s, s.clients)
}

func (s *Store) Client(id string) (domain.Client, bool) {
	return lookup(s, s.clients, id)
}

func (s *Store) Appointments() []domain.Appointment {
	return list(s, s.appointments)
}

func (s *Store) Transactions() []domain.Transaction {
	return list(s, s.transactions)
}

func (s *Store) Notifications() []domain.Notification {
	return list(s, s.notifications)
}

func (s *Store) Appointment(id string) (domain.Appointment, bool) {
	return lookup(s, s.appointments, id)
}

func (s *Store) Transaction(id string) (domain.Transaction, bool) {
	return lookup(s, s.transactions, id)
}

// ItemsByID returns the registry keyed by id.
func (s *Store) ItemsByID() map[string]domain.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]domain.Item, len(s.items.col.entries))
	for _, it := range s.items.col.entries {
		out[it.ID] = it
	}
	return out
}

func (s *Store) CreateItem(ctx context.Context, v domain.Item) (domain.Item, error) {
	return create(ctx, s, s.items, v)
}

func (s *Store) UpdateItem(ctx context.Context, v domain.Item) (domain.Item, error) {
	return update(ctx, s, s.items, v)
}

func (s *Store) DeleteItem(ctx context.Context, id string) error {
	return remove(ctx, s, s.items, id)
}

func (s *Store) CreateClient(ctx context.Context, v domain.Client) (domain.Client, error) {
	return create(ctx, s, s.clients, v)
}

func (s *Store) UpdateClient(ctx context.Context, v domain.Client) (domain.Client, error) {
	return update(ctx, s, s.clients, v)
}

func (s *Store) DeleteClient(ctx context.Context, id string) error {
	return remove(ctx, s, s.clients, id)
}

func (s *Store) CreateContract(ctx context.Context, v domain.Contract) (domain.Contract, error) {
	return create(ctx, s, s.contracts, v)
}

func (s *Store) UpdateContract(ctx context.Context, v domain.Contract) (domain.Contract, error) {
	return update(ctx, s, s.contracts, v)
}

func (s *Store) DeleteContract(ctx context.Context, id string) error {
	return remove(ctx, s, s.contracts, id)
}

func (s *Store) CreateAppointment(ctx context.Context, v domain.Appointment) (domain.Appointment, error) {
	return create(ctx, s, s.appointments, v)
}

func (s *Store) UpdateAppointment(ctx context.Context, v domain.Appointment) (domain.Appointment, error) {
	return update(ctx, s, s.appointments, v)
}

func (s *Store) DeleteAppointment(ctx context.Context, id string) error {
	return remove(ctx, s, s.appointments, id)
}

func (s *Store) CreateTransaction(ctx context.Context, v domain.Transaction) (domain.Transaction, error) {
	return create(ctx, s, s.transactions, v)
}

func (s *Store) UpdateTransaction(ctx context.Context, v domain.Transaction) (domain.Transaction, error) {
	return update(ctx, s, s.transactions, v)
}

func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	return remove(ctx, s, s.transactions, id)
}

// AddNotification stores a notification under its own id.
func (s *Store) AddNotification(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	return create(ctx, s, s.notifications, n)
}

func (s *Store) UpdateNotification(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	return update(ctx, s, s.notifications, n)
}
