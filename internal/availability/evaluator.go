package availability

import (
	"time"

	"locatrajes/internal/domain"
)

// DefaultBufferDays is the cleaning/inspection turnaround appended after an
// existing contract's end date.
const DefaultBufferDays = 2

// CodeItemUnavailable tags the conflict returned when a write would commit
// more units than an item has free.
const CodeItemUnavailable = "ITEM_UNAVAILABLE"

// Snapshot is a read-only view of the inventory registry and contract ledger.
type Snapshot interface {
	Item(id string) (domain.Item, bool)
	Contracts() []domain.Contract
}

type Evaluator struct {
	bufferDays int
}

func NewEvaluator(bufferDays int) *Evaluator {
	if bufferDays < 0 {
		bufferDays = 0
	}
	return &Evaluator{bufferDays: bufferDays}
}

func (e *Evaluator) BufferDays() int {
	return e.bufferDays
}

// IsAvailable reports whether a free unit of itemID exists for the inclusive
// calendar range [start, end]. excludeContractID may be empty.
func (e *Evaluator) IsAvailable(snap Snapshot, itemID string, start, end time.Time, excludeContractID string) bool {
	item, ok := snap.Item(itemID)
	if !ok || !item.Status.Offerable() {
		return false
	}
	return e.Committed(snap.Contracts(), itemID, start, end, excludeContractID) < item.Quantity()
}

// Committed counts the units of itemID held by live contracts whose buffered
// window overlaps [start, end].
func (e *Evaluator) Committed(contracts []domain.Contract, itemID string, start, end time.Time, excludeContractID string) int {
	reqStart := domain.NormalizeDate(start)
	reqEnd := domain.NormalizeDate(end)

	committed := 0
	for _, c := range contracts {
		if c.Status.Terminal() {
			continue
		}
		if excludeContractID != "" && c.ID == excludeContractID {
			continue
		}
		units := c.Units(itemID)
		if units == 0 {
			continue
		}
		if Overlaps(reqStart, reqEnd, domain.NormalizeDate(c.StartDate), domain.AddDays(c.EndDate, e.bufferDays)) {
			committed += units
		}
	}
	return committed
}

// Overlaps reports whether two inclusive ranges share at least one instant.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aEnd.Before(bStart) && !bEnd.Before(aStart)
}

type ItemCheck struct {
	ItemID    string
	Requested int
	Committed int
	Capacity  int
	Found     bool
	Offerable bool
	Available bool
}

// CheckItems evaluates a whole item list, as a contract would commit it:
// repeated ids ask for that many units at once.
func (e *Evaluator) CheckItems(snap Snapshot, itemIDs []string, start, end time.Time, excludeContractID string) []ItemCheck {
	requested := make(map[string]int, len(itemIDs))
	order := make([]string, 0, len(itemIDs))
	for _, id := range itemIDs {
		if requested[id] == 0 {
			order = append(order, id)
		}
		requested[id]++
	}

	contracts := snap.Contracts()
	checks := make([]ItemCheck, 0, len(order))
	for _, id := range order {
		check := ItemCheck{ItemID: id, Requested: requested[id]}
		item, ok := snap.Item(id)
		if ok {
			check.Found = true
			check.Capacity = item.Quantity()
			check.Offerable = item.Status.Offerable()
			check.Committed = e.Committed(contracts, id, start, end, excludeContractID)
			check.Available = check.Offerable && check.Committed+check.Requested <= check.Capacity
		}
		checks = append(checks, check)
	}
	return checks
}

// Unavailable returns the ids of failed checks.
func Unavailable(checks []ItemCheck) []string {
	var ids []string
	for _, c := range checks {
		if !c.Available {
			ids = append(ids, c.ItemID)
		}
	}
	return ids
}

// StaticSnapshot is a Snapshot over plain slices.
type StaticSnapshot struct {
	Items         map[string]domain.Item
	ContractsList []domain.Contract
}

func NewStaticSnapshot(items []domain.Item, contracts []domain.Contract) StaticSnapshot {
	m := make(map[string]domain.Item, len(items))
	for _, it := range items {
		m[it.ID] = it
	}
	return StaticSnapshot{Items: m, ContractsList: contracts}
}

func (s StaticSnapshot) Item(id string) (domain.Item, bool) {
	it, ok := s.Items[id]
	return it, ok
}

func (s StaticSnapshot) Contracts() []domain.Contract {
	return s.ContractsList
}

// BookingChanged reports whether next commits different dates or items than
// current.
func BookingChanged(current, next domain.Contract) bool {
	if !domain.NormalizeDate(current.StartDate).Equal(domain.NormalizeDate(next.StartDate)) ||
		!domain.NormalizeDate(current.EndDate).Equal(domain.NormalizeDate(next.EndDate)) {
		return true
	}
	if current.Status.Terminal() && !next.Status.Terminal() {
		return true
	}
	if len(current.Items) != len(next.Items) {
		return true
	}
	for i := range current.Items {
		if current.Items[i] != next.Items[i] {
			return true
		}
	}
	return false
}
