package lifecycle

import "locatrajes/internal/domain"

// Changeset is the complete next state produced by a transition: every
// contract and item that must be persisted together.
type Changeset struct {
	Contracts []domain.Contract
	Items     []domain.Item
}

func (cs Changeset) Empty() bool {
	return len(cs.Contracts) == 0 && len(cs.Items) == 0
}

// Contract returns the changed contract with the given id.
func (cs Changeset) Contract(id string) (domain.Contract, bool) {
	for _, c := range cs.Contracts {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Contract{}, false
}

// working tracks item status changes on top of the current registry so later
// steps of the same transition see earlier ones.
type working struct {
	base    map[string]domain.Item
	changed map[string]domain.Item
	order   []string
}

func newWorking(items map[string]domain.Item) *working {
	return &working{base: items, changed: map[string]domain.Item{}}
}

func (w *working) get(id string) (domain.Item, bool) {
	if it, ok := w.changed[id]; ok {
		return it, true
	}
	it, ok := w.base[id]
	return it, ok
}

func (w *working) set(id string, status domain.ItemStatus) {
	it, ok := w.get(id)
	if !ok || it.Status == status {
		return
	}
	it.Status = status
	if _, seen := w.changed[id]; !seen {
		w.order = append(w.order, id)
	}
	w.changed[id] = it
}

func (w *working) items() []domain.Item {
	out := make([]domain.Item, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.changed[id])
	}
	return out
}
