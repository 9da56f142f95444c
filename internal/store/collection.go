package store

// collection keeps entities in insertion order so a rolled-back delete can put
// an entry back where it was.
type collection[T any] struct {
	idOf    func(T) string
	entries []T
}

func newCollection[T any](idOf func(T) string) *collection[T] {
	return &collection[T]{idOf: idOf}
}

func (c *collection[T]) index(id string) int {
	for i, e := range c.entries {
		if c.idOf(e) == id {
			return i
		}
	}
	return -1
}

func (c *collection[T]) get(id string) (T, bool) {
	if i := c.index(id); i >= 0 {
		return c.entries[i], true
	}
	var zero T
	return zero, false
}

// put replaces the entry with the same id or appends it.
func (c *collection[T]) put(v T) {
	if i := c.index(c.idOf(v)); i >= 0 {
		c.entries[i] = v
		return
	}
	c.entries = append(c.entries, v)
}

// replace swaps the entry stored under oldID for v, keeping its position.
func (c *collection[T]) replace(oldID string, v T) {
	if i := c.index(oldID); i >= 0 {
		c.entries[i] = v
		return
	}
	c.entries = append(c.entries, v)
}

func (c *collection[T]) insertAt(i int, v T) {
	if i < 0 || i > len(c.entries) {
		c.entries = append(c.entries, v)
		return
	}
	c.entries = append(c.entries, v)
	copy(c.entries[i+1:], c.entries[i:])
	c.entries[i] = v
}

func (c *collection[T]) remove(id string) (T, int, bool) {
	i := c.index(id)
	if i < 0 {
		var zero T
		return zero, -1, false
	}
	v := c.entries[i]
	c.entries = append(c.entries[:i], c.entries[i+1:]...)
	return v, i, true
}

func (c *collection[T]) all() []T {
	out := make([]T, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *collection[T]) reset(entries []T) {
	c.entries = append([]T(nil), entries...)
}
