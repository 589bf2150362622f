package memory

import (
	"fmt"
	"sync"

	"github.com/riskibarqy/football-api/internal/domain/upsert"
)

// refTable keeps rows keyed by external reference in insertion order and
// hands out sequential ids, mirroring the unique external_ref constraint.
type refTable[T any] struct {
	mu     sync.RWMutex
	rows   map[string]T
	order  []string
	nextID int64

	ref   func(T) string
	setID func(*T, int64)
	getID func(T) int64
}

func newRefTable[T any](ref func(T) string, getID func(T) int64, setID func(*T, int64)) *refTable[T] {
	return &refTable[T]{
		rows:   make(map[string]T),
		nextID: 1,
		ref:    ref,
		setID:  setID,
		getID:  getID,
	}
}

// upsert stores every item or none: the first invalid item fails the batch.
func (t *refTable[T]) upsert(items []T, validate func(T) error) ([]upsert.Row, error) {
	for idx, item := range items {
		if err := validate(item); err != nil {
			return nil, fmt.Errorf("row %d: %w", idx, err)
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]upsert.Row, 0, len(items))
	for _, item := range items {
		key := t.ref(item)
		existing, ok := t.rows[key]
		if ok {
			t.setID(&item, t.getID(existing))
		} else {
			t.setID(&item, t.nextID)
			t.nextID++
			t.order = append(t.order, key)
		}
		t.rows[key] = item
		out = append(out, upsert.Row{ID: t.getID(item), ExternalRef: key, Inserted: !ok})
	}

	return out, nil
}

func (t *refTable[T]) filter(keep func(T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]T, 0)
	for _, key := range t.order {
		if row := t.rows[key]; keep(row) {
			out = append(out, row)
		}
	}
	return out
}
