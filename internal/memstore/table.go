// Package memstore keeps the back-office collections in process memory. It
// backs STORE_DRIVER=memory and the HTTP tests, and reports the same errors
// as the Mongo stores.
package memstore

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"backoffice/internal/database"
)

// table holds rows in insertion order. Callers serialize access.
type table[T any] struct {
	ids  []primitive.ObjectID
	rows map[primitive.ObjectID]T
}

func newTable[T any]() table[T] {
	return table[T]{rows: make(map[primitive.ObjectID]T)}
}

func (t *table[T]) list(opts database.ListOptions, keep func(T) bool) []T {
	out := make([]T, 0, len(t.ids))
	var skipped int64
	for _, id := range t.ids {
		row := t.rows[id]
		if keep != nil && !keep(row) {
			continue
		}
		if skipped < opts.Skip {
			skipped++
			continue
		}
		if opts.Limit > 0 && int64(len(out)) >= opts.Limit {
			break
		}
		out = append(out, row)
	}
	return out
}

func (t *table[T]) get(id primitive.ObjectID) (T, error) {
	row, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, database.ErrNotFound
	}
	return row, nil
}

func (t *table[T]) insert(row T) primitive.ObjectID {
	id := primitive.NewObjectID()
	t.ids = append(t.ids, id)
	t.rows[id] = row
	return id
}

func (t *table[T]) set(id primitive.ObjectID, row T) {
	t.rows[id] = row
}

func (t *table[T]) remove(id primitive.ObjectID) (T, error) {
	row, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, database.ErrNotFound
	}
	delete(t.rows, id)
	for i, existing := range t.ids {
		if existing == id {
			t.ids = append(t.ids[:i], t.ids[i+1:]...)
			break
		}
	}
	return row, nil
}

func (t *table[T]) find(match func(T) bool) (T, bool) {
	for _, id := range t.ids {
		if row := t.rows[id]; match(row) {
			return row, true
		}
	}
	var zero T
	return zero, false
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
