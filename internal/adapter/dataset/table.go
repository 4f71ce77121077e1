// Package dataset provides the in-memory normalized detection table and the
// CSV loader that builds it.
package dataset

import (
	"context"
	"slices"

	"github.com/couchcryptid/wildfire-explorer/internal/domain"
)

// Table is an immutable, already-normalized detection table held in memory.
type Table struct {
	rows []domain.Detection
}

// NewTable copies rows into a Table.
func NewTable(rows []domain.Detection) *Table {
	return &Table{rows: slices.Clone(rows)}
}

// Detections returns every row in load order. Callers must not modify the slice.
func (t *Table) Detections(_ context.Context) ([]domain.Detection, error) {
	return t.rows, nil
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }
