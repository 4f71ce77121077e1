package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/couchcryptid/wildfire-explorer/internal/domain"
)

// ErrDatasetUnavailable wraps any failure to read the normalized dataset.
var ErrDatasetUnavailable = errors.New("dataset unavailable")

// scanCheckInterval is how many rows are scanned between cancellation checks.
const scanCheckInterval = 4096

// Dataset is the read-only normalized detection table. Implementations return
// rows in a stable order and must not mutate the returned slice afterwards.
type Dataset interface {
	Detections(ctx context.Context) ([]domain.Detection, error)
}

// View is the subset of dataset rows matching one cycle's predicate, in dataset order.
type View struct {
	Rows []domain.Detection
}

// Filter re-scans the full dataset and keeps the rows matching pred. Nothing is
// cached between calls. A cancelled ctx stops the scan early.
func Filter(ctx context.Context, ds Dataset, pred domain.Predicate) (View, error) {
	rows, err := ds.Detections(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return View{}, ctx.Err()
		}
		return View{}, fmt.Errorf("%w: %w", ErrDatasetUnavailable, err)
	}

	out := make([]domain.Detection, 0, len(rows)/4)
	for i, row := range rows {
		if i%scanCheckInterval == 0 && ctx.Err() != nil {
			return View{}, ctx.Err()
		}
		if pred(row) {
			out = append(out, row)
		}
	}
	return View{Rows: out}, nil
}
