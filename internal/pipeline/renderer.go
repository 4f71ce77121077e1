package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/wildfire-explorer/internal/domain"
	"github.com/couchcryptid/wildfire-explorer/internal/observability"
)

// Renderer receives every published snapshot. A snapshot's count, series and
// frames always come from the same cycle.
type Renderer interface {
	Render(ctx context.Context, snap domain.Snapshot) error
}

// RenderFunc adapts a function to the Renderer interface.
type RenderFunc func(ctx context.Context, snap domain.Snapshot) error

func (f RenderFunc) Render(ctx context.Context, snap domain.Snapshot) error {
	return f(ctx, snap)
}

type sink struct {
	name     string
	renderer Renderer
}

// Fanout delivers snapshots to every registered sink in registration order.
// A failing sink does not stop delivery to the others.
type Fanout struct {
	sinks   []sink
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewFanout creates an empty Fanout.
func NewFanout(logger *slog.Logger, metrics *observability.Metrics) *Fanout {
	return &Fanout{logger: logger, metrics: metrics}
}

// Add registers a named sink.
func (f *Fanout) Add(name string, r Renderer) {
	f.sinks = append(f.sinks, sink{name: name, renderer: r})
}

// Len returns the number of registered sinks.
func (f *Fanout) Len() int { return len(f.sinks) }

func (f *Fanout) Render(ctx context.Context, snap domain.Snapshot) error {
	var errs []error
	for _, s := range f.sinks {
		if err := s.renderer.Render(ctx, snap); err != nil {
			f.logger.Warn("render failed", "sink", s.name, "generation", snap.Generation, "error", err)
			f.metrics.RenderErrors.WithLabelValues(s.name).Inc()
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
			continue
		}
		f.metrics.SnapshotsRendered.WithLabelValues(s.name).Inc()
	}
	return errors.Join(errs...)
}
