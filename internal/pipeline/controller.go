package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/couchcryptid/wildfire-explorer/internal/domain"
	"github.com/couchcryptid/wildfire-explorer/internal/observability"
)

// Trigger kinds, used as the metrics label for triggers_total.
const (
	TriggerStart  = "start"
	TriggerChange = "change"
	TriggerSubmit = "submit"
)

// trigger is one request to recompute, carrying the filter snapshot taken at
// the instant it fired.
type trigger struct {
	generation uint64
	kind       string
	filters    domain.FilterState
}

// Controller owns the filter state and runs the filter-aggregate-publish cycle
// under a configurable trigger policy. It is the only writer of the filter
// state and of the published snapshot.
//
// Cycles run one at a time on the Run goroutine. A new trigger cancels the
// in-flight scan and replaces any trigger still waiting, so only the newest
// generation can ever publish.
type Controller struct {
	dataset  Dataset
	renderer Renderer
	policy   TriggerPolicy
	logger   *slog.Logger
	metrics  *observability.Metrics

	mu         sync.Mutex
	filters    domain.FilterState
	generation uint64
	inFlight   context.CancelFunc
	lastErr    error

	triggers chan trigger
	latest   atomic.Pointer[domain.Snapshot]
	ready    atomic.Bool
}

// New creates a Controller with default filters and the pending placeholder as
// its latest snapshot.
func New(ds Dataset, r Renderer, policy TriggerPolicy, logger *slog.Logger, metrics *observability.Metrics) *Controller {
	c := &Controller{
		dataset:  ds,
		renderer: r,
		policy:   policy,
		logger:   logger,
		metrics:  metrics,
		filters:  domain.DefaultFilterState(),
		triggers: make(chan trigger, 1),
	}
	pending := domain.PendingSnapshot()
	c.latest.Store(&pending)
	return c
}

// CheckReadiness returns nil once the controller has published its first
// snapshot or handled its first cycle (the stored placeholder counts), or an
// error describing why it is not ready.
func (c *Controller) CheckReadiness(_ context.Context) error {
	if !c.ready.Load() {
		return errors.New("controller has not published a snapshot yet")
	}
	return nil
}

// Mode returns the active trigger mode.
func (c *Controller) Mode() Mode { return c.policy.Mode() }

// Filters returns a copy of the current filter state.
func (c *Controller) Filters() domain.FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters.Clone()
}

// Latest returns the most recently published snapshot.
func (c *Controller) Latest() domain.Snapshot {
	return *c.latest.Load()
}

// LastError returns the failure of the most recent cycle, or nil if it succeeded.
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Describe lists the selectable values present in the dataset.
func (c *Controller) Describe(ctx context.Context) (DomainInfo, error) {
	return Describe(ctx, c.dataset)
}

// Set replaces one dimension's selection. Under a continuous policy the change
// fires a recompute; under a deferred policy it is buffered until Submit.
func (c *Controller) Set(dim domain.Dimension, tokens []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.filters.Set(dim, tokens); err != nil {
		return err
	}
	c.logger.Debug("filter changed", "dimension", dim, "values", tokens)
	if c.policy.FireOnChange() {
		c.fireLocked(TriggerChange)
	}
	return nil
}

// Submit fires a recompute with the current filter state and returns its generation.
func (c *Controller) Submit() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fireLocked(TriggerSubmit)
}

// fireLocked snapshots the filters, supersedes any in-flight or waiting cycle
// and queues the new trigger. c.mu must be held.
func (c *Controller) fireLocked(kind string) uint64 {
	c.generation++
	t := trigger{generation: c.generation, kind: kind, filters: c.filters.Clone()}
	c.metrics.TriggersTotal.WithLabelValues(kind).Inc()

	if c.inFlight != nil {
		c.inFlight()
	}

	select {
	case c.triggers <- t:
	default:
		// Drop the waiting trigger; the slot is empty afterwards because every
		// sender holds c.mu.
		select {
		case <-c.triggers:
			c.metrics.TriggersCoalesced.Inc()
		default:
		}
		c.triggers <- t
	}
	return t.generation
}

// Run publishes the initial snapshot and then serves triggers until the context
// is cancelled.
func (c *Controller) Run(ctx context.Context) error {
	c.logger.Info("controller started", "mode", c.policy.Mode())
	c.metrics.ControllerRunning.Set(1)
	defer c.metrics.ControllerRunning.Set(0)

	if c.policy.FireOnStart() {
		c.mu.Lock()
		c.fireLocked(TriggerStart)
		c.mu.Unlock()
	} else {
		c.publish(ctx, c.Latest())
	}

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("controller stopping", "reason", ctx.Err())
			return nil
		case t := <-c.triggers:
			c.runCycle(ctx, t)
		}
	}
}

// runCycle computes one trigger and publishes it unless a newer trigger fired
// in the meantime. Failures leave the previous snapshot untouched.
func (c *Controller) runCycle(ctx context.Context, t trigger) {
	cycleCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.mu.Lock()
	if t.generation != c.generation {
		c.mu.Unlock()
		c.metrics.CyclesTotal.WithLabelValues("superseded").Inc()
		return
	}
	c.inFlight = cancel
	c.mu.Unlock()

	start := domain.Clock().Now()
	c.metrics.Recomputing.Set(1)
	snap, err := c.compute(cycleCtx, t)
	c.metrics.Recomputing.Set(0)

	c.mu.Lock()
	c.inFlight = nil
	if t.generation != c.generation {
		c.mu.Unlock()
		c.metrics.CyclesTotal.WithLabelValues("superseded").Inc()
		c.logger.Debug("cycle superseded", "generation", t.generation)
		return
	}
	if err != nil {
		if ctx.Err() != nil {
			c.mu.Unlock()
			return
		}
		c.lastErr = err
		c.mu.Unlock()
		// The previous snapshot, possibly the placeholder, stays served.
		c.ready.Store(true)
		c.metrics.CyclesTotal.WithLabelValues("failed").Inc()
		c.logger.Error("recompute failed", "generation", t.generation, "trigger", t.kind, "error", err)
		return
	}
	c.lastErr = nil
	c.mu.Unlock()

	c.metrics.CyclesTotal.WithLabelValues("published").Inc()
	c.metrics.CycleDuration.Observe(domain.Clock().Since(start).Seconds())
	c.logger.Info("cycle published",
		"generation", t.generation,
		"trigger", t.kind,
		"count", *snap.Count,
		"series", len(snap.Series),
		"frames", len(snap.Frames),
	)
	c.publish(ctx, snap)
}

func (c *Controller) compute(ctx context.Context, t trigger) (domain.Snapshot, error) {
	view, err := Filter(ctx, c.dataset, domain.BuildPredicate(t.filters))
	if err != nil {
		return domain.Snapshot{}, err
	}
	c.metrics.FilteredRows.Observe(float64(len(view.Rows)))

	agg := Aggregate(view)
	return domain.NewSnapshot(t.generation, t.filters.Selection(), agg.Count, agg.Series, agg.Frames), nil
}

// publish stores the snapshot as latest and hands it to the renderer. Render
// errors are logged; the stored snapshot stays published.
func (c *Controller) publish(ctx context.Context, snap domain.Snapshot) {
	c.latest.Store(&snap)
	c.ready.Store(true)

	if c.renderer == nil {
		return
	}
	if err := c.renderer.Render(ctx, snap); err != nil {
		c.logger.Warn("snapshot render incomplete", "generation", snap.Generation, "error", err)
	}
}
