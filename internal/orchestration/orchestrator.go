package orchestration

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/fetchboard/internal/content"
	apperrors "github.com/agbru/fetchboard/internal/errors"
	"github.com/agbru/fetchboard/internal/logging"
	"github.com/agbru/fetchboard/internal/metrics"
)

// ProgressBufferMultiplier defines the buffer size multiplier for the settle
// channel. Each resource settles once, so the buffer never fills and fetch
// goroutines never block on a slow reporter.
const ProgressBufferMultiplier = 2

// OverlapPolicy decides what happens when a cycle is requested while another
// one is still in flight.
type OverlapPolicy int

const (
	// OverlapAllow runs overlapping cycles independently. Each delivers its
	// own aggregate.
	OverlapAllow OverlapPolicy = iota
	// OverlapReject refuses a new cycle until the current one has delivered.
	OverlapReject
)

var (
	// ErrCycleInFlight is returned by RunFetchCycle under OverlapReject.
	ErrCycleInFlight = errors.New("a fetch cycle is already in flight")
	// ErrNilListener is returned when RunFetchCycle is given no listener.
	ErrNilListener = errors.New("nil listener")
	// ErrNoOutcome is the cause recorded when a gateway returns an unsettled outcome.
	ErrNoOutcome = errors.New("gateway returned no outcome")
)

var tracer = otel.Tracer("github.com/agbru/fetchboard/internal/orchestration")

// Coordinator runs fetch cycles against a Gateway.
type Coordinator struct {
	gateway      Gateway
	logger       logging.Logger
	metrics      *metrics.Metrics
	reporter     ProgressReporter
	progressOut  io.Writer
	fetchTimeout time.Duration
	policy       OverlapPolicy
	now          func() time.Time

	inFlight atomic.Int32
	cycles   sync.WaitGroup
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// WithMetrics records cycle metrics in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Coordinator) { c.metrics = m }
}

// WithProgressReporter streams settle updates of every cycle to r, which
// writes to out.
func WithProgressReporter(r ProgressReporter, out io.Writer) Option {
	return func(c *Coordinator) {
		c.reporter = r
		c.progressOut = out
	}
}

// WithFetchTimeout bounds each individual fetch. Zero disables the bound.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Coordinator) { c.fetchTimeout = d }
}

// WithOverlapPolicy sets the overlap policy. The default is OverlapAllow.
func WithOverlapPolicy(p OverlapPolicy) Option {
	return func(c *Coordinator) { c.policy = p }
}

// WithClock replaces time.Now for StartedAt and Duration.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// NewCoordinator creates a Coordinator over gw.
func NewCoordinator(gw Gateway, opts ...Option) *Coordinator {
	c := &Coordinator{
		gateway:     gw,
		logger:      logging.NewNopLogger(),
		reporter:    NullProgressReporter{},
		progressOut: io.Discard,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// InFlight returns the number of asynchronous cycles not yet delivered.
func (c *Coordinator) InFlight() int { return int(c.inFlight.Load()) }

// Wait blocks until every cycle started with RunFetchCycle has delivered.
func (c *Coordinator) Wait() { c.cycles.Wait() }

// RunFetchCycle starts a cycle and returns its ID without waiting. The
// listener receives the aggregate exactly once, from the cycle's goroutine.
// When the cycle is rejected the listener is never called.
func (c *Coordinator) RunFetchCycle(ctx context.Context, listener Listener) (string, error) {
	if listener == nil {
		return "", ErrNilListener
	}
	if c.policy == OverlapReject {
		if !c.inFlight.CompareAndSwap(0, 1) {
			c.metrics.CycleRejected()
			c.logger.Debug("cycle rejected", logging.Int("in_flight", c.InFlight()))
			return "", ErrCycleInFlight
		}
	} else {
		c.inFlight.Add(1)
	}

	cycleID := uuid.NewString()
	c.cycles.Add(1)
	go func() {
		defer c.cycles.Done()
		agg := c.execute(ctx, cycleID)
		c.inFlight.Add(-1)
		c.deliver(listener, agg)
	}()
	return cycleID, nil
}

// Execute runs one cycle synchronously and returns its aggregate. It is not
// subject to the overlap policy.
func (c *Coordinator) Execute(ctx context.Context) Aggregate {
	return c.execute(ctx, uuid.NewString())
}

// execute fans out the three fetches, waits for all of them and merges the
// outcomes. Each goroutine writes only its own slot and always returns nil,
// so a failure never cancels its siblings.
func (c *Coordinator) execute(ctx context.Context, cycleID string) Aggregate {
	ctx, span := tracer.Start(ctx, "fetch cycle",
		trace.WithAttributes(attribute.String("fetchboard.cycle.id", cycleID)))
	defer span.End()

	c.metrics.CycleStarted()
	c.logger.Debug("cycle started", logging.String("cycle_id", cycleID))

	agg := Aggregate{CycleID: cycleID, StartedAt: c.now()}
	updates := make(chan SettleUpdate, content.NumResources*ProgressBufferMultiplier)
	tracker := newSettleTracker(cycleID, updates)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go c.reporter.DisplayProgress(&displayWg, updates, content.NumResources, c.progressOut)

	var g errgroup.Group
	g.Go(func() error {
		agg.Joke = settle(c, ctx, content.ResourceJoke, c.gateway.FetchJoke, &agg.slotDurations, tracker)
		return nil
	})
	g.Go(func() error {
		agg.Comments = settle(c, ctx, content.ResourceComments, c.gateway.FetchComments, &agg.slotDurations, tracker)
		return nil
	})
	g.Go(func() error {
		agg.Image = settle(c, ctx, content.ResourceImage, c.gateway.FetchImage, &agg.slotDurations, tracker)
		return nil
	})

	_ = g.Wait()
	close(updates)
	displayWg.Wait()

	agg.Duration = c.now().Sub(agg.StartedAt)
	result := agg.Result()
	c.metrics.CycleFinished(result, agg.Duration)
	span.SetAttributes(attribute.String("fetchboard.cycle.result", result))
	c.logger.Info("cycle aggregated",
		logging.String("cycle_id", cycleID),
		logging.String("result", result),
		logging.Duration("duration", agg.Duration))
	return agg
}

// settle runs one fetch under the per-fetch timeout and records its outcome.
func settle[T any](c *Coordinator, ctx context.Context, r content.Resource,
	fetch func(context.Context) content.Outcome[T],
	durations *[content.NumResources]time.Duration, tracker *settleTracker,
) content.Outcome[T] {
	fctx, cancel := c.fetchContext(ctx)
	defer cancel()

	start := time.Now()
	out := fetch(fctx)
	if !out.Settled() {
		out = content.Failed[T](apperrors.NewFetchError(r.String(), apperrors.KindUnknown, ErrNoOutcome))
	}
	durations[r] = time.Since(start)

	if fe := out.FetchErr(); fe != nil {
		c.logger.Info("resource failed",
			logging.String("resource", r.String()),
			logging.String("kind", fe.Kind.String()),
			logging.Err(fe))
	}
	tracker.settle(r, out.OK())
	return out
}

func (c *Coordinator) fetchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.fetchTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.fetchTimeout)
}

// deliver hands agg to the listener unless the listener reports itself gone.
func (c *Coordinator) deliver(l Listener, agg Aggregate) {
	if lc, ok := l.(LivenessChecker); ok && !lc.Alive() {
		c.logger.Debug("listener gone, aggregate dropped", logging.String("cycle_id", agg.CycleID))
		return
	}
	l.Deliver(agg)
}

// settleTracker maintains the pending set of a cycle and publishes an update
// for every settle.
type settleTracker struct {
	mu      sync.Mutex
	cycleID string
	pending []content.Resource
	out     chan<- SettleUpdate
}

func newSettleTracker(cycleID string, out chan<- SettleUpdate) *settleTracker {
	return &settleTracker{cycleID: cycleID, pending: content.Resources(), out: out}
}

func (t *settleTracker) settle(r content.Resource, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	remaining := t.pending[:0:0]
	for _, p := range t.pending {
		if p != r {
			remaining = append(remaining, p)
		}
	}
	t.pending = remaining
	t.out <- SettleUpdate{
		CycleID:  t.cycleID,
		Resource: r,
		Pending:  append([]content.Resource(nil), remaining...),
		OK:       ok,
	}
}
