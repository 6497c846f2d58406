package analytics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"tradejournal/internal/domain"
	"tradejournal/internal/observability"
)

// Snapshot is one recomputed analytics state for a user, pushed to live
// subscribers after every journal mutation.
type Snapshot struct {
	UserID     string                   `json:"userId"`
	Summary    domain.Summary           `json:"summary"`
	Cumulative []domain.CumulativePoint `json:"cumulative"`
	Generation uint64                   `json:"generation"`
	ComputedAt time.Time                `json:"computedAt"`
}

// Publisher receives finished snapshots. Publish must not block for long;
// the refresher calls it from its compute goroutine.
type Publisher interface {
	Publish(snap Snapshot)
}

// PublisherFunc adapts a function to the Publisher interface.
type PublisherFunc func(snap Snapshot)

func (f PublisherFunc) Publish(snap Snapshot) { f(snap) }

// Refresher recomputes a user's analytics after journal mutations.
//
// Each Trigger supersedes any in-flight recomputation for the same user:
// the previous fetch's context is cancelled, and a slow computation that
// still finishes is dropped rather than published, so subscribers can never
// observe results older than what they already have.
type Refresher struct {
	svc *Service
	pub Publisher
	log *slog.Logger

	// debounce delays the recomputation so that a burst of mutations
	// coalesces into one refresh. Zero means recompute immediately.
	debounce time.Duration

	mu    sync.Mutex
	users map[string]*userRefresh
}

type userRefresh struct {
	generation uint64
	cancel     context.CancelFunc
}

// NewRefresher creates a refresher that publishes through pub.
func NewRefresher(svc *Service, pub Publisher, log *slog.Logger) *Refresher {
	if log == nil {
		log = slog.Default()
	}
	return &Refresher{
		svc:   svc,
		pub:   pub,
		log:   log,
		users: make(map[string]*userRefresh),
	}
}

// WithDebounce sets the delay before a triggered recomputation starts.
func (r *Refresher) WithDebounce(d time.Duration) *Refresher {
	r.debounce = d
	return r
}

// Trigger schedules a recomputation of userID's analytics, superseding any
// recomputation already in flight for that user. It returns immediately.
func (r *Refresher) Trigger(userID string, filter domain.TradeFilter) {
	r.mu.Lock()
	state, ok := r.users[userID]
	if !ok {
		state = &userRefresh{}
		r.users[userID] = state
	}
	if state.cancel != nil {
		state.cancel()
	}
	state.generation++
	gen := state.generation

	ctx, cancel := context.WithCancel(context.Background())
	state.cancel = cancel
	r.mu.Unlock()

	go r.compute(ctx, cancel, userID, filter, gen)
}

func (r *Refresher) compute(ctx context.Context, cancel context.CancelFunc, userID string, filter domain.TradeFilter, gen uint64) {
	defer cancel()
	start := time.Now()

	if r.debounce > 0 {
		timer := time.NewTimer(r.debounce)
		select {
		case <-ctx.Done():
			timer.Stop()
			r.finish(ctx, userID, gen, start, ctx.Err())
			return
		case <-timer.C:
		}
	}

	summary, err := r.svc.Summary(ctx, userID, filter)
	if err != nil {
		r.finish(ctx, userID, gen, start, err)
		return
	}
	cumulative, err := r.svc.CumulativePnL(ctx, userID, filter)
	if err != nil {
		r.finish(ctx, userID, gen, start, err)
		return
	}

	if !r.isCurrent(userID, gen) {
		observability.RecordStaleResultDropped()
		observability.RecordAnalyticsRecompute("superseded", time.Since(start).Seconds())
		return
	}

	r.pub.Publish(Snapshot{
		UserID:     userID,
		Summary:    summary,
		Cumulative: cumulative,
		Generation: gen,
		ComputedAt: time.Now().UTC(),
	})
	observability.RecordAnalyticsRecompute("ok", time.Since(start).Seconds())
}

// finish records the outcome of a failed or cancelled recomputation.
// Cancellation is the normal supersede path and is not logged as an error.
func (r *Refresher) finish(ctx context.Context, userID string, gen uint64, start time.Time, err error) {
	if ctx.Err() != nil {
		observability.RecordStaleResultDropped()
		observability.RecordAnalyticsRecompute("cancelled", time.Since(start).Seconds())
		return
	}
	r.log.Error("analytics refresh failed", "user", userID, "generation", gen, "err", err)
	observability.RecordAnalyticsRecompute("error", time.Since(start).Seconds())
}

func (r *Refresher) isCurrent(userID string, gen uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	state, ok := r.users[userID]
	return ok && state.generation == gen
}
