package poll

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"satmon/internal/metrics"
)

// ErrNotRunning is returned by Refresh before Run has started or after it
// has returned.
var ErrNotRunning = errors.New("poller not running")

// FetchFunc produces one value. It should honour ctx.
type FetchFunc[T any] func(ctx context.Context) T

type Config struct {
	// Name labels logs and metrics.
	Name     string
	Interval time.Duration
}

type Poller[T any] struct {
	name     string
	interval time.Duration
	fetch    FetchFunc[T]
	store    *Store[T]
	logger   *slog.Logger
	now      func() time.Time

	// label extracts a metrics label (e.g. provenance) from a value.
	label func(T) string

	seq   atomic.Uint64
	group singleflight.Group

	mu     sync.Mutex
	runCtx context.Context
}

type Option[T any] func(*Poller[T])

// WithLabel sets the function used for the second label of the poll counter.
func WithLabel[T any](fn func(T) string) Option[T] {
	return func(p *Poller[T]) { p.label = fn }
}

func WithClock[T any](now func() time.Time) Option[T] {
	return func(p *Poller[T]) { p.now = now }
}

func New[T any](cfg Config, fetch FetchFunc[T], store *Store[T], logger *slog.Logger, opts ...Option[T]) *Poller[T] {
	if logger == nil {
		logger = slog.Default()
	}
	if store == nil {
		store = NewStore[T]()
	}
	p := &Poller[T]{
		name:     cfg.Name,
		interval: cfg.Interval,
		fetch:    fetch,
		store:    store,
		logger:   logger.With("poller", cfg.Name),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Poller[T]) Store() *Store[T] { return p.store }

// Current returns the newest published entry or ErrNoSnapshot.
func (p *Poller[T]) Current() (Entry[T], error) { return p.store.Current() }

// Run polls once immediately and then every interval until ctx is done.
// Cancelling ctx also cancels an in-flight cycle.
func (p *Poller[T]) Run(ctx context.Context) error {
	if p.interval <= 0 {
		return errors.New("poll interval must be positive")
	}

	p.mu.Lock()
	p.runCtx = ctx
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.runCtx = nil
		p.mu.Unlock()
	}()

	p.logger.Info("poller started", "interval", p.interval.String())

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.cycle(ctx)
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("poller stopped")
			return nil
		case <-ticker.C:
			p.cycle(ctx)
		}
	}
}

// Refresh triggers a cycle now, or joins the one already in flight, and
// waits for its result. If ctx ends first Refresh returns ctx.Err() and the
// cycle keeps running. It returns ErrNotRunning when the poller is stopped
// or stops before the cycle publishes.
func (p *Poller[T]) Refresh(ctx context.Context) (Entry[T], error) {
	p.mu.Lock()
	runCtx := p.runCtx
	p.mu.Unlock()
	if runCtx == nil || runCtx.Err() != nil {
		return Entry[T]{}, ErrNotRunning
	}

	ch := p.group.DoChan(p.name, func() (any, error) {
		e, ok := p.runCycle(runCtx)
		if !ok {
			return nil, ErrNotRunning
		}
		return e, nil
	})
	select {
	case <-ctx.Done():
		return Entry[T]{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Entry[T]{}, res.Err
		}
		return res.Val.(Entry[T]), nil
	}
}

func (p *Poller[T]) cycle(ctx context.Context) {
	_, _, _ = p.group.Do(p.name, func() (any, error) {
		e, ok := p.runCycle(ctx)
		if !ok {
			return nil, ErrNotRunning
		}
		return e, nil
	})
}

// runCycle fetches and publishes. It returns the entry now current in the
// store, which is the fetched one unless a newer cycle already landed. It
// reports false when ctx ended before the result could be published.
func (p *Poller[T]) runCycle(ctx context.Context) (Entry[T], bool) {
	if ctx.Err() != nil {
		return Entry[T]{}, false
	}
	seq := p.seq.Add(1)
	start := p.now()

	v := p.fetch(ctx)

	metrics.ObservePollLatency(p.name, p.now().Sub(start))
	label := ""
	if p.label != nil {
		label = p.label(v)
	}
	metrics.IncPoll(p.name, label)

	e := Entry[T]{Seq: seq, Value: v, At: p.now().UTC()}
	if ctx.Err() != nil {
		p.logger.Debug("poll cycle cancelled, result discarded", "seq", seq)
		return Entry[T]{}, false
	}
	if !p.store.Publish(e) {
		p.logger.Debug("stale poll result discarded", "seq", seq)
		cur, _ := p.store.Latest()
		return cur, true
	}
	p.logger.Debug("poll cycle complete", "seq", seq, "label", label)
	return e, true
}
