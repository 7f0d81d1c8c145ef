package mqtt

import (
	"context"
	"log/slog"
	"sync"

	"satmon/internal/poll"
)

// Publisher is the subset of Client the mirror needs.
type Publisher interface {
	IsConnected() bool
	PublishJSON(topic string, v any, retained bool) error
}

// Mirror publishes entries accepted by store to topic as retained messages
// until ctx is done. Publishing happens on its own goroutine so a slow
// broker never stalls the poller; if entries pile up only the newest is
// sent. Entries arriving while disconnected are dropped.
func Mirror[T any](ctx context.Context, store *poll.Store[T], pub Publisher, topic string, payload func(poll.Entry[T]) any, logger *slog.Logger) {
	if payload == nil {
		payload = func(e poll.Entry[T]) any { return e.Value }
	}

	var (
		mu      sync.Mutex
		pending *poll.Entry[T]
		wake    = make(chan struct{}, 1)
	)

	store.Subscribe(func(e poll.Entry[T]) {
		mu.Lock()
		pending = &e
		mu.Unlock()
		select {
		case wake <- struct{}{}:
		default:
		}
	})

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-wake:
			}

			mu.Lock()
			e := pending
			pending = nil
			mu.Unlock()
			if e == nil {
				continue
			}

			if !pub.IsConnected() {
				logger.Debug("mqtt mirror skipped, not connected", "topic", topic, "seq", e.Seq)
				continue
			}
			if err := pub.PublishJSON(topic, payload(*e), true); err != nil {
				logger.Warn("mqtt mirror publish failed", "topic", topic, "seq", e.Seq, "error", err)
			}
		}
	}()
}
