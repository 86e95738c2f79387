package broadcast

import (
	"context"
	"sync"
	"time"

	"github.com/mpapenbr/iracelog-telemetry-analyzer/log"
)

// see https://betterprogramming.pub/how-to-broadcast-messages-in-go-using-channels-b68f42bdf32e

type BroadcastServer[T any] interface {
	Subscribe() <-chan T
	CancelSubscription(<-chan T)
	Stats() Stats
	Close()
}

type Stats struct {
	Received  int
	Sent      int
	Skipped   int
	Listeners int
}

type broadcastServer[T any] struct {
	name           string
	source         <-chan T
	listeners      []chan T
	addListener    chan chan T
	removeListener chan (<-chan T)
	ctx            context.Context
	cancel         context.CancelFunc
	sendTimeout    time.Duration
	logger         *log.Logger
	mu             sync.Mutex
	stats          Stats
}

type Option[T any] func(*broadcastServer[T])

// WithSendTimeout sets how long a message is offered to a single listener.
// 0 waits until the listener receives the message or the server is closed.
func WithSendTimeout[T any](d time.Duration) Option[T] {
	return func(b *broadcastServer[T]) {
		b.sendTimeout = d
	}
}

func WithLogger[T any](l *log.Logger) Option[T] {
	return func(b *broadcastServer[T]) {
		b.logger = l
	}
}

func (b *broadcastServer[T]) Subscribe() <-chan T {
	ch := make(chan T)
	select {
	case b.addListener <- ch:
	case <-b.ctx.Done():
		close(ch)
	}
	return ch
}

func (b *broadcastServer[T]) CancelSubscription(ch <-chan T) {
	select {
	case b.removeListener <- ch:
	case <-b.ctx.Done():
	}
}

func (b *broadcastServer[T]) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stats
}

func (b *broadcastServer[T]) Close() {
	s := b.Stats()
	b.logger.Info("Closing broadcast server",
		log.String("name", b.name),
		log.Int("rcv", s.Received), log.Int("snd", s.Sent), log.Int("skip", s.Skipped))
	b.cancel()
}

//nolint:whitespace // false positive
func NewBroadcastServer[T any](
	name string,
	source <-chan T,
	opts ...Option[T],
) BroadcastServer[T] {
	ctx, cancel := context.WithCancel(context.Background())
	b := &broadcastServer[T]{
		name:           name,
		source:         source,
		addListener:    make(chan chan T),
		removeListener: make(chan (<-chan T)),
		ctx:            ctx,
		cancel:         cancel,
		sendTimeout:    50 * time.Millisecond,
		logger:         log.Default().Named("broadcast"),
	}
	for _, opt := range opts {
		opt(b)
	}
	go b.serve()
	return b
}

//nolint:funlen,cyclop,gocognit // by design
func (b *broadcastServer[T]) serve() {
	defer func() {
		b.cancel()
		b.logger.Debug("Closing listeners", log.String("name", b.name))
		for _, listener := range b.listeners {
			close(listener)
		}
	}()
	for {
		select {
		case <-b.ctx.Done():
			return
		case ch := <-b.addListener:
			b.listeners = append(b.listeners, ch)
			b.updateStats(func(s *Stats) { s.Listeners = len(b.listeners) })
		case ch := <-b.removeListener:
			var removed chan T
			for i, listener := range b.listeners {
				if listener == ch {
					b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
					removed = listener
					break
				}
			}
			b.logger.Debug("removed listener",
				log.String("name", b.name), log.Int("len", len(b.listeners)))
			b.updateStats(func(s *Stats) { s.Listeners = len(b.listeners) })
			if removed != nil {
				close(removed)
			}
		case msg, ok := <-b.source:
			if !ok {
				b.logger.Debug("source closed", log.String("name", b.name))
				return
			}
			b.updateStats(func(s *Stats) { s.Received++ })
			for _, listener := range b.listeners {
				if b.send(listener, msg) {
					b.updateStats(func(s *Stats) { s.Sent++ })
				} else {
					b.updateStats(func(s *Stats) { s.Skipped++ })
				}
			}
		}
	}
}

func (b *broadcastServer[T]) send(listener chan T, msg T) bool {
	if b.sendTimeout == 0 {
		select {
		case listener <- msg:
			return true
		case <-b.ctx.Done():
			return false
		}
	}
	timer := time.NewTimer(b.sendTimeout)
	defer timer.Stop()
	select {
	case listener <- msg:
		return true
	case <-timer.C:
		return false
	case <-b.ctx.Done():
		return false
	}
}

func (b *broadcastServer[T]) updateStats(f func(*Stats)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	f(&b.stats)
}
