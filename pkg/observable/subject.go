// Package observable implements synchronous snapshot publication for the
// in-memory stores. A Subject delivers every published snapshot, in publish
// order, to the listeners registered when delivery of that snapshot begins.
//
// Delivery is re-entrancy safe: a listener that mutates the owning store
// while being notified does not recurse into the dispatch loop. Its snapshot
// is queued and delivered once the current pass has finished.
package observable

import (
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/educrm/educrm-hub/pkg/logger"
)

// Listener receives a snapshot. Snapshots must be treated as read-only.
type Listener[S any] func(S)

// Hooks receives dispatch telemetry. Implementations must be cheap and must
// not call back into the Subject.
type Hooks interface {
	Delivered(subject string, listeners int, took time.Duration)
	ListenerPanicked(subject string)
}

type nopHooks struct{}

func (nopHooks) Delivered(string, int, time.Duration) {}
func (nopHooks) ListenerPanicked(string)              {}

// Config configures a Subject.
type Config struct {
	// Name identifies the subject in logs and metrics.
	Name string

	// Logger receives panic reports from listeners. Defaults to a no-op logger.
	Logger *logger.Logger

	// Hooks receives dispatch telemetry. Optional.
	Hooks Hooks
}

type subscription[S any] struct {
	id uint64
	fn Listener[S]
}

// Subject fans snapshots out to listeners.
type Subject[S any] struct {
	name  string
	log   *logger.Logger
	hooks Hooks

	mu        sync.Mutex
	listeners []*subscription[S] // copy-on-write; never modified in place
	nextID    uint64
	queue     []S
	draining  bool
	published uint64
}

// New creates a Subject.
func New[S any](cfg Config) *Subject[S] {
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	if cfg.Hooks == nil {
		cfg.Hooks = nopHooks{}
	}
	return &Subject[S]{
		name:  cfg.Name,
		log:   cfg.Logger.With(logger.Component("observable"), logger.Store(cfg.Name)),
		hooks: cfg.Hooks,
	}
}

// Subscribe registers fn and returns a function that removes it. The returned
// function is idempotent. Removing a listener during a delivery pass does not
// affect the pass already in progress.
func (s *Subject[S]) Subscribe(fn Listener[S]) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}

	s.mu.Lock()
	s.nextID++
	sub := &subscription[S]{id: s.nextID, fn: fn}
	next := make([]*subscription[S], len(s.listeners), len(s.listeners)+1)
	copy(next, s.listeners)
	s.listeners = append(next, sub)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(sub.id) })
	}
}

func (s *Subject[S]) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]*subscription[S], 0, len(s.listeners))
	for _, sub := range s.listeners {
		if sub.id != id {
			next = append(next, sub)
		}
	}
	s.listeners = next
}

// Listeners returns the number of registered listeners.
func (s *Subject[S]) Listeners() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}

// Published returns how many snapshots have been queued since creation.
func (s *Subject[S]) Published() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.published
}

// Publish queues snap for delivery without delivering it. Stores call Publish
// while still holding the lock that serialises their state changes, so the
// queue order matches the commit order, and call Flush after releasing it.
func (s *Subject[S]) Publish(snap S) {
	s.mu.Lock()
	s.queue = append(s.queue, snap)
	s.published++
	s.mu.Unlock()
}

// Flush delivers queued snapshots. If a delivery pass is already running
// (a listener mutated the store, or another goroutine is flushing) Flush
// returns immediately and the running pass delivers the queued snapshot.
func (s *Subject[S]) Flush() {
	s.mu.Lock()
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true

	for len(s.queue) > 0 {
		snap := s.queue[0]
		var zero S
		s.queue[0] = zero
		s.queue = s.queue[1:]
		listeners := s.listeners
		s.mu.Unlock()

		s.deliver(snap, listeners)

		s.mu.Lock()
	}

	s.queue = nil
	s.draining = false
	s.mu.Unlock()
}

// Notify publishes snap and flushes it. Use it only when no store lock is held.
func (s *Subject[S]) Notify(snap S) {
	s.Publish(snap)
	s.Flush()
}

func (s *Subject[S]) deliver(snap S, listeners []*subscription[S]) {
	start := time.Now()
	for _, sub := range listeners {
		s.invoke(sub, snap)
	}
	s.hooks.Delivered(s.name, len(listeners), time.Since(start))
}

func (s *Subject[S]) invoke(sub *subscription[S], snap S) {
	defer func() {
		if r := recover(); r != nil {
			s.hooks.ListenerPanicked(s.name)
			s.log.Error("listener panicked",
				logger.F("listener_id", sub.id),
				logger.String("panic", fmt.Sprint(r)),
				logger.String("stack", string(debug.Stack())),
			)
		}
	}()
	sub.fn(snap)
}
