// Package store holds the commit machinery shared by the observable stores.
// Each store serialises its state changes through a Core, which versions
// every committed mutation and publishes the resulting snapshot.
package store

import (
	"sync"
	"time"

	"github.com/educrm/educrm-hub/internal/domain/shared"
	"github.com/educrm/educrm-hub/internal/infrastructure/metrics"
	"github.com/educrm/educrm-hub/pkg/logger"
	"github.com/educrm/educrm-hub/pkg/observable"
	"github.com/educrm/educrm-hub/pkg/timeutil"
)

// Options are the dependencies every store accepts.
type Options struct {
	Logger  *logger.Logger
	Metrics metrics.Recorder
	Clock   timeutil.Clock
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = logger.Nop()
	}
	if o.Metrics == nil {
		o.Metrics = metrics.Nop{}
	}
	if o.Clock == nil {
		o.Clock = timeutil.SystemClock
	}
	return o
}

// Core serialises mutations of one store and publishes a snapshot S after
// each successful one. Snapshots are delivered after the lock is released,
// so listeners may call back into the store.
type Core[S any] struct {
	name    string
	log     *logger.Logger
	metrics metrics.Recorder
	clock   timeutil.Clock
	subject *observable.Subject[S]

	mu   sync.Mutex
	last shared.Change
}

// NewCore creates a Core for the store called name.
func NewCore[S any](name string, opts Options) *Core[S] {
	opts = opts.withDefaults()
	log := opts.Logger.With(logger.Store(name))
	return &Core[S]{
		name:    name,
		log:     log,
		metrics: opts.Metrics,
		clock:   opts.Clock,
		subject: observable.New[S](observable.Config{Name: name, Logger: log, Hooks: opts.Metrics}),
		last:    shared.Change{Store: name, Op: "init", At: opts.Clock()},
	}
}

// Commit runs edit under the store lock. If edit succeeds the store version
// is bumped and the snapshot returned by build is queued; it is delivered
// once the lock has been released. A failed edit must leave state untouched
// and publishes nothing.
func (c *Core[S]) Commit(op string, edit func() (recordID string, err error), build func(shared.Change) S) error {
	c.mu.Lock()
	recordID, err := edit()
	if err == nil {
		c.last = shared.Change{
			Store:    c.name,
			Op:       op,
			RecordID: recordID,
			Version:  c.last.Version + 1,
			At:       c.clock(),
		}
		c.subject.Publish(build(c.last))
	}
	version := c.last.Version
	c.mu.Unlock()

	c.metrics.RecordMutation(c.name, op, err)
	if err != nil {
		c.log.Debug("mutation rejected", logger.Operation(op), logger.Err(err))
		return err
	}

	c.log.Debug("mutation committed",
		logger.Operation(op),
		logger.RecordID(recordID),
		logger.Version(version),
	)
	c.subject.Flush()
	return nil
}

// Read runs fn under the store lock. fn receives the latest change.
func (c *Core[S]) Read(fn func(last shared.Change)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.last)
}

// Subscribe registers a listener; see observable.Subject.Subscribe.
func (c *Core[S]) Subscribe(fn observable.Listener[S]) func() {
	return c.subject.Subscribe(fn)
}

// Now returns the store clock's current time.
func (c *Core[S]) Now() time.Time {
	return c.clock()
}

// Logger returns the store-scoped logger.
func (c *Core[S]) Logger() *logger.Logger {
	return c.log
}

// Metrics returns the store's metrics recorder.
func (c *Core[S]) Metrics() metrics.Recorder {
	return c.metrics
}
