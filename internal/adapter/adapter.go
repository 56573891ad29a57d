// Package adapter owns the cached payables list for one signed-in owner.
// It is the only path between the views and the database: reads are
// deduplicated refetches, mutations go straight through and then refetch.
// The cache is never patched locally; it always mirrors the last successful
// fetch.
package adapter

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/tripay/tripay/internal/logging"
	"github.com/tripay/tripay/internal/payable"
	"github.com/tripay/tripay/internal/store"
)

const (
	defaultPollInterval = 30 * time.Second
	defaultDedupWindow  = 5 * time.Second
)

// Options tune refresh behavior. Zero values pick the defaults above.
type Options struct {
	PollInterval time.Duration
	DedupWindow  time.Duration
	Logger       logging.Logger
}

// State is a point-in-time view of the cache. On a failed load Records
// degrades to empty and Err carries the failure; the next successful load
// clears it.
type State struct {
	Records []payable.Payable
	Err     error
	Loading bool
}

// Adapter fetches, caches, and mutates one owner's payables. Refresh
// triggers (the poll ticker, focus regain, post-mutation, change
// notifications) all funnel into one deduplicated load path. When loads
// overlap, the one issued last wins; a stale result arriving late is
// discarded.
type Adapter struct {
	st      store.Store
	ownerID string
	log     logging.Logger
	poll    time.Duration
	dedup   time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	kick   chan struct{}
	change chan struct{}
	done   chan struct{}

	mu          sync.Mutex
	records     []payable.Payable
	loadErr     error
	inflight    int
	issued      uint64
	applied     uint64
	lastStart   time.Time
	trailingSet bool
}

// New builds the adapter and starts its background loop: an immediate first
// load, the poll ticker, and the change subscription when w is non-nil.
// Close tears all of it down.
func New(ctx context.Context, st store.Store, w store.Watcher, ownerID string, opts Options) *Adapter {
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.DedupWindow <= 0 {
		opts.DedupWindow = defaultDedupWindow
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}

	ctx, cancel := context.WithCancel(ctx)
	a := &Adapter{
		st:      st,
		ownerID: ownerID,
		log:     opts.Logger.With("owner", ownerID),
		poll:    opts.PollInterval,
		dedup:   opts.DedupWindow,
		ctx:     ctx,
		cancel:  cancel,
		kick:    make(chan struct{}, 1),
		change:  make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go a.run(w)
	a.Refresh()
	return a
}

// Refresh asks for a reload. Cheap to call from anywhere; bursts inside the
// dedup window collapse into a single round trip.
func (a *Adapter) Refresh() {
	select {
	case a.kick <- struct{}{}:
	default:
	}
}

// FocusRegained is the foreground-focus trigger.
func (a *Adapter) FocusRegained() { a.Refresh() }

// Changes signals after every applied load. Receivers get a coalesced nudge,
// not one event per load.
func (a *Adapter) Changes() <-chan struct{} { return a.change }

// Snapshot returns a copy of the current cache state.
func (a *Adapter) Snapshot() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return State{
		Records: slices.Clone(a.records),
		Err:     a.loadErr,
		Loading: a.inflight > 0,
	}
}

// Close stops the poll ticker, the subscription, and discards any in-flight
// load results.
func (a *Adapter) Close() {
	a.cancel()
	<-a.done
}

// Create inserts a record with the given defaults. The cached list is
// untouched on failure; on success the refetch picks the new record up.
func (a *Adapter) Create(ctx context.Context, d payable.Draft) error {
	if _, err := a.st.Insert(ctx, a.ownerID, d); err != nil {
		return fmt.Errorf("create payable: %w", err)
	}
	a.Refresh()
	return nil
}

// UpdateField changes one field on one record, then refetches.
func (a *Adapter) UpdateField(ctx context.Context, id string, upd payable.FieldUpdate) error {
	if err := a.st.UpdateField(ctx, id, upd); err != nil {
		return fmt.Errorf("update payable: %w", err)
	}
	a.Refresh()
	return nil
}

// Remove deletes a record. The refetch happens whether or not the delete
// reported an error: the record may already be gone from a concurrent
// delete, and the list should converge either way.
func (a *Adapter) Remove(ctx context.Context, id string) error {
	err := a.st.Delete(ctx, id)
	a.Refresh()
	if err != nil {
		return fmt.Errorf("delete payable: %w", err)
	}
	return nil
}

// run is the trigger loop. The subscription payload is ignored on purpose:
// every notification is only a cue to refetch full truth, which avoids
// partial-state merges entirely.
func (a *Adapter) run(w store.Watcher) {
	defer close(a.done)

	ticker := time.NewTicker(a.poll)
	defer ticker.Stop()

	var events <-chan store.Event
	if w != nil {
		ch, cancelSub, err := w.Subscribe(a.ownerID)
		if err != nil {
			a.log.Warn(a.ctx, "change subscription unavailable, polling only", "err", err)
		} else {
			events = ch
			defer cancelSub()
		}
	}

	for {
		select {
		case <-a.ctx.Done():
			return
		case <-ticker.C:
			a.tryLoad()
		case <-a.kick:
			a.tryLoad()
		case _, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			a.tryLoad()
		}
	}
}

// tryLoad starts a load unless one started inside the dedup window. A burst
// of triggers within the window schedules exactly one trailing load at the
// window's edge, so the freshest trigger is never lost.
func (a *Adapter) tryLoad() {
	a.mu.Lock()
	elapsed := time.Since(a.lastStart)
	if elapsed < a.dedup {
		if !a.trailingSet {
			a.trailingSet = true
			time.AfterFunc(a.dedup-elapsed, func() {
				a.mu.Lock()
				a.trailingSet = false
				a.mu.Unlock()
				if a.ctx.Err() == nil {
					a.tryLoad()
				}
			})
		}
		a.mu.Unlock()
		return
	}
	a.lastStart = time.Now()
	a.issued++
	seq := a.issued
	a.inflight++
	a.mu.Unlock()

	go a.load(seq)
}

func (a *Adapter) load(seq uint64) {
	records, err := a.st.List(a.ctx, a.ownerID)

	a.mu.Lock()
	a.inflight--
	if seq <= a.applied {
		// A load issued later already completed; this result is stale.
		a.mu.Unlock()
		a.log.Debug(a.ctx, "discarded stale load", "seq", seq)
		return
	}
	a.applied = seq
	if err != nil {
		a.records = nil
		a.loadErr = err
	} else {
		a.records = records
		a.loadErr = nil
	}
	a.mu.Unlock()

	if err != nil {
		a.log.Error(a.ctx, "load failed", "err", err)
	}
	select {
	case a.change <- struct{}{}:
	default:
	}
}
