package clock

import (
	"sync"
	"time"
)

// Fake is a manual clock and scheduler for tests. Advance moves virtual
// time forward and fires due callbacks synchronously, in order.
type Fake struct {
	mu      sync.Mutex
	now     time.Time
	nextID  int
	pending []*fakeEntry
}

type fakeEntry struct {
	id       int
	at       time.Time
	interval time.Duration // zero for one-shot
	fn       func()
	stopped  bool
}

// NewFake returns a fake clock frozen at start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fake) After(d time.Duration, fn func()) CancelFunc {
	return f.schedule(d, 0, fn)
}

func (f *Fake) Every(d time.Duration, fn func()) CancelFunc {
	return f.schedule(d, d, fn)
}

func (f *Fake) schedule(d, interval time.Duration, fn func()) CancelFunc {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	e := &fakeEntry{id: f.nextID, at: f.now.Add(d), interval: interval, fn: fn}
	f.pending = append(f.pending, e)
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		e.stopped = true
	}
}

// Advance moves the clock forward by d, firing every callback that
// comes due, in timestamp order. Callbacks run outside the lock so they
// may schedule further work.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	deadline := f.now.Add(d)
	f.mu.Unlock()

	for {
		f.mu.Lock()
		var due *fakeEntry
		for _, e := range f.pending {
			if e.stopped || e.at.After(deadline) {
				continue
			}
			if due == nil || e.at.Before(due.at) {
				due = e
			}
		}
		if due == nil {
			f.now = deadline
			f.mu.Unlock()
			return
		}
		if due.at.After(f.now) {
			f.now = due.at
		}
		if due.interval > 0 {
			due.at = due.at.Add(due.interval)
		} else {
			due.stopped = true
		}
		fn := due.fn
		f.mu.Unlock()
		fn()
	}
}

// PendingCount reports live (not yet fired or cancelled) schedules.
func (f *Fake) PendingCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.pending {
		if !e.stopped {
			n++
		}
	}
	return n
}
