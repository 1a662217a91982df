package clock

import (
	"sync"
	"time"
)

// Clock supplies the current time. Inject a fake in tests to advance
// virtual time deterministically.
type Clock interface {
	Now() time.Time
}

// CancelFunc stops a pending scheduled call. Safe to call more than
// once; after it returns the callback will not fire.
type CancelFunc func()

// Scheduler runs callbacks after a delay or on a fixed interval. Every
// schedule returns a cancellation token so a pending completion can be
// stopped when its originating context goes away.
type Scheduler interface {
	After(d time.Duration, fn func()) CancelFunc
	Every(d time.Duration, fn func()) CancelFunc
}

// System is the wall-clock implementation used by the binaries.
type System struct{}

func (System) Now() time.Time { return time.Now() }

func (System) After(d time.Duration, fn func()) CancelFunc {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

func (System) Every(d time.Duration, fn func()) CancelFunc {
	ticker := time.NewTicker(d)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				fn()
			case <-done:
				return
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
}
