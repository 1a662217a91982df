package order

import (
	"time"

	"quickbite/internal/clock"
	"quickbite/internal/notify"
)

// Simulated kitchen/courier progression. Each hop is a cancellable
// scheduled call; the status is re-checked at fire time so a pending
// tick can never advance an order that was cancelled in the meantime.

// ProgressionInterval is the simulated delay between status hops.
const ProgressionInterval = 45 * time.Second

// Simulator drives a placed order along the forward chain on a timer.
type Simulator struct {
	svc   *Service
	sched clock.Scheduler
	sink  notify.Sink
}

func NewSimulator(svc *Service, sched clock.Scheduler, sink notify.Sink) *Simulator {
	if sink == nil {
		sink = notify.Discard{}
	}
	return &Simulator{svc: svc, sched: sched, sink: sink}
}

// Start schedules the first hop for a freshly placed order.
func (s *Simulator) Start(orderID string) {
	s.scheduleHop(orderID)
}

func (s *Simulator) scheduleHop(orderID string) {
	svc := s.svc
	cancel := s.sched.After(ProgressionInterval, func() {
		o, err := svc.Get(orderID)
		if err != nil || o.Status.Terminal() {
			svc.stopProgression(orderID)
			return
		}
		next := o.Status.Next()
		updated, err := svc.Advance(orderID, next)
		if err != nil {
			// Lost the race with a cancellation; stop quietly.
			svc.stopProgression(orderID)
			return
		}
		s.sink.Show(trackingMessages[updated.Status], notify.Info, 3*time.Second)
		if !updated.Status.Terminal() {
			s.scheduleHop(orderID)
		} else {
			svc.stopProgression(orderID)
		}
	})
	svc.trackProgression(orderID, cancel)
}

// Stop cancels all pending hops. Called on shutdown.
func (s *Simulator) Stop() {
	s.svc.stopAllProgressions()
}

func (s *Service) trackProgression(orderID string, cancel clock.CancelFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.timers[orderID]; ok {
		prev()
	}
	s.timers[orderID] = cancel
}

func (s *Service) stopProgression(orderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cancel, ok := s.timers[orderID]; ok {
		cancel()
		delete(s.timers, orderID)
	}
}

func (s *Service) stopAllProgressions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, cancel := range s.timers {
		cancel()
		delete(s.timers, id)
	}
}
