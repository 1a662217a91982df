package refund

import (
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"quickbite/internal/clock"
	"quickbite/internal/domain"
	"quickbite/internal/idgen"
	"quickbite/internal/notify"
	"quickbite/internal/session"
)

// CompletionEstimate is the refund processing time quoted to the
// customer.
const CompletionEstimate = 5 * 24 * time.Hour

// SimulatedProcessing is the delay before a simulated refund completes.
const SimulatedProcessing = 90 * time.Second

// Workflow owns the refund state machine. A refund is created exactly
// once per cancelled order, lives embedded in it, and becomes immutable
// once completed or failed.
type Workflow struct {
	store  *session.Store
	clk    clock.Clock
	sched  clock.Scheduler
	ids    idgen.Generator
	sink   notify.Sink
	logger *log.Logger

	mu     sync.Mutex
	timers map[string]clock.CancelFunc
}

func New(store *session.Store, clk clock.Clock, sched clock.Scheduler, ids idgen.Generator, sink notify.Sink, logger *log.Logger) *Workflow {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if sink == nil {
		sink = notify.Discard{}
	}
	return &Workflow{
		store:  store,
		clk:    clk,
		sched:  sched,
		ids:    ids,
		sink:   sink,
		logger: logger,
		timers: map[string]clock.CancelFunc{},
	}
}

// Create builds the refund for a just-cancelled order: full order total,
// same payment method, and a two-entry timeline with the initiation on
// top of the originating cancellation. The caller attaches it to the
// order inside its own mutation.
func (w *Workflow) Create(o domain.Order, reason string) domain.Refund {
	if reason == "" {
		reason = "Order cancelled by customer"
	}
	now := w.clk.Now()
	return domain.Refund{
		ID:                    w.ids.NewID("REF"),
		OrderID:               o.ID,
		AmountCents:           o.Totals.TotalCents,
		Status:                domain.RefundProcessing,
		Method:                o.PaymentMethodLabel,
		Reason:                reason,
		InitiatedAt:           now,
		EstimatedCompletionAt: now.Add(CompletionEstimate),
		Timeline: []domain.RefundEvent{
			{Time: now, Message: "Refund initiated", Status: domain.RefundProcessing},
			{Time: now, Message: reason, Status: domain.RefundProcessing},
		},
	}
}

// Advance moves the refund to a terminal status. Failing requires a
// reason; a terminal refund accepts no further transition.
func (w *Workflow) Advance(refundID string, next domain.RefundStatus, reason string) (domain.Refund, error) {
	if !domain.ValidRefundStatus(next) || next == domain.RefundProcessing {
		return domain.Refund{}, domain.ErrInvalidTransition
	}
	if next == domain.RefundFailed && strings.TrimSpace(reason) == "" {
		return domain.Refund{}, domain.ErrRefundReasonRequired
	}

	owner, ok := w.store.FindOrderByRefund(refundID)
	if !ok {
		return domain.Refund{}, domain.ErrNotFound
	}

	now := w.clk.Now()
	updated, err := w.store.UpdateOrder(owner.ID, func(o *domain.Order) error {
		r := o.Refund
		if r == nil || r.ID != refundID {
			return domain.ErrNotFound
		}
		if r.Status.Terminal() {
			return domain.ErrInvalidTransition
		}
		r.Status = next
		switch next {
		case domain.RefundCompleted:
			t := now
			r.CompletedAt = &t
			r.PrependEvent(domain.RefundEvent{Time: now, Message: "Refund completed", Status: next})
		case domain.RefundFailed:
			r.PrependEvent(domain.RefundEvent{Time: now, Message: "Refund failed: " + strings.TrimSpace(reason), Status: next})
		}
		return nil
	})
	if err != nil {
		return domain.Refund{}, err
	}
	w.stopTimer(refundID)
	w.logger.Printf("refund: %s -> %s", refundID, next)
	return *updated.Refund, nil
}

// Get returns the refund attached to an order.
func (w *Workflow) Get(orderID string) (domain.Refund, error) {
	o, ok := w.store.Order(orderID)
	if !ok {
		return domain.Refund{}, domain.ErrNotFound
	}
	if o.Refund == nil {
		return domain.Refund{}, domain.ErrNotFound
	}
	return *o.Refund, nil
}

// ScheduleCompletion arms the simulated payment-network completion. The
// token is cancelled if the refund reaches a terminal state first or on
// shutdown; the state is re-checked at fire time regardless.
func (w *Workflow) ScheduleCompletion(refundID string) {
	cancel := w.sched.After(SimulatedProcessing, func() {
		if _, err := w.Advance(refundID, domain.RefundCompleted, ""); err != nil {
			return
		}
		w.sink.Show("Your refund has been processed", notify.Success, 3*time.Second)
	})
	w.mu.Lock()
	defer w.mu.Unlock()
	if prev, ok := w.timers[refundID]; ok {
		prev()
	}
	w.timers[refundID] = cancel
}

// Stop cancels all pending simulated completions.
func (w *Workflow) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for id, cancel := range w.timers {
		cancel()
		delete(w.timers, id)
	}
}

func (w *Workflow) stopTimer(refundID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if cancel, ok := w.timers[refundID]; ok {
		cancel()
		delete(w.timers, refundID)
	}
}

// AutoCompleting decorates Create so every new refund also arms its
// simulated completion. Used when simulation is enabled.
type AutoCompleting struct {
	*Workflow
}

func (a AutoCompleting) Create(o domain.Order, reason string) domain.Refund {
	r := a.Workflow.Create(o, reason)
	a.ScheduleCompletion(r.ID)
	return r
}
