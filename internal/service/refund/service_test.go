package refund

import (
	"errors"
	"testing"
	"time"

	"quickbite/internal/clock"
	"quickbite/internal/domain"
	"quickbite/internal/idgen"
	"quickbite/internal/repository/state"
	"quickbite/internal/session"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newWorkflow(t *testing.T) (*Workflow, *session.Store, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake(testNow)
	store := session.New(state.NewMemory(), nil)
	w := New(store, clk, clk, &idgen.Sequence{}, nil, nil)
	return w, store, clk
}

func cancelledOrder(w *Workflow, store *session.Store) domain.Order {
	o := domain.Order{
		ID:                 "ORD-1",
		Status:             domain.StatusCancelled,
		Totals:             domain.Totals{TotalCents: 3124},
		PaymentMethodLabel: "Visa •••• 4242",
	}
	r := w.Create(o, "Order cancelled by customer")
	o.Refund = &r
	store.AppendOrder(o)
	return o
}

func TestCreateSeedsTimeline(t *testing.T) {
	w, _, _ := newWorkflow(t)
	o := domain.Order{ID: "ORD-1", Totals: domain.Totals{TotalCents: 3124}, PaymentMethodLabel: "Visa"}
	r := w.Create(o, "")

	if r.OrderID != "ORD-1" || r.AmountCents != 3124 || r.Method != "Visa" {
		t.Fatalf("unexpected refund %+v", r)
	}
	if r.Status != domain.RefundProcessing {
		t.Fatalf("unexpected status %s", r.Status)
	}
	if !r.InitiatedAt.Equal(testNow) || !r.EstimatedCompletionAt.Equal(testNow.Add(CompletionEstimate)) {
		t.Fatalf("unexpected timestamps %+v", r)
	}
	if len(r.Timeline) != 2 || r.Timeline[0].Message != "Refund initiated" || r.Timeline[1].Message != "Order cancelled by customer" {
		t.Fatalf("unexpected timeline %+v", r.Timeline)
	}
}

func TestAdvanceToCompleted(t *testing.T) {
	w, store, clk := newWorkflow(t)
	o := cancelledOrder(w, store)

	clk.Advance(time.Minute)
	r, err := w.Advance(o.Refund.ID, domain.RefundCompleted, "")
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if r.Status != domain.RefundCompleted {
		t.Fatalf("unexpected status %s", r.Status)
	}
	if r.CompletedAt == nil || !r.CompletedAt.Equal(clk.Now()) {
		t.Fatalf("expected completedAt stamped, got %+v", r.CompletedAt)
	}
	if r.Timeline[0].Message != "Refund completed" {
		t.Fatalf("unexpected timeline head %+v", r.Timeline[0])
	}

	// Terminal: no further transitions.
	if _, err := w.Advance(r.ID, domain.RefundFailed, "bank rejected"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestAdvanceToFailedRequiresReason(t *testing.T) {
	w, store, _ := newWorkflow(t)
	o := cancelledOrder(w, store)

	if _, err := w.Advance(o.Refund.ID, domain.RefundFailed, "  "); !errors.Is(err, domain.ErrRefundReasonRequired) {
		t.Fatalf("expected ErrRefundReasonRequired, got %v", err)
	}

	r, err := w.Advance(o.Refund.ID, domain.RefundFailed, "bank rejected")
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if r.Status != domain.RefundFailed {
		t.Fatalf("unexpected status %s", r.Status)
	}
	if r.Timeline[0].Message != "Refund failed: bank rejected" {
		t.Fatalf("unexpected timeline head %+v", r.Timeline[0])
	}
}

func TestAdvanceRejectsProcessingAndUnknown(t *testing.T) {
	w, store, _ := newWorkflow(t)
	o := cancelledOrder(w, store)

	if _, err := w.Advance(o.Refund.ID, domain.RefundProcessing, ""); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if _, err := w.Advance(o.Refund.ID, domain.RefundStatus("mystery"), ""); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if _, err := w.Advance("REF-404", domain.RefundCompleted, ""); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetByOrder(t *testing.T) {
	w, store, _ := newWorkflow(t)
	o := cancelledOrder(w, store)

	r, err := w.Get(o.ID)
	if err != nil || r.ID != o.Refund.ID {
		t.Fatalf("Get: %+v err=%v", r, err)
	}

	store.AppendOrder(domain.Order{ID: "ORD-2", Status: domain.StatusPlaced})
	if _, err := w.Get("ORD-2"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for order without refund, got %v", err)
	}
	if _, err := w.Get("ORD-404"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestScheduledCompletion(t *testing.T) {
	w, store, clk := newWorkflow(t)
	o := cancelledOrder(w, store)
	w.ScheduleCompletion(o.Refund.ID)

	clk.Advance(SimulatedProcessing)
	r, err := w.Get(o.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if r.Status != domain.RefundCompleted {
		t.Fatalf("expected auto-completion, got %s", r.Status)
	}
	if clk.PendingCount() != 0 {
		t.Fatalf("expected timer released, %d pending", clk.PendingCount())
	}
}

func TestScheduledCompletionSkipsTerminalRefund(t *testing.T) {
	w, store, clk := newWorkflow(t)
	o := cancelledOrder(w, store)
	w.ScheduleCompletion(o.Refund.ID)

	if _, err := w.Advance(o.Refund.ID, domain.RefundFailed, "card expired"); err != nil {
		t.Fatalf("advance: %v", err)
	}

	// The pending auto-completion was cancelled; even if it had fired,
	// the terminal check would reject it.
	clk.Advance(SimulatedProcessing)
	r, _ := w.Get(o.ID)
	if r.Status != domain.RefundFailed {
		t.Fatalf("terminal refund mutated to %s", r.Status)
	}
}

func TestStopCancelsPendingTimers(t *testing.T) {
	w, store, clk := newWorkflow(t)
	o := cancelledOrder(w, store)
	w.ScheduleCompletion(o.Refund.ID)

	w.Stop()
	clk.Advance(SimulatedProcessing)
	r, _ := w.Get(o.ID)
	if r.Status != domain.RefundProcessing {
		t.Fatalf("stopped workflow still advanced refund to %s", r.Status)
	}
}
