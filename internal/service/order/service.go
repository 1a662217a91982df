package order

import (
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"quickbite/internal/clock"
	"quickbite/internal/domain"
	"quickbite/internal/idgen"
	"quickbite/internal/pricing"
	"quickbite/internal/session"
)

// DeliveryEstimate is added to the placement time for the ETA shown to
// the customer.
const DeliveryEstimate = 30 * time.Minute

// trackingMessages are the fixed human-readable messages per status.
var trackingMessages = map[domain.OrderStatus]string{
	domain.StatusPlaced:    "Order placed successfully",
	domain.StatusConfirmed: "Restaurant confirmed your order",
	domain.StatusPreparing: "Your food is being prepared",
	domain.StatusReady:     "Order is ready for pickup",
	domain.StatusPickedUp:  "Courier picked up your order",
	domain.StatusDelivered: "Order delivered. Enjoy!",
	domain.StatusCancelled: "Order cancelled and refund initiated",
}

// RefundCreator is implemented by the refund workflow; the decorated
// auto-completing variant satisfies it too.
type RefundCreator interface {
	Create(o domain.Order, reason string) domain.Refund
}

// Service is the order lifecycle: the only place order status mutates.
// It snapshots the priced cart into an immutable order at placement,
// advances status strictly forward, and gates cancellation on the
// 60-second window.
type Service struct {
	store   *session.Store
	engine  pricing.Engine
	refunds RefundCreator
	clk     clock.Clock
	ids     idgen.Generator
	logger  *log.Logger

	mu     sync.Mutex
	timers map[string]clock.CancelFunc
}

func New(store *session.Store, refunds RefundCreator, clk clock.Clock, ids idgen.Generator, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		store:   store,
		engine:  pricing.New(),
		refunds: refunds,
		clk:     clk,
		ids:     ids,
		logger:  logger,
		timers:  map[string]clock.CancelFunc{},
	}
}

// PlaceInput carries the checkout form fields.
type PlaceInput struct {
	PaymentMethodLabel string
	DeliveryAddress    string
	Gift               bool
	GiftMessage        string
}

// Place snapshots the current cart into a new order. The cart and the
// order are disjoint afterwards: the cart is emptied and the active
// promo cleared. An ineligible active promo aborts placement so the
// user decides, rather than being silently charged full price.
func (s *Service) Place(in PlaceInput) (domain.Order, error) {
	cart := s.store.Cart()
	if len(cart.Lines) == 0 {
		return domain.Order{}, domain.ErrEmptyCart
	}
	if in.Gift && strings.TrimSpace(in.GiftMessage) == "" {
		return domain.Order{}, domain.ErrGiftMessageRequired
	}

	now := s.clk.Now()
	totals, err := s.engine.Compute(cart.Lines, s.store.ActivePromo(), now)
	if err != nil {
		return domain.Order{}, err
	}

	order := domain.Order{
		ID:                  s.ids.NewID("ORD"),
		Lines:               cart.Lines,
		RestaurantID:        cart.RestaurantID(),
		RestaurantName:      cart.RestaurantName(),
		Totals:              totals,
		Status:              domain.StatusPlaced,
		PlacedAt:            now,
		EstimatedDeliveryAt: now.Add(DeliveryEstimate),
		DeliveryAddress:     strings.TrimSpace(in.DeliveryAddress),
		PaymentMethodLabel:  in.PaymentMethodLabel,
		TrackingUpdates: []domain.TrackingUpdate{
			{Time: now, Message: trackingMessages[domain.StatusPlaced], Status: domain.StatusPlaced},
		},
	}
	if in.Gift {
		order.GiftMessage = strings.TrimSpace(in.GiftMessage)
	}

	s.store.AppendOrder(order)
	s.store.SetCart(domain.Cart{})
	s.store.SetActivePromo(nil)
	s.logger.Printf("order: placed id=%s total=%d", order.ID, totals.TotalCents)
	return order, nil
}

// Advance moves the order one step along the forward chain. Driven by
// the restaurant/courier side; never rewinds, never skips, rejects
// terminal orders.
func (s *Service) Advance(orderID string, next domain.OrderStatus) (domain.Order, error) {
	if !domain.ValidOrderStatus(next) || next == domain.StatusCancelled {
		return domain.Order{}, domain.ErrInvalidTransition
	}
	now := s.clk.Now()
	return s.store.UpdateOrder(orderID, func(o *domain.Order) error {
		if o.Status.Terminal() || o.Status.Next() != next {
			return domain.ErrInvalidTransition
		}
		o.Status = next
		o.PrependTracking(domain.TrackingUpdate{Time: now, Message: trackingMessages[next], Status: next})
		return nil
	})
}

// Cancel transitions a still-placed order to cancelled while the window
// is open, and spawns its refund in the same mutation.
func (s *Service) Cancel(orderID string) (domain.Order, error) {
	now := s.clk.Now()
	updated, err := s.store.UpdateOrder(orderID, func(o *domain.Order) error {
		if o.Status != domain.StatusPlaced {
			return domain.ErrInvalidTransition
		}
		if !CanCancel(*o, now) {
			return domain.ErrCancellationWindowExpired
		}
		o.Status = domain.StatusCancelled
		o.PrependTracking(domain.TrackingUpdate{
			Time:    now,
			Message: trackingMessages[domain.StatusCancelled],
			Status:  domain.StatusCancelled,
		})
		refund := s.refunds.Create(*o, "Order cancelled by customer")
		o.Refund = &refund
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}
	s.stopProgression(orderID)
	s.logger.Printf("order: cancelled id=%s refund=%s", orderID, updated.Refund.ID)
	return updated, nil
}

// List returns the order history, most recent first.
func (s *Service) List() []domain.Order {
	return s.store.Orders()
}

// Get returns one order.
func (s *Service) Get(orderID string) (domain.Order, error) {
	o, ok := s.store.Order(orderID)
	if !ok {
		return domain.Order{}, domain.ErrNotFound
	}
	return o, nil
}

// CancellationState reports whether the order can still be cancelled
// and how long remains. Recomputed on every call so a lazy consumer
// gets a deterministic answer after expiry.
func (s *Service) CancellationState(orderID string) (bool, time.Duration, error) {
	o, ok := s.store.Order(orderID)
	if !ok {
		return false, 0, domain.ErrNotFound
	}
	now := s.clk.Now()
	return CanCancel(o, now), Remaining(o, now), nil
}
