package domain

import "time"

// OrderStatus is the order lifecycle state. Progression is strictly
// forward along the chain, with a single side branch to cancelled while
// still placed.
type OrderStatus string

const (
	StatusPlaced    OrderStatus = "placed"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusPickedUp  OrderStatus = "picked_up"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// forwardChain is the only allowed forward progression.
var forwardChain = []OrderStatus{
	StatusPlaced,
	StatusConfirmed,
	StatusPreparing,
	StatusReady,
	StatusPickedUp,
	StatusDelivered,
}

// Terminal reports whether no further transition is accepted.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Next returns the forward successor of s, or "" when s is terminal or
// unknown.
func (s OrderStatus) Next() OrderStatus {
	for i, st := range forwardChain {
		if st == s && i+1 < len(forwardChain) {
			return forwardChain[i+1]
		}
	}
	return ""
}

// ValidOrderStatus reports whether s names a known order status.
func ValidOrderStatus(s OrderStatus) bool {
	if s == StatusCancelled {
		return true
	}
	for _, st := range forwardChain {
		if st == s {
			return true
		}
	}
	return false
}

// TrackingUpdate is one append-only entry in an order's tracking
// timeline, kept most recent first.
type TrackingUpdate struct {
	Time    time.Time   `json:"time"`
	Message string      `json:"message"`
	Status  OrderStatus `json:"status"`
}

// Order is an immutable snapshot of a priced cart taken at placement.
// Only the lifecycle service mutates status, tracking, and refund.
type Order struct {
	ID                  string           `json:"id"`
	Lines               []CartLine       `json:"lines"`
	RestaurantID        string           `json:"restaurantId"`
	RestaurantName      string           `json:"restaurantName,omitempty"`
	Totals              Totals           `json:"totals"`
	Status              OrderStatus      `json:"status"`
	PlacedAt            time.Time        `json:"placedAt"`
	EstimatedDeliveryAt time.Time        `json:"estimatedDeliveryAt"`
	DeliveryAddress     string           `json:"deliveryAddress"`
	PaymentMethodLabel  string           `json:"paymentMethodLabel"`
	GiftMessage         string           `json:"giftMessage,omitempty"`
	TrackingUpdates     []TrackingUpdate `json:"trackingUpdates"`
	Refund              *Refund          `json:"refund,omitempty"`
}

// PrependTracking pushes an update to the front of the timeline.
func (o *Order) PrependTracking(u TrackingUpdate) {
	o.TrackingUpdates = append([]TrackingUpdate{u}, o.TrackingUpdates...)
}

// Clone deep-copies the order so callers can hand it out without
// exposing the stored copy to mutation.
func (o Order) Clone() Order {
	out := o
	out.Lines = CloneLines(o.Lines)
	out.TrackingUpdates = append([]TrackingUpdate(nil), o.TrackingUpdates...)
	if o.Refund != nil {
		r := o.Refund.Clone()
		out.Refund = &r
	}
	return out
}
