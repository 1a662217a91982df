package order

import (
	"time"

	"quickbite/internal/domain"
)

// CancelWindow is the period after placement during which the customer
// may still cancel.
const CancelWindow = 60 * time.Second

// Remaining is the time left in the cancellation window. A pure
// derivation of placedAt and now: re-evaluating after expiry always
// yields zero, with no reliance on a timer having fired.
func Remaining(o domain.Order, now time.Time) time.Duration {
	left := CancelWindow - now.Sub(o.PlacedAt)
	if left < 0 {
		return 0
	}
	return left
}

// CanCancel reports whether the order is still customer-cancellable.
func CanCancel(o domain.Order, now time.Time) bool {
	return o.Status == domain.StatusPlaced && Remaining(o, now) > 0
}
