package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrEmptyCart indicates an order was placed with no lines.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrInvalidQuantity indicates a negative quantity update.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrPromoNotFound indicates the promo code is unknown.
	ErrPromoNotFound = errors.New("promo code not found")

	// ErrPromoIneligible indicates the subtotal is below the promo's
	// minimum order value, or the code has expired.
	ErrPromoIneligible = errors.New("promo not eligible")

	// ErrInvalidTransition indicates an order or refund status change
	// attempted out of the allowed sequence.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrCancellationWindowExpired indicates cancellation was attempted
	// after the window closed.
	ErrCancellationWindowExpired = errors.New("cancellation window expired")

	// ErrGiftMessageRequired indicates the gift flag was set without
	// message text.
	ErrGiftMessageRequired = errors.New("gift message required")

	// ErrRefundReasonRequired indicates a refund was failed without a
	// reason string.
	ErrRefundReasonRequired = errors.New("refund failure reason required")

	// ErrCorruptedState indicates the persisted session payload could
	// not be decoded. It is self-healed, never surfaced to the user.
	ErrCorruptedState = errors.New("corrupted persisted state")
)

// CrossRestaurantError reports an attempt to mix items from two
// restaurants in one cart. It must be resolved explicitly: replace the
// cart or cancel the add.
type CrossRestaurantError struct {
	CurrentRestaurant  string
	CurrentName        string
	IncomingRestaurant string
	IncomingName       string
}

func (e *CrossRestaurantError) Error() string {
	return fmt.Sprintf("cart already holds items from restaurant %s; cannot add from %s",
		e.CurrentRestaurant, e.IncomingRestaurant)
}
