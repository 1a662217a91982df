package httpserver

import (
	"errors"
	"net/http"

	"quickbite/internal/domain"

	"github.com/gin-gonic/gin"
)

// notification is the user-feedback shape every non-2xx (and most 2xx)
// response carries; the UI renders it as a toast.
type notification struct {
	Message string `json:"message"`
	Kind    string `json:"kind"`
}

func note(message, kind string) notification {
	return notification{Message: message, Kind: kind}
}

// respondError translates core errors into HTTP status codes plus a
// notification payload. Cross-restaurant conflicts additionally carry
// both restaurants so the UI can phrase its confirmation prompt.
func respondError(c *gin.Context, err error) {
	var conflict *domain.CrossRestaurantError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, gin.H{
			"notification":       note("Your cart has items from another restaurant. Replace it?", "info"),
			"conflict":           true,
			"currentRestaurant":  gin.H{"id": conflict.CurrentRestaurant, "name": conflict.CurrentName},
			"incomingRestaurant": gin.H{"id": conflict.IncomingRestaurant, "name": conflict.IncomingName},
		})
		return
	}

	status := http.StatusInternalServerError
	message := "Something went wrong"
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		status, message = http.StatusBadRequest, "Your cart is empty"
	case errors.Is(err, domain.ErrInvalidQuantity):
		status, message = http.StatusBadRequest, "Quantity cannot be negative"
	case errors.Is(err, domain.ErrGiftMessageRequired):
		status, message = http.StatusUnprocessableEntity, "Please add a gift message"
	case errors.Is(err, domain.ErrPromoNotFound):
		status, message = http.StatusNotFound, "Invalid promo code"
	case errors.Is(err, domain.ErrPromoIneligible):
		status, message = http.StatusUnprocessableEntity, "Your order doesn't qualify for this promo"
	case errors.Is(err, domain.ErrCancellationWindowExpired):
		status, message = http.StatusConflict, "The cancellation window has closed"
	case errors.Is(err, domain.ErrInvalidTransition):
		status, message = http.StatusConflict, "That status change isn't allowed"
	case errors.Is(err, domain.ErrRefundReasonRequired):
		status, message = http.StatusUnprocessableEntity, "A reason is required to fail a refund"
	case errors.Is(err, domain.ErrNotFound):
		status, message = http.StatusNotFound, "Not found"
	}
	c.JSON(status, gin.H{"notification": note(message, "error")})
}
