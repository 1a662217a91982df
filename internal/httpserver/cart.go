package httpserver

import (
	"errors"
	"net/http"

	"quickbite/internal/domain"
	cartsvc "quickbite/internal/service/cart"

	"github.com/gin-gonic/gin"
)

type cartLinePayload struct {
	ItemID         string   `json:"itemId" binding:"required"`
	Name           string   `json:"name" binding:"required"`
	UnitPriceCents int64    `json:"unitPriceCents" binding:"required"`
	Quantity       int      `json:"quantity"`
	RestaurantID   string   `json:"restaurantId" binding:"required"`
	RestaurantName string   `json:"restaurantName"`
	Customizations []string `json:"customizations"`
}

func (p cartLinePayload) toLine() domain.CartLine {
	return domain.CartLine{
		ItemID:         p.ItemID,
		Name:           p.Name,
		UnitPriceCents: p.UnitPriceCents,
		Quantity:       p.Quantity,
		RestaurantID:   p.RestaurantID,
		RestaurantName: p.RestaurantName,
		Customizations: p.Customizations,
	}
}

type cartView struct {
	Lines          []lineView `json:"lines"`
	ItemCount      int        `json:"itemCount"`
	SubtotalCents  int64      `json:"subtotalCents"`
	RestaurantID   string     `json:"restaurantId,omitempty"`
	RestaurantName string     `json:"restaurantName,omitempty"`
}

type lineView struct {
	Key string `json:"key"`
	domain.CartLine
}

func viewCart(lines []domain.CartLine) cartView {
	cart := domain.Cart{Lines: lines}
	out := cartView{
		Lines:          make([]lineView, 0, len(lines)),
		ItemCount:      cart.ItemCount(),
		SubtotalCents:  cart.SubtotalCents(),
		RestaurantID:   cart.RestaurantID(),
		RestaurantName: cart.RestaurantName(),
	}
	for _, l := range lines {
		out.Lines = append(out.Lines, lineView{Key: l.Key(), CartLine: l})
	}
	return out
}

func getCartHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, viewCart(deps.Cart.Items()))
	}
}

func addItemHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Item    cartLinePayload `json:"item" binding:"required"`
			Replace bool            `json:"replace"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"notification": note("Invalid request body", "error")})
			return
		}
		outcome, err := deps.Cart.AddItem(req.Item.toLine(), req.Replace)
		if err != nil {
			respondError(c, err)
			return
		}
		message := req.Item.Name + " added to cart"
		if outcome == cartsvc.OutcomeQuantityUpdated {
			message = req.Item.Name + " quantity updated"
		}
		c.JSON(http.StatusOK, gin.H{
			"notification": note(message, "success"),
			"outcome":      outcome,
			"cart":         viewCart(deps.Cart.Items()),
		})
	}
}

func updateQuantityHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Quantity *int `json:"quantity" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"notification": note("Invalid request body", "error")})
			return
		}
		outcome, err := deps.Cart.UpdateQuantity(c.Param("key"), *req.Quantity)
		if err != nil {
			respondError(c, err)
			return
		}
		message := "Quantity updated"
		if outcome == cartsvc.OutcomeRemoved {
			message = "Item removed from cart"
		}
		c.JSON(http.StatusOK, gin.H{
			"notification": note(message, "success"),
			"outcome":      outcome,
			"cart":         viewCart(deps.Cart.Items()),
		})
	}
}

func clearCartHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		deps.Cart.Clear()
		c.JSON(http.StatusOK, gin.H{
			"notification": note("Cart cleared", "info"),
			"cart":         viewCart(nil),
		})
	}
}

func reorderHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			OrderID string `json:"orderId"`
			Replace bool   `json:"replace"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.OrderID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"notification": note("Invalid request body", "error")})
			return
		}
		past, err := deps.Orders.Get(req.OrderID)
		if err != nil {
			respondError(c, err)
			return
		}
		if err := deps.Cart.Reorder(past.Lines, req.Replace); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"notification": note("Items added to cart", "success"),
			"cart":         viewCart(deps.Cart.Items()),
		})
	}
}

func totalsHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		totals, err := deps.Cart.Totals()
		if err != nil && !errors.Is(err, domain.ErrPromoIneligible) {
			respondError(c, err)
			return
		}
		resp := gin.H{"totals": totals}
		if err != nil {
			// The active promo no longer qualifies; report it rather
			// than silently pricing without it.
			resp["notification"] = note("Your order doesn't qualify for this promo anymore", "info")
			resp["promoIneligible"] = true
		}
		c.JSON(http.StatusOK, resp)
	}
}

func applyPromoHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Code string `json:"code" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"notification": note("Invalid request body", "error")})
			return
		}
		totals, err := deps.Cart.ApplyPromo(c.Request.Context(), req.Code)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"notification": note("Promo applied!", "success"),
			"totals":       totals,
		})
	}
}

func removePromoHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		deps.Cart.RemovePromo()
		totals, _ := deps.Cart.Totals()
		c.JSON(http.StatusOK, gin.H{
			"notification": note("Promo removed", "info"),
			"totals":       totals,
		})
	}
}
