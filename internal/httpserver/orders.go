package httpserver

import (
	"net/http"

	"quickbite/internal/domain"
	ordersvc "quickbite/internal/service/order"

	"github.com/gin-gonic/gin"
)

func placeOrderHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			PaymentMethod   string `json:"paymentMethod" binding:"required"`
			DeliveryAddress string `json:"deliveryAddress"`
			Gift            bool   `json:"gift"`
			GiftMessage     string `json:"giftMessage"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"notification": note("Invalid request body", "error")})
			return
		}
		order, err := deps.Orders.Place(ordersvc.PlaceInput{
			PaymentMethodLabel: req.PaymentMethod,
			DeliveryAddress:    req.DeliveryAddress,
			Gift:               req.Gift,
			GiftMessage:        req.GiftMessage,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		if deps.Sim != nil {
			deps.Sim.Start(order.ID)
		}
		c.JSON(http.StatusCreated, gin.H{
			"notification": note("Order placed successfully", "success"),
			"order":        order,
		})
	}
}

func listOrdersHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders := deps.Orders.List()
		if orders == nil {
			orders = []domain.Order{}
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}

func getOrderHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := deps.Orders.Get(c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": order})
	}
}

func cancelOrderHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := deps.Orders.Cancel(c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"notification": note("Order cancelled and refund initiated", "success"),
			"order":        order,
		})
	}
}

func cancellationHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, remaining, err := deps.Orders.CancellationState(c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"allowed":          allowed,
			"remainingSeconds": int(remaining.Seconds()),
		})
	}
}

func advanceOrderHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Status string `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"notification": note("Invalid request body", "error")})
			return
		}
		order, err := deps.Orders.Advance(c.Param("id"), domain.OrderStatus(req.Status))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": order})
	}
}

func getRefundHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		refund, err := deps.Refunds.Get(c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"refund": refund})
	}
}

func advanceRefundHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Status string `json:"status" binding:"required"`
			Reason string `json:"reason"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"notification": note("Invalid request body", "error")})
			return
		}
		refund, err := deps.Refunds.Get(c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		updated, err := deps.Refunds.Advance(refund.ID, domain.RefundStatus(req.Status), req.Reason)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"refund": updated})
	}
}

func listFavoritesHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		favorites := deps.Session.Favorites()
		if favorites == nil {
			favorites = []string{}
		}
		c.JSON(http.StatusOK, gin.H{"favorites": favorites})
	}
}

func setFavoriteHandler(deps Deps, favorite bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		deps.Session.SetFavorite(c.Param("itemId"), favorite)
		c.Status(http.StatusNoContent)
	}
}
