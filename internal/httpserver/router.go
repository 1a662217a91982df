package httpserver

import (
	"context"
	"log"
	"net/http"
	"time"

	"quickbite/internal/domain"
	promorepo "quickbite/internal/repository/promo"
	cartsvc "quickbite/internal/service/cart"
	ordersvc "quickbite/internal/service/order"
	refundsvc "quickbite/internal/service/refund"
	"quickbite/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Deps carries the core services the API exposes to UI screens.
type Deps struct {
	Cart    *cartsvc.Service
	Orders  *ordersvc.Service
	Refunds *refundsvc.Workflow
	Session *session.Store
	Promos  promorepo.Repository

	// Sim, when set, drives placed orders along the status chain.
	Sim *ordersvc.Simulator
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.Default())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.GET("/cart", getCartHandler(deps))
	router.POST("/cart/items", addItemHandler(deps))
	router.PATCH("/cart/items/:key", updateQuantityHandler(deps))
	router.DELETE("/cart", clearCartHandler(deps))
	router.POST("/cart/reorder", reorderHandler(deps))
	router.GET("/cart/totals", totalsHandler(deps))
	router.POST("/cart/promo", applyPromoHandler(deps))
	router.DELETE("/cart/promo", removePromoHandler(deps))

	router.GET("/promos", listPromosHandler(deps))

	router.POST("/orders", placeOrderHandler(deps))
	router.GET("/orders", listOrdersHandler(deps))
	router.GET("/orders/:id", getOrderHandler(deps))
	router.POST("/orders/:id/cancel", cancelOrderHandler(deps))
	router.GET("/orders/:id/cancellation", cancellationHandler(deps))
	router.POST("/orders/:id/advance", advanceOrderHandler(deps))
	router.GET("/orders/:id/refund", getRefundHandler(deps))
	router.POST("/orders/:id/refund/advance", advanceRefundHandler(deps))

	router.GET("/favorites", listFavoritesHandler(deps))
	router.PUT("/favorites/:itemId", setFavoriteHandler(deps, true))
	router.DELETE("/favorites/:itemId", setFavoriteHandler(deps, false))

	return router, nil
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func readyHandler(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ready", "storage": "memory"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "db not reachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "storage": "postgres"})
	}
}

func listPromosHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		promos, err := deps.Promos.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		if promos == nil {
			promos = []domain.Promo{}
		}
		c.JSON(http.StatusOK, gin.H{"promos": promos})
	}
}
