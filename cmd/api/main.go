package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"quickbite/internal/clock"
	"quickbite/internal/config"
	"quickbite/internal/db"
	"quickbite/internal/httpserver"
	"quickbite/internal/idgen"
	"quickbite/internal/notify"
	promorepo "quickbite/internal/repository/promo"
	"quickbite/internal/repository/state"
	cartsvc "quickbite/internal/service/cart"
	ordersvc "quickbite/internal/service/order"
	refundsvc "quickbite/internal/service/refund"
	"quickbite/internal/session"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()

	// With no DSN configured the session runs memory-only: state lives
	// for the process lifetime and the built-in promo codes are used.
	var dbpool *pgxpool.Pool
	var gateway state.Gateway
	var promos promorepo.Repository
	if cfg.DBConnString != "" {
		pool, err := db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			logger.Fatalf("connect to db: %v", err)
		}
		defer pool.Close()
		dbpool = pool
		gateway = state.NewPostgres(pool, logger)
		promos = promorepo.NewPostgres(pool, logger)
	} else {
		logger.Printf("no DB_DSN configured, running memory-only")
		gateway = state.NewMemory()
		promos = promorepo.NewStatic()
	}

	store := session.New(gateway, logger)
	store.Load(ctx)

	clk := clock.System{}
	ids := idgen.UUID{}
	sink := notify.NewLogSink(logger)

	refunds := refundsvc.New(store, clk, clk, ids, sink, logger)

	// With simulation on, every refund spawned by a cancellation also
	// arms its own completion timer.
	var creator ordersvc.RefundCreator = refunds
	if cfg.SimulateProgression {
		creator = refundsvc.AutoCompleting{Workflow: refunds}
	}

	orders := ordersvc.New(store, creator, clk, ids, logger)
	cart := cartsvc.New(store, promos, clk, logger)

	deps := httpserver.Deps{
		Cart:    cart,
		Orders:  orders,
		Refunds: refunds,
		Session: store,
		Promos:  promos,
	}
	var sim *ordersvc.Simulator
	if cfg.SimulateProgression {
		sim = ordersvc.NewSimulator(orders, clk, sink)
		deps.Sim = sim
	}

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, deps)
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	if sim != nil {
		sim.Stop()
	}
	refunds.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
