package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dmorales-dev/cashdesk-api/internal/config"
	"github.com/dmorales-dev/cashdesk-api/internal/handler"
	"github.com/dmorales-dev/cashdesk-api/internal/logging"
	"github.com/dmorales-dev/cashdesk-api/internal/middleware"
	"github.com/dmorales-dev/cashdesk-api/internal/rates"
	"github.com/dmorales-dev/cashdesk-api/internal/repository"
	"github.com/dmorales-dev/cashdesk-api/internal/service/closing"
	"github.com/dmorales-dev/cashdesk-api/internal/service/invoice"
	"github.com/dmorales-dev/cashdesk-api/internal/service/outflow"
	"github.com/dmorales-dev/cashdesk-api/internal/service/reconcile"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("cashdesk-api", cfg.LogLevel, cfg.AppEnv)

	db, err := connectDB(cfg)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	tolerance := decimal.NewFromFloat(cfg.CashTolerance)

	rateRepo := repository.NewRateRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	outflowRepo := repository.NewOutflowRepository(db)
	closingRepo := repository.NewClosingRepository(db)

	ledger := rates.NewLedger(rateRepo, cfg.DefaultRateUSD, cfg.DefaultRateEUR)
	balanceEngine := reconcile.NewEngine(invoiceRepo, outflowRepo)
	invoiceSvc := invoice.NewService(invoiceRepo, ledger, tolerance)
	outflowSvc := outflow.NewService(outflowRepo, balanceEngine)
	closingSvc := closing.NewService(db, closingRepo, invoiceRepo, outflowRepo, tolerance)

	rateHandler := handler.NewRateHandler(ledger)
	invoiceHandler := handler.NewInvoiceHandler(invoiceSvc)
	outflowHandler := handler.NewOutflowHandler(outflowSvc)
	balanceHandler := handler.NewBalanceHandler(balanceEngine)
	closingHandler := handler.NewClosingHandler(closingSvc)
	denominationHandler := handler.NewDenominationHandler()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handler.Health)

	mux.HandleFunc("GET /api/v1/rates", rateHandler.Get)
	mux.HandleFunc("PUT /api/v1/rates", rateHandler.Set)
	mux.HandleFunc("PUT /api/v1/rates/{currency}", rateHandler.SetOne)
	mux.HandleFunc("GET /api/v1/rates/history", rateHandler.History)

	mux.HandleFunc("POST /api/v1/invoices", invoiceHandler.Register)
	mux.HandleFunc("GET /api/v1/invoices", invoiceHandler.List)
	mux.HandleFunc("GET /api/v1/invoices/{id}", invoiceHandler.Get)
	mux.HandleFunc("PATCH /api/v1/invoices/{id}/payments", invoiceHandler.AmendPayments)

	mux.HandleFunc("POST /api/v1/outflows", outflowHandler.Register)
	mux.HandleFunc("GET /api/v1/outflows", outflowHandler.List)
	mux.HandleFunc("GET /api/v1/outflows/{id}", outflowHandler.Get)

	mux.HandleFunc("GET /api/v1/balance", balanceHandler.Get)

	mux.HandleFunc("POST /api/v1/closings", closingHandler.Close)
	mux.HandleFunc("GET /api/v1/closings", closingHandler.List)
	mux.HandleFunc("GET /api/v1/closings/preview", closingHandler.Preview)
	mux.HandleFunc("GET /api/v1/closings/{id}", closingHandler.Details)

	mux.HandleFunc("GET /api/v1/denominations/{currency}", denominationHandler.Suggest)

	var root http.Handler = mux
	root = middleware.Logging(root)
	root = middleware.Tracing(root)
	root = middleware.Recovery(root)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           root,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func connectDB(cfg *config.Config) (*sql.DB, error) {
	pool := repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	}

	var lastErr error
	for i := range 30 {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, pool)
		cancel()
		if err == nil {
			return db, nil
		}
		lastErr = err
		slog.Info("waiting for database", "attempt", i+1)
		time.Sleep(time.Second)
	}

	return nil, fmt.Errorf("connectDB: gave up after 30 attempts: %w", lastErr)
}
