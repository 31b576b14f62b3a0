package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"topup/cmd/web/handlers"
	"topup/cmd/web/validator"
	"topup/internal/app"
	"topup/internal/config"
	"topup/kit/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		observability.L().Error("config error", "error", err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		observability.L().Error("app init error", "error", err.Error())
		os.Exit(1)
	}
	defer func() { _ = a.Close() }()
	logger := a.Logger

	go func() {
		t := time.NewTicker(30 * time.Second)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				kv := []any{}
				for k, v := range a.Counters.Snapshot() {
					kv = append(kv, k, v)
				}
				logger.Info("metrics snapshot", kv...)
			}
		}
	}()

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: newMux(a), ReadHeaderTimeout: 2 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("web server shutdown error", "error", err.Error())
		}
	}()

	logger.Info("web server started", "addr", srv.Addr, "catalog_version", a.Catalog.Version(), "provider_mode", cfg.ProviderMode)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("web server error", "error", err.Error())
	}
	logger.Info("web server stopped")
}

func newMux(a *app.App) *http.ServeMux {
	jsonV := validator.NewJSON()

	ordersH := handlers.NewOrders(jsonV, a.Orders, a.Txlog, a)
	balancesH := handlers.NewBalances(jsonV, a.Ledger, a, a)
	customersH := handlers.NewCustomers(jsonV, a, a.Notifier)
	providerH := handlers.NewProvider(a.Provider, a)
	alertsH := handlers.NewAlerts(a.Recovery, a)
	healthH := handlers.NewHealth(a.Health)
	metricsH := handlers.NewMetrics(a.Counters)
	viewsH := handlers.NewViews(a.Views)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /orders", ordersH.Create)
	mux.HandleFunc("GET /orders", ordersH.List)
	mux.HandleFunc("GET /orders/all", ordersH.All)
	mux.HandleFunc("GET /balances/{customer}", balancesH.Get)
	mux.HandleFunc("POST /balances/credit", balancesH.Credit)
	mux.HandleFunc("POST /balances/debit", balancesH.Debit)
	mux.HandleFunc("POST /customers", customersH.Register)
	mux.HandleFunc("GET /customers/{customer}/notifications", customersH.Notifications)
	mux.HandleFunc("GET /customers/{customer}/summary", viewsH.Customer)
	mux.HandleFunc("GET /batches/{batch}", viewsH.Batch)
	mux.HandleFunc("GET /provider/points", providerH.Points)
	mux.HandleFunc("GET /provider/roles", providerH.Role)
	mux.HandleFunc("GET /recovery/alerts", alertsH.List)
	mux.HandleFunc("GET /health", healthH.Handler)
	mux.HandleFunc("GET /metrics", metricsH.Handler)
	return mux
}
