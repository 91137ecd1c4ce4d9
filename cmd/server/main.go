package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/AngelCh415/marketing-dashboard/internal/config"
	"github.com/AngelCh415/marketing-dashboard/internal/dashboard"
	"github.com/AngelCh415/marketing-dashboard/internal/httpx"
	"github.com/AngelCh415/marketing-dashboard/internal/ingest"
	"github.com/AngelCh415/marketing-dashboard/internal/store"
	"github.com/AngelCh415/marketing-dashboard/internal/utils"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("config error", slog.String("err", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	m := utils.NewMetrics(reg)

	st := store.NewMemoryStore()
	loader := ingest.NewLoader(ingest.NewHTTPClient(cfg.HTTPTimeout), st, logger, cfg)
	if _, err := loader.Load(ctx); err != nil {
		logger.Error("load dataset", slog.String("err", err.Error()))
		os.Exit(1)
	}

	d := dashboard.New(st.All(), dashboard.WithLogger(logger), dashboard.WithObserver(m.Observer()))

	r := httpx.NewRouter(logger, d, httpx.Options{
		ChartLimit:     cfg.ChartLimit,
		FilterDebounce: cfg.FilterDebounce,
		Gatherer:       reg,
		Metrics:        m,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("starting server", slog.String("port", cfg.Port), slog.Int("records", st.Len()))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", slog.String("err", err.Error()))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
