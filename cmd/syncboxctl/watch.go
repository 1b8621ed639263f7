package main

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/medcrm/syncbox"
	"github.com/medcrm/syncbox/prom"
)

func init() {
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the drain loop as a foreground process",
	Long:  "Drain the queue on the configured interval, log delivery outcomes as JSON and expose Prometheus metrics.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
		slog.SetDefault(logger)

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		registry := prometheus.NewRegistry()
		metrics := prom.NewMetrics(registry)

		metricsServer := &http.Server{
			Addr:              a.cfg.MetricsAddr,
			Handler:           metricsHandler(registry),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "err", err)
			}
		}()
		defer metricsServer.Close()

		sub := a.bus.Subscribe(func(event syncbox.Event) {
			switch event.Type {
			case syncbox.EventDelivered:
				logger.Info("operation delivered", "id", event.Operation.ID, "endpoint", event.Operation.Endpoint)
			case syncbox.EventExhausted:
				logger.Warn("operation exhausted retries", "id", event.Operation.ID, "endpoint", event.Operation.Endpoint, "err", event.Err)
			}
		})
		defer sub.Close()

		processor := syncbox.NewProcessor(a.store, a.transport, a.processorOptions(
			syncbox.WithProcessorLogger(syncbox.NewSlogLogger(logger)),
			syncbox.WithProcessorMetrics(metrics),
		)...)

		logger.Info("syncbox watch started",
			"db", a.cfg.DBPath, "interval", a.cfg.DrainInterval.String(), "metrics", a.cfg.MetricsAddr)
		processor.Kick()

		return processor.Run(ctx)
	},
}

func metricsHandler(registry *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return mux
}
