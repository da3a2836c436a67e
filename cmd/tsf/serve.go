package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/sybrew/the-seo-framework/config"
	seoassessor "github.com/sybrew/the-seo-framework/processor/seo-assessor"
	"github.com/sybrew/the-seo-framework/storage"
)

func serveCmd() *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the audit assessor service",
		Long: `Serve runs the assessor as a long-lived service. It consumes audit
requests from a JetStream work queue, evaluates each item, and
publishes the verdicts back.

With no configured NATS URL an embedded server is started.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewLoader(slog.Default()).Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return runServe(cmd.Context(), cfg, metricsAddr)
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9402)")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, metricsAddr string) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := slog.Default()

	conn, embedded, err := connectNATS(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		conn.Drain()
		conn.Close()
		if embedded != nil {
			embedded.Shutdown()
			embedded.WaitForShutdown()
		}
	}()

	js, err := jetstream.New(conn)
	if err != nil {
		return fmt.Errorf("create JetStream context: %w", err)
	}

	assessor, err := seoassessor.NewComponent(seoassessor.DefaultConfig(), cfg, js, logger)
	if err != nil {
		return fmt.Errorf("create assessor: %w", err)
	}

	store, err := storage.NewStore(ctx, js)
	if err != nil {
		return fmt.Errorf("create result store: %w", err)
	}
	assessor.SetResultSink(store)

	if err := assessor.Initialize(ctx); err != nil {
		return fmt.Errorf("initialize assessor: %w", err)
	}
	if err := assessor.Start(ctx); err != nil {
		return fmt.Errorf("start assessor: %w", err)
	}
	defer assessor.Stop()

	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv := &http.Server{Addr: metricsAddr, Handler: mux}
		go func() {
			logger.Info("metrics endpoint listening", slog.String("addr", metricsAddr))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics endpoint failed", slog.Any("error", err))
			}
		}()
		defer func() {
			shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutCancel()
			srv.Shutdown(shutCtx)
		}()
	}

	logger.Info("assessor service running, waiting for requests")
	<-ctx.Done()
	logger.Info("shutting down")
	return nil
}

// connectNATS connects to the configured server, or starts an embedded
// one when no URL is set. The returned server is nil for external
// connections.
func connectNATS(cfg *config.Config, logger *slog.Logger) (*nats.Conn, *server.Server, error) {
	if cfg.NATS.URL != "" && !cfg.NATS.Embedded {
		logger.Info("connecting to NATS", slog.String("url", cfg.NATS.URL))
		conn, err := nats.Connect(cfg.NATS.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to NATS: %w", err)
		}
		return conn, nil, nil
	}

	logger.Info("starting embedded NATS server")
	opts := &server.Options{
		Port:      -1, // Random available port
		JetStream: true,
		NoLog:     true,
		NoSigs:    true,
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("create embedded NATS server: %w", err)
	}

	go ns.Start()

	if !ns.ReadyForConnections(5 * time.Second) {
		ns.Shutdown()
		return nil, nil, fmt.Errorf("embedded NATS server failed to start")
	}

	conn, err := nats.Connect(ns.ClientURL())
	if err != nil {
		ns.Shutdown()
		return nil, nil, fmt.Errorf("connect to embedded NATS: %w", err)
	}
	return conn, ns, nil
}
