package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/boddenberg/collections-bfa-go/internal/apiclient"
	"github.com/boddenberg/collections-bfa-go/internal/config"
	"github.com/boddenberg/collections-bfa-go/internal/domain"
	"github.com/boddenberg/collections-bfa-go/internal/handler"
	"github.com/boddenberg/collections-bfa-go/internal/infra/observability"
	"github.com/boddenberg/collections-bfa-go/internal/infra/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Build the configured adapter and check the backend is reachable",
	RunE:  runPing,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration with secrets masked",
	RunE:  runConfig,
}

func init() {
	pingCmd.Flags().String("mode", "", "backend mode to test instead of API_MODE")
	pingCmd.Flags().Duration("timeout", 10*time.Second, "overall timeout")
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	if err := config.LoadDotEnv(envFile); err != nil {
		return nil, fmt.Errorf("loading %s: %w", envFile, err)
	}
	return config.Load(), nil
}

// newFactory builds the client factory, attaching the object store when one
// is configured.
func newFactory(ctx context.Context, cfg *config.Config, logger *zap.Logger, metrics *observability.Metrics) *apiclient.Factory {
	var opts []apiclient.Option
	if cfg.Backend.Storage.Enabled() {
		store, err := storage.New(cfg.Backend.Storage, logger)
		if err != nil {
			logger.Warn("object storage disabled", zap.Error(err))
		} else {
			if err := store.EnsureBucket(ctx); err != nil {
				logger.Warn("object storage bucket check failed", zap.Error(err))
			}
			opts = append(opts, apiclient.WithObjectStore(store))
			logger.Info("object storage enabled", zap.String("bucket", cfg.Backend.Storage.Bucket))
		}
	}
	return apiclient.New(cfg.Backend, logger, metrics, opts...)
}

func runServe(cmd *cobra.Command, _ []string) error {
	// --- Config ---
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("api_mode", cfg.Backend.Mode),
		zap.Duration("http_timeout", cfg.Backend.HTTPTimeout),
		zap.Duration("cache_ttl", cfg.Backend.CacheTTL),
		zap.Int("max_retries", cfg.Backend.Resilience.MaxRetries),
		zap.Duration("initial_backoff", cfg.Backend.Resilience.InitialBackoff),
	)

	// --- Tracing ---
	endpoint := ""
	if cfg.OTelEnabled {
		endpoint = cfg.OTLPEndpoint
	}
	shutdown, err := observability.InitTracer(cmd.Context(), endpoint, "collections-bfa")
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Backend adapter ---
	factory := newFactory(cmd.Context(), cfg, logger, metrics)
	if _, err := factory.Client(); err != nil {
		// Not fatal: /readyz reports the error until the configuration is fixed.
		logger.Error("initial backend adapter could not be built", zap.Error(err))
	}

	// --- Router ---
	router := handler.NewRouter(factory, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	}

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

func runPing(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	timeout, _ := cmd.Flags().GetDuration("timeout")
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	factory := newFactory(ctx, cfg, logger, nil)
	if mode, _ := cmd.Flags().GetString("mode"); mode != "" {
		if _, err := factory.SwitchMode(mode, apiclient.Overrides{}); err != nil {
			return err
		}
	}

	start := time.Now()
	if err := factory.TestConnection(ctx); err != nil {
		return fmt.Errorf("%s backend unreachable: %w", factory.Mode(), err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s backend ok (%dms)\n", factory.Mode(), time.Since(start).Milliseconds())
	return nil
}

func runConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	mode, modeErr := domain.ParseMode(cfg.Backend.Mode)

	view := map[string]any{
		"port":           cfg.Port,
		"logLevel":       cfg.LogLevel,
		"apiMode":        mode,
		"baseUrl":        cfg.Backend.BaseURL,
		"disabledCaps":   cfg.Backend.RESTDisabledCapsList,
		"supabaseUrl":    cfg.Backend.SupabaseURL,
		"supabaseAnon":   mask(cfg.Backend.SupabaseAnonKey),
		"httpTimeout":    cfg.Backend.HTTPTimeout.String(),
		"maxRetries":     cfg.Backend.Resilience.MaxRetries,
		"maxConcurrency": cfg.Backend.Resilience.MaxConcurrency,
		"cacheTtl":       cfg.Backend.CacheTTL.String(),
		"storageEnabled": cfg.Backend.Storage.Enabled(),
		"storageBucket":  cfg.Backend.Storage.Bucket,
		"otelEnabled":    cfg.OTelEnabled,
	}
	if modeErr != nil {
		view["apiMode"] = cfg.Backend.Mode
		view["apiModeError"] = modeErr.Error()
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(view)
}

func mask(secret string) string {
	if len(secret) <= 8 {
		if secret == "" {
			return ""
		}
		return "****"
	}
	return secret[:4] + "****" + secret[len(secret)-4:]
}
