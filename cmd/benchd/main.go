// Command benchd serves the value-routing API and runs benchmark sweeps.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/upb/llm-value-router/app"
	"github.com/upb/llm-value-router/config"
	"github.com/upb/llm-value-router/routes"
)

func main() {
	runBenchmark := flag.Bool("run-benchmark", false, "run a benchmark sweep and exit instead of serving")
	includeFollowUps := flag.Bool("include-follow-ups", true, "include follow-up turns in the sweep")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.New(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}

	deps, err := app.NewDependencies(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize dependencies", zap.Error(err))
	}
	defer func() {
		if err := deps.Close(context.Background()); err != nil {
			logger.Error("shutdown error", zap.Error(err))
		}
	}()

	if *runBenchmark {
		if err := runSweep(ctx, deps, *includeFollowUps); err != nil {
			logger.Fatal("benchmark sweep failed", zap.Error(err))
		}
		return
	}

	serve(ctx, cfg, deps, logger)
}

// newLogger builds a production or development zap logger by environment
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// runSweep runs one benchmark sweep over the configured prompt set
func runSweep(ctx context.Context, deps *app.Dependencies, includeFollowUps bool) error {
	run, err := deps.Orchestrator.RunBenchmark(ctx, deps.PromptSet, includeFollowUps)
	if err != nil {
		return err
	}
	deps.Logger.Info("sweep finished",
		zap.String("run_id", run.ID.String()),
		zap.Int("total_prompts", run.TotalPrompts))
	return nil
}

// serve runs the HTTP server until the context is cancelled, then drains
// in-flight requests within the configured shutdown timeout
func serve(ctx context.Context, cfg *config.Config, deps *app.Dependencies, logger *zap.Logger) {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      routes.SetupRoutes(deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		logger.Fatal("server error", zap.Error(err))
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
