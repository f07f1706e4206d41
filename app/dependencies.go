// Package app wires the application dependency graph.
package app

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/upb/llm-value-router/config"
	"github.com/upb/llm-value-router/prompts"
	"github.com/upb/llm-value-router/repositories"
	"github.com/upb/llm-value-router/repositories/postgres"
	"github.com/upb/llm-value-router/services/aggregator"
	"github.com/upb/llm-value-router/services/benchmark"
	"github.com/upb/llm-value-router/services/judge"
	"github.com/upb/llm-value-router/services/providers"
	"github.com/upb/llm-value-router/services/router"

	// Adapter packages register their provider factories on import
	_ "github.com/upb/llm-value-router/services/providers/anthropic"
	_ "github.com/upb/llm-value-router/services/providers/google"
	_ "github.com/upb/llm-value-router/services/providers/openai"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Repository Factory
	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Repos *repositories.Repositories

	// Provider registry: benchmark model name -> client
	Registry *providers.Registry

	// Domain services
	Judge        *judge.Judge
	Aggregator   *aggregator.Aggregator
	Orchestrator *benchmark.Orchestrator
	Router       *router.ValueRouter

	// Prompt set used for sweeps when no override is supplied
	PromptSet *prompts.Set
}

// NewDependencies creates and wires up all application dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps.initRepositories()

	if err := deps.initProviders(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize providers: %w", err)
	}

	if err := deps.initPromptSet(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize prompt set: %w", err)
	}

	if err := deps.initServices(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase initializes the PostgreSQL connection and bootstraps the schema
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	factory, err := postgres.NewRepositoryFactory(cfg, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to create repository factory: %w", err)
	}

	d.RepoFactory = factory
	d.DB = factory.GetDB()

	if err := d.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if err := factory.InitSchema(ctx); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	d.Logger.Info("database connection established",
		zap.String("connection", cfg.Database.LogString()))

	return nil
}

// initRepositories initializes all repository instances
func (d *Dependencies) initRepositories() {
	d.Repos = d.RepoFactory.NewRepositories()
	d.Logger.Info("repositories initialized")
}

// initProviders fills the registry with one client per benchmark model.
// Models whose provider lacks an API key are skipped with a warning so a
// partially configured deployment still benchmarks what it can reach.
func (d *Dependencies) initProviders(cfg *config.Config) error {
	registry := providers.NewRegistry()

	assignments := providers.DefaultModelAssignments()
	modelNames := make([]string, 0, len(assignments))
	for model := range assignments {
		modelNames = append(modelNames, model)
	}
	sort.Strings(modelNames)

	for _, model := range modelNames {
		providerName := assignments[model]

		providerCfg, err := providers.ConfigFor(providerName, cfg)
		if err != nil {
			return err
		}

		client, err := providers.New(providerName, model, providerCfg)
		if err != nil {
			if errors.Is(err, providers.ErrMissingAPIKey) {
				d.Logger.Warn("skipping model, provider not configured",
					zap.String("model", model),
					zap.String("provider", string(providerName)))
				continue
			}
			return fmt.Errorf("failed to build client for %s: %w", model, err)
		}

		if err := registry.Register(client); err != nil {
			return fmt.Errorf("failed to register %s: %w", model, err)
		}
		d.Logger.Info("registered benchmark model",
			zap.String("model", model),
			zap.String("provider", string(providerName)))
	}

	if registry.Len() == 0 {
		d.Logger.Warn("no benchmark models configured")
	}

	d.Registry = registry
	return nil
}

// initPromptSet loads the configured prompt set file, falling back to the
// built-in default set
func (d *Dependencies) initPromptSet(cfg *config.Config) error {
	if cfg.Benchmark.PromptSetFile == "" {
		d.PromptSet = prompts.DefaultSet()
		return nil
	}

	set, err := prompts.LoadFile(cfg.Benchmark.PromptSetFile)
	if err != nil {
		return err
	}

	d.Logger.Info("loaded prompt set",
		zap.String("file", cfg.Benchmark.PromptSetFile),
		zap.Int("prompts", len(set.Prompts)))
	d.PromptSet = set
	return nil
}

// initServices builds the judge, aggregator, orchestrator and router
func (d *Dependencies) initServices(cfg *config.Config) error {
	graderProvider, ok := providers.DefaultModelAssignments()[cfg.Judge.Model]
	if !ok {
		graderProvider = providers.ProviderOpenAI
	}

	graderCfg, err := providers.ConfigFor(graderProvider, cfg)
	if err != nil {
		return err
	}

	grader, err := providers.New(graderProvider, cfg.Judge.Model, graderCfg)
	if err != nil {
		return fmt.Errorf("failed to build judge client: %w", err)
	}

	d.Judge = judge.New(grader, cfg.Judge, d.Logger)
	d.Aggregator = aggregator.New(d.Repos.Results, d.Repos.Performance, d.Logger)
	d.Orchestrator = benchmark.NewOrchestrator(d.Registry, d.Judge, d.Repos, d.Aggregator, cfg.Benchmark, d.Logger)
	d.Router = router.New(d.Repos.Performance, cfg.Router, d.Logger)

	d.Logger.Info("services initialized",
		zap.String("judge_model", cfg.Judge.Model),
		zap.Int("benchmark_models", d.Registry.Len()))
	return nil
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
	}

	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
