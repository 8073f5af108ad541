package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/contractchecked/contract-checked/internal/config"
	"github.com/contractchecked/contract-checked/internal/core/ports"
	"github.com/contractchecked/contract-checked/internal/core/usecase"
	"github.com/contractchecked/contract-checked/internal/infrastructure/content"
	"github.com/contractchecked/contract-checked/internal/infrastructure/docgen"
	"github.com/contractchecked/contract-checked/internal/infrastructure/extractor"
	"github.com/contractchecked/contract-checked/internal/infrastructure/llm/openai"
	"github.com/contractchecked/contract-checked/internal/infrastructure/queue/nats"
	"github.com/contractchecked/contract-checked/internal/infrastructure/report/xlsx"
	"github.com/contractchecked/contract-checked/internal/infrastructure/repository/postgres"
	"github.com/contractchecked/contract-checked/internal/infrastructure/resilience"
	"github.com/contractchecked/contract-checked/internal/infrastructure/storage/localfs"
	"github.com/contractchecked/contract-checked/internal/infrastructure/storage/minio"
)

// Observers receive token and persistence counts. Either may be nil.
type Observers struct {
	Tokens      openai.TokenRecorder
	Persistence ports.PersistenceMetrics
}

type App struct {
	Config config.Config

	Analyzer  ports.ContractAnalyzer
	Comparer  ports.ContractComparer
	Templates ports.TemplateCatalog
	Blog      ports.BlogReader
	Resources ports.ResourceFinder
	// History is nil when persistence is not configured.
	History ports.AnalysisHistory

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, observers Observers) (*App, error) {
	executor := NewExecutor(cfg)

	templates, err := content.Templates()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	posts, err := content.BlogPosts()
	if err != nil {
		return nil, fmt.Errorf("load blog posts: %w", err)
	}

	model := openai.New(openai.Options{
		APIKey:              cfg.OpenAIAPIKey,
		Model:               cfg.OpenAIModel,
		BaseURL:             cfg.OpenAIBaseURL,
		Timeout:             time.Duration(cfg.OpenAITimeoutSeconds) * time.Second,
		Temperature:         float32(cfg.AnalysisTemperature),
		AnalysisMaxTokens:   cfg.AnalysisMaxTokens,
		ComparisonMaxTokens: cfg.ComparisonMaxTokens,
		Executor:            executor,
		Tokens:              observers.Tokens,
	})
	if cfg.OpenAIAPIKey == "" {
		slog.Warn("openai_api_key_missing", "effect", "analysis requests will fail until OPENAI_API_KEY is set")
	}
	extractors := extractor.NewDefaultRegistry(os.TempDir())

	app := &App{
		Config:    cfg,
		Comparer:  usecase.NewCompareContractsUseCase(extractors, model),
		Templates: usecase.NewTemplateCatalogUseCase(templates, docgen.NewDOCXRenderer()),
		Blog:      usecase.NewBlogUseCase(posts),
	}

	var (
		closers      []func()
		recorder     ports.AnalysisRecorder
		resourceRepo ports.ResourceRepository
	)
	if cfg.PersistenceEnabled() {
		db, err := openDatabase(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		closers = append(closers, func() { _ = db.Close() })

		storage, err := newObjectStorage(ctx, cfg)
		if err != nil {
			_ = db.Close()
			return nil, err
		}

		var events ports.EventPublisher
		if cfg.EventsEnabled() {
			queue, err := NewEventQueue(cfg, executor)
			if err != nil {
				_ = db.Close()
				return nil, err
			}
			events = queue
			closers = append(closers, queue.Close)
		}

		analyses := postgres.NewAnalysisRepository(db)
		recorder = usecase.NewRecordAnalysisUseCase(analyses, usecase.RecordOptions{
			Storage: storage,
			Events:  events,
			Metrics: observers.Persistence,
		})
		resourceRepo = postgres.NewResourceRepository(db)
		app.History = usecase.NewAnalysisHistoryUseCase(analyses, xlsx.NewReportWriter())
	} else {
		slog.Info("persistence_disabled", "reason", "DATABASE_URL is empty")
	}

	app.Analyzer = usecase.NewAnalyzeContractUseCase(extractors, model, recorder)
	app.Resources = usecase.NewResourceUseCase(resourceRepo)
	app.closeFn = func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	return app, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

func NewExecutor(cfg config.Config) *resilience.Executor {
	return resilience.NewExecutor(resilience.Config{
		BreakerEnabled:      cfg.BreakerEnabled,
		BreakerMinRequests:  uint32(max(cfg.BreakerMinRequests, 0)),
		BreakerFailureRatio: cfg.BreakerFailureRatio,
		BreakerOpenTimeout:  time.Duration(cfg.BreakerOpenTimeoutSeconds) * time.Second,
	})
}

func NewEventQueue(cfg config.Config, executor *resilience.Executor) (*nats.Queue, error) {
	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		Name:               cfg.ServiceName,
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init event queue: %w", err)
	}
	return queue, nil
}

// openDatabase only fails on a malformed DSN. An unreachable database or a
// failed schema bootstrap is logged, and persistence steps fail per request.
func openDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := postgres.OpenDB(dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	schemaCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := db.PingContext(schemaCtx); err != nil {
		slog.Warn("database_unreachable", "error", err)
		return db, nil
	}
	if err := postgres.EnsureSchema(schemaCtx, db); err != nil {
		slog.Warn("schema_bootstrap_failed", "error", err)
	}
	return db, nil
}

func newObjectStorage(ctx context.Context, cfg config.Config) (ports.ObjectStorage, error) {
	switch cfg.StorageBackend {
	case "", "none":
		return nil, nil
	case "localfs":
		storage, err := localfs.New(cfg.StoragePath)
		if err != nil {
			return nil, fmt.Errorf("init local storage: %w", err)
		}
		return storage, nil
	case "minio":
		storage, err := minio.New(ctx, minio.Options{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			Region:    cfg.MinioRegion,
			UseSSL:    cfg.MinioUseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("init minio storage: %w", err)
		}
		return storage, nil
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}
}
