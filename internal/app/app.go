package app

import (
	"context"
	"fmt"
	"log/slog"

	"ArgusIntel/internal/analysis"
	"ArgusIntel/internal/config"
	"ArgusIntel/internal/infrastructure/httpapi"
	"ArgusIntel/internal/infrastructure/ner"
	"ArgusIntel/internal/infrastructure/parser"
	"ArgusIntel/internal/infrastructure/scheduler"
	"ArgusIntel/internal/infrastructure/storage"
	"ArgusIntel/internal/infrastructure/telegram"
	"ArgusIntel/internal/logging"
	"ArgusIntel/internal/ports"
	"ArgusIntel/internal/scanner"
	"ArgusIntel/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg        config.Config
	logger     *slog.Logger
	repository *storage.Repository
	scheduler  *usecase.Scheduler
	api        *httpapi.Server
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	registry := scanner.NewRegistry()
	registry.Register(parser.NewNewsSiteScanner(nil,
		cfg.Scraper.RequestsPerMinute,
		cfg.Scraper.MinContentLength,
		cfg.Scraper.MaxArticlesPerSection))

	source := parser.NewStrategySource(registry, cfg.Sites, logging.Component(baseLogger, "source"))

	var recognizer ports.EntityRecognizer
	if cfg.NER.URL != "" {
		recognizer = ner.NewBreakerRecognizer(
			ner.NewClient(cfg.NER.URL, cfg.NER.APIKey),
			cfg.NER.BreakerTrips,
			cfg.NER.BreakerTimeout)
	}

	engine := analysis.NewEngine(cfg.Analysis.Engine(), recognizer, logging.Component(baseLogger, "analysis"))

	repository, err := storage.Open(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.BotToken != "" {
		notifier = telegram.NewNotifier(
			cfg.Notifications.Telegram.BotToken,
			cfg.Notifications.Telegram.ChatID)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:     source,
		Engine:     engine,
		Repository: repository,
		Notifier:   notifier,
		Logger:     logging.Component(baseLogger, "pipeline"),
	})

	app := &Application{
		cfg:        cfg,
		logger:     baseLogger,
		repository: repository,
		scheduler: usecase.NewScheduler(
			scheduler.NewIntervalScheduler(cfg.Scheduler.Interval, cfg.Scheduler.Location()), pipeline),
	}

	if cfg.HTTP.Addr != "" {
		reporter := usecase.NewReporter(repository)
		app.api = httpapi.NewServer(repository, reporter, logging.Component(baseLogger, "httpapi"))
	}

	return app, nil
}

// Run initializes storage, starts the recurring scan batches and the
// optional dashboard API, and blocks until the context is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if a.repository != nil {
		if err := a.repository.Init(ctx); err != nil {
			return fmt.Errorf("init storage: %w", err)
		}
		defer a.repository.Close()
	}

	if a.api != nil {
		go func() {
			if err := a.api.Run(a.cfg.HTTP.Addr); err != nil {
				a.logger.Error("dashboard api stopped", "error", err)
			}
		}()
	}

	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()

	return a.scheduler.Stop(context.Background())
}
