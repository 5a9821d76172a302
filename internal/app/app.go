package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"ConstructionWatch/internal/config"
	"ConstructionWatch/internal/extraction"
	"ConstructionWatch/internal/geocode"
	"ConstructionWatch/internal/hashing"
	"ConstructionWatch/internal/infrastructure/parser"
	"ConstructionWatch/internal/infrastructure/scheduler"
	"ConstructionWatch/internal/infrastructure/storage"
	"ConstructionWatch/internal/infrastructure/telegram"
	"ConstructionWatch/internal/logging"
	"ConstructionWatch/internal/ports"
	"ConstructionWatch/internal/scanner"
	"ConstructionWatch/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg          config.Config
	logger       *slog.Logger
	db           *sql.DB
	Store        ports.SuggestionStore
	Orchestrator *usecase.Orchestrator
	Moderation   *usecase.Moderation
	scheduler    *usecase.Scheduler
}

// New builds the application. A configured DSN selects Postgres, otherwise
// suggestions live in memory for the process lifetime.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}
	a := &Application{cfg: cfg, logger: baseLogger}

	store, err := a.buildStore(ctx)
	if err != nil {
		return nil, err
	}
	a.Store = store

	extractor := extraction.New(BuildLexicon(cfg.Extraction), hashing.NewHasher(),
		extraction.WithGeocoder(buildGeocoder(cfg.Geocoder)),
		extraction.WithLogger(baseLogger.With("component", "extractor")),
		extraction.WithRawTextLimit(cfg.Extraction.RawTextLimit),
	)

	registry := scanner.NewRegistry()
	registry.Register("html", parser.NewHTMLFactory())
	registry.Register("file", parser.NewFileFactory())

	client := &http.Client{Timeout: 20 * time.Second}
	sources := make([]usecase.Source, 0, len(cfg.Sources))
	for _, sc := range cfg.Sources {
		fetcher, err := registry.Build(sc, client, baseLogger.With("component", "source"))
		if err != nil {
			a.Close()
			return nil, err
		}
		sources = append(sources, usecase.Source{
			ID:          sc.ID,
			Name:        sc.Name,
			Enabled:     sc.Enabled,
			MaxArticles: sc.MaxArticles,
			Delay:       sc.Delay(),
			Fetcher:     fetcher,
			Extractor:   extractor.WithKeywords(sc.Keywords),
		})
	}

	var notifier ports.RunNotifier
	if tg := cfg.Notifications.Telegram; tg.BotToken != "" && tg.ChatID != "" {
		notifier = telegram.NewNotifier(tg.BotToken, tg.ChatID)
	}

	orchestrator, err := usecase.NewOrchestrator(sources, usecase.OrchestratorDeps{
		Store:       store,
		Notifier:    notifier,
		Logger:      baseLogger,
		HistorySize: cfg.HistorySize,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("build orchestrator: %w", err)
	}
	a.Orchestrator = orchestrator
	a.Moderation = usecase.NewModeration(store, baseLogger)
	return a, nil
}

func (a *Application) buildStore(ctx context.Context) (ports.SuggestionStore, error) {
	if a.cfg.Database.DSN == "" {
		a.logger.Warn("no database configured, suggestions are kept in memory")
		return storage.NewMemoryStore(), nil
	}

	db, err := storage.OpenPostgres(ctx, a.cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	pg := storage.NewPostgresStore(db)
	if err := pg.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	a.db = db
	return pg, nil
}

func buildGeocoder(cfg config.GeocoderConfig) ports.GeocodeResolver {
	if cfg.Endpoint == "" {
		return nil
	}
	nominatim := geocode.NewNominatimResolver(geocode.NominatimConfig{
		Endpoint:          cfg.Endpoint,
		UserAgent:         cfg.UserAgent,
		CountryCode:       cfg.CountryCode,
		Timeout:           cfg.Timeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Box: geocode.BoundingBox{
			MinLon: cfg.BBox.MinLon,
			MinLat: cfg.BBox.MinLat,
			MaxLon: cfg.BBox.MaxLon,
			MaxLat: cfg.BBox.MaxLat,
		},
	}, nil)
	return geocode.NewCachingResolver(nominatim)
}

// BuildLexicon applies configured overrides to the default lexicon.
func BuildLexicon(cfg config.ExtractionConfig) extraction.Lexicon {
	lex := extraction.DefaultLexicon()
	if cfg.RegionName != "" {
		lex.RegionName = cfg.RegionName
	}
	if len(cfg.RegionAliases) > 0 {
		lex.RegionAliases = cfg.RegionAliases
	}
	if len(cfg.Districts) > 0 {
		lex.Districts = cfg.Districts
	}
	if len(cfg.Keywords) > 0 {
		lex.Keywords = cfg.Keywords
	}
	return lex
}

// Serve runs all sources on the configured interval until ctx is done.
func (a *Application) Serve(ctx context.Context, parallel int) error {
	a.scheduler = usecase.NewScheduler(scheduler.NewIntervalScheduler(a.cfg.Scheduler.Interval), a.Orchestrator, parallel)
	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.logger.Info("scheduler started", "interval", a.cfg.Scheduler.Interval, "sources", len(a.cfg.Sources))

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := a.scheduler.Stop(stopCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("stop scheduler: %w", err)
	}
	return nil
}

// Close releases the database connection if one was opened.
func (a *Application) Close() {
	if a.db != nil {
		_ = a.db.Close()
		a.db = nil
	}
}
