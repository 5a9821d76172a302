package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"ConstructionWatch/internal/domain"
	"ConstructionWatch/internal/ports"
)

var (
	// ErrAlreadyRunning rejects a run for a source that is still running.
	ErrAlreadyRunning = errors.New("scraper already running")
	// ErrUnknownSource signals a source id that was never registered.
	ErrUnknownSource = errors.New("unknown scraper source")
	// ErrSourceDisabled rejects a run for a source switched off in config.
	ErrSourceDisabled = errors.New("scraper source disabled")
)

// Source binds one configured origin to its fetcher and extractor.
type Source struct {
	ID          string
	Name        string
	Enabled     bool
	MaxArticles int
	Delay       time.Duration
	Fetcher     ports.ArticleSource
	Extractor   ports.ArticleExtractor
}

// SourceStatus describes a registered source for operators.
type SourceStatus struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
	Running bool   `json:"running"`
}

type sourceState struct {
	Source
	running atomic.Bool
}

// OrchestratorDeps wires the driven adapters of the orchestrator.
type OrchestratorDeps struct {
	Store       ports.SuggestionStore
	Notifier    ports.RunNotifier
	Logger      *slog.Logger
	HistorySize int
	Clock       func() time.Time
}

// Orchestrator runs sources through extraction and turns novel results into suggestions.
type Orchestrator struct {
	order    []*sourceState
	sources  map[string]*sourceState
	store    ports.SuggestionStore
	notifier ports.RunNotifier
	history  *runHistory
	logger   *slog.Logger
	now      func() time.Time
}

// NewOrchestrator registers sources in the given order. Source ids must be unique.
func NewOrchestrator(sources []Source, deps OrchestratorDeps) (*Orchestrator, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("suggestion store is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	now := deps.Clock
	if now == nil {
		now = time.Now
	}

	o := &Orchestrator{
		sources:  make(map[string]*sourceState, len(sources)),
		store:    deps.Store,
		notifier: deps.Notifier,
		history:  newRunHistory(deps.HistorySize),
		logger:   logger.With("component", "orchestrator"),
		now:      now,
	}
	for _, src := range sources {
		if src.ID == "" {
			return nil, fmt.Errorf("source id is required")
		}
		if _, dup := o.sources[src.ID]; dup {
			return nil, fmt.Errorf("duplicate source %s", src.ID)
		}
		if src.Fetcher == nil || src.Extractor == nil {
			return nil, fmt.Errorf("source %s: fetcher and extractor are required", src.ID)
		}
		st := &sourceState{Source: src}
		o.sources[src.ID] = st
		o.order = append(o.order, st)
	}
	return o, nil
}

// RunOne executes a single source. Only caller errors are returned; fetch and
// extraction failures are recorded in the run.
func (o *Orchestrator) RunOne(ctx context.Context, sourceID string) (domain.ScraperRun, error) {
	st, ok := o.sources[sourceID]
	if !ok {
		return domain.ScraperRun{}, fmt.Errorf("%w: %s", ErrUnknownSource, sourceID)
	}
	if !st.Enabled {
		return domain.ScraperRun{}, fmt.Errorf("%w: %s", ErrSourceDisabled, sourceID)
	}
	if !st.running.CompareAndSwap(false, true) {
		return domain.ScraperRun{}, fmt.Errorf("%w: %s", ErrAlreadyRunning, sourceID)
	}
	defer st.running.Store(false)

	return o.run(ctx, st), nil
}

// RunAll executes every enabled source one after another.
func (o *Orchestrator) RunAll(ctx context.Context) []domain.ScraperRun {
	runs := make([]domain.ScraperRun, 0, len(o.order))
	for _, st := range o.order {
		if !st.Enabled {
			continue
		}
		runs = append(runs, o.runOrFail(ctx, st.ID))
	}
	o.publish(ctx, runs)
	return runs
}

// RunAllParallel executes enabled sources concurrently, at most limit at a
// time (unbounded when limit <= 0). Runs are returned in registration order.
func (o *Orchestrator) RunAllParallel(ctx context.Context, limit int) []domain.ScraperRun {
	var enabled []*sourceState
	for _, st := range o.order {
		if st.Enabled {
			enabled = append(enabled, st)
		}
	}

	runs := make([]domain.ScraperRun, len(enabled))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, st := range enabled {
		i, st := i, st
		g.Go(func() error {
			runs[i] = o.runOrFail(gctx, st.ID)
			return nil
		})
	}
	_ = g.Wait()

	o.publish(ctx, runs)
	return runs
}

// History returns finished runs newest first; an empty source matches all.
func (o *Orchestrator) History(source string, limit int) []domain.ScraperRun {
	return o.history.list(source, limit)
}

// Status reports every registered source in registration order.
func (o *Orchestrator) Status() []SourceStatus {
	out := make([]SourceStatus, 0, len(o.order))
	for _, st := range o.order {
		out = append(out, SourceStatus{
			ID:      st.ID,
			Name:    st.Name,
			Enabled: st.Enabled,
			Running: st.running.Load(),
		})
	}
	return out
}

// IsRunning reports whether sourceID has a run in progress.
func (o *Orchestrator) IsRunning(sourceID string) bool {
	st, ok := o.sources[sourceID]
	return ok && st.running.Load()
}

func (o *Orchestrator) runOrFail(ctx context.Context, sourceID string) domain.ScraperRun {
	run, err := o.RunOne(ctx, sourceID)
	if err == nil {
		return run
	}

	o.logger.Warn("run rejected", "source", sourceID, "error", err)
	now := o.now().UTC()
	return domain.ScraperRun{
		ID:          runID(sourceID, now),
		Source:      sourceID,
		Status:      domain.RunFailed,
		StartedAt:   now,
		CompletedAt: &now,
		Errors:      []string{err.Error()},
	}
}

func (o *Orchestrator) run(ctx context.Context, st *sourceState) domain.ScraperRun {
	started := o.now().UTC()
	run := domain.ScraperRun{
		ID:        runID(st.ID, started),
		Source:    st.ID,
		Status:    domain.RunRunning,
		StartedAt: started,
		Errors:    []string{},
	}
	logger := o.logger.With("source", st.ID, "run", run.ID)
	logger.Info("run started")

	articles, err := st.Fetcher.FetchArticles(ctx)
	if err != nil {
		run.Errors = append(run.Errors, fmt.Sprintf("fetch articles: %v", err))
		logger.Error("fetch articles failed", "error", err)
		return o.finish(logger, run, domain.RunFailed)
	}
	run.ArticlesFound = len(articles)
	if st.MaxArticles > 0 && len(articles) > st.MaxArticles {
		articles = articles[:st.MaxArticles]
	}

	limit := rate.Inf
	if st.Delay > 0 {
		limit = rate.Every(st.Delay)
	}
	limiter := rate.NewLimiter(limit, 1)

	results := make([]domain.ScraperResult, 0, len(articles))
	interrupted := false
	for _, article := range articles {
		if err := limiter.Wait(ctx); err != nil {
			run.Errors = append(run.Errors, fmt.Sprintf("run interrupted: %v", err))
			interrupted = true
			break
		}

		res, err := extractSafely(ctx, st.Extractor, article)
		if err != nil {
			run.Errors = append(run.Errors, fmt.Sprintf("%s: %v", article.SourceURL, err))
			logger.Warn("article failed", "url", article.SourceURL, "error", err)
			continue
		}
		if res == nil {
			logger.Debug("article skipped", "url", article.SourceURL)
			continue
		}
		results = append(results, *res)
	}
	run.ArticlesProcessed = len(results)

	summary := o.ProcessResults(ctx, results)
	run.SuggestionsCreated = summary.Created
	run.DuplicatesSkipped = summary.Duplicates
	run.Errors = append(run.Errors, summary.Errors...)

	if interrupted || ctx.Err() != nil {
		return o.finish(logger, run, domain.RunFailed)
	}
	return o.finish(logger, run, domain.RunCompleted)
}

func (o *Orchestrator) finish(logger *slog.Logger, run domain.ScraperRun, status domain.RunStatus) domain.ScraperRun {
	completed := o.now().UTC()
	run.Status = status
	run.CompletedAt = &completed
	o.history.push(run)

	logger.Info("run finished",
		"status", run.Status,
		"found", run.ArticlesFound,
		"processed", run.ArticlesProcessed,
		"created", run.SuggestionsCreated,
		"duplicates", run.DuplicatesSkipped,
		"errors", len(run.Errors),
	)
	return run
}

func (o *Orchestrator) publish(ctx context.Context, runs []domain.ScraperRun) {
	if o.notifier == nil || len(runs) == 0 {
		return
	}
	if err := o.notifier.PublishRuns(ctx, runs); err != nil {
		o.logger.Warn("publish runs failed", "error", err)
	}
}

// extractSafely converts a panicking extractor into an article error.
func extractSafely(ctx context.Context, ex ports.ArticleExtractor, article domain.RawArticle) (res *domain.ScraperResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("extract panicked: %v", r)
		}
	}()
	return ex.Extract(ctx, article)
}

func runID(source string, t time.Time) string {
	return fmt.Sprintf("%s-%d", source, t.UnixMilli())
}
