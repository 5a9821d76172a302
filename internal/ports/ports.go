package ports

import (
	"context"
	"errors"
	"time"

	"ConstructionWatch/internal/domain"
)

var (
	// ErrNotFound is returned by stores when a suggestion does not exist.
	ErrNotFound = errors.New("suggestion not found")
	// ErrStatusConflict is returned when a suggestion's status changed underneath an update.
	ErrStatusConflict = errors.New("suggestion status changed concurrently")
)

// ArticleSource supplies raw articles for one logical source.
type ArticleSource interface {
	FetchArticles(ctx context.Context) ([]domain.RawArticle, error)
}

// ArticleExtractor turns a raw article into a hashed result. A nil result
// means the article was dropped (irrelevant or untitled).
type ArticleExtractor interface {
	Extract(ctx context.Context, article domain.RawArticle) (*domain.ScraperResult, error)
}

// SuggestionStore persists moderation items and answers dedup queries.
type SuggestionStore interface {
	FindExistingHashes(ctx context.Context, hashes []string) (map[string]struct{}, error)
	CreateSuggestion(ctx context.Context, s domain.NewSuggestion) (domain.Suggestion, error)
	GetSuggestion(ctx context.Context, id string) (domain.Suggestion, error)
	// UpdateSuggestionStatus moves a suggestion from one status to another,
	// failing with ErrStatusConflict when the current status is not from.
	UpdateSuggestionStatus(ctx context.Context, id string, from, to domain.SuggestionStatus) error
}

// GeocodeResolver turns a place name into coordinates. A place that cannot be
// found yields (nil, nil).
type GeocodeResolver interface {
	Resolve(ctx context.Context, query, regionHint string) (*domain.Coordinates, error)
}

// RunNotifier publishes run summaries to operators.
type RunNotifier interface {
	PublishRuns(ctx context.Context, runs []domain.ScraperRun) error
}

// Scheduler controls when scraping runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
