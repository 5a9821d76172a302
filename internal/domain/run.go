package domain

import "time"

// RunStatus enumerates scraper run outcomes.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// ScraperRun records one execution of a single source.
type ScraperRun struct {
	ID                 string     `json:"id"`
	Source             string     `json:"source"`
	Status             RunStatus  `json:"status"`
	StartedAt          time.Time  `json:"startedAt"`
	CompletedAt        *time.Time `json:"completedAt,omitempty"`
	ArticlesFound      int        `json:"articlesFound"`
	ArticlesProcessed  int        `json:"articlesProcessed"`
	SuggestionsCreated int        `json:"suggestionsCreated"`
	DuplicatesSkipped  int        `json:"duplicatesSkipped"`
	Errors             []string   `json:"errors"`
}

// ProcessSummary is the outcome of materializing a batch of results.
type ProcessSummary struct {
	Created    int      `json:"created"`
	Duplicates int      `json:"duplicates"`
	Errors     []string `json:"errors"`
}
