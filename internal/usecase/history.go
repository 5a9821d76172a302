package usecase

import (
	"slices"
	"sync"

	"ConstructionWatch/internal/domain"
)

// DefaultHistorySize bounds the run history when none is configured.
const DefaultHistorySize = 100

// runHistory is a fixed-capacity ring buffer of finished runs.
type runHistory struct {
	mu   sync.Mutex
	buf  []domain.ScraperRun
	head int
	size int
}

func newRunHistory(capacity int) *runHistory {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}
	return &runHistory{buf: make([]domain.ScraperRun, capacity)}
}

// push appends run, evicting the oldest entry when full.
func (h *runHistory) push(run domain.ScraperRun) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.buf[h.head] = cloneRun(run)
	h.head = (h.head + 1) % len(h.buf)
	if h.size < len(h.buf) {
		h.size++
	}
}

// list returns up to limit runs newest first, filtered by source when set.
// A non-positive limit returns every match.
func (h *runHistory) list(source string, limit int) []domain.ScraperRun {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]domain.ScraperRun, 0, h.size)
	for i := 1; i <= h.size; i++ {
		run := h.buf[(h.head-i+len(h.buf))%len(h.buf)]
		if source != "" && run.Source != source {
			continue
		}
		out = append(out, cloneRun(run))
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// cloneRun detaches the Errors slice and CompletedAt pointer from the caller.
func cloneRun(run domain.ScraperRun) domain.ScraperRun {
	run.Errors = slices.Clone(run.Errors)
	if run.CompletedAt != nil {
		completed := *run.CompletedAt
		run.CompletedAt = &completed
	}
	return run
}
