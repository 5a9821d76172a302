package usecase

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ConstructionWatch/internal/domain"
)

func TestRunHistoryEvictsOldest(t *testing.T) {
	t.Parallel()

	h := newRunHistory(3)
	for i := 0; i < 5; i++ {
		source := "a"
		if i%2 == 1 {
			source = "b"
		}
		h.push(domain.ScraperRun{ID: fmt.Sprint(i), Source: source})
	}

	ids := func(runs []domain.ScraperRun) []string {
		out := make([]string, 0, len(runs))
		for _, r := range runs {
			out = append(out, r.ID)
		}
		return out
	}

	assert.Equal(t, []string{"4", "3", "2"}, ids(h.list("", 0)))
	assert.Equal(t, []string{"4", "3"}, ids(h.list("", 2)))
	assert.Equal(t, []string{"4", "2"}, ids(h.list("a", 10)))
	assert.Equal(t, []string{"3"}, ids(h.list("b", 10)))
	assert.Empty(t, h.list("c", 10))
}

func TestRunHistoryDefaultCapacity(t *testing.T) {
	t.Parallel()

	h := newRunHistory(0)
	for i := 0; i < DefaultHistorySize+5; i++ {
		h.push(domain.ScraperRun{ID: fmt.Sprint(i)})
	}
	runs := h.list("", 0)
	assert.Len(t, runs, DefaultHistorySize)
	assert.Equal(t, fmt.Sprint(DefaultHistorySize+4), runs[0].ID)
}

func TestRunHistoryCopiesEntries(t *testing.T) {
	t.Parallel()

	completed := time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)
	run := domain.ScraperRun{ID: "r1", Source: "a", CompletedAt: &completed, Errors: []string{"timeout"}}

	h := newRunHistory(2)
	h.push(run)
	run.Errors[0] = "changed"
	*run.CompletedAt = completed.Add(time.Hour)

	got := h.list("", 0)
	got[0].Errors[0] = "mutated"
	*got[0].CompletedAt = completed.Add(2 * time.Hour)

	again := h.list("", 0)
	assert.Equal(t, []string{"timeout"}, again[0].Errors)
	assert.Equal(t, time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC), *again[0].CompletedAt)
}
