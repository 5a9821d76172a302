package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"ConstructionWatch/internal/domain"
)

type fakeSource struct {
	articles []domain.RawArticle
	err      error
	started  chan struct{}
	release  chan struct{}
}

func (f *fakeSource) FetchArticles(ctx context.Context) ([]domain.RawArticle, error) {
	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.articles, nil
}

// titleExtractor treats titles as commands: "skip" drops the article,
// "fail" errors, "panic" panics, anything else yields a result hashed by URL.
type titleExtractor struct{}

func (titleExtractor) Extract(_ context.Context, a domain.RawArticle) (*domain.ScraperResult, error) {
	switch {
	case strings.HasPrefix(a.Title, "skip"):
		return nil, nil
	case strings.HasPrefix(a.Title, "fail"):
		return nil, errors.New("extract failed")
	case strings.HasPrefix(a.Title, "panic"):
		panic("boom")
	}
	return &domain.ScraperResult{
		Source:      a.Source,
		SourceURL:   a.SourceURL,
		ContentHash: "hash:" + a.SourceURL,
		Title:       a.Title,
		Confidence:  0.5,
	}, nil
}

type fakeStore struct {
	mu       sync.Mutex
	existing map[string]struct{}
	failOn   map[string]bool
	findErr  error
	created  []domain.NewSuggestion
}

func newFakeStore(existing ...string) *fakeStore {
	s := &fakeStore{existing: map[string]struct{}{}, failOn: map[string]bool{}}
	for _, h := range existing {
		s.existing[h] = struct{}{}
	}
	return s
}

func (s *fakeStore) FindExistingHashes(_ context.Context, hashes []string) (map[string]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	out := map[string]struct{}{}
	for _, h := range hashes {
		if _, ok := s.existing[h]; ok {
			out[h] = struct{}{}
		}
	}
	return out, nil
}

func (s *fakeStore) CreateSuggestion(_ context.Context, n domain.NewSuggestion) (domain.Suggestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn[n.ContentHash] {
		return domain.Suggestion{}, errors.New("insert failed")
	}
	s.created = append(s.created, n)
	s.existing[n.ContentHash] = struct{}{}
	return domain.Suggestion{ID: fmt.Sprintf("s-%d", len(s.created)), Status: n.Status, ContentHash: n.ContentHash}, nil
}

func (s *fakeStore) GetSuggestion(context.Context, string) (domain.Suggestion, error) {
	return domain.Suggestion{}, errors.New("not implemented")
}

func (s *fakeStore) UpdateSuggestionStatus(context.Context, string, domain.SuggestionStatus, domain.SuggestionStatus) error {
	return errors.New("not implemented")
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls [][]domain.ScraperRun
}

func (n *recordingNotifier) PublishRuns(_ context.Context, runs []domain.ScraperRun) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, runs)
	return nil
}

func articles(source string, titles ...string) []domain.RawArticle {
	out := make([]domain.RawArticle, 0, len(titles))
	for i, title := range titles {
		out = append(out, domain.RawArticle{
			Source:    source,
			SourceURL: fmt.Sprintf("https://%s.example/%d", source, i),
			Title:     title,
		})
	}
	return out
}

func result(hash string) domain.ScraperResult {
	return domain.ScraperResult{Source: "s", SourceURL: "https://s.example/" + hash, ContentHash: hash, Title: hash}
}
