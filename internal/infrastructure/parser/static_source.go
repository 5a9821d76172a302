package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"

	"ConstructionWatch/internal/config"
	"ConstructionWatch/internal/domain"
	"ConstructionWatch/internal/ports"
)

// StaticSource serves a fixed set of articles.
type StaticSource struct {
	id       string
	articles []domain.RawArticle
}

var _ ports.ArticleSource = (*StaticSource)(nil)

// NewStaticSource stamps every article with the source id.
func NewStaticSource(id string, articles []domain.RawArticle) *StaticSource {
	copied := make([]domain.RawArticle, len(articles))
	for i, a := range articles {
		a.Source = id
		copied[i] = a
	}
	return &StaticSource{id: id, articles: copied}
}

// LoadStaticSource reads a JSON array of articles from path.
func LoadStaticSource(id, path string) (*StaticSource, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read articles: %w", err)
	}
	var articles []domain.RawArticle
	if err := json.Unmarshal(raw, &articles); err != nil {
		return nil, fmt.Errorf("decode articles %s: %w", path, err)
	}
	return NewStaticSource(id, articles), nil
}

// NewFileFactory builds static sources from "file://" base URLs (or bare paths).
func NewFileFactory() func(config.SourceConfig, *http.Client, *slog.Logger) (ports.ArticleSource, error) {
	return func(cfg config.SourceConfig, _ *http.Client, _ *slog.Logger) (ports.ArticleSource, error) {
		path := cfg.BaseURL
		if strings.HasPrefix(path, "file://") {
			u, err := url.Parse(path)
			if err != nil {
				return nil, err
			}
			path = u.Path
		}
		return LoadStaticSource(cfg.ID, path)
	}
}

// FetchArticles returns a copy of the configured articles.
func (s *StaticSource) FetchArticles(ctx context.Context) ([]domain.RawArticle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]domain.RawArticle, len(s.articles))
	copy(out, s.articles)
	return out, nil
}
