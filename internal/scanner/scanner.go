package scanner

import (
	"fmt"
	"log/slog"
	"net/http"
	"sort"

	"ConstructionWatch/internal/config"
	"ConstructionWatch/internal/ports"
)

// Factory builds an article source for one configured source.
type Factory func(cfg config.SourceConfig, client *http.Client, logger *slog.Logger) (ports.ArticleSource, error)

// Registry keeps a mapping from scanner kinds to source factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// Register adds or replaces a factory for the given kind.
func (r *Registry) Register(kind string, factory Factory) {
	if r.factories == nil {
		r.factories = map[string]Factory{}
	}
	r.factories[kind] = factory
}

// Kinds lists registered scanner kinds in sorted order.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.factories))
	for k := range r.factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Build resolves the factory for cfg.Scanner and constructs the source.
func (r *Registry) Build(cfg config.SourceConfig, client *http.Client, logger *slog.Logger) (ports.ArticleSource, error) {
	factory, ok := r.factories[cfg.Scanner]
	if !ok {
		return nil, fmt.Errorf("scanner %s is not registered", cfg.Scanner)
	}
	src, err := factory(cfg, client, logger)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", cfg.ID, err)
	}
	return src, nil
}
