// Package extraction turns raw article text into typed construction facts.
package extraction

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"ConstructionWatch/internal/domain"
	"ConstructionWatch/internal/hashing"
	"ConstructionWatch/internal/ports"
)

// DefaultRawTextLimit caps the stored article body, in characters.
const DefaultRawTextLimit = 50000

type compiledLexicon struct {
	keywords      []string
	regionName    string
	regionAliases []string
	districts     []string
	districtNames []string
	startCues     []string
	endCues       []string
	announcedCues []string
	cueWindow     int
	types         []TypeRule
	statuses      []StatusRule
	datePatterns  []DatePattern
}

func compile(lex Lexicon) *compiledLexicon {
	c := &compiledLexicon{
		keywords:      normalizeTerms(lex.Keywords),
		regionName:    strings.TrimSpace(lex.RegionName),
		regionAliases: normalizeTerms(append(append([]string{}, lex.RegionAliases...), lex.RegionName)),
		startCues:     normalizeTerms(lex.StartCues),
		endCues:       normalizeTerms(lex.EndCues),
		announcedCues: normalizeTerms(lex.AnnouncedCues),
		cueWindow:     lex.CueWindow,
		datePatterns:  lex.DatePatterns,
	}
	if c.cueWindow <= 0 {
		c.cueWindow = 50
	}
	if len(c.datePatterns) == 0 {
		c.datePatterns = VietnameseDatePatterns()
	}
	for _, d := range lex.Districts {
		n := hashing.NormalizeText(d)
		if n == "" {
			continue
		}
		c.districts = append(c.districts, n)
		c.districtNames = append(c.districtNames, strings.TrimSpace(d))
	}
	for _, r := range lex.ConstructionTypes {
		c.types = append(c.types, TypeRule{Type: r.Type, Keywords: normalizeTerms(r.Keywords)})
	}
	for _, r := range lex.Statuses {
		c.statuses = append(c.statuses, StatusRule{Status: r.Status, Keywords: normalizeTerms(r.Keywords)})
	}
	return c
}

// Extractor filters articles for relevance and extracts structured facts.
// It is safe for concurrent use when its geocoder is.
type Extractor struct {
	lex          *compiledLexicon
	hasher       *hashing.Hasher
	geocoder     ports.GeocodeResolver
	logger       *slog.Logger
	rawTextLimit int
	now          func() time.Time
}

var _ ports.ArticleExtractor = (*Extractor)(nil)

// Option customizes an Extractor.
type Option func(*Extractor)

// WithGeocoder enables coordinate lookup for extracted locations.
func WithGeocoder(g ports.GeocodeResolver) Option {
	return func(e *Extractor) { e.geocoder = g }
}

// WithLogger sets the logger used for degraded lookups.
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithRawTextLimit overrides DefaultRawTextLimit.
func WithRawTextLimit(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.rawTextLimit = n
		}
	}
}

// WithClock overrides the time source used when an article has no scrape time.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) {
		if now != nil {
			e.now = now
		}
	}
}

// New compiles the lexicon into an extractor.
func New(lex Lexicon, hasher *hashing.Hasher, opts ...Option) *Extractor {
	if hasher == nil {
		hasher = hashing.NewHasher()
	}
	e := &Extractor{
		lex:          compile(lex),
		hasher:       hasher,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		rawTextLimit: DefaultRawTextLimit,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithKeywords returns a copy of the extractor that filters on keywords
// instead of the lexicon defaults. An empty list keeps the defaults.
func (e *Extractor) WithKeywords(keywords []string) *Extractor {
	normalized := normalizeTerms(keywords)
	if len(normalized) == 0 {
		return e
	}
	lex := *e.lex
	lex.keywords = normalized
	clone := *e
	clone.lex = &lex
	return &clone
}

// Relevant reports the matched keywords and whether the text passes the
// filter: at least one keyword and a mention of the region or a district.
func (e *Extractor) Relevant(lower string) ([]string, bool) {
	var matched []string
	for _, kw := range e.lex.keywords {
		if containsTerm(lower, kw) {
			matched = append(matched, kw)
		}
	}
	if len(matched) == 0 {
		return nil, false
	}
	if !containsAny(lower, e.lex.regionAliases) && !containsAny(lower, e.lex.districts) {
		return matched, false
	}
	return matched, true
}

// Extract returns nil when the article is untitled or irrelevant. The only
// error is cancellation of ctx.
func (e *Extractor) Extract(ctx context.Context, article domain.RawArticle) (*domain.ScraperResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(article.Title)
	if title == "" {
		return nil, nil
	}
	description := strings.TrimSpace(article.Description)

	display := collapse(title + "\n" + description + "\n" + article.Content)
	lower := strings.ToLower(display)

	keywords, ok := e.Relevant(lower)
	if !ok {
		return nil, nil
	}

	extracted := domain.ExtractionResult{
		Dates:            e.extractDates(lower),
		Locations:        e.extractLocations(ctx, display, lower),
		ConstructionType: e.classifyType(lower),
		Status:           e.classifyStatus(lower),
		Keywords:         keywords,
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scrapedAt := article.ScrapedAt
	if scrapedAt.IsZero() {
		scrapedAt = e.now()
	}

	return &domain.ScraperResult{
		Source:        article.Source,
		SourceURL:     article.SourceURL,
		ContentHash:   e.hasher.Hash(article.SourceURL, title),
		Title:         title,
		Description:   description,
		RawText:       truncateRunes(article.Content, e.rawTextLimit),
		ExtractedData: extracted,
		Confidence:    Score(SignalsFor(title, description, extracted)),
		ScrapedAt:     scrapedAt,
	}, nil
}

// collapse applies NFC and squeezes whitespace without changing case.
func collapse(s string) string {
	return strings.Join(strings.Fields(normNFC(s)), " ")
}
