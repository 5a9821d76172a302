package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/time/rate"

	"ConstructionWatch/internal/config"
	"ConstructionWatch/internal/domain"
	"ConstructionWatch/internal/ports"
)

const (
	userAgent       = "ConstructionWatch/1.0"
	maxPageBytes    = 5 << 20
	publishedMetaQS = `meta[property="article:published_time"], meta[itemprop="datePublished"], meta[name="pubdate"]`
)

// ListingSource crawls a news listing page and follows each article link.
type ListingSource struct {
	cfg     config.SourceConfig
	base    *url.URL
	client  *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
	now     func() time.Time
}

var _ ports.ArticleSource = (*ListingSource)(nil)

// NewListingSource validates the source config; a nil client gets a 20s timeout.
func NewListingSource(cfg config.SourceConfig, client *http.Client, logger *slog.Logger) (*ListingSource, error) {
	base, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", cfg.BaseURL)
	}
	if strings.TrimSpace(cfg.Selectors.Item) == "" {
		return nil, fmt.Errorf("item selector is required")
	}
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	limit := rate.Inf
	if d := cfg.Delay(); d > 0 {
		limit = rate.Every(d)
	}

	return &ListingSource{
		cfg:     cfg,
		base:    base,
		client:  client,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger.With("component", "listing_source", "source", cfg.ID),
		now:     time.Now,
	}, nil
}

// NewHTMLFactory adapts NewListingSource to the scanner registry.
func NewHTMLFactory() func(config.SourceConfig, *http.Client, *slog.Logger) (ports.ArticleSource, error) {
	return func(cfg config.SourceConfig, client *http.Client, logger *slog.Logger) (ports.ArticleSource, error) {
		return NewListingSource(cfg, client, logger)
	}
}

type listingEntry struct {
	URL         string
	Title       string
	Description string
}

// FetchArticles loads the listing page and the detail page of every entry.
func (s *ListingSource) FetchArticles(ctx context.Context) ([]domain.RawArticle, error) {
	doc, err := s.fetchDocument(ctx, s.base.String())
	if err != nil {
		return nil, fmt.Errorf("fetch listing: %w", err)
	}

	entries := s.extractEntries(doc)
	s.logger.Debug("listing parsed", "entries", len(entries))
	if len(entries) == 0 {
		return nil, nil
	}

	articles := make([]domain.RawArticle, 0, len(entries))
	var lastErr error
	for _, entry := range entries {
		article, err := s.fetchDetail(ctx, entry)
		if err != nil {
			if ctx.Err() != nil {
				return articles, ctx.Err()
			}
			lastErr = err
			s.logger.Warn("skip article", "url", entry.URL, "error", err)
			continue
		}
		articles = append(articles, article)
	}

	if len(articles) == 0 && lastErr != nil {
		return nil, fmt.Errorf("all %d detail pages failed: %w", len(entries), lastErr)
	}
	return articles, nil
}

func (s *ListingSource) extractEntries(doc *goquery.Document) []listingEntry {
	sel := s.cfg.Selectors
	seen := map[string]struct{}{}
	var entries []listingEntry

	doc.Find(sel.Item).EachWithBreak(func(_ int, item *goquery.Selection) bool {
		if s.cfg.MaxArticles > 0 && len(entries) >= s.cfg.MaxArticles {
			return false
		}

		link := item
		if sel.Link != "" {
			link = item.Find(sel.Link).First()
		} else if !item.Is("a") {
			link = item.Find("a[href]").First()
		}
		href, ok := link.Attr("href")
		if !ok {
			return true
		}
		abs, err := s.resolve(href)
		if err != nil {
			return true
		}
		if _, dup := seen[abs]; dup {
			return true
		}
		seen[abs] = struct{}{}

		title := cleanText(link.Text())
		if sel.Title != "" {
			if t := cleanText(item.Find(sel.Title).First().Text()); t != "" {
				title = t
			}
		}
		var desc string
		if sel.Description != "" {
			desc = cleanText(item.Find(sel.Description).First().Text())
		}

		entries = append(entries, listingEntry{URL: abs, Title: title, Description: desc})
		return true
	})

	return entries
}

func (s *ListingSource) fetchDetail(ctx context.Context, entry listingEntry) (domain.RawArticle, error) {
	body, err := s.fetch(ctx, entry.URL)
	if err != nil {
		return domain.RawArticle{}, err
	}
	pageURL, _ := url.Parse(entry.URL)

	article := domain.RawArticle{
		Source:      s.cfg.ID,
		SourceURL:   entry.URL,
		Title:       entry.Title,
		Description: entry.Description,
		ScrapedAt:   s.now().UTC(),
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return domain.RawArticle{}, fmt.Errorf("parse document: %w", err)
	}
	article.PublishedAt = publishedAt(doc)

	parsed, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		s.logger.Debug("readability failed, using page text", "url", entry.URL, "error", err)
		article.Content = cleanText(doc.Find("article, main, body").First().Text())
	} else {
		article.Content = htmlText(parsed.Content)
		if article.Title == "" {
			article.Title = cleanText(parsed.Title)
		}
		if article.Description == "" {
			article.Description = cleanText(parsed.Excerpt)
		}
	}

	return article, nil
}

func (s *ListingSource) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	body, err := s.fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}

func (s *ListingSource) fetch(ctx context.Context, pageURL string) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned %s", pageURL, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

func (s *ListingSource) resolve(href string) (string, error) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return "", fmt.Errorf("not a link: %q", href)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	abs := s.base.ResolveReference(ref)
	abs.Fragment = ""
	return abs.String(), nil
}

func publishedAt(doc *goquery.Document) *time.Time {
	raw, ok := doc.Find(publishedMetaQS).First().Attr("content")
	if !ok {
		return nil
	}
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

func htmlText(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return cleanText(fragment)
	}
	var parts []string
	doc.Find("p, li, h1, h2, h3, h4, blockquote, td").Each(func(_ int, sel *goquery.Selection) {
		if sel.Find("p, li").Length() > 0 {
			return
		}
		if text := cleanText(sel.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	if len(parts) == 0 {
		return cleanText(doc.Text())
	}
	return strings.Join(parts, "\n")
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
