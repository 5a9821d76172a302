// Package geocode resolves place names to coordinates inside a bounding box.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"ConstructionWatch/internal/domain"
	"ConstructionWatch/internal/ports"
)

// BoundingBox limits accepted results.
type BoundingBox struct {
	MinLon float64 `yaml:"minLon"`
	MinLat float64 `yaml:"minLat"`
	MaxLon float64 `yaml:"maxLon"`
	MaxLat float64 `yaml:"maxLat"`
}

// Contains reports whether c lies inside the box. A zero box contains everything.
func (b BoundingBox) Contains(c domain.Coordinates) bool {
	if b == (BoundingBox{}) {
		return true
	}
	return c.Longitude >= b.MinLon && c.Longitude <= b.MaxLon &&
		c.Latitude >= b.MinLat && c.Latitude <= b.MaxLat
}

// NominatimConfig configures an OpenStreetMap Nominatim search client.
type NominatimConfig struct {
	Endpoint          string
	UserAgent         string
	CountryCode       string
	Box               BoundingBox
	Timeout           time.Duration
	RequestsPerSecond float64
}

// NominatimResolver queries the Nominatim search API.
type NominatimResolver struct {
	cfg     NominatimConfig
	client  *http.Client
	limiter *rate.Limiter
}

var _ ports.GeocodeResolver = (*NominatimResolver)(nil)

// NewNominatimResolver builds a client; a nil http.Client gets the configured timeout.
func NewNominatimResolver(cfg NominatimConfig, client *http.Client) *NominatimResolver {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "ConstructionWatch/1.0"
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	return &NominatimResolver{cfg: cfg, client: client, limiter: rate.NewLimiter(limit, 1)}
}

type nominatimPlace struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Resolve returns the first result inside the bounding box, or nil.
func (n *NominatimResolver) Resolve(ctx context.Context, query, regionHint string) (*domain.Coordinates, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if err := n.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wait for geocoder slot: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, n.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.searchURL(query, regionHint), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", n.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoder returned %s", resp.Status)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&places); err != nil {
		return nil, fmt.Errorf("decode geocode response: %w", err)
	}

	for _, p := range places {
		lat, errLat := strconv.ParseFloat(p.Lat, 64)
		lon, errLon := strconv.ParseFloat(p.Lon, 64)
		if errLat != nil || errLon != nil {
			continue
		}
		c := domain.Coordinates{Longitude: lon, Latitude: lat}
		if n.cfg.Box.Contains(c) {
			return &c, nil
		}
	}
	return nil, nil
}

func (n *NominatimResolver) searchURL(query, regionHint string) string {
	q := query
	if hint := strings.TrimSpace(regionHint); hint != "" {
		q = q + ", " + hint
	}
	params := url.Values{}
	params.Set("q", q)
	params.Set("format", "json")
	params.Set("limit", "5")
	if n.cfg.CountryCode != "" {
		params.Set("countrycodes", n.cfg.CountryCode)
	}
	if b := n.cfg.Box; b != (BoundingBox{}) {
		params.Set("viewbox", fmt.Sprintf("%g,%g,%g,%g", b.MinLon, b.MaxLat, b.MaxLon, b.MinLat))
		params.Set("bounded", "1")
	}
	return strings.TrimSuffix(n.cfg.Endpoint, "/") + "/search?" + params.Encode()
}
