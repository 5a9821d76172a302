// Package hashing derives stable content digests used for deduplication.
package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DefaultTrackingParams are query parameters that never identify content.
var DefaultTrackingParams = []string{
	"utm_source",
	"utm_medium",
	"utm_campaign",
	"utm_content",
	"ref",
	"fbclid",
	"gclid",
}

// Hasher normalizes URLs and text before digesting them with SHA-256.
// It holds no mutable state and is safe for concurrent use.
type Hasher struct {
	tracking map[string]struct{}
}

// NewHasher builds a hasher that strips the default tracking parameters plus
// any extra ones given.
func NewHasher(extraTracking ...string) *Hasher {
	tracking := make(map[string]struct{}, len(DefaultTrackingParams)+len(extraTracking))
	for _, p := range DefaultTrackingParams {
		tracking[p] = struct{}{}
	}
	for _, p := range extraTracking {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			tracking[p] = struct{}{}
		}
	}
	return &Hasher{tracking: tracking}
}

// Hash digests a (url, title) pair.
func (h *Hasher) Hash(rawURL, title string) string {
	return digest(h.NormalizeURL(rawURL) + "|" + NormalizeText(title))
}

// HashBody digests free text on its own.
func (h *Hasher) HashBody(text string) string {
	return digest(NormalizeText(text))
}

// NormalizeURL lowercases the host and drops tracking parameters. Anything
// that does not parse as an absolute URL is lowercased and trimmed instead.
func (h *Hasher) NormalizeURL(rawURL string) string {
	trimmed := strings.TrimSpace(rawURL)
	u, err := url.Parse(trimmed)
	if err != nil || u.Host == "" {
		return strings.ToLower(trimmed)
	}

	u.Host = strings.ToLower(u.Host)
	if u.RawQuery != "" {
		u.RawQuery = h.stripTracking(u.RawQuery)
	}
	u.ForceQuery = false
	return u.String()
}

// stripTracking drops tracking pairs and sorts the rest. A query with
// malformed escapes keeps every other pair verbatim.
func (h *Hasher) stripTracking(rawQuery string) string {
	if query, err := url.ParseQuery(rawQuery); err == nil {
		for key := range query {
			if h.isTracking(key) {
				query.Del(key)
			}
		}
		return query.Encode()
	}

	kept := make([]string, 0, strings.Count(rawQuery, "&")+1)
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		key, _, _ := strings.Cut(pair, "=")
		if unescaped, err := url.QueryUnescape(key); err == nil && h.isTracking(unescaped) {
			continue
		}
		kept = append(kept, pair)
	}
	sort.Strings(kept)
	return strings.Join(kept, "&")
}

func (h *Hasher) isTracking(key string) bool {
	_, ok := h.tracking[strings.ToLower(key)]
	return ok
}

// NormalizeText lowercases, applies NFC and collapses whitespace.
func NormalizeText(s string) string {
	s = norm.NFC.String(strings.ToLower(s))
	return strings.Join(strings.Fields(s), " ")
}

func digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
