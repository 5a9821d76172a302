package extraction

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"ConstructionWatch/internal/domain"
)

const (
	districtConfidence         = 0.7
	districtGeocodedConfidence = 0.8
	streetConfidence           = 0.5
	streetGeocodedConfidence   = 0.7

	maxStreetCandidates = 10
)

// streetExpr captures up to six capitalized words after a street marker.
// Run against the original-case text.
var streetExpr = regexp.MustCompile(`(?:[Đđ]ường|[Đđ]ại lộ)\s{1,3}([\p{Lu}\d][\p{L}\d]{0,20}(?:\s[\p{Lu}\d][\p{L}\d]{0,20}){0,5})`)

// streetStopWords end a street name when an administrative unit follows it.
var streetStopWords = map[string]struct{}{
	"quận": {}, "phường": {}, "huyện": {}, "xã": {}, "thành": {}, "tp": {}, "tp.hcm": {},
}

func (e *Extractor) extractLocations(ctx context.Context, display, lower string) []domain.ExtractedLocation {
	var locations []domain.ExtractedLocation

	for i, district := range e.lex.districts {
		if !containsTerm(lower, district) {
			continue
		}
		name := e.lex.districtNames[i]
		loc := domain.ExtractedLocation{
			Text:       name,
			District:   name,
			Confidence: districtConfidence,
		}
		if coords := e.geocode(ctx, name); coords != nil {
			loc.Coordinates = coords
			loc.Confidence = districtGeocodedConfidence
		}
		locations = append(locations, loc)
	}

	for _, street := range streetCandidates(display) {
		loc := domain.ExtractedLocation{
			Text:       "đường " + street,
			Confidence: streetConfidence,
		}
		if coords := e.geocode(ctx, loc.Text); coords != nil {
			loc.Coordinates = coords
			loc.Confidence = streetGeocodedConfidence
		}
		locations = append(locations, loc)
	}

	return locations
}

// streetCandidates returns distinct plausible street names in order of appearance.
func streetCandidates(display string) []string {
	var (
		out  []string
		seen = map[string]struct{}{}
	)
	for _, m := range streetExpr.FindAllStringSubmatch(display, -1) {
		name := trimStreetName(m[1])
		n := utf8.RuneCountInString(name)
		if n <= 2 || n >= 50 {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
		if len(out) == maxStreetCandidates {
			break
		}
	}
	return out
}

func trimStreetName(raw string) string {
	words := strings.Fields(raw)
	for i, w := range words {
		if _, stop := streetStopWords[strings.ToLower(w)]; stop {
			words = words[:i]
			break
		}
	}
	return strings.Join(words, " ")
}

// geocode never fails the extraction; errors only cost confidence.
func (e *Extractor) geocode(ctx context.Context, query string) *domain.Coordinates {
	if e.geocoder == nil {
		return nil
	}
	coords, err := e.geocoder.Resolve(ctx, query, e.lex.regionName)
	if err != nil {
		e.logger.Debug("geocode failed", "query", query, "error", err)
		return nil
	}
	return coords
}
