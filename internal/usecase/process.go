package usecase

import (
	"context"
	"fmt"

	"ConstructionWatch/internal/domain"
)

// ProcessResults drops results whose hash is already stored (or repeated in
// the batch) and creates a pending suggestion for each remaining one.
func (o *Orchestrator) ProcessResults(ctx context.Context, results []domain.ScraperResult) domain.ProcessSummary {
	summary := domain.ProcessSummary{Errors: []string{}}
	if len(results) == 0 {
		return summary
	}

	hashes := make([]string, 0, len(results))
	for _, r := range results {
		hashes = append(hashes, r.ContentHash)
	}

	existing, err := o.store.FindExistingHashes(ctx, hashes)
	if err != nil {
		summary.Errors = append(summary.Errors, fmt.Sprintf("find existing hashes: %v", err))
		return summary
	}

	seen := make(map[string]struct{}, len(results))
	for _, r := range results {
		if _, ok := existing[r.ContentHash]; ok {
			summary.Duplicates++
			continue
		}
		if _, ok := seen[r.ContentHash]; ok {
			summary.Duplicates++
			continue
		}
		seen[r.ContentHash] = struct{}{}

		created, err := o.store.CreateSuggestion(ctx, buildSuggestion(r))
		if err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("%s: create suggestion: %v", r.SourceURL, err))
			o.logger.Warn("create suggestion failed", "url", r.SourceURL, "error", err)
			continue
		}
		summary.Created++
		o.logger.Debug("suggestion created", "id", created.ID, "url", r.SourceURL, "confidence", r.Confidence)
	}
	return summary
}

func buildSuggestion(r domain.ScraperResult) domain.NewSuggestion {
	data := r.ExtractedData
	proposed := domain.ProposedData{
		Name:             r.Title,
		Description:      r.Description,
		ConstructionType: data.ConstructionType,
		ProjectStatus:    data.Status,
		Keywords:         data.Keywords,
		Source:           r.Source,
		SourceURL:        r.SourceURL,
	}
	if d, ok := data.FirstDate(domain.DateStart); ok {
		proposed.StartDate = d.ISO()
	}
	if d, ok := data.FirstDate(domain.DateEnd); ok {
		proposed.EndDate = d.ISO()
	}
	if d, ok := data.FirstDate(domain.DateAnnounced); ok {
		proposed.AnnouncedDate = d.ISO()
	}
	for _, loc := range data.Locations {
		if proposed.District == "" && loc.District != "" {
			proposed.District = loc.District
		}
	}

	var geometry *domain.PointGeometry
	if best, ok := data.BestGeocoded(); ok {
		geometry = domain.NewPoint(*best.Coordinates)
		proposed.LocationText = best.Text
	} else if len(data.Locations) > 0 {
		proposed.LocationText = data.Locations[0].Text
	}

	return domain.NewSuggestion{
		Type:             domain.SuggestionCreate,
		Status:           domain.StatusPending,
		ProposedData:     proposed,
		ProposedGeometry: geometry,
		ContentHash:      r.ContentHash,
		SourceConfidence: r.Confidence,
	}
}
