package domain

import "time"

// SuggestionStatus is the moderation state of a suggestion.
type SuggestionStatus string

const (
	StatusPending          SuggestionStatus = "pending"
	StatusUnderReview      SuggestionStatus = "under_review"
	StatusChangesRequested SuggestionStatus = "changes_requested"
	StatusApproved         SuggestionStatus = "approved"
	StatusRejected         SuggestionStatus = "rejected"
	StatusMerged           SuggestionStatus = "merged"
	StatusSuperseded       SuggestionStatus = "superseded"
)

// SuggestionType distinguishes new records from edits of existing ones.
type SuggestionType string

const (
	SuggestionCreate SuggestionType = "create"
	SuggestionUpdate SuggestionType = "update"
)

// ProposedData is the construction record a suggestion proposes.
type ProposedData struct {
	Name             string           `json:"name"`
	Description      string           `json:"description,omitempty"`
	ConstructionType ConstructionType `json:"constructionType,omitempty"`
	ProjectStatus    ProjectStatus    `json:"projectStatus,omitempty"`
	StartDate        string           `json:"startDate,omitempty"`
	EndDate          string           `json:"endDate,omitempty"`
	AnnouncedDate    string           `json:"announcedDate,omitempty"`
	LocationText     string           `json:"locationText,omitempty"`
	District         string           `json:"district,omitempty"`
	Keywords         []string         `json:"keywords,omitempty"`
	Source           string           `json:"source"`
	SourceURL        string           `json:"sourceUrl"`
}

// PointGeometry is a GeoJSON point.
type PointGeometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// NewPoint builds a GeoJSON point from coordinates.
func NewPoint(c Coordinates) *PointGeometry {
	return &PointGeometry{Type: "Point", Coordinates: [2]float64{c.Longitude, c.Latitude}}
}

// NewSuggestion carries the fields needed to create a suggestion.
type NewSuggestion struct {
	Type             SuggestionType
	Status           SuggestionStatus
	ProposedData     ProposedData
	ProposedGeometry *PointGeometry
	ContentHash      string
	SourceConfidence float64
}

// Suggestion is a moderation item persisted by a store.
type Suggestion struct {
	ID               string           `json:"id"`
	Type             SuggestionType   `json:"type"`
	Status           SuggestionStatus `json:"status"`
	ProposedData     ProposedData     `json:"proposedData"`
	ProposedGeometry *PointGeometry   `json:"proposedGeometry,omitempty"`
	ContentHash      string           `json:"contentHash"`
	SourceConfidence float64          `json:"sourceConfidence"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}
