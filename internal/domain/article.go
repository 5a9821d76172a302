package domain

import "time"

// RawArticle is an article as supplied by a source, before extraction.
type RawArticle struct {
	Source      string     `json:"source"`
	SourceURL   string     `json:"sourceUrl"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Content     string     `json:"content"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	ScrapedAt   time.Time  `json:"scrapedAt"`
}

// DateType classifies what an extracted date refers to.
type DateType string

const (
	DateStart     DateType = "start"
	DateEnd       DateType = "end"
	DateAnnounced DateType = "announced"
	DateMentioned DateType = "mentioned"
)

// DatePrecision records how much of a date was present in the text.
type DatePrecision string

const (
	PrecisionDay     DatePrecision = "day"
	PrecisionMonth   DatePrecision = "month"
	PrecisionQuarter DatePrecision = "quarter"
	PrecisionYear    DatePrecision = "year"
)

// ExtractedDate is a date found in article text. Date is the first day of
// the period described by Precision, in UTC.
type ExtractedDate struct {
	Type       DateType      `json:"type"`
	Date       time.Time     `json:"-"`
	Precision  DatePrecision `json:"precision"`
	Text       string        `json:"text"`
	Confidence float64       `json:"confidence"`
}

// ISO renders the date at its own precision (2024-03-15, 2024-03, 2024).
// Quarter dates render as the first month of the quarter.
func (d ExtractedDate) ISO() string {
	switch d.Precision {
	case PrecisionDay:
		return d.Date.Format("2006-01-02")
	case PrecisionMonth, PrecisionQuarter:
		return d.Date.Format("2006-01")
	default:
		return d.Date.Format("2006")
	}
}

// Coordinates is a longitude/latitude pair.
type Coordinates struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// ExtractedLocation is a place mention, optionally geocoded.
type ExtractedLocation struct {
	Text        string       `json:"text"`
	District    string       `json:"district,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Confidence  float64      `json:"confidence"`
}

// ConstructionType is the detected kind of project.
type ConstructionType string

const (
	TypeMetro    ConstructionType = "metro"
	TypeHighway  ConstructionType = "highway"
	TypeBridge   ConstructionType = "bridge"
	TypeTunnel   ConstructionType = "tunnel"
	TypeRoad     ConstructionType = "road"
	TypeDrainage ConstructionType = "drainage"
	TypePark     ConstructionType = "park"
	TypeBuilding ConstructionType = "building"
)

// ProjectStatus is the detected state of a project.
type ProjectStatus string

const (
	ProjectCompleted  ProjectStatus = "completed"
	ProjectPaused     ProjectStatus = "paused"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectPlanned    ProjectStatus = "planned"
)

// ExtractionResult holds every structured fact pulled from one article.
type ExtractionResult struct {
	Dates            []ExtractedDate     `json:"dates"`
	Locations        []ExtractedLocation `json:"locations"`
	ConstructionType ConstructionType    `json:"constructionType,omitempty"`
	Status           ProjectStatus       `json:"status,omitempty"`
	Keywords         []string            `json:"keywords"`
}

// FirstDate returns the first date of the given type in extraction order.
func (r ExtractionResult) FirstDate(t DateType) (ExtractedDate, bool) {
	for _, d := range r.Dates {
		if d.Type == t {
			return d, true
		}
	}
	return ExtractedDate{}, false
}

// BestGeocoded returns the most confident location that carries coordinates.
// Ties keep the earliest location.
func (r ExtractionResult) BestGeocoded() (ExtractedLocation, bool) {
	var (
		best  ExtractedLocation
		found bool
	)
	for _, loc := range r.Locations {
		if loc.Coordinates == nil {
			continue
		}
		if !found || loc.Confidence > best.Confidence {
			best = loc
			found = true
		}
	}
	return best, found
}

// ScraperResult is an extracted, hashed article ready for deduplication.
type ScraperResult struct {
	Source        string
	SourceURL     string
	ContentHash   string
	Title         string
	Description   string
	RawText       string
	ExtractedData ExtractionResult
	Confidence    float64
	ScrapedAt     time.Time
}
