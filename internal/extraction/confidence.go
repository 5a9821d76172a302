package extraction

import (
	"math"

	"ConstructionWatch/internal/domain"
)

// Signal weights; they sum to 1.
const (
	weightTitle       = 0.15
	weightDescription = 0.10
	weightDate        = 0.15
	weightLocation    = 0.20
	weightType        = 0.10
	weightStatus      = 0.10
	weightGeocoded    = 0.20
)

// Signals are the observations the confidence score is built from.
type Signals struct {
	HasTitle       bool
	HasDescription bool
	HasDate        bool
	HasLocation    bool
	HasType        bool
	HasStatus      bool
	HasGeocoded    bool
}

// SignalsFor derives signals from an article and its extraction.
func SignalsFor(title, description string, r domain.ExtractionResult) Signals {
	_, geocoded := r.BestGeocoded()
	return Signals{
		HasTitle:       title != "",
		HasDescription: description != "",
		HasDate:        len(r.Dates) > 0,
		HasLocation:    len(r.Locations) > 0,
		HasType:        r.ConstructionType != "",
		HasStatus:      r.Status != "",
		HasGeocoded:    geocoded,
	}
}

// Score is the weighted sum of the signals rounded to two decimals.
func Score(s Signals) float64 {
	total := 0.0
	add := func(on bool, w float64) {
		if on {
			total += w
		}
	}
	add(s.HasTitle, weightTitle)
	add(s.HasDescription, weightDescription)
	add(s.HasDate, weightDate)
	add(s.HasLocation, weightLocation)
	add(s.HasType, weightType)
	add(s.HasStatus, weightStatus)
	add(s.HasGeocoded, weightGeocoded)
	return math.Min(1, math.Round(total*100)/100)
}
