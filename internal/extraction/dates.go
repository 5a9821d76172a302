package extraction

import (
	"regexp"
	"sort"
	"strconv"
	"time"

	"ConstructionWatch/internal/domain"
)

// Date is a parsed calendar date anchored at the start of its period.
type Date struct {
	Time      time.Time
	Precision domain.DatePrecision
}

const (
	minYear = 1900
	maxYear = 2100
)

var romanQuarters = map[string]int{"i": 1, "ii": 2, "iii": 3, "iv": 4}

// VietnameseDatePatterns returns the default matchers, most specific first.
// Quantifiers are bounded so every pattern stays linear on hostile input.
func VietnameseDatePatterns() []DatePattern {
	return []DatePattern{
		{
			Name:  "numeric",
			Expr:  regexp.MustCompile(`\b(\d{1,2})[/.\-](\d{1,2})[/.\-](\d{4})\b`),
			Parse: parseDayMonthYear,
		},
		{
			Name:  "spelled",
			Expr:  regexp.MustCompile(`ngày\s{1,3}(\d{1,2})\s{1,3}tháng\s{1,3}(\d{1,2})\s{1,3}năm\s{1,3}(\d{4})\b`),
			Parse: parseDayMonthYear,
		},
		{
			Name:  "quarter",
			Expr:  regexp.MustCompile(`quý\s{1,3}(iv|i{1,3}|[1-4])\s{0,3}(?:/|-|năm)\s{0,3}(\d{4})\b`),
			Parse: parseQuarterYear,
		},
		{
			Name:  "month",
			Expr:  regexp.MustCompile(`tháng\s{1,3}(\d{1,2})\s{0,3}(?:/|-|năm)\s{0,3}(\d{4})\b`),
			Parse: parseMonthYear,
		},
		{
			Name:  "year",
			Expr:  regexp.MustCompile(`năm\s{1,3}(\d{4})\b`),
			Parse: parseYear,
		},
	}
}

func parseDayMonthYear(groups []string) (Date, bool) {
	if len(groups) < 4 {
		return Date{}, false
	}
	day, err1 := strconv.Atoi(groups[1])
	month, err2 := strconv.Atoi(groups[2])
	year, err3 := strconv.Atoi(groups[3])
	if err1 != nil || err2 != nil || err3 != nil {
		return Date{}, false
	}
	if !validYear(year) || month < 1 || month > 12 || day < 1 {
		return Date{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return Date{}, false
	}
	return Date{Time: t, Precision: domain.PrecisionDay}, true
}

func parseQuarterYear(groups []string) (Date, bool) {
	if len(groups) < 3 {
		return Date{}, false
	}
	quarter, ok := romanQuarters[groups[1]]
	if !ok {
		n, err := strconv.Atoi(groups[1])
		if err != nil || n < 1 || n > 4 {
			return Date{}, false
		}
		quarter = n
	}
	year, err := strconv.Atoi(groups[2])
	if err != nil || !validYear(year) {
		return Date{}, false
	}
	month := time.Month((quarter-1)*3 + 1)
	return Date{Time: time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), Precision: domain.PrecisionQuarter}, true
}

func parseMonthYear(groups []string) (Date, bool) {
	if len(groups) < 3 {
		return Date{}, false
	}
	month, err1 := strconv.Atoi(groups[1])
	year, err2 := strconv.Atoi(groups[2])
	if err1 != nil || err2 != nil || month < 1 || month > 12 || !validYear(year) {
		return Date{}, false
	}
	return Date{Time: time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), Precision: domain.PrecisionMonth}, true
}

func parseYear(groups []string) (Date, bool) {
	if len(groups) < 2 {
		return Date{}, false
	}
	year, err := strconv.Atoi(groups[1])
	if err != nil || !validYear(year) {
		return Date{}, false
	}
	return Date{Time: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), Precision: domain.PrecisionYear}, true
}

func validYear(y int) bool {
	return y >= minYear && y <= maxYear
}

type dateMatch struct {
	start, end int
	text       string
	date       Date
}

// extractDates scans lowercased text. A match overlapping a previously
// accepted, more specific match is ignored.
func (e *Extractor) extractDates(lower string) []domain.ExtractedDate {
	var matches []dateMatch
	for _, pattern := range e.lex.datePatterns {
		for _, idx := range pattern.Expr.FindAllStringSubmatchIndex(lower, -1) {
			start, end := idx[0], idx[1]
			if overlaps(matches, start, end) {
				continue
			}
			groups := make([]string, len(idx)/2)
			for g := range groups {
				if idx[2*g] >= 0 {
					groups[g] = lower[idx[2*g]:idx[2*g+1]]
				}
			}
			date, ok := pattern.Parse(groups)
			if !ok {
				continue
			}
			matches = append(matches, dateMatch{start: start, end: end, text: lower[start:end], date: date})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].start < matches[j].start })

	dates := make([]domain.ExtractedDate, 0, len(matches))
	for _, m := range matches {
		window := precedingWindow(lower, m.start, e.lex.cueWindow)
		kind := e.classifyDate(window)
		dates = append(dates, domain.ExtractedDate{
			Type:       kind,
			Date:       m.date.Time,
			Precision:  m.date.Precision,
			Text:       m.text,
			Confidence: dateConfidence(kind),
		})
	}
	return dates
}

// classifyDate picks the cue that sits closest to the date. On equal
// distance start wins over end, end over announced.
func (e *Extractor) classifyDate(window string) domain.DateType {
	kind := domain.DateMentioned
	best := -1
	candidates := []struct {
		kind  domain.DateType
		terms []string
	}{
		{domain.DateStart, e.lex.startCues},
		{domain.DateEnd, e.lex.endCues},
		{domain.DateAnnounced, e.lex.announcedCues},
	}
	for _, c := range candidates {
		if idx := lastTermIndex(window, c.terms); idx > best {
			best = idx
			kind = c.kind
		}
	}
	return kind
}

func dateConfidence(kind domain.DateType) float64 {
	switch kind {
	case domain.DateStart, domain.DateEnd:
		return 0.8
	case domain.DateAnnounced:
		return 0.7
	default:
		return 0.5
	}
}

func overlaps(matches []dateMatch, start, end int) bool {
	for _, m := range matches {
		if start < m.end && m.start < end {
			return true
		}
	}
	return false
}
