package extraction

import "ConstructionWatch/internal/domain"

// classifyType returns the type with the most keyword hits. Ties go to the
// rule listed first.
func (e *Extractor) classifyType(lower string) domain.ConstructionType {
	var (
		best      domain.ConstructionType
		bestCount int
	)
	for _, rule := range e.lex.types {
		count := 0
		for _, kw := range rule.Keywords {
			count += countTerm(lower, kw)
		}
		if count > bestCount {
			best, bestCount = rule.Type, count
		}
	}
	return best
}

// classifyStatus returns the first status, in priority order, with any hit.
func (e *Extractor) classifyStatus(lower string) domain.ProjectStatus {
	for _, rule := range e.lex.statuses {
		if containsAny(lower, rule.Keywords) {
			return rule.Status
		}
	}
	return ""
}
