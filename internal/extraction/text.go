package extraction

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"ConstructionWatch/internal/hashing"
)

// normalizeTerms lowercases, NFC-normalizes and dedups a term list,
// preserving order.
func normalizeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	seen := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		n := hashing.NormalizeText(t)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

// boundedAt reports whether text[start:end] is not glued to surrounding
// letters or digits.
func boundedAt(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

// termPositions returns byte offsets of whole-word occurrences of term.
func termPositions(text, term string) []int {
	if term == "" {
		return nil
	}
	var positions []int
	offset := 0
	for offset <= len(text)-len(term) {
		i := strings.Index(text[offset:], term)
		if i < 0 {
			break
		}
		start := offset + i
		end := start + len(term)
		if boundedAt(text, start, end) {
			positions = append(positions, start)
			offset = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + size
	}
	return positions
}

func containsTerm(text, term string) bool {
	return len(termPositions(text, term)) > 0
}

func countTerm(text, term string) int {
	return len(termPositions(text, term))
}

func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if containsTerm(text, t) {
			return true
		}
	}
	return false
}

// precedingWindow returns up to n runes of text ending at byte offset end.
func precedingWindow(text string, end, n int) string {
	start := end
	for i := 0; i < n && start > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:start])
		start -= size
	}
	return text[start:end]
}

// lastTermIndex returns the offset of the last whole-word occurrence of any
// term, or -1.
func lastTermIndex(text string, terms []string) int {
	last := -1
	for _, t := range terms {
		if positions := termPositions(text, t); len(positions) > 0 {
			if p := positions[len(positions)-1]; p > last {
				last = p
			}
		}
	}
	return last
}

// truncateRunes cuts s to at most limit runes.
func truncateRunes(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}

func normNFC(s string) string {
	return norm.NFC.String(s)
}
