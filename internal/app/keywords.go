package app

import (
	"sort"
	"strings"
	"unicode"

	"review_pulse/internal/domain"
)

// keywordPlaceholder feeds the extractor when a band has no review text at
// all, so the cloud renderer always gets a valid (if trivial) result.
const keywordPlaceholder = "No data"

// PositiveText joins the text of every 4-5 star review; NegativeText the
// 1-2 star ones. Both substitute a placeholder when the band is empty.
func PositiveText(filtered []domain.Review) string {
	return bandText(filtered, domain.PositiveRating)
}

func NegativeText(filtered []domain.Review) string {
	return bandText(filtered, domain.NegativeRating)
}

func bandText(filtered []domain.Review, band func(*float64) bool) string {
	var parts []string
	for _, r := range filtered {
		if band(r.Rating) && r.Text != nil {
			parts = append(parts, *r.Text)
		}
	}
	if len(parts) == 0 {
		return keywordPlaceholder
	}
	return strings.Join(parts, " ")
}

// Keywords extracts weight-ranked words from a text blob: lowercased,
// split on non-letters, single letters and stopwords dropped. Ties break
// alphabetically so the ranking is stable.
func Keywords(text string, limit int) []domain.Keyword {
	counts := map[string]int{}
	for _, w := range splitWords(text) {
		if len(w) < 2 {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		counts[w]++
	}

	out := make([]domain.Keyword, 0, len(counts))
	for w, c := range counts {
		out = append(out, domain.Keyword{Word: w, Weight: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].Word < out[j].Word
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func splitWords(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}
