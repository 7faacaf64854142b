package app

import (
	"sort"
	"time"

	"review_pulse/internal/domain"
)

// Apply returns the rows satisfying every predicate in spec (conjunction).
// An inverted date range is repaired first; swapped reports that to the
// caller so the UI can show a notice. The input slice is never mutated.
func Apply(reviews []domain.Review, spec domain.FilterSpec) (out []domain.Review, swapped bool) {
	swapped = spec.Normalize()

	platforms := toSet(spec.Platforms)
	types := toSet(spec.Types)

	out = make([]domain.Review, 0, len(reviews))
	for _, r := range reviews {
		if !dateWithin(r.PublishedDate, spec.Start, spec.End) {
			continue
		}
		if _, ok := platforms[r.Platform]; !ok {
			continue
		}
		if _, ok := types[r.Type]; !ok {
			continue
		}
		// between-test: a nil rating compares false on both bounds
		if r.Rating == nil || *r.Rating < spec.RatingMin || *r.Rating > spec.RatingMax {
			continue
		}
		out = append(out, r)
	}
	return out, swapped
}

func dateWithin(d *time.Time, start, end time.Time) bool {
	if d == nil {
		return false
	}
	return !d.Before(start) && !d.After(end)
}

func toSet(vals []string) map[string]struct{} {
	m := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		m[v] = struct{}{}
	}
	return m
}

// Options derives the filter control bounds present in the dataset, plus
// the spec used before the user touches anything: the last 12 months
// (clamped to the dataset start), every platform and type, the full rating
// span.
func Options(reviews []domain.Review) domain.FilterOptions {
	var (
		minDate, maxDate time.Time
		haveDate         bool
		minRating        = 0.0
		maxRating        = 0.0
		haveRating       bool
	)
	platforms := map[string]struct{}{}
	types := map[string]struct{}{}

	for _, r := range reviews {
		if r.PublishedDate != nil {
			d := *r.PublishedDate
			if !haveDate || d.Before(minDate) {
				minDate = d
			}
			if !haveDate || d.After(maxDate) {
				maxDate = d
			}
			haveDate = true
		}
		if r.Rating != nil {
			v := *r.Rating
			if !haveRating || v < minRating {
				minRating = v
			}
			if !haveRating || v > maxRating {
				maxRating = v
			}
			haveRating = true
		}
		platforms[r.Platform] = struct{}{}
		types[r.Type] = struct{}{}
	}

	opts := domain.FilterOptions{
		MinDate:   minDate,
		MaxDate:   maxDate,
		Platforms: sortedKeys(platforms),
		Types:     sortedKeys(types),
		RatingMin: minRating,
		RatingMax: maxRating,
	}

	start := maxDate.AddDate(0, -12, 0)
	if start.Before(minDate) {
		start = minDate
	}
	opts.Default = domain.FilterSpec{
		Start:     start,
		End:       maxDate,
		Platforms: opts.Platforms,
		Types:     opts.Types,
		RatingMin: minRating,
		RatingMax: maxRating,
	}
	return opts
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
