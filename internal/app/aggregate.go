package app

import (
	"fmt"
	"sort"
	"strconv"

	"review_pulse/internal/domain"
)

// Aggregate computes the summary metrics for a filtered subset. Every
// metric degrades cleanly on an empty subset: shares become zero and
// average/median become nil ("not available").
func Aggregate(filtered []domain.Review) domain.DashboardStats {
	stats := domain.DashboardStats{TotalCount: len(filtered)}
	if stats.TotalCount == 0 {
		stats.SummaryText = "Filtered summary: 0 reviews for the selected filters."
		return stats
	}

	var (
		ratingSum   float64
		ratingCount int
		positives   int
		negatives   int
		votes       = make([]int64, 0, len(filtered))
	)
	for _, r := range filtered {
		if r.Rating != nil {
			ratingSum += *r.Rating
			ratingCount++
		}
		if domain.PositiveRating(r.Rating) {
			positives++
		}
		if domain.NegativeRating(r.Rating) {
			negatives++
		}
		votes = append(votes, r.HelpfulVotes)
	}

	if ratingCount > 0 {
		avg := ratingSum / float64(ratingCount)
		stats.AverageRating = &avg
	}
	med := median(votes)
	stats.MedianHelpfulVotes = &med
	stats.PositiveShare = float64(positives) / float64(stats.TotalCount) * 100
	stats.NegativeShare = float64(negatives) / float64(stats.TotalCount) * 100

	avgStr := "N/A"
	if stats.AverageRating != nil {
		avgStr = fmt.Sprintf("%.2f", *stats.AverageRating)
	}
	stats.SummaryText = fmt.Sprintf(
		"Filtered summary: %s reviews, average rating %s. Positive reviews (4-5): %.1f%%, negative reviews (1-2): %.1f%%.",
		groupThousands(stats.TotalCount), avgStr, stats.PositiveShare, stats.NegativeShare,
	)
	return stats
}

// median interpolates between the two middle values on even counts.
func median(vs []int64) float64 {
	sort.Slice(vs, func(i, j int) bool { return vs[i] < vs[j] })
	n := len(vs)
	if n%2 == 1 {
		return float64(vs[n/2])
	}
	return (float64(vs[n/2-1]) + float64(vs[n/2])) / 2
}

func groupThousands(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return string(out)
}

// RatingHistogram buckets rows per distinct rating value, ascending, with
// a trailing bucket for rows whose rating did not parse.
func RatingHistogram(filtered []domain.Review) []domain.RatingBucket {
	counts := map[float64]int{}
	nulls := 0
	for _, r := range filtered {
		if r.Rating == nil {
			nulls++
			continue
		}
		counts[*r.Rating]++
	}
	ratings := make([]float64, 0, len(counts))
	for v := range counts {
		ratings = append(ratings, v)
	}
	sort.Float64s(ratings)

	out := make([]domain.RatingBucket, 0, len(ratings)+1)
	for _, v := range ratings {
		v := v
		out = append(out, domain.RatingBucket{Rating: &v, Count: counts[v]})
	}
	if nulls > 0 {
		out = append(out, domain.RatingBucket{Rating: nil, Count: nulls})
	}
	return out
}

// PlatformHistogram counts rows per platform, most common first; ties
// break alphabetically so the order is stable.
func PlatformHistogram(filtered []domain.Review) []domain.PlatformBucket {
	counts := map[string]int{}
	for _, r := range filtered {
		counts[r.Platform]++
	}
	out := make([]domain.PlatformBucket, 0, len(counts))
	for p, c := range counts {
		out = append(out, domain.PlatformBucket{Platform: p, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Platform < out[j].Platform
	})
	return out
}

// MonthlyTrend counts rows with a known date per calendar month, in
// chronological order. Months without rows are not emitted.
func MonthlyTrend(filtered []domain.Review) []domain.TrendPoint {
	counts := map[string]int{}
	for _, r := range filtered {
		if r.PublishedDate == nil {
			continue
		}
		counts[r.PublishedDate.Format("2006-01")]++
	}
	months := make([]string, 0, len(counts))
	for m := range counts {
		months = append(months, m)
	}
	sort.Strings(months)

	out := make([]domain.TrendPoint, 0, len(months))
	for _, m := range months {
		out = append(out, domain.TrendPoint{Month: m, Count: counts[m]})
	}
	return out
}

// Sample is the table view: the fixed column subset, most recent first,
// capped at limit. Rows without a date sort last.
func Sample(filtered []domain.Review, limit int) []domain.SampleReview {
	rows := make([]domain.SampleReview, 0, len(filtered))
	for _, r := range filtered {
		rows = append(rows, domain.SampleReview{
			PublishedDate: r.PublishedDate,
			Rating:        r.Rating,
			Title:         r.Title,
			Text:          r.Text,
			Type:          r.Type,
			Platform:      r.Platform,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		di, dj := rows[i].PublishedDate, rows[j].PublishedDate
		switch {
		case di == nil:
			return false
		case dj == nil:
			return true
		default:
			return di.After(*dj)
		}
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}
