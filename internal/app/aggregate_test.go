package app_test

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"review_pulse/internal/app"
	"review_pulse/internal/domain"
)

// The three-row reference scenario: ratings [5, 1, nil] on platforms
// [Web, App, Web].
func scenario() []domain.Review {
	return []domain.Review{
		rev(ptr(day(2024, 1, 5)), ptr(5.0), 2, "Web", "review", ptr("great")),
		rev(ptr(day(2024, 1, 20)), ptr(1.0), 4, "App", "review", ptr("bad")),
		rev(ptr(day(2024, 3, 1)), nil, 6, "Web", "review", nil),
	}
}

func TestAggregate_ReferenceScenario(t *testing.T) {
	stats := app.Aggregate(scenario())

	if stats.TotalCount != 3 {
		t.Fatalf("total: %d", stats.TotalCount)
	}
	if stats.AverageRating == nil || *stats.AverageRating != 3.0 {
		t.Fatalf("average: %v", stats.AverageRating)
	}
	if stats.MedianHelpfulVotes == nil || *stats.MedianHelpfulVotes != 4 {
		t.Fatalf("median: %v", stats.MedianHelpfulVotes)
	}
	if math.Abs(stats.PositiveShare-100.0/3) > 1e-9 {
		t.Fatalf("positive share: %g", stats.PositiveShare)
	}
	if math.Abs(stats.NegativeShare-100.0/3) > 1e-9 {
		t.Fatalf("negative share: %g", stats.NegativeShare)
	}
	if stats.PositiveShare+stats.NegativeShare > 100 {
		t.Fatalf("shares exceed 100: %g + %g", stats.PositiveShare, stats.NegativeShare)
	}
	if !strings.Contains(stats.SummaryText, "3 reviews, average rating 3.00") {
		t.Fatalf("summary: %q", stats.SummaryText)
	}
}

func TestAggregate_EmptySubset(t *testing.T) {
	stats := app.Aggregate(nil)
	if stats.TotalCount != 0 || stats.AverageRating != nil || stats.MedianHelpfulVotes != nil {
		t.Fatalf("empty subset must degrade: %+v", stats)
	}
	if stats.PositiveShare != 0 || stats.NegativeShare != 0 {
		t.Fatalf("shares must be zero: %+v", stats)
	}
	if stats.SummaryText != "Filtered summary: 0 reviews for the selected filters." {
		t.Fatalf("summary: %q", stats.SummaryText)
	}
}

func TestAggregate_EvenCountMedianInterpolates(t *testing.T) {
	stats := app.Aggregate([]domain.Review{
		rev(ptr(day(2024, 1, 1)), ptr(3.0), 1, "Web", "review", nil),
		rev(ptr(day(2024, 1, 2)), ptr(3.0), 4, "Web", "review", nil),
	})
	if stats.MedianHelpfulVotes == nil || *stats.MedianHelpfulVotes != 2.5 {
		t.Fatalf("median: %v", stats.MedianHelpfulVotes)
	}
}

func TestRatingHistogram_OrderAndNullBucket(t *testing.T) {
	h := app.RatingHistogram(scenario())
	if len(h) != 3 {
		t.Fatalf("buckets: %+v", h)
	}
	if *h[0].Rating != 1 || h[0].Count != 1 {
		t.Fatalf("first bucket: %+v", h[0])
	}
	if *h[1].Rating != 5 || h[1].Count != 1 {
		t.Fatalf("second bucket: %+v", h[1])
	}
	if h[2].Rating != nil || h[2].Count != 1 {
		t.Fatalf("null bucket must come last: %+v", h[2])
	}
}

func TestPlatformHistogram_CountDescending(t *testing.T) {
	h := app.PlatformHistogram(scenario())
	want := []domain.PlatformBucket{{Platform: "Web", Count: 2}, {Platform: "App", Count: 1}}
	if !reflect.DeepEqual(h, want) {
		t.Fatalf("histogram: %+v", h)
	}
}

func TestMonthlyTrend_SkipsEmptyMonths(t *testing.T) {
	trend := app.MonthlyTrend(scenario())
	want := []domain.TrendPoint{{Month: "2024-01", Count: 2}, {Month: "2024-03", Count: 1}}
	// 2024-02 has no rows and is not emitted
	if !reflect.DeepEqual(trend, want) {
		t.Fatalf("trend: %+v", trend)
	}
}

func TestMonthlyTrend_IgnoresNilDates(t *testing.T) {
	trend := app.MonthlyTrend([]domain.Review{
		rev(nil, ptr(5.0), 0, "Web", "review", nil),
	})
	if len(trend) != 0 {
		t.Fatalf("nil dates must not produce points: %+v", trend)
	}
}

func TestSample_MostRecentFirstAndCapped(t *testing.T) {
	rows := app.Sample(scenario(), 2)
	if len(rows) != 2 {
		t.Fatalf("cap: %d", len(rows))
	}
	if !rows[0].PublishedDate.Equal(day(2024, 3, 1)) || !rows[1].PublishedDate.Equal(day(2024, 1, 20)) {
		t.Fatalf("ordering: %+v", rows)
	}
}

func TestSample_NilDatesLast(t *testing.T) {
	rows := app.Sample([]domain.Review{
		rev(nil, ptr(4.0), 0, "Web", "review", nil),
		rev(ptr(day(2024, 1, 1)), ptr(5.0), 0, "Web", "review", nil),
	}, 0)
	if rows[0].PublishedDate == nil || rows[1].PublishedDate != nil {
		t.Fatalf("nil dates must sort last: %+v", rows)
	}
}
