package domain

import "time"

// FilterSpec is the conjunction of user-chosen predicates. All bounds are
// inclusive. A record with a nil rating or nil date never passes the
// corresponding predicate.
type FilterSpec struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Platforms []string  `json:"platforms"`
	Types     []string  `json:"types"`
	RatingMin float64   `json:"rating_min"`
	RatingMax float64   `json:"rating_max"`
}

// Normalize repairs an inverted date range in place and reports whether a
// swap happened, so the UI can tell the user.
func (s *FilterSpec) Normalize() (swapped bool) {
	if s.Start.After(s.End) {
		s.Start, s.End = s.End, s.Start
		swapped = true
	}
	return swapped
}

// FilterOptions are the control bounds for the filter sidebar plus the
// spec applied when the user has chosen nothing yet.
type FilterOptions struct {
	MinDate   time.Time  `json:"min_date"`
	MaxDate   time.Time  `json:"max_date"`
	Platforms []string   `json:"platforms"`
	Types     []string   `json:"types"`
	RatingMin float64    `json:"rating_min"`
	RatingMax float64    `json:"rating_max"`
	Default   FilterSpec `json:"default"`
}

type RatingBucket struct {
	Rating *float64 `json:"rating"` // nil = unparseable ratings bucket
	Count  int      `json:"count"`
}

type PlatformBucket struct {
	Platform string `json:"platform"`
	Count    int    `json:"count"`
}

// TrendPoint is one calendar month that had at least one review. Months
// without data are not emitted.
type TrendPoint struct {
	Month string `json:"month"` // "2006-01"
	Count int    `json:"count"`
}

type Keyword struct {
	Word   string `json:"word"`
	Weight int    `json:"weight"`
}

// DashboardStats are the summary metrics for a filtered subset. Average and
// median are nil when they are undefined for the subset.
type DashboardStats struct {
	TotalCount         int      `json:"total_count"`
	AverageRating      *float64 `json:"average_rating"`
	MedianHelpfulVotes *float64 `json:"median_helpful_votes"`
	PositiveShare      float64  `json:"positive_share"`
	NegativeShare      float64  `json:"negative_share"`
	SummaryText        string   `json:"summary_text"`
}

// SampleReview is the fixed column subset shown in the sample table.
type SampleReview struct {
	PublishedDate *time.Time `json:"published_date"`
	Rating        *float64   `json:"rating"`
	Title         *string    `json:"title"`
	Text          *string    `json:"text"`
	Type          string     `json:"type"`
	Platform      string     `json:"published_platform"`
}

// DashboardView is everything one render pass needs, computed from a single
// filtered subset.
type DashboardView struct {
	Spec             FilterSpec       `json:"spec"`
	DatesSwapped     bool             `json:"dates_swapped"`
	Stats            DashboardStats   `json:"stats"`
	RatingHistogram  []RatingBucket   `json:"rating_histogram"`
	PlatformCounts   []PlatformBucket `json:"platform_counts"`
	MonthlyTrend     []TrendPoint     `json:"monthly_trend"`
	PositiveKeywords []Keyword        `json:"positive_keywords"`
	NegativeKeywords []Keyword        `json:"negative_keywords"`
	Sample           []SampleReview   `json:"sample"`
}
