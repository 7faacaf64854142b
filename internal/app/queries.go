package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"review_pulse/internal/domain"
)

type QueryService struct {
	source   domain.ReviewSource
	cache    domain.Cache // optional; nil disables caching
	cacheTTL time.Duration

	sampleLimit int
	keywordMax  int
}

func NewQueryService(src domain.ReviewSource, c domain.Cache, ttl time.Duration, sampleLimit, keywordMax int) *QueryService {
	if sampleLimit <= 0 {
		sampleLimit = 200
	}
	if keywordMax <= 0 {
		keywordMax = 100
	}
	return &QueryService{
		source:      src,
		cache:       c,
		cacheTTL:    ttl,
		sampleLimit: sampleLimit,
		keywordMax:  keywordMax,
	}
}

// FilterOptions returns the sidebar control bounds for the dataset.
func (s *QueryService) FilterOptions(ctx context.Context) (domain.FilterOptions, error) {
	const key = "filters:v1"
	var opts domain.FilterOptions
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &opts); ok {
			return opts, nil
		}
	}
	reviews, err := s.source.Reviews(ctx)
	if err != nil {
		return domain.FilterOptions{}, err
	}
	opts = Options(reviews)
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, opts, int(s.cacheTTL.Seconds()))
	}
	return opts, nil
}

// Dashboard runs one full pass: memoized load, filter, aggregate, keyword
// extraction, sample. The computed view is cached under the normalized
// spec, so repeating the same filters is a cache hit.
func (s *QueryService) Dashboard(ctx context.Context, spec domain.FilterSpec) (domain.DashboardView, error) {
	swapped := spec.Normalize()
	key := dashboardKey(spec)

	var out domain.DashboardView
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &out); ok {
			out.DatesSwapped = swapped
			return out, nil
		}
	}

	reviews, err := s.source.Reviews(ctx)
	if err != nil {
		return domain.DashboardView{}, err
	}

	filtered, _ := Apply(reviews, spec)
	out = domain.DashboardView{
		Spec:             spec,
		DatesSwapped:     swapped,
		Stats:            Aggregate(filtered),
		RatingHistogram:  RatingHistogram(filtered),
		PlatformCounts:   PlatformHistogram(filtered),
		MonthlyTrend:     MonthlyTrend(filtered),
		PositiveKeywords: Keywords(PositiveText(filtered), s.keywordMax),
		NegativeKeywords: Keywords(NegativeText(filtered), s.keywordMax),
		Sample:           Sample(filtered, s.sampleLimit),
	}

	if s.cache != nil {
		// copy before caching so later callers cannot mutate the cached value
		_ = s.cache.Set(ctx, key, deepCopyView(out), int(s.cacheTTL.Seconds()))
	}
	return out, nil
}

// dashboardKey canonicalizes a normalized spec into a stable cache key.
func dashboardKey(spec domain.FilterSpec) string {
	canon := fmt.Sprintf("%s|%s|%s|%s|%g|%g",
		spec.Start.UTC().Format(time.RFC3339),
		spec.End.UTC().Format(time.RFC3339),
		strings.Join(spec.Platforms, ","),
		strings.Join(spec.Types, ","),
		spec.RatingMin, spec.RatingMax,
	)
	sum := sha1.Sum([]byte(canon))
	return "dashboard:" + hex.EncodeToString(sum[:])
}

func deepCopyView(in domain.DashboardView) domain.DashboardView {
	out := in
	out.RatingHistogram = append([]domain.RatingBucket(nil), in.RatingHistogram...)
	out.PlatformCounts = append([]domain.PlatformBucket(nil), in.PlatformCounts...)
	out.MonthlyTrend = append([]domain.TrendPoint(nil), in.MonthlyTrend...)
	out.PositiveKeywords = append([]domain.Keyword(nil), in.PositiveKeywords...)
	out.NegativeKeywords = append([]domain.Keyword(nil), in.NegativeKeywords...)
	out.Sample = append([]domain.SampleReview(nil), in.Sample...)
	return out
}
