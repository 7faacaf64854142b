package csvstore

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"review_pulse/internal/adapters/observability"
	"review_pulse/internal/domain"
)

// Required dataset columns, matched by header name. The column order in the
// file does not matter.
var requiredColumns = []string{
	"published_date", "rating", "helpful_votes",
	"published_platform", "type", "title", "text",
}

// Accepted published_date layouts. Zone-aware values are converted to UTC
// and the zone marker dropped; zone-less values are taken as already UTC.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Store reads the reviews CSV once per path and memoizes the normalized
// rows for the rest of the process lifetime. The cached slice is shared:
// callers must not mutate it.
type Store struct {
	path string
	sf   singleflight.Group

	mu     sync.RWMutex
	rows   []domain.Review
	loaded bool
}

func New(path string) *Store { return &Store{path: path} }

// Reviews returns the normalized dataset, loading it on first use.
// Concurrent first calls collapse into a single parse.
func (s *Store) Reviews(ctx context.Context) ([]domain.Review, error) {
	s.mu.RLock()
	if s.loaded {
		rows := s.rows
		s.mu.RUnlock()
		return rows, nil
	}
	s.mu.RUnlock()

	v, err, _ := s.sf.Do(s.path, func() (any, error) {
		rows, err := load(s.path)
		observability.ObserveDatasetLoad(err, len(rows))
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.rows = rows
		s.loaded = true
		s.mu.Unlock()
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Review), nil
}

func load(path string) ([]domain.Review, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &domain.DataLoadError{Path: path, Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged rows recover field-by-field below

	header, err := r.Read()
	if err != nil {
		return nil, &domain.DataLoadError{Path: path, Err: fmt.Errorf("read header: %w", err)}
	}
	col := map[string]int{}
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			return nil, &domain.DataLoadError{Path: path, Err: fmt.Errorf("missing column %q", name)}
		}
	}

	var rows []domain.Review
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &domain.DataLoadError{Path: path, Err: err}
		}
		rows = append(rows, normalize(rec, col))
	}
	return rows, nil
}

func normalize(rec []string, col map[string]int) domain.Review {
	cell := func(name string) string {
		i := col[name]
		if i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	return domain.Review{
		PublishedDate: parseDate(cell("published_date")),
		Rating:        parseFloat(cell("rating")),
		HelpfulVotes:  parseVotes(cell("helpful_votes")),
		Platform:      fillUnknown(cell("published_platform")),
		Type:          fillUnknown(cell("type")),
		Title:         optional(cell("title")),
		Text:          optional(cell("text")),
	}
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			u := t.UTC()
			return &u
		}
	}
	return nil
}

func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseVotes(s string) int64 {
	// unparseable or missing votes count as zero
	if v := parseFloat(s); v != nil {
		return int64(*v)
	}
	return 0
}

func fillUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
