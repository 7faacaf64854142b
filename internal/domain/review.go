package domain

import (
	"fmt"
	"time"
)

// Review is one normalized dataset row. Optional columns stay nil when the
// raw cell was missing or unparseable; HelpfulVotes and the category columns
// always carry a value after normalization.
type Review struct {
	PublishedDate *time.Time
	Rating        *float64
	HelpfulVotes  int64
	Platform      string // "Unknown" when absent
	Type          string // "Unknown" when absent
	Title         *string
	Text          *string
}

// PositiveRating / NegativeRating are the bands used for the share metrics
// and the keyword corpora.
func PositiveRating(r *float64) bool { return r != nil && (*r == 4 || *r == 5) }
func NegativeRating(r *float64) bool { return r != nil && (*r == 1 || *r == 2) }

// DataLoadError means the dataset itself could not be read or parsed.
// Per-field parse failures are not load errors; rows recover locally.
type DataLoadError struct {
	Path string
	Err  error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("dataset load failed for %s: %v", e.Path, e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }
