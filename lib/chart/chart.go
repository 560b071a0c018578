// Package chart holds the domain model for weekly music chart data:
// the entry rows themselves, snapshot metadata, ISO week identity and
// the csv wire format the charts site exports.
package chart

import (
	"fmt"
	"time"
	"ytcharts-backend/lib/timezone"

	"github.com/google/uuid"
)

// Entry is a single row of the weekly top songs table.
type Entry struct {
	Rank           int
	PreviousRank   int
	TrackName      string
	ArtistNames    string
	PeriodsOnChart int
	Views          int64
	// Growth is kept verbatim (e.g. "0.98%"), the site formats it
	// inconsistently across weeks so we archive rather than parse.
	Growth string
	URL    string
}

// Snapshot is one acquired copy of the chart, ready for ingestion.
type Snapshot struct {
	ID        string
	Week      Week
	FetchedAt time.Time
	// Source names the acquisition strategy that produced this
	// snapshot ("browser", "http", "sample", ...).
	Source  string
	Entries []Entry
}

func NewSnapshot(source string, week Week, entries []Entry) Snapshot {
	return Snapshot{
		ID:        uuid.NewString(),
		Week:      week,
		FetchedAt: timezone.Now(),
		Source:    source,
		Entries:   entries,
	}
}

func (s Snapshot) Validate() error {
	if len(s.Entries) == 0 {
		return fmt.Errorf("snapshot %s has no entries", s.ID)
	}
	for i, e := range s.Entries {
		if e.Rank <= 0 {
			return fmt.Errorf("entry %d has invalid rank %d", i, e.Rank)
		}
		if e.TrackName == "" {
			return fmt.Errorf("entry %d (rank %d) has no track name", i, e.Rank)
		}
	}
	return nil
}
