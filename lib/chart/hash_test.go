package chart

import (
	"testing"
	"time"
	"ytcharts-backend/lib/timezone"

	"github.com/stretchr/testify/require"
)

func TestFingerprintStable(t *testing.T) {
	entries := []Entry{
		{Rank: 1, TrackName: "A", ArtistNames: "X", Views: 100},
		{Rank: 2, TrackName: "B", ArtistNames: "Y", Views: 50},
	}

	require.Equal(t, Fingerprint(entries), Fingerprint(entries))

	// snapshot metadata must not influence the fingerprint
	a := NewSnapshot("http", Week{2025, 5}, entries)
	b := Snapshot{
		ID:        "fixed",
		Week:      Week{2024, 1},
		FetchedAt: time.Date(2000, 1, 1, 0, 0, 0, 0, timezone.Location),
		Source:    "sample",
		Entries:   entries,
	}
	require.Equal(t, Fingerprint(a.Entries), Fingerprint(b.Entries))
}

func TestFingerprintSensitivity(t *testing.T) {
	base := []Entry{{Rank: 1, TrackName: "A", ArtistNames: "X", Views: 100}}

	changedViews := []Entry{{Rank: 1, TrackName: "A", ArtistNames: "X", Views: 101}}
	require.NotEqual(t, Fingerprint(base), Fingerprint(changedViews))

	changedOrder := []Entry{
		{Rank: 2, TrackName: "B", ArtistNames: "Y"},
		{Rank: 1, TrackName: "A", ArtistNames: "X", Views: 100},
	}
	require.NotEqual(t, Fingerprint(base), Fingerprint(changedOrder))

	// surrounding whitespace is not meaningful content
	padded := []Entry{{Rank: 1, TrackName: " A ", ArtistNames: "X", Views: 100}}
	require.Equal(t, Fingerprint(base), Fingerprint(padded))
}
