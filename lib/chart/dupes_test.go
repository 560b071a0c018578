package chart

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindNearDuplicates(t *testing.T) {
	entries := []Entry{
		{Rank: 1, TrackName: "Golden Hour", ArtistNames: "JVKE"},
		{Rank: 2, TrackName: "Daylight", ArtistNames: "David Kushner"},
		// same song, double-listed with slightly different credits
		{Rank: 3, TrackName: "golden hour", ArtistNames: "JVKE "},
	}

	dupes := FindNearDuplicates(entries, 0)
	require.Len(t, dupes, 1)
	require.Equal(t, 0, dupes[0].A)
	require.Equal(t, 2, dupes[0].B)
	require.GreaterOrEqual(t, dupes[0].Similarity, DefaultSimilarityThreshold)
}

func TestFindNearDuplicatesCleanChart(t *testing.T) {
	entries := []Entry{
		{Rank: 1, TrackName: "Golden Hour", ArtistNames: "JVKE"},
		{Rank: 2, TrackName: "Daylight", ArtistNames: "David Kushner"},
		{Rank: 3, TrackName: "Snooze", ArtistNames: "SZA"},
	}
	require.Empty(t, FindNearDuplicates(entries, 0))
}
