package chart

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// NearDuplicate flags two rows of the same snapshot that look like the
// same song listed twice (the site occasionally double-lists a track
// under slightly different artist credits).
type NearDuplicate struct {
	A          int
	B          int
	Similarity float64
}

const DefaultSimilarityThreshold = 0.95

// FindNearDuplicates compares every pair of rows by normalized
// track+artist string. This is a data quality signal for logs, it
// never mutates or drops entries.
func FindNearDuplicates(entries []Entry, threshold float64) []NearDuplicate {
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}

	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = normalizeKey(e)
	}

	var dupes []NearDuplicate
	for a := 0; a < len(keys); a++ {
		for b := a + 1; b < len(keys); b++ {
			similarity := matchr.JaroWinkler(keys[a], keys[b], false)
			if similarity >= threshold {
				dupes = append(dupes, NearDuplicate{
					A:          a,
					B:          b,
					Similarity: similarity,
				})
			}
		}
	}
	return dupes
}

func normalizeKey(e Entry) string {
	key := strings.ToLower(e.TrackName + " " + e.ArtistNames)
	return strings.Join(strings.Fields(key), " ")
}
