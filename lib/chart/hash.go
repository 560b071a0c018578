package chart

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Fingerprint computes the canonical content hash of a set of entries.
// It covers only the chart data itself, never snapshot metadata, so
// re-fetching identical data always produces the same fingerprint.
func Fingerprint(entries []Entry) string {
	h := sha256.New()
	for _, e := range entries {
		fmt.Fprintf(
			h, "%d\x1f%d\x1f%s\x1f%s\x1f%d\x1f%d\x1f%s\x1f%s\n",
			e.Rank,
			e.PreviousRank,
			strings.TrimSpace(e.TrackName),
			strings.TrimSpace(e.ArtistNames),
			e.PeriodsOnChart,
			e.Views,
			strings.TrimSpace(e.Growth),
			strings.TrimSpace(e.URL),
		)
	}
	return hex.EncodeToString(h.Sum(nil))
}
