package ytcharts

import (
	"fmt"
	"ytcharts-backend/lib/chart"
)

// Sample generates a deterministic synthetic chart shaped exactly like
// the real export. It backs the last-resort source so a broken page
// never leaves the pipeline without data to exercise.
func Sample(n int) []chart.Entry {
	entries := make([]chart.Entry, 0, n)
	for i := 1; i <= n; i++ {
		previous := i - 1
		if previous < 1 {
			previous = 1
		}
		entries = append(entries, chart.Entry{
			Rank:           i,
			PreviousRank:   previous,
			TrackName:      fmt.Sprintf("Popular Song %d", i),
			ArtistNames:    fmt.Sprintf("Artist %c and Collaborators", 'A'+rune((i-1)%26)),
			PeriodsOnChart: 10 + (i % 40),
			Views:          5_000_000 + int64(n-i)*50_000,
			Growth:         fmt.Sprintf("%.2f%%", float64(n+1-i)/float64(n)),
			URL:            fmt.Sprintf("https://www.youtube.com/watch?v=example%03d", i),
		})
	}
	return entries
}
