package ytcharts

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"ytcharts-backend/lib/chart"
	"ytcharts-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var ErrNoTable = fmt.Errorf("no chart table found in page")
var ErrNoEmbeddedData = fmt.Errorf("no embedded chart data found in page")

// ExtractTable reads the first html table on the page whose header row
// contains a "Track Name" column. Column positions come from the
// header, not from fixed offsets.
func ExtractTable(ctx context.Context, doc *goquery.Document) ([]chart.Entry, error) {
	ctx, span := tracer.Start(ctx, "ExtractTable")
	defer span.End()

	var entries []chart.Entry
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		columns := map[string]int{}
		table.Find("tr").First().Find("th, td").Each(func(i int, cell *goquery.Selection) {
			columns[htmlutil.CleanText(cell.Text())] = i
		})
		if _, ok := columns["Track Name"]; !ok {
			return true
		}

		table.Find("tr").Each(func(rowIdx int, row *goquery.Selection) {
			if rowIdx == 0 {
				return
			}
			cells := row.Find("td").Map(func(_ int, cell *goquery.Selection) string {
				return htmlutil.CleanText(cell.Text())
			})
			cell := func(name string) string {
				i, ok := columns[name]
				if !ok || i >= len(cells) {
					return ""
				}
				return cells[i]
			}
			if cell("Track Name") == "" {
				return
			}

			url := cell("YouTube URL")
			if url == "" {
				url = row.Find("a").AttrOr("href", "")
			}
			entries = append(entries, chart.Entry{
				Rank:           atoi(cell("Rank")),
				PreviousRank:   atoi(cell("Previous Rank")),
				TrackName:      cell("Track Name"),
				ArtistNames:    cell("Artist Names"),
				PeriodsOnChart: atoi(cell("Periods on Chart")),
				Views:          atoi64(cell("Views")),
				Growth:         cell("Growth"),
				URL:            url,
			})
		})
		return false
	})

	if len(entries) == 0 {
		span.SetStatus(codes.Error, ErrNoTable.Error())
		return nil, ErrNoTable
	}
	span.SetAttributes(attribute.Int("entries", len(entries)))
	return entries, nil
}

var embeddedDataRegex = regexp.MustCompile(`(?s)window\.__INITIAL_DATA__\s*=\s*(\{.+?\})\s*;`)

type embeddedEntry struct {
	Rank             int      `json:"rank"`
	PreviousRank     int      `json:"previousRank"`
	Title            string   `json:"title"`
	Artists          []string `json:"artists"`
	PeriodsOnChart   int      `json:"periodsOnChart"`
	ViewCount        string   `json:"viewCount"`
	GrowthPercentage string   `json:"growthPercentage"`
	VideoId          string   `json:"videoId"`
}

type embeddedPayload struct {
	Chart struct {
		Entries []embeddedEntry `json:"entries"`
	} `json:"chart"`
}

// ExtractEmbeddedJSON pulls the chart payload the page embeds in a
// <script> tag for its own renderer (the same place the teacher site
// keeps its session config).
func ExtractEmbeddedJSON(ctx context.Context, doc *goquery.Document) ([]chart.Entry, error) {
	ctx, span := tracer.Start(ctx, "ExtractEmbeddedJSON")
	defer span.End()

	for _, script := range doc.Find("script").Nodes {
		text := htmlutil.GetText(script)
		groups := embeddedDataRegex.FindStringSubmatch(text)
		if len(groups) < 2 {
			continue
		}

		var payload embeddedPayload
		err := json.Unmarshal([]byte(groups[1]), &payload)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to unmarshal embedded chart data")
			return nil, fmt.Errorf("unmarshal embedded chart data: %w", err)
		}
		if len(payload.Chart.Entries) == 0 {
			continue
		}

		entries := make([]chart.Entry, 0, len(payload.Chart.Entries))
		for _, e := range payload.Chart.Entries {
			entries = append(entries, chart.Entry{
				Rank:           e.Rank,
				PreviousRank:   e.PreviousRank,
				TrackName:      e.Title,
				ArtistNames:    strings.Join(e.Artists, ", "),
				PeriodsOnChart: e.PeriodsOnChart,
				Views:          atoi64(e.ViewCount),
				Growth:         e.GrowthPercentage,
				URL:            fmt.Sprintf("https://www.youtube.com/watch?v=%s", e.VideoId),
			})
		}
		span.SetAttributes(attribute.Int("entries", len(entries)))
		return entries, nil
	}

	span.SetStatus(codes.Error, ErrNoEmbeddedData.Error())
	return nil, ErrNoEmbeddedData
}

func atoi(s string) int {
	n, _ := parseInt(s)
	return int(n)
}

func atoi64(s string) int64 {
	n, _ := parseInt(s)
	return n
}

func parseInt(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	var n int64
	_, err := fmt.Sscanf(s, "%d", &n)
	return n, err
}
