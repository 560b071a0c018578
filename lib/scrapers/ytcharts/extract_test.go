package ytcharts

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func docFromString(t *testing.T, html string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

const tablePage = `
<html><body>
<div id="chart">
<table>
  <tr>
    <th>Rank</th><th>Previous Rank</th><th>Track Name</th><th>Artist Names</th>
    <th>Periods on Chart</th><th>Views</th><th>Growth</th><th>YouTube URL</th>
  </tr>
  <tr>
    <td>1</td><td>2</td><td>  Golden
    Hour  </td><td>JVKE</td>
    <td>22</td><td>12,345,678</td><td>1.20%</td>
    <td><a href="https://www.youtube.com/watch?v=aaa">https://www.youtube.com/watch?v=aaa</a></td>
  </tr>
  <tr>
    <td>2</td><td>1</td><td>Daylight</td><td>David Kushner</td>
    <td>5</td><td>9,000,001</td><td>0.40%</td>
    <td>https://www.youtube.com/watch?v=bbb</td>
  </tr>
</table>
</div>
</body></html>`

func TestExtractTable(t *testing.T) {
	entries, err := ExtractTable(context.Background(), docFromString(t, tablePage))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.Equal(t, 1, entries[0].Rank)
	require.Equal(t, "Golden Hour", entries[0].TrackName)
	require.Equal(t, int64(12_345_678), entries[0].Views)
	require.Equal(t, "https://www.youtube.com/watch?v=aaa", entries[0].URL)

	require.Equal(t, 1, entries[1].PreviousRank)
	require.Equal(t, "David Kushner", entries[1].ArtistNames)
}

func TestExtractTableMissing(t *testing.T) {
	_, err := ExtractTable(context.Background(), docFromString(t, `<html><body>
		<table><tr><th>Unrelated</th></tr><tr><td>data</td></tr></table>
	</body></html>`))
	require.ErrorIs(t, err, ErrNoTable)
}

const jsonPage = `
<html><head>
<script>
window.__INITIAL_DATA__ = {"chart":{"entries":[
  {"rank":1,"previousRank":2,"title":"Golden Hour","artists":["JVKE"],
   "periodsOnChart":22,"viewCount":"12345678","growthPercentage":"1.20%","videoId":"aaa"},
  {"rank":2,"previousRank":1,"title":"Daylight","artists":["David Kushner","feat. Nobody"],
   "periodsOnChart":5,"viewCount":"9000001","growthPercentage":"0.40%","videoId":"bbb"}
]}};
</script>
</head><body></body></html>`

func TestExtractEmbeddedJSON(t *testing.T) {
	entries, err := ExtractEmbeddedJSON(context.Background(), docFromString(t, jsonPage))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.Equal(t, "Golden Hour", entries[0].TrackName)
	require.Equal(t, int64(12_345_678), entries[0].Views)
	require.Equal(t, "https://www.youtube.com/watch?v=aaa", entries[0].URL)
	require.Equal(t, "David Kushner, feat. Nobody", entries[1].ArtistNames)
}

func TestExtractEmbeddedJSONMissing(t *testing.T) {
	_, err := ExtractEmbeddedJSON(context.Background(), docFromString(t, `<html><head>
		<script>var somethingElse = 1;</script>
	</head></html>`))
	require.ErrorIs(t, err, ErrNoEmbeddedData)
}

func TestSampleShape(t *testing.T) {
	entries := Sample(100)
	require.Len(t, entries, 100)
	require.Equal(t, 1, entries[0].Rank)
	require.Equal(t, 1, entries[0].PreviousRank)
	require.Equal(t, 99, entries[99].PreviousRank)

	// deterministic: two calls produce identical data
	require.Equal(t, entries, Sample(100))
}
