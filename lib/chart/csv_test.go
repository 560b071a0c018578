package chart

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestCSVRoundTrip(t *testing.T) {
	entries := []Entry{
		{
			Rank:           1,
			PreviousRank:   2,
			TrackName:      "Song, With Commas",
			ArtistNames:    "Artist A & Artist B",
			PeriodsOnChart: 14,
			Views:          9_500_000,
			Growth:         "0.98%",
			URL:            "https://www.youtube.com/watch?v=abc123",
		},
		{
			Rank:           2,
			PreviousRank:   1,
			TrackName:      "Another Song",
			ArtistNames:    "Solo Artist",
			PeriodsOnChart: 3,
			Views:          7_000_123,
			Growth:         "-0.12%",
			URL:            "https://www.youtube.com/watch?v=def456",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, entries))

	parsed, err := ReadCSV(&buf)
	require.NoError(t, err)

	if diff := cmp.Diff(entries, parsed); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReadCSVRealExportShape(t *testing.T) {
	// the header and formatting the charts site actually exports,
	// including thousands separators inside quoted cells
	input := strings.Join([]string{
		`Rank,Previous Rank,Track Name,Artist Names,Periods on Chart,Views,Growth,YouTube URL`,
		`1,1,Golden Hour,JVKE,22,"12,345,678",1.20%,https://www.youtube.com/watch?v=aaa`,
		`2,4,Daylight,"Cole, David",5,"9,000,001",0.40%,https://www.youtube.com/watch?v=bbb`,
		``,
	}, "\n")

	entries, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.Equal(t, 1, entries[0].Rank)
	require.Equal(t, int64(12_345_678), entries[0].Views)
	require.Equal(t, "Cole, David", entries[1].ArtistNames)
	require.Equal(t, 4, entries[1].PreviousRank)
}

func TestReadCSVLatin1(t *testing.T) {
	// 0xE9 is 'é' in latin-1 and invalid utf-8 on its own
	input := []byte("Rank,Previous Rank,Track Name,Artist Names,Periods on Chart,Views,Growth,YouTube URL\n" +
		"1,1,Caf\xe9 Song,Beyonc\xe9,2,1000,0.10%,https://www.youtube.com/watch?v=ccc\n")

	entries, err := ReadCSV(bytes.NewReader(input))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "Café Song", entries[0].TrackName)
	require.Equal(t, "Beyoncé", entries[0].ArtistNames)
}

func TestReadCSVStructuralErrors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	require.Error(t, err)

	_, err = ReadCSV(strings.NewReader("Completely,Different,Header\n1,2,3\n"))
	require.Error(t, err)

	_, err = ReadCSV(strings.NewReader("Rank,Previous Rank,Track Name,Artist Names,Periods on Chart,Views,Growth,YouTube URL\n"))
	require.Error(t, err)
}
