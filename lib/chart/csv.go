package chart

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// the exact header row of the chart csv export, column order included
var csvHeader = []string{
	"Rank",
	"Previous Rank",
	"Track Name",
	"Artist Names",
	"Periods on Chart",
	"Views",
	"Growth",
	"YouTube URL",
}

// ReadCSV parses a chart csv export. The export is usually utf-8 but
// older downloads show up as latin-1, so invalid utf-8 is re-decoded
// byte-per-rune instead of rejected. Unknown columns are ignored,
// missing numeric cells parse as zero.
func ReadCSV(r io.Reader) ([]Entry, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if !utf8.Valid(raw) {
		raw = decodeLatin1(raw)
	}

	reader := csv.NewReader(strings.NewReader(string(raw)))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read csv: empty file")
	}

	columns := map[string]int{}
	for i, name := range records[0] {
		columns[strings.TrimSpace(name)] = i
	}
	if _, ok := columns["Track Name"]; !ok {
		return nil, fmt.Errorf("read csv: unrecognized header %v", records[0])
	}

	cell := func(record []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var entries []Entry
	for _, record := range records[1:] {
		if len(record) == 0 || (len(record) == 1 && record[0] == "") {
			continue
		}
		entries = append(entries, Entry{
			Rank:           atoi(cell(record, "Rank")),
			PreviousRank:   atoi(cell(record, "Previous Rank")),
			TrackName:      cell(record, "Track Name"),
			ArtistNames:    cell(record, "Artist Names"),
			PeriodsOnChart: atoi(cell(record, "Periods on Chart")),
			Views:          atoi64(cell(record, "Views")),
			Growth:         cell(record, "Growth"),
			URL:            cell(record, "YouTube URL"),
		})
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("read csv: no data rows")
	}
	return entries, nil
}

func WriteCSV(w io.Writer, entries []Entry) error {
	writer := csv.NewWriter(w)
	err := writer.Write(csvHeader)
	if err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	for _, e := range entries {
		err = writer.Write([]string{
			strconv.Itoa(e.Rank),
			strconv.Itoa(e.PreviousRank),
			e.TrackName,
			e.ArtistNames,
			strconv.Itoa(e.PeriodsOnChart),
			strconv.FormatInt(e.Views, 10),
			e.Growth,
			e.URL,
		})
		if err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func decodeLatin1(raw []byte) []byte {
	out := make([]rune, 0, len(raw))
	for _, b := range raw {
		out = append(out, rune(b))
	}
	return []byte(string(out))
}

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.ReplaceAll(s, ",", ""))
	return n
}

func atoi64(s string) int64 {
	n, _ := strconv.ParseInt(strings.ReplaceAll(s, ",", ""), 10, 64)
	return n
}
