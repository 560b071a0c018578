package collector

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"ytcharts-backend/lib/chart"
	"ytcharts-backend/lib/scrapers/ytcharts"
	"ytcharts-backend/lib/scrapers/ytcharts/browser"
)

// Source is one strategy for acquiring the current chart. Sources are
// tried in order until one produces entries.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]chart.Entry, error)
}

// BrowserSource clicks the page's own download button through a
// headless browser. The most faithful strategy and the slowest one.
type BrowserSource struct {
	PageUrl     string
	DownloadDir string
	Options     *browser.Options
}

func (s BrowserSource) Name() string { return "browser" }

func (s BrowserSource) Fetch(ctx context.Context) ([]chart.Entry, error) {
	b, err := browser.New(s.Options)
	if err != nil {
		return nil, err
	}
	defer b.Close()

	err = os.MkdirAll(s.DownloadDir, 0777)
	if err != nil {
		return nil, err
	}
	dest := filepath.Join(s.DownloadDir, "browser_download.csv")

	err = b.DownloadChartCSV(s.PageUrl, dest)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(dest)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return chart.ReadCSV(f)
}

// HTTPSource goes straight at the site with a plain http client: the
// csv export endpoint first, then the page table, then the json
// payload the page embeds for its own renderer.
type HTTPSource struct {
	Client *ytcharts.Client
}

func (s HTTPSource) Name() string { return "http" }

func (s HTTPSource) Fetch(ctx context.Context) ([]chart.Entry, error) {
	entries, err := s.Client.DownloadCSV(ctx)
	if err == nil {
		return entries, nil
	}
	slog.Warn("csv export failed, falling back to page extraction", "err", err)

	doc, err := s.Client.FetchPage(ctx)
	if err != nil {
		return nil, err
	}

	entries, tableErr := ytcharts.ExtractTable(ctx, doc)
	if tableErr == nil {
		return entries, nil
	}

	entries, jsonErr := ytcharts.ExtractEmbeddedJSON(ctx, doc)
	if jsonErr == nil {
		return entries, nil
	}

	return nil, fmt.Errorf("page extraction failed: %w (table: %v)", jsonErr, tableErr)
}

// SampleSource is the last resort: deterministic synthetic data so a
// broken page never leaves the rest of the pipeline unexercised.
type SampleSource struct {
	Size int
}

func (s SampleSource) Name() string { return "sample" }

func (s SampleSource) Fetch(ctx context.Context) ([]chart.Entry, error) {
	size := s.Size
	if size <= 0 {
		size = 100
	}
	return ytcharts.Sample(size), nil
}
