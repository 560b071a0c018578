package browser

import (
	"fmt"
	"log/slog"

	"github.com/playwright-community/playwright-go"
)

// download control selectors in order of preference, the page has
// cycled through all of these across redesigns
var downloadSelectors = []string{
	"#download-button",
	`paper-icon-button[title="download"]`,
	`button[aria-label*="download" i]`,
}

// DownloadChartCSV navigates to the chart page, clicks its download
// button and saves the resulting csv to dest.
func (b *Browser) DownloadChartCSV(pageUrl, dest string) error {
	page, err := b.NewPage()
	if err != nil {
		return err
	}
	defer page.Close()

	_, err = page.Goto(pageUrl, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
	})
	if err != nil {
		return fmt.Errorf("failed to navigate to chart page: %w", err)
	}

	// scroll a few screens to trigger the lazily rendered chart body
	for i := 0; i < 5; i++ {
		_, err = page.Evaluate("window.scrollBy(0, 800)")
		if err != nil {
			return fmt.Errorf("failed to scroll page: %w", err)
		}
		page.WaitForTimeout(1500)
	}

	var lastErr error
	for _, selector := range downloadSelectors {
		locator := page.Locator(selector).First()

		visible, err := locator.IsVisible()
		if err != nil || !visible {
			count, countErr := locator.Count()
			if countErr != nil || count == 0 {
				slog.Debug("download selector not present", "selector", selector)
				continue
			}
			err = locator.ScrollIntoViewIfNeeded()
			if err != nil {
				lastErr = err
				continue
			}
		}

		download, err := page.ExpectDownload(func() error {
			return locator.Click()
		})
		if err != nil {
			slog.Warn("download selector did not produce a download",
				"selector", selector, "err", err)
			lastErr = err
			continue
		}

		err = download.SaveAs(dest)
		if err != nil {
			return fmt.Errorf("failed to save download: %w", err)
		}
		slog.Info("chart csv downloaded", "selector", selector, "dest", dest)
		return nil
	}

	if lastErr != nil {
		return fmt.Errorf("could not trigger chart download: %w", lastErr)
	}
	return fmt.Errorf("could not find a download control on the chart page")
}
