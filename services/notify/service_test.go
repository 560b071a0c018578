package notify

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnabled(t *testing.T) {
	require.False(t, NewService(Options{}).Enabled())
	require.False(t, NewService(Options{
		Smtp: SmtpConfig{Server: "smtp.example.com"},
	}).Enabled())
	require.True(t, NewService(Options{
		Smtp:       SmtpConfig{Server: "smtp.example.com", Port: 587},
		Recipients: []string{"ops@example.com"},
	}).Enabled())
}

func TestRunSummaryText(t *testing.T) {
	ingested := RunSummary{
		Week:         "2025-W05",
		Source:       "browser",
		Rows:         100,
		DatabasePath: "/data/databases/youtube_charts_2025-W05.db",
	}
	require.Equal(t, "Chart run 2025-W05: 100 rows ingested", ingested.subject())
	require.Contains(t, ingested.body(), "Source:   browser")
	require.NotContains(t, ingested.body(), "Skipped")

	skipped := RunSummary{
		Week:       "2025-W05",
		Source:     "http",
		Rows:       100,
		Skipped:    true,
		Reason:     "identical content already ingested",
		BackupPath: "/data/backup/backup_2025-W05_20250128_090000.db",
	}
	require.Equal(t, "Chart run 2025-W05: skipped", skipped.subject())
	require.Contains(t, skipped.body(), "identical content")
	require.Contains(t, skipped.body(), "Backup:")
}
