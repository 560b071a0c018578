package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
	"ytcharts-backend/lib/chart"
	"ytcharts-backend/lib/testutil"
	"ytcharts-backend/lib/timezone"

	"github.com/stretchr/testify/require"
)

func touchFile(t *testing.T, path string, mtime time.Time) {
	require.NoError(t, os.WriteFile(path, []byte("stub"), 0666))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func TestCleanupBackups(t *testing.T) {
	_, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name: "services/archive",
	})
	defer cleanup()

	service, err := NewService(Options{Root: t.TempDir(), BackupRetentionDays: 7})
	require.NoError(t, err)

	old := filepath.Join(service.backupDir, "backup_2025-W01_20250101_120000.db")
	recent := filepath.Join(service.backupDir, "backup_2025-W05_20250128_120000.db")
	touchFile(t, old, timezone.Now().AddDate(0, 0, -30))
	touchFile(t, recent, timezone.Now().Add(-time.Hour))

	deleted, err := service.CleanupBackups(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, deleted)

	require.NoFileExists(t, old)
	require.FileExists(t, recent)
}

func TestCleanupDatabases(t *testing.T) {
	_, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name: "services/archive",
	})
	defer cleanup()

	service, err := NewService(Options{Root: t.TempDir(), DatabaseRetentionWeeks: 52})
	require.NoError(t, err)

	now := timezone.Now()
	currentWeek := chart.CurrentWeek(now)
	expiredWeek := chart.CurrentWeek(now.AddDate(0, 0, -7*60))
	keptWeek := chart.CurrentWeek(now.AddDate(0, 0, -7*10))

	expired := service.DatabasePath(expiredWeek)
	kept := service.DatabasePath(keptWeek)
	current := service.DatabasePath(currentWeek)
	malformed := filepath.Join(service.databaseDir, "youtube_charts_garbage.db")

	for _, path := range []string{expired, kept, current, malformed} {
		touchFile(t, path, now)
	}

	deleted, err := service.CleanupDatabases(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, deleted, "only the expired week should go")

	require.NoFileExists(t, expired)
	require.FileExists(t, kept)
	require.FileExists(t, current)
	require.FileExists(t, malformed, "unparseable names are never deleted")
}

func TestWeekFromDatabaseName(t *testing.T) {
	week, err := weekFromDatabaseName(fmt.Sprintf("youtube_charts_%s.db", chart.Week{Year: 2025, Num: 5}))
	require.NoError(t, err)
	require.Equal(t, chart.Week{Year: 2025, Num: 5}, week)

	_, err = weekFromDatabaseName("youtube_charts_garbage.db")
	require.Error(t, err)
}
