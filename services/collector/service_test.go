package collector

import (
	"context"
	"fmt"
	"testing"
	"ytcharts-backend/lib/chart"
	"ytcharts-backend/lib/scrapers/ytcharts"
	"ytcharts-backend/lib/testutil"
	"ytcharts-backend/lib/timezone"
	"ytcharts-backend/services/archive"

	"github.com/stretchr/testify/require"
)

type stubSource struct {
	name    string
	entries []chart.Entry
	err     error
	calls   int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(ctx context.Context) ([]chart.Entry, error) {
	s.calls++
	return s.entries, s.err
}

func TestCollectFallsThroughFailingSources(t *testing.T) {
	_, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name: "services/collector",
	})
	defer cleanup()

	broken := &stubSource{name: "broken", err: fmt.Errorf("boom")}
	empty := &stubSource{name: "empty"}
	good := &stubSource{name: "good", entries: ytcharts.Sample(5)}
	unreached := &stubSource{name: "unreached", entries: ytcharts.Sample(3)}

	service, err := NewService(Options{
		Sources: []Source{broken, empty, good, unreached},
	})
	require.NoError(t, err)

	snapshot, err := service.Collect(context.Background())
	require.NoError(t, err)
	require.Equal(t, "good", snapshot.Source)
	require.Len(t, snapshot.Entries, 5)
	require.Equal(t, chart.CurrentWeek(timezone.Now()), snapshot.Week)

	require.Equal(t, 1, broken.calls)
	require.Equal(t, 1, empty.calls)
	require.Equal(t, 1, good.calls)
	require.Equal(t, 0, unreached.calls, "sources after the first success must not run")
}

func TestCollectAllSourcesFail(t *testing.T) {
	_, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name: "services/collector",
	})
	defer cleanup()

	service, err := NewService(Options{
		Sources: []Source{&stubSource{name: "broken", err: fmt.Errorf("boom")}},
	})
	require.NoError(t, err)

	_, err = service.Collect(context.Background())
	require.Error(t, err)
}

func TestNewServiceRequiresSources(t *testing.T) {
	_, err := NewService(Options{})
	require.Error(t, err)
}

func TestRun(t *testing.T) {
	_, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name: "services/collector",
	})
	defer cleanup()

	archiveService, err := archive.NewService(archive.Options{Root: t.TempDir()})
	require.NoError(t, err)

	service, err := NewService(Options{
		Sources: []Source{SampleSource{Size: 10}},
		Archive: archiveService,
	})
	require.NoError(t, err)

	report, err := service.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, "sample", report.Snapshot.Source)
	require.False(t, report.Result.Skipped)
	require.Equal(t, 10, report.Result.Inserted)
	require.FileExists(t, report.CSVPath)
	require.FileExists(t, report.Result.DatabasePath)
	require.Len(t, report.Stats, 1)
	require.Equal(t, int64(10), report.Stats[0].Entries)

	// a second run the same day is a skip, not a failure
	report, err = service.Run(context.Background())
	require.NoError(t, err)
	require.True(t, report.Result.Skipped)
}

func TestSampleSourceNeverFails(t *testing.T) {
	entries, err := SampleSource{}.Fetch(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, entries)
}
