// Package collector drives one end-to-end run: acquire the current
// chart through a chain of fallback sources, archive it, then tidy up.
package collector

import (
	"context"
	"fmt"
	"log/slog"
	"ytcharts-backend/lib/chart"
	"ytcharts-backend/lib/timezone"
	"ytcharts-backend/services/archive"
	"ytcharts-backend/services/notify"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("services/collector")

type Options struct {
	// Sources are tried in order until one yields a usable chart.
	Sources []Source
	Archive archive.Service
	// Notify is consulted only when it is configured.
	Notify notify.Service
}

type Service struct {
	sources []Source
	archive archive.Service
	notify  notify.Service
}

func NewService(options Options) (Service, error) {
	if len(options.Sources) == 0 {
		return Service{}, fmt.Errorf("no chart sources were provided")
	}
	return Service{
		sources: options.Sources,
		archive: options.Archive,
		notify:  options.Notify,
	}, nil
}

// Collect tries each source in order and returns a snapshot built from
// the first one that succeeds.
func (s Service) Collect(ctx context.Context) (chart.Snapshot, error) {
	ctx, span := tracer.Start(ctx, "Collect")
	defer span.End()

	week := chart.CurrentWeek(timezone.Now())
	span.SetAttributes(attribute.String("week", week.String()))

	for _, source := range s.sources {
		entries, err := source.Fetch(ctx)
		if err != nil {
			slog.Warn("chart source failed", "source", source.Name(), "err", err)
			span.AddEvent("source failed", trace.WithAttributes(
				attribute.String("source", source.Name()),
				attribute.String("err", err.Error()),
			))
			continue
		}

		snapshot := chart.NewSnapshot(source.Name(), week, entries)
		err = snapshot.Validate()
		if err != nil {
			slog.Warn("chart source returned an unusable chart", "source", source.Name(), "err", err)
			span.AddEvent("source returned unusable chart", trace.WithAttributes(
				attribute.String("source", source.Name()),
				attribute.String("err", err.Error()),
			))
			continue
		}

		slog.Info("chart acquired", "source", source.Name(), "week", week.String(), "rows", len(entries))
		span.SetAttributes(attribute.String("source", source.Name()))
		return snapshot, nil
	}

	err := fmt.Errorf("all %d chart sources failed", len(s.sources))
	span.RecordError(err)
	span.SetStatus(codes.Error, "no source produced a chart")
	return chart.Snapshot{}, err
}

// RunReport is everything a single run produced.
type RunReport struct {
	Snapshot        chart.Snapshot
	Result          archive.IngestResult
	CSVPath         string
	BackupsDeleted  int
	DatabaseDeleted int
	Stats           []archive.WeekStats
}

// Run performs a full pipeline pass: collect, write the latest csv,
// ingest, run retention cleanup and gather the archive summary. A
// configured notify service gets a report; its failures are logged and
// swallowed.
func (s Service) Run(ctx context.Context) (RunReport, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	snapshot, err := s.Collect(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "collect failed")
		return RunReport{}, err
	}
	report := RunReport{Snapshot: snapshot}

	report.CSVPath, err = s.archive.WriteLatestCSV(snapshot)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write latest csv")
		return RunReport{}, err
	}

	report.Result, err = s.archive.Ingest(ctx, snapshot)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "ingest failed")
		return RunReport{}, err
	}
	if report.Result.Skipped {
		slog.Info("snapshot skipped", "reason", report.Result.Reason)
	} else {
		slog.Info("snapshot ingested", "rows", report.Result.Inserted, "database", report.Result.DatabasePath)
	}

	report.BackupsDeleted, err = s.archive.CleanupBackups(ctx)
	if err != nil {
		slog.Warn("backup cleanup failed", "err", err)
		span.RecordError(err)
	}
	report.DatabaseDeleted, err = s.archive.CleanupDatabases(ctx)
	if err != nil {
		slog.Warn("database cleanup failed", "err", err)
		span.RecordError(err)
	}

	report.Stats, err = s.archive.ListDatabases(ctx)
	if err != nil {
		slog.Warn("failed to gather archive stats", "err", err)
		span.RecordError(err)
	}

	if s.notify.Enabled() {
		err = s.notify.SendRunSummary(ctx, notify.RunSummary{
			Week:         snapshot.Week.String(),
			Source:       snapshot.Source,
			Rows:         len(snapshot.Entries),
			Skipped:      report.Result.Skipped,
			Reason:       report.Result.Reason,
			DatabasePath: report.Result.DatabasePath,
			BackupPath:   report.Result.BackupPath,
		})
		if err != nil {
			slog.Warn("failed to mail run summary", "err", err)
			span.RecordError(err)
		}
	}

	return report, nil
}
