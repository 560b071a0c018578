// Package archive owns the persistent side of the pipeline: one sqlite
// database per ISO week, content-hash duplicate avoidance, pre-update
// backups and retention cleanup.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"ytcharts-backend/lib/chart"
	"ytcharts-backend/lib/sqliteutil"
	"ytcharts-backend/lib/timezone"
	"ytcharts-backend/services/archive/db"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/archive")

const databasePrefix = "youtube_charts_"
const latestCSVName = "latest_chart.csv"

type Options struct {
	// Root is the archive directory, databases/ and backup/ live
	// underneath it.
	Root string
	// BackupRetentionDays <= 0 means the default of 7.
	BackupRetentionDays int
	// DatabaseRetentionWeeks <= 0 means the default of 52.
	DatabaseRetentionWeeks int
	// Mirror optionally names a central database (local file or
	// remote libsql url) that receives every ingestion in addition
	// to the per-week files. Zero value disables mirroring.
	Mirror sqliteutil.Config
}

type Service struct {
	root        string
	databaseDir string
	backupDir   string

	backupRetentionDays    int
	databaseRetentionWeeks int
	mirror                 sqliteutil.Config
}

func NewService(opts Options) (Service, error) {
	if opts.Root == "" {
		return Service{}, fmt.Errorf("archive root was not specified")
	}
	if opts.BackupRetentionDays <= 0 {
		opts.BackupRetentionDays = 7
	}
	if opts.DatabaseRetentionWeeks <= 0 {
		opts.DatabaseRetentionWeeks = 52
	}

	s := Service{
		root:                   opts.Root,
		databaseDir:            filepath.Join(opts.Root, "databases"),
		backupDir:              filepath.Join(opts.Root, "backup"),
		backupRetentionDays:    opts.BackupRetentionDays,
		databaseRetentionWeeks: opts.DatabaseRetentionWeeks,
		mirror:                 opts.Mirror,
	}
	for _, dir := range []string{s.root, s.databaseDir, s.backupDir} {
		err := os.MkdirAll(dir, 0777)
		if err != nil {
			return Service{}, fmt.Errorf("create archive directory: %w", err)
		}
	}
	return s, nil
}

func (s Service) DatabasePath(week chart.Week) string {
	return filepath.Join(s.databaseDir, fmt.Sprintf("%s%s.db", databasePrefix, week))
}

func (s Service) LatestCSVPath() string {
	return filepath.Join(s.root, latestCSVName)
}

// IngestResult reports what Ingest did. A skipped result is a
// successful no-op, not an error.
type IngestResult struct {
	Week         chart.Week
	DatabasePath string
	BackupPath   string
	Inserted     int
	Skipped      bool
	Reason       string
}

// Ingest writes a snapshot into its week's database. Identical content
// (by fingerprint) and repeated same-day runs are skipped. If the
// database file already exists it is backed up before anything touches
// it.
func (s Service) Ingest(ctx context.Context, snapshot chart.Snapshot) (IngestResult, error) {
	ctx, span := tracer.Start(ctx, "Ingest")
	defer span.End()

	span.SetAttributes(
		attribute.String("week", snapshot.Week.String()),
		attribute.String("source", snapshot.Source),
		attribute.Int("entries", len(snapshot.Entries)),
	)

	err := snapshot.Validate()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid snapshot")
		return IngestResult{}, err
	}

	for _, dupe := range chart.FindNearDuplicates(snapshot.Entries, 0) {
		a := snapshot.Entries[dupe.A]
		b := snapshot.Entries[dupe.B]
		slog.Warn("chart rows look like the same song listed twice",
			"rank_a", a.Rank, "rank_b", b.Rank,
			"track_a", a.TrackName, "track_b", b.TrackName,
			"similarity", dupe.Similarity,
		)
	}

	result := IngestResult{
		Week:         snapshot.Week,
		DatabasePath: s.DatabasePath(snapshot.Week),
	}

	_, statErr := os.Stat(result.DatabasePath)
	databaseExists := statErr == nil

	if databaseExists {
		backupPath, err := s.backupDatabase(snapshot.Week)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to back up database")
			return IngestResult{}, err
		}
		result.BackupPath = backupPath
	}

	database, err := sqliteutil.OpenDB(db.Schema, result.DatabasePath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to open week database")
		return IngestResult{}, err
	}
	defer database.Close()
	qry := db.New(database)

	contentHash := chart.Fingerprint(snapshot.Entries)
	downloadDate := snapshot.FetchedAt.In(timezone.Location).Format("2006-01-02")
	downloadTime := snapshot.FetchedAt.In(timezone.Location).Format("15:04:05")

	hasHash, err := qry.HasContentHash(ctx, snapshot.Week.String(), contentHash)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to check content hash")
		return IngestResult{}, err
	}
	if hasHash {
		result.Skipped = true
		result.Reason = "identical content already ingested"
		span.SetAttributes(attribute.Bool("skipped", true))
		return result, nil
	}

	hasDate, err := qry.HasDownloadDate(ctx, snapshot.Week.String(), downloadDate)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to check download date")
		return IngestResult{}, err
	}
	if hasDate {
		result.Skipped = true
		result.Reason = fmt.Sprintf("already ingested on %s", downloadDate)
		span.SetAttributes(attribute.Bool("skipped", true))
		return result, nil
	}

	err = insertSnapshot(ctx, database, snapshot, contentHash, downloadDate, downloadTime)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to insert snapshot")
		return IngestResult{}, err
	}
	result.Inserted = len(snapshot.Entries)

	// the mirror is best-effort, a broken central db never fails a run
	if s.mirror != (sqliteutil.Config{}) {
		err = s.mirrorSnapshot(ctx, snapshot, contentHash, downloadDate, downloadTime)
		if err != nil {
			slog.Warn("failed to mirror snapshot", "err", err)
			span.RecordError(err)
		}
	}

	return result, nil
}

// insertSnapshot writes the ingestion row and its entries in one
// transaction.
func insertSnapshot(ctx context.Context, database *sql.DB, snapshot chart.Snapshot, contentHash, downloadDate, downloadTime string) error {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	txqry := db.New(database).WithTx(tx)

	err = txqry.CreateIngestion(ctx, db.CreateIngestionParams{
		ID:           snapshot.ID,
		WeekID:       snapshot.Week.String(),
		ContentHash:  contentHash,
		Source:       snapshot.Source,
		RowCount:     int64(len(snapshot.Entries)),
		DownloadDate: downloadDate,
		DownloadTime: downloadTime,
		CreatedAt:    snapshot.FetchedAt.Unix(),
	})
	if err != nil {
		return err
	}

	for _, e := range snapshot.Entries {
		err = txqry.CreateEntry(ctx, db.CreateEntryParams{
			IngestionID:    snapshot.ID,
			WeekID:         snapshot.Week.String(),
			Rank:           int64(e.Rank),
			PreviousRank:   int64(e.PreviousRank),
			TrackName:      e.TrackName,
			ArtistNames:    e.ArtistNames,
			PeriodsOnChart: int64(e.PeriodsOnChart),
			Views:          e.Views,
			Growth:         e.Growth,
			YoutubeUrl:     e.URL,
		})
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s Service) mirrorSnapshot(ctx context.Context, snapshot chart.Snapshot, contentHash, downloadDate, downloadTime string) error {
	database, err := s.mirror.OpenDB(db.Schema)
	if err != nil {
		return err
	}
	defer database.Close()

	exists, err := db.New(database).HasContentHash(ctx, snapshot.Week.String(), contentHash)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return insertSnapshot(ctx, database, snapshot, contentHash, downloadDate, downloadTime)
}

// WriteLatestCSV atomically replaces <root>/latest_chart.csv with the
// snapshot's data.
func (s Service) WriteLatestCSV(snapshot chart.Snapshot) (string, error) {
	dest := s.LatestCSVPath()

	tmp, err := os.CreateTemp(s.root, latestCSVName+".*")
	if err != nil {
		return "", fmt.Errorf("write latest csv: %w", err)
	}
	defer os.Remove(tmp.Name())

	err = chart.WriteCSV(tmp, snapshot.Entries)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", fmt.Errorf("write latest csv: %w", err)
	}

	err = os.Rename(tmp.Name(), dest)
	if err != nil {
		return "", fmt.Errorf("write latest csv: %w", err)
	}
	return dest, nil
}

// LatestEntries returns the rows of the most recent ingestion for the
// given week.
func (s Service) LatestEntries(ctx context.Context, week chart.Week) ([]chart.Entry, error) {
	ctx, span := tracer.Start(ctx, "LatestEntries")
	defer span.End()
	span.SetAttributes(attribute.String("week", week.String()))

	path := s.DatabasePath(week)
	_, err := os.Stat(path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "week database does not exist")
		return nil, fmt.Errorf("no database for week %s: %w", week, err)
	}

	database, err := sqliteutil.OpenDB("", path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to open week database")
		return nil, err
	}
	defer database.Close()

	rows, err := db.New(database).GetLatestEntries(ctx, week.String())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to query entries")
		return nil, err
	}

	entries := make([]chart.Entry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, chart.Entry{
			Rank:           int(r.Rank),
			PreviousRank:   int(r.PreviousRank),
			TrackName:      r.TrackName,
			ArtistNames:    r.ArtistNames,
			PeriodsOnChart: int(r.PeriodsOnChart),
			Views:          r.Views,
			Growth:         r.Growth,
			URL:            r.YoutubeUrl,
		})
	}
	return entries, nil
}

type WeekStats struct {
	Week       chart.Week
	Path       string
	SizeBytes  int64
	Entries    int64
	Ingestions int64
	FirstDate  string
	LastDate   string
}

// ListDatabases reports per-week statistics for the end-of-run
// summary. Files with unparseable names are skipped, never touched.
func (s Service) ListDatabases(ctx context.Context) ([]WeekStats, error) {
	ctx, span := tracer.Start(ctx, "ListDatabases")
	defer span.End()

	paths, err := filepath.Glob(filepath.Join(s.databaseDir, databasePrefix+"*.db"))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list database files")
		return nil, err
	}

	var stats []WeekStats
	for _, path := range paths {
		week, err := weekFromDatabaseName(filepath.Base(path))
		if err != nil {
			slog.Warn("skipping database with unrecognized name", "path", path, "err", err)
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			span.RecordError(err)
			continue
		}

		database, err := sqliteutil.OpenDB("", path)
		if err != nil {
			span.RecordError(err)
			continue
		}
		row, err := db.New(database).GetStats(ctx)
		database.Close()
		if err != nil {
			span.RecordError(err)
			continue
		}

		stats = append(stats, WeekStats{
			Week:       week,
			Path:       path,
			SizeBytes:  info.Size(),
			Entries:    row.EntryCount,
			Ingestions: row.IngestionCount,
			FirstDate:  row.FirstDate,
			LastDate:   row.LastDate,
		})
	}
	return stats, nil
}
