package archive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"ytcharts-backend/lib/chart"
	"ytcharts-backend/lib/timezone"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const backupPrefix = "backup_"

// backupDatabase copies the week's database file aside before it gets
// mutated. Called only when the file already exists.
func (s Service) backupDatabase(week chart.Week) (string, error) {
	src := s.DatabasePath(week)
	timestamp := timezone.Now().Format("20060102_150405")
	dest := filepath.Join(s.backupDir, fmt.Sprintf("%s%s_%s.db", backupPrefix, week, timestamp))

	err := copyFile(src, dest)
	if err != nil {
		return "", fmt.Errorf("backup database: %w", err)
	}
	slog.Info("database backed up", "week", week.String(), "backup", dest)
	return dest, nil
}

// CleanupBackups deletes backup files whose modification time is older
// than the configured retention. Returns how many were deleted.
func (s Service) CleanupBackups(ctx context.Context) (int, error) {
	_, span := tracer.Start(ctx, "CleanupBackups")
	defer span.End()

	cutoff := timezone.Now().AddDate(0, 0, -s.backupRetentionDays)
	span.SetAttributes(attribute.String("cutoff", cutoff.Format(time.RFC3339)))

	paths, err := filepath.Glob(filepath.Join(s.backupDir, backupPrefix+"*.db"))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list backup files")
		return 0, err
	}

	deleted := 0
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			span.RecordError(err)
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		err = os.Remove(path)
		if err != nil {
			slog.Warn("failed to delete old backup", "path", path, "err", err)
			span.RecordError(err)
			continue
		}
		deleted++
	}

	span.SetAttributes(attribute.Int("deleted", deleted))
	return deleted, nil
}

// CleanupDatabases deletes week databases older than the configured
// retention. The current week is never deleted and filenames that
// don't parse as weeks are left alone.
func (s Service) CleanupDatabases(ctx context.Context) (int, error) {
	_, span := tracer.Start(ctx, "CleanupDatabases")
	defer span.End()

	now := timezone.Now()
	currentWeek := chart.CurrentWeek(now)
	cutoff := now.AddDate(0, 0, -7*s.databaseRetentionWeeks)
	span.SetAttributes(attribute.String("cutoff", cutoff.Format(time.RFC3339)))

	paths, err := filepath.Glob(filepath.Join(s.databaseDir, databasePrefix+"*.db"))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list database files")
		return 0, err
	}

	deleted := 0
	for _, path := range paths {
		week, err := weekFromDatabaseName(filepath.Base(path))
		if err != nil {
			slog.Warn("skipping database with unrecognized name", "path", path, "err", err)
			continue
		}
		if week == currentWeek {
			continue
		}
		if !week.Start().Before(cutoff) {
			continue
		}
		err = os.Remove(path)
		if err != nil {
			slog.Warn("failed to delete old database", "path", path, "err", err)
			span.RecordError(err)
			continue
		}
		slog.Info("deleted expired week database", "week", week.String())
		deleted++
	}

	span.SetAttributes(attribute.Int("deleted", deleted))
	return deleted, nil
}

func weekFromDatabaseName(name string) (chart.Week, error) {
	id := strings.TrimSuffix(strings.TrimPrefix(name, databasePrefix), ".db")
	return chart.ParseWeek(id)
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}

	_, err = io.Copy(out, in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	return err
}
