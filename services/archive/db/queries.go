package db

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

const createIngestion = `
INSERT INTO ingestions (id, week_id, content_hash, source, row_count, download_date, download_time, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateIngestionParams struct {
	ID           string
	WeekID       string
	ContentHash  string
	Source       string
	RowCount     int64
	DownloadDate string
	DownloadTime string
	CreatedAt    int64
}

func (q *Queries) CreateIngestion(ctx context.Context, arg CreateIngestionParams) error {
	_, err := q.db.ExecContext(ctx, createIngestion,
		arg.ID,
		arg.WeekID,
		arg.ContentHash,
		arg.Source,
		arg.RowCount,
		arg.DownloadDate,
		arg.DownloadTime,
		arg.CreatedAt,
	)
	return err
}

const createEntry = `
INSERT INTO chart_entries (ingestion_id, week_id, rank, previous_rank, track_name, artist_names, periods_on_chart, views, growth, youtube_url)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateEntryParams struct {
	IngestionID    string
	WeekID         string
	Rank           int64
	PreviousRank   int64
	TrackName      string
	ArtistNames    string
	PeriodsOnChart int64
	Views          int64
	Growth         string
	YoutubeUrl     string
}

func (q *Queries) CreateEntry(ctx context.Context, arg CreateEntryParams) error {
	_, err := q.db.ExecContext(ctx, createEntry,
		arg.IngestionID,
		arg.WeekID,
		arg.Rank,
		arg.PreviousRank,
		arg.TrackName,
		arg.ArtistNames,
		arg.PeriodsOnChart,
		arg.Views,
		arg.Growth,
		arg.YoutubeUrl,
	)
	return err
}

const hasContentHash = `
SELECT EXISTS(SELECT 1 FROM ingestions WHERE week_id = ? AND content_hash = ?)
`

func (q *Queries) HasContentHash(ctx context.Context, weekID, contentHash string) (bool, error) {
	var exists bool
	err := q.db.QueryRowContext(ctx, hasContentHash, weekID, contentHash).Scan(&exists)
	return exists, err
}

const hasDownloadDate = `
SELECT EXISTS(SELECT 1 FROM ingestions WHERE week_id = ? AND download_date = ?)
`

func (q *Queries) HasDownloadDate(ctx context.Context, weekID, downloadDate string) (bool, error) {
	var exists bool
	err := q.db.QueryRowContext(ctx, hasDownloadDate, weekID, downloadDate).Scan(&exists)
	return exists, err
}

const getStats = `
SELECT
    (SELECT COUNT(*) FROM chart_entries) AS entry_count,
    COUNT(*) AS ingestion_count,
    COALESCE(MIN(download_date), '') AS first_date,
    COALESCE(MAX(download_date), '') AS last_date
FROM ingestions
`

type StatsRow struct {
	EntryCount     int64
	IngestionCount int64
	FirstDate      string
	LastDate       string
}

func (q *Queries) GetStats(ctx context.Context) (StatsRow, error) {
	var row StatsRow
	err := q.db.QueryRowContext(ctx, getStats).Scan(
		&row.EntryCount,
		&row.IngestionCount,
		&row.FirstDate,
		&row.LastDate,
	)
	return row, err
}

const getEntriesForWeek = `
SELECT rank, previous_rank, track_name, artist_names, periods_on_chart, views, growth, youtube_url
FROM chart_entries
WHERE ingestion_id = (
    SELECT id FROM ingestions WHERE week_id = ? ORDER BY created_at DESC LIMIT 1
)
ORDER BY rank ASC
`

type EntryRow struct {
	Rank           int64
	PreviousRank   int64
	TrackName      string
	ArtistNames    string
	PeriodsOnChart int64
	Views          int64
	Growth         string
	YoutubeUrl     string
}

// GetLatestEntries returns the rows of the most recent ingestion for
// the given week.
func (q *Queries) GetLatestEntries(ctx context.Context, weekID string) ([]EntryRow, error) {
	rows, err := q.db.QueryContext(ctx, getEntriesForWeek, weekID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EntryRow
	for rows.Next() {
		var r EntryRow
		err = rows.Scan(
			&r.Rank,
			&r.PreviousRank,
			&r.TrackName,
			&r.ArtistNames,
			&r.PeriodsOnChart,
			&r.Views,
			&r.Growth,
			&r.YoutubeUrl,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
