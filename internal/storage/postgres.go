package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
)

const runsTable = "report_runs"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresArchive keeps runs in the report_runs table.
type PostgresArchive struct {
	db            *sql.DB
	retentionDays int
}

func NewPostgresArchive(ctx context.Context, dsn string, retentionDays int) (*PostgresArchive, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	pa := &PostgresArchive{db: db, retentionDays: retentionDays}
	if err := pa.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return pa, nil
}

func (pa *PostgresArchive) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS report_runs (
		id UUID PRIMARY KEY,
		run_date VARCHAR(10) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		report_path TEXT NOT NULL,
		status VARCHAR(16) NOT NULL,
		summary TEXT NOT NULL,
		article_count INTEGER NOT NULL DEFAULT 0,
		links TEXT[] NOT NULL DEFAULT '{}'
	);

	CREATE INDEX IF NOT EXISTS idx_report_runs_created_at ON report_runs(created_at);
	CREATE INDEX IF NOT EXISTS idx_report_runs_run_date ON report_runs(run_date);
	`

	_, err := pa.db.ExecContext(ctx, schema)
	return err
}

func (pa *PostgresArchive) Record(ctx context.Context, run Run) error {
	if run.ID == "" {
		run.ID = NewRunID()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	query, args, err := insertRunQuery(run).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}
	if _, err := pa.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	if pa.retentionDays > 0 {
		return pa.cleanup(ctx, run.CreatedAt.AddDate(0, 0, -pa.retentionDays))
	}
	return nil
}

func (pa *PostgresArchive) cleanup(ctx context.Context, cutoff time.Time) error {
	query, args, err := pruneQuery(cutoff).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build cleanup: %w", err)
	}
	if _, err := pa.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to cleanup: %w", err)
	}
	return nil
}

func (pa *PostgresArchive) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	query, args, err := recentRunsQuery(limit).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	rows, err := pa.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var status string
		var links pq.StringArray
		if err := rows.Scan(&r.ID, &r.Date, &r.CreatedAt, &r.ReportPath, &status, &r.Summary, &r.ArticleCount, &links); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Status = Status(status)
		r.Links = []string(links)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return runs, nil
}

func (pa *PostgresArchive) Close() error {
	if pa.db != nil {
		return pa.db.Close()
	}
	return nil
}

func insertRunQuery(run Run) sq.InsertBuilder {
	links := run.Links
	if links == nil {
		links = []string{}
	}
	return psql.Insert(runsTable).
		Columns("id", "run_date", "created_at", "report_path", "status", "summary", "article_count", "links").
		Values(run.ID, run.Date, run.CreatedAt, run.ReportPath, string(run.Status), run.Summary, run.ArticleCount, pq.StringArray(links)).
		Suffix("ON CONFLICT (id) DO NOTHING")
}

func recentRunsQuery(limit int) sq.SelectBuilder {
	return psql.Select("id", "run_date", "created_at", "report_path", "status", "summary", "article_count", "links").
		From(runsTable).
		OrderBy("created_at DESC").
		Limit(uint64(limit))
}

func pruneQuery(cutoff time.Time) sq.DeleteBuilder {
	return psql.Delete(runsTable).Where(sq.Lt{"created_at": cutoff})
}
