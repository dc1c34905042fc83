package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"naijajobs-engine/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func ConnectDB(ctx context.Context, connString string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	// Hosted connection poolers (PgBouncer in transaction mode) choke on
	// prepared statements, so the statement cache stays off.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &Repository{db: pool}, nil
}

func (r *Repository) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

// Migrate creates the jobs table and the indexes the query interface leans
// on: unique lookup by URL, text search over title+company, the
// keyword/location compound, and single-field filters.
func (r *Repository) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS jobs (
			job_url         TEXT PRIMARY KEY,
			title           TEXT NOT NULL,
			company_name    TEXT NOT NULL DEFAULT '',
			company_url     TEXT NOT NULL DEFAULT '',
			job_location    TEXT NOT NULL DEFAULT '',
			source          TEXT NOT NULL,
			keyword         TEXT NOT NULL,
			search_location TEXT NOT NULL,
			job_type        TEXT NOT NULL DEFAULT 'Full-time',
			salary          TEXT,
			scraped_at      TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_text
			ON jobs USING GIN (to_tsvector('simple', title || ' ' || company_name))`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_keyword_location
			ON jobs (keyword, search_location)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_source ON jobs (source)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_job_type ON jobs (job_type)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_scraped_at ON jobs (scraped_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

const upsertJobSQL = `
	INSERT INTO jobs (job_url, title, company_name, company_url, job_location,
	                  source, keyword, search_location, job_type, salary, scraped_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (job_url) DO UPDATE SET
		title           = EXCLUDED.title,
		company_name    = EXCLUDED.company_name,
		company_url     = EXCLUDED.company_url,
		job_location    = EXCLUDED.job_location,
		source          = EXCLUDED.source,
		keyword         = EXCLUDED.keyword,
		search_location = EXCLUDED.search_location,
		job_type        = EXCLUDED.job_type,
		salary          = EXCLUDED.salary,
		scraped_at      = EXCLUDED.scraped_at`

// UpsertBatch writes one batch of jobs in a single round trip. Each row is
// keyed by job_url: a later scrape of the same URL overwrites every field
// and refreshes scraped_at, so the stored state is order-independent.
func (r *Repository) UpsertBatch(ctx context.Context, jobs []models.Job) error {
	if len(jobs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, j := range jobs {
		batch.Queue(upsertJobSQL,
			j.URL, j.Title, j.Company, j.CompanyURL, j.Location,
			j.Source, j.Keyword, j.SearchLoc, string(j.JobType), j.Salary, j.ScrapedAt)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for range jobs {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to upsert job batch: %w", err)
		}
	}
	return nil
}

// DeleteOlderThan removes jobs last scraped before the retention cutoff.
func (r *Repository) DeleteOlderThan(ctx context.Context, retention time.Duration) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM jobs WHERE scraped_at < $1`, time.Now().Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("retention sweep failed: %w", err)
	}
	return tag.RowsAffected(), nil
}

// JobFilter narrows List. Zero values mean "no constraint".
type JobFilter struct {
	Query    string // free text over title + company
	Location string // substring of job_location
	Source   string
	JobType  string
	Since    time.Time // scraped_at lower bound
	Limit    int
	Offset   int
}

// clampLimit keeps page sizes sane: unset falls back to 20, oversized
// requests are capped at 100 rather than ignored.
func clampLimit(n int) int {
	switch {
	case n <= 0:
		return 20
	case n > 100:
		return 100
	default:
		return n
	}
}

// List returns jobs matching the filter, newest scrape first.
func (r *Repository) List(ctx context.Context, f JobFilter) ([]models.Job, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Query != "" {
		conds = append(conds, fmt.Sprintf(
			`to_tsvector('simple', title || ' ' || company_name) @@ plainto_tsquery('simple', %s)`,
			arg(f.Query)))
	}
	if f.Location != "" {
		conds = append(conds, fmt.Sprintf(`job_location LIKE %s`, arg("%"+strings.ToLower(f.Location)+"%")))
	}
	if f.Source != "" {
		conds = append(conds, fmt.Sprintf(`source = %s`, arg(f.Source)))
	}
	if f.JobType != "" {
		conds = append(conds, fmt.Sprintf(`job_type = %s`, arg(f.JobType)))
	}
	if !f.Since.IsZero() {
		conds = append(conds, fmt.Sprintf(`scraped_at >= %s`, arg(f.Since)))
	}

	query := `SELECT job_url, title, company_name, company_url, job_location,
	                 source, keyword, search_location, job_type, salary, scraped_at
	          FROM jobs`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY scraped_at DESC"

	query += fmt.Sprintf(" LIMIT %s OFFSET %s", arg(clampLimit(f.Limit)), arg(f.Offset))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []models.Job
	for rows.Next() {
		var j models.Job
		var jobType string
		if err := rows.Scan(&j.URL, &j.Title, &j.Company, &j.CompanyURL, &j.Location,
			&j.Source, &j.Keyword, &j.SearchLoc, &jobType, &j.Salary, &j.ScrapedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job row: %w", err)
		}
		j.JobType = models.JobType(jobType)
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// CountBySource is used by the status endpoint to show per-board totals.
func (r *Repository) CountBySource(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT source, COUNT(*) FROM jobs GROUP BY source`)
	if err != nil {
		return nil, fmt.Errorf("failed to count jobs: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var source string
		var n int64
		if err := rows.Scan(&source, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count row: %w", err)
		}
		counts[source] = n
	}
	return counts, rows.Err()
}
