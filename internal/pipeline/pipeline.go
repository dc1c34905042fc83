// Package pipeline is the normalization and persistence stage between the
// site adapters and the job store. It enriches raw records, drops the
// invalid ones, and writes the survivors in idempotent batches keyed by URL.
package pipeline

import (
	"context"
	"log"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"naijajobs-engine/internal/extract"
	"naijajobs-engine/internal/models"
)

const defaultBatchSize = 50

// Store is the write half of the job store consumed by this stage.
type Store interface {
	UpsertBatch(ctx context.Context, jobs []models.Job) error
}

type Stage struct {
	store     Store
	batchSize int
	now       func() time.Time
}

func New(store Store, batchSize int) *Stage {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Stage{store: store, batchSize: batchSize, now: time.Now}
}

// Process normalizes and persists one adapter's output for a given
// (source, keyword, location) unit. Invalid records are dropped silently;
// a failed batch is logged and the remaining batches still go through.
// Returns the jobs actually handed to the store.
func (s *Stage) Process(ctx context.Context, raws []models.RawJob, source, keyword, location string) []models.Job {
	jobs := make([]models.Job, 0, len(raws))
	scrapedAt := s.now()

	for _, raw := range raws {
		job, ok := s.normalize(raw, source, keyword, location, scrapedAt)
		if !ok {
			continue
		}
		jobs = append(jobs, job)
	}

	var saved []models.Job
	for start := 0; start < len(jobs); start += s.batchSize {
		end := start + s.batchSize
		if end > len(jobs) {
			end = len(jobs)
		}
		batch := jobs[start:end]
		if err := s.store.UpsertBatch(ctx, batch); err != nil {
			log.Printf("⚠️ %s: failed to persist batch of %d jobs: %v", source, len(batch), err)
			continue
		}
		saved = append(saved, batch...)
	}
	return saved
}

// normalize applies the full enrichment and validation sequence to a single
// raw record. The bool result is false for records that must be discarded.
func (s *Stage) normalize(raw models.RawJob, source, keyword, location string, scrapedAt time.Time) (models.Job, bool) {
	if raw.Title == models.Sentinel || raw.Title == "" {
		return models.Job{}, false
	}
	if raw.URL == models.Sentinel || raw.URL == "" {
		return models.Job{}, false
	}
	if !extract.ValidateJobURL(raw.URL, source) {
		return models.Job{}, false
	}

	salary := extract.ExtractSalary(raw.Salary)
	if salary == "" {
		// boards often bury pay in the title or recency line instead of a
		// dedicated node
		salary = extract.ExtractSalary(raw.Title + " " + raw.Duration)
	}
	var salaryPtr *string
	if salary != "" {
		salaryPtr = &salary
	}

	return models.Job{
		URL:        strings.TrimSpace(raw.URL),
		Title:      NormalizeText(raw.Title),
		Company:    NormalizeText(sentinelToEmpty(raw.Company)),
		CompanyURL: strings.TrimSpace(sentinelToEmpty(raw.CompanyURL)),
		Location:   NormalizeText(sentinelToEmpty(raw.Location)),
		Source:     source,
		Keyword:    keyword,
		SearchLoc:  location,
		JobType:    extract.ClassifyJobType(raw.Duration, raw.Title, raw.Location),
		Salary:     salaryPtr,
		ScrapedAt:  scrapedAt,
	}, true
}

func sentinelToEmpty(s string) string {
	if s == models.Sentinel {
		return ""
	}
	return s
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeText lower-cases, strips diacritics and collapses internal
// whitespace. The web client filters on these fields verbatim, so the exact
// same shape must come out for the same input every run.
func NormalizeText(s string) string {
	if t, _, err := transform.String(stripMarks, s); err == nil {
		s = t
	}
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}
