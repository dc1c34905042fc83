// Package scheduler wires the cron jobs: the daily unattended scrape cycle
// and the weekly retention sweep that deletes stale records.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"naijajobs-engine/internal/database"
	"naijajobs-engine/internal/scrape"
)

type Scheduler struct {
	cron          *cron.Cron
	orch          *scrape.Orchestrator
	repo          *database.Repository
	scrapeSpec    string // e.g. "@daily"
	retentionSpec string // e.g. "@weekly"
	retention     time.Duration
}

func New(orch *scrape.Orchestrator, repo *database.Repository, scrapeSpec, retentionSpec string, retention time.Duration) *Scheduler {
	return &Scheduler{
		cron:          cron.New(),
		orch:          orch,
		repo:          repo,
		scrapeSpec:    scrapeSpec,
		retentionSpec: retentionSpec,
		retention:     retention,
	}
}

// Start registers both jobs and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.scrapeSpec, func() {
		log.Println("⏰ Scheduled scrape cycle starting")
		if _, err := s.orch.Run(ctx); err != nil {
			log.Printf("⚠️ Scheduled scrape failed: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("failed to register scrape job: %w", err)
	}

	if _, err := s.cron.AddFunc(s.retentionSpec, func() {
		deleted, err := s.repo.DeleteOlderThan(ctx, s.retention)
		if err != nil {
			log.Printf("⚠️ Retention sweep failed: %v", err)
			return
		}
		log.Printf("🧹 Retention sweep removed %d jobs older than %s", deleted, s.retention)
	}); err != nil {
		return fmt.Errorf("failed to register retention job: %w", err)
	}

	s.cron.Start()
	log.Printf("⏰ Scheduler started: scrape %q, retention %q (%s window)",
		s.scrapeSpec, s.retentionSpec, s.retention)
	return nil
}

// Stop halts the cron loop; running jobs finish on their own.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("⏰ Scheduler stopped")
}
