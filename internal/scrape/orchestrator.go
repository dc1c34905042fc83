// Package scrape drives one full scrape cycle: the cross-product of
// configured keywords and locations, across every enabled site in a fixed
// order, feeding each page through the adapter and the pipeline. Sites are
// visited sequentially on purpose: one browser, one page at a time, with a
// paced delay between requests, keeps resource usage bounded and avoids
// tripping anti-bot defenses with concurrent bursts.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"naijajobs-engine/internal/adapter"
	"naijajobs-engine/internal/dedup"
	"naijajobs-engine/internal/models"
	"naijajobs-engine/internal/pipeline"
	"naijajobs-engine/internal/sites"
)

// ErrAlreadyRunning is returned when a run is requested while another is in
// flight. The manual-trigger endpoint maps it to 409.
var ErrAlreadyRunning = errors.New("a scrape run is already in progress")

const defaultSiteDelay = 2 * time.Second

type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateCancelled State = "cancelled"
	StateFailed    State = "failed"
)

// Status is the externally visible snapshot of the orchestrator.
type Status struct {
	State      State  `json:"state"`
	StartedAt  string `json:"startedAt,omitempty"`
	FinishedAt string `json:"finishedAt,omitempty"`
	Scraped    int    `json:"scraped"`
	Saved      int    `json:"saved"`
	LastError  string `json:"lastError,omitempty"`
}

// PageFetcher is the slice of a browser session the orchestrator needs.
type PageFetcher interface {
	FetchDocument(ctx context.Context, url string) (*goquery.Document, error)
	Close()
}

// Notifier receives the end-of-run summary (Telegram in production).
type Notifier interface {
	SendSummary(scraped, saved, newJobs int) error
}

type Orchestrator struct {
	keywords  []string
	locations []string
	sites     []sites.Site
	adapter   *adapter.Adapter
	stage     *pipeline.Stage

	// newSession is a factory so tests can inject a fake browser.
	newSession func(ctx context.Context) (PageFetcher, error)

	limiter  *rate.Limiter
	seen     *dedup.SeenCache // optional
	notifier Notifier         // optional

	running atomic.Bool
	status  atomic.Value // Status
}

type Options struct {
	Keywords   []string
	Locations  []string
	Sites      []sites.Site
	Stage      *pipeline.Stage
	NewSession func(ctx context.Context) (PageFetcher, error)
	SiteDelay  time.Duration
	SeenCache  *dedup.SeenCache
	Notifier   Notifier
}

func New(opts Options) *Orchestrator {
	delay := opts.SiteDelay
	if delay <= 0 {
		delay = defaultSiteDelay
	}
	o := &Orchestrator{
		keywords:   opts.Keywords,
		locations:  opts.Locations,
		sites:      opts.Sites,
		adapter:    adapter.New(),
		stage:      opts.Stage,
		newSession: opts.NewSession,
		limiter:    rate.NewLimiter(rate.Every(delay), 1),
		seen:       opts.SeenCache,
		notifier:   opts.Notifier,
	}
	o.status.Store(Status{State: StateIdle})
	return o
}

// Status returns the latest run snapshot.
func (o *Orchestrator) Status() Status {
	return o.status.Load().(Status)
}

// Run executes one full scrape cycle and blocks until it finishes. Every
// per-unit failure (navigation, extraction, persistence) is logged and
// absorbed; the only error surfaced to the caller is a failure to obtain a
// browser session, or a concurrent run.
func (o *Orchestrator) Run(ctx context.Context) (saved int, err error) {
	if !o.running.CompareAndSwap(false, true) {
		return 0, ErrAlreadyRunning
	}
	defer o.running.Store(false)

	started := time.Now()
	o.status.Store(Status{State: StateRunning, StartedAt: started.Format(time.RFC3339)})
	log.Printf("🚀 Scrape run started: %d keywords × %d locations × %d sites",
		len(o.keywords), len(o.locations), len(o.sites))

	session, err := o.newSession(ctx)
	if err != nil {
		o.status.Store(Status{
			State:      StateFailed,
			StartedAt:  started.Format(time.RFC3339),
			FinishedAt: time.Now().Format(time.RFC3339),
			LastError:  err.Error(),
		})
		return 0, fmt.Errorf("failed to start browser session: %w", err)
	}
	// the session belongs to this invocation alone and must be released on
	// every exit path
	defer session.Close()

	var scraped int
	var savedJobs []models.Job

	for _, keyword := range o.keywords {
		for _, location := range o.locations {
			for _, site := range o.sites {
				if site.GeoOnly && !sites.IsGeographic(location) {
					log.Printf("⏭️ %s: skipping non-geographic term %q", site.Name, location)
					continue
				}

				if err := o.limiter.Wait(ctx); err != nil {
					log.Printf("⚠️ Run cancelled while pacing: %v", err)
					o.finish(started, scraped, savedJobs, err)
					return len(savedJobs), nil
				}

				raws := o.scrapeUnit(ctx, session, site, keyword, location)
				scraped += len(raws)
				if len(raws) == 0 {
					continue
				}

				unit := o.stage.Process(ctx, raws, site.Name, keyword, location)
				savedJobs = append(savedJobs, unit...)
				log.Printf("✅ %s [%s/%s]: %d scraped, %d saved",
					site.Name, keyword, location, len(raws), len(unit))
			}
		}
	}

	o.finish(started, scraped, savedJobs, nil)
	return len(savedJobs), nil
}

// scrapeUnit handles one (site, keyword, location) combination. Any failure
// yields zero results for the unit, never an aborted run.
func (o *Orchestrator) scrapeUnit(ctx context.Context, session PageFetcher, site sites.Site, keyword, location string) []models.RawJob {
	searchURL := site.SearchURL(keyword, location)
	log.Printf("  🔍 %s: %s", site.Name, searchURL)

	doc, err := session.FetchDocument(ctx, searchURL)
	if err != nil {
		log.Printf("⚠️ %s [%s/%s]: %v", site.Name, keyword, location, err)
		return nil
	}
	return o.adapter.Extract(doc, site)
}

func (o *Orchestrator) finish(started time.Time, scraped int, savedJobs []models.Job, runErr error) {
	st := Status{
		State:      StateCompleted,
		StartedAt:  started.Format(time.RFC3339),
		FinishedAt: time.Now().Format(time.RFC3339),
		Scraped:    scraped,
		Saved:      len(savedJobs),
	}
	// a run interrupted mid-pacing keeps its partial results but must not
	// report itself as completed
	if runErr != nil {
		st.State = StateCancelled
		st.LastError = runErr.Error()
	}
	o.status.Store(st)
	log.Printf("🏁 Scrape run finished: %d scraped, %d saved", scraped, len(savedJobs))

	newCount := len(savedJobs)
	if o.seen != nil {
		urls := make([]string, 0, len(savedJobs))
		for _, j := range savedJobs {
			urls = append(urls, j.URL)
		}
		newCount = len(o.seen.FilterNew(urls))
		log.Printf("🔍 %d of %d saved jobs are new since the last run", newCount, len(savedJobs))
	}

	if o.notifier != nil {
		if err := o.notifier.SendSummary(scraped, len(savedJobs), newCount); err != nil {
			log.Printf("⚠️ Failed to send run summary: %v", err)
		}
	}
}
