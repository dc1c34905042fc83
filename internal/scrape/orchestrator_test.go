package scrape

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"naijajobs-engine/internal/models"
	"naijajobs-engine/internal/pipeline"
	"naijajobs-engine/internal/sites"
)

// fakeFetcher serves canned HTML per URL instead of driving a browser.
type fakeFetcher struct {
	mu      sync.Mutex
	pages   map[string]string // URL -> HTML; missing URL = navigation error
	fetched []string
	closed  bool
}

func (f *fakeFetcher) FetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, url)
	html, ok := f.pages[url]
	f.mu.Unlock()
	if !ok {
		return nil, errors.New("net::ERR_TIMED_OUT")
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

func (f *fakeFetcher) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
}

type memStore struct {
	mu   sync.Mutex
	jobs map[string]models.Job
}

func newMemStore() *memStore {
	return &memStore{jobs: make(map[string]models.Job)}
}

func (m *memStore) UpsertBatch(ctx context.Context, jobs []models.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, j := range jobs {
		m.jobs[j.URL] = j
	}
	return nil
}

func testBoard() sites.Site {
	return sites.Site{
		Name:       "Jobberman",
		Domain:     "jobberman.com",
		BaseURL:    "https://www.jobberman.com",
		Containers: []string{"div.card"},
		Fields: sites.FieldSelectors{
			Title:    []string{"h3"},
			Company:  []string{".company"},
			Location: []string{".loc"},
			Date:     []string{"time"},
			Link:     []string{"a.job"},
			Salary:   []string{".pay"},
		},
		SearchURL: func(keyword, location string) string {
			return "https://www.jobberman.com/jobs?q=" + keyword + "&l=" + location
		},
	}
}

const searchPageHTML = `
<div class="card">
  <h3>Frontend Developer</h3>
  <span class="company">Paystack</span>
  <span class="loc">Lagos</span>
  <time>2 days ago</time>
  <a class="job" href="https://www.jobberman.com/listings/frontend-1">view</a>
</div>
<div class="card">
  <h3>Backend Developer</h3>
  <span class="company">Flutterwave</span>
  <span class="loc">Lagos</span>
  <time>today</time>
  <a class="job" href="https://www.jobberman.com/listings/backend-2">view</a>
</div>
<div class="card">
  <h3>Ghost Listing</h3>
  <span class="loc">Lagos</span>
</div>`

func newTestOrchestrator(t *testing.T, fetcher *fakeFetcher, store pipeline.Store, board sites.Site) *Orchestrator {
	t.Helper()
	return New(Options{
		Keywords:  []string{"developer"},
		Locations: []string{"lagos"},
		Sites:     []sites.Site{board},
		Stage:     pipeline.New(store, 50),
		NewSession: func(ctx context.Context) (PageFetcher, error) {
			return fetcher, nil
		},
		SiteDelay: time.Millisecond,
	})
}

func TestRunEndToEnd(t *testing.T) {
	board := testBoard()
	fetcher := &fakeFetcher{pages: map[string]string{
		board.SearchURL("developer", "lagos"): searchPageHTML,
	}}
	store := newMemStore()

	o := newTestOrchestrator(t, fetcher, store, board)
	saved, err := o.Run(context.Background())
	require.NoError(t, err)

	// 3 containers on the page; the ghost listing has no link and is
	// dropped by the pipeline
	assert.Equal(t, 2, saved)
	require.Len(t, store.jobs, 2)

	j := store.jobs["https://www.jobberman.com/listings/frontend-1"]
	assert.Equal(t, "frontend developer", j.Title)
	assert.Equal(t, "paystack", j.Company)
	assert.Equal(t, "Jobberman", j.Source)
	assert.Equal(t, "developer", j.Keyword)
	assert.Equal(t, "lagos", j.SearchLoc)
	assert.Equal(t, models.JobTypeFullTime, j.JobType)
	assert.False(t, j.ScrapedAt.IsZero())

	assert.True(t, fetcher.closed, "session must be released when the run ends")

	st := o.Status()
	assert.Equal(t, StateCompleted, st.State)
	assert.Equal(t, 3, st.Scraped)
	assert.Equal(t, 2, st.Saved)
}

func TestRunSurvivesNavigationFailure(t *testing.T) {
	board := testBoard()
	// no pages registered: every navigation times out
	fetcher := &fakeFetcher{pages: map[string]string{}}
	store := newMemStore()

	o := newTestOrchestrator(t, fetcher, store, board)
	saved, err := o.Run(context.Background())

	require.NoError(t, err, "a dead site must not fail the run")
	assert.Zero(t, saved)
	assert.Equal(t, StateCompleted, o.Status().State)
	assert.True(t, fetcher.closed)
}

func TestRunGeoGateSkipsSite(t *testing.T) {
	board := testBoard()
	board.Name = "Indeed"
	board.GeoOnly = true

	fetcher := &fakeFetcher{pages: map[string]string{}}
	o := New(Options{
		Keywords:  []string{"developer"},
		Locations: []string{"remote"}, // not on the geographic allow-list
		Sites:     []sites.Site{board},
		Stage:     pipeline.New(newMemStore(), 50),
		NewSession: func(ctx context.Context) (PageFetcher, error) {
			return fetcher, nil
		},
		SiteDelay: time.Millisecond,
	})

	_, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, fetcher.fetched, "geo-gated site must not be visited for non-geographic terms")
}

func TestRunRejectsConcurrentInvocation(t *testing.T) {
	board := testBoard()
	blocker := make(chan struct{})
	started := make(chan struct{})

	o := New(Options{
		Keywords:  []string{"developer"},
		Locations: []string{"lagos"},
		Sites:     []sites.Site{board},
		Stage:     pipeline.New(newMemStore(), 50),
		NewSession: func(ctx context.Context) (PageFetcher, error) {
			close(started)
			<-blocker
			return nil, errors.New("launch failed")
		},
		SiteDelay: time.Millisecond,
	})

	go o.Run(context.Background())
	<-started

	_, err := o.Run(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyRunning)
	close(blocker)
}

func TestRunCancelledDuringPacingReportsCancelled(t *testing.T) {
	board := testBoard()
	fetcher := &fakeFetcher{pages: map[string]string{}}
	o := newTestOrchestrator(t, fetcher, newMemStore(), board)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	saved, err := o.Run(ctx)
	require.NoError(t, err, "cancellation keeps partial results, it is not a launch failure")
	assert.Zero(t, saved)

	st := o.Status()
	assert.Equal(t, StateCancelled, st.State)
	assert.NotEmpty(t, st.LastError)
	assert.True(t, fetcher.closed, "session must be released on cancellation too")
}

func TestRunSessionLaunchFailureIsFatal(t *testing.T) {
	o := New(Options{
		Keywords:  []string{"developer"},
		Locations: []string{"lagos"},
		Sites:     []sites.Site{testBoard()},
		Stage:     pipeline.New(newMemStore(), 50),
		NewSession: func(ctx context.Context) (PageFetcher, error) {
			return nil, errors.New("chromium not found")
		},
		SiteDelay: time.Millisecond,
	})

	_, err := o.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateFailed, o.Status().State)
}
