// Package browser owns the headless-browser side of a scrape run: one
// Playwright process, one browser, one context, one page per navigation.
// A Session lives exactly as long as a single orchestrator invocation and
// must be closed on every exit path.
package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/playwright-community/playwright-go"
)

const defaultNavTimeout = 60 * time.Second

// Resource types we never need for extraction. Blocking them cuts page
// load time and network footprint.
var blockedResourceTypes = map[string]bool{
	"image":      true,
	"stylesheet": true,
	"font":       true,
	"media":      true,
}

type Options struct {
	Headless    bool
	NavTimeout  time.Duration
	CookiesPath string // optional dir of per-site cookie JSON files
	Screenshots *ScreenshotDebugger
}

type Session struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	ctx     playwright.BrowserContext
	opts    Options
}

// NewSession launches Chromium and prepares a browser context. The caller
// owns the session and must Close it.
func NewSession(ctx context.Context, opts Options) (*Session, error) {
	if opts.NavTimeout <= 0 {
		opts.NavTimeout = defaultNavTimeout
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args: []string{
			"--no-sandbox",
			"--disable-blink-features=AutomationControlled",
		},
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	bctx, err := b.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"),
	})
	if err != nil {
		_ = b.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	s := &Session{pw: pw, browser: b, ctx: bctx, opts: opts}

	if opts.CookiesPath != "" {
		s.loadCookies(opts.CookiesPath)
	}

	return s, nil
}

// Close releases the browser and the playwright driver. Safe to call once
// from any exit path.
func (s *Session) Close() {
	if s.ctx != nil {
		_ = s.ctx.Close()
	}
	if s.browser != nil {
		_ = s.browser.Close()
	}
	if s.pw != nil {
		_ = s.pw.Stop()
	}
}

// FetchDocument opens a fresh tab, navigates to url with non-essential
// resources blocked, waits for the DOM, nudges lazy-loaded content, and
// returns the rendered HTML as a goquery document. The tab is always closed.
func (s *Session) FetchDocument(ctx context.Context, rawURL string) (*goquery.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, err := s.ctx.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	defer page.Close()

	err = page.Route("**/*", func(route playwright.Route) {
		if blockedResourceTypes[route.Request().ResourceType()] {
			_ = route.Abort()
			return
		}
		_ = route.Continue()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up request interception: %w", err)
	}

	if _, err := page.Goto(rawURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(s.opts.NavTimeout.Milliseconds())),
	}); err != nil {
		if s.opts.Screenshots != nil {
			s.opts.Screenshots.CaptureAndLog(page, slugify(rawURL), "navigation failed")
		}
		return nil, fmt.Errorf("navigation to %s failed: %w", rawURL, err)
	}

	// some boards only render listings once the page is scrolled
	TriggerLazyLoad(page)

	html, err := page.Content()
	if err != nil {
		return nil, fmt.Errorf("failed to read page content: %w", err)
	}

	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

func slugify(rawURL string) string {
	s := strings.TrimPrefix(strings.TrimPrefix(rawURL, "https://"), "http://")
	s = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '-'
	}, s)
	if len(s) > 80 {
		s = s[:80]
	}
	return s
}
