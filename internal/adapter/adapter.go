// Package adapter turns a rendered search page into raw job records using a
// site's declarative selector configuration. One generic adapter replaces
// per-site extraction code: the per-site differences live entirely in
// sites.Site.
package adapter

import (
	"log"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"naijajobs-engine/internal/models"
	"naijajobs-engine/internal/sites"
)

type Adapter struct {
	// extractOne is swapped out in tests to simulate a container blowing up
	// mid-extraction.
	extractOne func(sel *goquery.Selection, site sites.Site) models.RawJob
}

func New() *Adapter {
	return &Adapter{extractOne: extractRecord}
}

// Extract pulls one RawJob per listing container. Container selectors are
// tried in priority order and the first one with matches wins; no matches
// means an empty result, not an error. A failure inside one container is
// contained there and never drops the rest of the page.
func (a *Adapter) Extract(doc *goquery.Document, site sites.Site) []models.RawJob {
	var containers *goquery.Selection
	for _, sel := range site.Containers {
		found := doc.Find(sel)
		if found.Length() > 0 {
			containers = found
			break
		}
	}
	if containers == nil {
		return nil
	}

	var jobs []models.RawJob
	containers.Each(func(i int, sel *goquery.Selection) {
		job, ok := a.extractSafe(sel, site, i)
		if ok {
			jobs = append(jobs, job)
		}
	})
	return jobs
}

func (a *Adapter) extractSafe(sel *goquery.Selection, site sites.Site, index int) (job models.RawJob, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("⚠️ %s: skipping listing #%d: %v", site.Name, index, r)
			ok = false
		}
	}()
	return a.extractOne(sel, site), true
}

func extractRecord(sel *goquery.Selection, site sites.Site) models.RawJob {
	f := site.Fields
	return models.RawJob{
		Title:      firstText(sel, f.Title),
		Company:    firstText(sel, f.Company),
		CompanyURL: firstHref(sel, f.CompanyLink, site.BaseURL),
		Location:   firstText(sel, f.Location),
		Duration:   firstText(sel, f.Date),
		URL:        firstHref(sel, f.Link, site.BaseURL),
		Salary:     strings.TrimSpace(firstRawText(sel, f.Salary)),
	}
}

// firstText returns the trimmed text of the first selector that matches a
// non-empty element, or the sentinel when every candidate misses.
func firstText(sel *goquery.Selection, selectors []string) string {
	if t := firstRawText(sel, selectors); t != "" {
		return t
	}
	return models.Sentinel
}

func firstRawText(sel *goquery.Selection, selectors []string) string {
	for _, s := range selectors {
		if t := strings.TrimSpace(sel.Find(s).First().Text()); t != "" {
			return t
		}
	}
	return ""
}

// firstHref resolves the first matching link to an absolute URL against the
// site base, falling back to the sentinel.
func firstHref(sel *goquery.Selection, selectors []string, base string) string {
	for _, s := range selectors {
		href, exists := sel.Find(s).First().Attr("href")
		href = strings.TrimSpace(href)
		if !exists || href == "" {
			continue
		}
		return resolveURL(base, href)
	}
	return models.Sentinel
}

func resolveURL(base, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	if ref.IsAbs() {
		return href
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	return b.ResolveReference(ref).String()
}
