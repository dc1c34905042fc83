// Package sites declares the target job boards. Each site is pure
// configuration: where to search, which containers hold listings, and which
// selectors to try (in priority order) for every field. Markup on these
// boards changes without notice, so every field carries fallbacks and the
// adapter degrades to empty results instead of failing.
package sites

import (
	"fmt"
	"net/url"
	"strings"
)

// FieldSelectors lists candidate CSS selectors for the logical fields of a
// listing container. First selector that matches wins.
type FieldSelectors struct {
	Title       []string
	Company     []string
	CompanyLink []string
	Location    []string
	Date        []string
	Link        []string
	Salary      []string
}

type Site struct {
	Name       string
	Domain     string
	BaseURL    string
	Containers []string
	Fields     FieldSelectors

	// GeoOnly sites are skipped for search locations outside the known
	// geographic allow-list (their search URL needs a real place).
	GeoOnly bool

	// SearchURL builds the search page URL for one (keyword, location) pair
	// using the site's own query-parameter convention.
	SearchURL func(keyword, location string) string
}

var jobberman = Site{
	Name:    "Jobberman",
	Domain:  "jobberman.com",
	BaseURL: "https://www.jobberman.com",
	Containers: []string{
		"div[data-cy='listing-cards-components']",
		"article.search-result",
		"div.search-result__job-card",
	},
	Fields: FieldSelectors{
		Title:       []string{"a[data-cy='listing-title-link'] p", "a[data-cy='listing-title-link']", "h3 a"},
		Company:     []string{"p.text-loading-hide a", "a.text-link-color", ".search-result__job-meta a"},
		CompanyLink: []string{"p.text-loading-hide a", "a.text-link-color"},
		Location:    []string{"div.flex.items-center span.mr-2", "span.text-loading-hide", ".search-result__location"},
		Date:        []string{"p.text-gray-500.text-sm", ".search-result__timestamp", "time"},
		Link:        []string{"a[data-cy='listing-title-link']", "h3 a"},
		Salary:      []string{"span.text-green-600", ".search-result__salary"},
	},
	SearchURL: func(keyword, location string) string {
		return fmt.Sprintf("https://www.jobberman.com/jobs?q=%s&l=%s",
			url.QueryEscape(keyword), url.QueryEscape(location))
	},
}

var indeed = Site{
	Name:    "Indeed",
	Domain:  "indeed.com",
	BaseURL: "https://ng.indeed.com",
	GeoOnly: true,
	Containers: []string{
		"div.job_seen_beacon",
		"td.resultContent",
		"div.result",
	},
	Fields: FieldSelectors{
		Title:       []string{"h2.jobTitle a span", "h2.jobTitle span", "a.jcs-JobTitle span"},
		Company:     []string{"span[data-testid='company-name']", "span.companyName"},
		CompanyLink: []string{"span.companyName a", "a[data-testid='company-name']"},
		Location:    []string{"div[data-testid='text-location']", "div.companyLocation"},
		Date:        []string{"span[data-testid='myJobsStateDate']", "span.date"},
		Link:        []string{"h2.jobTitle a", "a.jcs-JobTitle"},
		Salary:      []string{"div[data-testid='attribute_snippet_testid']", "div.salary-snippet-container", "span.salaryText"},
	},
	SearchURL: func(keyword, location string) string {
		return fmt.Sprintf("https://ng.indeed.com/jobs?q=%s&l=%s",
			url.QueryEscape(keyword), url.QueryEscape(location))
	},
}

var linkedin = Site{
	Name:    "LinkedIn",
	Domain:  "linkedin.com",
	BaseURL: "https://www.linkedin.com",
	Containers: []string{
		"ul.jobs-search__results-list > li",
		"div.base-card",
		"li.jobs-search-results__list-item",
	},
	Fields: FieldSelectors{
		Title:       []string{"h3.base-search-card__title", "span.sr-only"},
		Company:     []string{"h4.base-search-card__subtitle a", "a.hidden-nested-link"},
		CompanyLink: []string{"h4.base-search-card__subtitle a", "a.hidden-nested-link"},
		Location:    []string{"span.job-search-card__location"},
		Date:        []string{"time.job-search-card__listdate", "time.job-search-card__listdate--new", "time"},
		Link:        []string{"a.base-card__full-link", "a.base-card--link"},
		Salary:      []string{"span.job-search-card__salary-info"},
	},
	SearchURL: func(keyword, location string) string {
		return fmt.Sprintf("https://www.linkedin.com/jobs/search?keywords=%s&location=%s",
			url.QueryEscape(keyword), url.QueryEscape(location))
	},
}

// All returns every site in the fixed scrape order.
func All() []Site {
	return []Site{jobberman, indeed, linkedin}
}

// Enabled filters All() by name, preserving the declared order. An empty
// list enables everything.
func Enabled(names []string) []Site {
	if len(names) == 0 {
		return All()
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[strings.ToLower(strings.TrimSpace(n))] = true
	}
	var out []Site
	for _, s := range All() {
		if want[strings.ToLower(s.Name)] {
			out = append(out, s)
		}
	}
	return out
}

// geographicTerms is the allow-list gating GeoOnly sites. Search locations
// not on this list (e.g. "remote", "blockchain") skip those sites only.
var geographicTerms = map[string]bool{
	"lagos":         true,
	"abuja":         true,
	"port harcourt": true,
	"ibadan":        true,
	"kano":          true,
	"kaduna":        true,
	"enugu":         true,
	"benin city":    true,
	"abeokuta":      true,
	"owerri":        true,
	"uyo":           true,
	"nigeria":       true,
}

// IsGeographic reports whether a search location term names a known place.
func IsGeographic(term string) bool {
	return geographicTerms[strings.ToLower(strings.TrimSpace(term))]
}
