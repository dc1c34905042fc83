package extract

import (
	"strings"

	"naijajobs-engine/internal/models"
)

// sourceDomains maps a lower-cased source name to the domain its job URLs
// must contain.
var sourceDomains = map[string]string{
	"jobberman": "jobberman.com",
	"indeed":    "indeed.com",
	"linkedin":  "linkedin.com",
}

// ValidateJobURL reports whether url plausibly belongs to the claimed
// source. Unknown sources pass unvalidated so that adding a new site never
// silently drops its records.
func ValidateJobURL(url, source string) bool {
	if url == "" || url == models.Sentinel {
		return false
	}
	domain, ok := sourceDomains[strings.ToLower(source)]
	if !ok {
		return true
	}
	return strings.Contains(url, domain)
}
