// Package extract holds the pure field extractors that derive structured
// data (job type, salary, source validity) from scraped free text.
package extract

import (
	"regexp"

	"naijajobs-engine/internal/models"
)

// jobTypeRules are checked in priority order; the first rule whose pattern
// appears in the text wins. Text containing both "contract" and "full time"
// therefore classifies as Contract. Word boundaries matter: "intern" must
// not fire on "International" or "Internal".
var jobTypeRules = []struct {
	jobType models.JobType
	re      *regexp.Regexp
}{
	{models.JobTypeContract, regexp.MustCompile(`(?i)\b(contract|temporary)\b`)},
	{models.JobTypePartTime, regexp.MustCompile(`(?i)\bpart[\s-]?time\b`)},
	{models.JobTypeFreelance, regexp.MustCompile(`(?i)\bfreelance\b`)},
	{models.JobTypeInternship, regexp.MustCompile(`(?i)\b(internship|intern|nysc)\b`)},
	{models.JobTypeFullTime, regexp.MustCompile(`(?i)\b(full[\s-]?time|permanent)\b`)},
}

// ClassifyJobType infers a job type from the recency text, title and
// location of a listing. It always returns one of the fixed enum values,
// defaulting to Full-time when nothing matches.
func ClassifyJobType(duration, title, location string) models.JobType {
	text := duration + " " + title + " " + location
	for _, rule := range jobTypeRules {
		if rule.re.MatchString(text) {
			return rule.jobType
		}
	}
	return models.JobTypeFullTime
}
