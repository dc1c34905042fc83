package models

import (
	"time"
)

// Sentinel marks a field whose DOM node was not found on the page.
const Sentinel = "N/A"

type JobType string

const (
	JobTypeFullTime   JobType = "Full-time"
	JobTypePartTime   JobType = "Part-time"
	JobTypeContract   JobType = "Contract"
	JobTypeFreelance  JobType = "Freelance"
	JobTypeInternship JobType = "Internship"
)

// JobTypes lists every valid job type, in the order the filter UI shows them.
var JobTypes = []JobType{
	JobTypeFullTime,
	JobTypePartTime,
	JobTypeContract,
	JobTypeFreelance,
	JobTypeInternship,
}

// ParseJobType maps free text to a JobType, returning false for anything
// outside the fixed set.
func ParseJobType(s string) (JobType, bool) {
	for _, jt := range JobTypes {
		if string(jt) == s {
			return jt, true
		}
	}
	return "", false
}

// RawJob is what a site adapter pulls out of one listing container.
// Every field is best-effort text; missing nodes yield the Sentinel
// (salary uses "" instead since it is optional downstream).
type RawJob struct {
	Title      string
	Company    string
	CompanyURL string
	Location   string
	Duration   string // free-text recency/date string, e.g. "3 days ago"
	URL        string
	Salary     string
}

// Job is the persisted, normalized record. URL is the upsert key.
type Job struct {
	URL        string    `json:"jobUrl"`
	Title      string    `json:"title"`
	Company    string    `json:"companyName"`
	CompanyURL string    `json:"companyUrl"`
	Location   string    `json:"jobLocation"`
	Source     string    `json:"source"`
	Keyword    string    `json:"keyword"`
	SearchLoc  string    `json:"location"`
	JobType    JobType   `json:"jobType"`
	Salary     *string   `json:"salary"` // nil renders as JSON null
	ScrapedAt  time.Time `json:"scrapedAt"`
}
