package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"naijajobs-engine/internal/models"
)

func TestClassifyJobType(t *testing.T) {
	tests := []struct {
		name     string
		duration string
		title    string
		location string
		expected models.JobType
	}{
		{
			name:     "contract beats full-time",
			title:    "Full-time Contract Engineer",
			expected: models.JobTypeContract,
		},
		{
			name:     "temporary maps to contract",
			duration: "Temporary position, posted 2 days ago",
			expected: models.JobTypeContract,
		},
		{
			name:     "part time with space",
			title:    "Part Time Cashier",
			expected: models.JobTypePartTime,
		},
		{
			name:     "freelance",
			title:    "Freelance Writer",
			expected: models.JobTypeFreelance,
		},
		{
			name:     "internship from location text",
			location: "Lagos (Internship)",
			expected: models.JobTypeInternship,
		},
		{
			name:     "intern as a whole word",
			title:    "Marketing Intern",
			expected: models.JobTypeInternship,
		},
		{
			name:     "international is not an internship",
			duration: "2 days ago",
			title:    "International Sales Executive",
			location: "Lagos",
			expected: models.JobTypeFullTime,
		},
		{
			name:     "internal is not an internship",
			title:    "Internal Auditor",
			expected: models.JobTypeFullTime,
		},
		{
			name:     "defaults to full-time",
			title:    "Backend Developer",
			location: "Abuja",
			expected: models.JobTypeFullTime,
		},
		{
			name:     "all empty still full-time",
			expected: models.JobTypeFullTime,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyJobType(tt.duration, tt.title, tt.location)
			assert.Equal(t, tt.expected, got)

			_, ok := models.ParseJobType(string(got))
			assert.True(t, ok, "result must always be a member of the enum")
		})
	}
}

func TestExtractSalary(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "naira range with unit",
			text:     "Attractive pay: ₦150,000 - ₦250,000 per month plus benefits",
			expected: "₦150,000 - ₦250,000 per month",
		},
		{
			name:     "single naira amount",
			text:     "₦80,000",
			expected: "₦80,000",
		},
		{
			name:     "dollar range",
			text:     "Comp is $1,000 - $2,500",
			expected: "$1,000 - $2,500",
		},
		{
			name:     "slash unit",
			text:     "£400/week",
			expected: "£400/week",
		},
		{
			name:     "no salary",
			text:     "Competitive salary based on experience",
			expected: "",
		},
		{
			name:     "empty text",
			text:     "",
			expected: "",
		},
		{
			name:     "whitespace only",
			text:     "   ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractSalary(tt.text))
		})
	}
}

func TestValidateJobURL(t *testing.T) {
	assert.True(t, ValidateJobURL("https://www.linkedin.com/jobs/123", "LinkedIn"))
	assert.False(t, ValidateJobURL("https://example.com/jobs/123", "LinkedIn"))
	assert.False(t, ValidateJobURL("N/A", "LinkedIn"))
	assert.False(t, ValidateJobURL("", "Indeed"))
	assert.True(t, ValidateJobURL("https://www.jobberman.com/listings/x-1", "Jobberman"))
	assert.True(t, ValidateJobURL("https://ng.indeed.com/viewjob?jk=abc", "indeed"))

	// unknown sources pass through unvalidated
	assert.True(t, ValidateJobURL("https://example.com/jobs/1", "SomeNewBoard"))
}
