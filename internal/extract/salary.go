package extract

import (
	"regexp"
	"strings"
)

// One pattern per currency, tried in order. Each matches an amount or an
// amount range, with an optional "per month" style suffix, e.g.
// "₦150,000 - ₦250,000 per month" or "$500/week".
var salaryPatterns = []*regexp.Regexp{
	salaryPattern("₦"),
	salaryPattern(`\$`),
	salaryPattern("£"),
	salaryPattern("€"),
}

func salaryPattern(symbol string) *regexp.Regexp {
	amount := symbol + `\s?\d{1,3}(?:,\d{3})*(?:\.\d+)?`
	return regexp.MustCompile(amount + `(?:\s?-\s?` + amount + `)?(?:\s?(?:per|/)\s?[a-zA-Z]+)?`)
}

// ExtractSalary pulls the first currency amount or range out of text,
// returning "" when there is none.
func ExtractSalary(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	for _, re := range salaryPatterns {
		if m := re.FindString(text); m != "" {
			return strings.TrimSpace(m)
		}
	}
	return ""
}
