// Package classify derives a document category and, when the filename
// carries one, a reporting period. Classification is a pure function of
// the filename and never fails.
package classify

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Document categories, in classification priority order.
const (
	CategoryFinancial = "financial_report"
	CategoryMember    = "member_data"
	CategoryLoan      = "loan_data"
	CategoryPolicy    = "policy_document"
	CategoryGeneral   = "general_data"
)

// Result is the outcome of classifying one filename. A nil Period means
// the document is static (non-periodic).
type Result struct {
	Category string
	Period   *time.Time
}

// rules are evaluated in order; first keyword match wins. The ordering is
// deliberate and must not change, so that classification stays
// reproducible across runs.
var rules = []struct {
	keywords []string
	category string
}{
	{[]string{"financial", "finance", "budget", "audit"}, CategoryFinancial},
	{[]string{"member", "dividend", "qualification"}, CategoryMember},
	{[]string{"loan"}, CategoryLoan},
	{[]string{"policy", "bylaw"}, CategoryPolicy},
}

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

var (
	// "31 August 2025", "aug 2025"
	monthNameRe = regexp.MustCompile(`(?:^|[^a-z0-9])(?:(\d{1,2})[\s_-]+)?(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*[\s_-]+(\d{4})`)
	// "2025-08", "2025.08", "2025_08"
	yearMonthRe = regexp.MustCompile(`(\d{4})[-._](\d{1,2})`)
	// "Q3 2025", "q3_2025"
	quarterRe = regexp.MustCompile(`(?:^|[^a-z0-9])q([1-4])[\s_-]*(\d{4})`)
)

// Classify inspects the lowercase base name of path. Unmatched filenames
// fall through to the general category with no period.
func Classify(path string) Result {
	name := strings.ToLower(filepath.Base(path))

	category := CategoryGeneral
	for _, r := range rules {
		if containsAny(name, r.keywords) {
			category = r.category
			break
		}
	}

	return Result{Category: category, Period: ParsePeriod(name)}
}

// ParsePeriod recognizes the three filename date idioms and maps each to
// the first day of its month (UTC). Quarters map to their first month.
// Returns nil when no idiom matches.
func ParsePeriod(name string) *time.Time {
	name = strings.ToLower(name)

	if m := monthNameRe.FindStringSubmatch(name); m != nil {
		year, _ := strconv.Atoi(m[3])
		return firstOfMonth(year, months[m[2]])
	}

	if m := yearMonthRe.FindStringSubmatch(name); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		if month >= 1 && month <= 12 {
			return firstOfMonth(year, time.Month(month))
		}
	}

	if m := quarterRe.FindStringSubmatch(name); m != nil {
		q, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[2])
		return firstOfMonth(year, time.Month((q-1)*3+1))
	}

	return nil
}

func firstOfMonth(year int, month time.Month) *time.Time {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return &t
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
