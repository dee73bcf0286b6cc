package jobs

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Filter narrows search results. Zero values match everything.
type Filter struct {
	Title       string
	Company     string
	Location    string
	NetworkOnly bool
	Salary      string // low (<80k), medium (80k-120k), high (>=120k)
	Posted      string // today, week, month
}

var salaryNumber = regexp.MustCompile(`(\d[\d,]*(?:\.\d+)?)\s*([kK])?`)

// Apply keeps jobs matching every set criterion. Jobs must already carry HasConnection.
func (f Filter) Apply(jobs []Job, now time.Time) []Job {
	out := make([]Job, 0, len(jobs))
	for _, j := range jobs {
		if f.match(j, now) {
			out = append(out, j)
		}
	}
	return out
}

func (f Filter) match(j Job, now time.Time) bool {
	if f.NetworkOnly && !j.HasConnection {
		return false
	}
	if !containsFold(j.Title, f.Title) || !containsFold(j.Company, f.Company) || !containsFold(j.Location, f.Location) {
		return false
	}
	if f.Salary != "" {
		amount := parseSalary(j.Salary)
		switch f.Salary {
		case "high":
			if amount < 120000 {
				return false
			}
		case "medium":
			if amount < 80000 || amount > 120000 {
				return false
			}
		case "low":
			if amount > 80000 {
				return false
			}
		}
	}
	// Jobs without a readable posting date stay in every date window.
	if f.Posted != "" {
		posted, ok := parsePosted(j.PostedAt)
		if !ok {
			return true
		}
		days := int(now.Sub(posted).Hours() / 24)
		switch f.Posted {
		case "today":
			return days <= 0
		case "week":
			return days <= 7
		case "month":
			return days <= 30
		}
	}
	return true
}

func containsFold(value, needle string) bool {
	needle = strings.TrimSpace(needle)
	return needle == "" || strings.Contains(strings.ToLower(value), strings.ToLower(needle))
}

// parseSalary reads the first amount in a salary string; "$90k - $110k" is 90000.
// Unparseable salaries count as 0.
func parseSalary(s string) int {
	m := salaryNumber.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0
	}
	if m[2] != "" {
		v *= 1000
	}
	return int(v)
}

func parsePosted(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
