package jobs

import "errors"

// Source names as reported on each job and accepted by Search.
const (
	SourceAll        = "all"
	SourceRemotive   = "remotive"
	SourceTheirStack = "theirstack"
)

var (
	// ErrNoQuery means the profile has nothing to build a recommendation query from.
	ErrNoQuery = errors.New("unable to generate recommendations, add work experience, education or skills to your profile")
	// ErrQueryRequired is returned by Search for a blank query.
	ErrQueryRequired = errors.New("search query is required")
	// ErrInvalidSource is returned for a source other than all, remotive or theirstack.
	ErrInvalidSource = errors.New("unknown job source")
	// ErrUpstream wraps failures of every queried provider.
	ErrUpstream = errors.New("job search failed")
	// ErrInvalidURL rejects anything but absolute http(s) URLs for scraping.
	ErrInvalidURL = errors.New("url must be an absolute http or https URL")
)

// Job is one posting from a job board.
type Job struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Company       string `json:"company"`
	Location      string `json:"location"`
	Description   string `json:"description"`
	URL           string `json:"url"`
	Salary        string `json:"salary"`
	PostedAt      string `json:"postedAt"`
	Source        string `json:"source"`
	MatchScore    *int   `json:"matchScore,omitempty"`
	HasConnection bool   `json:"hasConnection"`
}
