package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// TheirStack searches US postings from the last 30 days. It is disabled without a token.
type TheirStack struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

// NewTheirStack constructs a TheirStack provider.
func NewTheirStack(baseURL, token string, client *http.Client) *TheirStack {
	return &TheirStack{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   strings.TrimSpace(token),
		HTTP:    defaultHTTPClient(client),
	}
}

func (t *TheirStack) Name() string  { return SourceTheirStack }
func (t *TheirStack) Enabled() bool { return t != nil && t.BaseURL != "" && t.Token != "" }

type theirStackOrder struct {
	Desc  bool   `json:"desc"`
	Field string `json:"field"`
}

type theirStackRequest struct {
	Page                 int               `json:"page"`
	Limit                int               `json:"limit"`
	PostedAtMaxAgeDays   int               `json:"posted_at_max_age_days"`
	BlurCompanyData      bool              `json:"blur_company_data"`
	OrderBy              []theirStackOrder `json:"order_by"`
	JobCountryCodeOr     []string          `json:"job_country_code_or"`
	IncludeTotalResults  bool              `json:"include_total_results"`
	JobTitleOr           []string          `json:"job_title_or"`
	JobLocationPatternOr []string          `json:"job_location_pattern_or,omitempty"`
}

// theirStackJob accepts the several field spellings the API has used.
type theirStackJob struct {
	ID             json.RawMessage `json:"id"`
	JobTitle       string          `json:"job_title"`
	Title          string          `json:"title"`
	Company        json.RawMessage `json:"company"`
	CompanyName    string          `json:"company_name"`
	JobLocation    string          `json:"job_location"`
	Location       string          `json:"location"`
	JobDescription string          `json:"job_description"`
	Description    string          `json:"description"`
	JobURL         string          `json:"job_url"`
	URL            string          `json:"url"`
	ApplicationURL string          `json:"application_url"`
	SalaryRange    string          `json:"salary_range"`
	SalaryString   string          `json:"salary_string"`
	Salary         string          `json:"salary"`
	Compensation   string          `json:"compensation"`
	PostedAt       string          `json:"posted_at"`
	DatePosted     string          `json:"date_posted"`
	CreatedAt      string          `json:"created_at"`
}

type theirStackResponse struct {
	Data []theirStackJob `json:"data"`
}

// Search calls POST /v1/jobs/search.
func (t *TheirStack) Search(ctx context.Context, query, location string) ([]Job, error) {
	reqBody := theirStackRequest{
		Page:               0,
		Limit:              50,
		PostedAtMaxAgeDays: 30,
		OrderBy:            []theirStackOrder{{Desc: true, Field: "date_posted"}},
		JobCountryCodeOr:   []string{"US"},
		JobTitleOr:         []string{query},
	}
	if loc := strings.TrimSpace(location); loc != "" {
		reqBody.JobLocationPatternOr = []string{loc}
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.BaseURL+"/v1/jobs/search", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.Token)

	resp, err := t.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("theirstack request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("theirstack http status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded theirStackResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("theirstack decode: %w", err)
	}

	out := make([]Job, 0, len(decoded.Data))
	for _, j := range decoded.Data {
		out = append(out, Job{
			ID:          firstNonEmpty(rawString(j.ID), uuid.NewString()),
			Title:       firstNonEmpty(j.JobTitle, j.Title, "No title"),
			Company:     firstNonEmpty(companyName(j.Company), j.CompanyName, "Unknown Company"),
			Location:    firstNonEmpty(j.JobLocation, j.Location, "Not specified"),
			Description: firstNonEmpty(j.JobDescription, j.Description, "No description available"),
			URL:         firstNonEmpty(j.JobURL, j.URL, j.ApplicationURL, "#"),
			Salary:      firstNonEmpty(j.SalaryRange, j.SalaryString, j.Salary, j.Compensation, "Not specified"),
			PostedAt:    firstNonEmpty(j.PostedAt, j.DatePosted, j.CreatedAt),
			Source:      "TheirStack",
		})
	}
	return out, nil
}

// companyName reads "company" as either a plain string or an object with a name.
func companyName(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Name
	}
	return ""
}

func rawString(raw json.RawMessage) string {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return ""
	}
	return strings.Trim(text, `"`)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
