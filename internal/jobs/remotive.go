package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Remotive searches remote jobs on remotive.com. It needs no credentials.
type Remotive struct {
	BaseURL string
	HTTP    *http.Client
}

// NewRemotive constructs a Remotive provider.
func NewRemotive(baseURL string, client *http.Client) *Remotive {
	return &Remotive{BaseURL: strings.TrimRight(baseURL, "/"), HTTP: defaultHTTPClient(client)}
}

func (r *Remotive) Name() string  { return SourceRemotive }
func (r *Remotive) Enabled() bool { return r != nil && r.BaseURL != "" }

type remotiveResponse struct {
	Jobs []struct {
		ID                        json.Number `json:"id"`
		URL                       string      `json:"url"`
		Title                     string      `json:"title"`
		CompanyName               string      `json:"company_name"`
		PublicationDate           string      `json:"publication_date"`
		CandidateRequiredLocation string      `json:"candidate_required_location"`
		Salary                    string      `json:"salary"`
		Description               string      `json:"description"`
	} `json:"jobs"`
}

// Search calls GET /api/remote-jobs?search=<query>. Location is not supported upstream.
func (r *Remotive) Search(ctx context.Context, query, _ string) ([]Job, error) {
	endpoint := r.BaseURL + "/api/remote-jobs?search=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remotive request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("remotive http status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload remotiveResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("remotive decode: %w", err)
	}

	out := make([]Job, 0, len(payload.Jobs))
	for i, j := range payload.Jobs {
		id := j.ID.String()
		if id == "" {
			id = strconv.Itoa(i)
		}
		out = append(out, Job{
			ID:          id,
			Title:       j.Title,
			Company:     j.CompanyName,
			Location:    orDefault(j.CandidateRequiredLocation, "Remote"),
			Description: j.Description,
			URL:         j.URL,
			Salary:      orDefault(j.Salary, "Not specified"),
			PostedAt:    j.PublicationDate,
			Source:      "Remotive",
		})
	}
	return out, nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
