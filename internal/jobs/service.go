package jobs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"resume-builder/internal/profiles"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/shared/util"
)

// Cache stores search results. *cache.Redis satisfies it.
type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Available() bool
}

// Connections reports the companies where a principal knows someone.
type Connections interface {
	CompaniesWithConnections(ctx context.Context, userID string) ([]string, error)
}

// SearchParams selects and narrows a search.
type SearchParams struct {
	Query    string
	Location string
	Source   string
	Filter   Filter
}

// Recommendations is the result of a profile-driven search.
type Recommendations struct {
	Query string `json:"query"`
	Jobs  []Job  `json:"jobs"`
}

// Service searches job boards, caches results and annotates them for a principal.
type Service struct {
	Providers   []Provider
	Cache       Cache
	CacheTTL    time.Duration
	Connections Connections
	Scraper     *Scraper
	Now         func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Search queries the selected providers, merges their results and applies the filter.
func (s *Service) Search(ctx context.Context, userID string, params SearchParams) ([]Job, error) {
	query := strings.TrimSpace(params.Query)
	if query == "" {
		return nil, ErrQueryRequired
	}
	source := strings.ToLower(strings.TrimSpace(params.Source))
	if source == "" {
		source = SourceAll
	}
	providers, err := s.providersFor(source)
	if err != nil {
		return nil, err
	}

	results, err := s.search(ctx, providers, source, query, strings.TrimSpace(params.Location))
	if err != nil {
		return nil, err
	}
	results = s.annotate(ctx, userID, results)
	return params.Filter.Apply(results, s.now()), nil
}

// Recommend searches Remotive with a query derived from the profile and ranks the results.
func (s *Service) Recommend(ctx context.Context, userID string, p profiles.ProfileData) (Recommendations, error) {
	query, err := RecommendationQuery(p)
	if err != nil {
		return Recommendations{}, err
	}
	providers, err := s.providersFor(SourceRemotive)
	if err != nil {
		return Recommendations{}, err
	}
	results, err := s.search(ctx, providers, SourceRemotive, query, "")
	if err != nil {
		return Recommendations{}, err
	}
	ranked := Rank(s.annotate(ctx, userID, results), p)
	return Recommendations{Query: query, Jobs: ranked}, nil
}

// FetchDescription scrapes a posting page for its text.
func (s *Service) FetchDescription(ctx context.Context, pageURL string) (string, error) {
	scraper := s.Scraper
	if scraper == nil {
		scraper = &Scraper{}
	}
	return scraper.FetchDescription(ctx, pageURL)
}

func (s *Service) providersFor(source string) ([]Provider, error) {
	var out []Provider
	for _, p := range s.Providers {
		if !p.Enabled() {
			continue
		}
		if source == SourceAll || p.Name() == source {
			out = append(out, p)
		}
	}
	switch source {
	case SourceAll, SourceRemotive, SourceTheirStack:
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidSource, source)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s is not configured", ErrInvalidSource, source)
	}
	return out, nil
}

func (s *Service) search(ctx context.Context, providers []Provider, source, query, location string) ([]Job, error) {
	key := cacheKey(source, query, location)
	if s.Cache != nil && s.Cache.Available() {
		var cached []Job
		if hit, err := s.Cache.GetJSON(ctx, key, &cached); err == nil && hit {
			metrics.IncJobSearch(source, "hit")
			return cached, nil
		}
		metrics.IncJobSearch(source, "miss")
	} else {
		metrics.IncJobSearch(source, "bypass")
	}

	type result struct {
		jobs []Job
		err  error
	}
	results := make([]result, len(providers))
	var wg sync.WaitGroup
	for i, p := range providers {
		wg.Add(1)
		go func(i int, p Provider) {
			defer wg.Done()
			jobs, err := p.Search(ctx, query, location)
			results[i] = result{jobs: jobs, err: err}
		}(i, p)
	}
	wg.Wait()

	merged := []Job{}
	var errs []error
	for i, r := range results {
		if r.err != nil {
			telemetry.Warn("jobs.provider_failed", map[string]any{
				"provider": providers[i].Name(),
				"query":    query,
				"error":    r.err,
			})
			errs = append(errs, r.err)
			continue
		}
		merged = append(merged, r.jobs...)
	}
	if len(errs) == len(providers) {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, errors.Join(errs...))
	}

	if s.Cache != nil && s.Cache.Available() {
		if err := s.Cache.SetJSON(ctx, key, merged, s.CacheTTL); err != nil {
			telemetry.Warn("jobs.cache_set_failed", map[string]any{"error": err})
		}
	}
	telemetry.Info("jobs.search", map[string]any{
		"source":  source,
		"query":   query,
		"results": len(merged),
	})
	return merged, nil
}

// annotate marks jobs at companies where the principal has a contact.
func (s *Service) annotate(ctx context.Context, userID string, jobs []Job) []Job {
	if s.Connections == nil || len(jobs) == 0 {
		return jobs
	}
	companies, err := s.Connections.CompaniesWithConnections(ctx, userID)
	if err != nil {
		telemetry.Warn("jobs.connections_failed", map[string]any{"user_id": userID, "error": err})
		return jobs
	}
	known := make(map[string]struct{}, len(companies))
	for _, c := range companies {
		known[strings.ToLower(strings.TrimSpace(c))] = struct{}{}
	}
	out := make([]Job, len(jobs))
	for i, j := range jobs {
		_, j.HasConnection = known[strings.ToLower(strings.TrimSpace(j.Company))]
		out[i] = j
	}
	return out
}

func cacheKey(source, query, location string) string {
	return util.CacheKey("jobs:search:"+source, query, location)
}
