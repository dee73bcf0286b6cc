package jobs

import (
	"sort"
	"strings"

	"resume-builder/internal/profiles"
)

// Points awarded per profile term found in a posting's title and description.
const (
	skillPoints    = 10
	positionPoints = 15
	companyPoints  = 5
	fieldPoints    = 8
)

// RecommendationQuery picks the search term for recommendations: the first
// work position, else the first education field, else the first skill.
func RecommendationQuery(p profiles.ProfileData) (string, error) {
	if len(p.WorkExperience) > 0 {
		if q := strings.TrimSpace(p.WorkExperience[0].Position); q != "" {
			return q, nil
		}
	}
	if len(p.Education) > 0 {
		if q := strings.TrimSpace(p.Education[0].Field); q != "" {
			return q, nil
		}
	}
	if skills := profileSkills(p); len(skills) > 0 {
		return skills[0], nil
	}
	return "", ErrNoQuery
}

// MatchScore scores a job against the profile. Empty profile terms never match.
func MatchScore(job Job, p profiles.ProfileData) int {
	text := strings.ToLower(job.Title + " " + job.Description)
	contains := func(term string) bool {
		term = strings.ToLower(strings.TrimSpace(term))
		return term != "" && strings.Contains(text, term)
	}

	score := 0
	for _, skill := range profileSkills(p) {
		if contains(skill) {
			score += skillPoints
		}
	}
	for _, w := range p.WorkExperience {
		if contains(w.Position) {
			score += positionPoints
		}
		if contains(w.Company) {
			score += companyPoints
		}
	}
	for _, e := range p.Education {
		if contains(e.Field) {
			score += fieldPoints
		}
	}
	return score
}

// Rank scores every job and orders them best first, keeping provider order on ties.
func Rank(jobs []Job, p profiles.ProfileData) []Job {
	out := make([]Job, len(jobs))
	copy(out, jobs)
	for i := range out {
		score := MatchScore(out[i], p)
		out[i].MatchScore = &score
	}
	sort.SliceStable(out, func(i, j int) bool {
		return *out[i].MatchScore > *out[j].MatchScore
	})
	return out
}

func profileSkills(p profiles.ProfileData) []string {
	var out []string
	for _, group := range p.Skills {
		for _, s := range group.Skills {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
