package analyses

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"resume-builder/internal/profiles"
)

// Kind names the operation that produced an analysis record.
type Kind string

const (
	KindImprove Kind = "improve"
	KindATS     Kind = "ats"
	KindCompare Kind = "compare"
	KindSection Kind = "section"
	KindTailor  Kind = "tailor"
	KindParse   Kind = "parse"
)

// Score is a 0-100 integer score. Models sometimes answer with floats or
// numeric strings, both are accepted and rounded.
type Score int

func (s *Score) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	raw = strings.TrimSuffix(raw, "%")
	if raw == "" || raw == "null" {
		*s = 0
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return err
	}
	*s = Score(math.Round(f))
	return nil
}

// Suggestion is one before/after rewrite proposed by the model.
type Suggestion struct {
	Section  string `json:"section"`
	Original string `json:"original"`
	Improved string `json:"improved"`
	Reason   string `json:"reason"`
	Impact   string `json:"impact"`
}

// ResumeAnalysis is the result of AnalyzeAndImprove.
type ResumeAnalysis struct {
	OverallScore    Score                 `json:"overallScore"`
	Strengths       []string              `json:"strengths"`
	Weaknesses      []string              `json:"weaknesses"`
	Suggestions     []Suggestion          `json:"suggestions"`
	ImprovedProfile *profiles.ProfileData `json:"improvedProfile,omitempty"`
}

type SectionScores struct {
	PersonalInfo   Score `json:"personalInfo"`
	AboutMe        Score `json:"aboutMe"`
	WorkExperience Score `json:"workExperience"`
	Education      Score `json:"education"`
	Skills         Score `json:"skills"`
	Projects       Score `json:"projects"`
}

type KeywordMatches struct {
	JobKeywords     []string `json:"jobKeywords"`
	Matched         []string `json:"matched"`
	Missing         []string `json:"missing"`
	MatchPercentage Score    `json:"matchPercentage"`
}

type Measurements struct {
	TotalWords             Score `json:"totalWords"`
	QuantifiedAchievements Score `json:"quantifiedAchievements"`
	ActionVerbs            Score `json:"actionVerbs"`
	TechnicalSkills        Score `json:"technicalSkills"`
	RelevantExperience     Score `json:"relevantExperience"`
}

// DetailedResumeAnalysis is the ATS-style breakdown returned by AnalyzeDetailed.
type DetailedResumeAnalysis struct {
	OverallScore     Score                 `json:"overallScore"`
	SectionScores    SectionScores         `json:"sectionScores"`
	KeywordMatches   KeywordMatches        `json:"keywordMatches"`
	Measurements     Measurements          `json:"measurements"`
	CriticalIssues   []string              `json:"criticalIssues"`
	Improvements     []Suggestion          `json:"improvements"`
	ImprovedProfile  *profiles.ProfileData `json:"improvedProfile,omitempty"`
	ATSCompatibility Score                 `json:"atsCompatibility"`
	RelevanceScore   Score                 `json:"relevanceScore"`
}

type SkillsMatch struct {
	Score         Score    `json:"score"`
	MatchedSkills []string `json:"matchedSkills"`
	MissingSkills []string `json:"missingSkills"`
	Feedback      string   `json:"feedback"`
}

type ExperienceMatch struct {
	Score              Score    `json:"score"`
	RelevantExperience []string `json:"relevantExperience"`
	MissingExperience  []string `json:"missingExperience"`
	Feedback           string   `json:"feedback"`
}

type EducationMatch struct {
	Score               Score    `json:"score"`
	RelevantEducation   []string `json:"relevantEducation"`
	MissingRequirements []string `json:"missingRequirements"`
	Feedback            string   `json:"feedback"`
}

type KeywordsMatch struct {
	Score           Score    `json:"score"`
	MatchedKeywords []string `json:"matchedKeywords"`
	MissingKeywords []string `json:"missingKeywords"`
	Feedback        string   `json:"feedback"`
}

type ComparisonSections struct {
	Skills     SkillsMatch     `json:"skills"`
	Experience ExperienceMatch `json:"experience"`
	Education  EducationMatch  `json:"education"`
	Keywords   KeywordsMatch   `json:"keywords"`
}

// ComparisonResult scores a resume against one job description.
type ComparisonResult struct {
	OverallScore    Score              `json:"overallScore"`
	Sections        ComparisonSections `json:"sections"`
	Recommendations []string           `json:"recommendations"`
	Grade           string             `json:"grade"`
}

// Analysis is a stored record of one completed operation.
type Analysis struct {
	ID             string          `json:"id"`
	UserID         string          `json:"-"`
	Kind           Kind            `json:"kind"`
	JobDescription string          `json:"jobDescription,omitempty"`
	OverallScore   *int            `json:"overallScore,omitempty"`
	Provider       string          `json:"provider,omitempty"`
	Model          string          `json:"model,omitempty"`
	Result         json.RawMessage `json:"result,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}
