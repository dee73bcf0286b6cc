package analyses

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-builder/internal/llm"
	"resume-builder/internal/profiles"
	"resume-builder/internal/shared/telemetry"
)

// Service runs resume scoring and rewriting through the configured model.
type Service struct {
	Runner   *Runner
	Repo     Repo
	Provider string
	Model    string
	Now      func() time.Time
}

// AnalyzeAndImprove scores the profile and returns a fully rewritten copy.
func (s *Service) AnalyzeAndImprove(ctx context.Context, userID string, p profiles.ProfileData, targetJob string) (ResumeAnalysis, error) {
	targetLine := "General resume improvement"
	if strings.TrimSpace(targetJob) != "" {
		targetLine = "Target Job: " + strings.TrimSpace(targetJob)
	}
	var out ResumeAnalysis
	err := s.completeJSON(ctx, userID, llm.PromptAnalyzeImprove, map[string]string{
		"TARGET_JOB":   targetLine,
		"PROFILE_JSON": profileJSON(p),
	}, llm.Request{Operation: string(KindImprove), Temperature: 0.3, MaxTokens: 8192}, &out)
	if err != nil {
		return ResumeAnalysis{}, err
	}

	out.OverallScore = clamp(out.OverallScore)
	out.Strengths = nonNil(out.Strengths)
	out.Weaknesses = nonNil(out.Weaknesses)
	if out.Suggestions == nil {
		out.Suggestions = []Suggestion{}
	}
	out.ImprovedProfile = finishProfile(out.ImprovedProfile)

	s.record(ctx, userID, KindImprove, targetJob, &out.OverallScore, out)
	return out, nil
}

// AnalyzeDetailed returns a deterministic ATS-style breakdown against jobDescription.
func (s *Service) AnalyzeDetailed(ctx context.Context, userID string, p profiles.ProfileData, jobDescription string) (DetailedResumeAnalysis, error) {
	jd, err := requireJobDescription(jobDescription)
	if err != nil {
		return DetailedResumeAnalysis{}, err
	}
	var out DetailedResumeAnalysis
	err = s.completeJSON(ctx, userID, llm.PromptAnalyzeDetailed, map[string]string{
		"JOB_DESCRIPTION": jd,
		"PROFILE_JSON":    profileJSON(p),
	}, llm.Request{Operation: string(KindATS), Temperature: 0, MaxTokens: 8192}, &out)
	if err != nil {
		return DetailedResumeAnalysis{}, err
	}

	out.OverallScore = clamp(out.OverallScore)
	out.ATSCompatibility = clamp(out.ATSCompatibility)
	out.RelevanceScore = clamp(out.RelevanceScore)
	out.KeywordMatches.MatchPercentage = clamp(out.KeywordMatches.MatchPercentage)
	out.KeywordMatches.JobKeywords = nonNil(out.KeywordMatches.JobKeywords)
	out.KeywordMatches.Matched = nonNil(out.KeywordMatches.Matched)
	out.KeywordMatches.Missing = nonNil(out.KeywordMatches.Missing)
	out.CriticalIssues = nonNil(out.CriticalIssues)
	if out.Improvements == nil {
		out.Improvements = []Suggestion{}
	}
	out.ImprovedProfile = finishProfile(out.ImprovedProfile)

	s.record(ctx, userID, KindATS, jd, &out.OverallScore, out)
	return out, nil
}

// CompareToJob grades how well the profile matches jobDescription.
func (s *Service) CompareToJob(ctx context.Context, userID string, p profiles.ProfileData, jobDescription string) (ComparisonResult, error) {
	jd, err := requireJobDescription(jobDescription)
	if err != nil {
		return ComparisonResult{}, err
	}
	var out ComparisonResult
	err = s.completeJSON(ctx, userID, llm.PromptCompare, map[string]string{
		"RESUME":          profiles.FormatAsText(p),
		"JOB_DESCRIPTION": jd,
	}, llm.Request{Operation: string(KindCompare), Temperature: 0.2}, &out)
	if err != nil {
		return ComparisonResult{}, err
	}

	out.OverallScore = clamp(out.OverallScore)
	out.Grade = strings.ToUpper(strings.TrimSpace(out.Grade))
	if !ValidGrade(out.Grade) {
		out.Grade = GradeForScore(int(out.OverallScore))
	}
	out.Recommendations = nonNil(out.Recommendations)
	sec := &out.Sections
	sec.Skills.MatchedSkills = nonNil(sec.Skills.MatchedSkills)
	sec.Skills.MissingSkills = nonNil(sec.Skills.MissingSkills)
	sec.Experience.RelevantExperience = nonNil(sec.Experience.RelevantExperience)
	sec.Experience.MissingExperience = nonNil(sec.Experience.MissingExperience)
	sec.Education.RelevantEducation = nonNil(sec.Education.RelevantEducation)
	sec.Education.MissingRequirements = nonNil(sec.Education.MissingRequirements)
	sec.Keywords.MatchedKeywords = nonNil(sec.Keywords.MatchedKeywords)
	sec.Keywords.MissingKeywords = nonNil(sec.Keywords.MissingKeywords)

	s.record(ctx, userID, KindCompare, jd, &out.OverallScore, out)
	return out, nil
}

// ImproveSection rewrites one section. The result has the shape of data:
// an object, an array, or a JSON string for aboutMe.
func (s *Service) ImproveSection(ctx context.Context, userID, section string, data json.RawMessage, p profiles.ProfileData, targetJob string) (json.RawMessage, error) {
	if section != "aboutMe" && section != "personalInfo" && !profiles.IsSection(section) {
		return nil, fmt.Errorf("%w: unknown section %q", ErrInvalidInput, section)
	}
	if len(data) == 0 || !json.Valid(data) {
		return nil, fmt.Errorf("%w: section data must be JSON", ErrInvalidInput)
	}
	targetLine := "General improvement"
	if strings.TrimSpace(targetJob) != "" {
		targetLine = "Target Job: " + strings.TrimSpace(targetJob)
	}
	prompt, err := llm.RenderPrompt(llm.PromptImproveSection, map[string]string{
		"TARGET_JOB":   targetLine,
		"SECTION":      section,
		"SECTION_JSON": indent(data),
		"PROFILE_JSON": profileJSON(p),
	})
	if err != nil {
		return nil, err
	}
	raw, err := s.Runner.Complete(ctx, userID, llm.Request{
		Operation:   string(KindSection),
		Prompt:      prompt,
		Temperature: 0.2,
		MaxTokens:   4096,
	})
	if err != nil {
		return nil, err
	}

	text, err := llm.ExtractJSONValue(raw)
	if err != nil {
		if section != "aboutMe" {
			return nil, fmt.Errorf("%w: %v", llm.ErrInvalidResponse, err)
		}
		// A summary may come back as bare prose.
		encoded, _ := json.Marshal(llm.StripFence(raw))
		text = string(encoded)
	}
	s.record(ctx, userID, KindSection, targetJob, nil, json.RawMessage(text))
	return json.RawMessage(text), nil
}

// TailorToJob returns a copy of the profile rewritten for jobDescription.
func (s *Service) TailorToJob(ctx context.Context, userID string, p profiles.ProfileData, jobDescription string) (profiles.ProfileData, error) {
	jd, err := requireJobDescription(jobDescription)
	if err != nil {
		return profiles.ProfileData{}, err
	}
	prompt, err := llm.RenderPrompt(llm.PromptTailor, map[string]string{
		"JOB_DESCRIPTION": jd,
		"PROFILE_JSON":    profileJSON(p),
	})
	if err != nil {
		return profiles.ProfileData{}, err
	}
	raw, err := s.Runner.Complete(ctx, userID, llm.Request{
		Operation:   string(KindTailor),
		Prompt:      prompt,
		Temperature: 0.2,
		JSON:        true,
		MaxTokens:   8192,
	})
	if err != nil {
		return profiles.ProfileData{}, err
	}

	text, err := llm.ExtractJSON(raw)
	if err != nil {
		return profiles.ProfileData{}, fmt.Errorf("%w: %v", llm.ErrInvalidResponse, err)
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &keys); err != nil {
		return profiles.ProfileData{}, fmt.Errorf("%w: %v", llm.ErrInvalidResponse, err)
	}
	if !isObject(keys["personalInfo"]) || !isArray(keys["workExperience"]) {
		return profiles.ProfileData{}, ErrIncompleteProfile
	}
	var tailored profiles.ProfileData
	if err := json.Unmarshal([]byte(text), &tailored); err != nil {
		return profiles.ProfileData{}, fmt.Errorf("%w: %v", llm.ErrInvalidResponse, err)
	}
	tailored = *finishProfile(&tailored)

	s.record(ctx, userID, KindTailor, jd, nil, tailored)
	return tailored, nil
}

// ParseResumeText turns extracted resume text into a profile with fresh entry ids.
func (s *Service) ParseResumeText(ctx context.Context, userID, text string) (profiles.ProfileData, error) {
	if strings.TrimSpace(text) == "" {
		return profiles.ProfileData{}, fmt.Errorf("%w: resume text is empty", ErrInvalidInput)
	}
	var parsed profiles.ProfileData
	err := s.completeJSON(ctx, userID, llm.PromptParseResume, map[string]string{
		"RESUME_TEXT": text,
	}, llm.Request{Operation: string(KindParse), Temperature: 0.1, MaxTokens: 8192}, &parsed)
	if err != nil {
		return profiles.ProfileData{}, err
	}
	parsed = profiles.Normalize(parsed)
	profiles.ReassignIDs(&parsed)

	s.record(ctx, userID, KindParse, "", nil, parsed)
	return parsed, nil
}

// Get returns one stored analysis.
func (s *Service) Get(ctx context.Context, userID, id string) (Analysis, error) {
	if s.Repo == nil {
		return Analysis{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, userID, id)
}

// List returns stored analyses, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Analysis, error) {
	if s.Repo == nil {
		return []Analysis{}, nil
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

func (s *Service) completeJSON(ctx context.Context, userID, promptName string, vars map[string]string, req llm.Request, out any) error {
	prompt, err := llm.RenderPrompt(promptName, vars)
	if err != nil {
		return err
	}
	req.Prompt = prompt
	req.JSON = true
	raw, err := s.Runner.Complete(ctx, userID, req)
	if err != nil {
		return err
	}
	return llm.DecodeJSON(raw, out)
}

// record stores a history entry. Failures are logged, the caller already has its result.
func (s *Service) record(ctx context.Context, userID string, kind Kind, jobDescription string, score *Score, result any) {
	if s.Repo == nil {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return
	}
	a := Analysis{
		ID:             uuid.NewString(),
		UserID:         userID,
		Kind:           kind,
		JobDescription: jobDescription,
		Provider:       s.Provider,
		Model:          s.Model,
		Result:         payload,
		CreatedAt:      s.now().UTC(),
	}
	if score != nil {
		v := int(*score)
		a.OverallScore = &v
	}
	if err := s.Repo.Create(ctx, a); err != nil {
		telemetry.Warn("analysis.record_failed", map[string]any{
			"user_id": userID,
			"kind":    string(kind),
			"error":   err,
		})
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func requireJobDescription(jd string) (string, error) {
	jd = strings.TrimSpace(jd)
	if jd == "" {
		return "", fmt.Errorf("%w: job description is required", ErrInvalidInput)
	}
	return jd, nil
}

func profileJSON(p profiles.ProfileData) string {
	data, err := json.MarshalIndent(profiles.Normalize(p), "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

func indent(raw json.RawMessage) string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return string(raw)
	}
	return string(data)
}

func finishProfile(p *profiles.ProfileData) *profiles.ProfileData {
	if p == nil {
		return nil
	}
	out := profiles.Normalize(*p)
	profiles.AssignMissingIDs(&out)
	return &out
}

func clamp(s Score) Score {
	switch {
	case s < 0:
		return 0
	case s > 100:
		return 100
	default:
		return s
	}
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func isObject(raw json.RawMessage) bool {
	t := strings.TrimSpace(string(raw))
	return strings.HasPrefix(t, "{")
}

func isArray(raw json.RawMessage) bool {
	t := strings.TrimSpace(string(raw))
	return strings.HasPrefix(t, "[")
}
