package coverletters

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"resume-builder/internal/analyses"
	"resume-builder/internal/llm"
	"resume-builder/internal/profiles"
)

// Analysis is the model's review of a cover letter.
type Analysis struct {
	OverallScore        analyses.Score `json:"overallScore"`
	Strengths           []string       `json:"strengths"`
	Weaknesses          []string       `json:"weaknesses"`
	Suggestions         []string       `json:"suggestions"`
	ImprovedCoverLetter string         `json:"improvedCoverLetter"`
}

// Service writes and reviews cover letters.
type Service struct {
	Runner *analyses.Runner
}

// NewService constructs a Service.
func NewService(runner *analyses.Runner) *Service {
	return &Service{Runner: runner}
}

// Generate writes a letter for the job from the profile.
func (s *Service) Generate(ctx context.Context, userID string, p profiles.ProfileData, jobDescription, companyName string) (string, error) {
	jd, err := requireText(jobDescription, "job description")
	if err != nil {
		return "", err
	}
	companyLine := ""
	if name := strings.TrimSpace(companyName); name != "" {
		companyLine = "Company Name: " + name
	}
	return s.completeText(ctx, userID, llm.PromptCoverLetterGenerate, map[string]string{
		"PROFILE_JSON":    profileJSON(p),
		"JOB_DESCRIPTION": jd,
		"COMPANY_LINE":    companyLine,
	}, 0.4)
}

// Analyze scores an existing letter against the job.
func (s *Service) Analyze(ctx context.Context, userID, letter, jobDescription string, p profiles.ProfileData) (Analysis, error) {
	letter, err := requireText(letter, "cover letter")
	if err != nil {
		return Analysis{}, err
	}
	jd, err := requireText(jobDescription, "job description")
	if err != nil {
		return Analysis{}, err
	}
	prompt, err := llm.RenderPrompt(llm.PromptCoverLetterAnalyze, map[string]string{
		"COVER_LETTER":    letter,
		"JOB_DESCRIPTION": jd,
		"PROFILE_JSON":    profileJSON(p),
	})
	if err != nil {
		return Analysis{}, err
	}
	raw, err := s.Runner.Complete(ctx, userID, llm.Request{
		Operation:   "coverletter_analyze",
		Prompt:      prompt,
		Temperature: 0.2,
		JSON:        true,
	})
	if err != nil {
		return Analysis{}, err
	}

	var out Analysis
	if err := llm.DecodeJSON(raw, &out); err != nil {
		return Analysis{}, err
	}
	out.OverallScore = analyses.Score(clamp(int(out.OverallScore)))
	out.Strengths = nonNil(out.Strengths)
	out.Weaknesses = nonNil(out.Weaknesses)
	out.Suggestions = nonNil(out.Suggestions)
	out.ImprovedCoverLetter = strings.TrimSpace(out.ImprovedCoverLetter)
	return out, nil
}

// Improve rewrites a letter, optionally steered by feedback.
func (s *Service) Improve(ctx context.Context, userID, letter, jobDescription string, p profiles.ProfileData, feedback string) (string, error) {
	letter, err := requireText(letter, "cover letter")
	if err != nil {
		return "", err
	}
	jd, err := requireText(jobDescription, "job description")
	if err != nil {
		return "", err
	}
	feedbackLine := ""
	if f := strings.TrimSpace(feedback); f != "" {
		feedbackLine = "Specific Feedback to Address: " + f
	}
	return s.completeText(ctx, userID, llm.PromptCoverLetterImprove, map[string]string{
		"COVER_LETTER":    letter,
		"JOB_DESCRIPTION": jd,
		"PROFILE_JSON":    profileJSON(p),
		"FEEDBACK_LINE":   feedbackLine,
	}, 0.3)
}

func (s *Service) completeText(ctx context.Context, userID, promptName string, vars map[string]string, temperature float32) (string, error) {
	prompt, err := llm.RenderPrompt(promptName, vars)
	if err != nil {
		return "", err
	}
	raw, err := s.Runner.Complete(ctx, userID, llm.Request{
		Operation:   promptName,
		Prompt:      prompt,
		Temperature: temperature,
	})
	if err != nil {
		return "", err
	}
	text := llm.StripFence(raw)
	if text == "" {
		return "", fmt.Errorf("%w: empty cover letter", llm.ErrInvalidResponse)
	}
	return text, nil
}

func requireText(v, name string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", fmt.Errorf("%w: %s is required", analyses.ErrInvalidInput, name)
	}
	return v, nil
}

func profileJSON(p profiles.ProfileData) string {
	data, err := json.MarshalIndent(profiles.Normalize(p), "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
