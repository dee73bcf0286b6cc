package analyses

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/llm"
	"resume-builder/internal/profiles"
	"resume-builder/internal/usage"
)

type fakeLLM struct {
	reply string
	err   error
	calls []llm.Request
}

func (f *fakeLLM) Complete(_ context.Context, req llm.Request) (string, error) {
	f.calls = append(f.calls, req)
	return f.reply, f.err
}

func newTestService(fake *fakeLLM, limit int) (*Service, *MemoryRepo, *usage.Service) {
	repo := NewMemoryRepo()
	credits := usage.NewService(limit)
	svc := &Service{
		Runner:   &Runner{LLM: fake, Usage: credits},
		Repo:     repo,
		Provider: "gemini",
		Model:    "gemini-2.0-flash",
	}
	return svc, repo, credits
}

func testProfile() profiles.ProfileData {
	return profiles.Normalize(profiles.ProfileData{
		PersonalInfo: profiles.PersonalInfo{Name: "Ada Lovelace", Email: "ada@example.com", Phone: "555-0100", Location: "London"},
		AboutMe:      "Engineer who likes engines.",
		WorkExperience: []profiles.WorkExperienceItem{{
			ID: "w1", Company: "Analytical Co", Position: "Engineer", StartDate: "2020", EndDate: "Present",
			Location: "London", Description: []string{"Built the difference engine"},
		}},
		Skills: []profiles.SkillItem{{ID: "s1", Category: "Languages", Skills: []string{"Go", "SQL"}}},
	})
}

func TestCompareToJobFixesGradeAndUsesTextResume(t *testing.T) {
	fake := &fakeLLM{reply: "```json\n{\"overallScore\": 87.4, \"grade\": \"Excellent\", \"sections\": {\"skills\": {\"score\": 90, \"matchedSkills\": [\"Go\"]}}}\n```"}
	svc, repo, credits := newTestService(fake, 5)

	out, err := svc.CompareToJob(context.Background(), "guest:g1", testProfile(), "  Go engineer  ")
	require.NoError(t, err)

	assert.Equal(t, Score(87), out.OverallScore)
	assert.Equal(t, "B+", out.Grade)
	assert.Equal(t, []string{"Go"}, out.Sections.Skills.MatchedSkills)
	assert.NotNil(t, out.Sections.Skills.MissingSkills)
	assert.NotNil(t, out.Recommendations)

	require.Len(t, fake.calls, 1)
	assert.Contains(t, fake.calls[0].Prompt, "PERSONAL INFORMATION:\nName: Ada Lovelace")
	assert.Contains(t, fake.calls[0].Prompt, "JOB DESCRIPTION:\nGo engineer")
	assert.True(t, fake.calls[0].JSON)
	assert.Equal(t, string(KindCompare), fake.calls[0].Operation)

	u, err := credits.Get(context.Background(), "guest:g1")
	require.NoError(t, err)
	assert.Equal(t, 1, u.Used)

	history, err := repo.ListByUser(context.Background(), "guest:g1", 10, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, KindCompare, history[0].Kind)
	require.NotNil(t, history[0].OverallScore)
	assert.Equal(t, 87, *history[0].OverallScore)
}

func TestCompareToJobKeepsValidGrade(t *testing.T) {
	fake := &fakeLLM{reply: `{"overallScore": 40, "grade": "c+"}`}
	svc, _, _ := newTestService(fake, 5)

	out, err := svc.CompareToJob(context.Background(), "u1", testProfile(), "jd")
	require.NoError(t, err)
	assert.Equal(t, "C+", out.Grade)
}

func TestGradeForScore(t *testing.T) {
	cases := map[int]string{100: "A+", 95: "A+", 94: "A", 90: "A", 85: "B+", 84: "B", 80: "B", 79: "C+", 75: "C+", 70: "C", 69: "D", 60: "D", 59: "F", 0: "F"}
	for score, want := range cases {
		assert.Equal(t, want, GradeForScore(score), "score %d", score)
	}
	assert.False(t, ValidGrade("E"))
	assert.True(t, ValidGrade("F"))
}

func TestJobDescriptionRequired(t *testing.T) {
	fake := &fakeLLM{reply: `{}`}
	svc, _, _ := newTestService(fake, 5)

	_, err := svc.AnalyzeDetailed(context.Background(), "u1", testProfile(), "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.CompareToJob(context.Background(), "u1", testProfile(), "")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.TailorToJob(context.Background(), "u1", testProfile(), "")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, fake.calls)
}

func TestAnalyzeAndImproveAssignsMissingIDs(t *testing.T) {
	fake := &fakeLLM{reply: `Sure! {"overallScore": 72, "strengths": ["clear"], "suggestions": [{"section":"aboutMe","impact":"high"}],
		"improvedProfile": {"personalInfo": {"name": "Ada Lovelace"}, "aboutMe": "Better", "workExperience": [{"id": "w1", "company": "Analytical Co"}, {"company": "New Co"}]}}`}
	svc, _, _ := newTestService(fake, 5)

	out, err := svc.AnalyzeAndImprove(context.Background(), "u1", testProfile(), "")
	require.NoError(t, err)
	assert.Equal(t, Score(72), out.OverallScore)
	assert.Equal(t, []string{}, out.Weaknesses)
	require.NotNil(t, out.ImprovedProfile)
	require.Len(t, out.ImprovedProfile.WorkExperience, 2)
	assert.Equal(t, "w1", out.ImprovedProfile.WorkExperience[0].ID)
	assert.NotEmpty(t, out.ImprovedProfile.WorkExperience[1].ID)
	assert.Equal(t, []profiles.EducationItem{}, out.ImprovedProfile.Education)

	assert.Contains(t, fake.calls[0].Prompt, "General resume improvement")
	assert.InDelta(t, 0.3, fake.calls[0].Temperature, 0.001)
}

func TestAnalyzeDetailedIsDeterministic(t *testing.T) {
	fake := &fakeLLM{reply: `{"overallScore": 140, "atsCompatibility": "28", "keywordMatches": {"matchPercentage": 35.5}}`}
	svc, _, _ := newTestService(fake, 5)

	out, err := svc.AnalyzeDetailed(context.Background(), "u1", testProfile(), "Kubernetes")
	require.NoError(t, err)
	assert.Equal(t, Score(100), out.OverallScore)
	assert.Equal(t, Score(28), out.ATSCompatibility)
	assert.Equal(t, Score(36), out.KeywordMatches.MatchPercentage)
	assert.Equal(t, []string{}, out.CriticalIssues)
	assert.Nil(t, out.ImprovedProfile)
	assert.Equal(t, float32(0), fake.calls[0].Temperature)
}

func TestUsageLimitBlocksBeforeCallingModel(t *testing.T) {
	fake := &fakeLLM{reply: `{"overallScore": 50}`}
	svc, _, _ := newTestService(fake, 1)

	_, err := svc.CompareToJob(context.Background(), "u1", testProfile(), "jd")
	require.NoError(t, err)
	_, err = svc.CompareToJob(context.Background(), "u1", testProfile(), "jd")
	assert.ErrorIs(t, err, usage.ErrLimitReached)
	assert.Len(t, fake.calls, 1)
}

func TestFailedCallDoesNotConsumeCredit(t *testing.T) {
	fake := &fakeLLM{err: errors.New("openai http status 400: bad request")}
	svc, repo, credits := newTestService(fake, 5)

	_, err := svc.CompareToJob(context.Background(), "u1", testProfile(), "jd")
	require.Error(t, err)

	u, err := credits.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, u.Used)
	history, _ := repo.ListByUser(context.Background(), "u1", 0, 0)
	assert.Empty(t, history)
}

// llmFunc adapts a function to llm.Client.
type llmFunc func(context.Context, llm.Request) (string, error)

func (f llmFunc) Complete(ctx context.Context, req llm.Request) (string, error) {
	return f(ctx, req)
}

func TestCreditReservedWhileModelRuns(t *testing.T) {
	credits := usage.NewService(1)
	runner := &Runner{Usage: credits}
	var concurrent error
	runner.LLM = llmFunc(func(ctx context.Context, req llm.Request) (string, error) {
		_, concurrent = runner.Complete(ctx, "u1", req)
		return "{}", nil
	})

	out, err := runner.Complete(context.Background(), "u1", llm.Request{})
	require.NoError(t, err)
	assert.Equal(t, "{}", out)
	assert.ErrorIs(t, concurrent, usage.ErrLimitReached)

	u, err := credits.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, u.Used)
}

func TestCanceledCallRefundsCredit(t *testing.T) {
	credits := usage.NewService(1)
	ctx, cancel := context.WithCancel(context.Background())
	runner := &Runner{Usage: credits, LLM: llmFunc(func(ctx context.Context, _ llm.Request) (string, error) {
		cancel()
		return "", ctx.Err()
	})}

	_, err := runner.Complete(ctx, "u1", llm.Request{})
	assert.ErrorIs(t, err, context.Canceled)

	u, err := credits.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, u.Used)
}

func TestUnparseableResponse(t *testing.T) {
	fake := &fakeLLM{reply: "I cannot score this resume."}
	svc, _, _ := newTestService(fake, 5)

	_, err := svc.CompareToJob(context.Background(), "u1", testProfile(), "jd")
	assert.ErrorIs(t, err, llm.ErrInvalidResponse)
}

func TestTailorToJob(t *testing.T) {
	t.Run("requires personal info and work experience", func(t *testing.T) {
		fake := &fakeLLM{reply: `{"personalInfo": {"name": "Ada"}, "aboutMe": "x"}`}
		svc, _, _ := newTestService(fake, 5)
		_, err := svc.TailorToJob(context.Background(), "u1", testProfile(), "jd")
		assert.ErrorIs(t, err, ErrIncompleteProfile)
	})

	t.Run("keeps ids and fills missing ones", func(t *testing.T) {
		fake := &fakeLLM{reply: "```json\n" + `{"personalInfo": {"name": "Ada Lovelace"}, "aboutMe": "Tailored",
			"workExperience": [{"id": "w1", "company": "Analytical Co", "position": "Go Engineer"}],
			"skills": [{"category": "Cloud", "skills": ["Kubernetes"]}]}` + "\n```"}
		svc, _, _ := newTestService(fake, 5)
		out, err := svc.TailorToJob(context.Background(), "u1", testProfile(), "Kubernetes engineer")
		require.NoError(t, err)
		assert.Equal(t, "Tailored", out.AboutMe)
		assert.Equal(t, "w1", out.WorkExperience[0].ID)
		assert.Equal(t, []string{}, out.WorkExperience[0].Description)
		assert.NotEmpty(t, out.Skills[0].ID)
		assert.Equal(t, []profiles.ProjectItem{}, out.Projects)
	})
}

func TestParseResumeTextAssignsFreshIDs(t *testing.T) {
	fake := &fakeLLM{reply: `{"personalInfo": {"name": "Grace Hopper", "email": "grace@example.com"},
		"education": [{"id": "model-made-this-up", "institution": "Yale"}],
		"workExperience": [{"company": "Navy", "description": ["COBOL"]}]}`}
	svc, _, _ := newTestService(fake, 5)

	out, err := svc.ParseResumeText(context.Background(), "u1", "Grace Hopper\nYale")
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", out.PersonalInfo.Name)
	require.Len(t, out.Education, 1)
	assert.NotEqual(t, "model-made-this-up", out.Education[0].ID)
	assert.NotEmpty(t, out.WorkExperience[0].ID)
	assert.Equal(t, []profiles.VolunteerItem{}, out.VolunteerWork)

	_, err = svc.ParseResumeText(context.Background(), "u1", "  ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestImproveSection(t *testing.T) {
	t.Run("array in prose", func(t *testing.T) {
		fake := &fakeLLM{reply: `Here you go: [{"id":"s1","category":"Languages","skills":["Go","SQL","Rust"]}] Enjoy.`}
		svc, _, _ := newTestService(fake, 5)
		out, err := svc.ImproveSection(context.Background(), "u1", "skills", json.RawMessage(`[{"id":"s1"}]`), testProfile(), "Rust role")
		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":"s1","category":"Languages","skills":["Go","SQL","Rust"]}]`, string(out))
		assert.Contains(t, fake.calls[0].Prompt, "Section: skills")
		assert.Contains(t, fake.calls[0].Prompt, "Target Job: Rust role")
	})

	t.Run("about me prose", func(t *testing.T) {
		fake := &fakeLLM{reply: "Seasoned engineer shipping reliable systems."}
		svc, _, _ := newTestService(fake, 5)
		out, err := svc.ImproveSection(context.Background(), "u1", "aboutMe", json.RawMessage(`"old"`), testProfile(), "")
		require.NoError(t, err)
		assert.Equal(t, `"Seasoned engineer shipping reliable systems."`, string(out))
	})

	t.Run("unknown section", func(t *testing.T) {
		svc, _, _ := newTestService(&fakeLLM{}, 5)
		_, err := svc.ImproveSection(context.Background(), "u1", "hobbies", json.RawMessage(`[]`), testProfile(), "")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestScoreAcceptsLooseNumbers(t *testing.T) {
	var v struct {
		A Score `json:"a"`
		B Score `json:"b"`
		C Score `json:"c"`
		D Score `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 85.6, "b": "72", "c": null, "d": "40%"}`), &v))
	assert.Equal(t, Score(86), v.A)
	assert.Equal(t, Score(72), v.B)
	assert.Equal(t, Score(0), v.C)
	assert.Equal(t, Score(40), v.D)

	assert.Error(t, json.Unmarshal([]byte(`{"a": "high"}`), &v))
}

func TestNotConfiguredRunner(t *testing.T) {
	svc := &Service{Runner: &Runner{LLM: llm.PlaceholderClient{}}}
	_, err := svc.CompareToJob(context.Background(), "u1", testProfile(), "jd")
	assert.ErrorIs(t, err, llm.ErrNotConfigured)
	assert.False(t, strings.Contains(err.Error(), "http"))
}
