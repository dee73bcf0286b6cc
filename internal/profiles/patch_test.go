package profiles

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyPatchTouchesOnlyTargetField(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		value string
		want  func(p *ProfileData)
	}{
		{
			name:  "personal email",
			path:  "personalInfo.email",
			value: `"countess@example.com"`,
			want:  func(p *ProfileData) { p.PersonalInfo.Email = "countess@example.com" },
		},
		{
			name:  "about me",
			path:  "aboutMe",
			value: `"New summary"`,
			want:  func(p *ProfileData) { p.AboutMe = "New summary" },
		},
		{
			name:  "work position",
			path:  "workExperience.work1.position",
			value: `"Chief Programmer"`,
			want:  func(p *ProfileData) { p.WorkExperience[0].Position = "Chief Programmer" },
		},
		{
			name:  "work description list",
			path:  "workExperience.work2.description",
			value: `["Reviewed designs","Built tables"]`,
			want: func(p *ProfileData) {
				p.WorkExperience[1].Description = []string{"Reviewed designs", "Built tables"}
			},
		},
		{
			name:  "skills list",
			path:  "skills.sk2.skills",
			value: `["Calculus","Algebra"]`,
			want:  func(p *ProfileData) { p.Skills[1].Skills = []string{"Calculus", "Algebra"} },
		},
		{
			name:  "optional portfolio",
			path:  "personalInfo.portfolio",
			value: `"ada.dev"`,
			want:  func(p *ProfileData) { p.PersonalInfo.Portfolio = "ada.dev" },
		},
		{
			name:  "education gpa",
			path:  "education.edu1.gpa",
			value: `"3.9"`,
			want:  func(p *ProfileData) { p.Education[0].GPA = "3.9" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := Normalize(sampleProfile())
			before := clone(original)

			got, err := ApplyPatch(original, tt.path, json.RawMessage(tt.value))
			require.NoError(t, err)

			want := clone(original)
			tt.want(&want)
			assert.Equal(t, want, got)
			assert.Equal(t, before, original, "input profile must not be mutated")
		})
	}
}

func TestApplyPatchErrors(t *testing.T) {
	p := Normalize(sampleProfile())

	_, err := ApplyPatch(p, "personalInfo.nickname", json.RawMessage(`"x"`))
	assert.True(t, errors.Is(err, ErrInvalidInput), "unknown personal field: %v", err)

	_, err = ApplyPatch(p, "workExperience.missing.position", json.RawMessage(`"x"`))
	assert.True(t, errors.Is(err, ErrNotFound), "unknown id: %v", err)

	_, err = ApplyPatch(p, "workExperience.work1.id", json.RawMessage(`"x"`))
	assert.True(t, errors.Is(err, ErrInvalidInput), "id is immutable: %v", err)

	_, err = ApplyPatch(p, "workExperience.work1.description", json.RawMessage(`"not a list"`))
	assert.True(t, errors.Is(err, ErrInvalidInput), "type mismatch: %v", err)

	_, err = ApplyPatch(p, "hobbies", json.RawMessage(`"x"`))
	assert.True(t, errors.Is(err, ErrInvalidInput), "unknown path: %v", err)

	_, err = ApplyPatch(p, "aboutMe", nil)
	assert.True(t, errors.Is(err, ErrInvalidInput), "missing value: %v", err)
}

func TestAddEntryAssignsFreshID(t *testing.T) {
	p := Normalize(sampleProfile())
	out, id, err := AddEntry(p, SectionSkills, json.RawMessage(`{"category":"Tools","skills":["Loom"]}`))
	require.NoError(t, err)

	require.Len(t, out.Skills, 3)
	assert.Equal(t, id, out.Skills[2].ID)
	assert.Equal(t, "Tools", out.Skills[2].Category)
	assert.Len(t, p.Skills, 2, "input untouched")
	assert.Equal(t, p.Skills, out.Skills[:2])
}

func TestAddEntryRejectsUnknownFields(t *testing.T) {
	_, _, err := AddEntry(Empty(), SectionProjects, json.RawMessage(`{"name":"x","colour":"red"}`))
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, _, err = AddEntry(Empty(), "hobbies", json.RawMessage(`{}`))
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestRemoveEntry(t *testing.T) {
	p := Normalize(sampleProfile())
	out, err := RemoveEntry(p, SectionWorkExperience, "work1")
	require.NoError(t, err)
	require.Len(t, out.WorkExperience, 1)
	assert.Equal(t, "work2", out.WorkExperience[0].ID)
	assert.Len(t, p.WorkExperience, 2)

	_, err = RemoveEntry(p, SectionWorkExperience, "nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestNewEntryIDShape(t *testing.T) {
	a, b := NewEntryID(), NewEntryID()
	assert.NotEqual(t, a, b)
	assert.GreaterOrEqual(t, len(a), idSuffixLen+8)
	assert.Equal(t, strings.ToLower(a), a)
}

func TestReassignIDs(t *testing.T) {
	p := Normalize(sampleProfile())
	ReassignIDs(&p)
	assert.NotEqual(t, "edu1", p.Education[0].ID)
	assert.NotEmpty(t, p.Skills[1].ID)
	assert.NotEqual(t, p.Skills[0].ID, p.Skills[1].ID)
}
