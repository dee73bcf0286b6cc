package pdfexport

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"resume-builder/internal/profiles"
	"resume-builder/internal/shared/util"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"join":      strings.Join,
	"dateRange": dateRange,
}).ParseFS(templateFS, "templates/*.html.tmpl"))

// RenderResumeHTML lays the profile out as a printable A4 page.
func RenderResumeHTML(p profiles.ProfileData) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "resume.html.tmpl", profiles.Normalize(p)); err != nil {
		return nil, fmt.Errorf("render resume html: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderCoverLetterHTML wraps letter text in a printable page, one <p> per paragraph.
func RenderCoverLetterHTML(letter string) ([]byte, error) {
	var buf bytes.Buffer
	data := struct{ Paragraphs []string }{Paragraphs: paragraphs(letter)}
	if err := templates.ExecuteTemplate(&buf, "cover_letter.html.tmpl", data); err != nil {
		return nil, fmt.Errorf("render cover letter html: %w", err)
	}
	return buf.Bytes(), nil
}

// ResumeFileName is "<Name>_<JobTitle>_Resume.pdf" with spaces turned into
// underscores. Empty parts are left out, so it falls back to "Resume.pdf".
func ResumeFileName(p profiles.ProfileData, jobTitle string) string {
	var parts []string
	for _, s := range []string{p.PersonalInfo.Name, jobTitle} {
		if part := util.UnderscoreName(s); part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(append(parts, "Resume.pdf"), "_")
}

// CoverLetterFileName is the fixed download name for cover letters.
const CoverLetterFileName = "Cover_Letter.pdf"

func paragraphs(text string) []string {
	text = strings.ReplaceAll(strings.TrimSpace(text), "\r\n", "\n")
	var out []string
	for _, block := range strings.Split(text, "\n\n") {
		if block = strings.TrimSpace(block); block != "" {
			out = append(out, block)
		}
	}
	return out
}

func dateRange(start, end string) string {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	switch {
	case start == "":
		return end
	case end == "":
		return start
	default:
		return start + " - " + end
	}
}
