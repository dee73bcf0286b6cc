package llm

import (
	"embed"
	"fmt"
	"regexp"
	"strings"
)

//go:embed prompts/*.txt
var promptFS embed.FS

// Prompt names.
const (
	PromptAnalyzeImprove      = "analyze_improve"
	PromptAnalyzeDetailed     = "analyze_detailed"
	PromptCompare             = "compare"
	PromptImproveSection      = "improve_section"
	PromptTailor              = "tailor"
	PromptParseResume         = "parse_resume"
	PromptCoverLetterGenerate = "coverletter_generate"
	PromptCoverLetterAnalyze  = "coverletter_analyze"
	PromptCoverLetterImprove  = "coverletter_improve"
)

var placeholder = regexp.MustCompile(`\{\{([A-Z_]+)\}\}`)

// PromptTemplate returns the raw template text for name.
func PromptTemplate(name string) (string, error) {
	data, err := promptFS.ReadFile("prompts/" + name + ".txt")
	if err != nil {
		return "", fmt.Errorf("prompt %q: %w", name, err)
	}
	return string(data), nil
}

// RenderPrompt fills {{KEY}} placeholders in the named template. Keys missing
// from vars render as empty strings.
func RenderPrompt(name string, vars map[string]string) (string, error) {
	tmpl, err := PromptTemplate(name)
	if err != nil {
		return "", err
	}
	out := placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		key := placeholder.FindStringSubmatch(m)[1]
		return vars[key]
	})
	return strings.TrimSpace(out) + "\n", nil
}
