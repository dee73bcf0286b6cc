package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoJSON means no JSON document could be located in a response.
	ErrNoJSON = errors.New("no JSON found in model response")
	// ErrInvalidResponse wraps responses that could not be decoded into the expected shape.
	ErrInvalidResponse = errors.New("invalid model response")
)

// ExtractJSON locates a JSON object in a model response. Fenced blocks,
// plain JSON and objects embedded in prose are all accepted.
func ExtractJSON(raw string) (string, error) {
	text := stripFence(raw)
	if text != "" && json.Valid([]byte(text)) && strings.HasPrefix(text, "{") {
		return text, nil
	}
	if obj, ok := span(text, '{', '}'); ok {
		return obj, nil
	}
	return "", ErrNoJSON
}

// ExtractJSONValue is ExtractJSON that also accepts a top-level array when
// it starts before any object.
func ExtractJSONValue(raw string) (string, error) {
	text := stripFence(raw)
	if text != "" && json.Valid([]byte(text)) {
		return text, nil
	}
	arrStart := strings.IndexByte(text, '[')
	objStart := strings.IndexByte(text, '{')
	if arrStart >= 0 && (objStart < 0 || arrStart < objStart) {
		if arr, ok := span(text, '[', ']'); ok {
			return arr, nil
		}
	}
	if obj, ok := span(text, '{', '}'); ok {
		return obj, nil
	}
	return "", ErrNoJSON
}

// DecodeJSON extracts the JSON object from raw and unmarshals it into out.
func DecodeJSON(raw string, out any) error {
	text, err := ExtractJSON(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

// StripFence trims whitespace and a surrounding markdown code fence.
func StripFence(raw string) string {
	return stripFence(raw)
}

func stripFence(raw string) string {
	text := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(text, "```json"):
		text = strings.TrimPrefix(text, "```json")
	case strings.HasPrefix(text, "```"):
		text = strings.TrimPrefix(text, "```")
	default:
		return text
	}
	text = strings.TrimPrefix(text, "\n")
	text = strings.TrimSuffix(strings.TrimRight(text, " \t\r\n"), "```")
	return strings.TrimSpace(text)
}

// span returns text from the first open through the last close, when it parses.
func span(text string, open, close byte) (string, bool) {
	start := strings.IndexByte(text, open)
	end := strings.LastIndexByte(text, close)
	if start < 0 || end <= start {
		return "", false
	}
	candidate := text[start : end+1]
	if !json.Valid([]byte(candidate)) {
		return "", false
	}
	return candidate, true
}
