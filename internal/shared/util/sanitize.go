package util

import (
	"errors"
	"regexp"
	"strings"
)

var (
	errInvalidFileName = errors.New("invalid file name")
	unsafeNameChars    = regexp.MustCompile(`[/\\"]+`)
)

// SanitizeFileName removes path separators and rejects traversal patterns.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errInvalidFileName
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	if s == "" {
		return "", errInvalidFileName
	}
	return s, nil
}

// UnderscoreName replaces whitespace runs with underscores and drops characters
// unsafe in a download name: "Ada M. Lovelace" -> "Ada_M._Lovelace".
func UnderscoreName(s string) string {
	s = unsafeNameChars.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), "_")
}
