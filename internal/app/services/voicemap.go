package services

import "strings"

// voiceGroups drive the import mapping heuristics. Keyword containment wins
// over single-letter abbreviation equality, so "SOPRAN" and "1. sopran" both
// hit the keyword path while a bare "s" falls through to the letter path.
var voiceGroups = []struct {
	keyword   string
	canonical string
	letter    string
}{
	{"sopran", "Sopran", "s"},
	{"alt", "Alt", "a"},
	{"tenor", "Tenor", "t"},
	{"bass", "Bass", "b"},
}

// MapVoiceGroup resolves a raw spreadsheet label to a canonical voice group.
// Unmatched labels return ok=false and pass through unchanged to the caller.
func MapVoiceGroup(raw string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(raw))
	if lower == "" {
		return "", false
	}

	for _, g := range voiceGroups {
		if strings.Contains(lower, g.keyword) {
			return g.canonical, true
		}
	}
	for _, g := range voiceGroups {
		if lower == g.letter {
			return g.canonical, true
		}
	}
	return "", false
}

// MapVoiceType resolves a raw label to a canonical "{n}. {Group}" voice
// type. It requires both a group keyword and a numeric 1/2 token, as either
// prefix ("1. sopran") or suffix ("Sopran 1").
func MapVoiceType(raw string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(raw))
	if lower == "" {
		return "", false
	}

	var group string
	for _, g := range voiceGroups {
		if strings.Contains(lower, g.keyword) {
			group = g.canonical
			break
		}
	}
	if group == "" {
		return "", false
	}

	n := numericToken(lower)
	if n == "" {
		return "", false
	}
	return n + ". " + group, true
}

// numericToken extracts a leading or trailing 1/2 subdivision marker
func numericToken(s string) string {
	if strings.HasPrefix(s, "1") {
		return "1"
	}
	if strings.HasPrefix(s, "2") {
		return "2"
	}
	if strings.HasSuffix(s, "1") {
		return "1"
	}
	if strings.HasSuffix(s, "2") {
		return "2"
	}
	return ""
}
