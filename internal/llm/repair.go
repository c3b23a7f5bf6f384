package llm

import (
	"regexp"
	"strings"
)

// Model output rarely arrives as clean JSON. RepairJSON applies the small
// set of fixes that cover almost every malformed response: markdown code
// fences, prose around the payload, and trailing commas.
func RepairJSON(raw string) string {
	s := strings.TrimSpace(raw)

	s = stripCodeFences(s)
	s = outermostJSON(s)
	s = dropTrailingCommas(s)

	return strings.TrimSpace(s)
}

var codeFence = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

func stripCodeFences(s string) string {
	if m := codeFence.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	// Unterminated fence: drop the opening marker.
	if idx := strings.Index(s, "```"); idx >= 0 {
		trimmed := s[idx+3:]
		trimmed = strings.TrimPrefix(trimmed, "json")
		return strings.TrimSpace(trimmed)
	}
	return s
}

// outermostJSON slices out the outermost {...} or [...] pair, discarding
// any prose before or after the payload.
func outermostJSON(s string) string {
	braceStart := strings.Index(s, "{")
	bracketStart := strings.Index(s, "[")

	start := braceStart
	open, closing := byte('{'), byte('}')
	if start < 0 || (bracketStart >= 0 && bracketStart < start) {
		start = bracketStart
		open, closing = '[', ']'
	}
	if start < 0 {
		return s
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		switch {
		case escaped:
			escaped = false
		case ch == '\\' && inString:
			escaped = true
		case ch == '"':
			inString = !inString
		case !inString && ch == open:
			depth++
		case !inString && ch == closing:
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}

	// Unbalanced; return from the opener onward and let the caller's
	// parser report the failure.
	return s[start:]
}

var trailingComma = regexp.MustCompile(`,\s*([}\]])`)

func dropTrailingCommas(s string) string {
	return trailingComma.ReplaceAllString(s, "$1")
}
