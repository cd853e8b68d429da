package llmutils

import "fmt"

// Truncate shortens a string to at most n characters, adding "..." if it was truncated.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// StringOrDefault returns s if it's not empty, or def if s is empty.
func StringOrDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// FirstJSONObject extracts the first balanced top-level JSON object from s.
// Models wrap structured output in prose more often than not, so extraction
// scans for the first '{' and tracks brace depth, staying string-aware so
// braces inside quoted values don't count. Returns false when no complete
// object is present.
func FirstJSONObject(s string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if start == -1 {
			if c == '{' {
				start = i
				depth = 1
			}
			continue
		}
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
	}
	return "", false
}

// ToolHint renders a short human-readable hint for a tool invocation,
// e.g. `get_team_stats("Chiefs")`. Used for progress updates.
func ToolHint(name string, args map[string]any) string {
	var firstVal string
	for _, v := range args {
		if s, ok := v.(string); ok {
			firstVal = s
		}
		break
	}
	if firstVal == "" {
		return name
	}
	if len(firstVal) > 40 {
		firstVal = firstVal[:40] + "…"
	}
	return fmt.Sprintf("%s(%q)", name, firstVal)
}
