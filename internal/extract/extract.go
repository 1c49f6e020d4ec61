// Package extract locates and recovers JSON objects embedded in free-form
// LLM output. Provider text is adversarial input: it may wrap the object in
// markdown fences, prose, or truncate it mid-array, so extraction tries a
// sequence of increasingly permissive candidates and falls back to the
// repair scanner before giving up.
package extract

import (
	"encoding/json"
	"fmt"
	"strings"
)

// discriminatorKeys are the known top-level field names that identify which
// entity schema a provider response carries. Candidate extraction anchors on
// these before falling back to positional heuristics.
var discriminatorKeys = []string{
	"prospects",
	"markets",
	"contacts",
	"analysis",
	"competitors",
	"entreprises",
}

// snippetLen bounds the raw-text sample carried by extraction failures.
const snippetLen = 300

// NoJSONError reports that no parseable JSON object could be recovered from
// provider text. Snippet holds the head of the raw input for diagnostics.
type NoJSONError struct {
	Snippet string
}

func (e *NoJSONError) Error() string {
	return fmt.Sprintf("extract: no JSON object found in provider text (head: %q)", e.Snippet)
}

// Result is a successfully extracted object. Repaired reports whether the
// repair scanner had to run; orchestrators surface it in debug diagnostics.
type Result struct {
	Object   map[string]any
	Raw      string
	Repaired bool
}

// Object extracts one JSON object from raw provider text. Candidates are
// tried in order; the first that parses (directly or after repair) wins.
func Object(text string) (*Result, error) {
	cleaned := StripFences(text)

	var candidates []string
	if c, ok := discriminatorCandidate(cleaned); ok {
		candidates = append(candidates, c)
	}
	if c, ok := braceSpanCandidate(cleaned); ok {
		candidates = append(candidates, c)
	}
	if c, ok := arrayCandidate(cleaned); ok {
		candidates = append(candidates, c)
	}

	for _, c := range candidates {
		var obj map[string]any
		if err := json.Unmarshal([]byte(c), &obj); err == nil {
			return &Result{Object: obj, Raw: c}, nil
		}
	}

	// Direct parsing failed everywhere; run the repair scanner on each
	// candidate, best (most specific) first.
	for _, c := range candidates {
		repaired := Repair(c)
		if repaired == "" {
			continue
		}
		var obj map[string]any
		if err := json.Unmarshal([]byte(repaired), &obj); err == nil {
			return &Result{Object: obj, Raw: repaired, Repaired: true}, nil
		}
	}

	return nil, &NoJSONError{Snippet: snippet(text)}
}

// StripFences removes markdown code-fence markers around a block. Text
// outside the fence is discarded when a fenced block is present.
func StripFences(text string) string {
	text = strings.TrimSpace(text)

	start := strings.Index(text, "```")
	if start < 0 {
		return text
	}

	inner := text[start+3:]
	// Skip a language tag like "json" on the fence line.
	if nl := strings.IndexByte(inner, '\n'); nl >= 0 {
		firstLine := strings.TrimSpace(inner[:nl])
		if len(firstLine) <= 10 && !strings.ContainsAny(firstLine, "{}[]") {
			inner = inner[nl+1:]
		}
	}
	if end := strings.LastIndex(inner, "```"); end >= 0 {
		inner = inner[:end]
	}
	return strings.TrimSpace(inner)
}

// discriminatorCandidate finds a quoted discriminator key and returns the
// balanced object enclosing it. The scan honors string-literal and escape
// state, so braces inside values do not fool it.
func discriminatorCandidate(text string) (string, bool) {
	for _, key := range discriminatorKeys {
		idx := strings.Index(text, `"`+key+`"`)
		if idx < 0 {
			continue
		}
		open := strings.LastIndexByte(text[:idx], '{')
		if open < 0 {
			continue
		}
		if span, ok := balancedSpan(text, open); ok {
			return span, true
		}
		// Unbalanced (likely truncated): return everything from the brace
		// so the repair scanner can close it.
		return text[open:], true
	}
	return "", false
}

// braceSpanCandidate returns the substring from the first '{' to the last
// '}' in the text.
func braceSpanCandidate(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// arrayCandidate extracts a named top-level array ("contacts": [...]) and
// synthesizes a minimal wrapping object around it.
func arrayCandidate(text string) (string, bool) {
	for _, key := range discriminatorKeys {
		idx := strings.Index(text, `"`+key+`"`)
		if idx < 0 {
			continue
		}
		rest := text[idx+len(key)+2:]
		colon := strings.IndexByte(rest, ':')
		if colon < 0 {
			continue
		}
		after := strings.TrimLeft(rest[colon+1:], " \t\r\n")
		if !strings.HasPrefix(after, "[") {
			continue
		}
		span, ok := balancedSpan(after, 0)
		if !ok {
			// Truncated array: hand the open tail to the repair scanner.
			span = after
		}
		return fmt.Sprintf(`{"%s": %s}`, key, span), true
	}
	return "", false
}

// balancedSpan scans forward from an opening '{' or '[' at position open and
// returns the substring through its matching closer.
func balancedSpan(text string, open int) (string, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := open; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return text[open : i+1], true
			}
		}
	}
	return "", false
}

// snippet returns the head of raw text, bounded for log safety.
func snippet(text string) string {
	text = strings.TrimSpace(text)
	if len(text) > snippetLen {
		return text[:snippetLen]
	}
	return text
}
