package extract

import (
	"encoding/json"
	"strings"
)

// maxTruncationPasses bounds the tail-cutting fallback so repair always
// terminates even on pathological input.
const maxTruncationPasses = 20

// Repair attempts to turn a near-valid JSON string into valid JSON. It is a
// character-level recovering scanner, not a pattern matcher: every pass
// tracks brace/bracket depth, string-literal state, and escape state, so a
// brace inside a French quotation never unbalances the document.
//
// Strategies are applied cumulatively and re-validated by a parse attempt
// after each one. Returns the repaired string, or "" when nothing worked.
// Repair can produce syntactically valid but semantically lossy JSON (a
// truncated trailing element is dropped, not reconstructed); callers treat
// the result as best-effort recovery.
func Repair(s string) string {
	s = trimOutsideBraces(StripFences(s))
	if s == "" {
		return ""
	}
	if json.Valid([]byte(s)) {
		return s
	}

	for _, stage := range []func(string) string{
		removeTrailingCommas,
		quoteBareKeys,
		fixStringLiterals,
		balanceClosers,
	} {
		s = stage(s)
		if json.Valid([]byte(s)) {
			return s
		}
	}

	// Still broken: cut back to the last complete element and re-close.
	// Each pass drops one trailing fragment.
	for range maxTruncationPasses {
		cut := lastElementBoundary(s)
		if cut <= 0 {
			break
		}
		s = s[:cut]
		if fixed := balanceClosers(s); json.Valid([]byte(fixed)) {
			return fixed
		}
	}

	return ""
}

// trimOutsideBraces drops any text outside the outermost object. When the
// object is unterminated the open tail is kept for the balancing stage.
func trimOutsideBraces(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	if span, ok := balancedSpan(s, start); ok {
		return span
	}
	return strings.TrimRight(s[start:], " \t\r\n")
}

// removeTrailingCommas drops commas that directly precede a closing brace or
// bracket (ignoring whitespace), outside string literals.
func removeTrailingCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
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
		if c == '"' {
			inString = true
			b.WriteByte(c)
			continue
		}
		if c == ',' {
			j := i + 1
			for j < len(s) && isSpace(s[j]) {
				j++
			}
			if j < len(s) && (s[j] == '}' || s[j] == ']') {
				continue // drop the comma
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

// quoteBareKeys wraps unquoted property names in double quotes. A bare key
// is an identifier in key position (after '{' or after ',' inside an
// object) followed by a colon.
func quoteBareKeys(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 16)

	var stack []byte
	inString := false
	escaped := false
	expectKey := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
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
		switch {
		case c == '"':
			inString = true
			expectKey = false
			b.WriteByte(c)
		case c == '{':
			stack = append(stack, c)
			expectKey = true
			b.WriteByte(c)
		case c == '[':
			stack = append(stack, c)
			expectKey = false
			b.WriteByte(c)
		case c == '}' || c == ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			expectKey = false
			b.WriteByte(c)
		case c == ',':
			expectKey = len(stack) > 0 && stack[len(stack)-1] == '{'
			b.WriteByte(c)
		case expectKey && isIdentStart(c):
			j := i
			for j < len(s) && isIdentChar(s[j]) {
				j++
			}
			k := j
			for k < len(s) && isSpace(s[k]) {
				k++
			}
			if k < len(s) && s[k] == ':' {
				b.WriteByte('"')
				b.WriteString(s[i:j])
				b.WriteByte('"')
				i = j - 1
				expectKey = false
				continue
			}
			b.WriteByte(c)
		default:
			if !isSpace(c) {
				expectKey = false
			}
			b.WriteByte(c)
		}
	}
	return b.String()
}

// fixStringLiterals repairs broken escapes inside string literals: a
// backslash before a character that is not a legal JSON escape is doubled
// (the upstream LLM emits stray backslashes before accented characters),
// and raw control characters are converted to their escape form.
func fixStringLiterals(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 16)

	inString := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !inString {
			if c == '"' {
				inString = true
			}
			b.WriteByte(c)
			continue
		}

		switch {
		case c == '\\':
			if i+1 >= len(s) {
				// Dangling backslash at end of input: drop it, the
				// balancing stage will close the string.
				continue
			}
			next := s[i+1]
			if strings.IndexByte(`"\/bfnrtu`, next) >= 0 && (next != 'u' || validHexRun(s[i+2:])) {
				b.WriteByte(c)
				b.WriteByte(next)
				i++
				continue
			}
			b.WriteString(`\\`)
		case c == '"':
			inString = false
			b.WriteByte(c)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\t':
			b.WriteString(`\t`)
		case c == '\r':
			b.WriteString(`\r`)
		case c < 0x20:
			// Other control characters carry no content; drop them.
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// balanceClosers appends the missing closing delimiters implied by the open
// stack, in correct nesting order. An unterminated string is closed first,
// and a dangling comma or colon at the tail is cleaned up so the appended
// closers produce parseable output.
func balanceClosers(s string) string {
	var stack []byte
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
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
			stack = append(stack, c)
		case '}', ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	var b strings.Builder
	b.WriteString(s)
	if escaped {
		// Trailing lone backslash: neutralize it before closing the string.
		b.WriteByte('\\')
	}
	if inString {
		b.WriteByte('"')
	}

	out := strings.TrimRight(b.String(), " \t\r\n")
	switch {
	case strings.HasSuffix(out, ","):
		out = out[:len(out)-1]
	case strings.HasSuffix(out, ":"):
		out += "null"
	}

	var closers strings.Builder
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			closers.WriteByte('}')
		} else {
			closers.WriteByte(']')
		}
	}
	return out + closers.String()
}

// lastElementBoundary returns the index of the last comma outside string
// literals at nesting depth >= 1, i.e. the boundary before the trailing
// (possibly truncated) element. Returns -1 when no such boundary exists.
func lastElementBoundary(s string) int {
	depth := 0
	inString := false
	escaped := false
	last := -1

	for i := 0; i < len(s); i++ {
		c := s[i]
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
		case ',':
			if depth >= 1 {
				last = i
			}
		}
	}
	return last
}

func validHexRun(s string) bool {
	if len(s) < 4 {
		return false
	}
	for i := 0; i < 4; i++ {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' || c == '$'
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9' || c == '-'
}
