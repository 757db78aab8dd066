// Package directive extracts tool-call directives embedded in model text.
//
// The wire grammar is a single literal wrapper:
//
//	<TOOL_CALL>tool_name(key1="value1", key2="value2")</TOOL_CALL>
//
// The tool name is a bare identifier (letters, digits, underscore) and every
// parameter value is double-quoted text. Values that parse as decimal numbers
// are coerced to float64 after extraction; everything else stays a string.
// Malformed or partially-matched directives are skipped, never errors.
//
// Parsing is a hand-rolled scanner rather than a regular expression so that
// adversarial input (unbounded quoting, huge parameter values) cannot trigger
// backtracking blowups. Parameter values longer than MaxValueLen make the
// whole directive malformed.
package directive

import "strconv"

const (
	openTag  = "<TOOL_CALL>"
	closeTag = "</TOOL_CALL>"

	// MaxValueLen bounds a single parameter value. Directives carrying a
	// longer value are rejected as malformed.
	MaxValueLen = 2048
)

// Directive is one parsed tool-call request. Params values are either
// string or float64, depending on numeric coercion.
type Directive struct {
	Tool   string
	Params map[string]any
}

// Parse returns every well-formed directive in text, preserving
// left-to-right order of appearance.
func Parse(text string) []Directive {
	var out []Directive

	pos := 0
	for pos < len(text) {
		open := indexFrom(text, openTag, pos)
		if open < 0 {
			break
		}

		d, next, ok := parseOne(text, open+len(openTag))
		if !ok {
			// Skip just past the opening tag so a later well-formed
			// directive is still found.
			pos = open + len(openTag)
			continue
		}

		out = append(out, d)
		pos = next
	}

	return out
}

// parseOne parses a single directive body starting at i (just past the
// opening tag). It returns the directive, the index just past the closing
// tag, and whether the parse succeeded.
func parseOne(text string, i int) (Directive, int, bool) {
	i = skipSpace(text, i)

	name, i, ok := scanIdent(text, i)
	if !ok {
		return Directive{}, 0, false
	}

	i = skipSpace(text, i)
	if i >= len(text) || text[i] != '(' {
		return Directive{}, 0, false
	}
	i++

	params := make(map[string]any)
	for {
		i = skipSeparators(text, i)
		if i >= len(text) {
			return Directive{}, 0, false
		}
		if text[i] == ')' {
			i++
			break
		}

		key, j, ok := scanIdent(text, i)
		if !ok {
			return Directive{}, 0, false
		}
		i = skipSpace(text, j)
		if i >= len(text) || text[i] != '=' {
			return Directive{}, 0, false
		}
		i = skipSpace(text, i+1)

		val, j, ok := scanQuoted(text, i)
		if !ok {
			return Directive{}, 0, false
		}
		i = j

		params[key] = coerce(val)
	}

	i = skipSpace(text, i)
	if !hasPrefixAt(text, closeTag, i) {
		return Directive{}, 0, false
	}

	return Directive{Tool: name, Params: params}, i + len(closeTag), true
}

// scanIdent reads an identifier (letters, digits, underscore) at i.
func scanIdent(text string, i int) (string, int, bool) {
	start := i
	for i < len(text) && isIdentChar(text[i]) {
		i++
	}
	if i == start {
		return "", 0, false
	}
	return text[start:i], i, true
}

// scanQuoted reads a double-quoted value at i. Values have no escape
// sequences; the first closing quote ends the value.
func scanQuoted(text string, i int) (string, int, bool) {
	if i >= len(text) || text[i] != '"' {
		return "", 0, false
	}
	i++
	start := i
	for i < len(text) && text[i] != '"' {
		i++
		if i-start > MaxValueLen {
			return "", 0, false
		}
	}
	if i >= len(text) {
		return "", 0, false
	}
	return text[start:i], i + 1, true
}

// coerce converts fully-numeric text to float64; empty and non-numeric
// values stay strings.
func coerce(s string) any {
	if s == "" {
		return s
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n
	}
	return s
}

func isIdentChar(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

func skipSpace(text string, i int) int {
	for i < len(text) && (text[i] == ' ' || text[i] == '\t' || text[i] == '\n' || text[i] == '\r') {
		i++
	}
	return i
}

// skipSeparators skips whitespace and commas between parameters.
func skipSeparators(text string, i int) int {
	for i < len(text) && (text[i] == ' ' || text[i] == '\t' || text[i] == '\n' || text[i] == '\r' || text[i] == ',') {
		i++
	}
	return i
}

func hasPrefixAt(text, prefix string, i int) bool {
	return i+len(prefix) <= len(text) && text[i:i+len(prefix)] == prefix
}

func indexFrom(text, sub string, from int) int {
	for i := from; i+len(sub) <= len(text); i++ {
		if text[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
