package template

import (
	"regexp"
	"strings"
)

// variablePattern matches [name]; the first ']' always closes the match.
var variablePattern = regexp.MustCompile(`\[([^\]]+)\]`)

// partSeparator joins guide text and block contents before extraction.
const partSeparator = " "

// placeholderToken is inserted by InsertPlaceholder. The cursor lands between the brackets.
const placeholderToken = " [] "

// ExtractVariables returns the distinct variable names in text, in first-occurrence order.
// Names are not trimmed; "[ ]" yields the variable " ".
func ExtractVariables(text string) []string {
	matches := variablePattern.FindAllStringSubmatch(text, -1)
	seen := make(map[string]bool, len(matches))
	vars := make([]string, 0, len(matches))
	for _, m := range matches {
		if !seen[m[1]] {
			vars = append(vars, m[1])
			seen[m[1]] = true
		}
	}
	return vars
}

// ExtractFromParts extracts variables from parts joined by the save-time separator.
func ExtractFromParts(parts ...string) []string {
	return ExtractVariables(strings.Join(parts, partSeparator))
}

// Placeholder renders the bracketed literal for a variable name.
func Placeholder(name string) string {
	return "[" + name + "]"
}

// Substitute replaces every literal [name] for each of names with values[name].
// Missing or empty values leave the placeholder in place.
func Substitute(tmpl string, names []string, values map[string]string) string {
	if tmpl == "" {
		return ""
	}
	out := tmpl
	for _, name := range names {
		val := values[name]
		if val == "" {
			continue
		}
		out = strings.ReplaceAll(out, Placeholder(name), val)
	}
	return out
}

// Insertion is the result of InsertPlaceholder.
type Insertion struct {
	Text   string `json:"text"`
	Cursor int    `json:"cursor"`
}

// InsertPlaceholder replaces the selection [start, end) of text with an empty
// placeholder and reports where the cursor should land. Offsets count runes.
func InsertPlaceholder(text string, start, end int) Insertion {
	r := []rune(text)
	start = clamp(start, 0, len(r))
	end = clamp(end, 0, len(r))
	if start > end {
		start, end = end, start
	}
	var b strings.Builder
	b.WriteString(string(r[:start]))
	b.WriteString(placeholderToken)
	b.WriteString(string(r[end:]))
	return Insertion{Text: b.String(), Cursor: start + 2}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
