package convert

import "strings"

// Part is one directional component of an expanded box shorthand.
type Part struct {
	SubPrefix string `json:"sub_prefix"`
	Value     string `json:"value"`
}

var shorthandPrefix = map[string]string{
	"margin":  "m",
	"padding": "p",
}

// ExpandShorthand splits a margin or padding value by the CSS positional
// rule. One value maps to the unified prefix, two to y/x, four to t/r/b/l.
// Any other count returns a single part carrying the raw value untouched.
// Returns nil for properties that are not box shorthands.
func ExpandShorthand(property, value string) []Part {
	prefix, ok := shorthandPrefix[strings.ToLower(property)]
	if !ok {
		return nil
	}

	values := SplitValues(value)
	switch len(values) {
	case 1:
		return []Part{{SubPrefix: prefix, Value: values[0]}}
	case 2:
		return []Part{
			{SubPrefix: prefix + "y", Value: values[0]},
			{SubPrefix: prefix + "x", Value: values[1]},
		}
	case 4:
		return []Part{
			{SubPrefix: prefix + "t", Value: values[0]},
			{SubPrefix: prefix + "r", Value: values[1]},
			{SubPrefix: prefix + "b", Value: values[2]},
			{SubPrefix: prefix + "l", Value: values[3]},
		}
	default:
		return []Part{{SubPrefix: prefix, Value: strings.TrimSpace(value)}}
	}
}

// SplitValues splits a CSS value on whitespace outside parentheses,
// brackets and quotes, so "calc(1px + 2px) 4px" has two components.
func SplitValues(value string) []string {
	var (
		out   []string
		cur   strings.Builder
		depth int
		quote rune
	)
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}

	for _, r := range value {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '(' || r == '[':
			depth++
		case r == ')' || r == ']':
			if depth > 0 {
				depth--
			}
		case depth == 0 && isSpace(r):
			flush()
			continue
		}
		cur.WriteRune(r)
	}
	flush()
	return out
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f'
}
