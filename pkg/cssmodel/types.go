// Package cssmodel parses raw CSS text into an ordered rule/declaration model.
package cssmodel

import "strings"

// Declaration is a single property/value pair inside a rule.
type Declaration struct {
	Property  string `json:"property"`
	Value     string `json:"value"`
	Important bool   `json:"important,omitempty"`
}

// String renders the declaration as CSS source without the trailing semicolon.
func (d Declaration) String() string {
	if d.Important {
		return d.Property + ": " + d.Value + " !important"
	}
	return d.Property + ": " + d.Value
}

// Name returns the lowercased property name used for dispatch.
func (d Declaration) Name() string {
	return strings.ToLower(d.Property)
}

// Rule is one CSS rule. Duplicate selectors are kept as separate rules.
type Rule struct {
	Selector     string        `json:"selector"`
	Declarations []Declaration `json:"declarations"`
	// Unterminated is set when the block reached end of input without '}'.
	Unterminated bool `json:"unterminated,omitempty"`
}

// Block renders the declarations as the body of a CSS block,
// e.g. "color: black; margin: 4px;".
func (r Rule) Block() string {
	parts := make([]string, 0, len(r.Declarations))
	for _, d := range r.Declarations {
		parts = append(parts, d.String()+";")
	}
	return strings.Join(parts, " ")
}

// Strings returns each declaration rendered as "property: value".
func (r Rule) Strings() []string {
	out := make([]string, 0, len(r.Declarations))
	for _, d := range r.Declarations {
		out = append(out, d.String())
	}
	return out
}
