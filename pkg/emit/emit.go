// Package emit renders style strings and extraction results in the
// output formats the CLI and MCP tools offer.
package emit

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/gnana997/csswind/pkg/convert"
	"github.com/gnana997/csswind/pkg/cssmodel"
	"github.com/gnana997/csswind/pkg/extract"
)

// ErrUnsupportedTarget is returned for unknown formats and framework
// targets. Callers treat it as an invalid argument.
var ErrUnsupportedTarget = errors.New("unsupported target")

const (
	FormatCSS  = "css"
	FormatJSON = "json"
)

// Formats lists every value Format accepts.
func Formats() []string {
	return append([]string{FormatCSS, FormatJSON}, Targets()...)
}

// ToCSS returns styles unchanged.
func ToCSS(styles string) string {
	return styles
}

// ToJSON renders the wire form of an extraction result.
func ToJSON(w extract.Wire) (string, error) {
	data, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}
	return string(data), nil
}

// StyleSummary is the JSON form of a style string.
type StyleSummary struct {
	Component    string                 `json:"component"`
	ClassName    string                 `json:"className"`
	Declarations []cssmodel.Declaration `json:"declarations"`
	Classes      []string               `json:"classes"`
	// Unmapped lists properties with no dedicated handler, whose classes
	// are arbitrary-value fallbacks.
	Unmapped []string `json:"unmapped,omitempty"`
}

// Summarize parses styles and attaches the utility classes they map to.
func Summarize(name, styles string) StyleSummary {
	decls := parseStyles(styles)
	cands := convert.GenerateCandidates(cssmodel.Rule{Declarations: decls})
	classes := convert.Classes(cands)
	if classes == nil {
		classes = []string{}
	}
	var unmapped []string
	for _, d := range decls {
		if !convert.IsMapped(d.Property) && !slices.Contains(unmapped, d.Property) {
			unmapped = append(unmapped, d.Property)
		}
	}
	return StyleSummary{
		Component:    ComponentName(name),
		ClassName:    ClassName(name),
		Declarations: decls,
		Classes:      classes,
		Unmapped:     unmapped,
	}
}

// Format dispatches on format: css, json or a framework target.
func Format(format, name, styles string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatCSS, "":
		return ToCSS(styles), nil
	case FormatJSON:
		data, err := json.MarshalIndent(Summarize(name, styles), "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal styles: %w", err)
		}
		return string(data), nil
	default:
		return ToFrameworkSnippet(format, name, styles)
	}
}

// parseStyles accepts either a declaration list ("color: red; margin: 0")
// or full CSS; in the latter case declarations of every rule are merged.
func parseStyles(styles string) []cssmodel.Declaration {
	src := styles
	if !strings.Contains(styles, "{") {
		src = "x{" + styles + "}"
	}
	decls := []cssmodel.Declaration{}
	for _, r := range cssmodel.Parse(src) {
		decls = append(decls, r.Declarations...)
	}
	return decls
}
