// Package convert maps CSS declarations to utility-class candidates.
package convert

import (
	"strings"

	"github.com/gnana997/csswind/pkg/cssmodel"
	"github.com/gnana997/csswind/pkg/scale"
)

// Candidate holds the utility classes generated for one declaration.
// Confirmed is set by the verification pass.
type Candidate struct {
	Declaration cssmodel.Declaration `json:"declaration"`
	Classes     []string             `json:"classes"`
	Confirmed   bool                 `json:"confirmed"`
}

// handlerKind is the closed set of declaration handlers.
type handlerKind int

const (
	kindGeneric handlerKind = iota
	kindColor
	kindBoxShorthand
	kindSide
	kindFontSize
	kindFontWeight
	kindDisplay
)

type handler struct {
	kind   handlerKind
	prefix string
}

// handlers is keyed by lowercased property name. Unlisted properties use
// the generic fallback.
var handlers = map[string]handler{
	"color":            {kindColor, "text"},
	"background-color": {kindColor, "bg"},
	"margin":           {kind: kindBoxShorthand},
	"padding":          {kind: kindBoxShorthand},
	"margin-top":       {kindSide, "mt"},
	"margin-right":     {kindSide, "mr"},
	"margin-bottom":    {kindSide, "mb"},
	"margin-left":      {kindSide, "ml"},
	"font-size":        {kindFontSize, "text"},
	"font-weight":      {kindFontWeight, "font"},
	"display":          {kind: kindDisplay},
}

func handlerFor(property string) handler {
	if h, ok := handlers[strings.ToLower(property)]; ok {
		return h
	}
	return handler{kind: kindGeneric}
}

// IsMapped reports whether property has a dedicated handler.
func IsMapped(property string) bool {
	return handlerFor(property).kind != kindGeneric
}

// Fallback renders the generic arbitrary-value class "{property}-[{value}]".
// The property name is kept as written so the mapping round-trips.
func Fallback(property, value string) string {
	if property == "" || value == "" {
		return ""
	}
	return property + "-[" + value + "]"
}

// ClassesFor returns the utility classes for a single declaration in
// generation order. It always returns at least one class for a non-empty
// declaration.
func ClassesFor(d cssmodel.Declaration) []string {
	h := handlerFor(d.Property)

	var classes []string
	switch h.kind {
	case kindColor:
		classes = []string{colorClass(d.Value, h.prefix)}
	case kindBoxShorthand:
		for _, part := range ExpandShorthand(d.Property, d.Value) {
			classes = append(classes, spacingClass(part.SubPrefix, part.Value))
		}
	case kindSide:
		classes = []string{spacingClass(h.prefix, d.Value)}
	case kindFontSize:
		classes = []string{typeClass(d.Value)}
	case kindFontWeight:
		if tok, ok := scale.LookupFontWeight(d.Value); ok {
			classes = []string{h.prefix + "-" + tok}
		} else {
			classes = []string{Fallback(d.Property, d.Value)}
		}
	case kindDisplay:
		if tok, ok := scale.LookupDisplay(d.Value); ok {
			classes = []string{tok}
		} else {
			classes = []string{Fallback(d.Property, d.Value)}
		}
	default:
		classes = []string{Fallback(d.Property, d.Value)}
	}

	out := classes[:0]
	for _, c := range classes {
		if c == "" {
			continue
		}
		if d.Important {
			c = "!" + c
		}
		out = append(out, c)
	}
	return out
}

// GenerateCandidates produces one Candidate per distinct property of rule.
// When a property repeats, the later declaration replaces the earlier one
// but keeps its position.
func GenerateCandidates(rule cssmodel.Rule) []Candidate {
	cands := make([]Candidate, 0, len(rule.Declarations))
	seen := make(map[string]int, len(rule.Declarations))

	for _, d := range rule.Declarations {
		c := Candidate{Declaration: d, Classes: ClassesFor(d)}
		if i, ok := seen[d.Name()]; ok {
			cands[i] = c
			continue
		}
		seen[d.Name()] = len(cands)
		cands = append(cands, c)
	}
	return cands
}

// Classes flattens the classes of cands in order.
func Classes(cands []Candidate) []string {
	var out []string
	for _, c := range cands {
		out = append(out, c.Classes...)
	}
	return out
}

func colorClass(value, prefix string) string {
	if cls, ok := scale.LookupColor(value, prefix); ok {
		return cls
	}
	return prefix + "-[" + value + "]"
}

func spacingClass(prefix, value string) string {
	if px, ok := scale.ParsePixels(value); ok {
		if step, ok := scale.LookupSpacing(px); ok {
			return prefix + "-" + step
		}
	}
	return prefix + "-[" + value + "]"
}

func typeClass(value string) string {
	if px, ok := scale.ParsePixels(value); ok {
		if tok, ok := scale.LookupTypeScale(px); ok {
			return "text-" + tok
		}
	}
	return "text-[" + value + "]"
}
