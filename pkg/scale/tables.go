package scale

import (
	"strconv"
	"strings"
)

var spacing = newTable(
	Entry[int]{0, "0"},
	Entry[int]{1, "px"},
	Entry[int]{4, "1"},
	Entry[int]{8, "2"},
	Entry[int]{12, "3"},
	Entry[int]{16, "4"},
	Entry[int]{20, "5"},
	Entry[int]{24, "6"},
	Entry[int]{32, "8"},
	Entry[int]{40, "10"},
	Entry[int]{48, "12"},
	Entry[int]{64, "16"},
	Entry[int]{80, "20"},
	Entry[int]{96, "24"},
	Entry[int]{128, "32"},
	Entry[int]{160, "40"},
	Entry[int]{192, "48"},
	Entry[int]{224, "56"},
	Entry[int]{256, "64"},
)

var typeScale = newTable(
	Entry[int]{12, "xs"},
	Entry[int]{14, "sm"},
	Entry[int]{16, "base"},
	Entry[int]{18, "lg"},
	Entry[int]{20, "xl"},
	Entry[int]{24, "2xl"},
	Entry[int]{30, "3xl"},
	Entry[int]{36, "4xl"},
	Entry[int]{48, "5xl"},
	Entry[int]{60, "6xl"},
	Entry[int]{72, "7xl"},
	Entry[int]{96, "8xl"},
	Entry[int]{128, "9xl"},
)

// colors is keyed by the lowercased CSS literal.
var colors = newTable(
	Entry[string]{"black", "black"},
	Entry[string]{"white", "white"},
	Entry[string]{"#000", "black"},
	Entry[string]{"#fff", "white"},
	Entry[string]{"#000000", "black"},
	Entry[string]{"#ffffff", "white"},
)

var fontWeights = newTable(
	Entry[string]{"100", "thin"},
	Entry[string]{"200", "extralight"},
	Entry[string]{"300", "light"},
	Entry[string]{"400", "normal"},
	Entry[string]{"500", "medium"},
	Entry[string]{"600", "semibold"},
	Entry[string]{"700", "bold"},
	Entry[string]{"800", "extrabold"},
	Entry[string]{"900", "black"},
	Entry[string]{"normal", "normal"},
	Entry[string]{"bold", "bold"},
)

var displays = newTable(
	Entry[string]{"block", "block"},
	Entry[string]{"inline", "inline"},
	Entry[string]{"inline-block", "inline-block"},
	Entry[string]{"flex", "flex"},
	Entry[string]{"inline-flex", "inline-flex"},
	Entry[string]{"grid", "grid"},
	Entry[string]{"none", "hidden"},
)

// ParsePixels parses a non-negative integer pixel length such as "16px".
// Any other unit, a unitless number or a fractional value is rejected.
func ParsePixels(value string) (int, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	num, found := strings.CutSuffix(v, "px")
	if !found || num == "" {
		return 0, false
	}
	for _, r := range num {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	px, err := strconv.Atoi(num)
	if err != nil {
		return 0, false
	}
	return px, true
}

// LookupSpacing returns the spacing step for a pixel value ("4" for 16px).
func LookupSpacing(px int) (string, bool) {
	return spacing.Lookup(px)
}

// LookupTypeScale returns the font-size token for a pixel value ("base" for 16px).
func LookupTypeScale(px int) (string, bool) {
	return typeScale.Lookup(px)
}

// LookupColor returns the palette class for a colour literal under prefix,
// e.g. LookupColor("#FFF", "bg") returns "bg-white". Matching ignores case.
func LookupColor(literal, prefix string) (string, bool) {
	tok, ok := colors.Lookup(strings.ToLower(strings.TrimSpace(literal)))
	if !ok {
		return "", false
	}
	return prefix + "-" + tok, true
}

// LookupFontWeight returns the weight token for a numeric or keyword weight.
func LookupFontWeight(value string) (string, bool) {
	return fontWeights.Lookup(strings.ToLower(strings.TrimSpace(value)))
}

// LookupDisplay returns the display utility for a display keyword.
func LookupDisplay(value string) (string, bool) {
	return displays.Lookup(strings.ToLower(strings.TrimSpace(value)))
}

// Spacing exposes the spacing table for listing.
func Spacing() *Table[int] { return spacing }

// TypeScale exposes the type scale table for listing.
func TypeScale() *Table[int] { return typeScale }

// Colors exposes the colour table for listing.
func Colors() *Table[string] { return colors }

// FontWeights exposes the font-weight table for listing.
func FontWeights() *Table[string] { return fontWeights }

// Displays exposes the display table for listing.
func Displays() *Table[string] { return displays }
