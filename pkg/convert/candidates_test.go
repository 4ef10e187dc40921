package convert

import (
	"testing"

	"github.com/gnana997/csswind/pkg/cssmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decl(p, v string) cssmodel.Declaration {
	return cssmodel.Declaration{Property: p, Value: v}
}

func TestExpandShorthand(t *testing.T) {
	tests := []struct {
		name     string
		property string
		value    string
		want     []Part
	}{
		{"one value", "margin", "10px", []Part{{"m", "10px"}}},
		{"two values", "margin", "10px 20px", []Part{{"my", "10px"}, {"mx", "20px"}}},
		{"four values", "padding", "1px 2px 3px 4px", []Part{{"pt", "1px"}, {"pr", "2px"}, {"pb", "3px"}, {"pl", "4px"}}},
		{"three values fall back", "margin", "1px 2px 3px", []Part{{"m", "1px 2px 3px"}}},
		{"five values fall back", "padding", "1px 2px 3px 4px 5px", []Part{{"p", "1px 2px 3px 4px 5px"}}},
		{"function kept whole", "margin", "calc(1px + 2px) 4px", []Part{{"my", "calc(1px + 2px)"}, {"mx", "4px"}}},
		{"case-insensitive property", "MARGIN", "4px", []Part{{"m", "4px"}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExpandShorthand(tc.property, tc.value))
		})
	}

	assert.Nil(t, ExpandShorthand("border", "1px solid"))
}

func TestExpandShorthand_Deterministic(t *testing.T) {
	a := ExpandShorthand("margin", "4px 8px 12px 16px")
	b := ExpandShorthand("margin", "4px 8px 12px 16px")
	assert.Equal(t, a, b)
}

func TestSplitValues(t *testing.T) {
	assert.Equal(t, []string{"4px", "8px"}, SplitValues("  4px \n\t8px "))
	assert.Equal(t, []string{`"a b"`, "c"}, SplitValues(`"a b" c`))
	assert.Equal(t, []string{"var(--x, 1px 2px)"}, SplitValues("var(--x, 1px 2px)"))
	assert.Empty(t, SplitValues("   "))
}

func TestClassesFor_Shorthand(t *testing.T) {
	assert.Equal(t, []string{"m-[10px]"}, ClassesFor(decl("margin", "10px")))
	assert.Equal(t, []string{"m-4"}, ClassesFor(decl("margin", "16px")))
	assert.Equal(t, []string{"my-[10px]", "mx-5"}, ClassesFor(decl("margin", "10px 20px")))
	assert.Equal(t, []string{"mt-px", "mr-[2px]", "mb-[3px]", "ml-1"}, ClassesFor(decl("margin", "1px 2px 3px 4px")))
	assert.Equal(t, []string{"m-[1px 2px 3px]"}, ClassesFor(decl("margin", "1px 2px 3px")))
	assert.Equal(t, []string{"py-2", "px-4"}, ClassesFor(decl("padding", "8px 16px")))
	assert.Equal(t, []string{"p-[1rem]"}, ClassesFor(decl("padding", "1rem")))
	assert.Equal(t, []string{"m-[auto]"}, ClassesFor(decl("margin", "auto")))
}

func TestClassesFor_Sides(t *testing.T) {
	assert.Equal(t, []string{"mt-2"}, ClassesFor(decl("margin-top", "8px")))
	assert.Equal(t, []string{"mr-0"}, ClassesFor(decl("margin-right", "0px")))
	assert.Equal(t, []string{"mb-[13px]"}, ClassesFor(decl("margin-bottom", "13px")))
	assert.Equal(t, []string{"ml-[2em]"}, ClassesFor(decl("margin-left", "2em")))
	assert.Equal(t, []string{"padding-top-[8px]"}, ClassesFor(decl("padding-top", "8px")))
}

func TestClassesFor_Colors(t *testing.T) {
	assert.Equal(t, []string{"text-black"}, ClassesFor(decl("color", "black")))
	assert.Equal(t, ClassesFor(decl("color", "black")), ClassesFor(decl("color", "BLACK")))
	assert.Equal(t, []string{"bg-white"}, ClassesFor(decl("background-color", "#FFF")))
	assert.Equal(t, []string{"text-[#FF0000]"}, ClassesFor(decl("color", "#FF0000")))
	assert.Equal(t, []string{"bg-[rgb(1, 2, 3)]"}, ClassesFor(decl("background-color", "rgb(1, 2, 3)")))
}

func TestClassesFor_Typography(t *testing.T) {
	assert.Equal(t, []string{"text-base"}, ClassesFor(decl("font-size", "16px")))
	assert.Equal(t, []string{"text-[15px]"}, ClassesFor(decl("font-size", "15px")))
	assert.Equal(t, []string{"text-[1.25rem]"}, ClassesFor(decl("font-size", "1.25rem")))
	assert.Equal(t, []string{"font-bold"}, ClassesFor(decl("font-weight", "700")))
	assert.Equal(t, []string{"font-normal"}, ClassesFor(decl("font-weight", "normal")))
	assert.Equal(t, []string{"font-weight-[bolder]"}, ClassesFor(decl("font-weight", "bolder")))
}

func TestClassesFor_Display(t *testing.T) {
	assert.Equal(t, []string{"hidden"}, ClassesFor(decl("display", "none")))
	assert.Equal(t, []string{"inline-block"}, ClassesFor(decl("display", "inline-block")))
	assert.Equal(t, []string{"display-[contents]"}, ClassesFor(decl("display", "contents")))
	assert.Equal(t, []string{"Display-[table]"}, ClassesFor(decl("Display", "table")))
}

func TestClassesFor_GenericFallback(t *testing.T) {
	assert.Equal(t, []string{"transform-[rotate(5deg)]"}, ClassesFor(decl("transform", "rotate(5deg)")))

	first := ClassesFor(decl("line-height", "1.5"))
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ClassesFor(decl("line-height", "1.5")))
	}
	assert.Equal(t, "line-height-[1.5]", Fallback("line-height", "1.5"))
	assert.Equal(t, "", Fallback("", "1.5"))
}

func TestClassesFor_Important(t *testing.T) {
	d := cssmodel.Declaration{Property: "margin", Value: "4px 8px", Important: true}
	assert.Equal(t, []string{"!my-1", "!mx-2"}, ClassesFor(d))
}

func TestGenerateCandidates_Scenarios(t *testing.T) {
	rules := cssmodel.Parse(`.box { color: black; font-size: 16px; display: none; }`)
	require.Len(t, rules, 1)
	assert.Equal(t, []string{"text-black", "text-base", "hidden"}, Classes(GenerateCandidates(rules[0])))

	rules = cssmodel.Parse(`.box { margin: 4px 8px; }`)
	require.Len(t, rules, 1)
	assert.Equal(t, []string{"my-1", "mx-2"}, Classes(GenerateCandidates(rules[0])))

	rules = cssmodel.Parse(`.box { transform: rotate(5deg); }`)
	require.Len(t, rules, 1)
	assert.Equal(t, []string{"transform-[rotate(5deg)]"}, Classes(GenerateCandidates(rules[0])))
}

func TestGenerateCandidates_CommentBetweenShorthandValues(t *testing.T) {
	rules := cssmodel.Parse(`.box { margin: 4px/**/8px; }`)
	require.Len(t, rules, 1)
	assert.Equal(t, []string{"my-1", "mx-2"}, Classes(GenerateCandidates(rules[0])))
}

func TestGenerateCandidates_LaterDeclarationWins(t *testing.T) {
	rule := cssmodel.Rule{Selector: ".a", Declarations: []cssmodel.Declaration{
		decl("color", "black"),
		decl("margin", "4px"),
		decl("Color", "white"),
	}}
	cands := GenerateCandidates(rule)
	require.Len(t, cands, 2)
	assert.Equal(t, []string{"text-white"}, cands[0].Classes)
	assert.Equal(t, "white", cands[0].Declaration.Value)
	assert.Equal(t, []string{"m-1"}, cands[1].Classes)
	for _, c := range cands {
		assert.False(t, c.Confirmed)
	}
}

func TestGenerateCandidates_ShorthandAndLonghandKept(t *testing.T) {
	rule := cssmodel.Rule{Selector: ".a", Declarations: []cssmodel.Declaration{
		decl("margin", "16px"),
		decl("margin-top", "4px"),
	}}
	assert.Equal(t, []string{"m-4", "mt-1"}, Classes(GenerateCandidates(rule)))
}

func TestGenerateCandidates_EmptyRule(t *testing.T) {
	assert.Empty(t, GenerateCandidates(cssmodel.Rule{Selector: ".x"}))
}

func TestIsMapped(t *testing.T) {
	assert.True(t, IsMapped("COLOR"))
	assert.True(t, IsMapped("margin-left"))
	assert.False(t, IsMapped("transform"))
}
