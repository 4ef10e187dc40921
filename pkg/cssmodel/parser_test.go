package cssmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SingleRule(t *testing.T) {
	rules := Parse(`.box { color: black; font-size: 16px; display: none; }`)
	require.Len(t, rules, 1)

	r := rules[0]
	assert.Equal(t, ".box", r.Selector)
	assert.False(t, r.Unterminated)
	require.Len(t, r.Declarations, 3)
	assert.Equal(t, Declaration{Property: "color", Value: "black"}, r.Declarations[0])
	assert.Equal(t, Declaration{Property: "font-size", Value: "16px"}, r.Declarations[1])
	assert.Equal(t, Declaration{Property: "display", Value: "none"}, r.Declarations[2])
}

func TestParse_PreservesOrderAndDuplicates(t *testing.T) {
	rules := Parse(`
.a { margin: 4px; margin-top: 8px; margin: 12px }
.b { color: white }
.a { color: black }
`)
	require.Len(t, rules, 3)
	assert.Equal(t, ".a", rules[0].Selector)
	assert.Equal(t, ".b", rules[1].Selector)
	assert.Equal(t, ".a", rules[2].Selector)

	require.Len(t, rules[0].Declarations, 3)
	assert.Equal(t, "margin", rules[0].Declarations[0].Property)
	assert.Equal(t, "margin-top", rules[0].Declarations[1].Property)
	assert.Equal(t, "12px", rules[0].Declarations[2].Value)
}

func TestParse_FunctionValuesKeptWhole(t *testing.T) {
	rules := Parse(`.x { transform: rotate(5deg); background: url("a;b.png") no-repeat; width: calc(100% - (2 * 4px)) }`)
	require.Len(t, rules, 1)
	require.Len(t, rules[0].Declarations, 3)

	assert.Equal(t, "rotate(5deg)", rules[0].Declarations[0].Value)
	assert.Equal(t, `url("a;b.png") no-repeat`, rules[0].Declarations[1].Value)
	assert.Equal(t, "calc(100% - (2 * 4px))", rules[0].Declarations[2].Value)
}

func TestParse_MultiValueShorthand(t *testing.T) {
	rules := Parse(`.box{margin:4px 8px}`)
	require.Len(t, rules, 1)
	require.Len(t, rules[0].Declarations, 1)
	assert.Equal(t, "4px 8px", rules[0].Declarations[0].Value)
}

func TestParse_Important(t *testing.T) {
	rules := Parse(`.x { color: black !important; margin: 4px ! IMPORTANT }`)
	require.Len(t, rules, 1)
	require.Len(t, rules[0].Declarations, 2)

	assert.Equal(t, "black", rules[0].Declarations[0].Value)
	assert.True(t, rules[0].Declarations[0].Important)
	assert.Equal(t, "4px", rules[0].Declarations[1].Value)
	assert.True(t, rules[0].Declarations[1].Important)
	assert.Equal(t, "color: black !important", rules[0].Declarations[0].String())
}

func TestParse_MalformedRuleIsEmptied(t *testing.T) {
	rules := Parse(`.bad { color black; display: block; } .ok { color: white; }`)
	require.Len(t, rules, 2)

	assert.Equal(t, ".bad", rules[0].Selector)
	assert.Empty(t, rules[0].Declarations)

	assert.Equal(t, ".ok", rules[1].Selector)
	require.Len(t, rules[1].Declarations, 1)
	assert.Equal(t, "white", rules[1].Declarations[0].Value)
}

func TestParse_EmptyValueIsMalformed(t *testing.T) {
	rules := Parse(`.x { color: ; }`)
	require.Len(t, rules, 1)
	assert.Empty(t, rules[0].Declarations)
}

func TestParse_NestedBlockIsMalformed(t *testing.T) {
	rules := Parse(`.x { color: red; &:hover { color: blue } } .y { display: flex }`)
	require.Len(t, rules, 2)
	assert.Empty(t, rules[0].Declarations)
	assert.Equal(t, ".y", rules[1].Selector)
	require.Len(t, rules[1].Declarations, 1)
}

func TestParse_Unterminated(t *testing.T) {
	rules := Parse(`.a { color: black } .b { margin: 4px; display: flex`)
	require.Len(t, rules, 2)

	assert.False(t, rules[0].Unterminated)
	assert.True(t, rules[1].Unterminated)
	require.Len(t, rules[1].Declarations, 2)
	assert.Equal(t, "flex", rules[1].Declarations[1].Value)
}

func TestParse_SelectorWithoutBlock(t *testing.T) {
	rules := Parse(`.a { color: black } .dangling`)
	require.Len(t, rules, 2)
	assert.Equal(t, ".dangling", rules[1].Selector)
	assert.True(t, rules[1].Unterminated)
	assert.Empty(t, rules[1].Declarations)
}

func TestParse_AtRules(t *testing.T) {
	css := `
@import url("theme.css");
@font-face { font-family: "X"; src: url(x.woff) }
@keyframes spin { from { transform: rotate(0) } to { transform: rotate(360deg) } }
@media (min-width: 640px) {
  .a { display: grid }
  .b { color: #fff }
}
.c { display: block }
`
	rules := Parse(css)
	require.Len(t, rules, 3)
	assert.Equal(t, ".a", rules[0].Selector)
	assert.Equal(t, ".b", rules[1].Selector)
	assert.Equal(t, ".c", rules[2].Selector)
}

func TestParse_CommentsAndCustomProperties(t *testing.T) {
	rules := Parse(`/* header */ .a { --brand: #123; color: /* inline */ white; }`)
	require.Len(t, rules, 1)
	require.Len(t, rules[0].Declarations, 1)
	assert.Equal(t, "color", rules[0].Declarations[0].Property)
	assert.Equal(t, "white", rules[0].Declarations[0].Value)
}

func TestParse_SelectorWhitespaceCollapsed(t *testing.T) {
	rules := Parse(".card   >\n  .title:hover,\n.x { display: none }")
	require.Len(t, rules, 1)
	assert.Equal(t, ".card > .title:hover, .x", rules[0].Selector)
}

func TestParse_PropertyNameLowercased(t *testing.T) {
	rules := Parse(`.a { COLOR: Black }`)
	require.Len(t, rules, 1)
	require.Len(t, rules[0].Declarations, 1)
	d := rules[0].Declarations[0]
	assert.Equal(t, "color", d.Property)
	assert.Equal(t, "Black", d.Value)
}

func TestParse_CommentSeparatesValues(t *testing.T) {
	rules := Parse(`.box { margin: 4px/**/8px; padding: 1px/* a */2px /* b */ 3px 4px; }`)
	require.Len(t, rules, 1)
	require.Len(t, rules[0].Declarations, 2)
	assert.Equal(t, "4px 8px", rules[0].Declarations[0].Value)
	assert.Equal(t, "1px 2px 3px 4px", rules[0].Declarations[1].Value)
}

func TestParse_CommentInSelectorDoesNotSplit(t *testing.T) {
	rules := Parse(`.a/**/.b { color: red }`)
	require.Len(t, rules, 1)
	assert.Equal(t, ".a.b", rules[0].Selector)
}

func TestParse_ValueWhitespaceNormalized(t *testing.T) {
	rules := Parse(".a { margin:  4px\n\t8px; font-family: \"A B\" , serif; grid-area: 1 / 2 }")
	require.Len(t, rules, 1)
	require.Len(t, rules[0].Declarations, 3)
	assert.Equal(t, "4px 8px", rules[0].Declarations[0].Value)
	assert.Equal(t, `"A B",serif`, rules[0].Declarations[1].Value)
	assert.Equal(t, "1/2", rules[0].Declarations[2].Value)
}

func TestParse_DeclarationErrorsEmptyRule(t *testing.T) {
	tests := []struct {
		name string
		css  string
	}{
		{"missing name", `.bad { color: red; : blue; }`},
		{"non-identifier name", `.bad { color: red; 4px: blue; }`},
		{"statement at-rule", `.bad { @apply mt-4; color: red; }`},
		{"ie star hack", `.bad { *zoom: 1; color: red; }`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rules := Parse(tc.css + ` .ok { color: white }`)
			require.Len(t, rules, 2)
			assert.Equal(t, ".bad", rules[0].Selector)
			assert.Empty(t, rules[0].Declarations)
			assert.False(t, rules[0].Unterminated)

			assert.Equal(t, ".ok", rules[1].Selector)
			require.Len(t, rules[1].Declarations, 1)
			assert.Equal(t, "white", rules[1].Declarations[0].Value)
		})
	}
}

func TestParse_UnterminatedMalformedRule(t *testing.T) {
	rules := Parse(`.a { color red`)
	require.Len(t, rules, 1)
	assert.True(t, rules[0].Unterminated)
	assert.Empty(t, rules[0].Declarations)
}

func TestParse_ContainerRulesFlattened(t *testing.T) {
	rules := Parse(`@container card (min-width: 400px) { .c { margin: 4px/**/8px } .d { display: grid } } .e { color: red }`)
	require.Len(t, rules, 3)
	assert.Equal(t, ".c", rules[0].Selector)
	require.Len(t, rules[0].Declarations, 1)
	assert.Equal(t, "4px 8px", rules[0].Declarations[0].Value)
	assert.Equal(t, ".d", rules[1].Selector)
	assert.Equal(t, ".e", rules[2].Selector)
}

func TestParse_NestedMediaDanglingSelector(t *testing.T) {
	rules := Parse(`@media print { .a { color: black } .b`)
	require.Len(t, rules, 2)
	assert.Equal(t, ".b", rules[1].Selector)
	assert.True(t, rules[1].Unterminated)
}

func TestParse_Empty(t *testing.T) {
	assert.Empty(t, Parse(""))
	assert.Empty(t, Parse("   \n "))
}

func TestRule_Block(t *testing.T) {
	r := Rule{Selector: ".a", Declarations: []Declaration{
		{Property: "color", Value: "black"},
		{Property: "margin", Value: "4px 8px", Important: true},
	}}
	assert.Equal(t, "color: black; margin: 4px 8px !important;", r.Block())
	assert.Equal(t, []string{"color: black", "margin: 4px 8px !important"}, r.Strings())
}
