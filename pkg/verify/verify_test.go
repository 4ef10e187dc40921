package verify

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gnana997/csswind/pkg/convert"
	"github.com/gnana997/csswind/pkg/cssmodel"
	"github.com/gnana997/csswind/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticCompiler returns out for every call and records the stylesheet.
type staticCompiler struct {
	out   string
	err   error
	sheet string
	calls atomic.Int32
}

func (s *staticCompiler) Compile(_ context.Context, sheet string, _ []string) (string, error) {
	s.calls.Add(1)
	s.sheet = sheet
	return s.out, s.err
}

func newTestVerifier(c Compiler, opts ...Option) *Verifier {
	return NewVerifier(c, append([]Option{WithLogger(util.DiscardLogger())}, opts...)...)
}

func TestBuildStylesheet(t *testing.T) {
	rules := cssmodel.Parse(`.a { color: black; margin: 4px 8px; } .b { }`)
	sheet := BuildStylesheet(DefaultPreamble, rules)

	assert.Equal(t, "@tailwind utilities;\n"+
		".temp-selector-0 { color: black; margin: 4px 8px; }\n"+
		".temp-selector-1 { }\n", sheet)
}

func TestBuildStylesheet_UnterminatedStaysOpen(t *testing.T) {
	rules := cssmodel.Parse(`.a { color: black;`)
	require.Len(t, rules, 1)
	require.True(t, rules[0].Unterminated)

	sheet := BuildStylesheet("", rules)
	assert.Equal(t, ".temp-selector-0 { color: black; \n", sheet)
	assert.NotContains(t, sheet, "}")
}

func TestBuildStylesheet_KeepsImportant(t *testing.T) {
	rules := cssmodel.Parse(`.a { color: black !important; }`)
	sheet := BuildStylesheet("", rules)
	assert.Contains(t, sheet, "color: black !important;")
}

func TestScanClasses(t *testing.T) {
	css := `
/* ! tailwindcss v3 | .ignored-in-comment */
.temp-selector-0 { color: black; }
.my-1 { margin-top: 0.25rem; margin-bottom: 0.25rem }
.mx-2 { margin-left: .5rem; margin-right: -0.5rem }
.hover\:bg-black:hover { --tw-bg-opacity: 1 }
.\!mt-1 { margin-top: 0.25rem !important }
.mt-\[13px\] { margin-top: 13px }
.w-1\/2 { width: 50% }
.\32xl\:p-4 { padding: 1rem }
.my-1 { margin-top: 0.25rem }
`
	assert.Equal(t, []string{
		"my-1",
		"mx-2",
		"hover:bg-black",
		"!mt-1",
		"mt-[13px]",
		"w-1/2",
		"2xl:p-4",
	}, ScanClasses(css))
}

func TestScanClasses_HexEscapes(t *testing.T) {
	assert.Equal(t, []string{"bg-[rgb(1,2,3)]"}, ScanClasses(`.bg-\[rgb\(1\2c 2\2c 3\)\] {}`))
	assert.Empty(t, ScanClasses(""))
	assert.Empty(t, ScanClasses("a { width: 1.5rem }"))
}

func TestVerify_ConfirmsSubsetOfCandidates(t *testing.T) {
	comp := &staticCompiler{out: `.text-black{color:#000}.text-base{font-size:1rem}.flex{display:flex}`}
	v := newTestVerifier(comp)

	rules := cssmodel.Parse(`.box { color: black; font-size: 16px; display: none; }`)
	res, err := v.Verify(context.Background(), `<div class="box flex"></div>`, rules)
	require.NoError(t, err)

	assert.Equal(t, []string{"text-black", "text-base"}, res.ConfirmedClasses)
	assert.Equal(t, []string{"text-black", "text-base", "flex"}, res.Scanned)
	assert.Equal(t, 1, int(comp.calls.Load()))
	assert.True(t, strings.HasPrefix(comp.sheet, DefaultPreamble))

	candidates := convert.Classes(convert.GenerateCandidates(rules[0]))
	for _, c := range res.ConfirmedClasses {
		assert.Contains(t, candidates, c)
	}
}

func TestVerify_ExcludesPlaceholderSelectors(t *testing.T) {
	comp := &staticCompiler{out: `.temp-selector-0 { transform: rotate(5deg) }`}
	v := newTestVerifier(comp)

	res, err := v.Verify(context.Background(), "", cssmodel.Parse(`.x { transform: rotate(5deg); }`))
	require.NoError(t, err)
	assert.Empty(t, res.ConfirmedClasses)
	assert.NotNil(t, res.ConfirmedClasses)
}

func TestVerify_CompilerFailure(t *testing.T) {
	comp := &staticCompiler{err: &CompileError{Message: "Unclosed block", Stderr: "Unclosed block (line 2, column 1)", ExitCode: 1}}
	v := newTestVerifier(comp)

	res, err := v.Verify(context.Background(), "", cssmodel.Parse(`.a { color: black;`))
	require.Error(t, err)
	assert.Nil(t, res)

	var ve *Error
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, CodeProcessingError, ve.Code)
	assert.Equal(t, "Unclosed block", ve.Message)
	assert.Equal(t, map[string]any{"exit_code": 1, "stderr": "Unclosed block (line 2, column 1)"}, ve.Details)
	assert.Equal(t, int32(1), comp.calls.Load(), "failures are not retried")
}

func TestVerify_PlainError(t *testing.T) {
	v := newTestVerifier(CompilerFunc(func(context.Context, string, []string) (string, error) {
		return "", errors.New("boom")
	}))

	_, err := v.Verify(context.Background(), "", nil)
	var ve *Error
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "boom", ve.Message)
	assert.Nil(t, ve.Details)
}

func TestVerify_NoCompiler(t *testing.T) {
	_, err := newTestVerifier(nil).Verify(context.Background(), "", nil)
	var ve *Error
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, CodeProcessingError, ve.Code)
}

func TestVerify_CustomPreamble(t *testing.T) {
	comp := &staticCompiler{}
	v := newTestVerifier(comp, WithPreamble("@tailwind base;"))
	_, err := v.Verify(context.Background(), "", nil)
	require.NoError(t, err)
	assert.Equal(t, "@tailwind base;\n", comp.sheet)
}

func TestConfirm(t *testing.T) {
	rule := cssmodel.Rule{Selector: ".a", Declarations: []cssmodel.Declaration{
		{Property: "margin", Value: "4px 8px"},
		{Property: "color", Value: "black"},
		{Property: "transform", Value: "rotate(5deg)"},
	}}
	cands := Confirm(convert.GenerateCandidates(rule), []string{"mx-2", "text-black"})

	require.Len(t, cands, 3)
	assert.True(t, cands[0].Confirmed)
	assert.True(t, cands[1].Confirmed)
	assert.False(t, cands[2].Confirmed)
}

func TestError_Error(t *testing.T) {
	e := &Error{Message: "bad", Code: CodeProcessingError}
	assert.Equal(t, "TAILWIND_PROCESSING_ERROR: bad", e.Error())
}

func TestCachedCompiler(t *testing.T) {
	comp := &staticCompiler{out: ".m-1{}"}
	cc, err := NewCachedCompiler(comp, 2)
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		out, err := cc.Compile(ctx, "sheet", []string{"<p>"})
		require.NoError(t, err)
		assert.Equal(t, ".m-1{}", out)
	}
	assert.Equal(t, int32(1), comp.calls.Load())

	_, err = cc.Compile(ctx, "sheet", []string{"<div>"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), comp.calls.Load())

	stats := cc.Stats()
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(2), stats.Misses)
	assert.Equal(t, 2, stats.Entries)

	cc.Purge()
	assert.Equal(t, 0, cc.Stats().Entries)
}

func TestCachedCompiler_DoesNotCacheFailures(t *testing.T) {
	comp := &staticCompiler{err: errors.New("fail")}
	cc, err := NewCachedCompiler(comp, 0)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := cc.Compile(context.Background(), "s", nil)
		assert.Error(t, err)
	}
	assert.Equal(t, int32(2), comp.calls.Load())
	assert.Equal(t, 0, cc.Stats().Entries)
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, cacheKey("a", []string{"b"}), cacheKey("a", []string{"b"}))
	assert.NotEqual(t, cacheKey("a", []string{"b"}), cacheKey("a", []string{"c"}))
	assert.Len(t, cacheKey("", nil), 64)
}

func TestCacheKey_PartBoundaries(t *testing.T) {
	assert.NotEqual(t, cacheKey("x\x00<p>", nil), cacheKey("x", []string{"<p>"}))
	assert.NotEqual(t, cacheKey("x", []string{"a\x00b"}), cacheKey("x", []string{"a", "b"}))
	assert.NotEqual(t, cacheKey("x", nil), cacheKey("x", []string{""}))
	assert.NotEqual(t, cacheKey("ab", []string{"c"}), cacheKey("a", []string{"bc"}))
}

func TestCompileError(t *testing.T) {
	assert.Equal(t, "x", (&CompileError{Message: "x"}).Error())
	assert.Equal(t, "x (stderr: y)", (&CompileError{Message: "x", Stderr: "y"}).Error())
	assert.Equal(t, "a", firstLine("a\nb"))
}
