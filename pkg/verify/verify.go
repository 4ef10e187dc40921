// Package verify cross-checks generated utility classes against the real
// Tailwind compiler.
//
// The verifier compiles a synthetic stylesheet built from the original
// declarations with the page markup as the content source, scans the
// compiler output for class selectors and keeps the ones that are also
// candidates. Compiler failures are reported as *Error with code
// TAILWIND_PROCESSING_ERROR; they are never retried.
package verify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/gnana997/csswind/pkg/convert"
	"github.com/gnana997/csswind/pkg/cssmodel"
)

// CodeProcessingError is the stable code attached to compiler failures.
const CodeProcessingError = "TAILWIND_PROCESSING_ERROR"

// DefaultPreamble makes the compiler emit utilities for the scanned markup.
const DefaultPreamble = "@tailwind utilities;"

// tempSelectorPrefix names the synthetic placeholder rules.
const tempSelectorPrefix = "temp-selector-"

// Compiler runs a stylesheet through a utility-CSS compiler with content
// as the markup sources to scan, returning the emitted CSS.
type Compiler interface {
	Compile(ctx context.Context, stylesheet string, content []string) (string, error)
}

// CompilerFunc adapts a function to the Compiler interface.
type CompilerFunc func(ctx context.Context, stylesheet string, content []string) (string, error)

// Compile calls f.
func (f CompilerFunc) Compile(ctx context.Context, stylesheet string, content []string) (string, error) {
	return f(ctx, stylesheet, content)
}

// Error is the structured verification failure.
type Error struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

// Result is the outcome of a successful verification.
type Result struct {
	// ConfirmedClasses are candidate classes present in the compiler output,
	// in first-seen order.
	ConfirmedClasses []string `json:"confirmed_classes"`
	// Scanned holds every class selector found in the output.
	Scanned    []string `json:"scanned"`
	DurationMs int64    `json:"duration_ms"`
}

// Verifier runs the verification pass.
type Verifier struct {
	compiler Compiler
	preamble string
	log      *slog.Logger
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithPreamble replaces DefaultPreamble. An empty preamble compiles the
// synthetic rules alone.
func WithPreamble(p string) Option {
	return func(v *Verifier) { v.preamble = p }
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(v *Verifier) {
		if log != nil {
			v.log = log
		}
	}
}

// NewVerifier creates a Verifier backed by compiler.
func NewVerifier(compiler Compiler, opts ...Option) *Verifier {
	v := &Verifier{
		compiler: compiler,
		preamble: DefaultPreamble,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify compiles the synthetic stylesheet for rules against markup and
// returns the confirmed classes. On failure the error is always an *Error.
func (v *Verifier) Verify(ctx context.Context, markup string, rules []cssmodel.Rule) (*Result, error) {
	if v.compiler == nil {
		return nil, &Error{Message: "no compiler configured", Code: CodeProcessingError}
	}

	start := time.Now()
	sheet := BuildStylesheet(v.preamble, rules)

	v.log.Debug("verifying candidates", "rules", len(rules), "stylesheet_bytes", len(sheet))

	compiled, err := v.compiler.Compile(ctx, sheet, []string{markup})
	if err != nil {
		v.log.Warn("tailwind processing failed", "error", err)
		return nil, newError(err)
	}

	candidates := make(map[string]bool)
	for _, r := range rules {
		for _, cls := range convert.Classes(convert.GenerateCandidates(r)) {
			candidates[cls] = true
		}
	}

	scanned := ScanClasses(compiled)
	confirmed := make([]string, 0)
	for _, cls := range scanned {
		if candidates[cls] {
			confirmed = append(confirmed, cls)
		}
	}

	res := &Result{
		ConfirmedClasses: confirmed,
		Scanned:          scanned,
		DurationMs:       time.Since(start).Milliseconds(),
	}
	v.log.Debug("verification complete",
		"scanned", len(scanned),
		"confirmed", len(confirmed),
		"ms", res.DurationMs)
	return res, nil
}

// Confirm marks each candidate whose classes intersect confirmed.
// The slice is updated in place and returned.
func Confirm(cands []convert.Candidate, confirmed []string) []convert.Candidate {
	set := make(map[string]bool, len(confirmed))
	for _, c := range confirmed {
		set[c] = true
	}
	for i := range cands {
		cands[i].Confirmed = false
		for _, cls := range cands[i].Classes {
			if set[cls] {
				cands[i].Confirmed = true
				break
			}
		}
	}
	return cands
}

// BuildStylesheet renders one placeholder rule per original rule carrying
// the original declarations. Unterminated rules are left open so the
// compiler sees the same defect as the source.
func BuildStylesheet(preamble string, rules []cssmodel.Rule) string {
	var sb strings.Builder
	if preamble != "" {
		sb.WriteString(preamble)
		sb.WriteByte('\n')
	}
	for i, r := range rules {
		sb.WriteByte('.')
		sb.WriteString(tempSelectorPrefix)
		sb.WriteString(strconv.Itoa(i))
		sb.WriteString(" { ")
		if block := r.Block(); block != "" {
			sb.WriteString(block)
			sb.WriteByte(' ')
		}
		if r.Unterminated {
			sb.WriteByte('\n')
			continue
		}
		sb.WriteString("}\n")
	}
	return sb.String()
}

func newError(err error) *Error {
	var ve *Error
	if errors.As(err, &ve) {
		return ve
	}
	e := &Error{
		Message: err.Error(),
		Code:    CodeProcessingError,
	}
	var ce *CompileError
	if errors.As(err, &ce) {
		e.Message = ce.Message
		e.Details = map[string]any{
			"exit_code": ce.ExitCode,
			"stderr":    ce.Stderr,
		}
	} else if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		e.Details = map[string]any{"cause": fmt.Sprint(err)}
	}
	return e
}
