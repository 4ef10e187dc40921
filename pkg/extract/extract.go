// Package extract runs the full conversion pipeline for one request:
// parse, generate candidates, collect existing classes and verify.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gnana997/csswind/pkg/capture"
	"github.com/gnana997/csswind/pkg/convert"
	"github.com/gnana997/csswind/pkg/cssmodel"
	"github.com/gnana997/csswind/pkg/markup"
	"github.com/gnana997/csswind/pkg/verify"
)

// ErrNoCapturer is returned by ExtractURL when no Capturer is configured.
var ErrNoCapturer = errors.New("page capture is not configured")

// Input is one extraction request.
type Input struct {
	Markup     string
	MarkupKind markup.Kind
	CSS        string
	// SkipVerify leaves ExtractedClasses absent without calling the compiler.
	SkipVerify bool
}

// Config wires the collaborators. All fields are optional; without a
// Verifier every extraction is unverified.
type Config struct {
	Verifier *verify.Verifier
	Capturer capture.Capturer
	Markup   *markup.Extractor
	Logger   *slog.Logger
}

// Extractor is safe for concurrent use; requests share no mutable state.
type Extractor struct {
	verifier *verify.Verifier
	capturer capture.Capturer
	markup   *markup.Extractor
	log      *slog.Logger
}

// New creates an Extractor.
func New(cfg Config) *Extractor {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	mk := cfg.Markup
	if mk == nil {
		mk = markup.NewExtractor(nil, log)
	}
	return &Extractor{
		verifier: cfg.Verifier,
		capturer: cfg.Capturer,
		markup:   mk,
		log:      log,
	}
}

// Extract always returns a bundle. Verification failure is recorded in
// Bundle.Error and leaves the candidates intact.
func (e *Extractor) Extract(ctx context.Context, in Input) *Bundle {
	start := time.Now()
	id := newRequestID()
	log := e.log.With("request_id", id)

	rules := cssmodel.Parse(in.CSS)
	b := &Bundle{
		RequestID:       id,
		ExistingClasses: e.markup.ExistingClasses(in.MarkupKind, in.Markup),
		Rules:           make([]RuleResult, 0, len(rules)),
	}
	for _, r := range rules {
		b.Rules = append(b.Rules, RuleResult{Rule: r, Candidates: convert.GenerateCandidates(r)})
	}

	log.Debug("candidates generated",
		"rules", len(rules),
		"existing_classes", len(b.ExistingClasses))

	switch {
	case in.SkipVerify:
		log.Debug("verification skipped by request")
	case e.verifier == nil:
		log.Debug("verification skipped: no compiler configured")
	default:
		e.verifyBundle(ctx, log, b, in.Markup, rules)
	}

	b.DurationMs = time.Since(start).Milliseconds()
	cands := b.Candidates()
	log.Info("extraction complete",
		"rules", len(b.Rules),
		"candidates", len(cands),
		"confirmed_candidates", countConfirmed(cands),
		"verified", b.Verified,
		"confirmed", len(b.ConfirmedClasses),
		"error", b.Error != nil,
		"ms", b.DurationMs)
	return b
}

func (e *Extractor) verifyBundle(ctx context.Context, log *slog.Logger, b *Bundle, html string, rules []cssmodel.Rule) {
	res, err := e.verifier.Verify(ctx, html, rules)
	if err != nil {
		var ve *verify.Error
		if !errors.As(err, &ve) {
			ve = &verify.Error{Message: err.Error(), Code: verify.CodeProcessingError}
		}
		log.Warn("verification failed", "code", ve.Code, "message", ve.Message)
		b.Error = ve
		return
	}

	b.Verified = true
	b.ConfirmedClasses = res.ConfirmedClasses
	for i := range b.Rules {
		verify.Confirm(b.Rules[i].Candidates, res.ConfirmedClasses)
	}
}

// ExtractURL captures url (optionally narrowed to selector) and extracts
// the result. Capture failures are returned as errors.
func (e *Extractor) ExtractURL(ctx context.Context, url, selector string, skipVerify bool) (*Bundle, error) {
	if e.capturer == nil {
		return nil, ErrNoCapturer
	}

	page, err := e.capturer.Capture(ctx, url, selector)
	if err != nil {
		return nil, fmt.Errorf("capture %s: %w", url, err)
	}

	return e.Extract(ctx, Input{
		Markup:     page.HTML,
		MarkupKind: markup.KindHTML,
		CSS:        page.CSS,
		SkipVerify: skipVerify,
	}), nil
}

func newRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
