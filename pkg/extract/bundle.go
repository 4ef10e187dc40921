package extract

import (
	"strings"

	"github.com/gnana997/csswind/pkg/convert"
	"github.com/gnana997/csswind/pkg/cssmodel"
	"github.com/gnana997/csswind/pkg/verify"
)

// RuleResult pairs a parsed rule with its candidates.
type RuleResult struct {
	Rule       cssmodel.Rule       `json:"rule"`
	Candidates []convert.Candidate `json:"candidates"`
}

// Bundle is the outcome of one extraction. It is built fresh per call.
type Bundle struct {
	RequestID       string       `json:"request_id"`
	ExistingClasses []string     `json:"existing_classes"`
	Rules           []RuleResult `json:"rules"`
	// ConfirmedClasses is nil unless verification ran and succeeded.
	ConfirmedClasses []string      `json:"confirmed_classes,omitempty"`
	Verified         bool          `json:"verified"`
	Error            *verify.Error `json:"error,omitempty"`
	DurationMs       int64         `json:"duration_ms"`
}

// Wire is the serialised result record.
type Wire struct {
	ExistingClasses     []string            `json:"existingClasses"`
	CSSToTailwind       map[string][]string `json:"cssToTailwind"`
	TailwindSuggestions map[string][]string `json:"tailwindSuggestions"`
	// ExtractedClasses is absent when confirmation is unavailable.
	ExtractedClasses *[]string    `json:"extractedClasses,omitempty"`
	Error            *verify.Error `json:"error,omitempty"`
}

// Wire converts the bundle to its serialised shape. Rules sharing a
// selector are merged into one entry in source order.
func (b *Bundle) Wire() Wire {
	w := Wire{
		ExistingClasses:     b.ExistingClasses,
		CSSToTailwind:       make(map[string][]string, len(b.Rules)),
		TailwindSuggestions: make(map[string][]string, len(b.Rules)),
		Error:               b.Error,
	}
	if w.ExistingClasses == nil {
		w.ExistingClasses = []string{}
	}

	for _, r := range b.Rules {
		sel := r.Rule.Selector
		if _, ok := w.CSSToTailwind[sel]; !ok {
			w.CSSToTailwind[sel] = []string{}
			w.TailwindSuggestions[sel] = []string{}
		}
		w.CSSToTailwind[sel] = append(w.CSSToTailwind[sel], r.Rule.Strings()...)
		w.TailwindSuggestions[sel] = append(w.TailwindSuggestions[sel], convert.Classes(r.Candidates)...)
	}

	if b.Verified && b.Error == nil {
		confirmed := b.ConfirmedClasses
		if confirmed == nil {
			confirmed = []string{}
		}
		w.ExtractedClasses = &confirmed
	}
	return w
}

// Candidates flattens the candidates of every rule.
func (b *Bundle) Candidates() []convert.Candidate {
	var out []convert.Candidate
	for _, r := range b.Rules {
		out = append(out, r.Candidates...)
	}
	return out
}

func countConfirmed(cands []convert.Candidate) int {
	n := 0
	for _, c := range cands {
		if c.Confirmed {
			n++
		}
	}
	return n
}

// Styles renders the raw declarations of all rules as one style string,
// the input the format emitters take.
func (b *Bundle) Styles() string {
	blocks := make([]string, 0, len(b.Rules))
	for _, r := range b.Rules {
		if block := r.Rule.Block(); block != "" {
			blocks = append(blocks, block)
		}
	}
	return strings.Join(blocks, " ")
}
