package cssmodel

import (
	"regexp"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// nestedAtRules are block at-rules whose contents are style rules.
// Their rules are flattened into the output in source order.
var nestedAtRules = map[string]bool{
	"@media":     true,
	"@supports":  true,
	"@layer":     true,
	"@container": true,
	"@document":  true,
}

var (
	importantSuffix = regexp.MustCompile(`(?i)\s*!\s*important\s*$`)
	propertyName    = regexp.MustCompile(`^-?[_a-z][-_a-z0-9]*$`)
)

// Parse converts CSS text into rules. It never fails: a rule containing a
// malformed declaration is returned with an empty declaration list, and a
// block cut off by end of input keeps what was parsed and is marked
// Unterminated.
//
// Values come from the grammar parser's tokens: comments and runs of
// whitespace become a single space, and whitespace next to ',', '/', ':',
// '!' and '=' is dropped. Property names are lowercased.
func Parse(cssText string) []Rule {
	rp := &ruleParser{
		p:   css.NewParser(parse.NewInputString(cssText), false),
		src: cssText,
	}
	return rp.parseRules(false)
}

type ruleParser struct {
	p   *css.Parser
	src string
}

// atEOF reports whether an ErrorGrammar came from the reader rather than
// from a syntax error. The reader only fails at end of input.
func (rp *ruleParser) atEOF() bool {
	return !rp.p.HasParseError()
}

// parseRules reads style rules until end of input, or until the end of the
// enclosing at-rule when nested.
func (rp *ruleParser) parseRules(nested bool) []Rule {
	var rules []Rule
	dangling := ""
	for {
		gt, tt, data := rp.p.Next()

		// A selector cut off by end of input is reported as an empty
		// unterminated rule.
		if dangling != "" {
			if tt == css.ErrorToken {
				rules = append(rules, Rule{Selector: dangling, Unterminated: true})
			}
			dangling = ""
		}

		switch gt {
		case css.ErrorGrammar:
			if rp.atEOF() {
				return rules
			}
			dangling = danglingSelector(rp.p.Values())
		case css.EndAtRuleGrammar:
			if nested {
				return rules
			}
		case css.BeginAtRuleGrammar:
			rules = append(rules, rp.parseAtRule(string(data))...)
		case css.BeginRulesetGrammar:
			rules = append(rules, rp.parseRuleset(selectorText(rp.p.Values())))
		}
	}
}

func (rp *ruleParser) parseAtRule(name string) []Rule {
	if !nestedAtRules[name] {
		rp.skipBlock()
		return nil
	}
	if name != "@container" {
		return rp.parseRules(true)
	}

	// The grammar parser streams unknown at-rules token by token, so the
	// block body is cut from the source and parsed on its own.
	start := rp.p.Offset()
	end := start
	depth := 1
	for depth > 0 {
		gt, tt, _ := rp.p.Next()
		switch gt {
		case css.ErrorGrammar:
			if rp.atEOF() {
				depth = 0
				end = len(rp.src)
			}
		case css.EndAtRuleGrammar:
			depth--
			end = rp.p.Offset()
			if tt == css.RightBraceToken {
				end--
			}
		}
	}
	if start > end || end > len(rp.src) {
		return nil
	}
	return Parse(rp.src[start:end])
}

// skipBlock consumes grammar up to and including the end of the block
// whose beginning was just read.
func (rp *ruleParser) skipBlock() {
	depth := 1
	for depth > 0 {
		gt, _, _ := rp.p.Next()
		switch gt {
		case css.ErrorGrammar:
			if rp.atEOF() {
				return
			}
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
}

func (rp *ruleParser) parseRuleset(selector string) Rule {
	rule := Rule{Selector: selector}
	malformed := false

loop:
	for {
		gt, tt, data := rp.p.Next()
		switch gt {
		case css.DeclarationGrammar:
			d, ok := buildDeclaration(string(data), rp.p.Values())
			if !ok {
				malformed = true
				continue
			}
			rule.Declarations = append(rule.Declarations, d)
		case css.CustomPropertyGrammar:
		case css.AtRuleGrammar:
			malformed = true
		case css.BeginRulesetGrammar, css.BeginAtRuleGrammar:
			// Nested blocks are not supported inside a declaration list.
			malformed = true
			rp.skipBlock()
		case css.ErrorGrammar:
			if rp.atEOF() {
				rule.Unterminated = true
				break loop
			}
			malformed = true
		case css.EndRulesetGrammar:
			rule.Unterminated = tt == css.ErrorToken
			break loop
		}
	}

	if malformed {
		rule.Declarations = nil
	}
	return rule
}

func buildDeclaration(name string, values []css.Token) (Declaration, bool) {
	if !propertyName.MatchString(name) {
		return Declaration{}, false
	}

	var sb strings.Builder
	for _, t := range values {
		sb.Write(t.Data)
	}
	value := strings.TrimSpace(sb.String())

	important := false
	if loc := importantSuffix.FindStringIndex(value); loc != nil {
		important = true
		value = strings.TrimSpace(value[:loc[0]])
	}
	if value == "" {
		return Declaration{}, false
	}
	return Declaration{Property: name, Value: value, Important: important}, true
}

// selectorText renders selector tokens with one space around combinators
// and after commas.
func selectorText(toks []css.Token) string {
	var sb strings.Builder
	for _, t := range toks {
		switch {
		case t.TokenType == css.CommaToken:
			sb.WriteString(", ")
		case t.TokenType == css.DelimToken && len(t.Data) == 1 && strings.IndexByte(">+~", t.Data[0]) >= 0:
			sb.WriteByte(' ')
			sb.Write(t.Data)
			sb.WriteByte(' ')
		default:
			sb.Write(t.Data)
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

// danglingSelector returns the selector left by a qualified rule that ran
// into end of input, or "" for other top-level errors such as a stray '}'.
func danglingSelector(toks []css.Token) string {
	for _, t := range toks {
		if t.TokenType == css.RightBraceToken {
			return ""
		}
	}
	return selectorText(toks)
}
