// Package markup collects the class names already present in page markup.
package markup

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gnana997/csswind/pkg/parser"
)

// Kind names a markup dialect.
type Kind string

const (
	KindHTML Kind = "html"
	KindJSX  Kind = "jsx"
	KindTSX  Kind = "tsx"
)

// ParseKind validates a dialect name. Empty selects KindHTML.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return KindHTML, nil
	case KindHTML, KindJSX, KindTSX:
		return k, nil
	default:
		return "", fmt.Errorf("unknown markup kind %q (want html, jsx or tsx)", s)
	}
}

// Extractor pulls class lists out of markup. Safe for concurrent use.
type Extractor struct {
	parsers *parser.ParserManager
	log     *slog.Logger
}

// NewExtractor returns an Extractor. A nil manager gets a private one,
// released by Close.
func NewExtractor(pm *parser.ParserManager, log *slog.Logger) *Extractor {
	if log == nil {
		log = slog.Default()
	}
	if pm == nil {
		pm = parser.NewParserManager(log)
	}
	return &Extractor{parsers: pm, log: log}
}

// Close releases the parser pools.
func (e *Extractor) Close() error {
	return e.parsers.Close()
}

// ExistingClasses returns the distinct class names used in source, in
// first-seen order. Unparseable input yields an empty list.
func (e *Extractor) ExistingClasses(kind Kind, source string) []string {
	if strings.TrimSpace(source) == "" {
		return []string{}
	}
	switch kind {
	case KindJSX:
		return e.jsxClasses([]byte(source), parser.LanguageJSX)
	case KindTSX:
		return e.jsxClasses([]byte(source), parser.LanguageTSX)
	default:
		return HTMLClasses(source)
	}
}

// classSet accumulates whitespace-separated class lists without repeats.
type classSet struct {
	seen map[string]bool
	list []string
}

func newClassSet() *classSet {
	return &classSet{seen: make(map[string]bool), list: []string{}}
}

func (s *classSet) addList(v string) {
	for _, cls := range strings.Fields(v) {
		if !s.seen[cls] {
			s.seen[cls] = true
			s.list = append(s.list, cls)
		}
	}
}
