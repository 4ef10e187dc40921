// Package parser pools tree-sitter parsers for JSX and TSX markup.
package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/gnana997/csswind/pkg/util"
)

// ErrUnknownLanguage is returned for markup that is neither JSX nor TSX.
var ErrUnknownLanguage = errors.New("unknown markup language")

// ParserManager hands out pooled parsers, one pool per grammar, created on
// first use. Safe for concurrent use.
//
// Callers own the returned Tree and must call tree.Close().
type ParserManager struct {
	mu       sync.Mutex
	pools    map[Language]*grammarPool
	poolSize int
	log      *slog.Logger

	parses atomic.Int64
}

// NewParserManager creates a manager with CPU-sized pools.
func NewParserManager(logger *slog.Logger) *ParserManager {
	return NewParserManagerWithPoolSize(logger, 0)
}

// NewParserManagerWithPoolSize caps every pool at poolSize parsers;
// 0 selects util.GetOptimalPoolSize().
func NewParserManagerWithPoolSize(logger *slog.Logger, poolSize int) *ParserManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &ParserManager{
		pools:    make(map[Language]*grammarPool),
		poolSize: util.GetOptimalPoolSizeWithOverride(poolSize),
		log:      logger,
	}
}

// Parse parses source with the given grammar. Trees with syntax errors are
// still returned since class attributes can be read from partial trees.
func (pm *ParserManager) Parse(source []byte, lang Language) (*ts.Tree, error) {
	if lang == LanguageUnknown {
		return nil, ErrUnknownLanguage
	}
	pm.parses.Add(1)

	pool, err := pm.pool(lang)
	if err != nil {
		return nil, err
	}

	p, err := pool.get()
	if err != nil {
		return nil, err
	}
	tree := p.Parse(source, nil)
	pool.put(p)

	if tree == nil {
		return nil, fmt.Errorf("%s parse produced no tree", lang)
	}
	if tree.RootNode().HasError() {
		pm.log.Debug("parse tree contains errors", "language", lang.String())
	}
	return tree, nil
}

// Close releases the idle parsers. Parsers still checked out are closed
// by the garbage collector.
func (pm *ParserManager) Close() error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	closed := 0
	for _, pool := range pm.pools {
		closed += pool.drain()
	}
	pm.pools = make(map[Language]*grammarPool)

	pm.log.Debug("parser manager closed", "parses", pm.parses.Load(), "parsers_closed", closed)
	return nil
}

func (pm *ParserManager) pool(lang Language) (*grammarPool, error) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if pool, ok := pm.pools[lang]; ok {
		return pool, nil
	}
	pool, err := newGrammarPool(lang, pm.poolSize, pm.log)
	if err != nil {
		return nil, err
	}
	pm.pools[lang] = pool
	pm.log.Debug("parser pool created", "language", lang.String(), "size", pm.poolSize)
	return pool, nil
}

func languagePointer(lang Language) (unsafe.Pointer, error) {
	switch lang {
	case LanguageTSX:
		return ts_typescript.LanguageTSX(), nil
	case LanguageJSX:
		return ts_javascript.Language(), nil
	default:
		return nil, fmt.Errorf("%s: %w", lang, ErrUnknownLanguage)
	}
}

// Stats reports pool usage.
type Stats struct {
	ParsersCreated int
	ParsesCalled   int
}

// Stats returns usage counters across all pools.
func (pm *ParserManager) Stats() Stats {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	created := 0
	for _, pool := range pm.pools {
		created += pool.created()
	}
	return Stats{
		ParsersCreated: created,
		ParsesCalled:   int(pm.parses.Load()),
	}
}
