package parser

import (
	"fmt"
	"log/slog"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// grammarPool keeps idle parsers for one grammar. At most cap(slots)
// parsers exist at once; get blocks while all of them are in use.
type grammarPool struct {
	lang    Language
	grammar *ts.Language
	idle    chan *ts.Parser
	slots   chan struct{}
	log     *slog.Logger
}

func newGrammarPool(lang Language, size int, log *slog.Logger) (*grammarPool, error) {
	ptr, err := languagePointer(lang)
	if err != nil {
		return nil, err
	}
	slots := make(chan struct{}, size)
	for range size {
		slots <- struct{}{}
	}
	return &grammarPool{
		lang:    lang,
		grammar: ts.NewLanguage(ptr),
		idle:    make(chan *ts.Parser, size),
		slots:   slots,
		log:     log,
	}, nil
}

func (g *grammarPool) get() (*ts.Parser, error) {
	select {
	case p := <-g.idle:
		return p, nil
	default:
	}

	select {
	case p := <-g.idle:
		return p, nil
	case <-g.slots:
		return g.create()
	}
}

func (g *grammarPool) create() (*ts.Parser, error) {
	p := ts.NewParser()
	if err := p.SetLanguage(g.grammar); err != nil {
		p.Close()
		g.slots <- struct{}{}
		return nil, fmt.Errorf("set %s grammar: %w", g.lang, err)
	}
	g.log.Debug("parser created", "language", g.lang.String(), "created", g.created())
	return p, nil
}

// put returns p to the pool. It never blocks: idle has room for every
// parser the pool can create.
func (g *grammarPool) put(p *ts.Parser) {
	if p != nil {
		g.idle <- p
	}
}

func (g *grammarPool) created() int {
	return cap(g.slots) - len(g.slots)
}

// drain closes every idle parser and returns how many were closed.
func (g *grammarPool) drain() int {
	n := 0
	for {
		select {
		case p := <-g.idle:
			p.Close()
			n++
		default:
			return n
		}
	}
}
