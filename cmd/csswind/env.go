package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.uber.org/multierr"

	"github.com/gnana997/csswind/pkg/capture"
	"github.com/gnana997/csswind/pkg/extract"
	"github.com/gnana997/csswind/pkg/markup"
	"github.com/gnana997/csswind/pkg/util"
	"github.com/gnana997/csswind/pkg/verify"
)

type envKey struct{}

// appEnv is the per-run state shared by all commands.
type appEnv struct {
	cfg     *ProjectConfig
	log     *slog.Logger
	start   time.Time
	closers []io.Closer
}

func contextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, &appEnv{
		cfg:   defaultProjectConfig(),
		log:   slog.Default(),
		start: time.Now(),
	})
}

func envFromContext(ctx context.Context) *appEnv {
	if env, ok := ctx.Value(envKey{}).(*appEnv); ok {
		return env
	}
	panic("appEnv not found in context")
}

func (e *appEnv) uptime() time.Duration {
	return time.Since(e.start)
}

// onClose registers c to be closed when the program ends.
func (e *appEnv) onClose(c io.Closer) {
	e.closers = append(e.closers, c)
}

func (e *appEnv) close() (err error) {
	for i := len(e.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, e.closers[i].Close())
	}
	e.closers = nil
	return err
}

// newVerifier builds the compiler chain. A missing runtime is not fatal:
// the caller gets a nil Verifier and extraction runs unverified.
func (e *appEnv) newVerifier() (*verify.Verifier, error) {
	node, err := verify.NewNodeCompiler(verify.NodeConfig{
		Runtime:        e.cfg.Runtime,
		ProjectDir:     e.cfg.ProjectDir,
		TailwindConfig: e.cfg.TailwindConfig,
		Autoprefix:     e.cfg.Autoprefix,
		Logger:         e.log,
	})
	if errors.Is(err, util.ErrNoRuntime) {
		e.log.Warn("verification disabled", "error", err)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to prepare compiler: %w", err)
	}

	var compiler verify.Compiler = node
	if e.cfg.CacheSize > 0 {
		cached, err := verify.NewCachedCompiler(node, e.cfg.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("unable to prepare compile cache: %w", err)
		}
		compiler = cached
	}

	e.log.Debug("compiler ready", "runtime", node.Runtime(), "cache_size", e.cfg.CacheSize)
	return verify.NewVerifier(compiler,
		verify.WithPreamble(e.cfg.Preamble),
		verify.WithLogger(e.log),
	), nil
}

// newExtractor wires the pipeline. withVerify=false skips the compiler
// entirely; withCapture adds the headless browser. Either is left out with
// a warning when no runtime is installed.
func (e *appEnv) newExtractor(withVerify, withCapture bool) (*extract.Extractor, error) {
	cfg := extract.Config{Logger: e.log}

	if withVerify {
		v, err := e.newVerifier()
		if err != nil {
			return nil, err
		}
		cfg.Verifier = v
	}

	if withCapture {
		c, err := capture.NewNodeCapturer(capture.Config{
			Runtime:    e.cfg.Runtime,
			ProjectDir: e.cfg.ProjectDir,
			Logger:     e.log,
		})
		switch {
		case errors.Is(err, util.ErrNoRuntime):
			e.log.Warn("page capture disabled", "error", err)
		case err != nil:
			return nil, fmt.Errorf("unable to prepare page capture: %w", err)
		default:
			cfg.Capturer = c
		}
	}

	mk := markup.NewExtractor(nil, e.log)
	e.onClose(mk)
	cfg.Markup = mk

	return extract.New(cfg), nil
}
