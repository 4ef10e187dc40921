package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	cli "github.com/urfave/cli/v3"

	"github.com/gnana997/csswind/pkg/capture"
	"github.com/gnana997/csswind/pkg/emit"
	"github.com/gnana997/csswind/pkg/extract"
	"github.com/gnana997/csswind/pkg/markup"
	mcpserver "github.com/gnana997/csswind/pkg/mcp"
	"github.com/gnana997/csswind/pkg/mcplog"
	"github.com/gnana997/csswind/pkg/parser"
	"github.com/gnana997/csswind/pkg/util"
	"github.com/gnana997/csswind/pkg/watch"
)

// Replaceable for testing.
var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
)

const stdinName = "-"

func runConvert(ctx context.Context, cmd *cli.Command) error {
	env := envFromContext(ctx)

	mk, kind, err := readMarkup(cmd.String("markup"), cmd.String("markup-kind"))
	if err != nil {
		return err
	}

	ex, err := env.newExtractor(!cmd.Bool("no-verify"), false)
	if err != nil {
		return err
	}

	args := cmd.Args().Slice()
	if len(args) == 0 {
		args = []string{stdinName}
	}
	paths, hasDir, err := expandPaths(args)
	if err != nil {
		return err
	}

	results, err := convertAll(ctx, ex, paths, mk, kind)
	if err != nil {
		return err
	}

	if len(paths) == 1 && !hasDir {
		return printWire(results[paths[0]])
	}
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	_, err = fmt.Fprintln(stdout, string(data))
	return err
}

// expandPaths replaces each directory argument with the stylesheets found
// under it. hasDir reports whether any argument was a directory.
func expandPaths(args []string) (paths []string, hasDir bool, err error) {
	for _, arg := range args {
		if arg == stdinName {
			paths = append(paths, arg)
			continue
		}
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			// readInput reports missing files.
			paths = append(paths, arg)
			continue
		}
		files, err := watch.Discover(arg, watch.Patterns{})
		if err != nil {
			return nil, false, fmt.Errorf("unable to list '%s': %w", arg, err)
		}
		paths = append(paths, files...)
		hasDir = true
	}
	return paths, hasDir, nil
}

// convertAll reads and converts paths with a bounded number of workers.
// The first read error wins; conversion itself never fails.
func convertAll(ctx context.Context, ex *extract.Extractor, paths []string, mk string, kind markup.Kind) (map[string]extract.Wire, error) {
	type job struct {
		path string
		css  string
	}

	sources := make([]job, 0, len(paths))
	for _, p := range paths {
		css, err := readInput(p)
		if err != nil {
			return nil, err
		}
		sources = append(sources, job{path: p, css: css})
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]extract.Wire, len(sources))
		jobs    = make(chan job)
	)

	workers := min(util.GetOptimalPoolSize(), len(sources))
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				b := ex.Extract(ctx, extract.Input{Markup: mk, MarkupKind: kind, CSS: j.css})
				mu.Lock()
				results[j.path] = b.Wire()
				mu.Unlock()
			}
		}()
	}
	for _, j := range sources {
		jobs <- j
	}
	close(jobs)
	wg.Wait()

	return results, nil
}

func runExtract(ctx context.Context, cmd *cli.Command) error {
	env := envFromContext(ctx)

	if cmd.NArg() != 1 {
		return errors.New("extract expects exactly one URL")
	}
	url := cmd.Args().First()
	if err := capture.ValidateURL(url); err != nil {
		return err
	}

	ex, err := env.newExtractor(!cmd.Bool("no-verify"), true)
	if err != nil {
		return err
	}

	b, err := ex.ExtractURL(ctx, url, cmd.String("selector"), cmd.Bool("no-verify"))
	if err != nil {
		return err
	}

	if format := cmd.String("format"); format != emit.FormatJSON {
		out, err := emit.Format(format, cmd.String("name"), b.Styles())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, out)
		return err
	}
	return printWire(b.Wire())
}

func runEmit(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() > 1 {
		envFromContext(ctx).log.Warn("too many arguments, ignoring", "extra", cmd.Args().Slice()[1:])
	}

	path := cmd.Args().First()
	if path == "" {
		path = stdinName
	}
	styles, err := readInput(path)
	if err != nil {
		return err
	}

	out, err := emit.Format(cmd.String("format"), cmd.String("name"), styles)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, out)
	return err
}

func runServe(ctx context.Context, _ *cli.Command) error {
	env := envFromContext(ctx)

	ex, err := env.newExtractor(true, true)
	if err != nil {
		return err
	}

	callLog, err := mcplog.NewLogger(env.cfg.LogFile)
	if err != nil {
		return err
	}
	if callLog != nil {
		env.onClose(callLog)
	}

	return mcpserver.NewServer(ex, callLog, env.log).ServeStdio()
}

func runWatch(ctx context.Context, cmd *cli.Command) error {
	env := envFromContext(ctx)

	root := cmd.Args().First()
	if root == "" {
		root = "."
	}

	mk, kind, err := readMarkup(cmd.String("markup"), "")
	if err != nil {
		return err
	}

	ex, err := env.newExtractor(!cmd.Bool("no-verify"), false)
	if err != nil {
		return err
	}

	var outMu sync.Mutex
	enc := json.NewEncoder(stdout)
	handler := func(path, content string) {
		b := ex.Extract(ctx, extract.Input{Markup: mk, MarkupKind: kind, CSS: content})
		outMu.Lock()
		defer outMu.Unlock()
		if err := enc.Encode(watchRecord{Path: path, Result: b.Wire()}); err != nil {
			env.log.Error("failed to write result", "path", path, "error", err)
		}
	}

	patterns := watch.Patterns{
		Include: cmd.StringSlice("include"),
		Exclude: cmd.StringSlice("exclude"),
	}
	w, err := watch.New(watch.Options{
		Patterns: patterns,
		Debounce: cmd.Duration("debounce"),
	}, handler, env.log)
	if err != nil {
		return err
	}
	if err := w.Start(root); err != nil {
		return err
	}

	if !cmd.Bool("skip-existing") {
		n, err := convertExisting(root, patterns, handler, env.log)
		if err != nil {
			_ = w.Stop()
			return err
		}
		env.log.Info("converted existing stylesheets", "files", n)
	}

	env.log.Info("watching for changes", "root", root)
	<-ctx.Done()

	stats := w.Stats()
	env.log.Info("watch stopped", "stats", stats)
	return w.Stop()
}

// convertExisting runs handler once over every stylesheet already under
// root, in path order.
func convertExisting(root string, patterns watch.Patterns, handler watch.Handler, log *slog.Logger) (int, error) {
	files, err := watch.Discover(root, patterns)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, path := range files {
		content, err := util.ReadSource(path)
		if err != nil {
			log.Warn("failed to read stylesheet", "file", path, "error", err)
			continue
		}
		handler(path, content)
		n++
	}
	return n, nil
}

// watchRecord is one line of watch output.
type watchRecord struct {
	Path   string       `json:"path"`
	Result extract.Wire `json:"result"`
}

func runVersion(_ context.Context, _ *cli.Command) error {
	_, err := fmt.Fprintf(stdout, "%s %s\n", appName, mcpserver.Version)
	return err
}

func printWire(w extract.Wire) error {
	out, err := emit.ToJSON(w)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, out)
	return err
}

// readInput reads a file, or standard input for "-".
func readInput(path string) (string, error) {
	if path == stdinName {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("unable to read standard input: %w", err)
		}
		return string(data), nil
	}
	s, err := util.ReadSource(path)
	if err != nil {
		return "", fmt.Errorf("unable to read '%s': %w", path, err)
	}
	return s, nil
}

// readMarkup loads the optional markup file. An explicit kind wins over
// the file extension.
func readMarkup(path, kindFlag string) (string, markup.Kind, error) {
	kind, err := markup.ParseKind(kindFlag)
	if err != nil {
		return "", "", err
	}
	if path == "" {
		return "", kind, nil
	}
	if kindFlag == "" {
		kind = markupKindFor(path)
	}
	s, err := readInput(path)
	if err != nil {
		return "", "", err
	}
	return s, kind, nil
}

func markupKindFor(path string) markup.Kind {
	switch parser.DetectLanguage(path) {
	case parser.LanguageJSX:
		return markup.KindJSX
	case parser.LanguageTSX:
		return markup.KindTSX
	default:
		return markup.KindHTML
	}
}
