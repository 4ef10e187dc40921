// Package capture loads a live page and returns its markup and the style
// rules that apply to it.
package capture

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	_ "embed"

	"go.uber.org/multierr"

	"github.com/gnana997/csswind/pkg/util"
)

//go:embed scripts/capture-worker.js
var captureScript []byte

// DefaultTimeout bounds navigation plus extraction.
const DefaultTimeout = 60 * time.Second

// waitDelay bounds how long Capture waits for the worker's pipes to close
// after the worker is killed. The browser it spawned may still hold them.
var waitDelay = 5 * time.Second

// removeFile deletes the temp worker script; replaced in tests.
var removeFile = os.Remove

// ErrInvalidURL is returned for URLs that are not absolute http(s) URLs.
var ErrInvalidURL = errors.New("url must be an absolute http or https URL")

// Page is the captured markup and raw CSS.
type Page struct {
	URL      string `json:"url"`
	Selector string `json:"selector,omitempty"`
	HTML     string `json:"html"`
	CSS      string `json:"css"`
}

// Capturer fetches a page. An empty selector captures <body>.
type Capturer interface {
	Capture(ctx context.Context, url, selector string) (Page, error)
}

// Config configures a NodeCapturer.
type Config struct {
	// Runtime is the bun or node binary. Empty means search the PATH.
	Runtime string
	// ProjectDir is where playwright is resolved from.
	ProjectDir string
	Timeout    time.Duration
	Logger     *slog.Logger
}

// NodeCapturer drives headless Chromium through Playwright in a
// JavaScript runtime, one browser per call.
type NodeCapturer struct {
	runtime string
	cfg     Config
	log     *slog.Logger
}

type captureInput struct {
	URL       string `json:"url"`
	Selector  string `json:"selector,omitempty"`
	TimeoutMs int64  `json:"timeoutMs"`
}

type captureOutput struct {
	HTML string `json:"html"`
	CSS  string `json:"css"`
}

// NewNodeCapturer resolves the runtime. Returns util.ErrNoRuntime when no
// runtime can be found.
func NewNodeCapturer(cfg Config) (*NodeCapturer, error) {
	rt, err := util.ResolveRuntime(cfg.Runtime)
	if err != nil {
		return nil, err
	}
	if cfg.ProjectDir == "" {
		cfg.ProjectDir = "."
	}
	cfg.ProjectDir = util.FindProjectRoot(cfg.ProjectDir)
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &NodeCapturer{runtime: rt, cfg: cfg, log: log}, nil
}

// ValidateURL checks that raw is an absolute http(s) URL.
func ValidateURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidURL
	}
	return nil
}

// Capture implements Capturer. The worker process is killed when ctx is
// done or the timeout elapses. The temp script is always removed; a failed
// removal is logged and never changes the result.
func (c *NodeCapturer) Capture(ctx context.Context, pageURL, selector string) (Page, error) {
	if err := ValidateURL(pageURL); err != nil {
		return Page{}, err
	}
	start := time.Now()

	tmpFile, err := os.CreateTemp("", "csswind-capture-*.js")
	if err != nil {
		return Page{}, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		if rerr := removeFile(tmpFile.Name()); rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
			c.log.Warn("failed to remove capture script", "path", tmpFile.Name(), "error", rerr)
		}
	}()

	_, werr := tmpFile.Write(captureScript)
	if cerr := tmpFile.Close(); werr != nil || cerr != nil {
		return Page{}, fmt.Errorf("failed to write capture script: %w", multierr.Combine(werr, cerr))
	}

	inputJSON, err := json.Marshal(captureInput{
		URL:       pageURL,
		Selector:  selector,
		TimeoutMs: c.cfg.Timeout.Milliseconds(),
	})
	if err != nil {
		return Page{}, fmt.Errorf("failed to marshal input: %w", err)
	}

	// Slack on top of the navigation timeout for browser startup/teardown.
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout+15*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.runtime, tmpFile.Name())
	cmd.Stdin = bytes.NewReader(inputJSON)
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Dir = c.cfg.ProjectDir

	c.log.Info("capturing page",
		"runtime", filepath.Base(c.runtime),
		"url", pageURL,
		"selector", selector)

	if err := cmd.Run(); err != nil {
		stderrStr := strings.TrimSpace(stderr.String())
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Page{}, fmt.Errorf("capture worker: %w", ctxErr)
		}
		return Page{}, fmt.Errorf("capture worker failed: %w (stderr: %s)", err, stderrStr)
	}

	var out captureOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		return Page{}, fmt.Errorf("failed to parse capture output: %w", err)
	}

	c.log.Info("page captured",
		"url", pageURL,
		"html_bytes", len(out.HTML),
		"css_bytes", len(out.CSS),
		"ms", time.Since(start).Milliseconds())

	return Page{URL: pageURL, Selector: selector, HTML: out.HTML, CSS: out.CSS}, nil
}

// Func adapts a function to the Capturer interface.
type Func func(ctx context.Context, url, selector string) (Page, error)

// Capture calls f.
func (f Func) Capture(ctx context.Context, url, selector string) (Page, error) {
	return f(ctx, url, selector)
}
