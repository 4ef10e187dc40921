package verify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	_ "embed"

	"github.com/gnana997/csswind/pkg/util"
)

//go:embed scripts/compile-worker.js
var compileScript []byte

// DefaultTimeout bounds a single compiler run.
const DefaultTimeout = 30 * time.Second

// waitDelay bounds how long Compile waits for the worker's pipes to close
// after the worker is killed, e.g. when a child process inherited them.
var waitDelay = 5 * time.Second

// CompileError describes a failed compiler run.
type CompileError struct {
	Message  string
	Stderr   string
	ExitCode int
}

func (e *CompileError) Error() string {
	if e.Stderr == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (stderr: %s)", e.Message, e.Stderr)
}

// NodeConfig configures a NodeCompiler.
type NodeConfig struct {
	// Runtime is the bun or node binary. Empty means search the PATH.
	Runtime string
	// ProjectDir is where tailwindcss, postcss and autoprefixer are
	// resolved from.
	ProjectDir string
	// TailwindConfig is an optional tailwind.config.js path.
	TailwindConfig string
	Autoprefix     bool
	Timeout        time.Duration
	Logger         *slog.Logger
}

// NodeCompiler runs tailwindcss through PostCSS in a JavaScript runtime.
type NodeCompiler struct {
	runtime string
	cfg     NodeConfig
	log     *slog.Logger
}

type compileInput struct {
	CSS        string   `json:"css"`
	Content    []string `json:"content"`
	Config     string   `json:"config,omitempty"`
	Autoprefix bool     `json:"autoprefix"`
}

type compileOutput struct {
	CSS string `json:"css"`
}

// NewNodeCompiler resolves the runtime and returns a compiler.
// Returns util.ErrNoRuntime when no runtime can be found.
func NewNodeCompiler(cfg NodeConfig) (*NodeCompiler, error) {
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
	if !util.HasNodeModules(cfg.ProjectDir) {
		log.Warn("no node_modules in project dir, tailwindcss may not resolve", "dir", cfg.ProjectDir)
	}
	return &NodeCompiler{runtime: rt, cfg: cfg, log: log}, nil
}

// Runtime returns the resolved runtime path.
func (c *NodeCompiler) Runtime() string {
	return c.runtime
}

// Compile implements Compiler.
func (c *NodeCompiler) Compile(ctx context.Context, stylesheet string, content []string) (string, error) {
	start := time.Now()

	// Write the embedded script to a temp file.
	tmpFile, err := os.CreateTemp("", "csswind-compile-*.js")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(compileScript); err != nil {
		tmpFile.Close()
		return "", fmt.Errorf("failed to write compile script: %w", err)
	}
	tmpFile.Close()

	inputJSON, err := json.Marshal(compileInput{
		CSS:        stylesheet,
		Content:    content,
		Config:     c.cfg.TailwindConfig,
		Autoprefix: c.cfg.Autoprefix,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal input: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.runtime, tmpFile.Name())
	cmd.Stdin = bytes.NewReader(inputJSON)
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Dir = c.cfg.ProjectDir

	c.log.Debug("running tailwind compile",
		"runtime", filepath.Base(c.runtime),
		"stylesheet_bytes", len(stylesheet),
		"content", len(content))

	if err := cmd.Run(); err != nil {
		stderrStr := strings.TrimSpace(stderr.String())
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("compile worker: %w", ctxErr)
		}
		ce := &CompileError{Message: "compile worker failed: " + err.Error(), Stderr: stderrStr, ExitCode: -1}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			ce.ExitCode = exitErr.ExitCode()
			if stderrStr != "" {
				ce.Message = firstLine(stderrStr)
			}
		}
		return "", ce
	}

	var out compileOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		return "", fmt.Errorf("failed to parse compile output: %w", err)
	}

	c.log.Debug("tailwind compile complete",
		"output_bytes", len(out.CSS),
		"ms", time.Since(start).Milliseconds())

	return out.CSS, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
