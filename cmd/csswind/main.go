package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"

	"github.com/gnana997/csswind/pkg/emit"
	mcpserver "github.com/gnana997/csswind/pkg/mcp"
	"github.com/gnana997/csswind/pkg/util"
)

const appName = "csswind"

// flagSource is the part of *cli.Command the config overrides read.
type flagSource interface {
	IsSet(name string) bool
	String(name string) string
}

// applyFlags overrides cfg with global flags that were given explicitly.
func applyFlags(cfg *ProjectConfig, flags flagSource) {
	set := func(name string, dst *string) {
		if flags.IsSet(name) {
			*dst = flags.String(name)
		}
	}
	set("runtime", &cfg.Runtime)
	set("project-dir", &cfg.ProjectDir)
	set("log-level", &cfg.LogLevel)
	set("log-format", &cfg.LogFormat)
	set("log-file", &cfg.LogFile)
}

// initializeAppContext resolves configuration in order of precedence:
// flags, environment (including .env), config file, defaults.
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	env := envFromContext(ctx)

	_ = godotenv.Load()

	cfg, err := loadProjectConfig(cmd.String("config"))
	if err != nil {
		return ctx, err
	}
	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return ctx, fmt.Errorf("unable to apply environment: %w", err)
	}
	applyFlags(cfg, cmd)
	if err := cfg.validate(); err != nil {
		return ctx, fmt.Errorf("invalid configuration: %w", err)
	}

	env.cfg = cfg
	env.log = util.NewLogger(cfg.loggerConfig())
	slog.SetDefault(env.log)

	env.log.Debug("program started", "args", os.Args, "version", mcpserver.Version, "runtime", runtime.Version())
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) (err error) {
	env := envFromContext(ctx)

	if er := env.close(); er != nil {
		err = multierr.Append(err, fmt.Errorf("unable to release resources: %w", er))
	}
	env.log.Debug("program ended", "elapsed", env.uptime(), "args", cmd.Args().Slice())
	return
}

var errWasHandled bool

func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	envFromContext(ctx).log.Error("program ended with error", "error", err)
	errWasHandled = true
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(contextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            appName,
		Usage:           "converts CSS to Tailwind utility classes and verifies them against the real compiler",
		Version:         mcpserver.Version + " (" + runtime.Version() + ")",
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load configuration from `FILE` (YAML, default " + defaultConfigPath + ")"},
			&cli.StringFlag{Name: "runtime", Usage: "bun or node `BINARY` for the compiler and capture workers"},
			&cli.StringFlag{Name: "project-dir", Usage: "`DIR` where tailwindcss and playwright are installed"},
			&cli.StringFlag{Name: "log-level", Usage: "`LEVEL`: debug, info, warn or error"},
			&cli.StringFlag{Name: "log-format", Usage: "`FORMAT`: text or json"},
			&cli.StringFlag{Name: "log-file", Usage: "append MCP tool calls to `FILE` as JSON lines"},
		},
		Commands: []*cli.Command{
			{
				Name:         "convert",
				Usage:        "Converts CSS file(s) to utility class suggestions",
				OnUsageError: usageErrorHandler,
				Action:       runConvert,
				ArgsUsage:    "[CSS_FILE|DIR...]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "markup", Aliases: []string{"m"}, Usage: "page markup `FILE` used for existing classes and verification"},
					&cli.StringFlag{Name: "markup-kind", Usage: "markup `KIND`: html, jsx or tsx (default from file extension)"},
					&cli.BoolFlag{Name: "no-verify", Usage: "skip verification against the Tailwind compiler"},
				},
				Description: "Reads standard input when no file or '-' is given. A directory expands to the *.css files\n" +
					"under it. Several files are converted in parallel and printed as one JSON object keyed by path.",
			},
			{
				Name:         "extract",
				Usage:        "Captures a live page and converts its CSS",
				OnUsageError: usageErrorHandler,
				Action:       runExtract,
				ArgsUsage:    "URL",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "selector", Aliases: []string{"s"}, Usage: "narrow capture to the first element matching `SELECTOR`"},
					&cli.BoolFlag{Name: "no-verify", Usage: "skip verification against the Tailwind compiler"},
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: emit.FormatJSON,
						Usage: "output `FORMAT` (supported: " + strings.Join(emit.Formats(), ", ") + ")"},
					&cli.StringFlag{Name: "name", Usage: "component `NAME` for framework snippets"},
				},
			},
			{
				Name:         "emit",
				Usage:        "Renders a style string as CSS, JSON or a framework snippet",
				OnUsageError: usageErrorHandler,
				Action:       runEmit,
				ArgsUsage:    "[STYLES_FILE]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: emit.FormatCSS,
						Usage: "output `FORMAT` (supported: " + strings.Join(emit.Formats(), ", ") + ")"},
					&cli.StringFlag{Name: "name", Usage: "component `NAME` for framework snippets"},
				},
			},
			{
				Name:         "serve",
				Usage:        "Serves the conversion tools over MCP on stdio",
				OnUsageError: usageErrorHandler,
				Action:       runServe,
			},
			{
				Name:         "watch",
				Usage:        "Converts the stylesheets under a directory, then again whenever they change",
				OnUsageError: usageErrorHandler,
				Action:       runWatch,
				ArgsUsage:    "[DIR]",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "include", Usage: "glob `PATTERN` of files to watch (repeatable)"},
					&cli.StringSliceFlag{Name: "exclude", Usage: "glob `PATTERN` to ignore (repeatable)"},
					&cli.DurationFlag{Name: "debounce", Usage: "quiet `PERIOD` before a changed file is processed"},
					&cli.StringFlag{Name: "markup", Aliases: []string{"m"}, Usage: "page markup `FILE` used for every conversion"},
					&cli.BoolFlag{Name: "no-verify", Usage: "skip verification against the Tailwind compiler"},
					&cli.BoolFlag{Name: "skip-existing", Usage: "only convert files that change, not the ones already present"},
				},
			},
			{
				Name:   "version",
				Usage:  "Prints version",
				Action: runVersion,
			},
		},
	}

	var err error
	defer func() {
		stop()
		if err != nil {
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}
