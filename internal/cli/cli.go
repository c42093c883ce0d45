// Package cli holds the flag handling and process wiring shared by the
// phpdoc-filter and phpdoc-fixhtml commands.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"git.home.luguber.info/inful/doxyphp/internal/config"
	"git.home.luguber.info/inful/doxyphp/internal/foundation/errors"
	"git.home.luguber.info/inful/doxyphp/internal/logfields"
	"git.home.luguber.info/inful/doxyphp/internal/version"
)

// Globals are the flags every tool accepts.
type Globals struct {
	Config  string           `short:"c" help:"Configuration file path (defaults to $DOXYPHP_CONFIG, then .doxyphp.yaml)"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`
}

// Flags returns g; embedding Globals gives a command its Flags method.
func (g *Globals) Flags() *Globals {
	return g
}

// Env is handed to a command once flags, logging and configuration are set up.
type Env struct {
	Config *config.Config
	Logger *slog.Logger
	Stdout io.Writer
}

// Command is the root flag struct of a tool.
type Command interface {
	Flags() *Globals
	Run(env *Env) error
}

// Streams are the process output streams.
type Streams struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewLogger returns a text logger on w tagged with a fresh run id.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return logger.With(logfields.RunID(uuid.NewString()))
}

// Main parses args into cmd, loads the configuration and runs the command.
// It returns the process exit code.
func Main(name, description string, cmd Command, args []string, streams Streams) int {
	exitCode := -1
	parser, err := kong.New(cmd,
		kong.Name(name),
		kong.Description(description),
		kong.Vars{"version": version.String()},
		kong.Writers(streams.Stdout, streams.Stderr),
		kong.Exit(func(code int) {
			if exitCode < 0 {
				exitCode = code
			}
		}),
	)
	if err != nil {
		_, _ = fmt.Fprintf(streams.Stderr, "%s: %v\n", name, err)
		return 1
	}

	_, err = parser.Parse(args)
	if exitCode >= 0 {
		// --help or --version
		return exitCode
	}
	if err != nil {
		_, _ = fmt.Fprintf(streams.Stderr, "%s: error: %v\n", name, err)
		return 1
	}

	globals := cmd.Flags()
	logger := NewLogger(streams.Stderr, globals.Verbose).With(logfields.Command(name))
	slog.SetDefault(logger)
	adapter := errors.NewCLIErrorAdapter(globals.Verbose, logger).WithOutput(streams.Stderr)

	cfg, err := config.Load(globals.Config)
	if err != nil {
		return adapter.Report(err)
	}

	start := time.Now()
	err = cmd.Run(&Env{Config: cfg, Logger: logger, Stdout: streams.Stdout})
	logger.Debug("Command finished",
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000),
		logfields.Error(err))
	return adapter.Report(err)
}
