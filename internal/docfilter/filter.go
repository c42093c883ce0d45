package docfilter

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/doxyphp/internal/config"
	"git.home.luguber.info/inful/doxyphp/internal/foundation/errors"
	"git.home.luguber.info/inful/doxyphp/internal/logfields"
	"git.home.luguber.info/inful/doxyphp/internal/phptoken"
)

// Stats summarizes one filter run.
type Stats struct {
	Tokens      int
	DocComments int
	// Rewritten counts doc comments whose text changed.
	Rewritten int
	Warnings  int
}

// Filter streams a PHP file to a writer, rewriting its doc comments.
type Filter struct {
	rewriter *Rewriter
	logger   *slog.Logger
}

// New creates a filter. A nil logger uses slog.Default().
func New(cfg config.FilterConfig, logger *slog.Logger) *Filter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Filter{
		rewriter: NewRewriter(cfg.VarLookahead),
		logger:   logger,
	}
}

// Rewriter returns the comment rewriter used by f.
func (f *Filter) Rewriter() *Rewriter {
	return f.rewriter
}

// Run filters the PHP file at path to w.
func (f *Filter) Run(w io.Writer, path string) (Stats, error) {
	if path == "" {
		return Stats{}, errors.FileError("invalid filename: no file given").Build()
	}

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		b := errors.FileError("invalid filename: "+path).WithContext(logfields.KeyFile, path)
		if err != nil {
			b = b.WithCause(err)
		}
		return Stats{}, b.Build()
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return Stats{}, errors.WrapError(err, errors.CategoryFile, "error reading "+path).
			Fatal().
			WithContext(logfields.KeyFile, path).
			Build()
	}

	return f.Process(w, path, src)
}

// Process filters src, reporting warnings against name.
func (f *Filter) Process(w io.Writer, name string, src []byte) (Stats, error) {
	tokens := phptoken.Tokenize(src)
	out := bufio.NewWriter(w)

	var (
		stats Stats
		state FileState
	)
	stats.Tokens = len(tokens)

	for cur := phptoken.NewCursor(tokens, 0); cur.Index() < cur.Len(); cur.Advance() {
		tok, _ := cur.Current()
		text := tok.Text
		switch tok.Kind {
		case phptoken.Namespace:
			state.HeaderPassed = true
		case phptoken.DocComment:
			stats.DocComments++
			rewritten, warning := f.rewriter.Rewrite(text, state, cur)
			if warning != nil {
				stats.Warnings++
				f.logWarning(name, warning)
			}
			if rewritten != text {
				stats.Rewritten++
			}
			text = rewritten
		}

		if _, err := out.WriteString(text); err != nil {
			return stats, writeError(err, name)
		}
	}

	if err := out.Flush(); err != nil {
		return stats, writeError(err, name)
	}
	return stats, nil
}

func (f *Filter) logWarning(name string, warning *errors.ClassifiedError) {
	attrs := append([]any{logfields.File(name)}, warning.LogAttrs()...)
	f.logger.Log(context.Background(), slog.LevelWarn, warning.Message(), attrs...)
}

func writeError(err error, name string) error {
	return errors.FileSystemError("failed to write filtered output").
		WithCause(err).
		Fatal().
		WithContext(logfields.KeyFile, name).
		Build()
}
