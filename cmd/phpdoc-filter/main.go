// Command phpdoc-filter is a Doxygen INPUT_FILTER for PHP sources. It prints
// the given file with its PHPDoc comments rewritten into Doxygen syntax.
//
// Doxyfile:
//
//	INPUT_FILTER = phpdoc-filter
package main

import (
	"log/slog"
	"os"

	"git.home.luguber.info/inful/doxyphp/internal/cli"
	"git.home.luguber.info/inful/doxyphp/internal/docfilter"
	"git.home.luguber.info/inful/doxyphp/internal/logfields"
)

// FilterCmd is the phpdoc-filter command line.
type FilterCmd struct {
	cli.Globals

	File string `arg:"" help:"PHP source file to filter"`
}

// Run filters the file to standard output.
func (c *FilterCmd) Run(env *cli.Env) error {
	f := docfilter.New(env.Config.Filter, env.Logger)
	env.Logger.Debug("Filtering file",
		logfields.File(c.File),
		slog.Any("rules", f.Rewriter().RuleNames()))

	stats, err := f.Run(env.Stdout, c.File)
	if err != nil {
		return err
	}

	env.Logger.Debug("Filtered file",
		logfields.File(c.File),
		logfields.Count(stats.DocComments),
		logfields.Rewrites(stats.Rewritten),
		slog.Int("warnings", stats.Warnings))
	return nil
}

func main() {
	os.Exit(cli.Main(
		"phpdoc-filter",
		"Rewrite PHPDoc comments of a PHP file for Doxygen and print the result.",
		&FilterCmd{},
		os.Args[1:],
		cli.Streams{Stdout: os.Stdout, Stderr: os.Stderr},
	))
}
