// Command phpdoc-fixhtml post-processes Doxygen's XHTML output for PHP
// projects in place. Source listing pages are left alone.
package main

import (
	"os"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/doxyphp/internal/cli"
	"git.home.luguber.info/inful/doxyphp/internal/fixhtml"
	"git.home.luguber.info/inful/doxyphp/internal/logfields"
	"git.home.luguber.info/inful/doxyphp/internal/metrics"
)

// FixHTMLCmd is the phpdoc-fixhtml command line.
type FixHTMLCmd struct {
	cli.Globals

	MetricsFile string `help:"Write Prometheus metrics to this textfile (overrides fixhtml.metrics_file)" placeholder:"PATH"`
	Dir         string `arg:"" help:"Doxygen HTML output directory"`
}

// Run fixes every page below the directory.
func (c *FixHTMLCmd) Run(env *cli.Env) error {
	cfg := env.Config.FixHTML
	if c.MetricsFile != "" {
		cfg.MetricsFile = c.MetricsFile
	}

	fixer, err := fixhtml.New(cfg, env.Logger)
	if err != nil {
		return err
	}

	var reg *prom.Registry
	if cfg.MetricsFile != "" {
		reg = prom.NewRegistry()
		fixer.WithRecorder(metrics.NewPrometheusRecorder(reg))
	}

	if _, err := fixer.Run(c.Dir); err != nil {
		return err
	}

	if reg != nil {
		if err := metrics.WriteTextfile(cfg.MetricsFile, reg); err != nil {
			env.Logger.Warn("Failed to write metrics file", logfields.File(cfg.MetricsFile), logfields.Error(err))
		} else {
			env.Logger.Debug("Wrote metrics file", logfields.File(cfg.MetricsFile))
		}
	}
	return nil
}

func main() {
	os.Exit(cli.Main(
		"phpdoc-fixhtml",
		"Restore PHP namespace separators and php.net links in Doxygen XHTML output.",
		&FixHTMLCmd{},
		os.Args[1:],
		cli.Streams{Stdout: os.Stdout, Stderr: os.Stderr},
	))
}
