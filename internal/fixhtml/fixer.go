// Package fixhtml post-processes Doxygen's XHTML output for PHP projects.
//
// Doxygen prints PHP namespaces with its own "::" separator and appends
// ".html" to external links. The Fixer walks an output directory and
// restores "\" in link texts and image map titles, and strips the suffix
// from php.net manual links.
package fixhtml

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"git.home.luguber.info/inful/doxyphp/internal/config"
	"git.home.luguber.info/inful/doxyphp/internal/foundation"
	"git.home.luguber.info/inful/doxyphp/internal/foundation/errors"
	"git.home.luguber.info/inful/doxyphp/internal/logfields"
	"git.home.luguber.info/inful/doxyphp/internal/metrics"
)

const (
	doxygenSeparator = "::"
	phpSeparator     = `\`
	// linkQueryName labels manual link rewrites in reports and metrics.
	linkQueryName = "href"
)

type separatorQuery struct {
	name      string
	expr      *xpath.Expr
	attribute string
}

// Fixer rewrites generated HTML files in place.
type Fixer struct {
	cfg        config.FixHTMLConfig
	separators []separatorQuery
	links      *xpath.Expr
	manualLink *regexp.Regexp
	logger     *slog.Logger
	recorder   metrics.Recorder
	writeFile  func(name string, data []byte, perm os.FileMode) error
}

// New compiles the configured queries. A nil logger uses slog.Default().
func New(cfg config.FixHTMLConfig, logger *slog.Logger) (*Fixer, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f := &Fixer{
		cfg:       cfg,
		logger:    logger,
		recorder:  metrics.NoopRecorder{},
		writeFile: os.WriteFile,
	}

	for _, q := range cfg.SeparatorQueries {
		expr, err := xpath.CompileWithNS(q.Query, cfg.Namespaces)
		if err != nil {
			return nil, errors.ConfigError("invalid separator query").
				WithCause(err).
				WithContext(logfields.KeyQuery, q.Query).
				Build()
		}
		f.separators = append(f.separators, separatorQuery{name: queryName(q), expr: expr, attribute: q.Attribute})
	}

	links, err := xpath.CompileWithNS(cfg.LinkQuery, cfg.Namespaces)
	if err != nil {
		return nil, errors.ConfigError("invalid link query").
			WithCause(err).
			WithContext(logfields.KeyQuery, cfg.LinkQuery).
			Build()
	}
	f.links = links

	re, err := regexp.Compile(cfg.ManualLinkPattern)
	if err != nil {
		return nil, errors.ConfigError("invalid manual link pattern").
			WithCause(err).
			Build()
	}
	f.manualLink = re

	return f, nil
}

// WithRecorder sets the metrics recorder.
func (f *Fixer) WithRecorder(r metrics.Recorder) *Fixer {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	f.recorder = r
	return f
}

// Run processes every matching file below dir. Per-file problems are
// logged and collected in the report; only an invalid dir is an error.
func (f *Fixer) Run(dir string) (*Report, error) {
	if dir == "" {
		return nil, errors.DirectoryError("Invalid directory: no directory given").Build()
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		b := errors.DirectoryError("Invalid directory: "+dir).WithContext(logfields.KeyDir, dir)
		if err != nil {
			b = b.WithCause(err)
		}
		return nil, b.Build()
	}

	report := &Report{}
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			f.logger.Warn("Skipping unreadable path", logfields.File(path), logfields.Error(err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !f.wants(path) {
			report.Skipped++
			f.recorder.IncFileResult(metrics.StatusSkipped)
			return nil
		}

		res := report.add(path, f.fixFile(path))
		f.record(res)
		return nil
	})
	if walkErr != nil {
		return report, errors.FileSystemError("failed to walk directory").
			WithCause(walkErr).
			WithContext(logfields.KeyDir, dir).
			Build()
	}

	f.logger.Info("Processed HTML files",
		logfields.Dir(dir),
		logfields.Count(len(report.Files)),
		slog.Int("skipped", report.Skipped),
		slog.Int("warnings", len(report.Warnings())))
	return report, nil
}

// wants reports whether path is a page to fix. Source listings are skipped.
func (f *Fixer) wants(path string) bool {
	return strings.HasSuffix(path, f.cfg.Extension) && !strings.HasSuffix(path, f.cfg.SourceSuffix)
}

func (f *Fixer) fixFile(path string) fileOutcome {
	data, err := os.ReadFile(path)
	if err != nil {
		return foundation.Err[FileResult](parseWarning(path, err))
	}

	doc, err := parseDocument(data, f.cfg.Lenient)
	if err != nil {
		return foundation.Err[FileResult](parseWarning(path, err))
	}
	if el := doc.element(); el != nil && !f.cfg.PreserveWhitespace {
		collapseWhitespace(el)
	}

	rewrites := f.fixSeparators(doc.root)
	if n := f.fixManualLinks(doc.root); n > 0 {
		rewrites[linkQueryName] = n
	}

	out, err := doc.render()
	if err != nil {
		return foundation.Err[FileResult](writeWarning(path, err))
	}
	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}
	if err := f.writeFile(path, out, mode); err != nil {
		return foundation.Err[FileResult](writeWarning(path, err))
	}

	return foundation.Ok[FileResult, *errors.ClassifiedError](FileResult{
		Path:     path,
		Status:   StatusFixed,
		Rewrites: rewrites,
	})
}

// fixSeparators replaces Doxygen's namespace separator in the text or
// attribute of the elements selected by each query. Nodes without a
// separator are left alone so their markup survives.
func (f *Fixer) fixSeparators(root *xmlquery.Node) map[string]int {
	rewrites := make(map[string]int)
	for _, q := range f.separators {
		for _, n := range xmlquery.QuerySelectorAll(root, q.expr) {
			if n.Type != xmlquery.ElementNode {
				continue
			}
			if q.attribute != "" {
				val, ok := getAttr(n, q.attribute)
				if ok && strings.Contains(val, doxygenSeparator) {
					setAttr(n, q.attribute, strings.ReplaceAll(val, doxygenSeparator, phpSeparator))
					rewrites[q.name]++
				}
				continue
			}
			text := n.InnerText()
			if strings.Contains(text, doxygenSeparator) {
				setTextContent(n, strings.ReplaceAll(text, doxygenSeparator, phpSeparator))
				rewrites[q.name]++
			}
		}
	}
	return rewrites
}

// fixManualLinks strips the suffix Doxygen appends to php.net manual links.
func (f *Fixer) fixManualLinks(root *xmlquery.Node) int {
	n := 0
	for _, el := range xmlquery.QuerySelectorAll(root, f.links) {
		if el.Type != xmlquery.ElementNode {
			continue
		}
		href, _ := getAttr(el, "href")
		if !f.manualLink.MatchString(href) {
			continue
		}
		if trimmed := strings.TrimSuffix(href, f.cfg.ManualLinkSuffix); trimmed != href {
			setAttr(el, "href", trimmed)
			n++
		}
	}
	return n
}

func (f *Fixer) record(res FileResult) {
	f.recorder.IncFileResult(metricStatus(res.Status))
	for q, n := range res.Rewrites {
		f.recorder.AddRewrites(q, n)
	}

	if res.Err != nil {
		attrs := append([]any{logfields.Status(string(res.Status))}, res.Err.LogAttrs()...)
		f.logger.Warn(res.Err.Message(), attrs...)
		return
	}
	f.logger.Debug("Fixed file", logfields.File(res.Path), logfields.Rewrites(res.TotalRewrites()))
}

func parseWarning(path string, err error) *errors.ClassifiedError {
	return errors.ParseWarning("could not parse "+path).
		WithCause(err).
		WithContext(logfields.KeyFile, path).
		Build()
}

func writeWarning(path string, err error) *errors.ClassifiedError {
	return errors.WriteWarning("could not write "+path).
		WithCause(err).
		WithContext(logfields.KeyFile, path).
		Build()
}

// queryName labels a query in reports and metrics.
func queryName(q config.SeparatorQuery) string {
	switch {
	case q.Name != "":
		return q.Name
	case q.Attribute == "":
		return q.Query
	default:
		return q.Query + "@" + q.Attribute
	}
}
