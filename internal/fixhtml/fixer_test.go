package fixhtml

import (
	"bytes"
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/doxyphp/internal/config"
	"git.home.luguber.info/inful/doxyphp/internal/foundation/errors"
	"git.home.luguber.info/inful/doxyphp/internal/metrics"
)

const prolog = "<?xml version='1.0' encoding='UTF-8' standalone='no'?>\n"

const classPage = prolog + `<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Transitional//EN" "https://www.w3.org/TR/xhtml1/DTD/xhtml1-transitional.dtd">
<html xmlns="http://www.w3.org/1999/xhtml" lang="en-US">
<head>
<meta http-equiv="Content-Type" content="text/xhtml;charset=UTF-8"/>
<title>App::Billing::Invoice Class Reference</title>
</head>
<body>
<div class="contents">
<p>See <a class="el" href="classApp_1_1Billing_1_1Invoice.html">App::Billing::Invoice</a> and <a class="elRef" href="x.html"><b>App</b>::Model</a>.</p>
<map name="m"><area href="a.html" alt="App::Base" shape="rect" coords="0,0,1,1"/></map>
<p><a href="https://php.net/manual/en/function.strlen.php.html">strlen</a> <a href="https://example.com/page.php.html">other</a>&nbsp;</p>
<pre>
  a::b
</pre>
</div>
</body>
</html>
`

const sourcePage = prolog + `<html xmlns="http://www.w3.org/1999/xhtml"><body><a class="el">A::B</a></body></html>
`

type site struct {
	dir string
}

func newSite(t *testing.T, files map[string]string) site {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return site{dir: dir}
}

func (s site) read(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	require.NoError(t, err)
	return string(data)
}

func newTestFixer(t *testing.T, cfg config.FixHTMLConfig, logs *bytes.Buffer) *Fixer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	f, err := New(cfg, logger)
	require.NoError(t, err)
	return f
}

func TestFixer_Run(t *testing.T) {
	s := newSite(t, map[string]string{
		"classInvoice.html":        classPage,
		"Invoice_8php_source.html": sourcePage,
		"search/search.css":        "a::b {}\n",
		"nested/namespaceApp.html": sourcePage,
	})
	var logs bytes.Buffer
	f := newTestFixer(t, config.Default().FixHTML, &logs)

	report, err := f.Run(s.dir)

	require.NoError(t, err)
	assert.Equal(t, 2, report.Count(StatusFixed))
	assert.Equal(t, 2, report.Skipped)
	assert.Empty(t, report.Warnings())
	assert.Equal(t, map[string]int{"a.el": 2, "a.elRef": 1, "area@alt": 1, "href": 1}, report.Rewrites())

	out := s.read(t, "classInvoice.html")
	assert.True(t, strings.HasPrefix(out, prolog+`<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Transitional//EN"`), out)
	assert.Contains(t, out, `<a class="el" href="classApp_1_1Billing_1_1Invoice.html">App\Billing\Invoice</a>`)
	assert.Contains(t, out, `<a class="elRef" href="x.html">App\Model</a>`)
	assert.Contains(t, out, `<area href="a.html" alt="App\Base" shape="rect" coords="0,0,1,1"/>`)
	assert.Contains(t, out, `href="https://php.net/manual/en/function.strlen.php"`)
	assert.Contains(t, out, `href="https://example.com/page.php.html"`)
	assert.Contains(t, out, `<title>App::Billing::Invoice Class Reference</title>`)
	assert.Contains(t, out, "a::b\n</pre>")
	assert.Contains(t, out, `<div class="contents"><p>See `)
	assert.Contains(t, out, "</p><map name=\"m\">")

	assert.Equal(t, sourcePage, s.read(t, "Invoice_8php_source.html"))
	assert.Equal(t, "a::b {}\n", s.read(t, "search/search.css"))
	assert.Contains(t, s.read(t, "nested/namespaceApp.html"), `<a class="el">A\B</a>`)
	assert.Contains(t, logs.String(), `msg="Processed HTML files"`)
}

func TestFixer_KeepsDocumentStructure(t *testing.T) {
	page := prolog + `<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Transitional//EN" "https://www.w3.org/TR/xhtml1/DTD/xhtml1-transitional.dtd">
<html xmlns="http://www.w3.org/1999/xhtml" xml:lang="en"><body>` +
		`<table class="memberdecls"><tr class="heading"><td><h2><a name="nested-classes"></a>Classes</h2></td></tr>` +
		`<tr class="memitem"><td class="memItemLeft">class </td><td class="memItemRight"><a class="el" href="#">Foo::Bar</a></td></tr></table>` +
		`<p>text <div class="fragment">code</div></p>` +
		`<dl><dt>x</dt></dl><br/><img src="x.png" alt=""/><!-- generated --></body></html>
`
	s := newSite(t, map[string]string{"classBar.html": page})

	var logs bytes.Buffer
	report, err := newTestFixer(t, config.Default().FixHTML, &logs).Run(s.dir)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Count(StatusFixed))
	assert.Equal(t, strings.Replace(page, "Foo::Bar", `Foo\Bar`, 1), s.read(t, "classBar.html"))
}

func TestFixer_KeepsDeclaredEncoding(t *testing.T) {
	page := "<?xml version='1.0' encoding='ISO-8859-1'?>\n" +
		`<html xmlns="http://www.w3.org/1999/xhtml"><body><a class="el">Caf` + "\xe9" + `::Menu &rarr;</a></body></html>`
	s := newSite(t, map[string]string{"page.html": page})

	var logs bytes.Buffer
	_, err := newTestFixer(t, config.Default().FixHTML, &logs).Run(s.dir)
	require.NoError(t, err)

	out := s.read(t, "page.html")
	assert.True(t, strings.HasPrefix(out, "<?xml version='1.0' encoding='ISO-8859-1'?>\n"), out)
	assert.Contains(t, out, `<a class="el">Caf`+"\xe9"+`\Menu &#8594;</a>`)
}

func TestFixer_PreserveWhitespace(t *testing.T) {
	s := newSite(t, map[string]string{"page.html": classPage})
	cfg := config.Default().FixHTML
	cfg.PreserveWhitespace = true

	var logs bytes.Buffer
	_, err := newTestFixer(t, cfg, &logs).Run(s.dir)
	require.NoError(t, err)

	out := s.read(t, "page.html")
	assert.Contains(t, out, "<div class=\"contents\">\n<p>See ")
	assert.Contains(t, out, `strlen</a> <a href=`)
}

func TestFixer_ParseErrorDoesNotStopRun(t *testing.T) {
	broken := "<html><body><p>unclosed</body></html>\n"
	s := newSite(t, map[string]string{
		"a_broken.html": broken,
		"b_ok.html":     sourcePage,
	})

	var logs bytes.Buffer
	report, err := newTestFixer(t, config.Default().FixHTML, &logs).Run(s.dir)

	require.NoError(t, err)
	require.Len(t, report.Files, 2)
	assert.Equal(t, StatusParseError, report.Files[0].Status)
	assert.Equal(t, StatusFixed, report.Files[1].Status)
	require.Len(t, report.Warnings(), 1)
	assert.True(t, report.Warnings()[0].IsCategory(errors.CategoryParse))
	assert.False(t, report.Warnings()[0].IsFatal())

	assert.Equal(t, broken, s.read(t, "a_broken.html"))
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "could not parse")
	assert.Contains(t, logs.String(), "status=parse_error")
}

func TestFixer_LenientParsesSloppyMarkup(t *testing.T) {
	soup := `<div xmlns="http://www.w3.org/1999/xhtml"><a class=el>A::B</a><br>x&nbsp;&bogus;</div>` + "\n"
	s := newSite(t, map[string]string{"soup.html": soup})

	var logs bytes.Buffer
	report, err := newTestFixer(t, config.Default().FixHTML, &logs).Run(s.dir)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Count(StatusParseError))

	cfg := config.Default().FixHTML
	cfg.Lenient = true
	report, err = newTestFixer(t, cfg, &logs).Run(s.dir)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Count(StatusFixed))
	assert.Contains(t, s.read(t, "soup.html"), `<a class="el">A\B</a><br/>x`+"\u00a0"+`&amp;bogus;</div>`)
}

func TestFixer_WriteError(t *testing.T) {
	s := newSite(t, map[string]string{"page.html": sourcePage})
	var logs bytes.Buffer
	f := newTestFixer(t, config.Default().FixHTML, &logs)
	f.writeFile = func(string, []byte, os.FileMode) error {
		return stderrors.New("read-only file system")
	}

	report, err := f.Run(s.dir)

	require.NoError(t, err)
	require.Len(t, report.Files, 1)
	res := report.Files[0]
	assert.Equal(t, StatusWriteError, res.Status)
	assert.True(t, res.Err.IsCategory(errors.CategoryWrite))
	assert.Contains(t, res.Err.Error(), "read-only file system")
	assert.Equal(t, sourcePage, s.read(t, "page.html"))
}

func TestFixer_PreservesFileMode(t *testing.T) {
	s := newSite(t, map[string]string{"page.html": sourcePage})
	path := filepath.Join(s.dir, "page.html")
	require.NoError(t, os.Chmod(path, 0o640))

	var logs bytes.Buffer
	_, err := newTestFixer(t, config.Default().FixHTML, &logs).Run(s.dir)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
}

func TestFixer_InvalidDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "index.html")
	require.NoError(t, os.WriteFile(file, []byte(sourcePage), 0o644))

	tests := []struct {
		name string
		dir  string
	}{
		{"empty", ""},
		{"missing", filepath.Join(t.TempDir(), "nope")},
		{"regular file", file},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			report, err := newTestFixer(t, config.Default().FixHTML, &logs).Run(tt.dir)

			require.Error(t, err)
			assert.Nil(t, report)
			assert.True(t, errors.HasCategory(err, errors.CategoryDirectory))
			assert.True(t, errors.HasSeverity(err, errors.SeverityFatal))
			assert.Contains(t, err.Error(), "Invalid directory")
		})
	}
}

func TestFixer_RecordsMetrics(t *testing.T) {
	s := newSite(t, map[string]string{
		"a.html":        classPage,
		"b_source.html": sourcePage,
		"c.html":        "<p>broken\n",
	})
	reg := prom.NewRegistry()

	var logs bytes.Buffer
	f := newTestFixer(t, config.Default().FixHTML, &logs).WithRecorder(metrics.NewPrometheusRecorder(reg))
	_, err := f.Run(s.dir)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "doxyphp.prom")
	require.NoError(t, metrics.WriteTextfile(path, reg))
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, `doxyphp_fixhtml_files_total{status="fixed"} 1`)
	assert.Contains(t, text, `doxyphp_fixhtml_files_total{status="parse_error"} 1`)
	assert.Contains(t, text, `doxyphp_fixhtml_files_total{status="skipped"} 1`)
	assert.Contains(t, text, `doxyphp_fixhtml_rewrites_total{query="a.el"} 1`)
}

func TestNew_InvalidQueries(t *testing.T) {
	cfg := config.Default().FixHTML
	cfg.SeparatorQueries = []config.SeparatorQuery{{Query: "//a["}}

	_, err := New(cfg, nil)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))

	cfg = config.Default().FixHTML
	cfg.LinkQuery = "//svg:a"
	_, err = New(cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid link query")

	cfg = config.Default().FixHTML
	cfg.ManualLinkPattern = "("
	_, err = New(cfg, nil)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}
