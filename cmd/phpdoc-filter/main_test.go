package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/doxyphp/internal/cli"
	"git.home.luguber.info/inful/doxyphp/internal/config"
)

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	chdir(t, t.TempDir())
	t.Setenv(config.EnvConfigFile, "")

	var stdout, stderr bytes.Buffer
	code := cli.Main("phpdoc-filter", "", &FilterCmd{}, args, cli.Streams{Stdout: &stdout, Stderr: &stderr})
	return code, stdout.String(), stderr.String()
}

func TestFilterCmd(t *testing.T) {
	src := "<?php\nnamespace App;\n\nclass A\n{\n    /** @var string[] */\n    private $names;\n\n    /** @return \\App\\A|null */\n    public function self() {}\n}\n"
	want := "<?php\nnamespace App;\n\nclass A\n{\n    /** @var string[] $names */\n    private $names;\n\n    /** @retval ::App::A | null */\n    public function self() {}\n}\n"
	path := filepath.Join(t.TempDir(), "A.php")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))

	code, stdout, stderr := run(t, path)

	assert.Equal(t, 0, code)
	assert.Equal(t, want, stdout)
	assert.Empty(t, stderr)
}

func TestFilterCmd_Verbose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "A.php")
	require.NoError(t, os.WriteFile(path, []byte("<?php\necho 1;\n"), 0o600))

	code, stdout, stderr := run(t, "--verbose", path)

	assert.Equal(t, 0, code)
	assert.Equal(t, "<?php\necho 1;\n", stdout)
	assert.Contains(t, stderr, `msg="Filtering file"`)
	assert.Contains(t, stderr, "namespace_separator")
	assert.Contains(t, stderr, `msg="Filtered file"`)
}

func TestFilterCmd_InvalidFile(t *testing.T) {
	code, stdout, stderr := run(t, filepath.Join(t.TempDir(), "missing.php"))

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "invalid filename")
}

func TestFilterCmd_MissingArgument(t *testing.T) {
	code, stdout, stderr := run(t)

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "phpdoc-filter: error:")
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent of testing.T.Chdir, Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
