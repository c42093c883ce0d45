package config

import (
	"bytes"
	stderrors "errors"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/doxyphp/internal/foundation/errors"
	"git.home.luguber.info/inful/doxyphp/internal/logfields"
)

const (
	// DefaultFileName is looked up in the working directory when no config is given.
	DefaultFileName = ".doxyphp.yaml"
	// EnvConfigFile names an alternative config file.
	EnvConfigFile = "DOXYPHP_CONFIG"
)

// Config represents the application configuration shared by both tools.
type Config struct {
	Filter  FilterConfig  `yaml:"filter"`
	FixHTML FixHTMLConfig `yaml:"fixhtml"`
}

// FilterConfig configures the doc comment filter.
type FilterConfig struct {
	VarLookahead LookaheadConfig `yaml:"var_lookahead"`
}

// LookaheadConfig bounds the token window searched for the variable that a
// "@var" comment documents. Offsets are relative to the comment token and
// count whitespace tokens, so 4 matches "/** */ public $x" and 6 matches
// "/** */ public static $x".
type LookaheadConfig struct {
	MinOffset int `yaml:"min_offset"`
	MaxOffset int `yaml:"max_offset"`
}

// FixHTMLConfig configures the generated HTML post-processor.
type FixHTMLConfig struct {
	Extension    string `yaml:"extension"`     // Processed file suffix
	SourceSuffix string `yaml:"source_suffix"` // Source listing pages, skipped
	// Lenient parses pages with a non-strict XML decoder instead of
	// rejecting malformed ones.
	Lenient bool `yaml:"lenient"`
	// PreserveWhitespace keeps whitespace-only text nodes between elements.
	PreserveWhitespace bool `yaml:"preserve_whitespace"`
	// Namespaces binds the prefixes used in XPath queries.
	Namespaces        map[string]string `yaml:"namespaces"`
	SeparatorQueries  []SeparatorQuery  `yaml:"separator_queries"`
	LinkQuery         string            `yaml:"link_query"`
	ManualLinkPattern string            `yaml:"manual_link_pattern"`
	ManualLinkSuffix  string            `yaml:"manual_link_suffix"`
	MetricsFile       string            `yaml:"metrics_file,omitempty"`
}

// SeparatorQuery selects elements whose text (or Attribute, when set) holds
// Doxygen's "::" namespace separator. Query is an XPath expression.
type SeparatorQuery struct {
	Name      string `yaml:"name,omitempty"` // Report label, defaults to the query
	Query     string `yaml:"query"`
	Attribute string `yaml:"attribute,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Resolve determines which config file to load. An explicit flag wins, then
// the DOXYPHP_CONFIG environment variable, then DefaultFileName when present.
// The second result reports whether the file was requested explicitly.
func Resolve(flag string) (string, bool) {
	if flag != "" {
		return flag, true
	}
	if env := os.Getenv(EnvConfigFile); env != "" {
		return env, true
	}
	if _, err := os.Stat(DefaultFileName); err == nil {
		return DefaultFileName, false
	}
	return "", false
}

// Load reads the configuration selected by flag (see Resolve), falling back to
// defaults when no file is configured.
func Load(flag string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		slog.Debug("No .env file loaded", logfields.Error(err))
	}

	path, explicit := Resolve(flag)
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if explicit || !stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.ConfigError("failed to read config file").
				WithCause(err).
				WithContext(logfields.KeyConfig, path).
				Build()
		}
		return Default(), nil
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.ConfigError("invalid config file").
			WithCause(err).
			WithContext(logfields.KeyConfig, path).
			Build()
	}
	slog.Debug("Loaded configuration", logfields.Config(path))
	return cfg, nil
}

// Parse decodes YAML configuration, expanding environment variables first,
// then applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, err
	}

	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
