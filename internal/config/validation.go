package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/antchfx/xpath"
)

// maxLookahead caps the variable lookahead window.
const maxLookahead = 32

// Validate checks the configuration after defaults have been applied.
func Validate(cfg *Config) error {
	v := configurationValidator{config: cfg}
	return v.validate()
}

// configurationValidator coordinates validation across configuration domains.
type configurationValidator struct {
	config *Config
}

func (cv configurationValidator) validate() error {
	if err := cv.validateFilter(); err != nil {
		return err
	}
	return cv.validateFixHTML()
}

func (cv configurationValidator) validateFilter() error {
	la := cv.config.Filter.VarLookahead
	if la.MinOffset < 1 {
		return fmt.Errorf("filter.var_lookahead.min_offset must be at least 1, got %d", la.MinOffset)
	}
	if la.MaxOffset < la.MinOffset {
		return fmt.Errorf("filter.var_lookahead.max_offset (%d) must not be less than min_offset (%d)", la.MaxOffset, la.MinOffset)
	}
	if la.MaxOffset > maxLookahead {
		return fmt.Errorf("filter.var_lookahead.max_offset must not exceed %d, got %d", maxLookahead, la.MaxOffset)
	}
	return nil
}

func (cv configurationValidator) validateFixHTML() error {
	fx := cv.config.FixHTML
	if strings.TrimSpace(fx.Extension) == "" {
		return fmt.Errorf("fixhtml.extension must not be blank")
	}
	for i, q := range fx.SeparatorQueries {
		if strings.TrimSpace(q.Query) == "" {
			return fmt.Errorf("fixhtml.separator_queries[%d].query must not be empty", i)
		}
		if _, err := xpath.CompileWithNS(q.Query, fx.Namespaces); err != nil {
			return fmt.Errorf("fixhtml.separator_queries[%d].query: %w", i, err)
		}
	}
	if _, err := xpath.CompileWithNS(fx.LinkQuery, fx.Namespaces); err != nil {
		return fmt.Errorf("fixhtml.link_query: %w", err)
	}
	if _, err := regexp.Compile(fx.ManualLinkPattern); err != nil {
		return fmt.Errorf("fixhtml.manual_link_pattern: %w", err)
	}
	return nil
}
