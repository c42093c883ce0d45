package docfilter

import (
	"strings"

	"git.home.luguber.info/inful/doxyphp/internal/config"
	"git.home.luguber.info/inful/doxyphp/internal/foundation/errors"
	"git.home.luguber.info/inful/doxyphp/internal/logfields"
	"git.home.luguber.info/inful/doxyphp/internal/phptoken"
)

// FileState tracks per-file context while streaming tokens.
type FileState struct {
	// HeaderPassed is set once the namespace declaration has been seen.
	HeaderPassed bool
}

// Rewriter turns PHPDoc comment text into Doxygen-compatible text.
type Rewriter struct {
	lookahead config.LookaheadConfig
}

// NewRewriter creates a rewriter that searches window for "@var" targets.
func NewRewriter(window config.LookaheadConfig) *Rewriter {
	return &Rewriter{lookahead: window}
}

// RuleNames lists the rules in the order they are applied. Header and member
// rules are mutually exclusive for a given comment.
func (r *Rewriter) RuleNames() []string {
	names := make([]string, 0, len(commonRules)+len(headerRules)+len(memberRules)+2)
	for _, rule := range commonRules {
		names = append(names, rule.Name)
	}
	for _, rule := range headerRules {
		names = append(names, rule.Name)
	}
	names = append(names, "typed_array_var", "var_name")
	for _, rule := range memberRules {
		names = append(names, rule.Name)
	}
	return names
}

// Rewrite returns the rewritten text of the doc comment at cur. When the
// variable documented by a "@var" comment cannot be found, the member rules
// are skipped and a lookup warning is returned alongside.
func (r *Rewriter) Rewrite(text string, state FileState, cur *phptoken.Cursor) (string, *errors.ClassifiedError) {
	text = applyRules(text, commonRules)

	if !state.HeaderPassed {
		return applyRules(text, headerRules), nil
	}

	if strings.Contains(text, "@var") {
		text = rewriteTypedArrayVars(text)

		tok, line, ok := resolveVariable(cur, r.lookahead)
		if !ok {
			b := errors.LookupWarning("Variable not found")
			if line > 0 {
				b = b.WithContext(logfields.KeyLine, line)
			}
			return text, b.Build()
		}
		text = annotateVar(tok.Text).Apply(text)
	}

	return applyRules(text, memberRules), nil
}

func applyRules(text string, rules []Rule) string {
	for _, rule := range rules {
		text = rule.Apply(text)
	}
	return text
}

// resolveVariable scans the lookahead window after the comment at cur for
// the variable it documents. Structured tokens passed over update line, which
// is zero when none were seen.
func resolveVariable(cur *phptoken.Cursor, window config.LookaheadConfig) (phptoken.Token, int, bool) {
	line := 0
	for offset := window.MinOffset; offset <= window.MaxOffset; offset++ {
		tok, ok := cur.Peek(offset)
		if !ok {
			break
		}
		if tok.IsChar() {
			continue
		}
		if tok.Is(phptoken.Variable) {
			return tok, line, true
		}
		line = tok.Line
	}
	return phptoken.Token{}, line, false
}
