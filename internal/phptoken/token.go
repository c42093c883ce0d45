// Package phptoken splits PHP source into the token stream PHP's own
// tokenizer would report, close enough for doc comment filtering.
//
// Tokens partition the input: concatenating every Token.Text reproduces the
// source byte for byte, including inline HTML, whitespace and malformed tails.
package phptoken

// Token is a single lexical token.
type Token struct {
	Kind Kind
	Text string
	// Line is the 1-based line the token starts on.
	Line int
}

// IsChar reports whether the token is a bare single-character token. PHP
// reports these without a line number.
func (t Token) IsChar() bool {
	return t.Kind == Char
}

// Is reports whether the token has kind k.
func (t Token) Is(k Kind) bool {
	return t.Kind == k
}
