package phptoken

// Cursor is a read-only position in a token sequence with bounded lookahead.
type Cursor struct {
	tokens []Token
	index  int
}

// NewCursor returns a cursor positioned at index.
func NewCursor(tokens []Token, index int) *Cursor {
	return &Cursor{tokens: tokens, index: index}
}

// Index returns the cursor position.
func (c *Cursor) Index() int {
	return c.index
}

// Current returns the token at the cursor position.
func (c *Cursor) Current() (Token, bool) {
	return c.Peek(0)
}

// Peek returns the token offset positions away from the cursor. The second
// result is false when that position is outside the sequence.
func (c *Cursor) Peek(offset int) (Token, bool) {
	i := c.index + offset
	if i < 0 || i >= len(c.tokens) {
		return Token{}, false
	}
	return c.tokens[i], true
}

// Advance moves the cursor forward by one token and reports whether it is
// still inside the sequence.
func (c *Cursor) Advance() bool {
	if c.index < len(c.tokens) {
		c.index++
	}
	return c.index < len(c.tokens)
}

// Len returns the number of tokens in the underlying sequence.
func (c *Cursor) Len() int {
	return len(c.tokens)
}
