package phptoken

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCursor_PeekIsBounded(t *testing.T) {
	tokens := Tokenize([]byte("<?php $a;"))
	c := NewCursor(tokens, 1)

	cur, ok := c.Current()
	assert.True(t, ok)
	assert.Equal(t, "$a", cur.Text)

	next, ok := c.Peek(1)
	assert.True(t, ok)
	assert.Equal(t, ";", next.Text)
	assert.True(t, next.IsChar())

	_, ok = c.Peek(2)
	assert.False(t, ok)
	_, ok = c.Peek(-2)
	assert.False(t, ok)

	prev, ok := c.Peek(-1)
	assert.True(t, ok)
	assert.True(t, prev.Is(OpenTag))
}

func TestCursor_Advance(t *testing.T) {
	c := NewCursor(Tokenize([]byte("<?php $a;")), 0)

	assert.True(t, c.Advance())
	assert.True(t, c.Advance())
	assert.Equal(t, 2, c.Index())
	assert.False(t, c.Advance())
	assert.False(t, c.Advance())
	assert.Equal(t, 3, c.Len())
}
