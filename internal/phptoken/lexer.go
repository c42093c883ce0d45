package phptoken

import "bytes"

// Lexer scans PHP source into tokens.
type Lexer struct {
	src   []byte
	off   int
	line  int
	inPHP bool
	// afterArrow is set after "->" and "?->", where keywords are plain
	// property names.
	afterArrow bool
}

// NewLexer creates a lexer positioned at the start of src, outside PHP tags.
func NewLexer(src []byte) *Lexer {
	return &Lexer{src: src, line: 1}
}

// Tokenize returns every token of src in order.
func Tokenize(src []byte) []Token {
	lx := NewLexer(src)
	tokens := make([]Token, 0, len(src)/4+1)
	for {
		tok, ok := lx.Next()
		if !ok {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

// Next returns the next token. The second result is false at end of input.
func (lx *Lexer) Next() (Token, bool) {
	if lx.eof() {
		return Token{}, false
	}

	start, line := lx.off, lx.line
	var kind Kind
	if lx.inPHP {
		kind = lx.scanPHP()
	} else {
		kind = lx.scanInline()
	}
	if lx.off == start {
		// Guarantees progress on any input.
		lx.off++
		kind = Char
	}

	text := lx.src[start:lx.off]
	if lx.afterArrow && kind.IsKeyword() {
		kind = Name
	}
	switch kind {
	case Whitespace, Comment, DocComment:
	default:
		lx.afterArrow = kind == Operator && (string(text) == "->" || string(text) == "?->")
	}
	lx.line += bytes.Count(text, []byte{'\n'})
	return Token{Kind: kind, Text: string(text), Line: line}, true
}

func (lx *Lexer) eof() bool {
	return lx.off >= len(lx.src)
}

// peek returns the byte at offset n from the current position, or 0.
func (lx *Lexer) peek(n int) byte {
	if lx.off+n >= len(lx.src) {
		return 0
	}
	return lx.src[lx.off+n]
}

func (lx *Lexer) hasPrefix(s string) bool {
	return bytes.HasPrefix(lx.src[lx.off:], []byte(s))
}

// scanInline consumes inline HTML up to the next open tag, or the open tag
// itself when positioned on one.
func (lx *Lexer) scanInline() Kind {
	if n := lx.openTagLen(lx.off); n > 0 {
		isEcho := lx.hasPrefix("<?=")
		lx.off += n
		lx.inPHP = true
		if isEcho {
			return OpenTagEcho
		}
		lx.consumeOneWhitespace()
		return OpenTag
	}

	for i := lx.off + 1; i < len(lx.src); i++ {
		if lx.src[i] == '<' && lx.openTagLen(i) > 0 {
			lx.off = i
			return InlineHTML
		}
	}
	lx.off = len(lx.src)
	return InlineHTML
}

// openTagLen returns the length of an open tag starting at i, or 0.
// Short "<?" tags are not recognised.
func (lx *Lexer) openTagLen(i int) int {
	rest := lx.src[i:]
	if bytes.HasPrefix(rest, []byte("<?=")) {
		return 3
	}
	if len(rest) >= 5 && bytes.EqualFold(rest[:5], []byte("<?php")) {
		if len(rest) == 5 || isSpace(rest[5]) {
			return 5
		}
	}
	return 0
}

// consumeOneWhitespace takes the single whitespace character PHP folds into
// an open tag; "\r\n" counts as one.
func (lx *Lexer) consumeOneWhitespace() {
	switch {
	case lx.hasPrefix("\r\n"):
		lx.off += 2
	case !lx.eof() && isSpace(lx.src[lx.off]):
		lx.off++
	}
}

func (lx *Lexer) scanPHP() Kind {
	c := lx.src[lx.off]
	switch {
	case isSpace(c):
		for !lx.eof() && isSpace(lx.src[lx.off]) {
			lx.off++
		}
		return Whitespace
	case c == '?' && lx.peek(1) == '>':
		lx.off += 2
		if lx.hasPrefix("\r\n") {
			lx.off += 2
		} else if lx.peek(0) == '\n' {
			lx.off++
		}
		lx.inPHP = false
		return CloseTag
	case c == '#' && lx.peek(1) == '[':
		lx.off += 2
		return Attribute
	case c == '#', c == '/' && lx.peek(1) == '/':
		lx.scanLineComment()
		return Comment
	case c == '/' && lx.peek(1) == '*':
		return lx.scanBlockComment()
	case c == '$' && isIdentStart(lx.peek(1)):
		lx.off++
		lx.scanIdent()
		return Variable
	case isIdentStart(c), c == '\\' && isIdentStart(lx.peek(1)):
		return lx.scanName()
	case isDigit(c), c == '.' && isDigit(lx.peek(1)):
		lx.scanNumber()
		return Number
	case c == '\'', c == '"', c == '`':
		lx.scanQuoted(c)
		return String
	case c == '<' && lx.hasPrefix("<<<") && lx.scanHeredoc():
		return Heredoc
	}

	if n := operatorLen(lx.src[lx.off:]); n > 0 {
		lx.off += n
		return Operator
	}
	lx.off++
	return Char
}

// scanLineComment consumes a "//" or "#" comment up to a close tag or
// through the line break ending it.
func (lx *Lexer) scanLineComment() {
	for !lx.eof() {
		c := lx.src[lx.off]
		if c == '\n' {
			lx.off++
			return
		}
		if c == '\r' {
			lx.off++
			if lx.peek(0) == '\n' {
				lx.off++
			}
			return
		}
		if c == '?' && lx.peek(1) == '>' {
			return
		}
		lx.off++
	}
}

func (lx *Lexer) scanBlockComment() Kind {
	kind := Comment
	if lx.peek(2) == '*' && isSpace(lx.peek(3)) {
		kind = DocComment
	}
	end := bytes.Index(lx.src[lx.off+2:], []byte("*/"))
	if end < 0 {
		// an unterminated comment is never a doc comment
		lx.off = len(lx.src)
		return Comment
	}
	lx.off += 2 + end + 2
	return kind
}

func (lx *Lexer) scanIdent() {
	for !lx.eof() && isIdentPart(lx.src[lx.off]) {
		lx.off++
	}
}

// scanName consumes an identifier with optional namespace qualification and
// classifies unqualified keywords.
func (lx *Lexer) scanName() Kind {
	start := lx.off
	qualified := false
	if lx.src[lx.off] == '\\' {
		lx.off++
		qualified = true
	}
	lx.scanIdent()
	for lx.peek(0) == '\\' && isIdentStart(lx.peek(1)) {
		lx.off++
		lx.scanIdent()
		qualified = true
	}
	if qualified {
		return Name
	}
	if kind, ok := keywords[string(bytes.ToLower(lx.src[start:lx.off]))]; ok {
		return kind
	}
	return Name
}

func (lx *Lexer) scanNumber() {
	if lx.peek(0) == '0' && (lx.peek(1)|0x20 == 'x' || lx.peek(1)|0x20 == 'b' || lx.peek(1)|0x20 == 'o') {
		lx.off += 2
		for !lx.eof() && (isHex(lx.src[lx.off]) || lx.src[lx.off] == '_') {
			lx.off++
		}
		return
	}
	lx.scanDigits()
	if lx.peek(0) == '.' && lx.peek(1) != '.' {
		lx.off++
		lx.scanDigits()
	}
	if lx.peek(0)|0x20 == 'e' {
		n := 1
		if lx.peek(1) == '+' || lx.peek(1) == '-' {
			n = 2
		}
		if isDigit(lx.peek(n)) {
			lx.off += n
			lx.scanDigits()
		}
	}
}

func (lx *Lexer) scanDigits() {
	for !lx.eof() && (isDigit(lx.src[lx.off]) || lx.src[lx.off] == '_') {
		lx.off++
	}
}

// scanQuoted consumes a string delimited by quote, honouring backslash
// escapes. Unterminated strings run to end of input.
func (lx *Lexer) scanQuoted(quote byte) {
	lx.off++
	for !lx.eof() {
		c := lx.src[lx.off]
		switch c {
		case '\\':
			lx.off += 2
			if lx.off > len(lx.src) {
				lx.off = len(lx.src)
			}
			continue
		case quote:
			lx.off++
			return
		}
		lx.off++
	}
}

// scanHeredoc consumes a heredoc or nowdoc through its closing identifier.
// It reports false, consuming nothing, when "<<<" does not start one.
func (lx *Lexer) scanHeredoc() bool {
	i := lx.off + 3
	for i < len(lx.src) && (lx.src[i] == ' ' || lx.src[i] == '\t') {
		i++
	}
	var quote byte
	if i < len(lx.src) && (lx.src[i] == '\'' || lx.src[i] == '"') {
		quote = lx.src[i]
		i++
	}
	idStart := i
	if i >= len(lx.src) || !isIdentStart(lx.src[i]) {
		return false
	}
	for i < len(lx.src) && isIdentPart(lx.src[i]) {
		i++
	}
	id := lx.src[idStart:i]
	if quote != 0 {
		if i >= len(lx.src) || lx.src[i] != quote {
			return false
		}
		i++
	}
	switch {
	case bytes.HasPrefix(lx.src[i:], []byte("\r\n")):
		i += 2
	case i < len(lx.src) && lx.src[i] == '\n':
		i++
	default:
		return false
	}

	for i < len(lx.src) {
		j := i
		for j < len(lx.src) && (lx.src[j] == ' ' || lx.src[j] == '\t') {
			j++
		}
		if bytes.HasPrefix(lx.src[j:], id) {
			k := j + len(id)
			if k >= len(lx.src) || !isIdentPart(lx.src[k]) {
				lx.off = k
				return true
			}
		}
		nl := bytes.IndexByte(lx.src[i:], '\n')
		if nl < 0 {
			break
		}
		i += nl + 1
	}
	lx.off = len(lx.src)
	return true
}

var operators3 = []string{"===", "!==", "<=>", "**=", "...", "<<=", ">>=", "??=", "?->"}

var operators2 = []string{
	"::", "->", "=>", "==", "!=", "<>", "<=", ">=", "&&", "||", "??", "++", "--",
	"+=", "-=", "*=", "/=", ".=", "%=", "&=", "|=", "^=", "<<", ">>", "**",
}

// operatorLen returns the length of the longest multi-character operator at
// the start of b, or 0. A lone backslash counts as the namespace separator.
func operatorLen(b []byte) int {
	for _, op := range operators3 {
		if bytes.HasPrefix(b, []byte(op)) {
			return 3
		}
	}
	for _, op := range operators2 {
		if bytes.HasPrefix(b, []byte(op)) {
			return 2
		}
	}
	if len(b) > 0 && b[0] == '\\' {
		return 1
	}
	return 0
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHex(c byte) bool {
	return isDigit(c) || (c|0x20 >= 'a' && c|0x20 <= 'f')
}

// isIdentStart follows PHP's label definition, which accepts any byte >= 0x80.
func isIdentStart(c byte) bool {
	return c == '_' || (c|0x20 >= 'a' && c|0x20 <= 'z') || c >= 0x80
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
