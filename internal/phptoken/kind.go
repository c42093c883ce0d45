package phptoken

// Kind represents the category of a PHP source token.
type Kind uint8

const (
	// Char is a single character that PHP reports as a bare string token
	// (punctuation such as ";", "{", "=").
	Char Kind = iota
	// InlineHTML is text outside of PHP tags.
	InlineHTML
	// OpenTag is "<?php" including one trailing whitespace character.
	OpenTag
	// OpenTagEcho is "<?=".
	OpenTagEcho
	// CloseTag is "?>" including one trailing newline.
	CloseTag
	// Whitespace is a run of spaces, tabs and newlines.
	Whitespace
	// Comment is a "//", "#" or "/* */" comment.
	Comment
	// DocComment is a "/** */" documentation comment.
	DocComment
	// Attribute is the "#[" attribute opener.
	Attribute
	// Variable is "$name".
	Variable
	// Name is an identifier, possibly namespace qualified.
	Name
	// Number is an integer or floating point literal.
	Number
	// String is a quoted or backtick string literal.
	String
	// Heredoc is a complete heredoc or nowdoc literal.
	Heredoc
	// Operator is a multi-character operator such as "::" or "=>".
	Operator

	// Namespace is the "namespace" keyword.
	Namespace
	Use
	Class
	Interface
	Trait
	Enum
	Function
	Fn
	Const
	Var
	Public
	Protected
	Private
	Static
	Readonly
	Abstract
	Final
)

var kindNames = [...]string{
	Char:        "char",
	InlineHTML:  "inline_html",
	OpenTag:     "open_tag",
	OpenTagEcho: "open_tag_with_echo",
	CloseTag:    "close_tag",
	Whitespace:  "whitespace",
	Comment:     "comment",
	DocComment:  "doc_comment",
	Attribute:   "attribute",
	Variable:    "variable",
	Name:        "name",
	Number:      "number",
	String:      "string",
	Heredoc:     "heredoc",
	Operator:    "operator",
	Namespace:   "namespace",
	Use:         "use",
	Class:       "class",
	Interface:   "interface",
	Trait:       "trait",
	Enum:        "enum",
	Function:    "function",
	Fn:          "fn",
	Const:       "const",
	Var:         "var",
	Public:      "public",
	Protected:   "protected",
	Private:     "private",
	Static:      "static",
	Readonly:    "readonly",
	Abstract:    "abstract",
	Final:       "final",
}

// String returns the lower-case kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// keywords maps lower-cased identifiers to keyword kinds. PHP keywords are
// case-insensitive. Only keywords the filter cares about get their own kind;
// everything else is a Name.
var keywords = map[string]Kind{
	"namespace": Namespace,
	"use":       Use,
	"class":     Class,
	"interface": Interface,
	"trait":     Trait,
	"enum":      Enum,
	"function":  Function,
	"fn":        Fn,
	"const":     Const,
	"var":       Var,
	"public":    Public,
	"protected": Protected,
	"private":   Private,
	"static":    Static,
	"readonly":  Readonly,
	"abstract":  Abstract,
	"final":     Final,
}

// IsKeyword reports whether k is one of the keyword kinds.
func (k Kind) IsKeyword() bool {
	return k >= Namespace && k <= Final
}
