package docfilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/doxyphp/internal/config"
	"git.home.luguber.info/inful/doxyphp/internal/foundation/errors"
	"git.home.luguber.info/inful/doxyphp/internal/phptoken"
)

var defaultWindow = config.LookaheadConfig{MinOffset: 4, MaxOffset: 6}

// docCursor tokenizes src and returns a cursor on its first doc comment.
func docCursor(t *testing.T, src string) (string, *phptoken.Cursor) {
	t.Helper()
	tokens := phptoken.Tokenize([]byte(src))
	for i, tok := range tokens {
		if tok.Is(phptoken.DocComment) {
			return tok.Text, phptoken.NewCursor(tokens, i)
		}
	}
	require.FailNow(t, "no doc comment in source")
	return "", nil
}

func TestRewriter_HeaderComment(t *testing.T) {
	src := "<?php\n/**\n * Package header.\n * @license MIT\n * @internal keep\n */\nnamespace App;\n"
	text, cur := docCursor(t, src)

	got, warning := NewRewriter(defaultWindow).Rewrite(text, FileState{}, cur)

	assert.Nil(t, warning)
	assert.Equal(t, "/** @file\n * Package header.\n * @copyright MIT\n * @internal keep\n */", got)
}

func TestRewriter_MemberVar(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "public property",
			src:  "<?php\nclass A {\n    /** @var int */\n    public $count;\n}\n",
			want: "/** @var int $count */",
		},
		{
			name: "public static property",
			src:  "<?php\nclass A {\n    /**\n     * The items.\n     * @var Item[]\n     */\n    public static $items = [];\n}\n",
			want: "/**\n     * Item[ ] The items.\n     * @var array $items\n     */",
		},
		{
			name: "namespace separators in type",
			src:  "<?php\nclass A {\n    /** @var \\App\\Model */\n    protected $model;\n}\n",
			want: "/** @var ::App::Model $model */",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, cur := docCursor(t, tt.src)
			got, warning := NewRewriter(defaultWindow).Rewrite(text, FileState{HeaderPassed: true}, cur)
			assert.Nil(t, warning)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRewriter_VariableNotFound(t *testing.T) {
	src := "<?php\n/** @var int {@inheritdoc} */\nfunction f() {}\n"
	text, cur := docCursor(t, src)

	got, warning := NewRewriter(defaultWindow).Rewrite(text, FileState{HeaderPassed: true}, cur)

	require.NotNil(t, warning)
	assert.True(t, warning.IsCategory(errors.CategoryLookup))
	assert.False(t, warning.IsFatal())
	assert.Equal(t, "Variable not found", warning.Message())
	line, ok := warning.Context().Get("line")
	require.True(t, ok)
	assert.Equal(t, 3, line)
	// Member rules are skipped for this comment.
	assert.Equal(t, "/** @var int {@inheritdoc} */", got)
}

func TestRewriter_VariableNotFoundKeepsMemberCommands(t *testing.T) {
	src := "<?php\nnamespace A;\n\n/**\n * @var int\n * @param Item[] $items\n * @internal x\n * @return string[]\n */\nfunction f() {}\n"
	text, cur := docCursor(t, src)

	got, warning := NewRewriter(defaultWindow).Rewrite(text, FileState{HeaderPassed: true}, cur)

	require.NotNil(t, warning)
	assert.Equal(t, text, got)
	assert.Contains(t, got, "@internal x")
	assert.Contains(t, got, "@return string[]")
}

func TestRewriter_VariableNotFoundStillRewritesTypedArrays(t *testing.T) {
	src := "<?php\n/**\n * @var Item[]\n * @internal x\n */\nfunction f() {}\n"
	text, cur := docCursor(t, src)

	got, warning := NewRewriter(defaultWindow).Rewrite(text, FileState{HeaderPassed: true}, cur)

	require.NotNil(t, warning)
	assert.NotContains(t, got, "Item[]")
	assert.Contains(t, got, "@var array")
	assert.Contains(t, got, "@internal x")
}

func TestRewriter_WindowIsConfigurable(t *testing.T) {
	src := "<?php\nclass A {\n    /** @var int */\n    public static $n;\n}\n"

	text, cur := docCursor(t, src)
	_, warning := NewRewriter(config.LookaheadConfig{MinOffset: 4, MaxOffset: 4}).
		Rewrite(text, FileState{HeaderPassed: true}, cur)
	require.NotNil(t, warning)

	text, cur = docCursor(t, src)
	got, warning := NewRewriter(config.LookaheadConfig{MinOffset: 1, MaxOffset: 8}).
		Rewrite(text, FileState{HeaderPassed: true}, cur)
	assert.Nil(t, warning)
	assert.Equal(t, "/** @var int $n */", got)
}

func TestRewriter_MemberRulesOrder(t *testing.T) {
	src := "<?php\nclass A {\n" +
		"    /**\n" +
		"     * Loads {@link items}.\n" +
		"     * See {@link https://example.com/api the API}.\n" +
		"     * @param Item[] $items\n" +
		"     * @internal\n" +
		"     * @return Item[]|null\n" +
		"     */\n" +
		"    public function load(array $items) {}\n}\n"
	text, cur := docCursor(t, src)

	got, warning := NewRewriter(defaultWindow).Rewrite(text, FileState{HeaderPassed: true}, cur)

	assert.Nil(t, warning)
	assert.Equal(t, "/**\n"+
		"     * Loads {@link $items}.\n"+
		"     * See <a href=\"https://example.com/api\">the API</a>.\n"+
		"     * @param array $items Item[ ]\n"+
		"     * @private\n"+
		"     * @retval array | null Item[] | null\n"+
		"     */", got)
}

func TestRewriter_RuleNames(t *testing.T) {
	names := NewRewriter(defaultWindow).RuleNames()

	assert.Equal(t, []string{
		"namespace_separator", "property_link", "inline_url_link", "block_url_link",
		"file_command", "license",
		"typed_array_var", "var_name",
		"typed_array_param", "internal", "property", "property_read", "return", "inheritdoc",
	}, names)
}

func TestResolveVariable(t *testing.T) {
	tokens := phptoken.Tokenize([]byte("<?php\n/** x */\nfoo();\n"))
	// Find the doc comment.
	idx := -1
	for i, tok := range tokens {
		if tok.Is(phptoken.DocComment) {
			idx = i
		}
	}
	require.GreaterOrEqual(t, idx, 0)

	_, line, ok := resolveVariable(phptoken.NewCursor(tokens, idx), config.LookaheadConfig{MinOffset: 4, MaxOffset: 40})
	assert.False(t, ok)
	assert.Equal(t, 3, line)
}
