package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLex_Barewords(t *testing.T) {
	toks, err := Lex("softwareSystem s {")
	require.NoError(t, err)
	require.Len(t, toks, 3)
	assert.Equal(t, Token{Kind: Bareword, Text: "softwareSystem", Column: 1}, toks[0])
	assert.Equal(t, Token{Kind: Bareword, Text: "s", Column: 16}, toks[1])
	assert.Equal(t, Token{Kind: ContextStart, Text: "{", Column: 18}, toks[2])
}

func TestLex_QuotedString(t *testing.T) {
	toks, err := Lex(`u = person "User" "A description with \"quotes\" and \\ and a\nbreak"`)
	require.NoError(t, err)
	require.Len(t, toks, 5)
	assert.Equal(t, "User", toks[3].Text)
	assert.Equal(t, "A description with \"quotes\" and \\ and a\nbreak", toks[4].Text)
}

func TestLex_UnspacedOperators(t *testing.T) {
	toks, err := Lex(`u->s`)
	require.NoError(t, err)
	require.Len(t, toks, 3)
	assert.Equal(t, "u", toks[0].Text)
	assert.Equal(t, Arrow, toks[1].Kind)
	assert.Equal(t, "s", toks[2].Text)
}

func TestLex_ConstantNameCharset(t *testing.T) {
	toks, err := Lex(`!constant my-const.v1 "value"`)
	require.NoError(t, err)
	require.Len(t, toks, 3)
	assert.Equal(t, "my-const.v1", toks[1].Text)
}

func TestLex_UnterminatedString(t *testing.T) {
	_, err := Lex(`softwareSystem "unterminated`)
	require.Error(t, err)
	var lexErr *Error
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, 16, lexErr.Column)
}

func TestLex_EmptyAndWhitespaceOnly(t *testing.T) {
	toks, err := Lex("")
	require.NoError(t, err)
	assert.Empty(t, toks)

	toks, err = Lex("   \t  ")
	require.NoError(t, err)
	assert.Empty(t, toks)
}

func TestLex_AssignmentShape(t *testing.T) {
	toks, err := Lex(`ss = softwareSystem "S"`)
	require.NoError(t, err)
	require.Len(t, toks, 4)
	assert.Equal(t, Assign, toks[1].Kind)
}
