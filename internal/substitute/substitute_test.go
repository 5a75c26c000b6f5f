package substitute

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/archdsl/archdsl/internal/token"
)

func TestApply_ConstantTakesPrecedenceOverEnv(t *testing.T) {
	t.Setenv("NAME", "fromEnv")
	constants := map[string]string{"NAME": "fromConstant"}

	got := Apply("hello ${NAME}", constants, false)
	assert.Equal(t, "hello fromConstant", got)
}

func TestApply_FallsBackToEnvironment(t *testing.T) {
	t.Setenv("HOST", "example.com")

	got := Apply("https://${HOST}/path", nil, false)
	assert.Equal(t, "https://example.com/path", got)
}

func TestApply_RestrictedIgnoresEnvironment(t *testing.T) {
	t.Setenv("HOST", "example.com")

	got := Apply("${HOST}", nil, true)
	assert.Equal(t, "${HOST}", got)
}

func TestApply_UnmatchedNameLeftLiteral(t *testing.T) {
	os.Unsetenv("DOES_NOT_EXIST")

	got := Apply("value=${DOES_NOT_EXIST}", nil, false)
	assert.Equal(t, "value=${DOES_NOT_EXIST}", got)
}

func TestApply_NotRecursive(t *testing.T) {
	constants := map[string]string{"A": "${B}", "B": "final"}

	got := Apply("${A}", constants, false)
	assert.Equal(t, "${B}", got)
}

func TestApply_NoPlaceholders(t *testing.T) {
	got := Apply("plain text", nil, false)
	assert.Equal(t, "plain text", got)
}

func TestTokens_SubstitutesEachTokenText(t *testing.T) {
	toks := []token.Token{
		{Kind: token.Bareword, Text: "${ENV}", Column: 1},
		{Kind: token.String, Text: "literal", Column: 10},
	}
	constants := map[string]string{"ENV": "prod"}

	got := Tokens(toks, constants, false)
	assert.Equal(t, "prod", got[0].Text)
	assert.Equal(t, "literal", got[1].Text)
}
