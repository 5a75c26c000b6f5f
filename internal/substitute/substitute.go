package substitute

import (
	"os"
	"strings"

	"github.com/archdsl/archdsl/internal/token"
)

// Apply runs substitution over a single token's text and returns the result.
// constants takes precedence over the environment; when restricted is true
// the environment is never consulted (spec.md §6, setRestricted).
func Apply(text string, constants map[string]string, restricted bool) string {
	var out strings.Builder
	i := 0
	for i < len(text) {
		start := strings.Index(text[i:], "${")
		if start == -1 {
			out.WriteString(text[i:])
			break
		}
		start += i
		out.WriteString(text[i:start])

		end := strings.Index(text[start:], "}")
		if end == -1 {
			// No closing brace: emit the rest verbatim, done scanning.
			out.WriteString(text[start:])
			break
		}
		end += start

		name := text[start+2 : end]
		value, ok := constants[name]
		if !ok && !restricted {
			value, ok = os.LookupEnv(name)
		}
		if ok {
			out.WriteString(value)
		} else {
			out.WriteString(text[start : end+1])
		}
		i = end + 1
	}
	return out.String()
}

// Tokens runs Apply over every token's text in place and returns the same
// slice, mutated.
func Tokens(tokens []token.Token, constants map[string]string, restricted bool) []token.Token {
	for i := range tokens {
		tokens[i].Text = Apply(tokens[i].Text, constants, restricted)
	}
	return tokens
}
