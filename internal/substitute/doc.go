// Package substitute implements the dsl's constant and environment
// substitution (spec.md §4.2): every `${NAME}` occurrence in a token is
// replaced with a constant's value, or (unless restricted) the matching
// environment variable's value, or left untouched when neither is defined.
// Substitution runs once per token and is never applied to its own output.
package substitute
