// Package token implements the dsl tokeniser (spec.md §4.1): it splits one
// source line into an ordered sequence of Tokens, honouring double-quoted
// strings with \" \n \\ escapes, and treating =, {, }, and -> as standalone
// operator tokens even when not surrounded by whitespace.
package token
