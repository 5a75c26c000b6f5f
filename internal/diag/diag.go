// Package diag implements the dsl's error reporting (spec.md §4.6, §7):
// every failure carries a source file, a 1-based line number, and the raw
// source line text. Provenance types are borrowed directly from
// github.com/hashicorp/hcl/v2 — hcl.Pos and hcl.Diagnostic — the same types
// the teacher repo threads through its own "diags.HasErrors()" /
// "fmt.Errorf(...: %w, diags)" idiom, so a caller already familiar with that
// shape gets file+line+source-line provenance and a pretty-printer for free.
package diag

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
)

// Kind enumerates the error kinds of spec.md §7. Every Error carries one.
type Kind int

const (
	KindFileNotFound Kind = iota
	KindUnexpectedTokens
	KindUnterminatedString
	KindInvalidIdentifier
	KindIdentifierInUse
	KindElementAlreadyHasIdentifier
	KindWrongContext
	KindUnexpectedEndOfContext
	KindReferenceNotFound
	KindRestrictedFeature
	KindIncludeCycle
	KindIncludeIOError
	KindHTTPFetchError
	KindExecutionError
)

var kindNames = map[Kind]string{
	KindFileNotFound:                "file not found",
	KindUnexpectedTokens:            "unexpected tokens",
	KindUnterminatedString:          "unterminated string literal",
	KindInvalidIdentifier:           "invalid identifier",
	KindIdentifierInUse:             "identifier already in use",
	KindElementAlreadyHasIdentifier: "element already has identifier",
	KindWrongContext:                "wrong context",
	KindUnexpectedEndOfContext:      "unexpected end of context",
	KindReferenceNotFound:           "reference not found",
	KindRestrictedFeature:           "restricted feature",
	KindIncludeCycle:                "include cycle",
	KindIncludeIOError:              "include I/O error",
	KindHTTPFetchError:              "HTTP fetch error",
	KindExecutionError:              "plugin/script execution error",
}

// String renders the kind's human name, used as an hcl.Diagnostic Summary.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown error"
}

// Error is a single parser failure with full provenance. Its Diagnostic
// method renders it as an hcl.Diagnostic so callers who already know how to
// print HCL diagnostics (the teacher's own idiom) can print ours identically.
type Error struct {
	Kind Kind
	File string
	Line int
	// Source is the raw, unmodified text of the offending line.
	Source string
	// Detail is the specific, human-readable explanation of this occurrence.
	Detail string
	// Cause is the underlying error, if this Error wraps one raised by
	// handler code (spec.md §4.6: "the original error class name is used
	// when no message exists").
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s\n  --> %s:%d\n  | %s", e.Kind, e.Detail, e.File, e.Line, e.Source)
}

func (e *Error) Unwrap() error { return e.Cause }

// Diagnostic renders e as an hcl.Diagnostic, whose Subject range points at
// the offending line.
func (e *Error) Diagnostic() *hcl.Diagnostic {
	pos := hcl.Pos{Line: e.Line, Column: 1}
	rng := &hcl.Range{
		Filename: e.File,
		Start:    pos,
		End:      hcl.Pos{Line: e.Line, Column: len(e.Source) + 1},
	}
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  e.Kind.String(),
		Detail:   e.Detail,
		Subject:  rng,
	}
}

// New builds an Error with the given kind, provenance, and detail message.
func New(kind Kind, file string, line int, source, detail string) *Error {
	return &Error{Kind: kind, File: file, Line: line, Source: source, Detail: detail}
}

// Wrap builds an Error around an underlying cause. When cause carries no
// message of its own, the kind's name is used instead, per spec.md §4.6.
func Wrap(kind Kind, file string, line int, source string, cause error) *Error {
	detail := cause.Error()
	if detail == "" {
		detail = kind.String()
	}
	return &Error{Kind: kind, File: file, Line: line, Source: source, Detail: detail, Cause: cause}
}

// Diagnostics collects zero or more Errors into an hcl.Diagnostics value,
// for callers that want the batch-pretty-printing behavior of hcl.Diagnostics.
func Diagnostics(errs ...*Error) hcl.Diagnostics {
	var diags hcl.Diagnostics
	for _, e := range errs {
		diags = append(diags, e.Diagnostic())
	}
	return diags
}
