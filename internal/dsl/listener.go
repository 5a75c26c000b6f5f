package dsl

import "github.com/archdsl/archdsl/internal/archmodel"

// Listener receives best-effort, non-throwing progress callbacks as the
// parser proceeds. A nil *Parser.listener is valid; every call site guards
// on it being set.
type Listener interface {
	ParsedElement(el *archmodel.Element)
	ParsedRelationship(rel *archmodel.Relationship)
	ParsedView(v *archmodel.View)
	ParsedColor(key, value string)
	ContextEnded(kind FrameKind)
}

// NopListener implements Listener with no-op methods, so callers that only
// care about one or two callbacks can embed it and override the rest.
type NopListener struct{}

func (NopListener) ParsedElement(*archmodel.Element)         {}
func (NopListener) ParsedRelationship(*archmodel.Relationship) {}
func (NopListener) ParsedView(*archmodel.View)                {}
func (NopListener) ParsedColor(string, string)                {}
func (NopListener) ContextEnded(FrameKind)                    {}
