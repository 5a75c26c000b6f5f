package dsl

import (
	"github.com/archdsl/archdsl/internal/archmodel"
	"github.com/archdsl/archdsl/internal/diag"
	"github.com/archdsl/archdsl/internal/token"
)

// splitBrace reports whether args ends in a `{` context-start token, and
// returns args with that token removed.
func splitBrace(args []token.Token) ([]token.Token, bool) {
	if len(args) > 0 && args[len(args)-1].Kind == token.ContextStart {
		return args[:len(args)-1], true
	}
	return args, false
}

// texts returns the Text of every token, in order, for positional argument
// parsing (name, description, technology, tags...).
func texts(args []token.Token) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = a.Text
	}
	return out
}

func (p *Parser) registerElement(file string, lineNo, col int, raw string, pendingID string, el *archmodel.Element, parent *archmodel.Element) error {
	key, err := p.register.RegisterElement(pendingID, el, parent)
	if err != nil {
		return p.wrapRegisterErr(file, lineNo, raw, err)
	}
	el.Identifier = key
	if p.listener != nil {
		p.listener.ParsedElement(el)
	}
	return nil
}

func (p *Parser) registerRelationship(file string, lineNo int, raw string, pendingID string, rel *archmodel.Relationship) error {
	key, err := p.register.RegisterRelationship(pendingID, rel)
	if err != nil {
		return p.wrapRegisterErr(file, lineNo, raw, err)
	}
	rel.Identifier = key
	if p.listener != nil {
		p.listener.ParsedRelationship(rel)
	}
	return nil
}

func (p *Parser) wrapRegisterErr(file string, lineNo int, raw string, err error) error {
	kind := diag.KindIdentifierInUse
	// register.go uses a specific phrase for the same-element-twice case;
	// surface it under the more specific diagnostic kind the spec names.
	if msg := err.Error(); len(msg) > 0 {
		if containsAny(msg, "already has identifier") {
			kind = diag.KindElementAlreadyHasIdentifier
		} else if containsAny(msg, "invalid identifier") {
			kind = diag.KindInvalidIdentifier
		}
	}
	return diag.Wrap(kind, file, lineNo, raw, err)
}

func containsAny(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
