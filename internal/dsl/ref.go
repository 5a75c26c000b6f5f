package dsl

import (
	"strings"

	"github.com/archdsl/archdsl/internal/archmodel"
	"github.com/archdsl/archdsl/internal/diag"
	"github.com/archdsl/archdsl/internal/token"
)

// handleRef implements `!ref`: resolve an element by identifier or by a
// "Kind://Canonical Name" expression, and push a frame over it so nested
// lines mutate the referenced element. Resolving by canonical name does not
// itself register a new identifier; an identifier is only assigned when the
// `!ref` line carries an `=` assignment (spec.md §8 S5).
func (p *Parser) handleRef(file string, lineNo int, raw string, pendingID string, args []token.Token) error {
	top := p.stack.top()
	if top == nil || (top.Kind != FrameModel && top.Kind != FrameEnterprise && top.Kind != FrameElement) {
		return p.failf(diag.KindWrongContext, file, lineNo, raw, "`!ref` is not valid here")
	}
	args, brace := splitBrace(args)
	t := texts(args)
	if len(t) == 0 {
		return p.failf(diag.KindUnexpectedTokens, file, lineNo, raw, "`!ref` requires an identifier or canonical name")
	}

	var el *archmodel.Element
	if kind, name, ok := splitCanonicalName(t[0]); ok {
		el = p.findByCanonicalName(kind, name)
	} else {
		el, _ = p.register.GetElement(t[0])
	}
	if el == nil {
		return p.failf(diag.KindReferenceNotFound, file, lineNo, raw, "`!ref` target %q not found", t[0])
	}

	if pendingID != "" {
		parent := p.stack.parentElement()
		if err := p.registerElement(file, lineNo, 0, raw, pendingID, el, parent); err != nil {
			return err
		}
	}

	if brace {
		p.stack.push(&Frame{Kind: FrameElement, Element: el})
	}
	return nil
}

// splitCanonicalName parses "Kind://Name", e.g.
// "SoftwareSystem://Software System 1".
func splitCanonicalName(expr string) (kind, name string, ok bool) {
	idx := strings.Index(expr, "://")
	if idx < 0 {
		return "", "", false
	}
	return expr[:idx], expr[idx+3:], true
}

// findByCanonicalName resolves a "Kind://Name" expression. Container and
// Component targets carry a "/"-separated path rooted at the owning
// SoftwareSystem (e.g. "Container://System/Name",
// "Component://System/Container/Name"), per spec.md §10's supplemented
// canonical-name feature; `group` blocks are transparent to that path, the
// same way they are transparent to identifier resolution elsewhere.
func (p *Parser) findByCanonicalName(kind, name string) *archmodel.Element {
	ws := p.builder.Workspace()
	if ws == nil || ws.Model == nil {
		return nil
	}
	switch strings.ToLower(kind) {
	case "person":
		return findByName(ws.Model.People, name)
	case "softwaresystem":
		return findByName(ws.Model.SoftwareSystems, name)
	case "element":
		return findByName(ws.Model.CustomElements, name)
	case "container":
		segs := strings.SplitN(name, "/", 2)
		if len(segs) != 2 {
			return nil
		}
		system := findByName(ws.Model.SoftwareSystems, segs[0])
		if system == nil {
			return nil
		}
		return findByName(childrenOfKind(system, archmodel.KindContainer), segs[1])
	case "component":
		segs := strings.SplitN(name, "/", 3)
		if len(segs) != 3 {
			return nil
		}
		system := findByName(ws.Model.SoftwareSystems, segs[0])
		if system == nil {
			return nil
		}
		container := findByName(childrenOfKind(system, archmodel.KindContainer), segs[1])
		if container == nil {
			return nil
		}
		return findByName(childrenOfKind(container, archmodel.KindComponent), segs[2])
	default:
		return nil
	}
}

// childrenOfKind collects parent's descendants of the given kind, looking
// through (but not counting) any intervening `group` elements.
func childrenOfKind(parent *archmodel.Element, kind archmodel.ElementKind) []*archmodel.Element {
	var out []*archmodel.Element
	for _, c := range parent.Children {
		if c.Kind == kind {
			out = append(out, c)
		} else if c.Kind == archmodel.KindGroup {
			out = append(out, childrenOfKind(c, kind)...)
		}
	}
	return out
}

func findByName(els []*archmodel.Element, name string) *archmodel.Element {
	for _, el := range els {
		if el.Name == name {
			return el
		}
	}
	return nil
}
