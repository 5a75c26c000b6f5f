package dsl

import (
	"strings"

	"github.com/archdsl/archdsl/internal/archmodel"
	"github.com/archdsl/archdsl/internal/diag"
	"github.com/archdsl/archdsl/internal/token"
)

func (p *Parser) requireViews(file string, lineNo int, raw, keyword string) (*Frame, error) {
	top := p.stack.top()
	if top == nil || top.Kind != FrameViews {
		return nil, p.failf(diag.KindWrongContext, file, lineNo, raw, "`%s` is only valid directly inside `views`", keyword)
	}
	return top, nil
}

func (p *Parser) finishView(file string, lineNo int, raw string, kind archmodel.ViewKind, scope *archmodel.Element, environment, key, title, desc string, brace bool) error {
	v, err := p.builder.NewView(kind, key, scope, environment, title, desc)
	if err != nil {
		return diag.Wrap(diag.KindExecutionError, file, lineNo, raw, err)
	}
	if p.listener != nil {
		p.listener.ParsedView(v)
	}
	if brace {
		p.stack.push(&Frame{Kind: FrameView, View: v})
	}
	return nil
}

// openView implements the scope-taking view openers (`container`,
// `component`): <scopeIdentifier> <key> [description] [{].
func (p *Parser) openView(file string, lineNo int, raw string, kind archmodel.ViewKind, args []token.Token) error {
	args, brace := splitBrace(args)
	t := texts(args)
	if len(t) < 2 {
		return p.failf(diag.KindUnexpectedTokens, file, lineNo, raw, "view requires a scope identifier and a key")
	}
	scope, ok := p.register.GetElement(t[0])
	if !ok {
		return p.failf(diag.KindReferenceNotFound, file, lineNo, raw, "no element registered with identifier %q", t[0])
	}
	desc := ""
	if len(t) > 2 {
		desc = t[2]
	}
	return p.finishView(file, lineNo, raw, kind, scope, "", t[1], "", desc, brace)
}

func (p *Parser) handleViewOpener(file string, lineNo int, raw string, pendingID string, args []token.Token) error {
	if _, err := p.requireViews(file, lineNo, raw, "view"); err != nil {
		return err
	}
	keyword := strings.ToLower(strings.Fields(raw)[0])
	args, brace := splitBrace(args)
	t := texts(args)

	switch keyword {
	case "systemlandscape", "customview":
		kind := archmodel.ViewSystemLandscape
		if keyword == "customview" {
			kind = archmodel.ViewCustom
		}
		if len(t) == 0 {
			return p.failf(diag.KindUnexpectedTokens, file, lineNo, raw, "view requires a key")
		}
		desc := ""
		if len(t) > 1 {
			desc = t[1]
		}
		return p.finishView(file, lineNo, raw, kind, nil, "", t[0], "", desc, brace)

	case "systemcontext":
		if len(t) < 2 {
			return p.failf(diag.KindUnexpectedTokens, file, lineNo, raw, "`systemContext` requires a scope identifier and a key")
		}
		scope, ok := p.register.GetElement(t[0])
		if !ok {
			return p.failf(diag.KindReferenceNotFound, file, lineNo, raw, "no element registered with identifier %q", t[0])
		}
		desc := ""
		if len(t) > 2 {
			desc = t[2]
		}
		return p.finishView(file, lineNo, raw, archmodel.ViewSystemContext, scope, "", t[1], "", desc, brace)

	case "dynamic":
		if len(t) < 2 {
			return p.failf(diag.KindUnexpectedTokens, file, lineNo, raw, "`dynamic` requires a scope and a key")
		}
		var scope *archmodel.Element
		if t[0] != "*" {
			s, ok := p.register.GetElement(t[0])
			if !ok {
				return p.failf(diag.KindReferenceNotFound, file, lineNo, raw, "no element registered with identifier %q", t[0])
			}
			scope = s
		}
		desc := ""
		if len(t) > 2 {
			desc = t[2]
		}
		return p.finishView(file, lineNo, raw, archmodel.ViewDynamic, scope, "", t[1], "", desc, brace)

	case "deployment":
		if len(t) < 3 {
			return p.failf(diag.KindUnexpectedTokens, file, lineNo, raw, "`deployment` requires a scope, an environment, and a key")
		}
		var scope *archmodel.Element
		if t[0] != "*" {
			s, ok := p.register.GetElement(t[0])
			if !ok {
				return p.failf(diag.KindReferenceNotFound, file, lineNo, raw, "no element registered with identifier %q", t[0])
			}
			scope = s
		}
		desc := ""
		if len(t) > 3 {
			desc = t[3]
		}
		return p.finishView(file, lineNo, raw, archmodel.ViewDeployment, scope, t[1], t[2], "", desc, brace)

	case "filtered":
		if len(t) < 3 {
			return p.failf(diag.KindUnexpectedTokens, file, lineNo, raw, "`filtered` requires a base view key, mode, and tags")
		}
		v, err := p.builder.NewView(archmodel.ViewFiltered, t[0]+"-filtered", nil, "", "", "")
		if err != nil {
			return diag.Wrap(diag.KindExecutionError, file, lineNo, raw, err)
		}
		v.BaseViewKey = t[0]
		v.Mode = strings.ToLower(t[1])
		v.Includes = strings.Split(t[2], ",")
		if p.listener != nil {
			p.listener.ParsedView(v)
		}
		if brace {
			p.stack.push(&Frame{Kind: FrameView, View: v})
		}
		return nil
	}
	return p.failf(diag.KindUnexpectedTokens, file, lineNo, raw, "unknown view opener %q", keyword)
}

func (p *Parser) viewContentFrame(file string, lineNo int, raw, keyword string) (*Frame, error) {
	top := p.stack.top()
	if top == nil || (top.Kind != FrameView && top.Kind != FrameParallelSequence) {
		return nil, p.failf(diag.KindWrongContext, file, lineNo, raw, "`%s` is only valid inside a view", keyword)
	}
	return top, nil
}

// requireQuotedExpressions rejects an include/exclude argument list
// containing a bare `->`: a relationship expression must be given as a
// single quoted string, e.g. `exclude "* -> element.tag==External"`.
func requireQuotedExpressions(args []token.Token) bool {
	for _, a := range args {
		if a.Kind == token.Arrow || a.Kind == token.ContextStart || a.Kind == token.ContextEnd {
			return false
		}
	}
	return true
}

func (p *Parser) handleInclude(file string, lineNo int, raw string, pendingID string, args []token.Token) error {
	top, err := p.viewContentFrame(file, lineNo, raw, "include")
	if err != nil {
		return err
	}
	if !requireQuotedExpressions(args) {
		return p.failf(diag.KindUnexpectedTokens, file, lineNo, raw, "unexpected tokens: %q; quote relationship expressions", raw)
	}
	top.View.Includes = append(top.View.Includes, texts(args)...)
	return nil
}

func (p *Parser) handleExclude(file string, lineNo int, raw string, pendingID string, args []token.Token) error {
	top, err := p.viewContentFrame(file, lineNo, raw, "exclude")
	if err != nil {
		return err
	}
	if !requireQuotedExpressions(args) {
		return p.failf(diag.KindUnexpectedTokens, file, lineNo, raw, "unexpected tokens: %q; quote relationship expressions", raw)
	}
	top.View.Excludes = append(top.View.Excludes, texts(args)...)
	return nil
}

func (p *Parser) handleAutoLayout(file string, lineNo int, raw string, pendingID string, args []token.Token) error {
	top, err := p.viewContentFrame(file, lineNo, raw, "autoLayout")
	if err != nil {
		return err
	}
	t := texts(args)
	al := &archmodel.AutoLayout{Rank: "tb"}
	if len(t) > 0 {
		al.Rank = t[0]
	}
	top.View.AutoLayout = al
	return nil
}

func (p *Parser) handleAnimationStep(file string, lineNo int, raw string, pendingID string, args []token.Token) error {
	top, err := p.viewContentFrame(file, lineNo, raw, "animationStep")
	if err != nil {
		return err
	}
	step := &archmodel.AnimationStep{Elements: texts(args)}
	top.View.Animations = append(top.View.Animations, step)
	return nil
}

func (p *Parser) handleAnimation(file string, lineNo int, raw string, pendingID string, args []token.Token) error {
	top, err := p.viewContentFrame(file, lineNo, raw, "animation")
	if err != nil {
		return err
	}
	p.stack.push(&Frame{Kind: FrameAnimation, View: top.View, Animation: &archmodel.AnimationStep{}})
	return nil
}

func (p *Parser) handleTitle(file string, lineNo int, raw string, pendingID string, args []token.Token) error {
	top, err := p.viewContentFrame(file, lineNo, raw, "title")
	if err != nil {
		return err
	}
	t := texts(args)
	if len(t) > 0 {
		top.View.Title = t[0]
	}
	return nil
}
