package dsl

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/archdsl/archdsl/internal/archmodel"
	"github.com/archdsl/archdsl/internal/diag"
	"github.com/archdsl/archdsl/internal/token"
)

func (p *Parser) handleStyles(file string, lineNo int, raw string, pendingID string, args []token.Token) error {
	top := p.stack.top()
	if top == nil || top.Kind != FrameViews {
		return p.failf(diag.KindWrongContext, file, lineNo, raw, "`styles` is only valid directly inside `views`")
	}
	p.builder.Styles()
	p.stack.push(&Frame{Kind: FrameStyles})
	return nil
}

func (p *Parser) openElementStyle(file string, lineNo int, raw string, args []token.Token) error {
	args, _ = splitBrace(args)
	t := texts(args)
	tag := ""
	if len(t) > 0 {
		tag = t[0]
	}
	es := &archmodel.ElementStyle{Tag: tag, Properties: make(map[string]cty.Value)}
	styles := p.builder.Styles()
	styles.Elements = append(styles.Elements, es)
	p.stack.push(&Frame{Kind: FrameElementStyle, ElementStyle: es})
	return nil
}

func (p *Parser) handleRelationshipStyle(file string, lineNo int, raw string, pendingID string, args []token.Token) error {
	top := p.stack.top()
	if top == nil || top.Kind != FrameStyles {
		return p.failf(diag.KindWrongContext, file, lineNo, raw, "`relationship` is only valid directly inside `styles`")
	}
	args, _ = splitBrace(args)
	t := texts(args)
	tag := ""
	if len(t) > 0 {
		tag = t[0]
	}
	rs := &archmodel.RelationshipStyle{Tag: tag, Properties: make(map[string]cty.Value)}
	styles := p.builder.Styles()
	styles.Relationships = append(styles.Relationships, rs)
	p.stack.push(&Frame{Kind: FrameRelationshipStyle, RelationshipStyle: rs})
	return nil
}

func (p *Parser) handleBranding(file string, lineNo int, raw string, pendingID string, args []token.Token) error {
	top := p.stack.top()
	if top == nil || top.Kind != FrameViews {
		return p.failf(diag.KindWrongContext, file, lineNo, raw, "`branding` is only valid directly inside `views`")
	}
	b := &archmodel.Branding{}
	p.builder.SetBranding(b)
	p.stack.push(&Frame{Kind: FrameBranding, Branding: b})
	return nil
}

func (p *Parser) handleTheme(file string, lineNo int, raw string, pendingID string, args []token.Token) error {
	top := p.stack.top()
	if top == nil || top.Kind != FrameViews {
		return p.failf(diag.KindWrongContext, file, lineNo, raw, "`theme`/`themes` is only valid directly inside `views`")
	}
	if ws := p.builder.Workspace(); ws != nil {
		ws.Views.Themes = append(ws.Views.Themes, texts(args)...)
	}
	return nil
}

func (p *Parser) handleTerminology(file string, lineNo int, raw string, pendingID string, args []token.Token) error {
	top := p.stack.top()
	if top == nil || top.Kind != FrameViews {
		return p.failf(diag.KindWrongContext, file, lineNo, raw, "`terminology` is only valid directly inside `views`")
	}
	term := &archmodel.Terminology{Overrides: make(map[string]string)}
	p.builder.SetTerminology(term)
	p.stack.push(&Frame{Kind: FrameTerminology, Terminology: term})
	return nil
}

func (p *Parser) handleConfiguration(file string, lineNo int, raw string, pendingID string, args []token.Token) error {
	top := p.stack.top()
	if top == nil || top.Kind != FrameWorkspace {
		return p.failf(diag.KindWrongContext, file, lineNo, raw, "`configuration` is only valid directly inside `workspace`")
	}
	cfg := &archmodel.Configuration{}
	p.builder.SetConfiguration(cfg)
	p.stack.push(&Frame{Kind: FrameConfiguration, Configuration: cfg})
	return nil
}

func (p *Parser) handleUsers(file string, lineNo int, raw string, pendingID string, args []token.Token) error {
	top := p.stack.top()
	if top == nil || top.Kind != FrameConfiguration {
		return p.failf(diag.KindWrongContext, file, lineNo, raw, "`users` is only valid directly inside `configuration`")
	}
	p.stack.push(&Frame{Kind: FrameUsers, Configuration: top.Configuration})
	return nil
}

func (p *Parser) handleConfigScope(file string, lineNo int, raw string, pendingID string, args []token.Token) error {
	top := p.stack.top()
	if top == nil || top.Kind != FrameConfiguration {
		return p.failf(diag.KindWrongContext, file, lineNo, raw, "`scope` is only valid directly inside `configuration`")
	}
	t := texts(args)
	if len(t) > 0 {
		top.Configuration.Scope = t[0]
	}
	return nil
}

// setStyleProperty stores a style key/value pair and, for the color-valued
// keys, notifies the listener (spec.md §6, Listener.ParsedColor).
func (p *Parser) setStyleProperty(props map[string]cty.Value, key, value string) {
	props[key] = cty.StringVal(value)
	switch key {
	case "background", "color", "colour", "stroke":
		if p.listener != nil {
			p.listener.ParsedColor(key, value)
		}
	}
}
