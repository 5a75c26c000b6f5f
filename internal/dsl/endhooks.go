package dsl

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/archdsl/archdsl/internal/diag"
)

// runEndHook is invoked exactly once per popped frame (spec invariant 7),
// the single match-expression stand-in the design notes call for in place of
// a per-subclass virtual destructor.
func (p *Parser) runEndHook(file string, lineNo int, raw string, f *Frame) error {
	switch f.Kind {
	case FrameEnterprise:
		p.builder.CloseEnterprise()

	case FrameGroup:
		if enclosing := p.stack.top(); enclosing != nil {
			enclosing.GroupActive = false
		}

	case FrameProperties:
		p.mergeProperties(f.Properties, false)

	case FramePerspectives:
		p.mergeProperties(f.Properties, true)

	case FrameAnimation:
		if f.View != nil && f.Animation != nil {
			f.View.Animations = append(f.View.Animations, f.Animation)
		}

	case FrameInlineScript:
		if p.scriptRunner != nil {
			if err := p.scriptRunner.RunScript(p.ctx, f.ScriptLanguage, f.ScriptBody.String()); err != nil {
				return diag.Wrap(diag.KindExecutionError, file, lineNo, raw, err)
			}
		}

	case FramePlugin:
		return p.runPlugin(file, lineNo, raw, f)
	}
	return nil
}

func (p *Parser) mergeProperties(values map[string]string, perspectives bool) {
	top := p.stack.top()
	if top == nil {
		return
	}
	var target *map[string]cty.Value
	switch {
	case top.Element != nil && perspectives:
		target = &top.Element.Perspectives
	case top.Element != nil:
		target = &top.Element.Properties
	case top.Relationship != nil && perspectives:
		target = &top.Relationship.Perspectives
	case top.Relationship != nil:
		target = &top.Relationship.Properties
	default:
		return
	}
	if *target == nil {
		*target = make(map[string]cty.Value)
	}
	for k, v := range values {
		(*target)[k] = cty.StringVal(v)
	}
}
