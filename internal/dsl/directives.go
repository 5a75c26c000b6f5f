package dsl

import (
	"os"
	"strings"

	"github.com/archdsl/archdsl/internal/archmodel"
	"github.com/archdsl/archdsl/internal/diag"
	"github.com/archdsl/archdsl/internal/include"
	"github.com/archdsl/archdsl/internal/token"
)

func readFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	return string(b), err
}

func (p *Parser) handleConstant(file string, lineNo int, raw string, pendingID string, args []token.Token) error {
	t := texts(args)
	if len(t) < 2 {
		return p.failf(diag.KindUnexpectedTokens, file, lineNo, raw, "`!constant` requires a name and a value")
	}
	p.constants[t[0]] = t[1]
	return nil
}

func (p *Parser) handleIncludeDirective(file string, lineNo int, raw string, pendingID string, args []token.Token) error {
	t := texts(args)
	if len(t) == 0 {
		return p.failf(diag.KindUnexpectedTokens, file, lineNo, raw, "`!include` requires a path or URL")
	}
	target := t[0]

	if include.IsURL(target) {
		body, err := include.FetchURL(p.ctx, target)
		if err != nil {
			return diag.Wrap(diag.KindHTTPFetchError, file, lineNo, raw, err)
		}
		return p.parseLines(target, strings.Split(body, "\n"))
	}

	if p.restricted {
		return p.failf(diag.KindRestrictedFeature, file, lineNo, raw, "`!include` of a filesystem path is not available in restricted mode")
	}

	resolved := p.resolveIncludePath(target)
	return p.Parse(resolved)
}

func (p *Parser) handleDocs(file string, lineNo int, raw string, pendingID string, args []token.Token) error {
	keyword := strings.ToLower(strings.Fields(raw)[0])
	top := p.stack.top()
	if top == nil || (top.Kind != FrameWorkspace && !(top.Kind == FrameElement && top.Element.Kind == archmodel.KindSoftwareSystem)) {
		return p.failf(diag.KindWrongContext, file, lineNo, raw, "`%s` is not valid here", keyword)
	}
	if p.restricted {
		return p.failf(diag.KindRestrictedFeature, file, lineNo, raw, "`%s` is not available in restricted mode", keyword)
	}
	if p.docsImporter == nil {
		return nil
	}
	t := texts(args)
	target := ""
	if len(t) > 0 {
		target = p.resolveIncludePath(t[0])
	}
	if err := p.docsImporter.Import(p.ctx, keyword, target); err != nil {
		return diag.Wrap(diag.KindExecutionError, file, lineNo, raw, err)
	}
	return nil
}

func (p *Parser) handlePlugin(file string, lineNo int, raw string, pendingID string, args []token.Token) error {
	if p.restricted {
		return p.failf(diag.KindRestrictedFeature, file, lineNo, raw, "`!plugin` is not available in restricted mode")
	}
	args, brace := splitBrace(args)
	t := texts(args)
	if len(t) == 0 {
		return p.failf(diag.KindUnexpectedTokens, file, lineNo, raw, "`!plugin` requires a fully-qualified class name")
	}
	f := &Frame{Kind: FramePlugin, PluginFQCN: t[0], PluginParams: map[string]string{}}
	if brace {
		p.stack.push(f)
		return nil
	}
	return p.runPlugin(file, lineNo, raw, f)
}

func (p *Parser) handleScript(file string, lineNo int, raw string, pendingID string, args []token.Token) error {
	if p.restricted {
		return p.failf(diag.KindRestrictedFeature, file, lineNo, raw, "`!script` is not available in restricted mode")
	}
	args, brace := splitBrace(args)
	t := texts(args)
	if len(t) == 0 {
		return p.failf(diag.KindUnexpectedTokens, file, lineNo, raw, "`!script` requires a language or file path")
	}
	if !brace {
		// `!script <file>` form: the file's contents are the whole body,
		// executed immediately with no inline accumulation.
		body, err := readFile(p.resolveIncludePath(t[0]))
		if err != nil {
			return diag.Wrap(diag.KindIncludeIOError, file, lineNo, raw, err)
		}
		if p.scriptRunner != nil {
			if err := p.scriptRunner.RunScript(p.ctx, "", body); err != nil {
				return diag.Wrap(diag.KindExecutionError, file, lineNo, raw, err)
			}
		}
		return nil
	}
	p.stack.push(&Frame{Kind: FrameInlineScript, ScriptLanguage: t[0], ScriptBody: &strings.Builder{}})
	return nil
}

func (p *Parser) runPlugin(file string, lineNo int, raw string, f *Frame) error {
	if p.pluginRunner == nil {
		return nil
	}
	if err := p.pluginRunner.RunPlugin(p.ctx, f.PluginFQCN, f.PluginParams); err != nil {
		return diag.Wrap(diag.KindExecutionError, file, lineNo, raw, err)
	}
	return nil
}
