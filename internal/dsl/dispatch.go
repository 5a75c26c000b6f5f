package dsl

import (
	"strings"

	"github.com/archdsl/archdsl/internal/archmodel"
	"github.com/archdsl/archdsl/internal/diag"
	"github.com/archdsl/archdsl/internal/register"
	"github.com/archdsl/archdsl/internal/substitute"
	"github.com/archdsl/archdsl/internal/token"
)

// processLine runs one source line through the full pipeline: script/comment
// accumulation, tokenisation, substitution, assignment detection, and
// keyword dispatch.
func (p *Parser) processLine(file string, lineNo int, raw string) error {
	trimmed := strings.TrimRight(raw, "\r")

	if top := p.stack.top(); top != nil && top.Kind == FrameInlineScript {
		if strings.TrimSpace(trimmed) == "}" {
			return p.endContext(file, lineNo, trimmed)
		}
		top.ScriptBody.WriteString(raw)
		top.ScriptBody.WriteString("\n")
		return nil
	}

	if top := p.stack.top(); top != nil && top.Kind == FrameComment {
		if strings.HasSuffix(strings.TrimSpace(trimmed), "*/") {
			p.stack.pop()
		}
		return nil
	}

	s := strings.TrimSpace(trimmed)
	if s == "" || strings.HasPrefix(s, "//") || strings.HasPrefix(s, "#") {
		return nil
	}
	if strings.HasPrefix(s, "/*") {
		if !strings.HasSuffix(s, "*/") {
			p.stack.push(&Frame{Kind: FrameComment})
		}
		return nil
	}

	tokens, lexErr := token.Lex(trimmed)
	if lexErr != nil {
		return p.fail(diag.KindUnterminatedString, file, lineNo, trimmed, lexErr.Error())
	}
	if len(tokens) == 0 {
		return nil
	}
	tokens = substitute.Tokens(tokens, p.constants, p.restricted)

	var pendingID string
	if len(tokens) > 3 && tokens[1].Kind == token.Assign {
		pendingID = tokens[0].Text
		if !register.ValidIdentifier(pendingID) {
			return p.failf(diag.KindInvalidIdentifier, file, lineNo, trimmed, "invalid identifier %q: must match \\w+", pendingID)
		}
		tokens = tokens[2:]
	}

	if len(tokens) == 1 && tokens[0].Kind == token.ContextEnd {
		return p.endContext(file, lineNo, trimmed)
	}

	if top := p.stack.top(); len(tokens) == 1 && tokens[0].Kind == token.ContextStart &&
		top != nil && top.Kind == FrameView && top.View.Kind == archmodel.ViewDynamic {
		p.stack.push(&Frame{Kind: FrameParallelSequence, View: top.View})
		return nil
	}

	if !isIncludeDirective(tokens) {
		p.echo.WriteString(raw)
		p.echo.WriteString("\n")
	}

	return p.dispatch(file, lineNo, trimmed, pendingID, tokens)
}

func isIncludeDirective(tokens []token.Token) bool {
	return len(tokens) > 0 && strings.EqualFold(tokens[0].Text, "!include")
}

// endContext pops the top frame, running its end hook exactly once, per
// spec invariant 7. An empty stack is itself a failure.
func (p *Parser) endContext(file string, lineNo int, source string) error {
	if p.stack.empty() {
		return p.fail(diag.KindUnexpectedEndOfContext, file, lineNo, source, "`}` with no open context")
	}
	top := p.stack.pop()
	if err := p.runEndHook(file, lineNo, source, top); err != nil {
		return err
	}
	if p.listener != nil {
		p.listener.ContextEnded(top.Kind)
	}
	return nil
}

// nameValueFrames lists the frame kinds whose body is a sequence of
// `name value` lines rather than keyword-dispatched productions.
var nameValueFrames = map[FrameKind]bool{
	FrameProperties:        true,
	FramePerspectives:      true,
	FrameUsers:             true,
	FrameElementStyle:      true,
	FrameRelationshipStyle: true,
	FrameTerminology:       true,
	FrameBranding:          true,
	FramePlugin:            true,
	FrameAnimation:         true,
}

func (p *Parser) dispatch(file string, lineNo int, raw string, pendingID string, tokens []token.Token) error {
	top := p.stack.top()

	if top != nil && (top.Kind == FrameParallelSequence ||
		(top.Kind == FrameView && top.View.Kind == archmodel.ViewDynamic)) {
		if len(tokens) >= 2 && tokens[1].Kind == token.Arrow {
			top.View.DynamicRelationships = append(top.View.DynamicRelationships, raw)
			return nil
		}
		if tokens[0].Kind == token.Arrow {
			top.View.DynamicRelationships = append(top.View.DynamicRelationships, raw)
			return nil
		}
	}

	if top != nil && nameValueFrames[top.Kind] {
		return p.handleNameValueLine(file, lineNo, raw, top, tokens)
	}

	if len(tokens) >= 2 && tokens[1].Kind == token.Arrow {
		return p.handleExplicitRelationship(file, lineNo, raw, pendingID, tokens)
	}
	if tokens[0].Kind == token.Arrow {
		return p.handleImplicitRelationship(file, lineNo, raw, pendingID, tokens)
	}

	keyword := strings.ToLower(tokens[0].Text)
	args := tokens[1:]

	handler, ok := productions[keyword]
	if !ok {
		return p.failf(diag.KindUnexpectedTokens, file, lineNo, raw, "unexpected tokens: %q", raw)
	}
	return handler(p, file, lineNo, raw, pendingID, args)
}

type production func(p *Parser, file string, lineNo int, raw string, pendingID string, args []token.Token) error

var productions map[string]production

func init() {
	productions = map[string]production{
		"workspace":              (*Parser).handleWorkspace,
		"model":                  (*Parser).handleModel,
		"views":                  (*Parser).handleViews,
		"!identifiers":           (*Parser).handleIdentifiers,
		"!impliedrelationships":  (*Parser).handleImpliedRelationships,
		"impliedrelationships":   (*Parser).handleImpliedRelationships,
		"enterprise":             (*Parser).handleEnterprise,
		"group":                  (*Parser).handleGroup,
		"person":                 (*Parser).handlePerson,
		"softwaresystem":         (*Parser).handleSoftwareSystem,
		"container":              (*Parser).handleContainerOrView,
		"component":              (*Parser).handleComponentOrView,
		"element":                (*Parser).handleElementOrStyle,
		"deploymentenvironment":  (*Parser).handleDeploymentEnvironment,
		"deploymentgroup":        (*Parser).handleDeploymentGroup,
		"deploymentnode":         (*Parser).handleDeploymentNode,
		"infrastructurenode":     (*Parser).handleInfrastructureNode,
		"softwaresysteminstance": (*Parser).handleSoftwareSystemInstance,
		"containerinstance":      (*Parser).handleContainerInstance,
		"healthcheck":            (*Parser).handleHealthCheck,
		"!ref":                   (*Parser).handleRef,
		"tags":                   (*Parser).handleTags,
		"url":                    (*Parser).handleURL,
		"description":            (*Parser).handleDescription,
		"technology":             (*Parser).handleTechnology,
		"properties":             (*Parser).handleProperties,
		"perspectives":           (*Parser).handlePerspectives,
		"name":                   (*Parser).handleName,
		"systemlandscape":        (*Parser).handleViewOpener,
		"systemcontext":          (*Parser).handleViewOpener,
		"customview":             (*Parser).handleViewOpener,
		"dynamic":                (*Parser).handleViewOpener,
		"deployment":             (*Parser).handleViewOpener,
		"filtered":               (*Parser).handleViewOpener,
		"include":                (*Parser).handleInclude,
		"exclude":                (*Parser).handleExclude,
		"autolayout":             (*Parser).handleAutoLayout,
		"animation":              (*Parser).handleAnimation,
		"animationstep":          (*Parser).handleAnimationStep,
		"title":                  (*Parser).handleTitle,
		"styles":                 (*Parser).handleStyles,
		"relationship":           (*Parser).handleRelationshipStyle,
		"branding":               (*Parser).handleBranding,
		"theme":                  (*Parser).handleTheme,
		"themes":                 (*Parser).handleTheme,
		"terminology":            (*Parser).handleTerminology,
		"configuration":          (*Parser).handleConfiguration,
		"users":                  (*Parser).handleUsers,
		"scope":                  (*Parser).handleConfigScope,
		"!docs":                  (*Parser).handleDocs,
		"!adrs":                  (*Parser).handleDocs,
		"!include":               (*Parser).handleIncludeDirective,
		"!constant":              (*Parser).handleConstant,
		"!plugin":                (*Parser).handlePlugin,
		"!script":                (*Parser).handleScript,
	}
}
