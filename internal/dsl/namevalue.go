package dsl

import (
	"strings"

	"github.com/archdsl/archdsl/internal/archmodel"
	"github.com/archdsl/archdsl/internal/diag"
	"github.com/archdsl/archdsl/internal/token"
)

// handleNameValueLine handles the body of frames whose grammar is a flat
// sequence of `name value` pairs (properties, perspectives, users, style
// blocks, branding, terminology, plugin parameters) rather than
// keyword-dispatched productions.
func (p *Parser) handleNameValueLine(file string, lineNo int, raw string, top *Frame, tokens []token.Token) error {
	t := texts(tokens)
	if len(t) == 0 {
		return p.failf(diag.KindUnexpectedTokens, file, lineNo, raw, "unexpected tokens: %q", raw)
	}
	key := t[0]
	value := ""
	if len(t) > 1 {
		value = t[1]
	}

	switch top.Kind {
	case FrameProperties, FramePerspectives:
		top.Properties[key] = value

	case FrameUsers:
		if top.Configuration != nil {
			top.Configuration.Users = append(top.Configuration.Users, archmodel.User{Username: key, Role: value})
		}

	case FrameElementStyle:
		p.setStyleProperty(top.ElementStyle.Properties, key, value)

	case FrameRelationshipStyle:
		p.setStyleProperty(top.RelationshipStyle.Properties, key, value)

	case FrameTerminology:
		top.Terminology.Overrides[key] = value

	case FrameBranding:
		switch strings.ToLower(key) {
		case "logo":
			top.Branding.Logo = value
		case "font":
			top.Branding.Font = value
		}

	case FramePlugin:
		top.PluginParams[key] = value

	case FrameAnimation:
		switch strings.ToLower(key) {
		case "elements":
			top.Animation.Elements = append(top.Animation.Elements, strings.Split(value, ",")...)
		case "relationships":
			top.Animation.Relationships = append(top.Animation.Relationships, strings.Split(value, ",")...)
		}
	}
	return nil
}
