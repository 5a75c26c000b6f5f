package dsl

import (
	"strings"

	"github.com/archdsl/archdsl/internal/archmodel"
	"github.com/archdsl/archdsl/internal/diag"
	"github.com/archdsl/archdsl/internal/register"
	"github.com/archdsl/archdsl/internal/token"
)

// nearestNonGroupKind walks up an element's Parent chain to find the kind of
// the nearest ancestor that is not itself a Group or Enterprise anchor, the
// effective "allowed parent frame" a production checks against even when the
// author nested the declaration inside one or more group/enterprise blocks.
func nearestNonGroupKind(el *archmodel.Element) (archmodel.ElementKind, bool) {
	for el != nil {
		if el.Kind != archmodel.KindGroup && el.Kind != archmodel.KindEnterprise {
			return el.Kind, true
		}
		el = el.Parent
	}
	return 0, false
}

func nameDescTech(texts []string) (name, desc, tech string) {
	if len(texts) > 0 {
		name = texts[0]
	}
	if len(texts) > 1 {
		desc = texts[1]
	}
	if len(texts) > 2 {
		tech = texts[2]
	}
	return
}

func tagsArg(texts []string, at int) []string {
	if len(texts) <= at || texts[at] == "" {
		return nil
	}
	return strings.Split(texts[at], ",")
}

// --- workspace / model / views -------------------------------------------

func (p *Parser) handleWorkspace(file string, lineNo int, raw string, pendingID string, args []token.Token) error {
	if !p.stack.empty() {
		return p.failf(diag.KindWrongContext, file, lineNo, raw, "`workspace` must be the first directive")
	}
	args, _ = splitBrace(args)
	t := texts(args)

	name, desc := "", ""
	extending := false
	if len(t) > 0 && strings.EqualFold(t[0], "extends") {
		extending = true
		if len(t) > 1 {
			name = t[1]
		}
	} else {
		if len(t) > 0 {
			name = t[0]
		}
		if len(t) > 1 {
			desc = t[1]
		}
	}

	p.extending = false
	if extending {
		if ws := p.builder.Workspace(); ws != nil && ws.Model != nil {
			m := ws.Model
			p.extending = len(m.People)+len(m.SoftwareSystems)+len(m.CustomElements)+len(m.Environments)+len(m.Relationships) > 0
		}
	}
	if _, err := p.builder.NewWorkspace(p.ctx, name, desc, extending); err != nil {
		return diag.Wrap(diag.KindExecutionError, file, lineNo, raw, err)
	}
	p.stack.push(&Frame{Kind: FrameWorkspace})
	return nil
}

func (p *Parser) handleModel(file string, lineNo int, raw string, pendingID string, args []token.Token) error {
	top := p.stack.top()
	if top == nil || top.Kind != FrameWorkspace {
		return p.failf(diag.KindWrongContext, file, lineNo, raw, "`model` is only valid directly inside `workspace`")
	}
	p.stack.push(&Frame{Kind: FrameModel})
	return nil
}

func (p *Parser) handleViews(file string, lineNo int, raw string, pendingID string, args []token.Token) error {
	top := p.stack.top()
	if top == nil || top.Kind != FrameWorkspace {
		return p.failf(diag.KindWrongContext, file, lineNo, raw, "`views` is only valid directly inside `workspace`")
	}
	p.stack.push(&Frame{Kind: FrameViews})
	return nil
}

func (p *Parser) handleIdentifiers(file string, lineNo int, raw string, pendingID string, args []token.Token) error {
	top := p.stack.top()
	if top == nil || top.Kind != FrameWorkspace {
		return p.failf(diag.KindWrongContext, file, lineNo, raw, "`!identifiers` is only valid directly inside `workspace`")
	}
	t := texts(args)
	if len(t) == 0 {
		return p.failf(diag.KindUnexpectedTokens, file, lineNo, raw, "`!identifiers` requires `flat` or `hierarchical`")
	}
	switch strings.ToLower(t[0]) {
	case "flat":
		p.SetIdentifierScope(register.Flat)
	case "hierarchical":
		p.SetIdentifierScope(register.Hierarchical)
	default:
		return p.failf(diag.KindUnexpectedTokens, file, lineNo, raw, "unknown identifier scope %q", t[0])
	}
	return nil
}

// handleImpliedRelationships accepts both the `!impliedRelationships` and
// legacy `impliedRelationships` spellings anywhere in the document; repeated
// declarations overwrite the prior one (last-wins, per the open question in
// the design notes).
func (p *Parser) handleImpliedRelationships(file string, lineNo int, raw string, pendingID string, args []token.Token) error {
	t := texts(args)
	if len(t) > 0 {
		p.impliedRelationships = t[0]
	}
	return nil
}

// --- enterprise / group ----------------------------------------------------

func (p *Parser) handleEnterprise(file string, lineNo int, raw string, pendingID string, args []token.Token) error {
	top := p.stack.top()
	if top == nil || top.Kind != FrameModel {
		return p.failf(diag.KindWrongContext, file, lineNo, raw, "`enterprise` is only valid directly inside `model`")
	}
	args, _ = splitBrace(args)
	t := texts(args)
	if ws := p.builder.Workspace(); ws != nil && len(t) > 0 {
		ws.Model.EnterpriseName = t[0]
	}
	// anchor is a pure parent marker, not a model member in its own right: it
	// gives every Person/SoftwareSystem declared directly inside a non-nil
	// Parent, the same way CloseEnterprise distinguishes them from the
	// top-level (External) ones by Parent == nil.
	anchor := &archmodel.Element{Kind: archmodel.KindEnterprise}
	p.stack.push(&Frame{Kind: FrameEnterprise, Element: anchor})
	return nil
}

func (p *Parser) handleGroup(file string, lineNo int, raw string, pendingID string, args []token.Token) error {
	top := p.stack.top()
	if top == nil {
		return p.failf(diag.KindWrongContext, file, lineNo, raw, "`group` has no enclosing context")
	}
	switch top.Kind {
	case FrameModel, FrameEnterprise, FrameGroup:
	case FrameElement:
		kind, _ := nearestNonGroupKind(top.Element)
		if kind != archmodel.KindSoftwareSystem && kind != archmodel.KindContainer {
			return p.failf(diag.KindWrongContext, file, lineNo, raw, "`group` is not valid here")
		}
	default:
		return p.failf(diag.KindWrongContext, file, lineNo, raw, "`group` is not valid here")
	}
	if top.GroupActive {
		return p.failf(diag.KindWrongContext, file, lineNo, raw, "a `group` is already active in this context")
	}

	args, _ = splitBrace(args)
	t := texts(args)
	name := ""
	if len(t) > 0 {
		name = t[0]
	}

	parent := p.stack.parentElement()
	el, err := p.builder.NewElement(archmodel.KindGroup, parent, name)
	if err != nil {
		return diag.Wrap(diag.KindExecutionError, file, lineNo, raw, err)
	}
	top.GroupActive = true
	p.stack.push(&Frame{Kind: FrameGroup, Element: el})
	return nil
}

// --- model elements ---------------------------------------------------------

func (p *Parser) handlePerson(file string, lineNo int, raw string, pendingID string, args []token.Token) error {
	top := p.stack.top()
	if top == nil || (top.Kind != FrameModel && top.Kind != FrameEnterprise && top.Kind != FrameGroup) {
		return p.failf(diag.KindWrongContext, file, lineNo, raw, "`person` is not valid here")
	}
	args, brace := splitBrace(args)
	name, desc, _ := nameDescTech(texts(args))

	parent := p.stack.parentElement()
	el, err := p.builder.NewElement(archmodel.KindPerson, parent, name)
	if err != nil {
		return diag.Wrap(diag.KindExecutionError, file, lineNo, raw, err)
	}
	el.Description = desc
	if err := p.registerElement(file, lineNo, 0, raw, pendingID, el, parent); err != nil {
		return err
	}
	if brace {
		p.stack.push(&Frame{Kind: FrameElement, Element: el})
	}
	return nil
}

func (p *Parser) handleSoftwareSystem(file string, lineNo int, raw string, pendingID string, args []token.Token) error {
	top := p.stack.top()
	if top == nil || (top.Kind != FrameModel && top.Kind != FrameEnterprise && top.Kind != FrameGroup) {
		return p.failf(diag.KindWrongContext, file, lineNo, raw, "`softwareSystem` is not valid here")
	}
	args, brace := splitBrace(args)
	name, desc, _ := nameDescTech(texts(args))

	parent := p.stack.parentElement()
	el, err := p.builder.NewElement(archmodel.KindSoftwareSystem, parent, name)
	if err != nil {
		return diag.Wrap(diag.KindExecutionError, file, lineNo, raw, err)
	}
	el.Description = desc
	if err := p.registerElement(file, lineNo, 0, raw, pendingID, el, parent); err != nil {
		return err
	}
	if brace {
		p.stack.push(&Frame{Kind: FrameElement, Element: el})
	}
	return nil
}

// handleContainerOrView implements `container`, which creates a Container
// when nested inside a SoftwareSystem and opens a Container view when used
// directly inside `views` — the same keyword, two productions, gated by the
// top-of-stack frame kind exactly as the production table specifies.
func (p *Parser) handleContainerOrView(file string, lineNo int, raw string, pendingID string, args []token.Token) error {
	top := p.stack.top()
	if top != nil && top.Kind == FrameViews {
		return p.openView(file, lineNo, raw, archmodel.ViewContainer, args)
	}
	if top == nil || top.Kind != FrameElement && top.Kind != FrameGroup {
		return p.failf(diag.KindWrongContext, file, lineNo, raw, "`container` is not valid here")
	}
	parent := p.stack.parentElement()
	if kind, ok := nearestNonGroupKind(parent); !ok || kind != archmodel.KindSoftwareSystem {
		return p.failf(diag.KindWrongContext, file, lineNo, raw, "`container` is only valid inside `softwareSystem`")
	}

	args, brace := splitBrace(args)
	name, desc, tech := nameDescTech(texts(args))
	el, err := p.builder.NewElement(archmodel.KindContainer, parent, name)
	if err != nil {
		return diag.Wrap(diag.KindExecutionError, file, lineNo, raw, err)
	}
	el.Description, el.Technology = desc, tech
	if err := p.registerElement(file, lineNo, 0, raw, pendingID, el, parent); err != nil {
		return err
	}
	if brace {
		p.stack.push(&Frame{Kind: FrameElement, Element: el})
	}
	return nil
}

// handleComponentOrView implements `component`, symmetrically with
// handleContainerOrView.
func (p *Parser) handleComponentOrView(file string, lineNo int, raw string, pendingID string, args []token.Token) error {
	top := p.stack.top()
	if top != nil && top.Kind == FrameViews {
		return p.openView(file, lineNo, raw, archmodel.ViewComponent, args)
	}
	if top == nil || top.Kind != FrameElement && top.Kind != FrameGroup {
		return p.failf(diag.KindWrongContext, file, lineNo, raw, "`component` is not valid here")
	}
	parent := p.stack.parentElement()
	if kind, ok := nearestNonGroupKind(parent); !ok || kind != archmodel.KindContainer {
		return p.failf(diag.KindWrongContext, file, lineNo, raw, "`component` is only valid inside `container`")
	}

	args, brace := splitBrace(args)
	name, desc, tech := nameDescTech(texts(args))
	el, err := p.builder.NewElement(archmodel.KindComponent, parent, name)
	if err != nil {
		return diag.Wrap(diag.KindExecutionError, file, lineNo, raw, err)
	}
	el.Description, el.Technology = desc, tech
	if err := p.registerElement(file, lineNo, 0, raw, pendingID, el, parent); err != nil {
		return err
	}
	if brace {
		p.stack.push(&Frame{Kind: FrameElement, Element: el})
	}
	return nil
}

// handleElementOrStyle implements `element`, which creates a CustomElement
// directly inside `model` and opens an ElementStyle block inside `styles`.
func (p *Parser) handleElementOrStyle(file string, lineNo int, raw string, pendingID string, args []token.Token) error {
	top := p.stack.top()
	if top != nil && top.Kind == FrameStyles {
		return p.openElementStyle(file, lineNo, raw, args)
	}
	if top == nil || top.Kind != FrameModel {
		return p.failf(diag.KindWrongContext, file, lineNo, raw, "`element` is not valid here")
	}
	args, brace := splitBrace(args)
	name, desc, _ := nameDescTech(texts(args))

	el, err := p.builder.NewElement(archmodel.KindCustomElement, nil, name)
	if err != nil {
		return diag.Wrap(diag.KindExecutionError, file, lineNo, raw, err)
	}
	el.Description = desc
	if err := p.registerElement(file, lineNo, 0, raw, pendingID, el, nil); err != nil {
		return err
	}
	if brace {
		p.stack.push(&Frame{Kind: FrameElement, Element: el})
	}
	return nil
}

// --- deployment topology -----------------------------------------------------

func (p *Parser) handleDeploymentEnvironment(file string, lineNo int, raw string, pendingID string, args []token.Token) error {
	top := p.stack.top()
	if top == nil || top.Kind != FrameModel {
		return p.failf(diag.KindWrongContext, file, lineNo, raw, "`deploymentEnvironment` is only valid directly inside `model`")
	}
	args, _ = splitBrace(args)
	t := texts(args)
	name := ""
	if len(t) > 0 {
		name = t[0]
	}
	env, err := p.builder.NewDeploymentEnvironment(name)
	if err != nil {
		return diag.Wrap(diag.KindExecutionError, file, lineNo, raw, err)
	}
	if err := p.registerElement(file, lineNo, 0, raw, pendingID, env, nil); err != nil {
		return err
	}
	p.stack.push(&Frame{Kind: FrameElement, Element: env})
	return nil
}

func (p *Parser) handleDeploymentGroup(file string, lineNo int, raw string, pendingID string, args []token.Token) error {
	top := p.stack.top()
	if top == nil || top.Kind != FrameElement || top.Element.Kind != archmodel.KindDeploymentEnvironment {
		return p.failf(diag.KindWrongContext, file, lineNo, raw, "`deploymentGroup` is only valid directly inside `deploymentEnvironment`")
	}
	t := texts(args)
	if len(t) == 0 {
		return p.failf(diag.KindUnexpectedTokens, file, lineNo, raw, "`deploymentGroup` requires a name")
	}
	if err := p.builder.NewDeploymentGroup(top.Element, t[0]); err != nil {
		return diag.Wrap(diag.KindExecutionError, file, lineNo, raw, err)
	}
	return nil
}

func (p *Parser) handleDeploymentNode(file string, lineNo int, raw string, pendingID string, args []token.Token) error {
	top := p.stack.top()
	if top == nil || top.Kind != FrameElement ||
		(top.Element.Kind != archmodel.KindDeploymentEnvironment && top.Element.Kind != archmodel.KindDeploymentNode) {
		return p.failf(diag.KindWrongContext, file, lineNo, raw, "`deploymentNode` is only valid inside `deploymentEnvironment` or another `deploymentNode`")
	}
	parent := top.Element
	args, brace := splitBrace(args)
	name, desc, tech := nameDescTech(texts(args))

	el, err := p.builder.NewElement(archmodel.KindDeploymentNode, parent, name)
	if err != nil {
		return diag.Wrap(diag.KindExecutionError, file, lineNo, raw, err)
	}
	el.Description, el.Technology = desc, tech
	if err := p.registerElement(file, lineNo, 0, raw, pendingID, el, parent); err != nil {
		return err
	}
	if brace {
		p.stack.push(&Frame{Kind: FrameElement, Element: el})
	}
	return nil
}

func (p *Parser) handleInfrastructureNode(file string, lineNo int, raw string, pendingID string, args []token.Token) error {
	top := p.stack.top()
	if top == nil || top.Kind != FrameElement || top.Element.Kind != archmodel.KindDeploymentNode {
		return p.failf(diag.KindWrongContext, file, lineNo, raw, "`infrastructureNode` is only valid inside `deploymentNode`")
	}
	parent := top.Element
	args, brace := splitBrace(args)
	name, desc, tech := nameDescTech(texts(args))

	el, err := p.builder.NewElement(archmodel.KindInfrastructureNode, parent, name)
	if err != nil {
		return diag.Wrap(diag.KindExecutionError, file, lineNo, raw, err)
	}
	el.Description, el.Technology = desc, tech
	if err := p.registerElement(file, lineNo, 0, raw, pendingID, el, parent); err != nil {
		return err
	}
	if brace {
		p.stack.push(&Frame{Kind: FrameElement, Element: el})
	}
	return nil
}

func (p *Parser) handleSoftwareSystemInstance(file string, lineNo int, raw string, pendingID string, args []token.Token) error {
	return p.handleInstance(file, lineNo, raw, pendingID, args, archmodel.KindSoftwareSystemInstance)
}

func (p *Parser) handleContainerInstance(file string, lineNo int, raw string, pendingID string, args []token.Token) error {
	return p.handleInstance(file, lineNo, raw, pendingID, args, archmodel.KindContainerInstance)
}

func (p *Parser) handleInstance(file string, lineNo int, raw string, pendingID string, args []token.Token, kind archmodel.ElementKind) error {
	top := p.stack.top()
	if top == nil || top.Kind != FrameElement || top.Element.Kind != archmodel.KindDeploymentNode {
		return p.failf(diag.KindWrongContext, file, lineNo, raw, "instance elements are only valid inside `deploymentNode`")
	}
	node := top.Element
	args, brace := splitBrace(args)
	t := texts(args)
	if len(t) == 0 {
		return p.failf(diag.KindUnexpectedTokens, file, lineNo, raw, "instance requires a target identifier")
	}
	target, ok := p.register.GetElement(t[0])
	if !ok {
		return p.failf(diag.KindReferenceNotFound, file, lineNo, raw, "no element registered with identifier %q", t[0])
	}
	el, err := p.builder.NewInstance(kind, node, target)
	if err != nil {
		return diag.Wrap(diag.KindExecutionError, file, lineNo, raw, err)
	}
	if len(t) > 1 {
		el.DeploymentGroups = strings.Split(t[1], ",")
	}
	if err := p.registerElement(file, lineNo, 0, raw, pendingID, el, node); err != nil {
		return err
	}
	if brace {
		p.stack.push(&Frame{Kind: FrameElement, Element: el})
	}
	return nil
}

func (p *Parser) handleHealthCheck(file string, lineNo int, raw string, pendingID string, args []token.Token) error {
	top := p.stack.top()
	if top == nil || top.Kind != FrameElement ||
		(top.Element.Kind != archmodel.KindSoftwareSystemInstance && top.Element.Kind != archmodel.KindContainerInstance) {
		return p.failf(diag.KindWrongContext, file, lineNo, raw, "`healthCheck` is only valid inside an instance element")
	}
	t := texts(args)
	hc := &archmodel.HealthCheck{}
	if len(t) > 0 {
		hc.Name = t[0]
	}
	if len(t) > 1 {
		hc.URL = t[1]
	}
	top.Element.HealthCheck = hc
	return nil
}

// --- relationships ------------------------------------------------------

func (p *Parser) handleExplicitRelationship(file string, lineNo int, raw string, pendingID string, tokens []token.Token) error {
	srcID := tokens[0].Text
	rest, brace := splitBrace(tokens[2:])
	t := texts(rest)

	src, ok := p.register.GetElement(srcID)
	if !ok {
		return p.failf(diag.KindReferenceNotFound, file, lineNo, raw, "no element registered with identifier %q", srcID)
	}
	return p.createRelationship(file, lineNo, raw, pendingID, src, t, brace)
}

func (p *Parser) handleImplicitRelationship(file string, lineNo int, raw string, pendingID string, tokens []token.Token) error {
	src := p.stack.parentElement()
	if src == nil {
		return p.failf(diag.KindWrongContext, file, lineNo, raw, "implicit relationship has no enclosing element")
	}
	rest, brace := splitBrace(tokens[1:])
	t := texts(rest)
	return p.createRelationship(file, lineNo, raw, pendingID, src, t, brace)
}

func (p *Parser) createRelationship(file string, lineNo int, raw string, pendingID string, src *archmodel.Element, t []string, brace bool) error {
	if len(t) == 0 {
		return p.failf(diag.KindUnexpectedTokens, file, lineNo, raw, "relationship requires a destination identifier")
	}
	dst, ok := p.register.GetElement(t[0])
	if !ok {
		return p.failf(diag.KindReferenceNotFound, file, lineNo, raw, "no element registered with identifier %q", t[0])
	}
	desc, tech := "", ""
	if len(t) > 1 {
		desc = t[1]
	}
	if len(t) > 2 {
		tech = t[2]
	}
	rel, err := p.builder.NewRelationship(src, dst, desc, tech, tagsArg(t, 3))
	if err != nil {
		return diag.Wrap(diag.KindExecutionError, file, lineNo, raw, err)
	}
	if err := p.registerRelationship(file, lineNo, raw, pendingID, rel); err != nil {
		return err
	}
	if brace {
		p.stack.push(&Frame{Kind: FrameRelationship, Relationship: rel})
	}
	return nil
}

// --- model item properties -------------------------------------------------

func currentTaggable(top *Frame) (*[]string, *string, *string, *string) {
	if top.Element != nil {
		return &top.Element.Tags, &top.Element.URL, &top.Element.Description, &top.Element.Technology
	}
	if top.Relationship != nil {
		return &top.Relationship.Tags, nil, &top.Relationship.Description, &top.Relationship.Technology
	}
	return nil, nil, nil, nil
}

func (p *Parser) handleTags(file string, lineNo int, raw string, pendingID string, args []token.Token) error {
	top := p.stack.top()
	if top == nil || (top.Kind != FrameElement && top.Kind != FrameRelationship) {
		return p.failf(diag.KindWrongContext, file, lineNo, raw, "`tags` is not valid here")
	}
	tags, _, _, _ := currentTaggable(top)
	for _, a := range texts(args) {
		*tags = append(*tags, strings.Split(a, ",")...)
	}
	return nil
}

func (p *Parser) handleURL(file string, lineNo int, raw string, pendingID string, args []token.Token) error {
	top := p.stack.top()
	if top == nil || top.Kind != FrameElement {
		return p.failf(diag.KindWrongContext, file, lineNo, raw, "`url` is not valid here")
	}
	t := texts(args)
	if len(t) > 0 {
		top.Element.URL = t[0]
	}
	return nil
}

func (p *Parser) handleDescription(file string, lineNo int, raw string, pendingID string, args []token.Token) error {
	top := p.stack.top()
	if top == nil {
		return p.failf(diag.KindWrongContext, file, lineNo, raw, "`description` is not valid here")
	}
	t := texts(args)
	value := ""
	if len(t) > 0 {
		value = t[0]
	}
	switch {
	case top.Kind == FrameWorkspace:
		if ws := p.builder.Workspace(); ws != nil {
			ws.Description = value
		}
	case top.Kind == FrameElement:
		top.Element.Description = value
	case top.Kind == FrameRelationship:
		top.Relationship.Description = value
	case top.Kind == FrameView:
		top.View.Description = value
	default:
		return p.failf(diag.KindWrongContext, file, lineNo, raw, "`description` is not valid here")
	}
	return nil
}

func (p *Parser) handleName(file string, lineNo int, raw string, pendingID string, args []token.Token) error {
	top := p.stack.top()
	if top == nil || top.Kind != FrameWorkspace {
		return p.failf(diag.KindWrongContext, file, lineNo, raw, "`name` is only valid directly inside `workspace`")
	}
	t := texts(args)
	if ws := p.builder.Workspace(); ws != nil && len(t) > 0 {
		ws.Name = t[0]
	}
	return nil
}

func (p *Parser) handleTechnology(file string, lineNo int, raw string, pendingID string, args []token.Token) error {
	top := p.stack.top()
	if top == nil || (top.Kind != FrameElement && top.Kind != FrameRelationship) {
		return p.failf(diag.KindWrongContext, file, lineNo, raw, "`technology` is not valid here")
	}
	_, _, _, tech := currentTaggable(top)
	t := texts(args)
	if tech != nil && len(t) > 0 {
		*tech = t[0]
	}
	return nil
}

func (p *Parser) handleProperties(file string, lineNo int, raw string, pendingID string, args []token.Token) error {
	top := p.stack.top()
	if top == nil || (top.Kind != FrameElement && top.Kind != FrameRelationship) {
		return p.failf(diag.KindWrongContext, file, lineNo, raw, "`properties` is not valid here")
	}
	p.stack.push(&Frame{Kind: FrameProperties, Properties: map[string]string{}})
	return nil
}

func (p *Parser) handlePerspectives(file string, lineNo int, raw string, pendingID string, args []token.Token) error {
	top := p.stack.top()
	if top == nil || (top.Kind != FrameElement && top.Kind != FrameRelationship) {
		return p.failf(diag.KindWrongContext, file, lineNo, raw, "`perspectives` is not valid here")
	}
	p.stack.push(&Frame{Kind: FramePerspectives, Properties: map[string]string{}})
	return nil
}
