package archmodel

import (
	"context"
	"fmt"
)

// InMemoryBuilder is the reference, non-persistent implementation of
// Builder. It is what dsl.New constructs its Parser with;
// a caller wanting persistence or additional validation can supply its own
// Builder instead.
type InMemoryBuilder struct {
	ws *Workspace
}

// NewInMemoryBuilder returns an empty builder with no workspace yet.
func NewInMemoryBuilder() *InMemoryBuilder {
	return &InMemoryBuilder{}
}

func (b *InMemoryBuilder) NewWorkspace(_ context.Context, name, description string, extending bool) (*Workspace, error) {
	if b.ws != nil && !extending {
		return nil, fmt.Errorf("workspace already created")
	}
	if b.ws == nil {
		b.ws = &Workspace{
			Model: &Model{DeploymentGroupNames: make(map[string][]string)},
			Views: &Views{},
		}
	}
	if name != "" {
		b.ws.Name = name
	}
	if description != "" {
		b.ws.Description = description
	}
	return b.ws, nil
}

func (b *InMemoryBuilder) Workspace() *Workspace {
	return b.ws
}

func (b *InMemoryBuilder) NewElement(kind ElementKind, parent *Element, name string) (*Element, error) {
	el := &Element{Kind: kind, Name: name, Parent: parent}
	if parent != nil {
		parent.Children = append(parent.Children, el)
		if parent.Environment != nil {
			el.Environment = parent.Environment
		}
	}

	model := b.ws.Model
	switch kind {
	case KindPerson, KindSoftwareSystem:
		if parent == nil || parent.Kind == KindGroup || parent.Kind == KindEnterprise {
			if kind == KindPerson {
				model.People = append(model.People, el)
			} else {
				model.SoftwareSystems = append(model.SoftwareSystems, el)
			}
		}
	case KindCustomElement:
		model.CustomElements = append(model.CustomElements, el)
	case KindGroup:
		model.Groups = append(model.Groups, el)
	case KindDeploymentNode, KindInfrastructureNode:
		// Reachable only through their parent's Children; nothing further
		// to register at the model level.
	case KindContainer, KindComponent:
		// Reachable only through their parent's Children.
	default:
		return nil, fmt.Errorf("archmodel: NewElement called with unsupported kind %s", kind)
	}
	return el, nil
}

func (b *InMemoryBuilder) NewDeploymentEnvironment(name string) (*Element, error) {
	for _, env := range b.ws.Model.Environments {
		if env.Name == name {
			return env, nil
		}
	}
	env := &Element{Kind: KindDeploymentEnvironment, Name: name}
	env.Environment = env
	b.ws.Model.Environments = append(b.ws.Model.Environments, env)
	return env, nil
}

func (b *InMemoryBuilder) NewDeploymentGroup(environment *Element, name string) error {
	key := environment.Identifier
	if key == "" {
		key = environment.Name
	}
	names := b.ws.Model.DeploymentGroupNames[key]
	for _, n := range names {
		if n == name {
			return fmt.Errorf("deployment group %q already declared in environment %q", name, environment.Name)
		}
	}
	b.ws.Model.DeploymentGroupNames[key] = append(names, name)
	return nil
}

func (b *InMemoryBuilder) NewInstance(kind ElementKind, node *Element, target *Element) (*Element, error) {
	if kind != KindSoftwareSystemInstance && kind != KindContainerInstance {
		return nil, fmt.Errorf("archmodel: NewInstance called with non-instance kind %s", kind)
	}
	el := &Element{
		Kind:        kind,
		Name:        target.Name,
		Parent:      node,
		Instance:    target,
		Environment: node.Environment,
	}
	node.Children = append(node.Children, el)
	return el, nil
}

func (b *InMemoryBuilder) NewRelationship(source, destination *Element, description, technology string, tags []string) (*Relationship, error) {
	if source == nil || destination == nil {
		return nil, fmt.Errorf("archmodel: relationship requires both a source and a destination element")
	}
	rel := &Relationship{
		Source:      source,
		Destination: destination,
		Description: description,
		Technology:  technology,
		Tags:        tags,
	}
	b.ws.Model.Relationships = append(b.ws.Model.Relationships, rel)
	return rel, nil
}

func (b *InMemoryBuilder) CloseEnterprise() {
	b.ws.Model.HasEnterprise = true
	markExternal := func(el *Element) {
		p := el.Parent
		for p != nil && p.Kind == KindGroup {
			p = p.Parent
		}
		if p == nil {
			el.External = true
		}
	}
	for _, p := range b.ws.Model.People {
		markExternal(p)
	}
	for _, s := range b.ws.Model.SoftwareSystems {
		markExternal(s)
	}
}

func (b *InMemoryBuilder) NewView(kind ViewKind, key string, scope *Element, environment, title, description string) (*View, error) {
	v := &View{
		Kind:        kind,
		Key:         key,
		Scope:       scope,
		Environment: environment,
		Title:       title,
		Description: description,
	}
	b.ws.Views.Views = append(b.ws.Views.Views, v)
	return v, nil
}

func (b *InMemoryBuilder) Styles() *Styles {
	if b.ws.Views.Styles == nil {
		b.ws.Views.Styles = &Styles{}
	}
	return b.ws.Views.Styles
}

func (b *InMemoryBuilder) SetBranding(br *Branding) {
	b.ws.Views.Branding = br
}

func (b *InMemoryBuilder) SetTerminology(t *Terminology) {
	b.ws.Views.Terminology = t
}

func (b *InMemoryBuilder) SetConfiguration(c *Configuration) {
	b.ws.Configuration = c
}
