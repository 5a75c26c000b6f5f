package archmodel

import "context"

// Builder is the narrow interface internal/dsl is coded against. It covers
// every structural operation that must keep the workspace's invariants
// (parent/child wiring, enterprise-boundary marking, environment linkage)
// consistent; once an Element, Relationship, or View handle is returned,
// callers mutate its plain exported fields directly — the same split the
// teacher draws between config.Loader (an interface, because format is
// pluggable) and config.Step (a plain struct, because its shape is fixed).
type Builder interface {
	// NewWorkspace creates or re-opens the workspace. extending is true when
	// name/description are seeded from a pre-existing model (the
	// `workspace extends <file>` form); Parser.Extending reports it when
	// that pre-existing model is non-empty.
	NewWorkspace(ctx context.Context, name, description string, extending bool) (*Workspace, error)

	// Workspace returns the workspace under construction, or nil if the
	// `workspace` directive has not yet been seen.
	Workspace() *Workspace

	// NewElement creates a person, software system, container, component,
	// custom element, or group and appends it to the correct collection on
	// parent (nil for a top-level person/system/custom element).
	NewElement(kind ElementKind, parent *Element, name string) (*Element, error)

	// NewDeploymentEnvironment creates (or, on repeated identical names,
	// returns) the named environment pseudo-element.
	NewDeploymentEnvironment(name string) (*Element, error)

	// NewDeploymentGroup records a named deployment group under environment.
	NewDeploymentGroup(environment *Element, name string) error

	// NewInstance creates a SoftwareSystemInstance or ContainerInstance of
	// target, hosted on node.
	NewInstance(kind ElementKind, node *Element, target *Element) (*Element, error)

	// NewRelationship creates a directed relationship and appends it to the
	// model.
	NewRelationship(source, destination *Element, description, technology string, tags []string) (*Relationship, error)

	// CloseEnterprise marks every Person/SoftwareSystem not a descendant of
	// the enterprise as External, per spec.md's Context Frame "end" hook.
	CloseEnterprise()

	// NewView creates a view of the given kind and appends it to Views.
	NewView(kind ViewKind, key string, scope *Element, environment, title, description string) (*View, error)

	// Styles returns the workspace's Styles, creating it on first use.
	Styles() *Styles

	// SetBranding replaces the workspace's branding block.
	SetBranding(b *Branding)

	// SetTerminology replaces the workspace's terminology overrides.
	SetTerminology(t *Terminology)

	// SetConfiguration replaces workspace-level configuration (users, scope).
	SetConfiguration(c *Configuration)
}
