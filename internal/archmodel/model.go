package archmodel

import "github.com/zclconf/go-cty/cty"

// ElementKind discriminates the variants of Element. The parser's context
// stack (internal/dsl) pushes one frame per kind it is currently describing;
// this is the corresponding data-side tag.
type ElementKind int

const (
	KindPerson ElementKind = iota
	KindSoftwareSystem
	KindContainer
	KindComponent
	KindCustomElement
	KindGroup
	KindEnterprise
	KindDeploymentEnvironment
	KindDeploymentNode
	KindInfrastructureNode
	KindSoftwareSystemInstance
	KindContainerInstance
)

// String renders the kind the way it appears in diagnostics and !ref
// canonical-name expressions (e.g. "SoftwareSystem://Name").
func (k ElementKind) String() string {
	switch k {
	case KindPerson:
		return "Person"
	case KindSoftwareSystem:
		return "SoftwareSystem"
	case KindContainer:
		return "Container"
	case KindComponent:
		return "Component"
	case KindCustomElement:
		return "Element"
	case KindGroup:
		return "Group"
	case KindEnterprise:
		return "Enterprise"
	case KindDeploymentEnvironment:
		return "DeploymentEnvironment"
	case KindDeploymentNode:
		return "DeploymentNode"
	case KindInfrastructureNode:
		return "InfrastructureNode"
	case KindSoftwareSystemInstance:
		return "SoftwareSystemInstance"
	case KindContainerInstance:
		return "ContainerInstance"
	default:
		return "Unknown"
	}
}

// Element is the single representation used for every node in the model:
// people, systems, containers, components, custom elements, groups, and the
// deployment topology. Which fields are meaningful is governed by Kind; this
// mirrors the teacher's preference for one plain struct per concern over a
// polymorphic type hierarchy.
type Element struct {
	Kind ElementKind

	// Identifier is the dsl identifier the author assigned (lower-cased), or
	// empty if none was given — in that case the identifier register
	// synthesises a UUID and stores it here once assigned, so the handle
	// remains reachable by name even though it never appeared in an
	// assignment token.
	Identifier string

	Name        string
	Description string
	Technology  string // Container, Component, DeploymentNode, InfrastructureNode
	Tags        []string
	URL         string

	Properties   map[string]cty.Value
	Perspectives map[string]cty.Value

	// Parent is nil for top-level people and software systems. Containers
	// point at their SoftwareSystem, Components at their Container,
	// DeploymentNodes at their parent DeploymentNode or DeploymentEnvironment,
	// instances at the DeploymentNode hosting them.
	Parent   *Element
	Children []*Element

	// Environment is set on DeploymentNode, InfrastructureNode, and instance
	// elements to the owning DeploymentEnvironment — needed independently of
	// Parent because a top-level DeploymentNode's Parent is the environment
	// pseudo-element itself (see register.go's hierarchical key rule).
	Environment *Element

	// Instance points at the SoftwareSystem or Container an instance element
	// represents, for SoftwareSystemInstance / ContainerInstance kinds.
	Instance *Element

	// External is set by the Enterprise frame's end hook on every
	// Person/SoftwareSystem declared outside the enterprise boundary.
	External bool

	// DeploymentGroups lists the named deployment groups an instance element
	// belongs to.
	DeploymentGroups []string

	HealthCheck *HealthCheck
}

// HealthCheck is attached to a SoftwareSystemInstance or ContainerInstance.
type HealthCheck struct {
	Name     string
	URL      string
	Interval int
	Timeout  int
}

// Relationship is a directed edge between two elements.
type Relationship struct {
	Source      *Element
	Destination *Element
	Description string
	Technology  string
	Tags        []string
	Identifier  string

	Properties   map[string]cty.Value
	Perspectives map[string]cty.Value
}

// Model is the collection of people, systems, deployment topology, and
// relationships that make up an architecture description.
type Model struct {
	People          []*Element
	SoftwareSystems []*Element
	CustomElements  []*Element
	Groups          []*Element

	Environments []*Element // KindDeploymentEnvironment

	// DeploymentGroupNames records, per environment identifier, the group
	// names declared with `deploymentGroup` so instances can reference them.
	DeploymentGroupNames map[string][]string

	Relationships []*Relationship

	EnterpriseName string
	HasEnterprise  bool
}

// ViewKind discriminates the kinds of view a workspace can define.
type ViewKind int

const (
	ViewSystemLandscape ViewKind = iota
	ViewSystemContext
	ViewContainer
	ViewComponent
	ViewDynamic
	ViewDeployment
	ViewFiltered
	ViewCustom
)

// AutoLayout captures the parameters of an `autoLayout` directive.
type AutoLayout struct {
	Rank           string
	RankSeparation int
	NodeSeparation int
}

// AnimationStep is one step of a static view's `animation` block, or one
// `animationStep` line.
type AnimationStep struct {
	Elements      []string
	Relationships []string
}

// View is a single diagram specification.
type View struct {
	Kind        ViewKind
	Key         string
	Title       string
	Description string

	// Scope is the SoftwareSystem (SystemContext/Container views), Container
	// (Component views), or nil (SystemLandscape/Dynamic/Custom) the view is
	// drawn from the perspective of.
	Scope *Element

	// Environment names the deployment environment a Deployment view draws.
	Environment string

	Includes []string
	Excludes []string

	AutoLayout *AutoLayout
	Animations []*AnimationStep

	// DynamicRelationships records the ordered relationship expressions of a
	// DynamicView, including nested parallel sequences.
	DynamicRelationships []string

	// BaseViewKey and Mode are set only on a FilteredView: Mode is
	// "include" or "exclude", selecting elements/relationships tagged with
	// the filter's tags from the named base view.
	BaseViewKey string
	Mode        string
}

// ElementStyle is one `element <tagSelector> { ... }` block under Styles.
type ElementStyle struct {
	Tag        string
	Properties map[string]cty.Value
}

// RelationshipStyle is one `relationship <tagSelector> { ... }` block.
type RelationshipStyle struct {
	Tag        string
	Properties map[string]cty.Value
}

// Styles holds every element and relationship style declared under `styles`.
type Styles struct {
	Elements      []*ElementStyle
	Relationships []*RelationshipStyle
}

// Branding holds the `branding` block's logo and font.
type Branding struct {
	Logo string
	Font string
}

// Terminology holds per-entity-kind name overrides, e.g. renaming "Person"
// to "Actor" in rendered diagrams.
type Terminology struct {
	Overrides map[string]string
}

// User is one entry of a `users` block inside `configuration`.
type User struct {
	Username string
	Role     string
}

// Configuration holds workspace-level settings outside the model and views.
type Configuration struct {
	Users []User
	Scope string
}

// Views is the collection of views plus their shared styling and branding.
type Views struct {
	Views       []*View
	Styles      *Styles
	Branding    *Branding
	Terminology *Terminology
	Themes      []string
}

// Workspace is the root container produced by a parse: a Model plus a set
// of Views and workspace-level configuration.
type Workspace struct {
	Name        string
	Description string

	Model *Model
	Views *Views

	Configuration *Configuration

	// DSL is the echoed source text re-attached by the parser on access to
	// getWorkspace (spec.md invariant 1): the concatenation of every accepted
	// line, with !include directives elided and included content appended in
	// their place.
	DSL string
}
