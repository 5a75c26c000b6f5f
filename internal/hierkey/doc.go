// Package hierkey builds and parses the dotted-path keys used by the
// identifier register when the parser is running in Hierarchical identifier
// scope (spec.md §3, Identifier Scope).
//
// A hierarchical key is the identifiers of an element's ancestors joined
// with '.', e.g. "ss.web.controller" for a Component "controller" inside
// Container "web" inside SoftwareSystem "ss". For a top-level
// DeploymentNode, the owning DeploymentEnvironment's identifier is
// prepended in place of an element parent (spec.md §4.4, §9).
package hierkey
