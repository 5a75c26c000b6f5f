// Package archmodel defines the format-agnostic architectural workspace the
// dsl parser mutates: people, software systems, containers, components, a
// deployment topology, relationships between them, and a collection of
// views. It owns no parsing logic of its own.
//
// The package is intentionally thin. Per the parser's design, the model is
// an external collaborator: internal/dsl is coded against the narrow
// Builder interface in builder.go, never against *Workspace directly, so a
// persistence-backed or validating implementation can be swapped in without
// touching the parser.
package archmodel
