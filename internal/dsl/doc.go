// Package dsl is the parser engine: a line-oriented, context-stack-driven
// recogniser that tokenises, substitutes, and dispatches each line of an
// architecture description against the currently active Frame, mutating a
// workspace through the narrow archmodel.Builder interface and publishing
// identifiers to an internal/register.Register.
//
// The design favors a tagged-variant Frame over one subclass per nesting
// level (internal/dag's node/task/scheduler split was the teacher's
// equivalent "many small cooperating types" shape; here it collapses into
// one Frame struct and a single dispatch table keyed by keyword, whose
// handlers check the frame kind), and the per-line pipeline mirrors the teacher's layered loader:
// read -> tokenise -> substitute -> dispatch -> mutate builder, the same
// sequence internal/hcl_adapter ran for HCL blocks, one level lower.
package dsl
