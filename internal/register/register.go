// Package register implements the parser's identifier register (spec.md
// §3, §4.4): two disjoint identifier->entity mappings, case-insensitive
// lookup, synthetic UUIDs for unnamed entities, and hierarchical key
// composition. Its map-of-named-entries shape is adapted from the teacher's
// internal/registry package, which keys handler and definition maps by a
// plain string name; here the keys are user identifiers instead of runner
// type names, and values are model elements and relationships instead of Go
// handler functions.
package register

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/archdsl/archdsl/internal/archmodel"
	"github.com/archdsl/archdsl/internal/hierkey"
)

// Scope selects whether registered keys are flat identifiers or dotted
// hierarchical paths (spec.md §3, Identifier Scope).
type Scope int

const (
	Flat Scope = iota
	Hierarchical
)

var identifierPattern = regexp.MustCompile(`^\w+$`)

// ValidIdentifier reports whether id matches the `\w+` identifier grammar.
func ValidIdentifier(id string) bool {
	return identifierPattern.MatchString(id)
}

// Register holds the identifier->element and identifier->relationship
// mappings for a single parse.
type Register struct {
	scope Scope

	elements      map[string]*archmodel.Element
	relationships map[string]*archmodel.Relationship

	// elementKey is the reverse index used to detect an element being
	// registered a second time under a different identifier, and to look up
	// an already-registered parent's key when computing a hierarchical key.
	elementKey map[*archmodel.Element]string

	// synthetic marks which keys were assigned via a generated UUID rather
	// than a user-supplied identifier, so a second registration attempt can
	// produce the "name it before !ref-ing it" message from spec.md §4.4.
	synthetic map[string]bool
}

// New returns an empty Register in Flat scope.
func New() *Register {
	return &Register{
		elements:      make(map[string]*archmodel.Element),
		relationships: make(map[string]*archmodel.Relationship),
		elementKey:    make(map[*archmodel.Element]string),
		synthetic:     make(map[string]bool),
	}
}

// SetScope changes the identifier scope. Per the `!identifiers` directive
// this is legal mid-parse; it only affects keys computed after the change.
func (r *Register) SetScope(s Scope) { r.scope = s }

// Scope returns the register's current identifier scope.
func (r *Register) Scope() Scope { return r.scope }

// ParentKey returns the already-registered key for parent, or "" if parent
// is nil or unregistered — the building block for hierarchical composition.
func (r *Register) ParentKey(parent *archmodel.Element) string {
	if parent == nil {
		return ""
	}
	return r.elementKey[parent]
}

// RegisterElement assigns el an identifier. If id is empty a synthetic UUID
// is generated so the element remains reachable by FindIdentifier. parent
// is the element whose key prefixes el's in Hierarchical scope — for a
// DeploymentNode with no element parent this should be its Environment
// pseudo-element (spec.md §4.4, §9).
func (r *Register) RegisterElement(id string, el *archmodel.Element, parent *archmodel.Element) (string, error) {
	synthetic := id == ""
	if synthetic {
		id = uuid.NewString()
	} else if !ValidIdentifier(id) {
		return "", fmt.Errorf("invalid identifier %q: must match \\w+", id)
	}
	local := strings.ToLower(id)

	key := local
	if r.scope == Hierarchical {
		key = hierkey.Key(r.ParentKey(parent), local)
	}

	if existing, ok := r.elementKey[el]; ok && existing != key && !synthetic {
		if r.synthetic[existing] {
			return "", fmt.Errorf("element already has identifier %q (synthetic); name it before using !ref to assign %q", existing, local)
		}
		return "", fmt.Errorf("element already has identifier %q; cannot also register it as %q", existing, local)
	}

	if _, ok := r.relationships[key]; ok {
		return "", fmt.Errorf("identifier %q is already in use by a relationship", key)
	}
	if existing, ok := r.elements[key]; ok && existing != el {
		return "", fmt.Errorf("identifier %q is already in use", key)
	}

	r.elements[key] = el
	r.elementKey[el] = key
	r.synthetic[key] = synthetic
	el.Identifier = local
	return key, nil
}

// RegisterRelationship assigns rel an identifier; relationships are never
// hierarchical (spec.md §3).
func (r *Register) RegisterRelationship(id string, rel *archmodel.Relationship) (string, error) {
	synthetic := id == ""
	if synthetic {
		id = uuid.NewString()
	} else if !ValidIdentifier(id) {
		return "", fmt.Errorf("invalid identifier %q: must match \\w+", id)
	}
	key := strings.ToLower(id)

	if _, ok := r.elements[key]; ok {
		return "", fmt.Errorf("identifier %q is already in use by an element", key)
	}
	if existing, ok := r.relationships[key]; ok && existing != rel {
		return "", fmt.Errorf("identifier %q is already in use", key)
	}

	r.relationships[key] = rel
	rel.Identifier = key
	return key, nil
}

// GetElement looks up an element by identifier, case-insensitively.
func (r *Register) GetElement(id string) (*archmodel.Element, bool) {
	el, ok := r.elements[strings.ToLower(id)]
	return el, ok
}

// GetRelationship looks up a relationship by identifier, case-insensitively.
func (r *Register) GetRelationship(id string) (*archmodel.Relationship, bool) {
	rel, ok := r.relationships[strings.ToLower(id)]
	return rel, ok
}

// FindIdentifier returns the key el was registered under, if any.
func (r *Register) FindIdentifier(el *archmodel.Element) (string, bool) {
	key, ok := r.elementKey[el]
	return key, ok
}
