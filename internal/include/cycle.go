package include

import (
	"fmt"
	"path/filepath"
)

// CycleGuard detects include cycles by canonical path equality (spec.md
// §4.5): a stack of the paths currently being parsed, from the outermost
// file down to whichever !include is being expanded right now.
type CycleGuard struct {
	open map[string]bool
}

// NewCycleGuard returns an empty guard.
func NewCycleGuard() *CycleGuard {
	return &CycleGuard{open: make(map[string]bool)}
}

// Enter marks path as being parsed and returns a function that must be
// called when that parse finishes. It returns an error if path is already
// open higher up the include chain.
func (g *CycleGuard) Enter(path string) (func(), error) {
	canonical, err := filepath.Abs(path)
	if err != nil {
		canonical = path
	}
	if g.open[canonical] {
		return nil, fmt.Errorf("include cycle detected: %s is already being parsed", path)
	}
	g.open[canonical] = true
	return func() { delete(g.open, canonical) }, nil
}
