package dsl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archdsl/archdsl/internal/archmodel"
	"github.com/archdsl/archdsl/internal/diag"
	"github.com/archdsl/archdsl/internal/register"
)

// S1 — minimal: one person, one system, one relationship, one SystemContextView.
func TestScenario_S1_Minimal(t *testing.T) {
	p := New(context.Background())
	err := p.ParseString(`workspace {
  model {
    u = person "User"
    s = softwareSystem "S"
    u -> s "Uses"
  }
  views {
    systemContext s "c" {
      include *
      autoLayout
    }
  }
}`)
	require.NoError(t, err)
	ws := p.Workspace()

	require.Len(t, ws.Model.People, 1)
	require.Len(t, ws.Model.SoftwareSystems, 1)
	require.Len(t, ws.Model.Relationships, 1)

	u := ws.Model.People[0]
	s := ws.Model.SoftwareSystems[0]
	rel := ws.Model.Relationships[0]
	assert.Same(t, u, rel.Source)
	assert.Same(t, s, rel.Destination)
	assert.Equal(t, "Uses", rel.Description)

	require.Len(t, ws.Views.Views, 1)
	view := ws.Views.Views[0]
	assert.Equal(t, archmodel.ViewSystemContext, view.Kind)
	assert.Equal(t, "c", view.Key)
	assert.Same(t, s, view.Scope)
	assert.Equal(t, []string{"*"}, view.Includes)
	require.NotNil(t, view.AutoLayout)
}

// S2 — assignment + hierarchical identifiers.
func TestScenario_S2_HierarchicalIdentifiers(t *testing.T) {
	p := New(context.Background())
	p.SetIdentifierScope(register.Hierarchical)
	err := p.ParseString(`workspace {
  model {
    ss = softwareSystem "S" {
      web = container "W"
    }
  }
}`)
	require.NoError(t, err)

	system, ok := p.Register().GetElement("ss")
	require.True(t, ok)
	assert.Equal(t, archmodel.KindSoftwareSystem, system.Kind)

	container, ok := p.Register().GetElement("ss.web")
	require.True(t, ok)
	assert.Equal(t, archmodel.KindContainer, container.Kind)
	assert.Same(t, system, container.Parent)
}

// S3 — constant substitution, and restricted mode leaves an undefined
// environment reference literal.
func TestScenario_S3_ConstantSubstitution(t *testing.T) {
	p := New(context.Background())
	err := p.ParseString(`workspace {
  model {
    !constant NAME "Acme"
    softwareSystem "${NAME} System"
  }
}`)
	require.NoError(t, err)
	ws := p.Workspace()
	require.Len(t, ws.Model.SoftwareSystems, 1)
	assert.Equal(t, "Acme System", ws.Model.SoftwareSystems[0].Name)

	p2 := New(context.Background())
	p2.SetRestricted(true)
	err = p2.ParseString(`workspace {
  model {
    softwareSystem "${UNDEFINED} System"
  }
}`)
	require.NoError(t, err)
	ws2 := p2.Workspace()
	require.Len(t, ws2.Model.SoftwareSystems, 1)
	assert.Equal(t, "${UNDEFINED} System", ws2.Model.SoftwareSystems[0].Name)
}

// S4 — a relationship expression in include/exclude must be quoted.
func TestScenario_S4_RelationshipExpressionMustBeQuoted(t *testing.T) {
	p := New(context.Background())
	err := p.ParseString(`workspace {
  model {
    s = softwareSystem "S"
  }
  views {
    systemContext s "c" {
      exclude "* -> element.tag==External"
    }
  }
}`)
	require.NoError(t, err)
	ws := p.Workspace()
	assert.Equal(t, []string{"* -> element.tag==External"}, ws.Views.Views[0].Excludes)

	p2 := New(context.Background())
	err = p2.ParseString(`workspace {
  model {
    s = softwareSystem "S"
  }
  views {
    systemContext s "c" {
      exclude * -> element.tag==External
    }
  }
}`)
	require.Error(t, err)
	var diagErr *diag.Error
	require.ErrorAs(t, err, &diagErr)
	assert.Equal(t, diag.KindUnexpectedTokens, diagErr.Kind)
}

// S5 — !ref by canonical name: resolving a reference alone does not register
// a new identifier; an explicit assignment does.
func TestScenario_S5_RefByCanonicalName(t *testing.T) {
	p := New(context.Background())
	err := p.ParseString(`workspace {
  model {
    softwareSystem "Software System 1"
    !ref "SoftwareSystem://Software System 1" {
      container "Web"
    }
  }
}`)
	require.NoError(t, err)
	ws := p.Workspace()
	require.Len(t, ws.Model.SoftwareSystems, 1)
	system := ws.Model.SoftwareSystems[0]
	require.Len(t, system.Children, 1)
	assert.Equal(t, "Web", system.Children[0].Name)

	// The system was registered under a synthetic identifier when it was
	// declared; the bare !ref line does not fail trying to register it again.
	_, systemHasName := p.Register().FindIdentifier(system)
	require.True(t, systemHasName)

	p2 := New(context.Background())
	err = p2.ParseString(`workspace {
  model {
    softwareSystem "Software System 1"
    named = !ref "SoftwareSystem://Software System 1"
  }
}`)
	require.NoError(t, err)
	got, ok := p2.Register().GetElement("named")
	require.True(t, ok)
	assert.Equal(t, "Software System 1", got.Name)
}

// S6 — include splices another file's content and elides the directive from
// the echoed DSL.
func TestScenario_S6_Include(t *testing.T) {
	dir := t.TempDir()
	fileB := filepath.Join(dir, "b.dsl")
	require.NoError(t, os.WriteFile(fileB, []byte(`model {
  person "U"
}
`), 0o644))

	fileA := filepath.Join(dir, "a.dsl")
	require.NoError(t, os.WriteFile(fileA, []byte(`workspace {
  !include b.dsl
}
`), 0o644))

	p := New(context.Background())
	require.NoError(t, p.Parse(fileA))
	ws := p.Workspace()

	require.Len(t, ws.Model.People, 1)
	assert.Equal(t, "U", ws.Model.People[0].Name)
	assert.NotContains(t, ws.DSL, "!include")
	assert.Contains(t, ws.DSL, `person "U"`)
}

// S7 — error provenance: an unknown keyword fails with line and source text.
func TestScenario_S7_ErrorProvenance(t *testing.T) {
	p := New(context.Background())
	err := p.ParseString(`workspace {
  mdel {
  }
}`)
	require.Error(t, err)
	var diagErr *diag.Error
	require.ErrorAs(t, err, &diagErr)
	assert.Equal(t, diag.KindUnexpectedTokens, diagErr.Kind)
	assert.Equal(t, 2, diagErr.Line)
	assert.Contains(t, diagErr.Source, "mdel")
}

// Invariant 2: every identifier on the left of an `=` resolves via the register.
func TestInvariant_AssignedIdentifiersAreResolvable(t *testing.T) {
	p := New(context.Background())
	err := p.ParseString(`workspace {
  model {
    u = person "User"
    s = softwareSystem "S"
    r = u -> s "Uses"
  }
}`)
	require.NoError(t, err)
	_, ok := p.Register().GetElement("u")
	assert.True(t, ok)
	_, ok = p.Register().GetElement("s")
	assert.True(t, ok)
	_, ok = p.Register().GetRelationship("r")
	assert.True(t, ok)
}

// Invariant 4: identifier lookup is case-insensitive.
func TestInvariant_CaseInsensitiveLookup(t *testing.T) {
	p := New(context.Background())
	require.NoError(t, p.ParseString(`workspace {
  model {
    FOO = person "User"
  }
}`))
	byUpper, okUpper := p.Register().GetElement("FOO")
	byLower, okLower := p.Register().GetElement("foo")
	require.True(t, okUpper)
	require.True(t, okLower)
	assert.Same(t, byUpper, byLower)
}

// Invariant 7: every `}` pops exactly one frame and runs its end hook once.
func TestInvariant_EndHookRunsExactlyOnceForProperties(t *testing.T) {
	p := New(context.Background())
	require.NoError(t, p.ParseString(`workspace {
  model {
    u = person "User" {
      properties {
        a "1"
      }
    }
  }
}`))
	u, ok := p.Register().GetElement("u")
	require.True(t, ok)
	require.Len(t, u.Properties, 1)
	assert.Equal(t, "1", u.Properties["a"].AsString())
}
