package dsl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archdsl/archdsl/internal/archmodel"
	"github.com/archdsl/archdsl/internal/diag"
	"github.com/archdsl/archdsl/internal/register"
)

func mustParse(t *testing.T, text string) *Parser {
	t.Helper()
	p := New(context.Background())
	require.NoError(t, p.ParseString(text))
	return p
}

func TestParser_WorkspaceNameAndDescription(t *testing.T) {
	p := mustParse(t, `workspace "Name" "A description" {
}`)
	ws := p.Workspace()
	require.NotNil(t, ws)
	assert.Equal(t, "Name", ws.Name)
	assert.Equal(t, "A description", ws.Description)
}

func TestParser_PersonAndSoftwareSystemAndRelationship(t *testing.T) {
	p := mustParse(t, `workspace {
  model {
    u = person "User"
    s = softwareSystem "S"
    u -> s "Uses"
  }
}`)
	ws := p.Workspace()
	require.Len(t, ws.Model.People, 1)
	require.Len(t, ws.Model.SoftwareSystems, 1)
	require.Len(t, ws.Model.Relationships, 1)

	rel := ws.Model.Relationships[0]
	assert.Same(t, ws.Model.People[0], rel.Source)
	assert.Same(t, ws.Model.SoftwareSystems[0], rel.Destination)
	assert.Equal(t, "Uses", rel.Description)
}

func TestParser_GroupNesting(t *testing.T) {
	p := New(context.Background())
	err := p.ParseString(`workspace {
  model {
    group "Team" {
      u = person "User"
    }
  }
}`)
	require.NoError(t, err)
	ws := p.Workspace()
	require.Len(t, ws.Model.Groups, 1)
	require.Len(t, ws.Model.People, 1)
	assert.Same(t, ws.Model.Groups[0], ws.Model.People[0].Parent)
}

func TestParser_SequentialGroupsAtSameLevelBothSucceed(t *testing.T) {
	p := New(context.Background())
	err := p.ParseString(`workspace {
  model {
    group "Team" {
      a = person "A"
    }
    group "Other" {
      b = person "B"
    }
  }
}`)
	require.NoError(t, err)
	ws := p.Workspace()
	require.Len(t, ws.Model.Groups, 2)
	require.Len(t, ws.Model.People, 2)
}

func TestParser_ContainerRequiresSoftwareSystemAncestorEvenThroughGroup(t *testing.T) {
	p := New(context.Background())
	err := p.ParseString(`workspace {
  model {
    ss = softwareSystem "S" {
      group "G" {
        web = container "Web"
      }
    }
  }
}`)
	require.NoError(t, err)
	web, ok := p.Register().GetElement("web")
	require.True(t, ok)
	assert.Equal(t, archmodel.KindContainer, web.Kind)
}

func TestParser_ContainerRejectedOutsideSoftwareSystem(t *testing.T) {
	p := New(context.Background())
	err := p.ParseString(`workspace {
  model {
    group "G" {
      web = container "Web"
    }
  }
}`)
	require.Error(t, err)
}

func TestParser_EnterpriseMarksOutsideElementsExternal(t *testing.T) {
	p := mustParse(t, `workspace {
  model {
    outside = person "Outside"
    enterprise "Acme" {
      inside = person "Inside"
    }
  }
}`)
	outside, ok := p.Register().GetElement("outside")
	require.True(t, ok)
	inside, ok := p.Register().GetElement("inside")
	require.True(t, ok)
	assert.True(t, outside.External)
	assert.False(t, inside.External)
}

func TestParser_EnterpriseMarksExternalThroughGroupNesting(t *testing.T) {
	p := mustParse(t, `workspace {
  model {
    group "G" {
      outside = person "Outside"
    }
    enterprise "Acme" {
      group "H" {
        inside = person "Inside"
      }
    }
  }
}`)
	outside, ok := p.Register().GetElement("outside")
	require.True(t, ok)
	inside, ok := p.Register().GetElement("inside")
	require.True(t, ok)
	assert.True(t, outside.External, "a person nested in a top-level group, outside the enterprise, is still External")
	assert.False(t, inside.External, "a person nested in a group inside the enterprise is not External")
}

func TestParser_PropertiesAndPerspectivesMergeOnClose(t *testing.T) {
	p := mustParse(t, `workspace {
  model {
    u = person "User" {
      properties {
        team "Platform"
      }
      perspectives {
        security "High"
      }
    }
  }
}`)
	u, ok := p.Register().GetElement("u")
	require.True(t, ok)
	require.Contains(t, u.Properties, "team")
	assert.Equal(t, "Platform", u.Properties["team"].AsString())
	require.Contains(t, u.Perspectives, "security")
	assert.Equal(t, "High", u.Perspectives["security"].AsString())
}

func TestParser_RestrictedModeRejectsFilesystemIncludeAndPlugin(t *testing.T) {
	p := New(context.Background())
	p.SetRestricted(true)
	err := p.ParseString(`workspace {
  model {
    !include other.dsl
  }
}`)
	require.Error(t, err)
	var diagErr *diag.Error
	require.ErrorAs(t, err, &diagErr)
	assert.Equal(t, diag.KindRestrictedFeature, diagErr.Kind)

	p2 := New(context.Background())
	p2.SetRestricted(true)
	err = p2.ParseString(`workspace {
  !plugin "com.acme.Plugin"
}`)
	require.Error(t, err)
	require.ErrorAs(t, err, &diagErr)
	assert.Equal(t, diag.KindRestrictedFeature, diagErr.Kind)
}

func TestParser_IdentifierScopeSwitchMidParse(t *testing.T) {
	p := mustParse(t, `workspace {
  !identifiers hierarchical
  model {
    ss = softwareSystem "S" {
      web = container "W"
    }
  }
}`)
	assert.Equal(t, register.Hierarchical, p.Register().Scope())
	_, ok := p.Register().GetElement("ss.web")
	assert.True(t, ok)
}

func TestParser_RefByCanonicalNameWithContainerPath(t *testing.T) {
	p := mustParse(t, `workspace {
  model {
    softwareSystem "Software System 1" {
      container "Web"
    }
    !ref "Container://Software System 1/Web" {
      tags "Resolved"
    }
  }
}`)
	system := p.Workspace().Model.SoftwareSystems[0]
	require.Len(t, system.Children, 1)
	web := system.Children[0]
	assert.Equal(t, "Web", web.Name)
	assert.Contains(t, web.Tags, "Resolved")
}

func TestParser_RefByCanonicalNameWithContainerPathThroughGroup(t *testing.T) {
	p := mustParse(t, `workspace {
  model {
    softwareSystem "Software System 1" {
      group "Internal" {
        container "Web"
      }
    }
    named = !ref "Container://Software System 1/Web"
  }
}`)
	got, ok := p.Register().GetElement("named")
	require.True(t, ok)
	assert.Equal(t, "Web", got.Name)
	assert.Equal(t, archmodel.KindContainer, got.Kind)
}

type panickingScriptRunner struct{}

func (panickingScriptRunner) RunScript(ctx context.Context, language, body string) error {
	panic("boom: script runner exploded")
}

func TestParser_RecoversHandlerPanicAsExecutionError(t *testing.T) {
	p := New(context.Background())
	p.SetScriptRunner(panickingScriptRunner{})
	err := p.ParseString(`workspace {
  model {
    !script "sh" {
      echo hello
    }
  }
}`)
	require.Error(t, err)
	var diagErr *diag.Error
	require.ErrorAs(t, err, &diagErr)
	assert.Equal(t, diag.KindExecutionError, diagErr.Kind)
	assert.Contains(t, diagErr.Detail, "boom")
}

func TestParser_EndContextWithEmptyStackFails(t *testing.T) {
	p := New(context.Background())
	err := p.ParseString(`}`)
	require.Error(t, err)
	var diagErr *diag.Error
	require.ErrorAs(t, err, &diagErr)
	assert.Equal(t, diag.KindUnexpectedEndOfContext, diagErr.Kind)
}
