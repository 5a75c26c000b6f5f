package register

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archdsl/archdsl/internal/archmodel"
)

func TestRegisterElement_FlatScope(t *testing.T) {
	r := New()
	el := &archmodel.Element{Kind: archmodel.KindPerson, Name: "User"}

	key, err := r.RegisterElement("u", el, nil)
	require.NoError(t, err)
	assert.Equal(t, "u", key)

	got, ok := r.GetElement("U")
	require.True(t, ok)
	assert.Same(t, el, got)
}

func TestRegisterElement_SyntheticIdentifierWhenUnspecified(t *testing.T) {
	r := New()
	el := &archmodel.Element{Kind: archmodel.KindPerson, Name: "User"}

	key, err := r.RegisterElement("", el, nil)
	require.NoError(t, err)
	require.NotEmpty(t, key)

	got, ok := r.FindIdentifier(el)
	require.True(t, ok)
	assert.Equal(t, key, got)
}

func TestRegisterElement_Hierarchical(t *testing.T) {
	r := New()
	r.SetScope(Hierarchical)

	ss := &archmodel.Element{Kind: archmodel.KindSoftwareSystem, Name: "S"}
	_, err := r.RegisterElement("ss", ss, nil)
	require.NoError(t, err)

	web := &archmodel.Element{Kind: archmodel.KindContainer, Name: "W", Parent: ss}
	key, err := r.RegisterElement("web", web, ss)
	require.NoError(t, err)
	assert.Equal(t, "ss.web", key)

	got, ok := r.GetElement("SS.WEB")
	require.True(t, ok)
	assert.Same(t, web, got)
}

func TestRegisterElement_RejectsSecondIdentifierForSameElement(t *testing.T) {
	r := New()
	el := &archmodel.Element{Kind: archmodel.KindPerson, Name: "User"}

	_, err := r.RegisterElement("u", el, nil)
	require.NoError(t, err)

	_, err = r.RegisterElement("u2", el, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already has identifier")
}

func TestRegisterElement_SyntheticCollisionMessageMentionsNaming(t *testing.T) {
	r := New()
	el := &archmodel.Element{Kind: archmodel.KindPerson, Name: "User"}

	_, err := r.RegisterElement("", el, nil)
	require.NoError(t, err)

	_, err = r.RegisterElement("named", el, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "synthetic")
	assert.Contains(t, err.Error(), "name it")
}

func TestRegisterElement_RejectsDuplicateKeyAcrossElements(t *testing.T) {
	r := New()
	a := &archmodel.Element{Kind: archmodel.KindPerson, Name: "A"}
	b := &archmodel.Element{Kind: archmodel.KindPerson, Name: "B"}

	_, err := r.RegisterElement("u", a, nil)
	require.NoError(t, err)

	_, err = r.RegisterElement("u", b, nil)
	require.Error(t, err)
}

func TestRegisterElement_HierarchicalReRegistrationUnderSameIdentifierSucceeds(t *testing.T) {
	r := New()
	r.SetScope(Hierarchical)

	ss := &archmodel.Element{Kind: archmodel.KindSoftwareSystem, Name: "S"}
	_, err := r.RegisterElement("ss", ss, nil)
	require.NoError(t, err)

	web := &archmodel.Element{Kind: archmodel.KindContainer, Name: "W", Parent: ss}
	key, err := r.RegisterElement("web", web, ss)
	require.NoError(t, err)
	require.Equal(t, "ss.web", key)

	key, err = r.RegisterElement("web", web, ss)
	require.NoError(t, err, "reopening !ref web { ... } under its own already-held identifier must not fail")
	assert.Equal(t, "ss.web", key)
}

func TestRegisterElement_RejectsInvalidIdentifier(t *testing.T) {
	r := New()
	el := &archmodel.Element{Kind: archmodel.KindPerson, Name: "User"}

	_, err := r.RegisterElement("not valid!", el, nil)
	require.Error(t, err)
}

func TestRegisterAndGetRelationship(t *testing.T) {
	r := New()
	rel := &archmodel.Relationship{Description: "Uses"}

	key, err := r.RegisterRelationship("rel1", rel)
	require.NoError(t, err)
	assert.Equal(t, "rel1", key)

	got, ok := r.GetRelationship("REL1")
	require.True(t, ok)
	assert.Same(t, rel, got)
}

func TestIdentifierNamespaceIsSharedBetweenElementsAndRelationships(t *testing.T) {
	r := New()
	el := &archmodel.Element{Kind: archmodel.KindPerson, Name: "User"}
	_, err := r.RegisterElement("x", el, nil)
	require.NoError(t, err)

	rel := &archmodel.Relationship{}
	_, err = r.RegisterRelationship("x", rel)
	assert.Error(t, err)
}
