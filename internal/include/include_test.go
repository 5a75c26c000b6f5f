package include

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://example.com/workspace.dsl"))
	assert.False(t, IsURL("http://example.com/workspace.dsl"))
	assert.False(t, IsURL("relative/path.dsl"))
	assert.False(t, IsURL("/abs/path.dsl"))
}

func TestResolveFiles_SingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fragment.dsl")
	require.NoError(t, os.WriteFile(path, []byte("container web"), 0o644))

	files, err := ResolveFiles(path)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)
}

func TestResolveFiles_DirectoryIsSortedAndRecursive(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.dsl"), []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.dsl"), []byte("a"), 0o644))
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "c.dsl"), []byte("c"), 0o644))

	files, err := ResolveFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, filepath.Join(dir, "a.dsl"), files[0])
	assert.Equal(t, filepath.Join(dir, "b.dsl"), files[1])
	assert.Equal(t, filepath.Join(sub, "c.dsl"), files[2])
}

func TestResolveFiles_MissingPath(t *testing.T) {
	_, err := ResolveFiles(filepath.Join(t.TempDir(), "missing.dsl"))
	assert.Error(t, err)
}

func TestCycleGuard_DetectsDirectCycle(t *testing.T) {
	g := NewCycleGuard()

	release, err := g.Enter("workspace.dsl")
	require.NoError(t, err)
	defer release()

	_, err = g.Enter("workspace.dsl")
	assert.ErrorContains(t, err, "include cycle")
}

func TestCycleGuard_ReleaseAllowsReentry(t *testing.T) {
	g := NewCycleGuard()

	release, err := g.Enter("fragment.dsl")
	require.NoError(t, err)
	release()

	_, err = g.Enter("fragment.dsl")
	assert.NoError(t, err)
}

func TestCycleGuard_DistinctPathsDoNotCollide(t *testing.T) {
	g := NewCycleGuard()

	_, err := g.Enter("a.dsl")
	require.NoError(t, err)

	_, err = g.Enter("b.dsl")
	assert.NoError(t, err)
}
