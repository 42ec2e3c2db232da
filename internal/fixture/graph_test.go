package fixture

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadBuildsDependencyEdges(t *testing.T) {
	path := writeFixture(t, `{
		"root": "app@workspace:.",
		"entries": [
			{"name": "app", "reference": "workspace:.", "dependencies": ["left", "right"]},
			{"name": "left", "reference": "npm:1.0.0", "dependencies": ["shared"]},
			{"name": "right", "reference": "npm:1.0.0", "dependencies": ["shared"]},
			{"name": "shared", "reference": "npm:2.0.0"}
		]
	}`)

	root, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "app", string(root.Name))
	require.Len(t, root.Dependencies, 2)
	assert.Same(t, root.Dependencies[0].Dependencies[0], root.Dependencies[1].Dependencies[0])
}

func TestLoadMarksDeclaredPeers(t *testing.T) {
	path := writeFixture(t, `{
		"root": "app@workspace:.",
		"entries": [
			{"name": "app", "reference": "workspace:.", "dependencies": ["plugin", "host"]},
			{"name": "plugin", "reference": "npm:1.0.0", "dependencies": ["host"], "peers": ["host"]},
			{"name": "host", "reference": "npm:3.0.0"}
		]
	}`)

	root, err := Load(path)
	require.NoError(t, err)

	var plugin = root.Dependencies[0]
	assert.True(t, plugin.PeerNames["host"])
}

func TestLoadRejectsAmbiguousBareName(t *testing.T) {
	path := writeFixture(t, `{
		"root": "app@workspace:.",
		"entries": [
			{"name": "app", "reference": "workspace:.", "dependencies": ["left", "right"]},
			{"name": "left", "reference": "npm:1.0.0", "dependencies": ["shared"]},
			{"name": "right", "reference": "npm:1.0.0", "dependencies": ["shared"]},
			{"name": "shared", "reference": "npm:1.0.0"},
			{"name": "shared", "reference": "npm:2.0.0"}
		]
	}`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsUnknownRoot(t *testing.T) {
	path := writeFixture(t, `{
		"root": "missing@workspace:.",
		"entries": [
			{"name": "app", "reference": "workspace:."}
		]
	}`)

	_, err := Load(path)
	assert.Error(t, err)
}
