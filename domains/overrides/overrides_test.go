package overrides

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
widgets:
  workdir: services/api
  commands:
    - make generate
    - npm ci
gadgets:
  commands:
    - ./prepare.sh
`), 0o644))

	m, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "services/api", m["widgets"].Workdir)
	assert.Equal(t, []string{"make generate", "npm ci"}, m["widgets"].Commands)
	assert.Empty(t, m["gadgets"].Workdir)
	assert.Equal(t, []string{"./prepare.sh"}, m["gadgets"].Commands)

	_, ok := m["unknown"]
	assert.False(t, ok)
}

func TestLoadEmptyPath(t *testing.T) {
	m, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}
