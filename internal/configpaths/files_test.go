package configpaths_test

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/Alia5/padscope/internal/configpaths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidatesRoutesUserPath(t *testing.T) {
	tests := []struct {
		path             string
		json, yaml, toml bool
	}{
		{path: "/tmp/a.json", json: true},
		{path: "/tmp/a.yml", yaml: true},
		{path: "/tmp/a.yaml", yaml: true},
		{path: "/tmp/a.toml", toml: true},
		{path: "/tmp/a.conf", json: true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			j, y, to := configpaths.Candidates(tt.path)
			assert.Equal(t, tt.json, j[0] == tt.path)
			assert.Equal(t, tt.yaml, y[0] == tt.path)
			assert.Equal(t, tt.toml, to[0] == tt.path)
		})
	}
}

func TestCandidatesFromEnv(t *testing.T) {
	t.Setenv(configpaths.EnvConfig, "/srv/padscope.toml")
	_, _, to := configpaths.Candidates("")
	assert.Equal(t, "/srv/padscope.toml", to[0])

	_, _, to = configpaths.Candidates("/explicit.toml")
	assert.Equal(t, "/explicit.toml", to[0], "flag beats env")
}

func TestDefaultNamedConfigPath(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG layout only")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	p, err := configpaths.DefaultNamedConfigPath("run", "yml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "padscope", "run.yaml"), p)

	require.NoError(t, configpaths.EnsureDir(p))
	assert.DirExists(t, filepath.Join(dir, "padscope"))
}
