package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	toml "github.com/pelletier/go-toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v3"
)

func TestFlagName(t *testing.T) {
	type sample struct {
		InvertY     bool
		MarkerColor string
		Addr        string
		Named       string `name:"custom"`
	}
	typ := reflect.TypeOf(sample{})
	want := []string{"invert-y", "marker-color", "addr", "custom"}
	for i, w := range want {
		assert.Equal(t, w, flagName(typ.Field(i)))
	}
}

func TestBuildMapFromRun(t *testing.T) {
	m := buildMapFromStruct(reflect.TypeOf(Run{}))

	src, ok := m["source"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "sdl", src["driver"])
	assert.Equal(t, "1s", src["discover"])
	assert.Equal(t, false, src["invert-y"])
	netpad, ok := src["netpad"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, ":3250", netpad["addr"])
	assert.Equal(t, "", netpad["password"])
	kdf, ok := netpad["kdf"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "padscope-feed-key-v1", kdf["salt"])
	assert.Equal(t, int64(100000), kdf["iterations"])

	v, ok := m["view"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 0.1, v["dead-zone"])
	assert.Equal(t, int64(800), v["min-width"])
	assert.Equal(t, "red", v["marker-color"])
	assert.Equal(t, int64(1200), m["width"])
}

func TestBuildMapSkipsPositionalArgs(t *testing.T) {
	m := buildMapFromStruct(reflect.TypeOf(Feed{}))
	assert.NotContains(t, m, "addr")
	assert.Equal(t, "unknown", m["connection"])
	assert.Equal(t, "4ms", m["poll"])
	assert.Contains(t, m, "password")
	assert.Contains(t, m, "kdf")
}

func TestConfigInit(t *testing.T) {
	tests := []struct {
		format string
		decode func([]byte, *map[string]any) error
	}{
		{"json", func(b []byte, m *map[string]any) error { return json.Unmarshal(b, m) }},
		{"yaml", func(b []byte, m *map[string]any) error { return yaml.Unmarshal(b, m) }},
		{"toml", func(b []byte, m *map[string]any) error {
			tree, err := toml.LoadBytes(b)
			if err != nil {
				return err
			}
			*m = tree.ToMap()
			return nil
		}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			dest := filepath.Join(t.TempDir(), "sub", "watch."+tt.format)
			c := &ConfigInit{Command: "watch", Format: tt.format, Output: dest}
			require.NoError(t, c.Run())

			data, err := os.ReadFile(dest)
			require.NoError(t, err)
			var got map[string]any
			require.NoError(t, tt.decode(data, &got))
			assert.Contains(t, got, "snapshot")
			assert.Contains(t, got, "view")

			assert.ErrorContains(t, c.Run(), "destination exists")
			c.Force = true
			assert.NoError(t, c.Run())
		})
	}
}

func TestConfigInitRejects(t *testing.T) {
	dir := t.TempDir()
	assert.ErrorContains(t, (&ConfigInit{Command: "run", Format: "ini", Output: filepath.Join(dir, "x")}).Run(), "unsupported format")
	assert.ErrorContains(t, (&ConfigInit{Command: "serve", Format: "json", Output: filepath.Join(dir, "y")}).Run(), "unknown command")
}
