package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGUIArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{name: "double click", args: []string{"padscope.exe"}, want: []string{"padscope.exe", "run"}},
		{name: "dropped yaml", args: []string{"padscope.exe", `C:\pads\ds4.YAML`}, want: []string{"padscope.exe", "run", "--config", `C:\pads\ds4.YAML`}},
		{name: "dropped toml", args: []string{"padscope.exe", "pad.toml"}, want: []string{"padscope.exe", "run", "--config", "pad.toml"}},
		{name: "dropped image", args: []string{"padscope.exe", "controller.png"}, want: []string{"padscope.exe", "controller.png"}},
		{name: "explicit command", args: []string{"padscope.exe", "watch"}, want: []string{"padscope.exe", "watch"}},
		{name: "flag only", args: []string{"padscope.exe", "--config=x.json"}, want: []string{"padscope.exe", "--config=x.json"}},
		{name: "several args", args: []string{"padscope.exe", "a.json", "b.json"}, want: []string{"padscope.exe", "a.json", "b.json"}},
		{name: "empty", args: nil, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, guiArgs(tt.args))
		})
	}
}

func TestShellLaunchUnchanged(t *testing.T) {
	if FromGUI() {
		t.Skip("test binary started from a file manager")
	}
	args := []string{"padscope"}
	assert.Equal(t, args, LaunchArgs(args))
}
