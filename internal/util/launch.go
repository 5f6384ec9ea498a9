// Package util adapts padscope to how it was started. On Windows a
// double-clicked executable owns a console window nobody asked for and gets no
// subcommand; everywhere else these helpers are no-ops.
package util

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

var fromGUI = sync.OnceValue(launchedFromGUI)

// FromGUI reports whether padscope was launched from a file manager rather
// than a shell. The answer is computed once.
func FromGUI() bool { return fromGUI() }

// LaunchArgs rewrites os.Args for a file-manager launch: no arguments opens the
// window, and a config file dropped onto the executable becomes its --config.
func LaunchArgs(args []string) []string {
	if !FromGUI() {
		return args
	}
	out := guiArgs(args)
	if len(out) != len(args) {
		slog.Info("Detected GUI startup", "args", out[1:])
	}
	return out
}

func guiArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}
	switch {
	case len(args) == 1:
		return []string{args[0], "run"}
	case len(args) == 2 && isConfigFile(args[1]):
		return []string{args[0], "run", "--config", args[1]}
	}
	return args
}

func isConfigFile(arg string) bool {
	if strings.HasPrefix(arg, "-") {
		return false
	}
	switch strings.ToLower(filepath.Ext(arg)) {
	case ".json", ".yaml", ".yml", ".toml":
		return true
	}
	return false
}

// DetachConsole hides the console of a file-manager launch once delay has
// passed, so startup errors stay readable until the window is up.
func DetachConsole(delay time.Duration) {
	if !FromGUI() {
		return
	}
	time.AfterFunc(delay, hideConsole)
}
