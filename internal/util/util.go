//go:build !windows

package util

// Only Windows launches binaries from a file manager without a shell.
func launchedFromGUI() bool { return false }

func hideConsole() {}
