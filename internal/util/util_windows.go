//go:build windows

package util

import (
	"errors"
	"log/slog"
	"os"
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	kernel32             = windows.NewLazySystemDLL("kernel32.dll")
	user32               = windows.NewLazySystemDLL("user32.dll")
	procGetConsoleWindow = kernel32.NewProc("GetConsoleWindow")
	procFreeConsole      = kernel32.NewProc("FreeConsole")
	procShowWindow       = user32.NewProc("ShowWindow")
)

func consoleWindow() uintptr {
	hwnd, _, _ := procGetConsoleWindow.Call()
	return hwnd
}

func launchedFromGUI() bool {
	// no console at all: started by something that is not a shell
	if consoleWindow() == 0 {
		return true
	}
	parent, err := parentExe()
	if err != nil {
		slog.Debug("parent process lookup failed", "error", err)
		return false
	}
	slog.Debug("parent process", "exe", parent)
	return strings.EqualFold(parent, "explorer.exe")
}

func hideConsole() {
	hwnd := consoleWindow()
	if hwnd == 0 {
		return
	}
	_, _, _ = procShowWindow.Call(hwnd, windows.SW_HIDE)
	_, _, _ = procFreeConsole.Call()
}

// parentExe returns the executable name of the process that started us.
func parentExe() (string, error) {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return "", err
	}
	defer windows.CloseHandle(snap)

	self := uint32(os.Getpid())
	var parent uint32
	exes := make(map[uint32]string)

	var pe windows.ProcessEntry32
	pe.Size = uint32(unsafe.Sizeof(pe))
	for err = windows.Process32First(snap, &pe); err == nil; err = windows.Process32Next(snap, &pe) {
		exes[pe.ProcessID] = windows.UTF16ToString(pe.ExeFile[:])
		if pe.ProcessID == self {
			parent = pe.ParentProcessID
		}
	}
	if parent == 0 {
		return "", errors.New("own process not in snapshot")
	}
	exe, ok := exes[parent]
	if !ok {
		return "", errors.New("parent process exited")
	}
	return exe, nil
}
