//go:build windows

package config

import (
	"os"
	"strings"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
	"golang.org/x/term"
)

const badFileNameChars = "\x00<>\":/\\|?*" + string(os.PathListSeparator)

// CleanFileName makes in usable as a single path element: reserved
// characters are dropped and so are leading dots.
func CleanFileName(in string) string {
	out := strings.TrimLeft(strings.Map(func(sym rune) rune {
		if strings.ContainsRune(badFileNameChars, sym) {
			return -1
		}
		return sym
	}, in), ".")
	if len(out) == 0 {
		return "_bad_file_name_"
	}
	return out
}

func windows10OrLater() bool {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, `SOFTWARE\Microsoft\Windows NT\CurrentVersion`, registry.QUERY_VALUE)
	if err != nil {
		return false
	}
	defer k.Close()

	v, _, err := k.GetIntegerValue("CurrentMajorVersionNumber")
	return err == nil && v >= 10
}

// EnableColorOutput checks if colorized output is possible and switches
// console to VT100 sequence processing.
func EnableColorOutput(stream *os.File) bool {
	if !windows10OrLater() || !term.IsTerminal(int(stream.Fd())) {
		return false
	}

	const enableVirtualTerminalProcessing uint32 = 0x4

	var mode uint32
	if err := windows.GetConsoleMode(windows.Handle(stream.Fd()), &mode); err != nil {
		return false
	}
	return windows.SetConsoleMode(windows.Handle(stream.Fd()), mode|enableVirtualTerminalProcessing) == nil
}
