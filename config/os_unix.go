//go:build !windows

package config

import (
	"os"
	"strings"

	"golang.org/x/term"
)

const badFileNameChars = "\x00" + string(os.PathSeparator) + string(os.PathListSeparator)

// CleanFileName makes in usable as a single path element: separators are
// dropped and so are leading dots, so result is never hidden or "..".
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

// EnableColorOutput reports whether stream is a terminal.
func EnableColorOutput(stream *os.File) bool {
	return term.IsTerminal(int(stream.Fd()))
}
