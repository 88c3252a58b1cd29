package logging

import (
	"io"
	"os"
	"strconv"

	"golang.org/x/term"
)

// ForceColorEnv forces colored output even when stderr is not a terminal,
// for CI logs that render ANSI codes.
const ForceColorEnv = "CLICOLOR_FORCE"

// IsTTY reports whether w is a terminal. Writers without an Fd method are
// never terminals.
func IsTTY(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// SupportsColor reports whether the text handler should color output to w.
// NO_COLOR and TERM=dumb turn color off; CLICOLOR_FORCE turns it on for
// non-terminals.
func SupportsColor(w io.Writer) bool {
	return supportsColor(IsTTY(w))
}

func supportsColor(isTTY bool) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	if forced, err := strconv.ParseBool(os.Getenv(ForceColorEnv)); err == nil && forced {
		return true
	}
	return isTTY
}
