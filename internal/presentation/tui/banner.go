package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{"  _____     _ _       ", "#34d399"},
	{" |_   _|_ _| | |_   _ ", "#2dd4bf"},
	{"   | |/ _` | | | | | |", "#22d3ee"},
	{"   | | (_| | | | |_| |", "#38bdf8"},
	{"   |_|\\__,_|_|_|\\__, |", "#60a5fa"},
	{"                |___/ ", "#818cf8"},
}

// PrintBanner writes the tally banner and version to w.
// Colors follow the terminal profile of w, so a pipe gets plain text.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)

	fmt.Fprintln(w)
	for _, line := range bannerLines {
		fmt.Fprintln(w, out.String(line.text).Foreground(out.Color(line.color)))
	}
	fmt.Fprintln(w, out.String(fmt.Sprintf("   v%s  type help for the keypad", version)).Faint())
	fmt.Fprintln(w)
}
