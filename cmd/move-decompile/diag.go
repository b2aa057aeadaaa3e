package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	nameColor    = color.New(color.FgCyan)
	okColor      = color.New(color.FgGreen)
)

// placeholderMarker prefixes every instruction the translator could not
// express.
const placeholderMarker = "/*unrecognized "

// setColor applies the --color mode (auto|on|off).
func setColor(mode string, f *os.File) error {
	switch mode {
	case "auto":
		color.NoColor = !isTerminal(f)
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		return fmt.Errorf("unknown color mode %q (auto|on|off)", mode)
	}
	return nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func reportError(w io.Writer, name string, err error) {
	fmt.Fprintf(w, "%s %s: %v\n", errorColor.Sprint("error:"), nameColor.Sprint(name), err)
}

// reportPlaceholders warns when text contains instructions rendered as
// placeholders.
func reportPlaceholders(w io.Writer, name, text string) {
	if n := strings.Count(text, placeholderMarker); n > 0 {
		fmt.Fprintf(w, "%s %s: %d unrecognized instruction(s)\n", warningColor.Sprint("warning:"), nameColor.Sprint(name), n)
	}
}

func reportSummary(w io.Writer, s summary) {
	line := fmt.Sprintf("%d decompiled, %d cached, %d failed", s.ok, s.cached, s.failed)
	if s.failed > 0 {
		fmt.Fprintln(w, errorColor.Sprint(line))
		return
	}
	fmt.Fprintln(w, okColor.Sprint(line))
}
