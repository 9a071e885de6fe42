package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/orbit-updates/orbit/internal/errmsg"
	"golang.org/x/term"
)

// printInfo prints an informational message unless quiet mode is on.
func printInfo(a ...interface{}) {
	if !quietFlag {
		fmt.Println(a...)
	}
}

// printInfof prints a formatted message unless quiet mode is on.
func printInfof(format string, a ...interface{}) {
	if !quietFlag {
		fmt.Printf(format, a...)
	}
}

// printJSON marshals v to indented JSON on stdout.
func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		exitWithCode(ExitGeneral)
	}
}

// printError writes an error with its suggestion to stderr.
func printError(err error) {
	errmsg.Fprint(os.Stderr, err)
}

// termWidth returns the terminal width, or 80 when stdout is not a
// terminal.
func termWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 80
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// printRule prints a horizontal rule sized to the terminal.
func printRule() {
	width := termWidth()
	if width > 100 {
		width = 100
	}
	fmt.Println(strings.Repeat("-", width))
}
