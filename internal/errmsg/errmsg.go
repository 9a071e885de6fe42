// Package errmsg formats errors for the terminal, attaching the
// actionable suggestion a structured error carries.
package errmsg

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// suggester is implemented by structured errors that know how the
// user can recover (see updates.CheckError, plugins.RepositoryError).
type suggester interface {
	Suggestion() string
}

// Format renders an error with its suggestion, when one applies.
func Format(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(err.Error())

	var s suggester
	if errors.As(err, &s) {
		if suggestion := s.Suggestion(); suggestion != "" {
			sb.WriteString("\n\nSuggestion: ")
			sb.WriteString(suggestion)
		}
	}
	return sb.String()
}

// Fprint writes the formatted error to w, prefixed for stderr use.
func Fprint(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(w, "Error: %s\n", Format(err))
}
