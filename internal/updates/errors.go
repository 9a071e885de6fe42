package updates

import (
	"fmt"

	"github.com/orbit-updates/orbit/internal/httputil"
)

// CheckError is a structured platform-check failure.
type CheckError struct {
	Kind    httputil.ErrorKind
	Message string
	Err     error
}

func (e *CheckError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("update check: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("update check: %s", e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *CheckError) Unwrap() error {
	return e.Err
}

// Suggestion returns an actionable suggestion for the user, or an
// empty string if none applies.
func (e *CheckError) Suggestion() string {
	return e.Kind.Suggestion()
}

// wrapFetchError classifies a network error into a CheckError.
func wrapFetchError(err error, message string) *CheckError {
	return &CheckError{
		Kind:    httputil.Classify(err),
		Message: message,
		Err:     err,
	}
}
