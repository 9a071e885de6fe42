package main

import "os"

// Exit codes, so scripts can distinguish failure modes.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitGeneral indicates a general error.
	ExitGeneral = 1

	// ExitUsage indicates invalid arguments.
	ExitUsage = 2

	// ExitNetwork indicates the update server or a required
	// repository could not be reached.
	ExitNetwork = 3

	// ExitNotFound indicates a requested build or patch does not
	// exist in the descriptor.
	ExitNotFound = 4

	// ExitVerifyFailed indicates a patch failed checksum, signature,
	// or container verification.
	ExitVerifyFailed = 5
)

func exitWithCode(code int) {
	os.Exit(code)
}
