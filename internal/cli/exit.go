package cli

import "fmt"

// ExitError asks the caller to exit with Code. Its message has already been
// written to stdout, so callers should not print it again.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}
