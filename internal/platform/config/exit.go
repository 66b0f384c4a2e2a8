package config

import (
	"fmt"
	"os"
)

var exit = os.Exit

// Exitf prints a formatted message to stderr and terminates the process with
// status 1. Service main functions use it for unrecoverable startup failures.
func Exitf(format string, args ...any) {
	fmt.Fprintln(os.Stderr, fmt.Sprintf(format, args...))
	exit(1)
}
