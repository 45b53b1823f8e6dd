package main

import (
	"fmt"
	"io"
	"os"

	"cgraph/internal/errors"
)

func main() {
	err := rootCmd.Execute()
	report(os.Stderr, err)
	os.Exit(errors.ExitCode(err))
}

// report prints err the way the classic tool did: "path: reason" for I/O
// failures, and the usage line after a usage error.
func report(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(w, errors.Diagnostic(err))
	if errors.Is(err, errors.Usage) {
		if line := usageLine(err); line != "" {
			fmt.Fprintln(w, line)
		}
	}
}
