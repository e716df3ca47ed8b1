package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"sosi2gpkg/internal/services"
)

const exitCanceled = 130

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// reportedError wraps an error that has already been shown to the user.
type reportedError struct{ err error }

func (e reportedError) Error() string { return e.err.Error() }

func (e reportedError) Unwrap() error { return e.err }

func printError(w io.Writer, err error) {
	var reported reportedError
	if services.IsSilent(err) || errors.As(err, &reported) {
		return
	}
	fmt.Fprintln(w, err)
}

func exitCode(err error) int {
	if services.IsCanceled(err) {
		return exitCanceled
	}
	return 1
}
