package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/gisops/webtool/internal/cli"
	"github.com/gisops/webtool/pkg/webtool"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(webtool.ExitPanic)
		}
	}()

	if err := cli.Execute(); err != nil {
		os.Exit(webtool.ExitCodeForError(err))
	}
}
