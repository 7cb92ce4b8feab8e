// ABOUTME: Entry point for the memotag CLI application.
// ABOUTME: Executes the root command and reports failures.

package main

import (
	"fmt"
	"os"

	"github.com/harper/memotag/internal/ui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Error(err.Error()))
		os.Exit(1)
	}
}
