// Command cyclecoach is the operator CLI for the training-package
// pipeline: generate a package from a profile document, re-validate its
// zone distribution, and print a pre-delivery checklist. Unlike
// cyclecoachd it never listens on a socket — each invocation does one
// thing and exits.
package main

import (
	"fmt"
	"os"

	"github.com/cyclecoach/engine/internal/cli"
)

func main() {
	root := cli.NewRootCmd(&cli.App{})
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitCode(err))
	}
}
