// Command carbonscope estimates greenhouse-gas emissions from the command line.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rshade/carbonscope/internal/cli"
	"github.com/rshade/carbonscope/pkg/version"
)

func main() {
	if err := run(); err != nil {
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) || exitErr.Reason != "" {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(extractExitCode(err))
	}
}

func run() error {
	root := cli.NewRootCmd(version.GetVersion())
	return root.ExecuteContext(context.Background())
}

// extractExitCode maps err to a process exit code: 0 for nil, the carried
// code for an *cli.ExitError anywhere in the chain, 1 otherwise.
func extractExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode
	}
	return 1
}
