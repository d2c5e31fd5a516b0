package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/deckardcli/deckard/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// ExitErrors were already reported through the output formatter;
		// anything else (flag parsing, usage) still needs printing and
		// counts as a command error.
		code := cli.GetExitCode(err)
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, err)
			code = cli.ExitCommandError
		}
		os.Exit(code)
	}
}
