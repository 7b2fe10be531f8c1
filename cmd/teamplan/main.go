package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/existflow/teamplan/internal/cli"
)

func main() {
	cli.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
