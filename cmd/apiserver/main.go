// API server entry point. Equivalent to "molx serve"; flags are passed through.
package main

import (
	"context"
	"os"

	"github.com/MathioLucas/Molecular-expolrer/internal/interfaces/cli"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate

	args := append([]string{"serve"}, os.Args[1:]...)
	if err := cli.ExecuteContext(context.Background(), args); err != nil {
		os.Exit(1)
	}
}

//Personal.AI order the ending
