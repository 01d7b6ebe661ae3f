package main

import (
	"os"

	"github.com/moqui-tools/moquilint/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
