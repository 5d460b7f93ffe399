package main

import (
	"fmt"
	"os"

	"github.com/goliatone/go-folio/cmd/folio/internal/cli"
)

func main() {
	if err := cli.NewRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
