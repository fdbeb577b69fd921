package main

import (
	"os"

	"github.com/explorer-docs/docaug/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
