// Command storeapi runs the store backend and its schema migration tooling.
package main

import (
	"os"

	"github.com/warunglab/storeapi/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
