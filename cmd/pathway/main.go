// Command pathway inspects and serves hierarchical URL routing trees.
package main

import (
	"os"

	"github.com/dmitrymomot/pathway/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
