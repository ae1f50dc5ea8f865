// Package main is the lakegov command-line entry point.
package main

import (
	"os"

	"github.com/lakegov/lakegov/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
