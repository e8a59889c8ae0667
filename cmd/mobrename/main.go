// Package main is the entry point for the mobrename CLI tool.
package main

import (
	"os"

	"github.com/aidanlsb/mobrename/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
