// Package main is the entry point for the foamctl CLI.
// The CLI is the office/operator terminal tool for the foamworks API.
package main

import (
	"os"

	"foamworks/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
