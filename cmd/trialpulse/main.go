package main

import (
	"os"

	"github.com/clinops/trialpulse/cmd/trialpulse/commands"
)

// main is the entry point for the trialpulse CLI: go run ./cmd/trialpulse [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
