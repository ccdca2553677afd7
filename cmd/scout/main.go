// Command scout is the entry point for the Scout research agent.
// It answers questions from ingested documents and live web search through
// a CLI (via Cobra) and an optional HTTP server.
package main

import (
	"fmt"
	"os"

	"github.com/d3vos/scout-go/cmd/scout/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
