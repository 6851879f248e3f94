// Command machuni is the entry point for the Machuni newcomer-assistance
// service. It provides a CLI interface (via Cobra) for one-off questions and
// corpus ingestion, and an HTTP server for interactive use.
package main

import (
	"fmt"
	"os"

	"github.com/ShrillShrestha/Machuni/cmd/machuni/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
