// Command xlsdash-cli inspects and exports spreadsheets from the terminal
// using the same pipeline as the dashboard server.
package main

import (
	"os"
)

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
