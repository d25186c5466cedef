package main

import (
	"fmt"
	"os"

	"mis-reports/cmd/mis-reports/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
