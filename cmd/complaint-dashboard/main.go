package main

import (
	"fmt"
	"os"
	_ "time/tzdata"

	"complaint-dashboard/cmd/complaint-dashboard/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
