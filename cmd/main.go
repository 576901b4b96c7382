package main

import (
	"os"

	"github.com/beatoz/fxnum-go/cmd/commands"
)

func main() {
	if err := commands.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
