package main

import (
	"os"

	"github.com/dtroode/senderkeys/cmd/skctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
