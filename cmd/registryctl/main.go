package main

import (
	"os"

	"chainregistry/cmd/registryctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
