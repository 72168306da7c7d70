package main

import (
	"os"

	"github.com/spigell/cv-sync/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
