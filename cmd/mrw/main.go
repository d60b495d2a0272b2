package main

import (
	"os"

	"github.com/msto63/rechenwerk/cmd/mrw/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
