package main

import (
	"os"

	"github.com/pathfence/pathfence/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
