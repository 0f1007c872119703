package main

import (
	"os"

	"github.com/atheneum-labs/passage/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
