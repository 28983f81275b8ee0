package main

import (
	"os"

	"github.com/mihazs/clockify-auto-fill/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
