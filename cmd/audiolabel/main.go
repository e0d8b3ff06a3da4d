package main

import (
	"os"

	"github.com/rsprouse/audiolabel/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
