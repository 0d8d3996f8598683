package main

import (
	"os"

	"github.com/mkarlik/retention/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
