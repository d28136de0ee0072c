package main

import (
	"os"

	"github.com/jhoicas/gestion-api/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
