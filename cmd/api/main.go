package main

import (
	"os"

	"github.com/username/alarm-api/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
