package main

import (
	"os"

	"github.com/shubhamsharma-10/CloudDrive/internal/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
