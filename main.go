package main

import (
	"os"

	"github.com/cwarden/fuzzydue/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
