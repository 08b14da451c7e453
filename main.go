package main

import (
	"os"

	"github.com/edualign/edualign/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
