package main

import (
	"os"

	"github.com/avolkhin/bideval/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
