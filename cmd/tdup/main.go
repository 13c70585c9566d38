package main

import (
	"os"

	"github.com/gnolang/tdup/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
