package main

import (
	"fmt"
	"os"

	"github.com/fortressguard/fortress/cmd"
)

var version = "0.1.0"

func main() {
	if err := cmd.NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
