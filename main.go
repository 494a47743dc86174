package main

import (
	"fmt"
	"os"

	"duskfs/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.New(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "duskfs:", err)
		os.Exit(1)
	}
}
