// Package main is the entry point for the amcli binary.
package main

import (
	"os"

	"admin-console/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
