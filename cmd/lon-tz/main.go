// Package main provides the lon-tz command, which prints solar time zones
// for a longitude or zone name and generates the tzfile table.
package main

import (
	"os"

	"github.com/atlet99/lon-tz/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:], os.Stdout, os.Stderr))
}
