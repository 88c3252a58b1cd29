// Package main is the entry point for the cfgsync CLI.
package main

import (
	"os"

	"github.com/thoreinstein/cfgsync/cmd/cfgsync/commands"
	"github.com/thoreinstein/cfgsync/internal/errors"
)

func main() {
	os.Exit(errors.ExitCode(commands.Execute()))
}
