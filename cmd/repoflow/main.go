// Package main is the entry point for the Repoflow CLI.
package main

import (
	"github.com/repoflow/repoflow/cmd/repoflow/commands"
)

func main() {
	commands.Execute()
}
