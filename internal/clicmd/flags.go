// Package clicmd provides the graphbench CLI commands.
package clicmd

import "github.com/urfave/cli/v2"

// Shared flags for read-only commands.
var (
	// FormatFlag selects output format: json, table, yaml.
	FormatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: json, table, yaml",
	}

	// NoColorFlag disables colored table output.
	NoColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable colored output",
	}
)

// ReadOnlyFlags returns the shared flags for read-only commands.
func ReadOnlyFlags() []cli.Flag {
	return []cli.Flag{FormatFlag, NoColorFlag}
}
