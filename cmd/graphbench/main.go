// Package main provides the graphbench CLI entrypoint.
//
// graphbench is distributed as a library: a concrete binary imports
// this package's pattern, registers its own SUTs and cases against
// fresh registry.SutRegistry/registry.CaseRegistry instances (typically
// from package init functions in algorithm packages it imports for
// side effect), and builds a clicmd.App around them. This file is that
// pattern with an empty registry set — a real binary replaces the
// two registration calls below with its own.
//
// Usage:
//
//	graphbench <command> [subcommand] [options]
//
// Exit codes for `run` and `resume`:
//   - 0: every planned run completed and no claim is violated or inconclusive
//   - 1: a claim was violated, the experiment file failed to load or
//     validate, or (resume only) no matching checkpoint exists
//   - 2: a claim was inconclusive, or a planned run is missing from the merge
//   - 3: fatal error (executor failure, invalid result, incompatible checkpoint)
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/graphbench/internal/clicmd"
	"github.com/justapithecus/graphbench/internal/registry"
	"github.com/justapithecus/graphbench/types"
)

// commit is set via ldflags at build time.
var commit = "unknown"

func main() {
	suts := registry.NewSutRegistry()
	cases := registry.NewCaseRegistry()

	// A concrete binary registers its SUTs and cases here, e.g.:
	//   myalgos.RegisterSuts(suts)
	//   myfixtures.RegisterCases(cases)

	a := &clicmd.App{
		Suts:   suts,
		Cases:  cases,
		Commit: commit,
	}

	app := &cli.App{
		Name:           "graphbench",
		Usage:          "Claim-driven benchmarking harness for graph algorithms",
		Version:        fmt.Sprintf("%s (commit: %s)", types.Version, commit),
		ExitErrHandler: exitErrHandler,
		Commands:       a.Commands(),
	}

	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}

// exitErrHandler preserves exit codes from cli.Exit() so that run/resume's
// documented exit codes reach the shell unchanged.
func exitErrHandler(_ *cli.Context, err error) {
	if err == nil {
		return
	}

	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		code := exitCoder.ExitCode()
		msg := exitCoder.Error()
		if msg != "" && msg != fmt.Sprintf("exit status %d", code) {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(code)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
