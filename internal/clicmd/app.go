package clicmd

import (
	"github.com/urfave/cli/v2"

	"github.com/justapithecus/graphbench/internal/archive"
	"github.com/justapithecus/graphbench/internal/notify"
	"github.com/justapithecus/graphbench/internal/registry"
)

// App bundles the registries and downstream adapters a graphbench binary
// needs in order to build its CLI command set. A host binary registers
// its SUTs and cases against Suts/Cases (typically from package init
// functions) before constructing an App, since the CLI has no notion of
// an out-of-process executor to delegate to.
type App struct {
	Suts  *registry.SutRegistry
	Cases *registry.CaseRegistry

	// Archive, if non-nil, receives result and claim batches after every
	// run. Nil disables archival.
	Archive *archive.Sink
	// Notify, if non-nil, is sent one ExperimentCompletedEvent per run.
	// Defaults to notify.NopAdapter{} when unset.
	Notify notify.Adapter

	// Commit is the build's VCS revision, reported by `graphbench version`.
	Commit string
}

// Commands returns the full graphbench command set.
func (a *App) Commands() []*cli.Command {
	return []*cli.Command{
		a.RunCommand(),
		a.ResumeCommand(),
		a.ClaimsCommand(),
		a.InspectCommand(),
		a.VersionCommand(),
	}
}

func (a *App) notifyAdapter() notify.Adapter {
	if a.Notify != nil {
		return a.Notify
	}
	return notify.NopAdapter{}
}
