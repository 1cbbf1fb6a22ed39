package clicmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/graphbench/internal/checkpoint"
	"github.com/justapithecus/graphbench/internal/execplan"
	"github.com/justapithecus/graphbench/internal/expconfig"
)

// ResumeCommand continues a previously interrupted run from its existing
// checkpoint shards. The executor is resumable by construction — every
// completed run id is skipped on re-entry — so resume differs from run
// only in requiring that a matching checkpoint already exist, to catch
// the common mistake of pointing at the wrong checkpoint directory.
func (a *App) ResumeCommand() *cli.Command {
	cmd := a.RunCommand()
	cmd.Name = "resume"
	cmd.Usage = "Resume a previously interrupted run from its checkpoint"
	cmd.Action = a.resumeAction()
	return cmd
}

func (a *App) resumeAction() cli.ActionFunc {
	runAction := a.runAction()
	return func(c *cli.Context) error {
		spec, err := expconfig.LoadExperiment(c.String("experiment"))
		if err != nil {
			return cli.Exit(fmt.Sprintf("resume: %v", err), 1)
		}
		plan, err := execplan.Build(spec)
		if err != nil {
			return cli.Exit(fmt.Sprintf("resume: %v", err), 1)
		}
		shards, err := checkpoint.FindShards(c.String("checkpoint-dir"), plan.ConfigHash)
		if err != nil {
			return cli.Exit(fmt.Sprintf("resume: %v", err), 3)
		}
		if len(shards) == 0 {
			return cli.Exit(fmt.Sprintf("resume: no checkpoint shards found for config hash %s in %s", plan.ConfigHash, c.String("checkpoint-dir")), 1)
		}
		return runAction(c)
	}
}
