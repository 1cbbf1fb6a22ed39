package clicmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/graphbench/internal/clirender"
	"github.com/justapithecus/graphbench/internal/execplan"
	"github.com/justapithecus/graphbench/internal/expconfig"
	"github.com/justapithecus/graphbench/internal/worker"
	"github.com/justapithecus/graphbench/types"
)

// InspectResponse is `graphbench inspect`'s rendered output: either one
// run's full result (when --run-id is given) or a progress summary of
// the whole experiment.
type InspectResponse struct {
	ConfigHash    string                  `json:"config_hash"`
	ShardCount    int                     `json:"shard_count"`
	RunsPlanned   int                     `json:"runs_planned"`
	RunsCompleted int                     `json:"runs_completed"`
	RunsSkipped   int                     `json:"runs_skipped"`
	Run           *types.EvaluationResult `json:"run,omitempty"`
}

// InspectCommand reports on an experiment's checkpoint progress, or one
// specific run's full result when --run-id is given.
func (a *App) InspectCommand() *cli.Command {
	return &cli.Command{
		Name:  "inspect",
		Usage: "Inspect an experiment's checkpoint progress or one run's result",
		Flags: append(ReadOnlyFlags(),
			&cli.StringFlag{Name: "experiment", Required: true, Usage: "Path to the experiment YAML file"},
			&cli.StringFlag{Name: "checkpoint-dir", Value: ".graphbench/checkpoints", Usage: "Directory containing checkpoint shards"},
			&cli.StringFlag{Name: "run-id", Usage: "Inspect one run by its id instead of the whole experiment"},
		),
		Action: a.inspectAction(),
	}
}

func (a *App) inspectAction() cli.ActionFunc {
	return func(c *cli.Context) error {
		spec, err := expconfig.LoadExperiment(c.String("experiment"))
		if err != nil {
			return cli.Exit(fmt.Sprintf("inspect: %v", err), 1)
		}
		plan, err := execplan.Build(spec)
		if err != nil {
			return cli.Exit(fmt.Sprintf("inspect: %v", err), 1)
		}

		checkpointDir := c.String("checkpoint-dir")
		shardCount, err := checkpointShardCount(checkpointDir, plan.ConfigHash)
		if err != nil {
			return cli.Exit(fmt.Sprintf("inspect: %v", err), 3)
		}

		mergeResult, err := worker.Merge(checkpointDir, plan)
		if err != nil {
			return cli.Exit(fmt.Sprintf("inspect: %v", err), 3)
		}

		resp := InspectResponse{
			ConfigHash:    plan.ConfigHash,
			ShardCount:    shardCount,
			RunsPlanned:   len(plan.Descriptors),
			RunsCompleted: len(mergeResult.Results),
			RunsSkipped:   len(mergeResult.SkippedRunIDs),
		}

		if runID := c.String("run-id"); runID != "" {
			found := false
			for _, result := range mergeResult.Results {
				if result.Run.RunID == runID {
					resp.Run = &result
					found = true
					break
				}
			}
			if !found {
				return cli.Exit(fmt.Sprintf("inspect: run %q not found in checkpoint", runID), 1)
			}
		}

		r, err := clirender.NewRenderer(c)
		if err != nil {
			return err
		}
		return r.Render(resp)
	}
}
