package clicmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/graphbench/internal/aggregate"
	"github.com/justapithecus/graphbench/internal/checkpoint"
	"github.com/justapithecus/graphbench/internal/claims"
	"github.com/justapithecus/graphbench/internal/clirender"
	"github.com/justapithecus/graphbench/internal/collector"
	"github.com/justapithecus/graphbench/internal/execplan"
	"github.com/justapithecus/graphbench/internal/expconfig"
	"github.com/justapithecus/graphbench/internal/worker"
	"github.com/justapithecus/graphbench/types"
)

// ClaimsResponse is `graphbench claims`'s rendered output.
type ClaimsResponse struct {
	Claims  []types.ClaimEvaluation `json:"claims"`
	Summary types.ClaimSummary      `json:"summary"`
}

// ClaimsCommand re-evaluates an experiment's claims against its existing
// checkpoint, without running anything. Useful for re-checking claims
// after editing significance thresholds without re-executing the
// experiment.
func (a *App) ClaimsCommand() *cli.Command {
	return &cli.Command{
		Name:  "claims",
		Usage: "Evaluate claims against an existing checkpoint",
		Flags: append(ReadOnlyFlags(),
			&cli.StringFlag{Name: "experiment", Required: true, Usage: "Path to the experiment YAML file"},
			&cli.StringFlag{Name: "checkpoint-dir", Value: ".graphbench/checkpoints", Usage: "Directory containing checkpoint shards"},
		),
		Action: a.claimsAction(),
	}
}

func (a *App) claimsAction() cli.ActionFunc {
	return func(c *cli.Context) error {
		spec, err := expconfig.LoadExperiment(c.String("experiment"))
		if err != nil {
			return cli.Exit(fmt.Sprintf("claims: %v", err), 1)
		}
		plan, err := execplan.Build(spec)
		if err != nil {
			return cli.Exit(fmt.Sprintf("claims: %v", err), 1)
		}

		mergeResult, err := worker.Merge(c.String("checkpoint-dir"), plan)
		if err != nil {
			return cli.Exit(fmt.Sprintf("claims: %v", err), 3)
		}

		coll := collector.New()
		if err := coll.RecordBatch(mergeResult.Results); err != nil {
			return cli.Exit(fmt.Sprintf("claims: invalid result: %v", err), 3)
		}

		agg := aggregate.Aggregate(coll.All())
		verdicts := claims.Evaluate(spec.Claims, agg)
		summary := types.Summarize(verdicts)

		r, err := clirender.NewRenderer(c)
		if err != nil {
			return err
		}
		if err := r.Render(ClaimsResponse{Claims: verdicts, Summary: summary}); err != nil {
			return err
		}

		return exitForOutcome(summary, len(mergeResult.SkippedRunIDs))
	}
}

// checkpointShardCount reports how many shards exist for plan's config
// hash, used by inspect/list-style commands to describe run progress
// without loading every result.
func checkpointShardCount(dir, configHash string) (int, error) {
	shards, err := checkpoint.FindShards(dir, configHash)
	if err != nil {
		return 0, err
	}
	return len(shards), nil
}
