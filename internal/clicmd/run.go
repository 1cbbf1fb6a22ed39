package clicmd

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/graphbench/internal/aggregate"
	"github.com/justapithecus/graphbench/internal/checkpoint"
	"github.com/justapithecus/graphbench/internal/claims"
	"github.com/justapithecus/graphbench/internal/clirender"
	"github.com/justapithecus/graphbench/internal/cliview"
	"github.com/justapithecus/graphbench/internal/collector"
	"github.com/justapithecus/graphbench/internal/execplan"
	"github.com/justapithecus/graphbench/internal/expconfig"
	"github.com/justapithecus/graphbench/internal/glog"
	"github.com/justapithecus/graphbench/internal/notify"
	"github.com/justapithecus/graphbench/internal/opsmetrics"
	"github.com/justapithecus/graphbench/internal/rss"
	"github.com/justapithecus/graphbench/internal/worker"
	"github.com/justapithecus/graphbench/types"
)

// RunResponse is `graphbench run`'s rendered output: the merged result
// set's fate plus the aggregate statistics and claim verdicts computed
// from it.
type RunResponse struct {
	ConfigHash    string                  `json:"config_hash"`
	RunsCompleted int                     `json:"runs_completed"`
	RunsSkipped   int                     `json:"runs_skipped"`
	Summaries     []types.SummaryStats    `json:"summaries"`
	Comparisons   []types.PairwiseComparison `json:"comparisons"`
	Claims        []types.ClaimEvaluation `json:"claims"`
	ClaimSummary  types.ClaimSummary      `json:"claim_summary"`
}

// RunCommand executes an experiment spec against the registered SUTs and
// cases: it plans the run, executes it across a sharded worker pool,
// merges and aggregates the results, evaluates claims, and optionally
// archives and publishes a completion notification.
//
// Exit codes: 0 every run completed and every claim satisfied or violated
// (none inconclusive); 1 any claim violated; 2 any claim inconclusive or
// any planned run missing from the merge; 3 fatal (executor crash,
// checkpoint corruption, config-hash mismatch).
func (a *App) RunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run an experiment",
		Flags: append(ReadOnlyFlags(),
			&cli.StringFlag{Name: "experiment", Required: true, Usage: "Path to the experiment YAML file"},
			&cli.StringFlag{Name: "config", Usage: "Path to the graphbench config YAML file"},
			&cli.StringFlag{Name: "checkpoint-dir", Value: ".graphbench/checkpoints", Usage: "Directory for checkpoint shards"},
			&cli.IntFlag{Name: "workers", Usage: "Override the worker count from the experiment spec"},
			&cli.BoolFlag{Name: "tui", Usage: "Show a live progress dashboard"},
		),
		Action: a.runAction(),
	}
}

func (a *App) runAction() cli.ActionFunc {
	return func(c *cli.Context) error {
		spec, err := expconfig.LoadExperiment(c.String("experiment"))
		if err != nil {
			return cli.Exit(fmt.Sprintf("run: %v", err), 1)
		}

		checkpointDir := c.String("checkpoint-dir")
		memThresholds := rssThresholdsFromConfig(c.String("config"))

		workers := spec.Workers
		if c.IsSet("workers") {
			workers = c.Int("workers")
		}

		timeout := 5 * time.Minute
		if spec.Timeout != "" {
			if d, err := time.ParseDuration(spec.Timeout); err == nil {
				timeout = d
			}
		}

		plan, err := execplan.Build(spec)
		if err != nil {
			return cli.Exit(fmt.Sprintf("run: %v", err), 1)
		}

		log := glog.New(glog.ExperimentContext{ExperimentName: spec.Name, ConfigHash: plan.ConfigHash}).Sugar()
		metrics := opsmetrics.NewCollector()

		exec := worker.New(worker.Config{
			Workers:       workers,
			CheckpointDir: checkpointDir,
			Timeout:       timeout,
			Memory:        memThresholds,
		}, a.Suts, a.Cases, metrics, log)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var stopDashboard func()
		if c.Bool("tui") {
			stopDashboard = a.startDashboard(checkpointDir, plan)
		}

		mergeResult, err := exec.Run(ctx, plan)
		if stopDashboard != nil {
			stopDashboard()
		}
		if err != nil {
			return cli.Exit(fmt.Sprintf("run: %v", err), 3)
		}

		coll := collector.New()
		if err := coll.RecordBatch(mergeResult.Results); err != nil {
			return cli.Exit(fmt.Sprintf("run: invalid result: %v", err), 3)
		}

		agg := aggregate.Aggregate(coll.All())
		verdicts := claims.Evaluate(spec.Claims, agg)
		summary := types.Summarize(verdicts)

		if a.Archive != nil {
			batch := types.ResultBatch{Version: types.Version, Timestamp: time.Now().UTC().Format(time.RFC3339Nano), Results: coll.All()}
			if err := a.Archive.WriteResults(ctx, batch); err != nil {
				log.Warnf("archive write results failed: %v", err)
			}
			if err := a.Archive.WriteClaims(ctx, verdicts); err != nil {
				log.Warnf("archive write claims failed: %v", err)
			}
		}

		event := &notify.ExperimentCompletedEvent{
			Experiment:       spec.Name,
			ConfigHash:       plan.ConfigHash,
			Outcome:          "completed",
			RunsCompleted:    int64(len(mergeResult.Results)),
			RunsFailed:       countFailed(mergeResult.Results),
			ClaimsSatisfied:  summary.Satisfied,
			ClaimsViolated:   summary.Violated,
			SatisfactionRate: summary.SatisfactionRate,
			Timestamp:        time.Now().UTC().Format(time.RFC3339Nano),
		}
		if err := a.notifyAdapter().Publish(ctx, event); err != nil {
			log.Warnf("notify publish failed: %v", err)
		}

		r, err := clirender.NewRenderer(c)
		if err != nil {
			return err
		}
		if err := r.Render(RunResponse{
			ConfigHash:    plan.ConfigHash,
			RunsCompleted: len(mergeResult.Results),
			RunsSkipped:   len(mergeResult.SkippedRunIDs),
			Summaries:     agg.Summaries,
			Comparisons:   agg.Comparisons,
			Claims:        verdicts,
			ClaimSummary:  summary,
		}); err != nil {
			return err
		}

		return exitForOutcome(summary, len(mergeResult.SkippedRunIDs))
	}
}

// exitForOutcome implements the run/resume exit code ladder: 0 when every
// run completed and every claim is satisfied or violated, 1 when any claim
// is violated, 2 when any claim is inconclusive or any planned run is
// missing from the merge, 3 for fatal conditions (handled separately, by
// the caller, before this function is reached).
func exitForOutcome(summary types.ClaimSummary, runsSkipped int) error {
	if summary.Violated > 0 {
		return cli.Exit("", 1)
	}
	if summary.Inconclusive > 0 || runsSkipped > 0 {
		return cli.Exit("", 2)
	}
	return nil
}

// startDashboard polls the checkpoint shards on disk at a fixed interval
// and feeds per-worker progress to a live cliview.Run session in its own
// goroutine. Returns a function that stops the poller and waits for the
// dashboard to exit.
func (a *App) startDashboard(checkpointDir string, plan *execplan.Plan) func() {
	snapshots := make(chan cliview.Snapshot, 1)
	done := make(chan struct{})
	stopPoll := make(chan struct{})
	pollDone := make(chan struct{})

	go func() {
		defer close(pollDone)
		ticker := time.NewTicker(250 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stopPoll:
				return
			case <-ticker.C:
				snap, ok := dashboardSnapshot(checkpointDir, plan)
				if !ok {
					continue
				}
				select {
				case snapshots <- snap:
				default:
				}
			}
		}
	}()

	dashboardDone := make(chan struct{})
	go func() {
		defer close(dashboardDone)
		_ = cliview.Run(snapshots, done)
	}()

	return func() {
		close(stopPoll)
		<-pollDone
		close(done)
		<-dashboardDone
	}
}

func dashboardSnapshot(checkpointDir string, plan *execplan.Plan) (cliview.Snapshot, bool) {
	shards, err := checkpoint.FindShards(checkpointDir, plan.ConfigHash)
	if err != nil {
		return cliview.Snapshot{}, false
	}

	snap := cliview.Snapshot{RunsTotal: int64(len(plan.Descriptors))}
	for _, shard := range shards {
		completed := len(shard.CompletedRunIDs)
		snap.RunsCompleted += int64(completed)

		current := ""
		if completed > 0 {
			current = shard.Results[shard.CompletedRunIDs[completed-1]].Run.CaseID
		}
		snap.Workers = append(snap.Workers, cliview.WorkerProgress{
			WorkerIndex: int(shard.WorkerIndex),
			Completed:   completed,
			Total:       int(shard.TotalPlanned),
			CurrentCase: current,
		})
	}
	return snap, true
}

func countFailed(results []types.EvaluationResult) int64 {
	var n int64
	for _, r := range results {
		if !r.Correctness.ProducedOutput {
			n++
		}
	}
	return n
}

func rssThresholdsFromConfig(path string) rss.Thresholds {
	if path == "" {
		return rss.Thresholds{}
	}
	cfg, err := expconfig.Load(path)
	if err != nil {
		return rss.Thresholds{}
	}
	return cfg.Memory.Thresholds()
}
