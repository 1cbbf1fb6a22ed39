// Package worker implements the parallel, sharded, crash-resumable
// executor: each worker owns a disjoint slice of the experiment's run
// plan, executes its runs sequentially, and checkpoints after every
// completed run so the process can be killed and resumed without lost
// or duplicated work.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/justapithecus/graphbench/internal/checkpoint"
	"github.com/justapithecus/graphbench/internal/execplan"
	"github.com/justapithecus/graphbench/internal/glog"
	"github.com/justapithecus/graphbench/internal/opsmetrics"
	"github.com/justapithecus/graphbench/internal/registry"
	"github.com/justapithecus/graphbench/internal/rss"
	"github.com/justapithecus/graphbench/types"
)

// Config controls executor scheduling, timeouts, and memory discipline.
type Config struct {
	// Workers is the number of shards to plan and execute.
	Workers int
	// CheckpointDir is where per-worker shard files live.
	CheckpointDir string
	// Timeout bounds a single SUT invocation.
	Timeout time.Duration
	// CaseCacheSize bounds the number of case resources a worker keeps
	// resident at once.
	CaseCacheSize int
	// Memory configures the warning/critical/emergency RSS thresholds.
	Memory rss.Thresholds
}

// Executor runs a plan across Config.Workers isolated worker loops and
// merges their checkpoint shards once all have exited.
type Executor struct {
	cfg     Config
	suts    *registry.SutRegistry
	cases   *registry.CaseRegistry
	metrics *opsmetrics.Collector
	log     *glog.SugaredLogger
}

// New constructs an Executor bound to the given registries.
func New(cfg Config, suts *registry.SutRegistry, cases *registry.CaseRegistry, metrics *opsmetrics.Collector, log *glog.SugaredLogger) *Executor {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.CaseCacheSize <= 0 {
		cfg.CaseCacheSize = 4
	}
	return &Executor{cfg: cfg, suts: suts, cases: cases, metrics: metrics, log: log}
}

// Run plans and executes plan, one goroutine per worker shard, and
// returns the merged result set. Run blocks until every worker has
// finished its current run and persisted, which happens immediately on
// ctx cancellation.
func (e *Executor) Run(ctx context.Context, plan *execplan.Plan) (*MergeResult, error) {
	shards, err := plan.ShardAssignments(e.cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("worker: %w", err)
	}

	var wg sync.WaitGroup
	errs := make([]error, e.cfg.Workers)

	for idx := 0; idx < e.cfg.Workers; idx++ {
		wg.Add(1)
		go func(workerIndex uint32, assigned []types.RunDescriptor) {
			defer wg.Done()
			errs[workerIndex] = e.runWorker(ctx, workerIndex, uint32(e.cfg.Workers), plan.ConfigHash, assigned)
		}(uint32(idx), shards[uint32(idx)])
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return Merge(e.cfg.CheckpointDir, plan)
}

// runWorker executes one worker's sequential loop: load or initialize
// its shard, verify the config hash, then run every assigned descriptor
// not already completed.
func (e *Executor) runWorker(ctx context.Context, workerIndex, totalWorkers uint32, configHash string, assigned []types.RunDescriptor) error {
	store, err := checkpoint.Open(e.cfg.CheckpointDir, configHash, workerIndex, totalWorkers)
	if err != nil {
		return fmt.Errorf("worker %d: %w", workerIndex, err)
	}
	if err := store.SetTotalPlanned(uint64(len(assigned))); err != nil {
		return fmt.Errorf("worker %d: %w", workerIndex, err)
	}

	cache := newCaseCache(e.cfg.CaseCacheSize)
	log := e.log
	if log == nil {
		log = glog.Nop()
	}

	for _, desc := range assigned {
		select {
		case <-ctx.Done():
			log.Infow("worker stopping on cancellation", "worker", workerIndex)
			return nil
		default:
		}

		if store.HasCompleted(desc.RunID) {
			continue
		}

		sample := rss.Now()
		switch e.cfg.Memory.Classify(sample) {
		case rss.LevelEmergency:
			log.Warnw("worker exiting: emergency memory threshold crossed", "worker", workerIndex, "rss_bytes", sample.RSSBytes)
			return nil
		case rss.LevelCritical:
			e.metrics.IncMemoryCritical()
			if cache.evictOldest() {
				e.metrics.IncCaseEviction()
			}
		case rss.LevelWarning:
			e.metrics.IncMemoryWarning()
			log.Warnw("worker approaching memory threshold", "worker", workerIndex, "rss_bytes", sample.RSSBytes)
		}

		result := e.executeOne(ctx, workerIndex, desc, cache, log)
		if err := store.Record(result); err != nil {
			return fmt.Errorf("worker %d: %w", workerIndex, err)
		}
	}

	return nil
}

// executeOne loads the case input (from cache or the registry),
// materializes the SUT, and invokes it under the configured timeout,
// producing an EvaluationResult regardless of outcome.
func (e *Executor) executeOne(ctx context.Context, workerIndex uint32, desc types.RunDescriptor, cache *caseCache, log *glog.SugaredLogger) types.EvaluationResult {
	e.metrics.IncRunStarted()
	startedAt := time.Now().UTC()

	base := types.EvaluationResult{
		Run: desc,
		Provenance: types.RunProvenance{
			Platform:    runtime.GOOS,
			Arch:        runtime.GOARCH,
			RuntimeVer:  runtime.Version(),
			StartedAt:   startedAt.Format(time.RFC3339Nano),
			WorkerIndex: workerIndex,
		},
	}

	caseDef, err := e.cases.Get(desc.CaseID)
	if err != nil {
		return e.failedResult(base, startedAt, fmt.Sprintf("case lookup failed: %v", err))
	}
	base.CaseClass = caseDef.Case.CaseClass

	input, ok := cache.get(desc.CaseID)
	if !ok {
		loaded, err := caseDef.GetInput(ctx)
		if err != nil {
			e.metrics.IncCaseLoadMiss()
			return e.failedResult(base, startedAt, fmt.Sprintf("case input load failed: %v", err))
		}
		cache.put(desc.CaseID, loaded)
		e.metrics.IncCaseLoadMiss()
		input = loaded
	} else {
		e.metrics.IncCaseLoadHit()
	}

	args, err := caseDef.GetInputs()
	if err != nil {
		return e.failedResult(base, startedAt, fmt.Sprintf("case inputs failed: %v", err))
	}

	sut, err := e.suts.New(desc.SutID, nil)
	if err != nil {
		return e.failedResult(base, startedAt, fmt.Sprintf("sut instantiation failed: %v", err))
	}
	spec, err := e.suts.Spec(desc.SutID)
	if err != nil {
		return e.failedResult(base, startedAt, fmt.Sprintf("sut spec lookup failed: %v", err))
	}
	base.SutRole = spec.Role

	timeout := e.cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	output, err := e.runWithDeadline(runCtx, sut, types.SutInvocation{Resource: input, Args: args})
	finishedAt := time.Now().UTC()
	sample := rss.Now()

	if err != nil {
		reason := err.Error()
		if errors.Is(err, context.DeadlineExceeded) {
			reason = fmt.Sprintf("timed out after %s", timeout)
			e.metrics.IncRunTimedOut()
		} else {
			e.metrics.IncRunFailed()
		}
		return e.failedResultAt(base, startedAt, finishedAt, sample, reason)
	}

	e.metrics.IncRunCompleted()
	base.Correctness = types.Correctness{
		ExpectedExists:  output.MatchesExpected != nil,
		ProducedOutput:  true,
		Valid:           output.Valid,
		MatchesExpected: output.MatchesExpected,
	}
	base.Outputs = output.Outputs
	base.Metrics = types.Metrics{Numeric: output.Metrics}
	base.Provenance.FinishedAt = finishedAt.Format(time.RFC3339Nano)
	base.Provenance.RSSBytes = sample.RSSBytes
	base.Provenance.HeapBytes = sample.HeapBytes
	return base
}

// runWithDeadline invokes sut.Run on its own goroutine and races it
// against runCtx's deadline, so a non-cooperative SUT that ignores ctx
// still yields a timeout failure at the deadline instead of blocking the
// worker for however long the SUT actually takes. The SUT's goroutine is
// abandoned (not killed) when the deadline wins; its eventual result, if
// any, is discarded.
func (e *Executor) runWithDeadline(runCtx context.Context, sut types.SutInstance, invocation types.SutInvocation) (types.SutOutput, error) {
	type outcome struct {
		output types.SutOutput
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		output, err := sut.Run(runCtx, invocation)
		done <- outcome{output: output, err: err}
	}()

	select {
	case o := <-done:
		return o.output, o.err
	case <-runCtx.Done():
		return types.SutOutput{}, runCtx.Err()
	}
}

func (e *Executor) failedResult(base types.EvaluationResult, startedAt time.Time, reason string) types.EvaluationResult {
	e.metrics.IncRunFailed()
	return e.failedResultAt(base, startedAt, time.Now().UTC(), rss.Now(), reason)
}

func (e *Executor) failedResultAt(base types.EvaluationResult, startedAt, finishedAt time.Time, sample rss.Sample, reason string) types.EvaluationResult {
	base.Correctness = types.Correctness{ProducedOutput: false, Valid: false}
	base.Metrics = types.Metrics{Numeric: map[string]float64{}}
	base.Provenance.FinishedAt = finishedAt.Format(time.RFC3339Nano)
	base.Provenance.RSSBytes = sample.RSSBytes
	base.Provenance.HeapBytes = sample.HeapBytes
	base.Provenance.FailureReason = reason
	return base
}
