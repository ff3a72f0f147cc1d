package executor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"sweepgrid/internal/outcome"
	"sweepgrid/internal/sweep"
)

// Error codes carried on failure outcome records.
const (
	CodeShardBounds     = "shard_bounds_error"
	CodeInjectedFailure = "injected_failure"
	CodeExecutionError  = "execution_error"
)

const productCacheSize = 32

// TaskError rejects a structurally invalid shard task (missing or mistyped
// fields) before any execution or record write.
type TaskError struct {
	msg string
}

func (e *TaskError) Error() string { return e.msg }

// shardError is an execution-time failure that has a failure record written
// for it before it propagates.
type shardError struct {
	code string
	msg  string
}

func (e *shardError) Error() string { return e.msg }

// Config tunes executor behavior beyond the required contract.
type Config struct {
	// ExportPointMetrics additionally writes one metrics object per evaluated
	// point under the shard's success partition.
	ExportPointMetrics bool
}

// Result is the success acknowledgement of one shard execution.
type Result struct {
	ShardID    int                `json:"shard_id"`
	Status     string             `json:"status"`
	OutcomeKey string             `json:"outcome_key"`
	Summary    sweep.ShardSummary `json:"summary"`
}

// Executor runs one shard task end to end: reconstruct the parameter space,
// evaluate the task's slice, and record exactly one outcome per attempt.
// Shards are fully independent; an Executor holds no cross-shard state beyond
// a cache of reconstructed products.
type Executor struct {
	recorder *outcome.Recorder
	cfg      Config
	products *lru.Cache[string, []sweep.Point]
}

func New(recorder *outcome.Recorder, cfg Config) (*Executor, error) {
	products, err := lru.New[string, []sweep.Point](productCacheSize)
	if err != nil {
		return nil, err
	}
	return &Executor{recorder: recorder, cfg: cfg, products: products}, nil
}

// ValidateTask checks the structural requirements of a task. Violations are
// rejected without any side effect; they never reach the outcome store.
func (e *Executor) ValidateTask(task *sweep.ShardTask) error {
	switch {
	case task == nil:
		return &TaskError{msg: "task payload is required"}
	case task.RunID == "":
		return &TaskError{msg: "run_id is required"}
	case len(task.Dimensions) == 0:
		return &TaskError{msg: "dimensions are required"}
	case task.TotalPoints <= 0:
		return &TaskError{msg: "total_points must be a positive integer"}
	case task.ShardID < 0:
		return &TaskError{msg: "shard_id must be a non-negative integer"}
	}
	return nil
}

// Execute runs the task. On success it returns the acknowledgement after the
// success record write; on any execution failure it writes a failure record
// first and then returns the original error, leaving retry policy to the
// invoking runtime. One failing shard never affects any other shard.
func (e *Executor) Execute(ctx context.Context, task *sweep.ShardTask) (*Result, error) {
	if err := e.ValidateTask(task); err != nil {
		return nil, err
	}

	startedAt := time.Now()
	log.Printf("shard_started run_id=%s shard_id=%d start_index=%d end_index=%d planned_points=%d",
		task.RunID, task.ShardID, task.StartIndex, task.EndIndex, task.EndIndex-task.StartIndex)

	result, err := e.run(ctx, task)
	if err != nil {
		return nil, e.recordFailure(ctx, task, startedAt, err)
	}

	elapsed := time.Since(startedAt)
	log.Printf("shard_completed run_id=%s shard_id=%d points_processed=%d duration_ms=%d points_per_second=%.1f outcome_key=%s",
		task.RunID, task.ShardID, result.Summary.PointsProcessed, elapsed.Milliseconds(),
		pointsPerSecond(result.Summary.PointsProcessed, elapsed), result.OutcomeKey)
	return result, nil
}

func (e *Executor) run(ctx context.Context, task *sweep.ShardTask) (*Result, error) {
	product, err := e.product(task.Dimensions)
	if err != nil {
		return nil, &shardError{code: CodeExecutionError, msg: err.Error()}
	}

	if len(product) != task.TotalPoints {
		return nil, &shardError{code: CodeShardBounds, msg: fmt.Sprintf(
			"total_points=%d does not match reconstructed parameter space of %d points", task.TotalPoints, len(product))}
	}
	if task.StartIndex < 0 || task.StartIndex >= task.EndIndex || task.EndIndex > len(product) {
		return nil, &shardError{code: CodeShardBounds, msg: fmt.Sprintf(
			"invalid shard bounds [%d, %d) over %d points", task.StartIndex, task.EndIndex, len(product))}
	}
	if task.ShardID >= task.TotalPoints {
		return nil, &shardError{code: CodeShardBounds, msg: "shard_id must be less than total_points"}
	}

	for _, injected := range task.FailureInjectionShards {
		if injected == task.ShardID {
			return nil, &shardError{code: CodeInjectedFailure, msg: "injected shard failure for verification"}
		}
	}

	var summary sweep.ShardSummary
	for index := task.StartIndex; index < task.EndIndex; index++ {
		point := product[index]
		metrics, err := sweep.Evaluate(task.RunID, task.ShardID, point, task.Seed)
		if err != nil {
			return nil, &shardError{code: CodeExecutionError, msg: fmt.Sprintf("evaluate point %d: %v", index, err)}
		}
		summary.Add(metrics)

		if e.cfg.ExportPointMetrics {
			if _, err := e.recorder.RecordPointMetrics(ctx, task, index, point, metrics); err != nil {
				return nil, &shardError{code: CodeExecutionError, msg: fmt.Sprintf("export point %d metrics: %v", index, err)}
			}
		}
	}

	key, err := e.recorder.RecordSuccess(ctx, task, summary)
	if err != nil {
		return nil, &shardError{code: CodeExecutionError, msg: err.Error()}
	}

	return &Result{
		ShardID:    task.ShardID,
		Status:     "ok",
		OutcomeKey: key,
		Summary:    summary,
	}, nil
}

// recordFailure writes the failure record and returns the original error. A
// failed record write is joined onto the original error rather than replacing
// it, so the root cause stays visible.
func (e *Executor) recordFailure(ctx context.Context, task *sweep.ShardTask, startedAt time.Time, cause error) error {
	code := CodeExecutionError
	var serr *shardError
	if errors.As(cause, &serr) {
		code = serr.code
	}

	log.Printf("shard_failed run_id=%s shard_id=%d duration_ms=%d error_code=%s error=%v",
		task.RunID, task.ShardID, time.Since(startedAt).Milliseconds(), code, cause)

	if _, err := e.recorder.RecordFailure(ctx, task, code, cause.Error()); err != nil {
		return errors.Join(cause, fmt.Errorf("record shard failure: %w", err))
	}
	return cause
}

// product returns the full ordered Cartesian product for the dimensions,
// reusing a cached copy when another shard of the same run already built it.
func (e *Executor) product(d sweep.Dimensions) ([]sweep.Point, error) {
	canonical, err := sweep.CanonicalJSON(d)
	if err != nil {
		return nil, fmt.Errorf("serialize dimensions: %w", err)
	}
	key := string(canonical)
	if product, ok := e.products.Get(key); ok {
		return product, nil
	}
	product := sweep.EnumeratePoints(d)
	e.products.Add(key, product)
	return product, nil
}

func pointsPerSecond(points int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return float64(points)
	}
	return float64(points) / elapsed.Seconds()
}
