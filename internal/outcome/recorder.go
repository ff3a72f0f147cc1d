package outcome

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sweepgrid/internal/sweep"
)

// Store is the durable object-storage capability the recorder writes through.
// Writes are full-record overwrites of their key; there is no read path here.
type Store interface {
	Write(ctx context.Context, key string, body []byte) error
}

// Recorder writes partition-keyed outcome records. The clock is injectable so
// tests can pin the date partition.
type Recorder struct {
	store  Store
	prefix string
	now    func() time.Time
}

func NewRecorder(store Store, prefix string) *Recorder {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Recorder{store: store, prefix: prefix, now: time.Now}
}

// WithClock replaces the recorder's clock. Test hook.
func (r *Recorder) WithClock(now func() time.Time) *Recorder {
	r.now = now
	return r
}

// RecordSuccess writes the success record for a completed shard and returns
// its key.
func (r *Recorder) RecordSuccess(ctx context.Context, task *sweep.ShardTask, summary sweep.ShardSummary) (string, error) {
	now := r.now().UTC()
	key := RecordKey(r.prefix, task.RunID, StatusSuccess, now, task.ShardID)
	record := Record{
		RunID:         task.RunID,
		ShardID:       task.ShardID,
		Status:        StatusSuccess,
		StartIndex:    task.StartIndex,
		EndIndex:      task.EndIndex,
		EventTime:     now.Format(time.RFC3339),
		SchemaVersion: sweep.OutcomeRecordSchemaVersion,
		OutputMeta: &OutputMetadata{
			ResultKey:       key,
			PointsProcessed: summary.PointsProcessed,
			Format:          "json",
			Summary:         summary,
		},
	}
	return key, r.write(ctx, key, record)
}

// RecordFailure writes the failure record for a failed shard attempt and
// returns its key. Callers re-raise the original error afterwards; a write
// failure here is reported distinctly so it cannot mask the original cause.
func (r *Recorder) RecordFailure(ctx context.Context, task *sweep.ShardTask, errorCode, errorMessage string) (string, error) {
	now := r.now().UTC()
	key := RecordKey(r.prefix, task.RunID, StatusFailure, now, task.ShardID)
	record := Record{
		RunID:         task.RunID,
		ShardID:       task.ShardID,
		Status:        StatusFailure,
		StartIndex:    task.StartIndex,
		EndIndex:      task.EndIndex,
		EventTime:     now.Format(time.RFC3339),
		SchemaVersion: sweep.OutcomeRecordSchemaVersion,
		ErrorCode:     errorCode,
		ErrorMessage:  errorMessage,
	}
	return key, r.write(ctx, key, record)
}

// RecordPointMetrics writes one per-point metrics object under the shard's
// success partition.
func (r *Recorder) RecordPointMetrics(ctx context.Context, task *sweep.ShardTask, pointIndex int, point sweep.Point, metrics sweep.PointMetrics) (string, error) {
	key := PointMetricsKey(r.prefix, task.RunID, StatusSuccess, r.now().UTC(), task.ShardID, pointIndex)
	record := PointRecord{
		RunID:      task.RunID,
		ShardID:    task.ShardID,
		PointIndex: pointIndex,
		Point:      point,
		Metrics:    metrics,
	}
	return key, r.write(ctx, key, record)
}

func (r *Recorder) write(ctx context.Context, key string, record any) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("serialize outcome record: %w", err)
	}
	if err := r.store.Write(ctx, key, body); err != nil {
		return fmt.Errorf("persist outcome record %s: %w", key, err)
	}
	return nil
}
