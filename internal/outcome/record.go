package outcome

import (
	"sweepgrid/internal/sweep"
)

// Record is the durable success/failure artifact of one shard execution
// attempt. It is written exactly once per attempt and never mutated; a
// retried attempt overwrites the same key (last write wins).
type Record struct {
	RunID         string          `json:"run_id"`
	ShardID       int             `json:"shard_id"`
	Status        string          `json:"status"`
	StartIndex    int             `json:"start_index"`
	EndIndex      int             `json:"end_index"`
	EventTime     string          `json:"event_time"`
	SchemaVersion string          `json:"schema_version"`
	OutputMeta    *OutputMetadata `json:"output_metadata,omitempty"`
	ErrorCode     string          `json:"error_code,omitempty"`
	ErrorMessage  string          `json:"error_message,omitempty"`
}

// OutputMetadata describes what a successful shard produced.
type OutputMetadata struct {
	ResultKey       string             `json:"result_key"`
	PointsProcessed int                `json:"points_processed"`
	Format          string             `json:"format"`
	Summary         sweep.ShardSummary `json:"summary"`
}

// PointRecord is the optional per-point metrics export body.
type PointRecord struct {
	RunID      string             `json:"run_id"`
	ShardID    int                `json:"shard_id"`
	PointIndex int                `json:"point_index"`
	Point      sweep.Point        `json:"point"`
	Metrics    sweep.PointMetrics `json:"metrics"`
}
