package sweep

import (
	"fmt"
	"sort"
)

const (
	// OrchestrationSchemaVersion tags coordinator responses and shard tasks.
	OrchestrationSchemaVersion = "v1"
	// OutcomeRecordSchemaVersion tags durable outcome records.
	OutcomeRecordSchemaVersion = "v1"

	// MaxDimensionValues bounds the value count of a single dimension.
	MaxDimensionValues = 10_000
	// MaxTotalParameterPoints bounds the flattened index space of one request.
	MaxTotalParameterPoints = 200_000
	// DefaultMaxShards is used when a request does not set max_shards.
	DefaultMaxShards = 1_000
)

// Dimensions maps a dimension name to its ordered candidate values.
// Iteration order is always the lexicographically sorted names, so the
// flattened index space does not depend on input key order.
type Dimensions map[string][]any

// SortedNames returns the dimension names in lexicographic order.
func (d Dimensions) SortedNames() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Request is the inbound sweep description before normalization.
// Pointer fields distinguish "absent" from zero.
type Request struct {
	RunID                  string     `json:"run_id"`
	Dimensions             Dimensions `json:"dimensions"`
	ShardCount             *int       `json:"shard_count,omitempty"`
	ShardSize              *int       `json:"shard_size,omitempty"`
	MaxShards              *int       `json:"max_shards,omitempty"`
	Seed                   int64      `json:"seed"`
	FailureInjectionShards []int      `json:"failure_injection_shards,omitempty"`
}

// NormalizedRequest is the validated form of a Request: run_id trimmed,
// total_points computed, failure shards sorted and deduplicated.
type NormalizedRequest struct {
	RunID                  string     `json:"run_id"`
	Dimensions             Dimensions `json:"dimensions"`
	TotalPoints            int        `json:"total_points"`
	ShardCount             *int       `json:"shard_count"`
	ShardSize              *int       `json:"shard_size"`
	MaxShards              int        `json:"max_shards"`
	Seed                   int64      `json:"seed"`
	FailureInjectionShards []int      `json:"failure_injection_shards"`
}

// ShardBounds is a half-open range over the flattened index space.
type ShardBounds struct {
	ShardID    int `json:"shard_id"`
	StartIndex int `json:"start_index"`
	EndIndex   int `json:"end_index"`
}

// Size returns the number of points covered by the bounds.
func (b ShardBounds) Size() int {
	return b.EndIndex - b.StartIndex
}

// ShardTask is the self-contained payload handed to a worker. It duplicates
// the dimensions because parent and child share no memory.
type ShardTask struct {
	RunID                  string     `json:"run_id"`
	Dimensions             Dimensions `json:"dimensions"`
	TotalPoints            int        `json:"total_points"`
	ShardID                int        `json:"shard_id"`
	StartIndex             int        `json:"start_index"`
	EndIndex               int        `json:"end_index"`
	Seed                   int64      `json:"seed"`
	FailureInjectionShards []int      `json:"failure_injection_shards"`
}

// DispatchRecord is one entry of the per-shard dispatch manifest.
type DispatchRecord struct {
	ShardID    int `json:"shard_id"`
	StatusCode int `json:"status_code"`
}

// AcceptedResponse is the coordinator's 202 body.
type AcceptedResponse struct {
	RunID              string           `json:"run_id"`
	TotalPoints        int              `json:"total_points"`
	ShardsDispatched   int              `json:"shards_dispatched"`
	Dispatches         []DispatchRecord `json:"dispatches"`
	Status             string           `json:"status"`
	SchemaVersion      string           `json:"schema_version"`
	RequestFingerprint string           `json:"request_fingerprint"`
}

// PointMetrics is the synthetic result of evaluating one parameter point.
type PointMetrics struct {
	CompletedRides       int64 `json:"completed_rides"`
	AbandonedRides       int64 `json:"abandoned_rides"`
	PlatformRevenueCents int64 `json:"platform_revenue_cents"`
}

// ShardSummary aggregates the metrics of every point in a shard.
type ShardSummary struct {
	PointsProcessed      int   `json:"points_processed"`
	CompletedRides       int64 `json:"completed_rides"`
	AbandonedRides       int64 `json:"abandoned_rides"`
	PlatformRevenueCents int64 `json:"platform_revenue_cents"`
}

// Add folds one point's metrics into the summary.
func (s *ShardSummary) Add(m PointMetrics) {
	s.PointsProcessed++
	s.CompletedRides += m.CompletedRides
	s.AbandonedRides += m.AbandonedRides
	s.PlatformRevenueCents += m.PlatformRevenueCents
}

// ValidationError rejects a malformed or oversized request. It is an expected,
// user-fixable condition and never carries side effects.
type ValidationError struct {
	msg string
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string { return e.msg }

// InvariantError reports a defensive check failure inside the partitioner.
// It signals a programming error, not bad user input.
type InvariantError struct {
	msg string
}

func NewInvariantError(format string, args ...any) *InvariantError {
	return &InvariantError{msg: fmt.Sprintf(format, args...)}
}

func (e *InvariantError) Error() string { return e.msg }
