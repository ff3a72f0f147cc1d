package sweep

import (
	"sort"
	"strings"
)

// Normalize validates an inbound request and returns its normalized form.
// All rules are independent and side-effect free; the first violation wins.
// The running total_points product is checked incrementally so an oversized
// request fails before the full product is materialized anywhere.
func Normalize(req Request) (*NormalizedRequest, error) {
	runID := strings.TrimSpace(req.RunID)
	if runID == "" {
		return nil, NewValidationError("run_id cannot be empty")
	}

	if len(req.Dimensions) == 0 {
		return nil, NewValidationError("dimensions cannot be empty")
	}

	totalPoints := 1
	for _, name := range req.Dimensions.SortedNames() {
		if strings.TrimSpace(name) == "" {
			return nil, NewValidationError("dimension names must be non-empty strings")
		}
		values := req.Dimensions[name]
		if len(values) == 0 {
			return nil, NewValidationError("dimension %q must be a non-empty list", name)
		}
		if len(values) > MaxDimensionValues {
			return nil, NewValidationError("dimension %q exceeds MAX_DIMENSION_VALUES=%d", name, MaxDimensionValues)
		}
		totalPoints *= len(values)
		if totalPoints > MaxTotalParameterPoints {
			return nil, NewValidationError("parameter space is too large for this deployment (>%d points)", MaxTotalParameterPoints)
		}
	}

	if req.ShardCount == nil && req.ShardSize == nil {
		return nil, NewValidationError("either shard_count or shard_size is required")
	}
	if req.ShardCount != nil && *req.ShardCount <= 0 {
		return nil, NewValidationError("shard_count must be a positive integer")
	}
	if req.ShardSize != nil && *req.ShardSize <= 0 {
		return nil, NewValidationError("shard_size must be a positive integer")
	}

	maxShards := DefaultMaxShards
	if req.MaxShards != nil {
		if *req.MaxShards <= 0 {
			return nil, NewValidationError("max_shards must be a positive integer")
		}
		maxShards = *req.MaxShards
	}

	failureShards := make([]int, 0, len(req.FailureInjectionShards))
	for _, id := range req.FailureInjectionShards {
		if id < 0 {
			return nil, NewValidationError("failure_injection_shards must be non-negative integers")
		}
		failureShards = append(failureShards, id)
	}
	sort.Ints(failureShards)
	failureShards = dedupSorted(failureShards)

	return &NormalizedRequest{
		RunID:                  runID,
		Dimensions:             req.Dimensions,
		TotalPoints:            totalPoints,
		ShardCount:             req.ShardCount,
		ShardSize:              req.ShardSize,
		MaxShards:              maxShards,
		Seed:                   req.Seed,
		FailureInjectionShards: failureShards,
	}, nil
}

func dedupSorted(values []int) []int {
	out := values[:0]
	for i, v := range values {
		if i == 0 || v != values[i-1] {
			out = append(out, v)
		}
	}
	return out
}
