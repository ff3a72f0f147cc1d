package sweep

// ComputeShardPlan converts a normalized request into contiguous, gapless,
// non-overlapping shard bounds covering [0, total_points).
//
// shard_count resolution: an explicit shard_count is clamped to total_points
// (never more shards than points); otherwise it is derived from shard_size as
// ceil(total_points / shard_size). The first total_points % shard_count shards
// carry one extra point, which is the unique contiguous split with sizes
// differing by at most one and the larger shards first.
func ComputeShardPlan(req *NormalizedRequest) ([]ShardBounds, error) {
	totalPoints := req.TotalPoints

	var shardCount int
	switch {
	case req.ShardCount != nil:
		shardCount = min(*req.ShardCount, totalPoints)
	case req.ShardSize != nil:
		shardCount = (totalPoints + *req.ShardSize - 1) / *req.ShardSize
	default:
		return nil, NewValidationError("either shard_count or shard_size is required")
	}

	if shardCount <= 0 {
		return nil, NewValidationError("no shards to process")
	}
	if shardCount > req.MaxShards {
		return nil, NewValidationError("computed shard count %d exceeds max_shards=%d", shardCount, req.MaxShards)
	}

	baseSize := totalPoints / shardCount
	remainder := totalPoints % shardCount

	bounds := make([]ShardBounds, 0, shardCount)
	cursor := 0
	for shardID := 0; shardID < shardCount; shardID++ {
		size := baseSize
		if shardID < remainder {
			size++
		}
		bounds = append(bounds, ShardBounds{
			ShardID:    shardID,
			StartIndex: cursor,
			EndIndex:   cursor + size,
		})
		cursor += size
	}

	if err := verifyCoverage(totalPoints, bounds); err != nil {
		return nil, err
	}
	return bounds, nil
}

// verifyCoverage re-checks the plan before it leaves the partitioner. A
// failure here is a programming error, never a consequence of user input.
func verifyCoverage(totalPoints int, bounds []ShardBounds) error {
	if len(bounds) == 0 {
		return NewInvariantError("shard plan is empty")
	}
	if bounds[0].StartIndex != 0 || bounds[len(bounds)-1].EndIndex != totalPoints {
		return NewInvariantError("shard boundaries do not cover full parameter space")
	}
	for i := 1; i < len(bounds); i++ {
		if bounds[i-1].EndIndex != bounds[i].StartIndex {
			return NewInvariantError("shard boundaries overlap or leave gaps")
		}
	}
	return nil
}
