package sweep

import (
	"errors"
	"strings"
	"testing"
)

func normalizedFor(t *testing.T, totalValues int, shardCount, shardSize, maxShards *int) *NormalizedRequest {
	t.Helper()
	values := make([]any, totalValues)
	for i := range values {
		values[i] = i
	}
	req := Request{
		RunID:      "plan-test",
		Dimensions: Dimensions{"v": values},
		ShardCount: shardCount,
		ShardSize:  shardSize,
		MaxShards:  maxShards,
	}
	normalized, err := Normalize(req)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	return normalized
}

func assertExactCoverage(t *testing.T, totalPoints int, bounds []ShardBounds) {
	t.Helper()
	if len(bounds) == 0 {
		t.Fatalf("empty plan")
	}
	if bounds[0].StartIndex != 0 {
		t.Fatalf("first start = %d, want 0", bounds[0].StartIndex)
	}
	if bounds[len(bounds)-1].EndIndex != totalPoints {
		t.Fatalf("last end = %d, want %d", bounds[len(bounds)-1].EndIndex, totalPoints)
	}
	sum := 0
	for i, b := range bounds {
		if b.ShardID != i {
			t.Fatalf("shard_id[%d] = %d, want %d", i, b.ShardID, i)
		}
		if b.Size() <= 0 {
			t.Fatalf("shard %d has non-positive size %d", i, b.Size())
		}
		if i > 0 && bounds[i-1].EndIndex != b.StartIndex {
			t.Fatalf("gap or overlap between shard %d and %d", i-1, i)
		}
		sum += b.Size()
	}
	if sum != totalPoints {
		t.Fatalf("sizes sum to %d, want %d", sum, totalPoints)
	}
}

func TestComputeShardPlanExactCoverage(t *testing.T) {
	for _, tc := range []struct{ totalPoints, shardCount int }{
		{1, 1}, {6, 4}, {10, 3}, {100, 7}, {100, 100}, {17, 5}, {200, 1},
	} {
		req := normalizedFor(t, tc.totalPoints, intPtr(tc.shardCount), nil, nil)
		bounds, err := ComputeShardPlan(req)
		if err != nil {
			t.Fatalf("plan(%d,%d): %v", tc.totalPoints, tc.shardCount, err)
		}
		assertExactCoverage(t, tc.totalPoints, bounds)
	}
}

func TestComputeShardPlanLargerShardsFirst(t *testing.T) {
	// 6 points over 4 shards: base 1, remainder 2, so sizes 2,2,1,1 and
	// bounds [0,2) [2,4) [4,5) [5,6).
	req := normalizedFor(t, 6, intPtr(4), nil, nil)
	bounds, err := ComputeShardPlan(req)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	want := []ShardBounds{
		{ShardID: 0, StartIndex: 0, EndIndex: 2},
		{ShardID: 1, StartIndex: 2, EndIndex: 4},
		{ShardID: 2, StartIndex: 4, EndIndex: 5},
		{ShardID: 3, StartIndex: 5, EndIndex: 6},
	}
	if len(bounds) != len(want) {
		t.Fatalf("got %d shards, want %d", len(bounds), len(want))
	}
	for i := range want {
		if bounds[i] != want[i] {
			t.Fatalf("bounds[%d] = %+v, want %+v", i, bounds[i], want[i])
		}
	}
}

func TestComputeShardPlanDerivesCountFromSize(t *testing.T) {
	// ceil(10 / 3) = 4 shards.
	req := normalizedFor(t, 10, nil, intPtr(3), nil)
	bounds, err := ComputeShardPlan(req)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(bounds) != 4 {
		t.Fatalf("got %d shards, want 4", len(bounds))
	}
	assertExactCoverage(t, 10, bounds)
}

func TestComputeShardPlanClampsCountToPoints(t *testing.T) {
	req := normalizedFor(t, 3, intPtr(10), nil, nil)
	bounds, err := ComputeShardPlan(req)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(bounds) != 3 {
		t.Fatalf("got %d shards, want clamp to 3", len(bounds))
	}
	assertExactCoverage(t, 3, bounds)
}

func TestComputeShardPlanRejectsExcessiveShards(t *testing.T) {
	req := normalizedFor(t, 5, nil, intPtr(1), intPtr(2))
	_, err := ComputeShardPlan(req)
	if err == nil || !strings.Contains(err.Error(), "max_shards=2") {
		t.Fatalf("err = %v, want max_shards rejection", err)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err type = %T, want *ValidationError", err)
	}
}

func TestComputeShardPlanIsDeterministic(t *testing.T) {
	req := normalizedFor(t, 97, intPtr(13), nil, nil)
	a, err := ComputeShardPlan(req)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	b, err := ComputeShardPlan(req)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("plans differ at %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}
