package outcome

import (
	"fmt"
	"strings"
	"time"
)

// Outcome status partitions. A shard execution attempt lands in exactly one.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// DefaultPrefix is used when no outcome key prefix is configured.
const DefaultPrefix = "sweeps/outcomes"

// RecordKey builds the partitioned key of a shard outcome record:
//
//	{prefix}/run_id={run_id}/status={status}/date={YYYY-MM-DD}/shard_id={shard_id}.json
//
// The layout supports partition-pruned querying by run, status and date. Keys
// are deterministic per (run_id, status, date, shard_id), so re-running a
// shard overwrites its record rather than appending a duplicate.
func RecordKey(prefix, runID, status string, date time.Time, shardID int) string {
	return fmt.Sprintf("%s/run_id=%s/status=%s/date=%s/shard_id=%d.json",
		strings.Trim(prefix, "/"), runID, status, date.UTC().Format("2006-01-02"), shardID)
}

// PointMetricsKey builds the key of a per-point metrics object, one partition
// level below the shard's record:
//
//	{prefix}/run_id={run_id}/status={status}/date={YYYY-MM-DD}/shard_id={shard_id}/point_index={point_index}.json
func PointMetricsKey(prefix, runID, status string, date time.Time, shardID, pointIndex int) string {
	return fmt.Sprintf("%s/run_id=%s/status=%s/date=%s/shard_id=%d/point_index=%d.json",
		strings.Trim(prefix, "/"), runID, status, date.UTC().Format("2006-01-02"), shardID, pointIndex)
}
