package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	"sweepgrid/internal/executor"
	"sweepgrid/internal/sweep"
)

// LocalInvoker executes shard tasks in-process, one goroutine per shard. It
// keeps the fire-and-forget contract: Invoke returns as soon as the task is
// scheduled. Wait blocks until every accepted shard finished, which the local
// runtime uses before exiting.
type LocalInvoker struct {
	exec *executor.Executor
	wg   sync.WaitGroup
}

func NewLocalInvoker(exec *executor.Executor) *LocalInvoker {
	return &LocalInvoker{exec: exec}
}

func (i *LocalInvoker) Invoke(_ context.Context, _ string, payload []byte) (int, error) {
	var task sweep.ShardTask
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	if err := dec.Decode(&task); err != nil {
		return 0, fmt.Errorf("decode shard task: %w", err)
	}

	i.wg.Add(1)
	go func() {
		defer i.wg.Done()
		if _, err := i.exec.Execute(context.Background(), &task); err != nil {
			log.Printf("shard run_id=%s shard_id=%d execution error: %v", task.RunID, task.ShardID, err)
		}
	}()
	return http.StatusAccepted, nil
}

// Wait blocks until all dispatched shards completed.
func (i *LocalInvoker) Wait() {
	i.wg.Wait()
}
