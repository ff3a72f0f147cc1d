package executor

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"sweepgrid/internal/server"
	"sweepgrid/internal/sweep"
)

// Handler is the worker's HTTP surface. It acknowledges a shard task with 202
// and executes it in a background goroutine; the invocation never blocks on
// shard completion. Execution failures surface through the failure outcome
// record and the error log, matching the fire-and-forget dispatch contract.
type Handler struct {
	exec *Executor
}

func NewHandler(exec *Executor) *Handler {
	return &Handler{exec: exec}
}

func (h *Handler) HandleShard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		server.WriteJSON(w, http.StatusMethodNotAllowed, map[string]any{
			"error":   "method_not_allowed",
			"message": "use POST",
		})
		return
	}

	var task sweep.ShardTask
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&task); err != nil {
		server.WriteJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "validation_error",
			"message": "malformed shard task: " + err.Error(),
		})
		return
	}
	if err := h.exec.ValidateTask(&task); err != nil {
		server.WriteJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "validation_error",
			"message": err.Error(),
		})
		return
	}

	go func() {
		if _, err := h.exec.Execute(context.Background(), &task); err != nil {
			log.Printf("shard run_id=%s shard_id=%d execution error: %v", task.RunID, task.ShardID, err)
		}
	}()

	server.WriteJSON(w, http.StatusAccepted, map[string]any{
		"status":   "accepted",
		"run_id":   task.RunID,
		"shard_id": task.ShardID,
	})
}
