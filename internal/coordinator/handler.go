package coordinator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"sweepgrid/internal/dispatch"
	"sweepgrid/internal/server"
	"sweepgrid/internal/sweep"
)

// Handler is the parent role: validate an inbound sweep request, partition it
// into shards, and fire one async dispatch per shard. It keeps no handle to
// in-flight shards and never writes to the outcome store.
type Handler struct {
	invoker      dispatch.Invoker
	workerTarget string
}

func NewHandler(invoker dispatch.Invoker, workerTarget string) *Handler {
	return &Handler{invoker: invoker, workerTarget: workerTarget}
}

// Response pairs the transport status code with its JSON body.
type Response struct {
	StatusCode int
	Body       any
}

func (h *Handler) HandleSweep(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		server.WriteJSON(w, http.StatusMethodNotAllowed, map[string]any{
			"error":   "method_not_allowed",
			"message": "use POST",
		})
		return
	}
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		server.WriteJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "validation_error",
			"message": "failed to read request body",
		})
		return
	}
	resp := h.Submit(r.Context(), payload)
	server.WriteJSON(w, resp.StatusCode, resp.Body)
}

// Submit runs the full parent flow on a raw payload. Validation and
// configuration failures produce structured responses with zero side effects;
// only a fully validated, partitioned request reaches the dispatch loop.
func (h *Handler) Submit(ctx context.Context, payload []byte) Response {
	object, err := extractRequestObject(payload)
	if err != nil {
		return validationErrorResponse(err.Error())
	}

	var req sweep.Request
	dec := json.NewDecoder(bytes.NewReader(object))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		return validationErrorResponse("malformed request: " + err.Error())
	}

	normalized, err := sweep.Normalize(req)
	if err != nil {
		return validationErrorResponse(err.Error())
	}

	target := strings.TrimSpace(h.workerTarget)
	if target == "" {
		return Response{StatusCode: http.StatusInternalServerError, Body: map[string]any{
			"error":   "misconfiguration",
			"message": "worker target must be configured",
		}}
	}

	fingerprint, err := sweep.Fingerprint(normalized)
	if err != nil {
		return internalErrorResponse(err)
	}

	plan, err := sweep.ComputeShardPlan(normalized)
	if err != nil {
		var verr *sweep.ValidationError
		if errors.As(err, &verr) {
			return validationErrorResponse(verr.Error())
		}
		return internalErrorResponse(err)
	}

	dispatches := make([]sweep.DispatchRecord, 0, len(plan))
	for _, bounds := range plan {
		task := sweep.ShardTask{
			RunID:                  normalized.RunID,
			Dimensions:             normalized.Dimensions,
			TotalPoints:            normalized.TotalPoints,
			ShardID:                bounds.ShardID,
			StartIndex:             bounds.StartIndex,
			EndIndex:               bounds.EndIndex,
			Seed:                   normalized.Seed,
			FailureInjectionShards: normalized.FailureInjectionShards,
		}
		body, err := sweep.CanonicalJSON(task)
		if err != nil {
			return internalErrorResponse(fmt.Errorf("serialize shard task: %w", err))
		}

		statusCode, err := h.invoker.Invoke(ctx, target, body)
		if err != nil {
			// No automatic retry: abort the remaining loop and let the
			// caller re-submit the whole request.
			log.Printf("dispatch run_id=%s shard_id=%d failed: %v", normalized.RunID, bounds.ShardID, err)
			return Response{StatusCode: http.StatusBadGateway, Body: map[string]any{
				"error":               "dispatch_failed",
				"message":             err.Error(),
				"dispatch_target":     target,
				"request_fingerprint": fingerprint,
			}}
		}
		dispatches = append(dispatches, sweep.DispatchRecord{ShardID: bounds.ShardID, StatusCode: statusCode})
	}

	log.Printf("sweep_accepted run_id=%s total_points=%d shards_dispatched=%d",
		normalized.RunID, normalized.TotalPoints, len(dispatches))
	return Response{StatusCode: http.StatusAccepted, Body: sweep.AcceptedResponse{
		RunID:              normalized.RunID,
		TotalPoints:        normalized.TotalPoints,
		ShardsDispatched:   len(dispatches),
		Dispatches:         dispatches,
		Status:             "dispatch_submitted",
		SchemaVersion:      sweep.OrchestrationSchemaVersion,
		RequestFingerprint: fingerprint,
	}}
}

// extractRequestObject unwraps the optional transport envelope: a payload may
// be the bare request object, or an envelope whose "body" field holds the
// object directly or as an encoded JSON string.
func extractRequestObject(payload []byte) (json.RawMessage, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("request payload must be a JSON object")
	}

	body, ok := envelope["body"]
	if !ok {
		return payload, nil
	}

	trimmed := bytes.TrimSpace(body)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		return json.RawMessage("{}"), nil
	case len(trimmed) > 0 && trimmed[0] == '{':
		return body, nil
	case len(trimmed) > 0 && trimmed[0] == '"':
		var text string
		if err := json.Unmarshal(body, &text); err != nil {
			return nil, fmt.Errorf("malformed JSON body: %v", err)
		}
		inner := json.RawMessage(text)
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(inner, &probe); err != nil {
			return nil, fmt.Errorf("malformed JSON body: %v", err)
		}
		return inner, nil
	default:
		return nil, fmt.Errorf("request body must be a JSON object")
	}
}

func validationErrorResponse(message string) Response {
	return Response{StatusCode: http.StatusBadRequest, Body: map[string]any{
		"error":   "validation_error",
		"message": message,
	}}
}

func internalErrorResponse(err error) Response {
	return Response{StatusCode: http.StatusInternalServerError, Body: map[string]any{
		"error":   "internal_error",
		"message": err.Error(),
	}}
}
