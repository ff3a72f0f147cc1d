package dispatch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Invoker is the async-dispatch capability the coordinator consumes: hand one
// serialized shard task to a worker target and return the acknowledgement
// status. Implementations must not block on shard completion.
type Invoker interface {
	Invoke(ctx context.Context, target string, payload []byte) (int, error)
}

// HTTPInvoker posts shard tasks to a worker URL. The worker acknowledges with
// 202 before executing, so a successful call only means the task was accepted.
type HTTPInvoker struct {
	client *http.Client
}

func NewHTTPInvoker(client *http.Client) *HTTPInvoker {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPInvoker{client: client}
}

func (i *HTTPInvoker) Invoke(ctx context.Context, target string, payload []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("build shard invocation: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := i.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("invoke worker %s: %w", target, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusMultipleChoices {
		return resp.StatusCode, fmt.Errorf("worker %s rejected shard task: status %d", target, resp.StatusCode)
	}
	return resp.StatusCode, nil
}
