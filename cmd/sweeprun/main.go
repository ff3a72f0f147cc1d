// Command sweeprun plays both roles in one process: it validates and
// partitions a sweep request, executes every shard on in-process goroutines,
// and writes outcome records to a local directory store. Useful for trying a
// sweep without the two services or an object store.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"sweepgrid/internal/coordinator"
	"sweepgrid/internal/dispatch"
	"sweepgrid/internal/executor"
	"sweepgrid/internal/outcome"
	"sweepgrid/internal/store"
)

func main() {
	requestPath := flag.String("request", "-", "sweep request JSON file, or - for stdin")
	outDir := flag.String("out", "sweep-out", "directory outcome records are written under")
	prefix := flag.String("prefix", outcome.DefaultPrefix, "outcome key prefix")
	exportPoints := flag.Bool("export-point-metrics", false, "also write per-point metrics objects")
	flag.Parse()

	payload, err := readRequest(*requestPath)
	if err != nil {
		log.Fatalf("Failed to read request: %v", err)
	}

	localStore, err := store.NewLocalStore(*outDir)
	if err != nil {
		log.Fatalf("Failed to init local store: %v", err)
	}

	exec, err := executor.New(
		outcome.NewRecorder(localStore, *prefix),
		executor.Config{ExportPointMetrics: *exportPoints},
	)
	if err != nil {
		log.Fatalf("Failed to init executor: %v", err)
	}

	invoker := dispatch.NewLocalInvoker(exec)
	handler := coordinator.NewHandler(invoker, "local")

	resp := handler.Submit(context.Background(), payload)
	invoker.Wait()

	body, err := json.MarshalIndent(resp.Body, "", "  ")
	if err != nil {
		log.Fatalf("Failed to render response: %v", err)
	}
	fmt.Println(string(body))

	if resp.StatusCode >= 300 {
		os.Exit(1)
	}
	log.Printf("Outcome records written under %s", localStore.Root())
}

func readRequest(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
