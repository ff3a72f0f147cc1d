package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"sweepgrid/internal/outcome"
)

// Config carries the wiring both roles read once at the process boundary.
// Core logic never reads the environment; values flow in as explicit
// parameters from here.
type Config struct {
	Port string
	Env  string

	// WorkerTarget is the URL shard tasks are dispatched to. Required for the
	// coordinator role.
	WorkerTarget string

	// ResultsPrefix is the outcome key prefix.
	ResultsPrefix string

	// ExportPointMetrics turns on the per-point metrics export.
	ExportPointMetrics bool

	Store StoreConfig
}

// StoreConfig describes the S3-compatible outcome store target. Required for
// the worker role.
type StoreConfig struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Load reads configuration from the environment, with .env support for local
// development.
func Load(defaultPort string) (*Config, error) {
	_ = godotenv.Load()

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = defaultPort
	}
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	return &Config{
		Port:               port,
		Env:                env,
		WorkerTarget:       strings.TrimSpace(os.Getenv("SHARD_WORKER_URL")),
		ResultsPrefix:      firstNonEmpty(strings.TrimSpace(os.Getenv("SWEEP_RESULTS_PREFIX")), outcome.DefaultPrefix),
		ExportPointMetrics: parseBool(os.Getenv("SWEEP_EXPORT_POINT_METRICS"), false),
		Store:              loadStoreConfig(env),
	}, nil
}

func loadStoreConfig(env string) StoreConfig {
	return StoreConfig{
		Endpoint:  resolveStoreEndpoint(env),
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("SWEEP_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("SWEEP_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("SWEEP_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    strings.TrimSpace(os.Getenv("SWEEP_RESULTS_BUCKET")),
		UseSSL:    resolveStoreUseSSL(env),
	}
}

func resolveStoreEndpoint(env string) string {
	if strings.EqualFold(env, "local") {
		return firstNonEmpty(strings.TrimSpace(os.Getenv("SWEEP_S3_ENDPOINT")), "minio:9000")
	}
	return strings.TrimSpace(os.Getenv("SWEEP_S3_ENDPOINT"))
}

func resolveStoreUseSSL(env string) bool {
	if strings.EqualFold(env, "local") {
		return false
	}
	return parseBool(os.Getenv("SWEEP_S3_USE_SSL"), true)
}

func parseBool(raw string, fallback bool) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
