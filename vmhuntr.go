package vmhuntr

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/loykin/vmhuntr/internal/compute"
	cfg "github.com/loykin/vmhuntr/internal/config"
	"github.com/loykin/vmhuntr/internal/hunter"
	"github.com/loykin/vmhuntr/internal/metrics"
	iapi "github.com/loykin/vmhuntr/internal/server"
)

// Re-export core types for external consumers.
// These are aliases so conversions are zero-cost.

type Config = cfg.Config

type Status = hunter.Status

type LogEntry = hunter.Entry

type Outcome = compute.Outcome

type InstanceDetails = compute.InstanceDetails

// Options configures an embedded Hunter.
type Options = hunter.Options

// Hunter is a thin facade over internal/hunter.Hunter.
// It provides a stable public API for embedding.

type Hunter struct{ inner *hunter.Hunter }

func New() *Hunter { return &Hunter{inner: hunter.New(hunter.Options{})} }

func NewWithOptions(opts Options) *Hunter { return &Hunter{inner: hunter.New(opts)} }

func (h *Hunter) Start() error                          { return h.inner.Start() }
func (h *Hunter) Stop() error                           { return h.inner.Stop() }
func (h *Hunter) Shutdown(ctx context.Context) error    { return h.inner.Shutdown(ctx) }
func (h *Hunter) Running() bool                         { return h.inner.Running() }
func (h *Hunter) Status() Status                        { return h.inner.Status() }
func (h *Hunter) LogsSince(since int) ([]LogEntry, int) { return h.inner.LogsSince(since) }

// LoadConfig reads the OCI_* environment into an immutable Config snapshot.
func LoadConfig() *Config { return cfg.FromEnv() }

// LoadEnvFile exports KEY=VALUE pairs from a .env file into the process
// environment without overwriting existing variables.
func LoadEnvFile(path string) error { return cfg.LoadEnvFile(path) }

// NewHTTPServer starts an HTTP server exposing the API for the given hunter.
func NewHTTPServer(addr, basePath string, h *Hunter) (*http.Server, error) {
	return iapi.NewServer(addr, basePath, h.inner)
}

// NewRouter returns a mountable http.Handler for embedding into an existing server.
func NewRouter(basePath string, h *Hunter) http.Handler {
	return iapi.NewRouter(h.inner, basePath).Handler()
}

// Metrics helpers (public facade)

func RegisterMetrics(r prometheus.Registerer) error { return metrics.Register(r) }
func RegisterMetricsDefault() error                 { return metrics.Register(prometheus.DefaultRegisterer) }

// ServeMetrics starts an HTTP server on addr exposing /metrics using the default registry.
// It returns any immediate listen error; otherwise it runs the server in the caller goroutine.
func ServeMetrics(addr string) error {
	http.Handle("/metrics", metrics.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           nil,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv.ListenAndServe()
}
