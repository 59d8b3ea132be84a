package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/loykin/vmhuntr/internal/config"
	"github.com/loykin/vmhuntr/internal/hunter"
	"github.com/loykin/vmhuntr/internal/metrics"
)

// Router provides embeddable HTTP handlers for driving a capacity hunt.
// Endpoints:
//   GET  {basePath}/                 minimal status page
//   POST {basePath}/api/start        begin a hunt (409 if already running)
//   POST {basePath}/api/stop         request cooperative stop (400 if idle)
//   GET  {basePath}/api/status       current snapshot
//   GET  {basePath}/api/logs?since=N log suffix + total, for polling clients
//   GET  {basePath}/api/stream       SSE feed of logs and status changes
//   GET  {basePath}/api/config       per-key presence booleans, never values
//   GET  {basePath}/metrics          Prometheus metrics
// basePath may be empty or start with '/'; no trailing slash.

// streamInterval is the push cadence of the event stream.
const defaultStreamInterval = 500 * time.Millisecond

type Router struct {
	h              *hunter.Hunter
	basePath       string
	loadConfig     func() *config.Config
	streamInterval time.Duration
}

// NewRouter constructs a Router with configurable basePath.
func NewRouter(h *hunter.Hunter, basePath string) *Router {
	return &Router{
		h:              h,
		basePath:       sanitizeBase(basePath),
		loadConfig:     config.FromEnv,
		streamInterval: defaultStreamInterval,
	}
}

// Handler returns an http.Handler powered by gin that can be mounted in any server/mux.
func (r *Router) Handler() http.Handler {
	g := gin.New()
	g.Use(gin.Recovery())
	g.GET(pathOr(r.basePath, "/"), r.handleIndex)
	g.GET(r.basePath+"/metrics", gin.WrapH(metrics.Handler()))
	api := g.Group(r.basePath + "/api")
	api.POST("/start", r.handleStart)
	api.POST("/stop", r.handleStop)
	api.GET("/status", r.handleStatus)
	api.GET("/logs", r.handleLogs)
	api.GET("/stream", r.handleStream)
	api.GET("/config", r.handleConfig)
	return g
}

// NewServer starts a standalone HTTP server on addr using this router.
// Close the returned server to shut it down.
func NewServer(addr, basePath string, h *hunter.Hunter) (*http.Server, error) {
	r := NewRouter(h, basePath)
	server := &http.Server{
		Addr:              addr,
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
		// No WriteTimeout: /api/stream connections are long-lived.
	}
	go func() { _ = server.ListenAndServe() }()
	return server, nil
}

// --- Handlers ---

type errorResp struct {
	Error string `json:"error"`
}

type okResp struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

func (r *Router) handleStart(c *gin.Context) {
	if err := r.h.Start(); err != nil {
		code := http.StatusBadRequest
		if errors.Is(err, hunter.ErrAlreadyRunning) {
			code = http.StatusConflict
		}
		writeJSON(c, code, errorResp{Error: err.Error()})
		return
	}
	writeJSON(c, http.StatusOK, okResp{OK: true, Message: "started"})
}

func (r *Router) handleStop(c *gin.Context) {
	if err := r.h.Stop(); err != nil {
		writeJSON(c, http.StatusBadRequest, errorResp{Error: err.Error()})
		return
	}
	writeJSON(c, http.StatusOK, okResp{OK: true, Message: "stop requested"})
}

func (r *Router) handleStatus(c *gin.Context) {
	writeJSON(c, http.StatusOK, r.h.Status())
}

type logsResp struct {
	Logs  []hunter.Entry `json:"logs"`
	Total int            `json:"total"`
}

func (r *Router) handleLogs(c *gin.Context) {
	since := 0
	if s := c.Query("since"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeJSON(c, http.StatusBadRequest, errorResp{Error: "since must be a non-negative integer"})
			return
		}
		since = n
	}
	logs, total := r.h.LogsSince(since)
	writeJSON(c, http.StatusOK, logsResp{Logs: logs, Total: total})
}

type configResp struct {
	Configured map[string]bool `json:"configured"`
}

func (r *Router) handleConfig(c *gin.Context) {
	cfg := r.loadConfig()
	writeJSON(c, http.StatusOK, configResp{Configured: cfg.Configured()})
}

func (r *Router) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexHTML))
}
