package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/loykin/vmhuntr/internal/hunter"
)

// event is the envelope for every stream message.
type event struct {
	Type string `json:"type"` // "log" or "status"
	Data any    `json:"data"`
}

// handleStream serves a Server-Sent Events feed. Every tick it pushes log
// entries appended since the last push, and a status snapshot whenever it
// differs by value from the previously pushed one. Each connection keeps its
// own delta state and re-reads the authoritative log, so a slow consumer
// accumulates delay instead of dropping messages.
func (r *Router) handleStream(c *gin.Context) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		writeJSON(c, http.StatusInternalServerError, errorResp{Error: "streaming unsupported"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	ticker := time.NewTicker(r.streamInterval)
	defer ticker.Stop()

	var (
		lastIndex  int
		lastStatus hunter.StreamStatus
		sentStatus bool
	)
	for {
		logs, total := r.h.LogsSince(lastIndex)
		for i := range logs {
			if err := writeEvent(c.Writer, event{Type: "log", Data: logs[i]}); err != nil {
				return
			}
		}
		lastIndex = total

		st := r.h.StreamStatus()
		if !sentStatus || st != lastStatus {
			if err := writeEvent(c.Writer, event{Type: "status", Data: st}); err != nil {
				return
			}
			lastStatus = st
			sentStatus = true
		}
		flusher.Flush()

		select {
		case <-c.Request.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

func writeEvent(w io.Writer, ev event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte("data: ")); err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return err
	}
	_, err = w.Write([]byte("\n\n"))
	return err
}
