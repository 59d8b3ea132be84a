package hunter

import "github.com/loykin/vmhuntr/internal/compute"

// Status is the full snapshot served by GET /api/status.
type Status struct {
	IsRunning      bool                     `json:"is_running"`
	CurrentAttempt int                      `json:"current_attempt"`
	LastStatus     string                   `json:"last_status"`
	VMCreated      bool                     `json:"vm_created"`
	VMDetails      *compute.InstanceDetails `json:"vm_details"`
	LogCount       int                      `json:"log_count"`
}

// StreamStatus is the reduced snapshot pushed over the event stream. All
// fields are comparable so stream writers can diff by value instead of by
// serialized representation.
type StreamStatus struct {
	IsRunning      bool   `json:"is_running"`
	CurrentAttempt int    `json:"current_attempt"`
	LastStatus     string `json:"last_status"`
	VMCreated      bool   `json:"vm_created"`
}
