package client

// Status mirrors the daemon's /api/status response.
type Status struct {
	IsRunning      bool       `json:"is_running"`
	CurrentAttempt int        `json:"current_attempt"`
	LastStatus     string     `json:"last_status"`
	VMCreated      bool       `json:"vm_created"`
	VMDetails      *VMDetails `json:"vm_details"`
	LogCount       int        `json:"log_count"`
}

// VMDetails summarizes a successfully launched instance.
type VMDetails struct {
	ID                 string `json:"id"`
	DisplayName        string `json:"display_name"`
	AvailabilityDomain string `json:"availability_domain"`
	Shape              string `json:"shape"`
	LifecycleState     string `json:"lifecycle_state"`
}

// LogEntry is one line of the daemon's run log.
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Message   string `json:"message"`
	Level     string `json:"level"`
}

// LogsResponse mirrors /api/logs.
type LogsResponse struct {
	Logs  []LogEntry `json:"logs"`
	Total int        `json:"total"`
}

// ConfigResponse mirrors /api/config: presence booleans only, never values.
type ConfigResponse struct {
	Configured map[string]bool `json:"configured"`
}

// ErrorResponse is the daemon's error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
