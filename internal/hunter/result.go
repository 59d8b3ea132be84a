package hunter

import (
	"encoding/json"
	"os"
)

// DefaultResultFile is the fixed filename the success record is written to.
// It is overwritten on every success.
const DefaultResultFile = "vm_creation_result.json"

// Result is the record persisted once a launch succeeds.
type Result struct {
	Success            bool   `json:"success"`
	Timestamp          string `json:"timestamp"`
	AvailabilityDomain string `json:"availability_domain"`
	Attempts           int    `json:"attempts"`
	Details            string `json:"details"`
}

func writeResultFile(path string, r Result) error {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}
