package hunter

import "time"

// Level is the severity attached to a log entry.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
	LevelSuccess Level = "success"
)

// Entry is one line of the run's operator-visible log.
type Entry struct {
	Timestamp string `json:"timestamp"`
	Message   string `json:"message"`
	Level     Level  `json:"level"`
}

func newEntry(message string, level Level) Entry {
	return Entry{
		Timestamp: time.Now().Format("2006-01-02 15:04:05"),
		Message:   message,
		Level:     level,
	}
}

// logRing is a bounded FIFO of log entries. Appending beyond capacity drops
// the oldest entries, preserving relative order of the survivors. Not safe
// for concurrent use; the Hunter mutex guards it.
type logRing struct {
	capacity int
	entries  []Entry
}

func newLogRing(capacity int) *logRing {
	return &logRing{capacity: capacity}
}

func (r *logRing) Append(e Entry) {
	r.entries = append(r.entries, e)
	if len(r.entries) > r.capacity {
		over := len(r.entries) - r.capacity
		r.entries = append(r.entries[:0], r.entries[over:]...)
	}
}

func (r *logRing) Len() int { return len(r.entries) }

// Since returns a copy of the suffix starting at index since (clamped to the
// valid range) and the current total length.
func (r *logRing) Since(since int) ([]Entry, int) {
	total := len(r.entries)
	if since < 0 {
		since = 0
	}
	if since > total {
		since = total
	}
	out := make([]Entry, total-since)
	copy(out, r.entries[since:])
	return out, total
}

func (r *logRing) Reset() { r.entries = nil }
