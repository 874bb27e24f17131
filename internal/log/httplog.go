package log

import (
	"sync"
	"time"
)

// HTTP log buffer is separate from the main logger
var httpLogBuffer *LogBuffer
var httpLogBufferOnce sync.Once

// HTTPLogEntry represents an HTTP request/response log entry
type HTTPLogEntry struct {
	Timestamp  time.Time `json:"timestamp" msgpack:"timestamp"`
	RequestID  string    `json:"request_id" msgpack:"request_id"`
	Method     string    `json:"method" msgpack:"method"`
	Path       string    `json:"path" msgpack:"path"`
	Status     int       `json:"status" msgpack:"status"`
	DurationMS int64     `json:"duration_ms" msgpack:"duration_ms"`
	Size       int       `json:"size" msgpack:"size"`
	RemoteAddr string    `json:"remote_addr" msgpack:"remote_addr"`
	UserAgent  string    `json:"user_agent" msgpack:"user_agent"`
}

// LogBuffer keeps the most recent entries in a fixed size ring.
type LogBuffer struct {
	mu      sync.Mutex
	entries []HTTPLogEntry
	next    int
	full    bool
}

// NewLogBuffer returns a buffer holding at most size entries.
func NewLogBuffer(size int) *LogBuffer {
	if size < 1 {
		size = 1
	}
	return &LogBuffer{entries: make([]HTTPLogEntry, size)}
}

// AddEntry stores e, evicting the oldest entry when the buffer is full.
func (b *LogBuffer) AddEntry(e HTTPLogEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries[b.next] = e
	b.next = (b.next + 1) % len(b.entries)
	if b.next == 0 {
		b.full = true
	}
}

// Entries returns the buffered entries, oldest first.
func (b *LogBuffer) Entries() []HTTPLogEntry {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.full {
		return append([]HTTPLogEntry(nil), b.entries[:b.next]...)
	}
	out := make([]HTTPLogEntry, 0, len(b.entries))
	out = append(out, b.entries[b.next:]...)
	return append(out, b.entries[:b.next]...)
}

// GetHTTPLogBuffer returns the HTTP log buffer instance, creating it if necessary
func GetHTTPLogBuffer() *LogBuffer {
	httpLogBufferOnce.Do(func() {
		httpLogBuffer = NewLogBuffer(1000) // Keep last 1000 HTTP log entries
	})
	return httpLogBuffer
}

// LogHTTPRequest records a served request in the HTTP log buffer and the
// main logger.
func LogHTTPRequest(e HTTPLogEntry) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	GetHTTPLogBuffer().AddEntry(e)

	l := GetSugaredLogger()
	kv := []interface{}{
		"request_id", e.RequestID,
		"method", e.Method,
		"path", e.Path,
		"status", e.Status,
		"duration_ms", e.DurationMS,
		"size", e.Size,
		"remote_addr", e.RemoteAddr,
	}
	if e.Status >= 500 {
		l.Errorw("http request", kv...)
		return
	}
	l.Debugw("http request", kv...)
}
