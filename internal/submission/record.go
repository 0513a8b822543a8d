package submission

import (
	"context"
	"sync"
	"time"
)

// Record is an accepted submission as kept in the recent-submissions log.
type Record struct {
	ID          string    `json:"id"`
	Payload     Payload   `json:"payload"`
	SubmittedAt time.Time `json:"submitted_at"`
	Source      string    `json:"source,omitempty"`
	ClientIP    string    `json:"client_ip,omitempty"`
}

// DefaultRecentLimit is how many records a recent log keeps.
const DefaultRecentLimit = 100

// MemoryLog is the in-process recent-submissions log used when no shared
// store is configured. Newest records come first.
type MemoryLog struct {
	mu      sync.Mutex
	records []Record
	limit   int
}

// NewMemoryLog keeps at most limit records; a non-positive limit uses
// DefaultRecentLimit.
func NewMemoryLog(limit int) *MemoryLog {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return &MemoryLog{limit: limit}
}

func (l *MemoryLog) Push(_ context.Context, rec Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = append([]Record{rec}, l.records...)
	if len(l.records) > l.limit {
		l.records = l.records[:l.limit]
	}
	return nil
}

// Recent returns up to n records, newest first.
func (l *MemoryLog) Recent(_ context.Context, n int) ([]Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n <= 0 || n > len(l.records) {
		n = len(l.records)
	}
	out := make([]Record, n)
	copy(out, l.records[:n])
	return out, nil
}
