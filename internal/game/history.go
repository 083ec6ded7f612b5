package game

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const DefaultHistorySize = 20

// Outcome is an immutable record of a settled round.
type Outcome struct {
	ID         uuid.UUID `json:"id"`
	CrashPoint float64   `json:"crash_point"`
	Bet        *Bet      `json:"bet,omitempty"`
	Profit     float64   `json:"profit"`
	Timestamp  time.Time `json:"timestamp"`
}

// History is a bounded most-recent-first log of settled rounds. Append is the
// only mutation; the oldest entry is evicted at capacity.
type History struct {
	mu      sync.RWMutex
	size    int
	entries []Outcome
}

func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}

	return &History{
		size:    size,
		entries: make([]Outcome, 0, size),
	}
}

func (h *History) Append(o Outcome) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append([]Outcome{o}, h.entries...)
	if len(h.entries) > h.size {
		h.entries = h.entries[:h.size]
	}
}

// All returns a copy of the log, newest first.
func (h *History) All() []Outcome {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]Outcome, len(h.entries))
	copy(out, h.entries)

	return out
}

// Recent returns up to n newest entries.
func (h *History) Recent(n int) []Outcome {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if n > len(h.entries) {
		n = len(h.entries)
	}

	out := make([]Outcome, n)
	copy(out, h.entries[:n])

	return out
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// LastCrashPoint returns the most recent crash point, if any round settled.
func (h *History) LastCrashPoint() (float64, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.entries) == 0 {
		return 0, false
	}

	return h.entries[0].CrashPoint, true
}

// AvgCrashPoint returns the mean crash point across the log.
func (h *History) AvgCrashPoint() (float64, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.entries) == 0 {
		return 0, false
	}

	sum := 0.0
	for _, o := range h.entries {
		sum += o.CrashPoint
	}

	return sum / float64(len(h.entries)), true
}
