package telemetry

import "sync"

// DefaultHistoryPoints is the number of samples kept per metric: five minutes
// at the default 15 second sampling interval.
const DefaultHistoryPoints = 20

// History is a fixed-capacity ring of samples. Appending to a full history
// evicts the oldest sample. It is safe for one writer and many readers.
type History struct {
	mu    sync.RWMutex
	data  []float64
	head  int // next write position
	count int
}

// NewHistory creates a history holding up to capacity samples.
// A non-positive capacity falls back to DefaultHistoryPoints.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryPoints
	}
	return &History{data: make([]float64, capacity)}
}

// Append adds v as the newest sample.
func (h *History) Append(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.data[h.head] = v
	h.head = (h.head + 1) % len(h.data)
	if h.count < len(h.data) {
		h.count++
	}
}

// Values returns a copy of the samples, oldest first.
func (h *History) Values() []float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.count == 0 {
		return nil
	}
	size := len(h.data)
	out := make([]float64, h.count)
	start := (h.head - h.count + size) % size
	for i := range out {
		out[i] = h.data[(start+i)%size]
	}
	return out
}

// Last returns the newest sample.
func (h *History) Last() (float64, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.count == 0 {
		return 0, false
	}
	size := len(h.data)
	return h.data[(h.head-1+size)%size], true
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

func (h *History) Cap() int {
	return len(h.data)
}
