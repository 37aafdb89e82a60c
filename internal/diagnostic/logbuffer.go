package diagnostic

import (
	"sync"

	"github.com/OldStager01/sentinel-console/pkg/models"
)

const DefaultLogCapacity = 16

// LogBuffer holds the most recent diagnostic log lines, oldest first.
// Appending to a full buffer drops the oldest entry.
type LogBuffer struct {
	mu       sync.RWMutex
	entries  []models.LogEntry
	capacity int
}

func NewLogBuffer(capacity int, seed ...models.LogEntry) *LogBuffer {
	if capacity <= 0 {
		capacity = DefaultLogCapacity
	}
	b := &LogBuffer{
		entries:  make([]models.LogEntry, 0, capacity),
		capacity: capacity,
	}
	for _, entry := range seed {
		b.Add(entry)
	}
	return b
}

// SeedEntries are the lines a fresh console starts with.
func SeedEntries() []models.LogEntry {
	return []models.LogEntry{
		models.NewLogEntry(models.LogInfo, "SENTINEL Diagnostic Engine initialized..."),
		models.NewLogEntry(models.LogWarn, "Awaiting hardware telemetry handshake..."),
	}
}

func (b *LogBuffer) Append(level models.LogLevel, msg string) models.LogEntry {
	entry := models.NewLogEntry(level, msg)
	b.Add(entry)
	return entry
}

func (b *LogBuffer) Add(entry models.LogEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.entries) >= b.capacity {
		keep := b.capacity - 1
		copy(b.entries, b.entries[len(b.entries)-keep:])
		b.entries = b.entries[:keep]
	}
	b.entries = append(b.entries, entry)
}

// Entries returns a copy, oldest first.
func (b *LogBuffer) Entries() []models.LogEntry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]models.LogEntry, len(b.entries))
	copy(out, b.entries)
	return out
}

func (b *LogBuffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

func (b *LogBuffer) Capacity() int {
	return b.capacity
}
