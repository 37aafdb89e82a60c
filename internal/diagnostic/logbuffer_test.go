package diagnostic_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/sentinel-console/internal/diagnostic"
	"github.com/OldStager01/sentinel-console/pkg/models"
)

func TestLogBuffer_Seeded(t *testing.T) {
	buf := diagnostic.NewLogBuffer(0, diagnostic.SeedEntries()...)

	entries := buf.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, 16, buf.Capacity())
	assert.Equal(t, "SENTINEL Diagnostic Engine initialized...", entries[0].Message)
	assert.Equal(t, models.LogInfo, entries[0].Level)
	assert.Equal(t, "Awaiting hardware telemetry handshake...", entries[1].Message)
	assert.Equal(t, models.LogWarn, entries[1].Level)
}

func TestLogBuffer_KeepsNewest(t *testing.T) {
	tests := []struct {
		name     string
		appends  int
		expected int
		first    int
	}{
		{name: "under capacity", appends: 5, expected: 5, first: 0},
		{name: "exactly capacity", appends: 16, expected: 16, first: 0},
		{name: "one over", appends: 17, expected: 16, first: 1},
		{name: "far over", appends: 40, expected: 16, first: 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := diagnostic.NewLogBuffer(16)
			for i := 0; i < tt.appends; i++ {
				buf.Append(models.LogInfo, fmt.Sprintf("line %d", i))
			}

			entries := buf.Entries()
			require.Len(t, entries, tt.expected)
			for i, entry := range entries {
				assert.Equal(t, fmt.Sprintf("line %d", tt.first+i), entry.Message)
			}
		})
	}
}

func TestLogBuffer_EntriesIsCopy(t *testing.T) {
	buf := diagnostic.NewLogBuffer(4)
	buf.Append(models.LogInfo, "a")

	entries := buf.Entries()
	entries[0].Message = "mutated"

	assert.Equal(t, "a", buf.Entries()[0].Message)
}
