package console

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/OldStager01/sentinel-console/internal/client"
	"github.com/OldStager01/sentinel-console/internal/diagnostic"
)

func TestManager_SweepEvictsIdle(t *testing.T) {
	m := NewManager(ManagerConfig{
		Config: Config{
			Diagnostic: diagnostic.Config{LogCapacity: 16},
			IdleTTL:    time.Minute,
		},
		Client: client.NewMockClient(),
	})
	defer m.eventBus.Close()

	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }

	m.Get("old")
	clock = clock.Add(50 * time.Second)
	m.Get("fresh")

	clock = clock.Add(20 * time.Second)
	evicted := m.Sweep()

	assert.Equal(t, 1, evicted)
	_, ok := m.Lookup("old")
	assert.False(t, ok)
	_, ok = m.Lookup("fresh")
	assert.True(t, ok)
}

func TestManager_SweepDisabledWithoutTTL(t *testing.T) {
	m := NewManager(ManagerConfig{Client: client.NewMockClient()})
	defer m.eventBus.Close()

	m.now = func() time.Time { return time.Now().Add(-24 * time.Hour) }
	m.Get("s1")
	m.now = time.Now

	assert.Zero(t, m.Sweep())
	assert.Equal(t, 1, m.Len())
}
