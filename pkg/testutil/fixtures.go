package testutil

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/namitjain73/IPEC-Hackethon/internal/domain/port"
	"github.com/namitjain73/IPEC-Hackethon/internal/domain/service"
)

// Fixed UUIDs for deterministic testing
var (
	TestRunID1 = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	TestRunID2 = uuid.MustParse("00000000-0000-0000-0000-000000000002")
)

// FullInput returns a request that sets every field any model reads.
func FullInput() map[string]any {
	return map[string]any{
		"ndvi":        0.65,
		"ndvi_prev":   0.7,
		"ndvi_change": -0.05,
		"red_band":    0.25,
		"nir_band":    0.50,
		"blue_band":   0.15,
		"green_band":  0.30,
		"cloud_cover": 0.1,
		"temperature": 25.5,
		"humidity":    65.0,
	}
}

// FastTrainerConfig keeps the production hyperparameters with fewer rounds
// and trees so tests train in milliseconds.
func FastTrainerConfig() service.TrainerConfig {
	cfg := service.DefaultTrainerConfig()
	cfg.NDVI.Rounds = 30
	cfg.Risk.Rounds = 30
	cfg.Change.Trees = 25
	return cfg
}

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MemoryStore is an in-memory port.ArtifactStore.
type MemoryStore struct {
	data map[string][]byte
	mu   sync.Mutex
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string][]byte{}}
}

func (m *MemoryStore) Save(_ context.Context, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[name] = append([]byte(nil), data...)
	return nil
}

func (m *MemoryStore) Load(_ context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[name]
	if !ok {
		return nil, port.ErrArtifactNotFound
	}
	return raw, nil
}

// Names lists the stored artifacts in sorted order.
func (m *MemoryStore) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.data))
	for k := range m.data {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// Delete removes an artifact.
func (m *MemoryStore) Delete(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, name)
}
