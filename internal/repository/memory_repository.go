package repository

import (
	"context"
	"sync"
	"time"

	"semaphore.iot/internal/models"
)

// MemoryRepository keeps readings in memory, in arrival order. It backs the
// demo server when no InfluxDB is configured and the handler tests.
type MemoryRepository struct {
	mu       sync.RWMutex
	readings []models.Reading
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// NewSeededRepository creates an in-memory repository pre-filled with mock
// readings, one per second ending now.
func NewSeededRepository(count int) *MemoryRepository {
	repo := NewMemoryRepository()
	now := time.Now()
	states := []string{"green", "yellow", "red"}
	for i := 0; i < count; i++ {
		ts := now.Add(-time.Duration(count-1-i) * time.Second)
		repo.readings = append(repo.readings, models.Reading{
			Audio:       "128",
			Temperature: "21.5",
			Humidity:    "48",
			Pressure:    "1013",
			Gas:         "0.9",
			Timestamp:   ts.Format(time.RFC3339),
			State:       states[i%len(states)],
			SourceID:    "semaphore-mock",
		})
	}
	return repo
}

// WriteReading appends one reading.
func (m *MemoryRepository) WriteReading(_ context.Context, r models.Reading) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readings = append(m.readings, r)
	return nil
}

// AllReadings returns every stored reading, chronological ascending.
func (m *MemoryRepository) AllReadings(_ context.Context) ([]models.Reading, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Reading, len(m.readings))
	copy(out, m.readings)
	return out, nil
}

// LastReadings returns the last count readings, chronological ascending.
// A count larger than the store returns everything; zero returns nothing.
func (m *MemoryRepository) LastReadings(_ context.Context, count int) ([]models.Reading, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if count < 0 {
		count = 0
	}
	if count > len(m.readings) {
		count = len(m.readings)
	}
	out := make([]models.Reading, count)
	copy(out, m.readings[len(m.readings)-count:])
	return out, nil
}
