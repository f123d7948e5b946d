package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"semaphore.iot/internal/cache"
	"semaphore.iot/internal/models"
	"semaphore.iot/internal/repository"
)

// ReadingService handles the business logic for storing and serving
// semaphore readings.
type ReadingService struct {
	repo  repository.Repository
	cache *cache.SnapshotCache
}

// NewReadingService creates a new ReadingService. cache may be nil.
func NewReadingService(repo repository.Repository, snapshots *cache.SnapshotCache) *ReadingService {
	return &ReadingService{
		repo:  repo,
		cache: snapshots,
	}
}

// SaveReading validates and stores one incoming reading. Sensor values are
// passed through as-is; only the source device id is required.
func (s *ReadingService) SaveReading(ctx context.Context, reading models.Reading) error {
	if reading.SourceID == "" {
		return models.NewAPIError(models.ErrorCodeMissingParameter, "sourceId is required", nil, 400)
	}

	if err := s.repo.WriteReading(ctx, reading); err != nil {
		return fmt.Errorf("error storing reading: %w", err)
	}
	return nil
}

// AllReadings returns every stored reading, chronological ascending.
func (s *ReadingService) AllReadings(ctx context.Context) ([]models.Reading, error) {
	readings, err := s.repo.AllReadings(ctx)
	if err != nil {
		return nil, fmt.Errorf("error querying readings: %w", err)
	}
	return readings, nil
}

// LastReadings returns the last count readings, chronological ascending,
// never more than count. Results are served from the snapshot cache when
// one is configured.
func (s *ReadingService) LastReadings(ctx context.Context, count int) ([]models.Reading, error) {
	if readings, ok := s.cache.Get(ctx, count); ok {
		return readings, nil
	}

	readings, err := s.repo.LastReadings(ctx, count)
	if err != nil {
		return nil, fmt.Errorf("error querying readings: %w", err)
	}
	if len(readings) > count {
		// The response must never exceed count, whatever the backend returns.
		readings = readings[len(readings)-count:]
	}

	s.cache.Set(ctx, count, readings)
	log.Debug().Int("count", count).Int("returned", len(readings)).Msg("served last readings")
	return readings, nil
}
