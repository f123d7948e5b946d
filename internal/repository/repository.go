package repository

import (
	"context"

	"semaphore.iot/internal/models"
)

// Repository is the storage behind the readings API. The dashboard treats
// it as an opaque, ordered source of readings.
type Repository interface {
	WriteReading(ctx context.Context, r models.Reading) error
	AllReadings(ctx context.Context) ([]models.Reading, error)
	LastReadings(ctx context.Context, count int) ([]models.Reading, error)
}
