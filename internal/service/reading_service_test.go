package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"semaphore.iot/internal/models"
	"semaphore.iot/internal/repository"
)

// overReturningRepo ignores the requested count, like a backend that
// misbehaves. The service must still honor the length bound.
type overReturningRepo struct {
	readings []models.Reading
}

func (r *overReturningRepo) WriteReading(context.Context, models.Reading) error {
	return errors.New("read only")
}

func (r *overReturningRepo) AllReadings(context.Context) ([]models.Reading, error) {
	return r.readings, nil
}

func (r *overReturningRepo) LastReadings(context.Context, int) ([]models.Reading, error) {
	return r.readings, nil
}

func TestSaveReadingRequiresSourceID(t *testing.T) {
	svc := NewReadingService(repository.NewMemoryRepository(), nil)

	err := svc.SaveReading(context.Background(), models.Reading{Temperature: "21"})
	require.Error(t, err)

	var apiErr models.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, models.ErrorCodeMissingParameter, apiErr.Code)
}

func TestSaveReadingPassesValuesThrough(t *testing.T) {
	repo := repository.NewMemoryRepository()
	svc := NewReadingService(repo, nil)

	// Missing sensor fields are not validated, only sourceId is.
	err := svc.SaveReading(context.Background(), models.Reading{SourceID: "sem-1"})
	require.NoError(t, err)

	readings, err := svc.AllReadings(context.Background())
	require.NoError(t, err)
	require.Len(t, readings, 1)
	assert.Equal(t, "", readings[0].Temperature)
}

func TestLastReadingsNeverExceedsRequestedCount(t *testing.T) {
	repo := repository.NewMemoryRepository()
	svc := NewReadingService(repo, nil)
	for i := 0; i < 20; i++ {
		require.NoError(t, svc.SaveReading(context.Background(), models.Reading{SourceID: "sem-1"}))
	}

	for _, count := range []int{1, 5, 10, 20, 50} {
		readings, err := svc.LastReadings(context.Background(), count)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(readings), count)
	}
}

func TestLastReadingsBoundsOverReturningBackend(t *testing.T) {
	repo := &overReturningRepo{readings: []models.Reading{
		{Temperature: "20"}, {Temperature: "21"}, {Temperature: "22"},
	}}
	svc := NewReadingService(repo, nil)

	readings, err := svc.LastReadings(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, readings, 2)
	// The tail survives the cut.
	assert.Equal(t, "21", readings[0].Temperature)
	assert.Equal(t, "22", readings[1].Temperature)
}
