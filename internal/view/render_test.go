package view

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"semaphore.iot/internal/models"
)

func TestDeriveUsesPlaceholdersForSentinel(t *testing.T) {
	state := NewState()

	d := Derive(state)
	assert.Equal(t, "--", d.Temperature)
	assert.Equal(t, "--", d.Source)
	assert.Equal(t, "none", d.Indicator)
}

func TestDeriveShowsLatestReadingAndIndicator(t *testing.T) {
	state := NewState()
	state.Replace(models.Snapshot{
		{Temperature: "19.5", Humidity: "40", SourceID: "sem-3", State: "green"},
	})
	state.Select(IndicatorRed)

	d := Derive(state)
	assert.Equal(t, "19.5", d.Temperature)
	assert.Equal(t, "40", d.Humidity)
	assert.Equal(t, "sem-3", d.Source)
	assert.Equal(t, "red", d.Indicator)
	assert.Equal(t, "--", d.Audio)
}
