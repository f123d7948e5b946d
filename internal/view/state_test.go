package view

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"semaphore.iot/internal/models"
)

func TestCurrentReturnsLastReading(t *testing.T) {
	state := NewState()
	state.Replace(models.Snapshot{
		{Temperature: "20", SourceID: "sem-1"},
		{Temperature: "22", SourceID: "sem-1"},
	})

	reading, _ := state.Current()
	assert.Equal(t, "22", reading.Temperature)
}

func TestCurrentOnEmptySnapshotReturnsSentinel(t *testing.T) {
	state := NewState()

	reading, indicator := state.Current()
	assert.Equal(t, models.Reading{}, reading)
	assert.Equal(t, IndicatorUnset, indicator)
}

func TestReplaceDiscardsPreviousSnapshot(t *testing.T) {
	state := NewState()
	state.Replace(models.Snapshot{{Temperature: "20"}})
	state.Replace(models.Snapshot{{Temperature: "25"}, {Temperature: "26"}})

	assert.Len(t, state.Snapshot(), 2)
	reading, _ := state.Current()
	assert.Equal(t, "26", reading.Temperature)
}

func TestSelectIsMutuallyExclusive(t *testing.T) {
	state := NewState()

	state.Select(IndicatorGreen)
	_, indicator := state.Current()
	assert.Equal(t, IndicatorGreen, indicator)

	state.Select(IndicatorRed)
	_, indicator = state.Current()
	assert.Equal(t, IndicatorRed, indicator)
}

func TestSelectIsIdempotent(t *testing.T) {
	state := NewState()

	state.Select(IndicatorYellow)
	state.Select(IndicatorYellow)

	_, indicator := state.Current()
	assert.Equal(t, IndicatorYellow, indicator)
}

func TestIndicatorIsIndependentOfSnapshot(t *testing.T) {
	state := NewState()
	state.Select(IndicatorGreen)
	state.Replace(models.Snapshot{{Temperature: "21"}})

	_, indicator := state.Current()
	assert.Equal(t, IndicatorGreen, indicator)
}

func TestParseIndicator(t *testing.T) {
	for _, raw := range []string{"red", "yellow", "green"} {
		color, ok := ParseIndicator(raw)
		assert.True(t, ok)
		assert.Equal(t, Indicator(raw), color)
	}

	_, ok := ParseIndicator("blue")
	assert.False(t, ok)
	_, ok = ParseIndicator("")
	assert.False(t, ok)
}
