package view

import (
	"sync"

	"semaphore.iot/internal/models"
)

// Indicator is the dashboard's mutually exclusive semaphore selection. It
// is a pure UI state: never persisted and never sent to the backend.
type Indicator string

const (
	IndicatorUnset  Indicator = ""
	IndicatorRed    Indicator = "red"
	IndicatorYellow Indicator = "yellow"
	IndicatorGreen  Indicator = "green"
)

// ParseIndicator maps user input to an Indicator color.
func ParseIndicator(raw string) (Indicator, bool) {
	switch Indicator(raw) {
	case IndicatorRed, IndicatorYellow, IndicatorGreen:
		return Indicator(raw), true
	}
	return IndicatorUnset, false
}

// State is the single mutable snapshot consumed by the rendering layer:
// the ordered sequence of recent readings plus the indicator selection.
// The snapshot is replaced wholesale, never merged.
type State struct {
	mu        sync.RWMutex
	snapshot  models.Snapshot
	indicator Indicator
}

// NewState returns an empty view state with the indicator unset.
func NewState() *State {
	return &State{}
}

// Replace swaps in a new snapshot wholesale. The previous one is discarded.
func (s *State) Replace(snap models.Snapshot) {
	copied := make(models.Snapshot, len(snap))
	copy(copied, snap)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = copied
}

// Current returns the most recent reading and the indicator selection.
// On an empty snapshot the reading is the all-empty sentinel; Current
// never fails.
func (s *State) Current() (models.Reading, Indicator) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Latest(), s.indicator
}

// Select overwrites the indicator selection. The color domain is closed,
// so repeated selection of the same color is a no-op.
func (s *State) Select(color Indicator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indicator = color
}

// Snapshot returns a copy of the current snapshot.
func (s *State) Snapshot() models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(models.Snapshot, len(s.snapshot))
	copy(out, s.snapshot)
	return out
}
