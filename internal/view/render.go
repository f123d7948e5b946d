package view

// placeholder stands in for sensor values the device did not report.
const placeholder = "--"

// Display is the render projection of the view state: one line of display
// text per sensor value, plus the indicator label.
type Display struct {
	Audio       string
	Temperature string
	Humidity    string
	Pressure    string
	Gas         string
	State       string
	Source      string
	ObservedAt  string
	Indicator   string
}

// Derive builds the Display for the current view state.
func Derive(s *State) Display {
	reading, indicator := s.Current()
	return Display{
		Audio:       orPlaceholder(reading.Audio),
		Temperature: orPlaceholder(reading.Temperature),
		Humidity:    orPlaceholder(reading.Humidity),
		Pressure:    orPlaceholder(reading.Pressure),
		Gas:         orPlaceholder(reading.Gas),
		State:       orPlaceholder(reading.State),
		Source:      orPlaceholder(reading.SourceID),
		ObservedAt:  orPlaceholder(reading.Timestamp),
		Indicator:   indicatorLabel(indicator),
	}
}

func orPlaceholder(v string) string {
	if v == "" {
		return placeholder
	}
	return v
}

func indicatorLabel(i Indicator) string {
	if i == IndicatorUnset {
		return "none"
	}
	return string(i)
}
