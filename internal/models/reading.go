package models

// Reading represents one sensor sample reported by a semaphore device.
// All values travel as strings; an empty string means the device did not
// report that field. The dashboard never writes readings back.
type Reading struct {
	Audio       string `json:"audio"`
	Temperature string `json:"temperature"`
	Humidity    string `json:"humidity"`
	Pressure    string `json:"pressure"`
	Gas         string `json:"gas"`
	Timestamp   string `json:"timestamp"`
	State       string `json:"state"`
	SourceID    string `json:"sourceId"`
}

// Snapshot is the ordered sequence of the most recent readings,
// chronological ascending, most-recent-last.
type Snapshot []Reading

// Latest returns the most recent reading of the snapshot, or the zero
// (all empty) Reading when the snapshot is empty. It never fails.
func (s Snapshot) Latest() Reading {
	if len(s) == 0 {
		return Reading{}
	}
	return s[len(s)-1]
}
