package models

// GridCell is one addressable coordinate on a semaphore LED grid.
type GridCell struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// Grid is the coordinate space addressed by the HT16K33 LED controller
// on a semaphore device: 16 rows by 8 columns of cells.
type Grid struct {
	Rows    int        `json:"rows"`
	Columns int        `json:"columns"`
	Cells   []GridCell `json:"cells"`
}
