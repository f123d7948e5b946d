package service

import "semaphore.iot/internal/models"

// HT16K33 LED controller memory layout on a semaphore device.
const (
	gridRows    = 16
	gridColumns = 8
)

// GridService serves the coordinate grid addressed by semaphore devices.
type GridService struct {
	grid models.Grid
}

// NewGridService builds the static coordinate grid once.
func NewGridService() *GridService {
	grid := models.Grid{
		Rows:    gridRows,
		Columns: gridColumns,
		Cells:   make([]models.GridCell, 0, gridRows*gridColumns),
	}
	for row := 0; row < gridRows; row++ {
		for col := 0; col < gridColumns; col++ {
			grid.Cells = append(grid.Cells, models.GridCell{Row: row, Column: col})
		}
	}
	return &GridService{grid: grid}
}

// Grid returns the coordinate grid.
func (s *GridService) Grid() models.Grid {
	return s.grid
}
