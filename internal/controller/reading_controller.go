package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"semaphore.iot/internal/models"
	"semaphore.iot/internal/service"
	"semaphore.iot/internal/utils"
)

// defaultLastCount matches the dashboard's snapshot bound.
const defaultLastCount = 10

// ReadingController handles HTTP requests for readings and the device grid.
type ReadingController struct {
	readings *service.ReadingService
	grid     *service.GridService
}

// NewReadingController creates a new ReadingController.
func NewReadingController(readings *service.ReadingService, grid *service.GridService) *ReadingController {
	return &ReadingController{
		readings: readings,
		grid:     grid,
	}
}

// HandleGrid serves the coordinate grid for semaphore devices.
func (c *ReadingController) HandleGrid(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, c.grid.Grid())
}

// HandleAllReadings serves every stored reading, chronological ascending.
func (c *ReadingController) HandleAllReadings(w http.ResponseWriter, r *http.Request) {
	readings, err := c.readings.AllReadings(r.Context())
	if err != nil {
		apiErr := models.NewAPIError(models.ErrorCodeInternalServerError, fmt.Sprintf("Error fetching readings: %v", err), nil, http.StatusInternalServerError)
		utils.RespondWithError(w, apiErr)
		return
	}
	if readings == nil {
		readings = []models.Reading{}
	}

	utils.RespondWithJSON(w, http.StatusOK, readings)
}

// HandleLastReadings serves the last N readings, chronological ascending.
// N comes from the count query parameter and must be a positive integer.
func (c *ReadingController) HandleLastReadings(w http.ResponseWriter, r *http.Request) {
	count := defaultLastCount
	if raw := r.URL.Query().Get("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			apiErr := models.NewAPIError(models.ErrorCodeInvalidParameter, "count must be a positive integer", nil, http.StatusBadRequest)
			utils.RespondWithError(w, apiErr)
			return
		}
		count = parsed
	}

	readings, err := c.readings.LastReadings(r.Context(), count)
	if err != nil {
		apiErr := models.NewAPIError(models.ErrorCodeInternalServerError, fmt.Sprintf("Error fetching readings: %v", err), nil, http.StatusInternalServerError)
		utils.RespondWithError(w, apiErr)
		return
	}
	if readings == nil {
		readings = []models.Reading{}
	}

	utils.RespondWithJSON(w, http.StatusOK, readings)
}

// HandleWriteReadings ingests a JSON array of readings from a device.
func (c *ReadingController) HandleWriteReadings(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var readings []models.Reading
	if err := json.NewDecoder(r.Body).Decode(&readings); err != nil {
		apiErr := models.NewAPIError(models.ErrorCodeBadRequest, fmt.Sprintf("error decoding JSON: %v", err), nil, http.StatusBadRequest)
		utils.RespondWithError(w, apiErr)
		return
	}

	for _, reading := range readings {
		if err := c.readings.SaveReading(r.Context(), reading); err != nil {
			var apiErr models.APIError
			if errors.As(err, &apiErr) {
				utils.RespondWithError(w, apiErr)
				return
			}
			log.Error().Err(err).Msg("error storing reading")
			utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeInternalServerError, fmt.Sprintf("error storing reading: %v", err), nil, http.StatusInternalServerError))
			return
		}
	}

	utils.RespondWithJSON(w, http.StatusCreated, map[string]string{"message": fmt.Sprintf("%d readings stored", len(readings))})
}

// HandleHealth is the liveness probe.
func (c *ReadingController) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}
