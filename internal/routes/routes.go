package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"semaphore.iot/internal/controller"
	"semaphore.iot/internal/middleware"
)

// SetupRouter defines all API routes. auth may be nil, in which case the
// ingest route runs unauthenticated (the open demo setup).
func SetupRouter(ctrl *controller.ReadingController, auth *middleware.Auth) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/grid", ctrl.HandleGrid).Methods(http.MethodGet)
	router.HandleFunc("/all", ctrl.HandleAllReadings).Methods(http.MethodGet)
	router.HandleFunc("/last", ctrl.HandleLastReadings).Methods(http.MethodGet)
	router.HandleFunc("/health", ctrl.HandleHealth).Methods(http.MethodGet)

	write := http.Handler(http.HandlerFunc(ctrl.HandleWriteReadings))
	if auth != nil {
		write = auth.CombinedMiddleware(write)
	}
	router.Handle("/readings", write).Methods(http.MethodPost)

	return router
}
