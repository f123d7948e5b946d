package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"semaphore.iot/internal/cache"
	"semaphore.iot/internal/config"
	"semaphore.iot/internal/controller"
	"semaphore.iot/internal/ingest"
	"semaphore.iot/internal/middleware"
	"semaphore.iot/internal/repository"
	"semaphore.iot/internal/routes"
	"semaphore.iot/internal/service"
)

const seededReadings = 10

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.LoadConfig()

	// Pick the storage backend: InfluxDB when configured, otherwise the
	// in-memory store seeded with mock readings.
	var repo repository.Repository
	if cfg.HasInflux() {
		influx := repository.NewInfluxDBRepository(cfg.InfluxDBURL, cfg.InfluxDBToken, cfg.InfluxDBOrg, cfg.InfluxDBBucket)
		if err := influx.Ping(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("InfluxDB health check failed")
		}
		defer influx.Close()
		log.Info().Str("url", cfg.InfluxDBURL).Msg("connected to InfluxDB")
		repo = influx
	} else {
		log.Info().Msg("no InfluxDB configured, serving mock readings from memory")
		repo = repository.NewSeededRepository(seededReadings)
	}

	var snapshots *cache.SnapshotCache
	if cfg.RedisAddr != "" {
		var err error
		snapshots, err = cache.NewSnapshotCache(cfg.RedisAddr, cfg.RedisPassword, cfg.PollInterval)
		if err != nil {
			log.Fatal().Err(err).Msg("error initializing Redis")
		}
		defer snapshots.Close()
	}

	readings := service.NewReadingService(repo, snapshots)
	grid := service.NewGridService()
	ctrl := controller.NewReadingController(readings, grid)

	var auth *middleware.Auth
	if cfg.AuthEnabled() {
		var err error
		auth, err = middleware.NewAuth(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("error setting up authentication")
		}
	}

	router := routes.SetupRouter(ctrl, auth)

	// CORS setup for the dashboard page.
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Client-Type", "X-Device-Token"},
	})
	handler := c.Handler(router)

	var subscriber *ingest.Subscriber
	if cfg.MQTTBroker != "" {
		var err error
		subscriber, err = ingest.NewSubscriber(cfg.MQTTBroker, cfg.MQTTTopic, readings)
		if err != nil {
			log.Fatal().Err(err).Msg("error connecting to MQTT broker")
		}
		if err := subscriber.Start(); err != nil {
			log.Fatal().Err(err).Msg("error subscribing to readings topic")
		}
	}

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server is running")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("error starting server")
		}
	}()

	// Graceful shutdown.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	<-sigs

	if subscriber != nil {
		subscriber.Stop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("error shutting down server")
	}
	log.Info().Msg("server stopped")
}
