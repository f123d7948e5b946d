package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"semaphore.iot/internal/config"
	"semaphore.iot/internal/models"
)

// Simulated semaphore chip: publishes one reading per second, the same
// fire-and-forget cadence as the RF transmitter it stands in for. No retry,
// no ack handling.
func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	apiURL := flag.String("api", "http://localhost:3001", "base URL of the readings API")
	mode := flag.String("mode", "http", "transport: http or mqtt")
	broker := flag.String("broker", "tcp://localhost:1883", "MQTT broker address (mqtt mode)")
	topic := flag.String("topic", "semaphore/readings", "MQTT topic (mqtt mode)")
	sourceID := flag.String("source", "", "device source id (defaults to a generated UUID)")
	interval := flag.Duration("interval", time.Second, "transmit interval")
	flag.Parse()

	cfg := config.LoadConfig()

	id := *sourceID
	if id == "" {
		id = "semaphore-" + uuid.NewString()[:8]
	}

	var publish func(models.Reading) error
	switch *mode {
	case "http":
		publish = httpPublisher(*apiURL, cfg.DeviceToken)
	case "mqtt":
		opts := mqtt.NewClientOptions().AddBroker(*broker).SetClientID(id)
		client := mqtt.NewClient(opts)
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			log.Fatal().Err(token.Error()).Str("broker", *broker).Msg("could not connect to MQTT broker")
		}
		defer client.Disconnect(250)
		publish = mqttPublisher(client, *topic)
	default:
		log.Fatal().Str("mode", *mode).Msg("mode must be http or mqtt")
	}

	log.Info().Str("source_id", id).Str("mode", *mode).Dur("interval", *interval).Msg("device transmitting")

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case t := <-ticker.C:
			reading := generateReading(id, t)
			if err := publish(reading); err != nil {
				log.Warn().Err(err).Msg("transmit failed")
			}
		case <-sigs:
			log.Info().Msg("device stopped")
			return
		}
	}
}

var states = []string{"green", "yellow", "red"}

// generateReading produces one synthetic sensor sample.
func generateReading(sourceID string, t time.Time) models.Reading {
	return models.Reading{
		Audio:       strconv.Itoa(rand.Intn(256)),
		Temperature: fmt.Sprintf("%.1f", 18+rand.Float64()*10),
		Humidity:    fmt.Sprintf("%.0f", 30+rand.Float64()*40),
		Pressure:    fmt.Sprintf("%.0f", 990+rand.Float64()*40),
		Gas:         fmt.Sprintf("%.2f", rand.Float64()*2),
		Timestamp:   t.Format(time.RFC3339),
		State:       states[rand.Intn(len(states))],
		SourceID:    sourceID,
	}
}

func httpPublisher(apiURL, deviceToken string) func(models.Reading) error {
	client := resty.New().SetBaseURL(apiURL)
	return func(reading models.Reading) error {
		req := client.R().
			SetContext(context.Background()).
			SetHeader("X-Client-Type", "semaphore-chip").
			SetBody([]models.Reading{reading})
		if deviceToken != "" {
			req.SetHeader("X-Device-Token", deviceToken)
		}
		resp, err := req.Post("/readings")
		if err != nil {
			return err
		}
		if resp.IsError() {
			return fmt.Errorf("unexpected status %s", resp.Status())
		}
		return nil
	}
}

func mqttPublisher(client mqtt.Client, topic string) func(models.Reading) error {
	return func(reading models.Reading) error {
		payload, err := json.Marshal(reading)
		if err != nil {
			return err
		}
		token := client.Publish(topic, 0, false, payload)
		token.Wait()
		return token.Error()
	}
}
