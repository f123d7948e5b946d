package ingest

import (
	"context"
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"semaphore.iot/internal/models"
	"semaphore.iot/internal/service"
)

// Subscriber feeds readings published over MQTT into the same service path
// as the HTTP ingest route.
type Subscriber struct {
	client mqtt.Client
	topic  string
	svc    *service.ReadingService
}

// NewSubscriber connects to the broker.
func NewSubscriber(broker, topic string, svc *service.ReadingService) (*Subscriber, error) {
	opts := mqtt.NewClientOptions().AddBroker(broker).SetClientID("semaphore-hub")
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("could not connect to MQTT broker %s: %w", broker, token.Error())
	}

	log.Info().Str("broker", broker).Str("topic", topic).Msg("connected to MQTT broker")
	return &Subscriber{
		client: client,
		topic:  topic,
		svc:    svc,
	}, nil
}

// Start subscribes to the readings topic.
func (s *Subscriber) Start() error {
	token := s.client.Subscribe(s.topic, 0, s.handle)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("could not subscribe to %s: %w", s.topic, token.Error())
	}
	return nil
}

// Stop unsubscribes and disconnects from the broker.
func (s *Subscriber) Stop() {
	s.client.Unsubscribe(s.topic)
	s.client.Disconnect(250)
}

func (s *Subscriber) handle(_ mqtt.Client, msg mqtt.Message) {
	var reading models.Reading
	if err := json.Unmarshal(msg.Payload(), &reading); err != nil {
		log.Warn().Err(err).Str("topic", msg.Topic()).Msg("discarding undecodable reading")
		return
	}

	if err := s.svc.SaveReading(context.Background(), reading); err != nil {
		log.Warn().Err(err).Str("source_id", reading.SourceID).Msg("could not store reading from MQTT")
	}
}
