package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds the application's configuration.
type Config struct {
	Port string

	InfluxDBURL    string
	InfluxDBToken  string
	InfluxDBOrg    string
	InfluxDBBucket string

	RedisAddr     string
	RedisPassword string

	MQTTBroker string
	MQTTTopic  string

	DeviceToken string
	JWTSecret   string
	Auth0       Auth0Config

	PollInterval time.Duration
}

// Auth0Config stores the Auth0 details used for dashboard token validation.
type Auth0Config struct {
	Issuer   string
	Audience string
}

// Enabled reports whether Auth0 validation is configured.
func (a Auth0Config) Enabled() bool {
	return a.Issuer != "" && a.Audience != ""
}

// HasInflux reports whether an InfluxDB backend is configured. Without it
// the server falls back to the in-memory store with mock data.
func (c Config) HasInflux() bool {
	return c.InfluxDBURL != "" && c.InfluxDBToken != "" && c.InfluxDBOrg != ""
}

// AuthEnabled reports whether any request authentication is configured.
func (c Config) AuthEnabled() bool {
	return c.DeviceToken != "" || c.JWTSecret != "" || c.Auth0.Enabled()
}

// LoadConfig loads the configuration from environment variables.
func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, relying on system environment variables")
	}

	cfg := Config{
		Port:           getEnv("PORT", "3001"),
		InfluxDBURL:    os.Getenv("INFLUXDB_URL"),
		InfluxDBToken:  os.Getenv("INFLUXDB_TOKEN"),
		InfluxDBOrg:    os.Getenv("INFLUXDB_ORG"),
		InfluxDBBucket: getEnv("INFLUXDB_BUCKET", "semaphore"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		MQTTBroker:     os.Getenv("MQTT_BROKER"),
		MQTTTopic:      getEnv("MQTT_TOPIC", "semaphore/readings"),
		DeviceToken:    os.Getenv("DEVICE_TOKEN"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		Auth0: Auth0Config{
			Issuer:   os.Getenv("AUTH0_ISSUER"),
			Audience: os.Getenv("AUTH0_AUDIENCE"),
		},
		PollInterval: 5 * time.Second,
	}

	if raw := os.Getenv("POLL_INTERVAL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			log.Warn().Str("poll_interval", raw).Err(err).Msg("invalid POLL_INTERVAL, keeping default")
		} else {
			cfg.PollInterval = d
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
