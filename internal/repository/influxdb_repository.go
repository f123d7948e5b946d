package repository

import (
	"context"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/query"
	"github.com/rs/zerolog/log"

	"semaphore.iot/internal/models"
)

const measurement = "semaphore_readings"

// InfluxDBRepository stores readings in InfluxDB, one point per reading.
type InfluxDBRepository struct {
	client influxdb2.Client
	org    string
	bucket string
}

// NewInfluxDBRepository creates a new InfluxDBRepository.
func NewInfluxDBRepository(url, token, org, bucket string) *InfluxDBRepository {
	client := influxdb2.NewClient(url, token)
	return &InfluxDBRepository{
		client: client,
		org:    org,
		bucket: bucket,
	}
}

// Ping checks the connection health of the InfluxDB backend.
func (r *InfluxDBRepository) Ping(ctx context.Context) error {
	health, err := r.client.Health(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to InfluxDB: %w", err)
	}
	if health.Status != "pass" {
		return fmt.Errorf("InfluxDB health check failed: %v", health.Message)
	}
	return nil
}

// Close releases the underlying HTTP client.
func (r *InfluxDBRepository) Close() {
	r.client.Close()
}

// WriteReading writes one reading to InfluxDB. A missing or unparsable
// timestamp falls back to server time.
func (r *InfluxDBRepository) WriteReading(ctx context.Context, reading models.Reading) error {
	writeAPI := r.client.WriteAPIBlocking(r.org, r.bucket)

	ts := time.Now()
	if reading.Timestamp != "" {
		parsed, err := time.Parse(time.RFC3339, reading.Timestamp)
		if err != nil {
			log.Warn().Str("timestamp", reading.Timestamp).Err(err).Msg("unparsable reading timestamp, using server time")
		} else {
			ts = parsed
		}
	}

	fields := map[string]interface{}{
		"audio":       reading.Audio,
		"temperature": reading.Temperature,
		"humidity":    reading.Humidity,
		"pressure":    reading.Pressure,
		"gas":         reading.Gas,
		"state":       reading.State,
	}

	p := influxdb2.NewPoint(
		measurement,
		map[string]string{"sourceId": reading.SourceID},
		fields,
		ts,
	)

	if err := writeAPI.WritePoint(ctx, p); err != nil {
		return fmt.Errorf("error writing to InfluxDB: %w", err)
	}
	log.Debug().Str("source_id", reading.SourceID).Time("ts", ts).Msg("reading written to InfluxDB")
	return nil
}

// AllReadings returns every stored reading, chronological ascending.
func (r *InfluxDBRepository) AllReadings(ctx context.Context) ([]models.Reading, error) {
	fluxQuery := fmt.Sprintf(`
		from(bucket: "%s")
		|> range(start: 0)
		|> filter(fn: (r) => r["_measurement"] == "%s")
		|> pivot(rowKey: ["_time"], columnKey: ["_field"], valueColumn: "_value")
		|> sort(columns: ["_time"])
	`, r.bucket, measurement)

	return r.queryReadings(ctx, fluxQuery)
}

// LastReadings returns the last count readings, chronological ascending.
func (r *InfluxDBRepository) LastReadings(ctx context.Context, count int) ([]models.Reading, error) {
	fluxQuery := fmt.Sprintf(`
		from(bucket: "%s")
		|> range(start: 0)
		|> filter(fn: (r) => r["_measurement"] == "%s")
		|> pivot(rowKey: ["_time"], columnKey: ["_field"], valueColumn: "_value")
		|> sort(columns: ["_time"])
		|> tail(n: %d)
	`, r.bucket, measurement, count)

	return r.queryReadings(ctx, fluxQuery)
}

func (r *InfluxDBRepository) queryReadings(ctx context.Context, fluxQuery string) ([]models.Reading, error) {
	queryAPI := r.client.QueryAPI(r.org)

	result, err := queryAPI.Query(ctx, fluxQuery)
	if err != nil {
		return nil, fmt.Errorf("error querying InfluxDB: %w", err)
	}

	var readings []models.Reading
	for result.Next() {
		if result.Err() != nil {
			log.Warn().Err(result.Err()).Msg("error during query iteration")
			continue
		}
		readings = append(readings, recordToReading(result.Record()))
	}
	if result.Err() != nil {
		return nil, fmt.Errorf("query error: %w", result.Err())
	}

	return readings, nil
}

func recordToReading(record *query.FluxRecord) models.Reading {
	reading := models.Reading{
		Timestamp: record.Time().Format(time.RFC3339),
	}
	if id, ok := record.ValueByKey("sourceId").(string); ok {
		reading.SourceID = id
	}
	reading.Audio = stringField(record, "audio")
	reading.Temperature = stringField(record, "temperature")
	reading.Humidity = stringField(record, "humidity")
	reading.Pressure = stringField(record, "pressure")
	reading.Gas = stringField(record, "gas")
	reading.State = stringField(record, "state")
	return reading
}

func stringField(record *query.FluxRecord, field string) string {
	if v, ok := record.ValueByKey(field).(string); ok {
		return v
	}
	return ""
}
