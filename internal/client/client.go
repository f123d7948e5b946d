package client

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-resty/resty/v2"

	"semaphore.iot/internal/models"
)

// Client is the dashboard's thin wrapper around the readings API. One call
// issues exactly one outbound request; there is no retry and no merging,
// every failure is returned to the caller.
type Client struct {
	http *resty.Client
}

// New creates a client against the API base URL, e.g. http://localhost:3001.
func New(baseURL string) *Client {
	return &Client{
		http: resty.New().SetBaseURL(baseURL),
	}
}

// FetchLast asks the API for the last count readings, chronological
// ascending. count passes through unvalidated; the server rejects
// non-positive values.
func (c *Client) FetchLast(ctx context.Context, count int) (models.Snapshot, error) {
	var readings []models.Reading
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("count", strconv.Itoa(count)).
		SetResult(&readings).
		Get("/last")
	if err != nil {
		return nil, fmt.Errorf("fetching last readings: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetching last readings: unexpected status %s", resp.Status())
	}
	return models.Snapshot(readings), nil
}

// FetchAll returns every stored reading.
func (c *Client) FetchAll(ctx context.Context) ([]models.Reading, error) {
	var readings []models.Reading
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&readings).
		Get("/all")
	if err != nil {
		return nil, fmt.Errorf("fetching all readings: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetching all readings: unexpected status %s", resp.Status())
	}
	return readings, nil
}

// FetchGrid returns the semaphore device coordinate grid.
func (c *Client) FetchGrid(ctx context.Context) (models.Grid, error) {
	var grid models.Grid
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&grid).
		Get("/grid")
	if err != nil {
		return models.Grid{}, fmt.Errorf("fetching grid: %w", err)
	}
	if resp.IsError() {
		return models.Grid{}, fmt.Errorf("fetching grid: unexpected status %s", resp.Status())
	}
	return grid, nil
}
