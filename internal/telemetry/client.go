// Package telemetry polls newborn vitals from a ThingSpeak-style channel feed.
package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.thingspeak.com"

var ErrNotConfigured = errors.New("telemetry channel not configured")

type Point struct {
	At      time.Time `json:"at"`
	EntryID int64     `json:"entry_id"`
	Value   float64   `json:"value"`
}

type Client struct {
	baseURL   string
	channelID string
	readKey   string
	http      *http.Client
}

func NewClient(baseURL string, channelID string, readKey string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		channelID: strings.TrimSpace(channelID),
		readKey:   strings.TrimSpace(readKey),
		http:      httpClient,
	}
}

// FetchField reads the most recent results of one channel field. Blank or
// unparsable values are skipped.
func (client *Client) FetchField(ctx context.Context, field int, results int) ([]Point, error) {
	if client.channelID == "" {
		return nil, ErrNotConfigured
	}

	query := url.Values{}
	query.Set("results", strconv.Itoa(results))
	if client.readKey != "" {
		query.Set("api_key", client.readKey)
	}
	endpoint := fmt.Sprintf("%s/channels/%s/fields/%d.json?%s", client.baseURL, url.PathEscape(client.channelID), field, query.Encode())

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	request.Header.Set("Accept", "application/json")

	response, err := client.http.Do(request)
	if err != nil {
		return nil, fmt.Errorf("telemetry request failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(response.Body, 512))
		return nil, fmt.Errorf("telemetry returned status %d: %s", response.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload feedResponse
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return payload.points(fmt.Sprintf("field%d", field)), nil
}

type feedResponse struct {
	Feeds []map[string]any `json:"feeds"`
}

func (payload feedResponse) points(fieldKey string) []Point {
	points := make([]Point, 0, len(payload.Feeds))
	for _, feed := range payload.Feeds {
		raw, ok := feed[fieldKey].(string)
		if !ok {
			continue
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			continue
		}
		createdAt, _ := feed["created_at"].(string)
		at, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			continue
		}
		point := Point{At: at, Value: value}
		if entryID, ok := feed["entry_id"].(float64); ok {
			point.EntryID = int64(entryID)
		}
		points = append(points, point)
	}
	return points
}
