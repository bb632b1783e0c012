package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `{
  "channel": {"id": 42, "name": "nursery"},
  "feeds": [
    {"created_at": "2026-03-01T10:00:00Z", "entry_id": 7, "field1": "128"},
    {"created_at": "2026-03-01T10:00:15Z", "entry_id": 8, "field1": ""},
    {"created_at": "2026-03-01T10:00:30Z", "entry_id": 9, "field1": "n/a"},
    {"created_at": "2026-03-01T10:00:45Z", "entry_id": 10, "field1": " 131.5 "},
    {"created_at": "2026-03-01T10:01:00Z", "entry_id": 11}
  ]
}`

func TestFetchFieldParsesFeedAndSkipsBadPoints(t *testing.T) {
	var gotPath, gotResults, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotResults = r.URL.Query().Get("results")
		gotKey = r.URL.Query().Get("api_key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", "42", "read-key", server.Client())
	points, err := client.FetchField(context.Background(), 1, 5)
	require.NoError(t, err)

	assert.Equal(t, "/channels/42/fields/1.json", gotPath)
	assert.Equal(t, "5", gotResults)
	assert.Equal(t, "read-key", gotKey)
	require.Len(t, points, 2)
	assert.Equal(t, Point{At: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), EntryID: 7, Value: 128}, points[0])
	assert.Equal(t, int64(10), points[1].EntryID)
	assert.InDelta(t, 131.5, points[1].Value, 0.0001)
}

func TestFetchFieldOmitsEmptyReadKey(t *testing.T) {
	var rawQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"feeds": []}`))
	}))
	defer server.Close()

	points, err := NewClient(server.URL, "42", "", server.Client()).FetchField(context.Background(), 2, 20)
	require.NoError(t, err)
	assert.Empty(t, points)
	assert.Equal(t, "results=20", rawQuery)
}

func TestFetchFieldReportsHTTPStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "channel not found", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "42", "", server.Client()).FetchField(context.Background(), 1, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "channel not found")
}

func TestFetchFieldRequiresChannel(t *testing.T) {
	_, err := NewClient("", " ", "", nil).FetchField(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestClassify(t *testing.T) {
	cases := []struct {
		metric string
		value  float64
		want   string
	}{
		{MetricHeartRate, 99, StatusLow},
		{MetricHeartRate, 100, StatusNormal},
		{MetricHeartRate, 160, StatusNormal},
		{MetricHeartRate, 161, StatusHigh},
		{MetricSpO2, 89.9, StatusCritical},
		{MetricSpO2, 94, StatusLow},
		{MetricSpO2, 95, StatusNormal},
		{MetricTemperature, 36.4, StatusLow},
		{MetricTemperature, 37.0, StatusNormal},
		{MetricTemperature, 37.6, StatusHigh},
		{"humidity", 50, StatusUnknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.metric, tc.value), "%s=%v", tc.metric, tc.value)
	}
}

func TestParseFieldMap(t *testing.T) {
	fields, err := ParseFieldMap(" heart_rate:1, spo2:2,temperature:3 ")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{MetricHeartRate: 1, MetricSpO2: 2, MetricTemperature: 3}, fields)

	for _, raw := range []string{"", "heart_rate", "pulse:1", "spo2:9", "spo2:x"} {
		_, err := ParseFieldMap(raw)
		assert.Error(t, err, "raw %q", raw)
	}
}
