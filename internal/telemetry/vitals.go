package telemetry

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	MetricHeartRate   = "heart_rate"
	MetricSpO2        = "spo2"
	MetricTemperature = "temperature"
)

const (
	StatusNormal   = "normal"
	StatusLow      = "low"
	StatusHigh     = "high"
	StatusCritical = "critical"
	StatusUnknown  = "unknown"
)

var metricUnits = map[string]string{
	MetricHeartRate:   "bpm",
	MetricSpO2:        "%",
	MetricTemperature: "°C",
}

func IsKnownMetric(metric string) bool {
	_, ok := metricUnits[metric]
	return ok
}

func Unit(metric string) string {
	return metricUnits[metric]
}

// Classify rates a newborn reading against fixed reference ranges.
func Classify(metric string, value float64) string {
	switch metric {
	case MetricHeartRate:
		switch {
		case value < 100:
			return StatusLow
		case value > 160:
			return StatusHigh
		default:
			return StatusNormal
		}
	case MetricSpO2:
		switch {
		case value < 90:
			return StatusCritical
		case value < 95:
			return StatusLow
		default:
			return StatusNormal
		}
	case MetricTemperature:
		switch {
		case value < 36.5:
			return StatusLow
		case value > 37.5:
			return StatusHigh
		default:
			return StatusNormal
		}
	default:
		return StatusUnknown
	}
}

// ParseFieldMap parses "metric:field" pairs such as "heart_rate:1,spo2:2".
func ParseFieldMap(raw string) (map[string]int, error) {
	fields := make(map[string]int)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		metric, number, ok := strings.Cut(pair, ":")
		metric = strings.TrimSpace(metric)
		if !ok || !IsKnownMetric(metric) {
			return nil, fmt.Errorf("invalid telemetry field %q", pair)
		}
		field, err := strconv.Atoi(strings.TrimSpace(number))
		if err != nil || field < 1 || field > 8 {
			return nil, fmt.Errorf("invalid telemetry field number in %q", pair)
		}
		fields[metric] = field
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("no telemetry fields configured")
	}
	return fields, nil
}

func sortedMetrics(fields map[string]int) []string {
	metrics := make([]string, 0, len(fields))
	for metric := range fields {
		metrics = append(metrics, metric)
	}
	sort.Strings(metrics)
	return metrics
}
