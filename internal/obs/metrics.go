package obs

import (
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// ParseBucketsCSV converts a comma-separated list of positive bucket boundaries into floats.
func ParseBucketsCSV(csv string) []float64 {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]float64, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		v, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			continue
		}
		if v <= 0 {
			continue
		}
		out = append(out, v)
	}
	return out
}

// WriteTextfile dumps the gathered metrics in the text exposition format so
// the node exporter textfile collector can pick them up. An empty path is a no-op.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return prometheus.WriteToTextfile(path, g)
}
