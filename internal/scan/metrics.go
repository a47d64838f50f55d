package scan

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	scanPoints = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "areas_scan_points_total",
		Help: "Points returned by area walks, by mode",
	}, []string{"mode"})

	scanTruncated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "areas_scan_truncated_total",
		Help: "Area walks stopped early by the block cap, by mode",
	}, []string{"mode"})
)

func observe(mode string, n int, truncated bool) {
	scanPoints.WithLabelValues(mode).Add(float64(n))
	if truncated {
		scanTruncated.WithLabelValues(mode).Inc()
	}
}
