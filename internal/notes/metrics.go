package notes

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var notesGauge = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "areas_notes",
	Help: "Areas currently registered under a note name",
})
