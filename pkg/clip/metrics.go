// ABOUTME: Prometheus metrics for the clip layer
// ABOUTME: Tracks open contexts, live clips, load outcomes and completions
package clip

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	contextsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "clipdeck_contexts_open",
			Help: "Number of native sessions currently open",
		},
	)

	clipsLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "clipdeck_clips_loaded",
			Help: "Number of clips currently loaded in the native engine",
		},
	)

	clipLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clipdeck_clip_loads_total",
			Help: "Total number of clip load attempts by result",
		},
		[]string{"result"},
	)

	clipCompletionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "clipdeck_clip_completions_total",
			Help: "Total number of end-of-clip notifications delivered to live clips",
		},
	)

	completionsOrphanedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "clipdeck_completions_orphaned_total",
			Help: "Total number of end-of-clip notifications for clips no longer loaded",
		},
	)
)
