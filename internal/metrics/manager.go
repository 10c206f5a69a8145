package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests            *prometheus.CounterVec
	CounterUnresolvedExercises *prometheus.CounterVec
	CounterThumbnailsGenerated prometheus.Counter
	CounterThumbnailsFailed    prometheus.Counter
	CounterThumbnailsCleared   prometheus.Counter
	CounterProgramsActivated   prometheus.Counter
	CounterHandleRequestPanic  prometheus.Counter

	// gauges
	GaugeRequests        prometheus.Gauge
	GaugeThumbnailsCache prometheus.Gauge

	// histograms
	HistRequestDuration   prometheus.Histogram
	HistThumbnailDuration prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("fitprogram", "test", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("fitprogram", "test", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "status"})
	counterUnresolved := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "unresolved_exercises",
		Help:      "Program exercises dropped because the name did not resolve",
	}, []string{"program"})
	counterGenerated := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "thumbnails_generated",
		Help:      "The total number of generated thumbnails",
	})
	counterFailed := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "thumbnails_failed",
		Help:      "The total number of thumbnail generations that failed on every candidate URL",
	})
	counterCleared := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "thumbnails_cleared",
		Help:      "Number of thumbnails removed by cleanup",
	})
	counterActivated := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "programs_activated",
		Help:      "The total number of program activations",
	})
	counterPanic := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "handle_request_panic",
		Help:      "The total number of serve request panics",
	})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "current_requests",
		Help:      "Current number of requests served",
	})
	gaugeCache := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "thumbnails_cached",
		Help:      "Number of entries in the thumbnail cache index",
	})

	histReqDuration := factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Buckets:   []float64{0.0001, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		Name:      "request_duration_seconds",
		Help:      "Total duration of requests in seconds",
	})
	histThumbDuration := factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		Name:      "thumbnail_generation_seconds",
		Help:      "Duration of a single thumbnail generation in seconds",
	})

	return &Manager{
		CounterRequests:            counterRequests,
		CounterUnresolvedExercises: counterUnresolved,
		CounterThumbnailsGenerated: counterGenerated,
		CounterThumbnailsFailed:    counterFailed,
		CounterThumbnailsCleared:   counterCleared,
		CounterProgramsActivated:   counterActivated,
		CounterHandleRequestPanic:  counterPanic,
		GaugeRequests:              gaugeRequests,
		GaugeThumbnailsCache:       gaugeCache,
		HistRequestDuration:        histReqDuration,
		HistThumbnailDuration:      histThumbDuration,
	}
}
