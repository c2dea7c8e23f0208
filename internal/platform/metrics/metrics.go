package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SignalsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lawdesk_signals_published_total",
		Help: "Total signal events published to the in-process bus, labelled by kind.",
	}, []string{"kind"})

	SignalsDelivered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lawdesk_signals_delivered_total",
		Help: "Total signal events delivered to bus subscribers, labelled by kind.",
	}, []string{"kind"})

	SignalsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lawdesk_signals_dropped_total",
		Help: "Total signal events dropped for slow subscribers, labelled by kind.",
	}, []string{"kind"})

	RateLimitDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lawdesk_rate_limit_decisions_total",
		Help: "Total rate-limit decisions, labelled by outcome (allowed/denied).",
	}, []string{"outcome"})

	OpenSignalStreams = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lawdesk_open_signal_streams",
		Help: "Currently open realtime signal stream connections.",
	})

	SignalTouchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "lawdesk_signal_touch_duration_ms",
		Help:    "Signal store touch latency in milliseconds.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
)
