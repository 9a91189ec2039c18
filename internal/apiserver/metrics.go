package apiserver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	correctionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "spellfix",
		Name:      "corrections_total",
		Help:      "Corrections served, by outcome (unchanged, corrected, degraded).",
	}, []string{"outcome"})

	candidatesPerWord = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "spellfix",
		Name:      "candidates_per_word",
		Help:      "Distinct candidates scored per corrected word.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
	})

	skippedHypotheses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "spellfix",
		Name:      "skipped_hypotheses_total",
		Help:      "Edit hypotheses dropped for missing letter statistics.",
	})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "spellfix",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
	}, []string{"route", "status"})

	SnapshotReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "spellfix",
		Name:      "snapshot_reloads_total",
		Help:      "Snapshot swaps, by result.",
	}, []string{"result"})
)
