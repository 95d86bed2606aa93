package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	savesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seller_console_saves_total",
			Help: "Wizard save runs by outcome and failure category",
		},
		[]string{"outcome", "category"},
	)

	saveStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "seller_console_save_stage_duration_seconds",
			Help:    "Duration of each save stage in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	imageUploadFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "seller_console_image_upload_failures_total",
			Help: "Item image uploads that failed and were skipped",
		},
	)
)
