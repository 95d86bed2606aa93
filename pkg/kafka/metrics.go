package kafka

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var publishLabels = []string{"topic", "event_type"}

var (
	producerMessagesPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kafka_producer_messages_published_total",
		Help: "Total number of Kafka messages published",
	}, publishLabels)

	producerPublishErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kafka_producer_publish_errors_total",
		Help: "Total number of Kafka publish failures",
	}, publishLabels)

	producerPublishDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kafka_producer_publish_duration_seconds",
		Help:    "Time spent in WriteMessages, failures included",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, publishLabels)
)

// observePublish records one publish attempt that started at start.
func observePublish(topic, eventType string, start time.Time, err error) {
	producerPublishDuration.WithLabelValues(topic, eventType).Observe(time.Since(start).Seconds())
	if err != nil {
		producerPublishErrors.WithLabelValues(topic, eventType).Inc()
		return
	}
	producerMessagesPublished.WithLabelValues(topic, eventType).Inc()
}
