package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_operation_duration_seconds",
			Help:    "Duration of database operations",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation", "collection"},
	)

	// Authentication Metrics
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"status", "reason"}, // success/failure, expired/invalid/...
	)

	// Reminder Metrics
	ReminderTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reminder_transitions_total",
			Help: "Total number of reminder state transitions",
		},
		[]string{"transition"}, // complete, snooze, dismiss, deactivate
	)

	// Upload Metrics
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uploads_total",
			Help: "Total number of upload attempts",
		},
		[]string{"status", "type"}, // accepted/rejected, image/document/audio
	)

	// Error Metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors by type",
		},
		[]string{"type", "reason"},
	)
)

// TrackDBOperation tracks database operation duration
func TrackDBOperation(operation, collection string) *prometheus.Timer {
	return prometheus.NewTimer(DBOperationDuration.WithLabelValues(operation, collection))
}

// TrackAuthAttempt records authentication attempts
func TrackAuthAttempt(status, reason string) {
	AuthAttempts.WithLabelValues(status, reason).Inc()
}

// TrackReminderTransition increments the reminder transition counter
func TrackReminderTransition(transition string) {
	ReminderTransitions.WithLabelValues(transition).Inc()
}

// TrackUpload records an upload attempt outcome
func TrackUpload(status, fileType string) {
	UploadsTotal.WithLabelValues(status, fileType).Inc()
}

// TrackError increments the error counter by type
func TrackError(errorType, reason string) {
	ErrorsTotal.WithLabelValues(errorType, reason).Inc()
}
