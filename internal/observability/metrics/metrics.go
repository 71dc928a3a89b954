package metrics

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "kagome_"

	resultSuccess = "success"
	resultError   = "error"

	cycleSuccess = "success"
	cycleAborted = "aborted"

	notificationSent    = "sent"
	notificationError   = "error"
	notificationDropped = "dropped"
)

var (
	registerOnce sync.Once

	cyclesTotal   *prometheus.CounterVec
	cyclesSkipped prometheus.Counter
	cycleLatency  *prometheus.HistogramVec

	batchReadTotal   *prometheus.CounterVec
	batchReadLatency *prometheus.HistogramVec

	notificationsTotal *prometheus.CounterVec

	reportExportTotal   *prometheus.CounterVec
	reportExportLatency *prometheus.HistogramVec
)

// Init registers observability metrics and DB-backed gauges.
func Init(db *sql.DB, logger *log.Logger) {
	registerOnce.Do(func() {
		cyclesTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "alert_cycles_total",
				Help: "Total alert evaluation cycles by result",
			},
			[]string{"result"},
		)
		cyclesSkipped = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "alert_cycles_skipped_total",
				Help: "Ticks skipped because a cycle was still in flight",
			},
		)
		cycleLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "alert_cycle_latency_seconds",
				Help:    "Alert cycle latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		batchReadTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "batch_read_total",
				Help: "Total process-data batch reads by result",
			},
			[]string{"result"},
		)
		batchReadLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "batch_read_latency_seconds",
				Help:    "Process-data batch read latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		notificationsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "notifications_total",
				Help: "Total alarm notifications by result",
			},
			[]string{"result"},
		)

		reportExportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_export_total",
				Help: "Total report exports by format and result",
			},
			[]string{"format", "result"},
		)
		reportExportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_export_latency_seconds",
				Help:    "Report export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		prometheus.MustRegister(
			cyclesTotal,
			cyclesSkipped,
			cycleLatency,
			batchReadTotal,
			batchReadLatency,
			notificationsTotal,
			reportExportTotal,
			reportExportLatency,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

// ObserveCycle records cycle duration and result.
func ObserveCycle(result string, duration time.Duration) {
	if result == "" {
		result = cycleSuccess
	}
	if cyclesTotal != nil {
		cyclesTotal.WithLabelValues(result).Inc()
	}
	if cycleLatency != nil {
		cycleLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncCycleSkipped counts a skipped tick.
func IncCycleSkipped() {
	if cyclesSkipped != nil {
		cyclesSkipped.Inc()
	}
}

// ObserveBatchRead records batch read latency and result.
func ObserveBatchRead(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if batchReadTotal != nil {
		batchReadTotal.WithLabelValues(result).Inc()
	}
	if batchReadLatency != nil {
		batchReadLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncNotification counts a notification outcome.
func IncNotification(result string) {
	if result == "" {
		result = "unknown"
	}
	if notificationsTotal != nil {
		notificationsTotal.WithLabelValues(result).Inc()
	}
}

// ObserveReportExport records export latency and result.
func ObserveReportExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if reportExportTotal != nil {
		reportExportTotal.WithLabelValues(format, result).Inc()
	}
	if reportExportLatency != nil {
		reportExportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError

	CycleSuccess = cycleSuccess
	CycleAborted = cycleAborted

	NotificationSent    = notificationSent
	NotificationError   = notificationError
	NotificationDropped = notificationDropped
)
