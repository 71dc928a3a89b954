package metrics

import (
	"database/sql"
	"log"

	"github.com/prometheus/client_golang/prometheus"
)

func registerDBMetrics(db *sql.DB, logger *log.Logger) {
	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "alert_configs_active",
			Help: "Active alert configurations",
		},
		func() float64 {
			return queryCount(db, logger, "SELECT COUNT(*) FROM alert_configs WHERE is_active = TRUE")
		},
	))

	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "alert_patterns_count",
			Help: "Configured alert patterns",
		},
		func() float64 {
			return queryCount(db, logger, "SELECT COUNT(*) FROM alert_patterns")
		},
	))

	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "distribution_lists_count",
			Help: "Configured distribution lists",
		},
		func() float64 {
			return queryCount(db, logger, "SELECT COUNT(*) FROM distribution_lists")
		},
	))
}

func queryCount(db *sql.DB, logger *log.Logger, query string) float64 {
	if db == nil {
		return 0
	}
	var count int64
	if err := db.QueryRow(query).Scan(&count); err != nil {
		if logger != nil {
			logger.Printf("metrics query failed: %v", err)
		}
		return 0
	}
	if count < 0 {
		return 0
	}
	return float64(count)
}
