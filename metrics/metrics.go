// Package metrics exposes Prometheus collectors for the application.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type collectors struct {
	cacheHits          *prometheus.CounterVec
	cacheMisses        *prometheus.CounterVec
	alertsEmitted      *prometheus.CounterVec
	notificationsSent  *prometheus.CounterVec
	monitorCycles      prometheus.Counter
	monitorCycleTime   prometheus.Histogram
	monitorCheckErrors prometheus.Counter
}

var (
	global     *collectors
	globalOnce sync.Once
)

func get() *collectors {
	globalOnce.Do(func() {
		global = &collectors{
			cacheHits: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "weather_cache_hits_total",
					Help: "The total number of weather cache hits",
				},
				[]string{"cache_type"},
			),
			cacheMisses: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "weather_cache_misses_total",
					Help: "The total number of weather cache misses",
				},
				[]string{"cache_type"},
			),
			alertsEmitted: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "weather_alerts_emitted_total",
					Help: "The total number of weather alerts emitted by kind",
				},
				[]string{"kind"},
			),
			notificationsSent: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "notifications_sent_total",
					Help: "The total number of push notifications sent by outcome",
				},
				[]string{"outcome"},
			),
			monitorCycles: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "alert_monitor_cycles_total",
					Help: "The total number of completed alert monitor cycles",
				},
			),
			monitorCycleTime: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "alert_monitor_cycle_duration_seconds",
					Help:    "Alert monitor cycle duration in seconds",
					Buckets: prometheus.DefBuckets,
				},
			),
			monitorCheckErrors: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "alert_monitor_check_errors_total",
					Help: "The total number of per-user check failures in the monitor loop",
				},
			),
		}
	})
	return global
}

// RecordCacheHit increments the cache hit counter for a cache backend
func RecordCacheHit(cacheType string) {
	get().cacheHits.WithLabelValues(cacheType).Inc()
}

// RecordCacheMiss increments the cache miss counter for a cache backend
func RecordCacheMiss(cacheType string) {
	get().cacheMisses.WithLabelValues(cacheType).Inc()
}

// RecordAlert increments the emitted-alert counter for an alert kind
func RecordAlert(kind string) {
	get().alertsEmitted.WithLabelValues(kind).Inc()
}

// RecordNotification increments the notification counter with an outcome label
func RecordNotification(outcome string) {
	get().notificationsSent.WithLabelValues(outcome).Inc()
}

// RecordMonitorCycle records a completed monitor cycle and its duration
func RecordMonitorCycle(seconds float64) {
	c := get()
	c.monitorCycles.Inc()
	c.monitorCycleTime.Observe(seconds)
}

// RecordMonitorCheckError counts a per-user failure inside the monitor loop
func RecordMonitorCheckError() {
	get().monitorCheckErrors.Inc()
}
