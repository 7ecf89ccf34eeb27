package observer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// ReportSink consumes a Stats snapshot each time the caller's loop
// decides a report is due. Sinks are caller-driven collaborators: the
// Observer itself never invokes them, so they add no overhead to ticks
// that do not fire.
type ReportSink interface {
	// Record consumes one report-due snapshot.
	Record(stats Stats)
}

// ─────────────────────────────────────────────────────────────────────────────
// Logging Sink
// ─────────────────────────────────────────────────────────────────────────────

// LoggingSink logs fired reports using zerolog. The Observer already
// throttles reports to the target interval, so every Record call is
// logged without further rate limiting.
type LoggingSink struct {
	logger zerolog.Logger
}

// NewLoggingSink creates a sink that logs each fired report.
//
// Parameters:
//   - logger: The zerolog logger to use.
//
// Returns:
//   - *LoggingSink: A new sink that logs to zerolog.
func NewLoggingSink(logger zerolog.Logger) *LoggingSink {
	return &LoggingSink{logger: logger}
}

// Record implements ReportSink by logging the snapshot.
//
// Parameters:
//   - stats: The snapshot taken when the report fired.
func (s *LoggingSink) Record(stats Stats) {
	s.logger.Info().
		Uint64("ticks", stats.Ticks).
		Uint64("checkpoint_size", stats.CheckpointSize).
		Uint64("next_checkpoint", stats.NextCheckpoint).
		Bool("finished", stats.Finished).
		Msg("progress report")
}

// ─────────────────────────────────────────────────────────────────────────────
// Metrics Sink (Prometheus)
// ─────────────────────────────────────────────────────────────────────────────

// MetricsSink exports fired reports to Prometheus. It tracks the total
// number of reports, the current checkpoint-size estimate, the
// cumulative tick count, and the observed interval between reports.
type MetricsSink struct {
	reports        prometheus.Counter
	checkpointSize prometheus.Gauge
	ticks          prometheus.Gauge
	interval       prometheus.Histogram

	clock      Clock
	lastRecord time.Time
}

// NewMetricsSink creates a sink that updates Prometheus metrics.
//
// Parameters:
//   - reg: The registerer to register metrics with. If nil, the default
//     registerer is used.
//
// Returns:
//   - *MetricsSink: A new sink that exports to Prometheus.
func NewMetricsSink(reg prometheus.Registerer) *MetricsSink {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &MetricsSink{
		reports: factory.NewCounter(prometheus.CounterOpts{
			Name: "tickwatch_reports_total",
			Help: "Total number of progress reports fired",
		}),
		checkpointSize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "tickwatch_checkpoint_size",
			Help: "Current estimate of ticks per reporting interval",
		}),
		ticks: factory.NewGauge(prometheus.GaugeOpts{
			Name: "tickwatch_ticks_total",
			Help: "Cumulative ticks observed since timing began",
		}),
		interval: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "tickwatch_report_interval_seconds",
			Help:    "Observed wall-clock interval between fired reports",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		clock: SystemClock(),
	}
}

// Record implements ReportSink by updating the Prometheus metrics.
//
// Parameters:
//   - stats: The snapshot taken when the report fired.
func (s *MetricsSink) Record(stats Stats) {
	s.reports.Inc()
	s.checkpointSize.Set(float64(stats.CheckpointSize))
	s.ticks.Set(float64(stats.Ticks))

	now := s.clock.Now()
	if !s.lastRecord.IsZero() {
		s.interval.Observe(now.Sub(s.lastRecord).Seconds())
	}
	s.lastRecord = now
}

// ─────────────────────────────────────────────────────────────────────────────
// No-Op Sink (Null Object Pattern)
// ─────────────────────────────────────────────────────────────────────────────

// NoopSink discards all reports. Useful for testing or when a sink is
// required structurally but reporting is not needed.
type NoopSink struct{}

// NewNoopSink creates a sink that discards reports.
//
// Returns:
//   - *NoopSink: A new no-op sink.
func NewNoopSink() *NoopSink {
	return &NoopSink{}
}

// Record implements ReportSink by doing nothing.
func (s *NoopSink) Record(stats Stats) {
	// Intentionally empty - Null Object pattern
}
