package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the packing core.
type Metrics struct {
	// Placement metrics
	PlacementsTotal    *prometheus.CounterVec
	PlacementDuration  *prometheus.HistogramVec
	PlacementRejections *prometheus.CounterVec

	// Collision detection engine metrics
	CollisionChecksTotal *prometheus.CounterVec
	CollisionCheckLatency *prometheus.HistogramVec
	SurrogatePoleCount   prometheus.Histogram

	// Hazard Proximity Grid metrics
	HPGCellUpdates     prometheus.Counter
	HPGCellCount       prometheus.Gauge
	HPGRegistrations   *prometheus.CounterVec

	// Quadtree metrics
	QTRebuilds  prometheus.Counter
	QTNodeCount prometheus.Gauge

	// Layout/solution metrics
	LayoutsActive    prometheus.Gauge
	LayoutUsage      prometheus.Histogram
	SolutionsCreated prometheus.Counter
	SolutionUsage    prometheus.Gauge

	// JSON I/O metrics
	ParseDuration      prometheus.Histogram
	ParseErrorsTotal   *prometheus.CounterVec
	SurrogateBuildRate prometheus.Counter

	// System metrics
	GoroutinesCount prometheus.Gauge
	MemoryUsage     prometheus.Gauge
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		PlacementsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "packer_placements_total",
				Help: "Total number of placement attempts by outcome",
			},
			[]string{"outcome"}, // "accepted", "rejected"
		),
		PlacementDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "packer_placement_duration_seconds",
				Help:    "Placement attempt duration in seconds",
				Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05, .1},
			},
			[]string{"outcome"},
		),
		PlacementRejections: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "packer_placement_rejections_total",
				Help: "Total number of rejected placements by rejecting stage",
			},
			[]string{"stage"}, // "hpg_filter", "surrogate_check", "exact_check"
		),

		CollisionChecksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "packer_collision_checks_total",
				Help: "Total number of collision checks by stage and result",
			},
			[]string{"stage", "result"},
		),
		CollisionCheckLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "packer_collision_check_latency_seconds",
				Help:    "Collision check latency in seconds by stage",
				Buckets: []float64{.000001, .00001, .0001, .001, .01, .1},
			},
			[]string{"stage"},
		),
		SurrogatePoleCount: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "packer_surrogate_pole_count",
				Help:    "Number of poles generated per surrogate",
				Buckets: []float64{1, 2, 3, 5, 7, 10, 15, 20},
			},
		),

		HPGCellUpdates: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "packer_hpg_cell_updates_total",
				Help: "Total number of HPG cell proximity updates",
			},
		),
		HPGCellCount: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "packer_hpg_cell_count",
				Help: "Current number of cells in the active HPG",
			},
		),
		HPGRegistrations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "packer_hpg_registrations_total",
				Help: "Total number of hazard register/deregister calls by direction",
			},
			[]string{"direction"}, // "register", "deregister"
		),

		QTRebuilds: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "packer_qt_rebuilds_total",
				Help: "Total number of quadtree rebuilds",
			},
		),
		QTNodeCount: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "packer_qt_node_count",
				Help: "Current number of nodes in the active quadtree",
			},
		),

		LayoutsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "packer_layouts_active",
				Help: "Current number of active layouts across all problems",
			},
		),
		LayoutUsage: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "packer_layout_usage_ratio",
				Help:    "Overall bin area usage fraction of each captured solution",
				Buckets: []float64{.1, .2, .3, .4, .5, .6, .7, .8, .9, 1.0},
			},
		),
		SolutionsCreated: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "packer_solutions_created_total",
				Help: "Total number of solutions captured",
			},
		),
		SolutionUsage: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "packer_solution_usage_ratio",
				Help: "Overall bin area usage fraction of the most recent solution",
			},
		),

		ParseDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "packer_jsonio_parse_duration_seconds",
				Help:    "JSON instance parse duration in seconds",
				Buckets: []float64{.001, .01, .1, .5, 1, 5, 10, 30},
			},
		),
		ParseErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "packer_jsonio_parse_errors_total",
				Help: "Total number of JSON parse errors by kind",
			},
			[]string{"kind"},
		),
		SurrogateBuildRate: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "packer_jsonio_surrogates_built_total",
				Help: "Total number of item surrogates built during parsing",
			},
		),

		GoroutinesCount: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "packer_goroutines",
				Help: "Current number of goroutines",
			},
		),
		MemoryUsage: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "packer_memory_bytes",
				Help: "Memory usage in bytes",
			},
		),
	}

	return m
}

// RecordPlacement records a placement attempt's outcome and duration.
func (m *Metrics) RecordPlacement(outcome string, duration time.Duration) {
	m.PlacementsTotal.WithLabelValues(outcome).Inc()
	m.PlacementDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordRejection records which pipeline stage rejected a placement.
func (m *Metrics) RecordRejection(stage string) {
	m.PlacementRejections.WithLabelValues(stage).Inc()
}

// RecordCollisionCheck records one collision check at a given pipeline
// stage and its outcome.
func (m *Metrics) RecordCollisionCheck(stage, result string, duration time.Duration) {
	m.CollisionChecksTotal.WithLabelValues(stage, result).Inc()
	m.CollisionCheckLatency.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordSurrogateBuild records the pole count of a newly built surrogate.
func (m *Metrics) RecordSurrogateBuild(poleCount int) {
	m.SurrogatePoleCount.Observe(float64(poleCount))
	m.SurrogateBuildRate.Inc()
}

// RecordHPGRegistration records a hazard register or deregister call.
func (m *Metrics) RecordHPGRegistration(direction string) {
	m.HPGRegistrations.WithLabelValues(direction).Inc()
	m.HPGCellUpdates.Inc()
}

// UpdateHPGCellCount updates the active HPG's cell count gauge.
func (m *Metrics) UpdateHPGCellCount(count int) {
	m.HPGCellCount.Set(float64(count))
}

// RecordQTRebuild records a quadtree rebuild and its resulting node count.
func (m *Metrics) RecordQTRebuild(nodeCount int) {
	m.QTRebuilds.Inc()
	m.QTNodeCount.Set(float64(nodeCount))
}

// UpdateLayoutsActive updates the active-layout gauge.
func (m *Metrics) UpdateLayoutsActive(count int) {
	m.LayoutsActive.Set(float64(count))
}

// RecordSolution records a newly captured solution's usage.
func (m *Metrics) RecordSolution(usage float64) {
	m.SolutionsCreated.Inc()
	m.LayoutUsage.Observe(usage)
	m.SolutionUsage.Set(usage)
}

// RecordParse records a JSON instance parse's duration.
func (m *Metrics) RecordParse(duration time.Duration) {
	m.ParseDuration.Observe(duration.Seconds())
}

// RecordParseError records a JSON parse error by kind.
func (m *Metrics) RecordParseError(kind string) {
	m.ParseErrorsTotal.WithLabelValues(kind).Inc()
}

// UpdateGoroutineCount updates the goroutine count gauge.
func (m *Metrics) UpdateGoroutineCount(count int) {
	m.GoroutinesCount.Set(float64(count))
}

// UpdateMemoryUsage updates the memory usage gauge.
func (m *Metrics) UpdateMemoryUsage(bytes uint64) {
	m.MemoryUsage.Set(float64(bytes))
}
