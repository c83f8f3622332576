package metrics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"suppsearch/internal/db"
)

var (
	queryLookupDesc = prometheus.NewDesc(
		"suppsearch_query_lookups_total",
		"Total query lookup count by outcome",
		[]string{"query", "outcome"},
		nil,
	)

	// StageDuration observes how long each pipeline stage ran.
	StageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "suppsearch_stage_duration_seconds",
			Help:    "Pipeline stage duration by stage label",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 14),
		},
		[]string{"stage"},
	)

	// BudgetExhaustions counts requests that hit the global deadline before
	// a stage could start.
	BudgetExhaustions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "suppsearch_budget_exhaustions_total",
			Help: "Requests whose global budget ran out before a stage could start",
		},
	)

	// StageTimeouts counts stages that exceeded their clamped allotment.
	StageTimeouts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suppsearch_stage_timeouts_total",
			Help: "Stage timeouts by stage label",
		},
		[]string{"stage"},
	)
)

// QueryCollector is a custom Prometheus collector that reads query lookup
// counts from the database on each scrape.
type QueryCollector struct {
	db *db.DB
}

// Describe sends the metric descriptor to the channel.
func (c *QueryCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- queryLookupDesc
}

// Collect queries the database for all query lookups and emits them as counters.
func (c *QueryCollector) Collect(ch chan<- prometheus.Metric) {
	lookups, err := c.db.GetAllQueryLookups(context.Background())
	if err != nil {
		slog.Error("failed to collect query lookup metrics", "error", err)
		return
	}
	for _, l := range lookups {
		ch <- prometheus.MustNewConstMetric(
			queryLookupDesc,
			prometheus.CounterValue,
			float64(l.Count),
			l.Query,
			l.Outcome,
		)
	}
}

// Recorder provides async query lookup recording.
type Recorder struct {
	db *db.DB
}

var (
	recorder     *Recorder
	recorderOnce sync.Once
)

// Init registers the collectors and initializes the recorder.
// Must be called once at startup.
func Init(database *db.DB) {
	recorderOnce.Do(func() {
		recorder = &Recorder{db: database}
		prometheus.MustRegister(&QueryCollector{db: database})
		prometheus.MustRegister(StageDuration, BudgetExhaustions, StageTimeouts)
	})
}

// RecordQueryLookup asynchronously records a query lookup outcome.
func RecordQueryLookup(query, outcome string) {
	if recorder == nil {
		return
	}
	go func() {
		if err := recorder.db.IncrementQueryLookup(context.Background(), query, outcome); err != nil {
			slog.Error("failed to record query lookup", "query", query, "outcome", outcome, "error", err)
		}
	}()
}
