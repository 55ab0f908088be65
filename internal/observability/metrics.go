// Package observability holds the Prometheus metrics recorded by the
// pipeline and the HTTP server that exposes them.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "wildfire"

// Metrics holds the Prometheus counters, histograms, and gauges for the
// narrative pipeline.
type Metrics struct {
	// Loading.
	RecordsLoaded prometheus.Counter
	FilesSkipped  prometheus.Counter
	RowsSkipped   prometheus.Counter

	// Classification and narration.
	EventsClassified    *prometheus.CounterVec // labels: severity, disruption
	NarrativesGenerated prometheus.Counter

	// Indexing.
	UniqueNarratives       prometheus.Gauge
	NarrativesDeduplicated prometheus.Counter
	EmbeddingRequests      *prometheus.CounterVec // labels: mode={passage,query}
	VectorsUpserted        prometheus.Counter
	IndexBuildsSkipped     prometheus.Counter
	IndexVectors           prometheus.Gauge
	EmbedDuration          prometheus.Histogram
	UpsertBatchDuration    prometheus.Histogram
	IndexBuildDuration     prometheus.Histogram

	// Search.
	SearchQueries  *prometheus.CounterVec // labels: outcome={success,error,empty}
	SearchDuration prometheus.Histogram
}

var (
	embedBuckets  = []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120}
	upsertBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}
	buildBuckets  = []float64{1, 5, 10, 30, 60, 120, 300, 600}
	searchBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}
)

// NewMetricsForTesting creates Metrics that are not registered anywhere,
// avoiding "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

// NewMetricsWith creates Metrics registered on reg.
func NewMetricsWith(reg prometheus.Registerer) (*Metrics, error) {
	m := newMetrics()
	if err := m.Register(reg); err != nil {
		return nil, err
	}
	return m, nil
}

// Register adds the metrics to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func newMetrics() *Metrics {
	return &Metrics{
		RecordsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_loaded_total",
			Help:      "Total records read from source files.",
		}),
		FilesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_skipped_total",
			Help:      "Source files that could not be parsed.",
		}),
		RowsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_skipped_total",
			Help:      "Malformed rows dropped while loading.",
		}),
		EventsClassified: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_classified_total",
			Help:      "Events classified by severity and disruption level.",
		}, []string{"severity", "disruption"}),
		NarrativesGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "narratives_generated_total",
			Help:      "Narratives rendered, duplicates included.",
		}),
		UniqueNarratives: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "unique_narratives",
			Help:      "Distinct narratives in the last index build.",
		}),
		EmbeddingRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embedding_requests_total",
			Help:      "Embedding calls by mode.",
		}, []string{"mode"}),
		NarrativesDeduplicated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "narratives_deduplicated_total",
			Help:      "Narratives dropped because an identical one was already indexed.",
		}),
		VectorsUpserted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vectors_upserted_total",
			Help:      "Vectors written to the index.",
		}),
		IndexBuildsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_builds_skipped_total",
			Help:      "Index builds skipped because the index was already populated.",
		}),
		IndexVectors: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "index_vectors",
			Help:      "Vector count last reported by the index.",
		}),
		EmbedDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "embed_duration_seconds",
			Help:      "Duration of embedding all unique narratives.",
			Buckets:   embedBuckets,
		}),
		UpsertBatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upsert_batch_duration_seconds",
			Help:      "Duration of a single upsert batch.",
			Buckets:   upsertBuckets,
		}),
		IndexBuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "index_build_duration_seconds",
			Help:      "Duration of a complete embed and upload run.",
			Buckets:   buildBuckets,
		}),
		SearchQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_queries_total",
			Help:      "Search queries by outcome.",
		}, []string{"outcome"}),
		SearchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Duration of embedding a query and querying the index.",
			Buckets:   searchBuckets,
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.RecordsLoaded,
		m.FilesSkipped,
		m.RowsSkipped,
		m.EventsClassified,
		m.NarrativesGenerated,
		m.UniqueNarratives,
		m.NarrativesDeduplicated,
		m.EmbeddingRequests,
		m.VectorsUpserted,
		m.IndexBuildsSkipped,
		m.IndexVectors,
		m.EmbedDuration,
		m.UpsertBatchDuration,
		m.IndexBuildDuration,
		m.SearchQueries,
		m.SearchDuration,
	}
}
