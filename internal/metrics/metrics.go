// Package metrics provides the centralized Prometheus metrics registry for
// the handicap scoring service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	RacesScoredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "handicap",
		Name:      "races_scored_total",
		Help:      "Total number of race fields scored",
	})
	HorsesScoredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "handicap",
		Name:      "horses_scored_total",
		Help:      "Total number of horses scored",
	})
	ScratchedHorsesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "handicap",
		Name:      "scratched_horses_total",
		Help:      "Total number of scratched horses skipped by the scorers",
	})
	CardsRejectedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "handicap",
		Name:      "cards_rejected_total",
		Help:      "Total number of race cards rejected by validation",
	})
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "handicap",
		Name:      "result_cache_hits_total",
		Help:      "Total number of scoring result cache hits",
	})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "handicap",
		Name:      "result_cache_misses_total",
		Help:      "Total number of scoring result cache misses",
	})
	ValueClassificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "handicap",
		Name:      "value_classifications_total",
		Help:      "Count of overlay/underlay verdicts by classification",
	}, []string{"classification"})
)

// Gauge metrics
var (
	LastRaceConfidence = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "handicap",
		Name:      "last_race_confidence",
		Help:      "Race confidence of the most recently scored field",
	})
	LastFieldSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "handicap",
		Name:      "last_field_size",
		Help:      "Field size of the most recently scored race",
	})
)

// Histogram metrics
var (
	ScoringDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "handicap",
		Name:      "scoring_duration_seconds",
		Help:      "Duration of full-field scoring passes in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	TotalScoreDistribution = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "handicap",
		Name:      "total_score",
		Help:      "Distribution of per-horse total scores",
		Buckets:   []float64{50, 100, 140, 180, 220, 260, 300, 363},
	})
	CompletenessDistribution = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "handicap",
		Name:      "data_completeness_score",
		Help:      "Distribution of per-horse data completeness scores",
		Buckets:   []float64{40, 60, 75, 90, 100},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(RacesScoredTotal)
		registry.MustRegister(HorsesScoredTotal)
		registry.MustRegister(ScratchedHorsesTotal)
		registry.MustRegister(CardsRejectedTotal)
		registry.MustRegister(CacheHitsTotal)
		registry.MustRegister(CacheMissesTotal)
		registry.MustRegister(ValueClassificationsTotal)

		registry.MustRegister(LastRaceConfidence)
		registry.MustRegister(LastFieldSize)

		registry.MustRegister(ScoringDuration)
		registry.MustRegister(TotalScoreDistribution)
		registry.MustRegister(CompletenessDistribution)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordRaceScored records a completed field scoring pass.
func RecordRaceScored(fieldSize, activeCount int, confidence, durationSeconds float64) {
	RacesScoredTotal.Inc()
	HorsesScoredTotal.Add(float64(activeCount))
	ScratchedHorsesTotal.Add(float64(fieldSize - activeCount))
	LastRaceConfidence.Set(confidence)
	LastFieldSize.Set(float64(fieldSize))
	ScoringDuration.Observe(durationSeconds)
}

// RecordHorseScore records one horse's total and completeness scores.
func RecordHorseScore(total, completeness float64, classification string) {
	TotalScoreDistribution.Observe(total)
	CompletenessDistribution.Observe(completeness)
	if classification != "" {
		ValueClassificationsTotal.WithLabelValues(classification).Inc()
	}
}

// RecordCardRejected records a race card that failed validation.
func RecordCardRejected() {
	CardsRejectedTotal.Inc()
}

// RecordCacheHit records a result cache hit.
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}

// RecordCacheMiss records a result cache miss.
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
}
