package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "apuracao_events_processed_total",
		Help: "Eventos de alteracao de resultados processados pelo worker",
	}, []string{"kind", "status"})

	eventsCoalescedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "apuracao_events_coalesced_total",
		Help: "Eventos descartados por ja haver recalculo pendente",
	}, []string{"kind"})

	refreshDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "apuracao_refresh_duration_seconds",
		Help:    "Tempo para recalcular os resumos de uma votacao ou eleicao",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	eventLag = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "apuracao_event_lag_seconds",
		Help:    "Tempo entre a publicacao do evento e o inicio do recalculo",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
	})

	summaryCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "apuracao_summary_cache_total",
		Help: "Leituras de resumo por resultado do cache",
	}, []string{"summary", "result"})
)

func IncEventProcessed(kind, status string) {
	eventsProcessedTotal.WithLabelValues(kind, status).Inc()
}

func IncEventCoalesced(kind string) {
	eventsCoalescedTotal.WithLabelValues(kind).Inc()
}

func ObserveRefreshDuration(kind string, seconds float64) {
	refreshDuration.WithLabelValues(kind).Observe(seconds)
}

func ObserveEventLag(seconds float64) {
	if seconds < 0 {
		seconds = 0
	}
	eventLag.Observe(seconds)
}

// ObserveSummaryCache registra "hit", "miss" ou "error".
func ObserveSummaryCache(summary, result string) {
	summaryCacheTotal.WithLabelValues(summary, result).Inc()
}
