package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the bot platform
type Metrics struct {
	// Inbound update metrics
	UpdatesTotal   *prometheus.CounterVec
	UpdateErrors   prometheus.Counter
	UpdateDuration prometheus.Histogram
	RepliesTotal   *prometheus.CounterVec

	// Provider metrics
	ProviderSends *prometheus.CounterVec

	// Campaign metrics
	CampaignsTotal     *prometheus.CounterVec
	CampaignDuration   prometheus.Histogram
	ScheduledCampaigns prometheus.Gauge

	// Reply generation metrics
	AIRequests *prometheus.CounterVec

	// Kafka metrics
	KafkaMessagesProduced prometheus.Counter
	KafkaProduceErrors    *prometheus.CounterVec
}

var (
	// DefaultMetrics is the default metrics instance
	DefaultMetrics *Metrics
	once           sync.Once
)

// GetDefaultMetrics returns the singleton metrics instance registered globally
func GetDefaultMetrics() *Metrics {
	once.Do(func() {
		DefaultMetrics = NewMetrics(prometheus.DefaultRegisterer)
	})
	return DefaultMetrics
}

// NewMetrics creates metrics registered with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		UpdatesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "botflow_updates_total",
				Help: "Total number of inbound updates consumed, by kind",
			},
			[]string{"kind"},
		),
		UpdateErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "botflow_update_errors_total",
			Help: "Total number of inbound updates whose processing failed",
		}),
		UpdateDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "botflow_update_duration_seconds",
			Help:    "Duration of inbound update processing in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		RepliesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "botflow_replies_total",
				Help: "Total number of outbound replies, by origin",
			},
			[]string{"origin"},
		),

		ProviderSends: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "botflow_provider_sends_total",
				Help: "Total number of provider send attempts, by result",
			},
			[]string{"result"},
		),

		CampaignsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "botflow_campaigns_total",
				Help: "Total number of campaign executions, by terminal status",
			},
			[]string{"status"},
		),
		CampaignDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "botflow_campaign_duration_seconds",
			Help:    "Duration of campaign executions in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
		ScheduledCampaigns: factory.NewGauge(prometheus.GaugeOpts{
			Name: "botflow_scheduled_campaigns",
			Help: "Current number of campaigns waiting for their trigger",
		}),

		AIRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "botflow_ai_requests_total",
				Help: "Total number of reply generation requests, by result",
			},
			[]string{"result"},
		),

		KafkaMessagesProduced: factory.NewCounter(prometheus.CounterOpts{
			Name: "botflow_kafka_messages_produced_total",
			Help: "Total number of messages produced to Kafka",
		}),
		KafkaProduceErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "botflow_kafka_produce_errors_total",
				Help: "Total number of Kafka produce errors, by topic",
			},
			[]string{"topic"},
		),
	}
}

// RecordUpdate records a consumed update of the given kind
func (m *Metrics) RecordUpdate(kind string, duration float64, failed bool) {
	m.UpdatesTotal.WithLabelValues(kind).Inc()
	m.UpdateDuration.Observe(duration)
	if failed {
		m.UpdateErrors.Inc()
	}
}

// RecordReply records an outbound reply by origin
func (m *Metrics) RecordReply(origin string) {
	m.RepliesTotal.WithLabelValues(origin).Inc()
}

// RecordProviderSend records a provider send outcome
func (m *Metrics) RecordProviderSend(result string) {
	if result == "" {
		result = "unknown"
	}
	m.ProviderSends.WithLabelValues(result).Inc()
}

// RecordCampaign records a finished campaign execution
func (m *Metrics) RecordCampaign(status string, duration float64) {
	m.CampaignsTotal.WithLabelValues(status).Inc()
	m.CampaignDuration.Observe(duration)
}

// SetScheduledCampaigns updates the pending trigger gauge
func (m *Metrics) SetScheduledCampaigns(count int) {
	m.ScheduledCampaigns.Set(float64(count))
}

// RecordAIRequest records a reply generation outcome
func (m *Metrics) RecordAIRequest(result string) {
	m.AIRequests.WithLabelValues(result).Inc()
}

// RecordKafkaMessage records a produced Kafka message
func (m *Metrics) RecordKafkaMessage() {
	m.KafkaMessagesProduced.Inc()
}

// RecordKafkaError records a Kafka production error for topic
func (m *Metrics) RecordKafkaError(topic string) {
	m.KafkaProduceErrors.WithLabelValues(topic).Inc()
}
