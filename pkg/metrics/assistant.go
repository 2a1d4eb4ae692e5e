package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gaonbazar/gaonbazar-backend/pkg/enums"
)

// AssistantMetrics counts which knowledge-base topic answered each question.
type AssistantMetrics struct {
	topics *prometheus.CounterVec
}

// NewAssistantMetrics registers the assistant metrics on the provided registerer.
func NewAssistantMetrics(reg prometheus.Registerer) *AssistantMetrics {
	if reg == nil {
		return &AssistantMetrics{}
	}
	topics := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assistant_answers_total",
		Help: "Assistant answers by matched topic.",
	}, []string{"topic"})
	reg.MustRegister(topics)
	return &AssistantMetrics{topics: topics}
}

// TopicMatched increments the counter for topic.
func (a *AssistantMetrics) TopicMatched(topic enums.Topic) {
	if a == nil || a.topics == nil {
		return
	}
	a.topics.WithLabelValues(normalizeLabel(topic.String())).Inc()
}
