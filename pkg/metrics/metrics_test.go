package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/gaonbazar/gaonbazar-backend/pkg/enums"
)

func TestCartMetricsCountsMutations(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewCartMetrics(reg)
	metrics.ItemAdded(false)
	metrics.ItemAdded(true)
	metrics.ItemAdded(true)
	metrics.ItemRemoved()
	metrics.Cleared()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	want := map[string]float64{"add": 1, "merge": 2, "remove": 1, "clear": 1}
	for op, expected := range want {
		got, err := fetchCounterValue(mfs, "cart_mutations_total", "op", op)
		if err != nil {
			t.Fatalf("fetch %s: %v", op, err)
		}
		if got != expected {
			t.Fatalf("expected %s=%v, got %v", op, expected, got)
		}
	}
}

func TestAssistantMetricsCountsTopics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewAssistantMetrics(reg)
	metrics.TopicMatched(enums.TopicPMKisan)
	metrics.TopicMatched(enums.TopicFallback)
	metrics.TopicMatched(enums.TopicPMKisan)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "assistant_answers_total", "topic", "pm_kisan"); err != nil || got != 2 {
		t.Fatalf("expected pm_kisan=2, got %v err=%v", got, err)
	}
	if got, err := fetchCounterValue(mfs, "assistant_answers_total", "topic", "fallback"); err != nil || got != 1 {
		t.Fatalf("expected fallback=1, got %v err=%v", got, err)
	}
}

func TestHTTPMetricsExportsHistogramAndReconcile(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewHTTPMetrics(reg)
	metrics.ObserveRequest("POST", "/api/v1/cart/items", 201, 120*time.Millisecond)
	metrics.ObserveReconcile("strict", "")
	metrics.ObserveReconcile("strict", enums.QuantityReasonExceedsAvailable)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchHistogramSum(mfs, "http_request_duration_seconds", "route", "/api/v1/cart/items"); err != nil || got <= 0 {
		t.Fatalf("expected duration sum > 0, got %v err=%v", got, err)
	}
	if got, err := fetchCounterValue(mfs, "quantity_reconciliations_total", "outcome", "accepted"); err != nil || got != 1 {
		t.Fatalf("expected accepted=1, got %v err=%v", got, err)
	}
	if got, err := fetchCounterValue(mfs, "quantity_reconciliations_total", "outcome", "exceeds_available"); err != nil || got != 1 {
		t.Fatalf("expected exceeds_available=1, got %v err=%v", got, err)
	}
}

func TestNilRegistererIsSafe(t *testing.T) {
	NewCartMetrics(nil).ItemAdded(true)
	NewAssistantMetrics(nil).TopicMatched(enums.TopicHelp)
	NewHTTPMetrics(nil).ObserveRequest("GET", "/", 200, time.Millisecond)

	var nilCart *CartMetrics
	nilCart.Cleared()
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
