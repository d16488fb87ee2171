package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	signupsSubmitted metric.Int64Counter
	pagesViewed      metric.Int64Counter
}

func New(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.signupsSubmitted, err = meter.Int64Counter(
		"growsense.signups.submitted",
		metric.WithDescription("Total number of signup submissions by outcome"),
		metric.WithUnit("{submission}"),
	)
	if err != nil {
		return nil, err
	}

	m.pagesViewed, err = meter.Int64Counter(
		"growsense.pages.viewed",
		metric.WithDescription("Total number of marketing page views"),
		metric.WithUnit("{view}"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordSubmission counts one submission. reason is empty unless the outcome
// is a remote failure.
func (m *Metrics) RecordSubmission(ctx context.Context, outcome, reason string) {
	if m == nil || m.signupsSubmitted == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String("outcome", outcome)}
	if reason != "" {
		attrs = append(attrs, attribute.String("reason", reason))
	}
	m.signupsSubmitted.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *Metrics) RecordPageView(ctx context.Context, page string) {
	if m != nil && m.pagesViewed != nil {
		m.pagesViewed.Add(ctx, 1, metric.WithAttributes(attribute.String("page", page)))
	}
}
