package service

import (
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/Leganyst/parking-platform/internal/parking"
)

const instrumentationName = "github.com/Leganyst/parking-platform/internal/service"

type options struct {
	now        func() time.Time
	rates      parking.RateCard
	reportZone *time.Location
	tracer     trace.Tracer
	meter      metric.Meter
}

type Option func(*options)

// WithClock подменяет источник времени (тесты, воспроизведение).
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithRates(rates parking.RateCard) Option {
	return func(o *options) { o.rates = rates }
}

// WithReportLocation задаёт часовой пояс для границ дней и часа пик.
func WithReportLocation(loc *time.Location) Option {
	return func(o *options) { o.reportZone = loc }
}

func WithTracer(t trace.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

func WithMeter(m metric.Meter) Option {
	return func(o *options) { o.meter = m }
}
