package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// SimMetrics holds the engine-side instruments: tick throughput and latency,
// broadcast volume and dropped subscribers.
type SimMetrics struct {
	Ticks              metric.Int64Counter
	TickDuration       metric.Float64Histogram
	Broadcasts         metric.Int64Counter
	DroppedSubscribers metric.Int64Counter
}

// NewSimMetrics registers the simulation instruments on the global meter.
func NewSimMetrics() (*SimMetrics, error) {
	meter := otel.Meter("marketsim/engine")

	ticks, err := meter.Int64Counter("sim_ticks_total",
		metric.WithDescription("Completed simulation ticks"))
	if err != nil {
		return nil, err
	}
	tickDuration, err := meter.Float64Histogram("sim_tick_duration_seconds",
		metric.WithDescription("Per-tick processing time"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}
	broadcasts, err := meter.Int64Counter("sim_broadcasts_total",
		metric.WithDescription("Snapshots published to subscribers"))
	if err != nil {
		return nil, err
	}
	dropped, err := meter.Int64Counter("sim_dropped_subscribers_total",
		metric.WithDescription("Subscribers dropped for falling behind"))
	if err != nil {
		return nil, err
	}

	return &SimMetrics{
		Ticks:              ticks,
		TickDuration:       tickDuration,
		Broadcasts:         broadcasts,
		DroppedSubscribers: dropped,
	}, nil
}

// RecordTick observes one completed tick.
func (m *SimMetrics) RecordTick(ctx context.Context, d time.Duration) {
	m.Ticks.Add(ctx, 1)
	m.TickDuration.Record(ctx, d.Seconds())
}
