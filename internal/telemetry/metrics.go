// Package telemetry records session milestones as OpenTelemetry metrics.
package telemetry

import (
	"context"
	"fmt"

	"tomato/internal/core/pomodoro"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "tomato"

// Recorder implements pomodoro.Observer on top of an otel meter.
type Recorder struct {
	alarms      metric.Int64Counter
	transitions metric.Int64Counter
	workMinutes metric.Int64Counter
	rejected    metric.Int64Counter
	workLength  func() int
}

// NewRecorder creates the instruments on provider, or on the global provider when nil.
// workLength reports the configured work minutes credited per completed cycle.
func NewRecorder(provider metric.MeterProvider, workLength func() int) (*Recorder, error) {
	if provider == nil {
		provider = otel.GetMeterProvider()
	}
	meter := provider.Meter(meterName)

	alarms, err := meter.Int64Counter(
		"tomato_alarms_total",
		metric.WithDescription("Alarms raised at the end of a phase"),
		metric.WithUnit("{alarm}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating alarms counter: %w", err)
	}

	transitions, err := meter.Int64Counter(
		"tomato_phase_transitions_total",
		metric.WithDescription("Confirmed switches between work and break"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transitions counter: %w", err)
	}

	workMinutes, err := meter.Int64Counter(
		"tomato_work_minutes_total",
		metric.WithDescription("Work minutes credited by completed cycles"),
		metric.WithUnit("min"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating work minutes counter: %w", err)
	}

	rejected, err := meter.Int64Counter(
		"tomato_config_rejected_total",
		metric.WithDescription("Configuration updates rejected by validation"),
		metric.WithUnit("{update}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating rejected counter: %w", err)
	}

	if workLength == nil {
		workLength = func() int { return 0 }
	}
	return &Recorder{
		alarms:      alarms,
		transitions: transitions,
		workMinutes: workMinutes,
		rejected:    rejected,
		workLength:  workLength,
	}, nil
}

func (recorder *Recorder) AlarmRaised(phase pomodoro.Phase) {
	recorder.alarms.Add(context.Background(), 1, metric.WithAttributes(attribute.String("phase", string(phase))))
}

func (recorder *Recorder) PhaseCompleted(from, to pomodoro.Phase, long bool) {
	ctx := context.Background()
	recorder.transitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from", string(from)),
		attribute.String("to", string(to)),
		attribute.Bool("long_break", long),
	))
	if from == pomodoro.PhaseWork {
		recorder.workMinutes.Add(ctx, int64(recorder.workLength()))
	}
}

func (recorder *Recorder) ConfigurationRejected(error) {
	recorder.rejected.Add(context.Background(), 1)
}
