// Package monitor holds the supervision core: the poll loop, the
// voltage guard and the two hardware event state machines.
package monitor

import (
	"context"
	"time"

	"codeberg.org/fervag/x708ctl/internal/battery"
	"codeberg.org/fervag/x708ctl/internal/display"
	"codeberg.org/fervag/x708ctl/internal/errors"
	"codeberg.org/fervag/x708ctl/internal/logger"
	"codeberg.org/fervag/x708ctl/internal/power"
	"codeberg.org/fervag/x708ctl/internal/telemetry"
)

// Sampler produces one telemetry sample per poll cycle.
type Sampler interface {
	Sample() (battery.Sample, error)
}

// Options configures a Monitor.
type Options struct {
	Interval   time.Duration
	MinVoltage float64
	WatchOnly  bool
	Quiet      bool

	// Quit reports an interactive quit request when closed. May be
	// nil (quiet mode, or stdin is not a terminal).
	Quit <-chan struct{}
}

// Monitor runs the poll-evaluate-render cycle. It owns each sample for
// the duration of one iteration and hands it to the sink by value.
type Monitor struct {
	opts      Options
	sampler   Sampler
	power     power.Controller
	sink      display.Sink
	collector telemetry.Collector
}

func New(opts Options, sampler Sampler, ctl power.Controller, sink display.Sink, collector telemetry.Collector) *Monitor {
	return &Monitor{
		opts:      opts,
		sampler:   sampler,
		power:     ctl,
		sink:      sink,
		collector: collector,
	}
}

// Run polls until ctx is cancelled, the user quits, or the voltage
// guard fires. The guard is evaluated before any display work, so an
// emergency shutdown is never delayed behind a UI refresh. A fuel
// gauge read error is fatal: masking it could keep the guard from
// firing when it matters.
func (m *Monitor) Run(ctx context.Context) error {
	errFactory := errors.New()

	if m.opts.Interval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, m.opts.Interval)
	}

	ticker := time.NewTicker(m.opts.Interval)
	defer ticker.Stop()

	for {
		sample, err := m.sampler.Sample()
		if err != nil {
			return errFactory.Wrap(errors.ErrMainLoop, err)
		}

		if CheckVoltage(sample.Voltage, m.opts.MinVoltage, m.opts.WatchOnly) == GuardTrigger {
			return m.emergencyPoweroff()
		}

		if err := m.collector.Record(ctx, sample); err != nil {
			logger.Error().Err(err).Msg("Failed to record telemetry sample")
		}

		if !m.opts.Quiet {
			m.sink.Render(sample)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-m.opts.Quit:
			logger.Debug().Msg("Quit requested")
			return nil
		case <-ticker.C:
		}
	}
}

func (m *Monitor) emergencyPoweroff() error {
	errFactory := errors.New()

	msg := EmergencyMessage(m.opts.MinVoltage)
	if err := m.power.Broadcast(msg); err != nil {
		logger.Error().Err(err).Msg("Emergency broadcast failed")
	}

	if err := m.power.Poweroff(); err != nil {
		return errFactory.Wrap(errors.ErrOperationFailed, err)
	}

	// Only reached with a non-terminating controller (tests).
	return nil
}
