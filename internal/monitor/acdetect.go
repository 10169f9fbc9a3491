package monitor

import (
	"context"

	"codeberg.org/fervag/x708ctl/internal/gpio"
	"codeberg.org/fervag/x708ctl/internal/logger"
)

// ACPowerState mirrors the last observed mains power edge.
type ACPowerState int

const (
	ACPresent ACPowerState = iota
	ACDown
)

// ACDetector tracks mains power transitions. The current policy is
// observe-only: events are logged, and OnLost/OnRestored are the hook
// points for attaching alerting without touching the monitor loop.
type ACDetector struct {
	state ACPowerState

	// OnLost and OnRestored, when set, run on the respective edge.
	OnLost     func()
	OnRestored func()
}

func NewACDetector() *ACDetector {
	return &ACDetector{}
}

// State returns the last observed power state.
func (d *ACDetector) State() ACPowerState {
	return d.state
}

// Handle advances the detector by one event.
func (d *ACDetector) Handle(ev gpio.ACEvent) {
	switch ev {
	case gpio.ACLost:
		d.state = ACDown
		logger.Warn().Msg("AC power lost. Running on batteries.")
		if d.OnLost != nil {
			d.OnLost()
		}
	case gpio.ACRestored:
		d.state = ACPresent
		logger.Info().Msg("AC power restored.")
		if d.OnRestored != nil {
			d.OnRestored()
		}
	}
}

// Run consumes AC events until ctx is cancelled.
func (d *ACDetector) Run(ctx context.Context, events <-chan gpio.ACEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			d.Handle(ev)
		}
	}
}
