package monitor

import (
	"context"

	"codeberg.org/fervag/x708ctl/internal/gpio"
	"codeberg.org/fervag/x708ctl/internal/logger"
	"codeberg.org/fervag/x708ctl/internal/power"
)

// ButtonState is the gesture classifier state.
type ButtonState int

const (
	ButtonIdle ButtonState = iota
	ButtonDown
)

// Action is a host power transition requested by the classifier.
type Action int

const (
	ActionNone Action = iota
	ActionReboot
	ActionPoweroff
)

// Classifier distinguishes a quick button press (reboot) from a held
// press (poweroff). It consumes the discrete event stream produced by
// the GPIO watcher; the hold timing itself lives there.
type Classifier struct {
	state ButtonState
	held  bool
}

func NewClassifier() *Classifier {
	return &Classifier{}
}

// Handle advances the state machine by one event and returns the
// action to take. Crossing the hold threshold fires poweroff
// immediately; the release that follows a hold is a no-op so a single
// gesture never triggers twice.
func (c *Classifier) Handle(ev gpio.ButtonEvent) Action {
	switch ev {
	case gpio.ButtonPressed:
		c.state = ButtonDown
		c.held = false
	case gpio.ButtonHeld:
		if c.state == ButtonDown && !c.held {
			c.held = true
			return ActionPoweroff
		}
	case gpio.ButtonReleased:
		if c.state != ButtonDown {
			break
		}
		c.state = ButtonIdle
		if !c.held {
			return ActionReboot
		}
		c.held = false
	}

	return ActionNone
}

// Run consumes button events until ctx is cancelled and executes the
// resulting power transitions. A terminal action ends the process, so
// the classifier holds no state beyond it.
func (c *Classifier) Run(ctx context.Context, events <-chan gpio.ButtonEvent, ctl power.Controller) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			logger.Debug().Stringer("event", ev).Msg("Power button event")

			switch c.Handle(ev) {
			case ActionReboot:
				if err := ctl.Reboot(); err != nil {
					logger.Error().Err(err).Msg("Reboot failed")
				}
			case ActionPoweroff:
				if err := ctl.Poweroff(); err != nil {
					logger.Error().Err(err).Msg("Poweroff failed")
				}
			case ActionNone:
			}
		}
	}
}
