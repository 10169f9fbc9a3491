package gpio

import (
	"context"
	"time"

	"codeberg.org/fervag/x708ctl/internal/errors"
	"codeberg.org/fervag/x708ctl/internal/logger"
)

const (
	edgePollTimeout = 200 * time.Millisecond
	eventBuffer     = 8
)

// Watcher converts raw line transitions into button and AC power
// events. It owns the hold timer: a press that stays down past the
// hold threshold produces a ButtonHeld event in addition to the
// Pressed/Released pair.
type Watcher struct {
	button InputLine
	ac     InputLine
	hold   time.Duration

	buttonEvents chan ButtonEvent
	acEvents     chan ACEvent
}

// NewWatcher validates the button wiring and prepares the event
// channels. A button line that already reads high at startup is a
// wiring fault: the pin is pulled the wrong way and would produce
// spurious power actions, so the monitor must refuse to start.
func NewWatcher(button, ac InputLine, hold time.Duration) (*Watcher, error) {
	errFactory := errors.New()

	pressed, err := button.Read()
	if err != nil {
		return nil, errFactory.Wrap(ErrLineReadFailed, err)
	}
	if pressed {
		return nil, errFactory.New(ErrButtonWiredHigh)
	}

	return &Watcher{
		button:       button,
		ac:           ac,
		hold:         hold,
		buttonEvents: make(chan ButtonEvent, eventBuffer),
		acEvents:     make(chan ACEvent, eventBuffer),
	}, nil
}

// ButtonEvents returns the power button event stream.
func (w *Watcher) ButtonEvents() <-chan ButtonEvent {
	return w.buttonEvents
}

// ACEvents returns the mains power event stream.
func (w *Watcher) ACEvents() <-chan ACEvent {
	return w.acEvents
}

// Run starts the edge watchers. They stop when ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	go w.watchButton(ctx)
	go w.watchAC(ctx)
}

func (w *Watcher) watchButton(ctx context.Context) {
	levels := make(chan bool, eventBuffer)
	go pollLevels(ctx, w.button, levels)

	hold := time.NewTimer(w.hold)
	stopTimer(hold)

	pressed := false
	for {
		select {
		case <-ctx.Done():
			return
		case level, ok := <-levels:
			if !ok {
				return
			}
			if level == pressed {
				continue
			}
			pressed = level
			if pressed {
				w.emitButton(ctx, ButtonPressed)
				hold.Reset(w.hold)
			} else {
				stopTimer(hold)
				w.emitButton(ctx, ButtonReleased)
			}
		case <-hold.C:
			if pressed {
				w.emitButton(ctx, ButtonHeld)
			}
		}
	}
}

func (w *Watcher) watchAC(ctx context.Context) {
	levels := make(chan bool, eventBuffer)
	go pollLevels(ctx, w.ac, levels)

	// On the x708 the AC detection line is high when mains power is
	// lost.
	lost, err := w.ac.Read()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to read AC detection line")
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case level, ok := <-levels:
			if !ok {
				return
			}
			if level == lost {
				continue
			}
			lost = level
			if lost {
				w.emitAC(ctx, ACLost)
			} else {
				w.emitAC(ctx, ACRestored)
			}
		}
	}
}

func pollLevels(ctx context.Context, line InputLine, out chan<- bool) {
	defer close(out)

	for ctx.Err() == nil {
		fired, err := line.WaitEdge(edgePollTimeout)
		if err != nil {
			logger.Error().Err(err).Msg("GPIO edge wait failed")
			return
		}
		if !fired {
			continue
		}

		level, err := line.Read()
		if err != nil {
			logger.Error().Err(err).Msg("GPIO read failed")
			return
		}

		select {
		case out <- level:
		case <-ctx.Done():
			return
		}
	}
}

func (w *Watcher) emitButton(ctx context.Context, ev ButtonEvent) {
	select {
	case w.buttonEvents <- ev:
	case <-ctx.Done():
	}
}

func (w *Watcher) emitAC(ctx context.Context, ev ACEvent) {
	select {
	case w.acEvents <- ev:
	case <-ctx.Done():
	}
}

func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}
