// Package gpio turns line edges on the x708 control pins into discrete
// events. Hardware notification is decoupled from the state machines
// that consume it: the watcher publishes ButtonEvent and ACEvent
// messages on channels, so tests can inject synthetic sequences
// without real hardware.
package gpio

import "time"

// BCM pin numbering, per the x708 pinout.
const (
	// PinPowerButton is the physical power button input (active high).
	PinPowerButton = 5
	// PinACLost is the power-loss detection input. High means mains
	// power is gone and the board runs on batteries.
	PinACLost = 6
	// PinPowerEnable must be driven high while the host is up; the
	// UPS MCU cuts power when it drops.
	PinPowerEnable = 12
)

// HoldThreshold is the press duration after which a button press
// counts as a hold.
const HoldThreshold = 2 * time.Second

// ButtonEvent is a discrete power button notification.
type ButtonEvent int

const (
	ButtonPressed ButtonEvent = iota
	ButtonReleased
	ButtonHeld
)

func (e ButtonEvent) String() string {
	switch e {
	case ButtonPressed:
		return "pressed"
	case ButtonReleased:
		return "released"
	case ButtonHeld:
		return "held"
	default:
		return "unknown"
	}
}

// ACEvent is a mains power transition notification.
type ACEvent int

const (
	ACLost ACEvent = iota
	ACRestored
)

func (e ACEvent) String() string {
	switch e {
	case ACLost:
		return "lost"
	case ACRestored:
		return "restored"
	default:
		return "unknown"
	}
}

// InputLine is a single GPIO input with edge detection. The real
// implementation uses the sysfs GPIO interface; tests use a fake.
type InputLine interface {
	// Read returns the current logical level.
	Read() (bool, error)

	// WaitEdge blocks until a level transition or the timeout,
	// whichever comes first. It reports whether an edge fired.
	WaitEdge(timeout time.Duration) (bool, error)

	// Close releases the line.
	Close() error
}
