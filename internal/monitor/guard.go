package monitor

import "fmt"

// GuardResult is the outcome of one voltage guard evaluation.
type GuardResult int

const (
	GuardOK GuardResult = iota
	GuardTrigger
)

// CheckVoltage evaluates the emergency shutdown condition. It fires
// exactly when actuation is enabled and the voltage is strictly below
// the minimum; a reading equal to the minimum is still OK. Watch-only
// mode gates the comparison itself, matching the single guarded
// trigger `!watch && voltage < min`.
func CheckVoltage(voltage, minVoltage float64, watchOnly bool) GuardResult {
	if !watchOnly && voltage < minVoltage {
		return GuardTrigger
	}
	return GuardOK
}

// EmergencyMessage is the text broadcast to all logged-in terminals
// before an emergency poweroff.
func EmergencyMessage(minVoltage float64) string {
	return fmt.Sprintf("[!] Battery voltage below threshold (%.1fV). Emergency poweroff.", minVoltage)
}
