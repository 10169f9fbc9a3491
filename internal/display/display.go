// Package display renders telemetry snapshots. The monitor loop only
// depends on the Sink interface, so the full-screen terminal view,
// the line-oriented view and the quiet no-op view are interchangeable.
package display

import (
	"fmt"
	"io"
	"time"

	"codeberg.org/fervag/x708ctl/internal/battery"
)

const timestampFormat = "02/01/2006 - 15:04:05"

// Sink consumes read-only telemetry snapshots.
type Sink interface {
	Render(s battery.Sample)
	// Close releases any terminal state. It must be safe to call on
	// every exit path, including fatal ones.
	Close()
}

// NopSink discards all snapshots. Used in quiet mode.
type NopSink struct{}

func (NopSink) Render(battery.Sample) {}
func (NopSink) Close()                {}

// ConsoleSink prints one block of lines per snapshot.
type ConsoleSink struct {
	out io.Writer
}

func NewConsoleSink(out io.Writer) *ConsoleSink {
	return &ConsoleSink{out: out}
}

func (c *ConsoleSink) Render(s battery.Sample) {
	fmt.Fprintf(c.out, " ---- %s ----\n", s.Timestamp.Format(timestampFormat))
	if s.TemperatureAvailable() {
		fmt.Fprintf(c.out, "CPU Temperature: %d°C\n", s.Temperature)
	}
	fmt.Fprintf(c.out, "Voltage: %5.2fV\n", s.Voltage)
	fmt.Fprintf(c.out, "Battery: %5.0f%%\n", s.Charge)
	fmt.Fprintln(c.out)
}

func (c *ConsoleSink) Close() {}

// FormatInterval renders a poll interval the way the header shows it:
// whole seconds without a fraction, otherwise one decimal.
func FormatInterval(d time.Duration) string {
	secs := d.Seconds()
	if secs == float64(int64(secs)) {
		return fmt.Sprintf("%d", int64(secs))
	}
	return fmt.Sprintf("%.1f", secs)
}
