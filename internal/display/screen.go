package display

import (
	"fmt"
	"io"
	"strings"
	"time"

	"codeberg.org/fervag/x708ctl/internal/battery"
)

// ANSI escapes
const (
	altScreenOn  = "\x1b[?1049h"
	altScreenOff = "\x1b[?1049l"
	cursorHide   = "\x1b[?25l"
	cursorShow   = "\x1b[?25h"
	clearScreen  = "\x1b[2J"
	cursorHome   = "\x1b[H"
	bold         = "\x1b[1m"
	reset        = "\x1b[0m"
)

const hlineWidth = 40

// ScreenSink is a full-screen terminal view drawn with raw ANSI
// escapes on the alternate screen buffer.
type ScreenSink struct {
	out      io.Writer
	interval time.Duration
}

func NewScreenSink(out io.Writer, interval time.Duration) *ScreenSink {
	s := &ScreenSink{out: out, interval: interval}

	fmt.Fprint(s.out, altScreenOn, cursorHide, clearScreen, cursorHome)
	s.drawHeader()

	return s
}

func (s *ScreenSink) drawHeader() {
	plural := "s"
	if s.interval == time.Second {
		plural = ""
	}
	fmt.Fprintf(s.out, "%sx708 Monitor%s\r\n", bold, reset)
	fmt.Fprintf(s.out, "Refreshing every %s second%s.\r\n", FormatInterval(s.interval), plural)
	fmt.Fprint(s.out, "Press q to exit\r\n")
}

func (s *ScreenSink) Render(sample battery.Sample) {
	// Repaint the snapshot area below the static header.
	fmt.Fprint(s.out, "\x1b[5;1H\x1b[J")

	hline := strings.Repeat("─", hlineWidth)
	fmt.Fprintf(s.out, "%s\r\n", hline)
	fmt.Fprintf(s.out, "%s\r\n", sample.Timestamp.Format(timestampFormat))
	fmt.Fprintf(s.out, "%s\r\n", hline)

	if sample.TemperatureAvailable() {
		fmt.Fprintf(s.out, "CPU Temperature: %d°C\r\n", sample.Temperature)
	}
	fmt.Fprintf(s.out, "Voltage: %5.2fV\r\n", sample.Voltage)
	fmt.Fprintf(s.out, "Battery: %5.0f%%\r\n", sample.Charge)
}

func (s *ScreenSink) Close() {
	fmt.Fprint(s.out, cursorShow, altScreenOff)
}
