package display_test

import (
	"bytes"
	"testing"
	"time"

	"codeberg.org/fervag/x708ctl/internal/battery"
	"codeberg.org/fervag/x708ctl/internal/display"
	"github.com/stretchr/testify/assert"
)

func sampleAt(temp int) battery.Sample {
	return battery.Sample{
		Temperature: temp,
		Voltage:     4.05,
		Charge:      87,
		Timestamp:   time.Date(2021, 3, 14, 15, 9, 26, 0, time.Local),
	}
}

func TestConsoleSinkRender(t *testing.T) {
	var buf bytes.Buffer
	sink := display.NewConsoleSink(&buf)

	sink.Render(sampleAt(42))

	out := buf.String()
	assert.Contains(t, out, "14/03/2021 - 15:09:26")
	assert.Contains(t, out, "CPU Temperature: 42°C")
	assert.Contains(t, out, "Voltage:  4.05V")
	assert.Contains(t, out, "Battery:    87%")
}

func TestConsoleSinkOmitsUnavailableTemperature(t *testing.T) {
	var buf bytes.Buffer
	sink := display.NewConsoleSink(&buf)

	sink.Render(sampleAt(battery.TemperatureUnavailable))

	assert.NotContains(t, buf.String(), "CPU Temperature")
}

func TestScreenSinkLifecycle(t *testing.T) {
	var buf bytes.Buffer
	sink := display.NewScreenSink(&buf, 2*time.Second)

	header := buf.String()
	assert.Contains(t, header, "x708 Monitor")
	assert.Contains(t, header, "Refreshing every 2 seconds.")
	assert.Contains(t, header, "Press q to exit")

	buf.Reset()
	sink.Render(sampleAt(42))
	assert.Contains(t, buf.String(), "CPU Temperature: 42°C")

	buf.Reset()
	sink.Close()
	assert.Contains(t, buf.String(), "\x1b[?1049l", "close must leave the alternate screen")
}

func TestFormatInterval(t *testing.T) {
	assert.Equal(t, "2", display.FormatInterval(2*time.Second))
	assert.Equal(t, "1", display.FormatInterval(time.Second))
	assert.Equal(t, "0.5", display.FormatInterval(500*time.Millisecond))
	assert.Equal(t, "1.5", display.FormatInterval(1500*time.Millisecond))
}

func TestNopSink(t *testing.T) {
	var sink display.NopSink
	sink.Render(sampleAt(42))
	sink.Close()
}
