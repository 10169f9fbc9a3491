// Package battery samples telemetry from the x708 UPS fuel gauge and
// the SoC thermal zone.
package battery

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"codeberg.org/fervag/x708ctl/internal/errors"
	"codeberg.org/fervag/x708ctl/internal/i2c"
	"codeberg.org/fervag/x708ctl/internal/logger"
)

const (
	// DefaultBus is the I2C port the x708 fuel gauge hangs off (/dev/i2c-1).
	DefaultBus = 1
	// DefaultAddr is the fuel gauge slave address.
	DefaultAddr = 0x36

	// ThermalZonePath is the sysfs file holding the SoC temperature
	// in millidegrees Celsius.
	ThermalZonePath = "/sys/class/thermal/thermal_zone0/temp"

	// TemperatureUnavailable is reported when the thermal zone cannot
	// be read.
	TemperatureUnavailable = -1

	regVoltage = 0x02
	regCharge  = 0x04

	milliDegreesPerDegree = 1000
)

// Sample is one immutable telemetry reading. A fresh value is produced
// each poll cycle and handed around by value.
type Sample struct {
	// Temperature in whole degrees Celsius, or TemperatureUnavailable.
	Temperature int
	// Voltage of the battery pack in volts.
	Voltage float64
	// Charge level in percent.
	Charge float64
	Timestamp time.Time
}

// TemperatureAvailable reports whether the sample carries a usable
// temperature reading.
func (s Sample) TemperatureAvailable() bool {
	return s.Temperature != TemperatureUnavailable
}

type Device struct {
	bus     i2c.WordReader
	thermal *os.File
}

// New wires a sampling device on top of an open fuel gauge bus. A
// missing thermal zone is a boot-time warning, not an error: all
// subsequent samples simply report the temperature as unavailable.
func New(bus i2c.WordReader, thermalPath string) *Device {
	d := &Device{bus: bus}

	thermal, err := os.Open(thermalPath)
	if err != nil {
		logger.Warn().Str("path", thermalPath).Err(err).Msg("Couldn't open thermal zone, temperature will be unavailable")
		return d
	}
	d.thermal = thermal

	return d
}

// Sample reads voltage, charge and temperature and stamps the result.
// Voltage and charge are required for the shutdown guard, so a fuel
// gauge read error is returned as fatal. A malformed temperature read
// only degrades that sample.
func (d *Device) Sample() (Sample, error) {
	errFactory := errors.New()

	rawVoltage, err := d.bus.ReadWord(regVoltage)
	if err != nil {
		return Sample{}, errFactory.Wrap(ErrVoltageReadFailed, err)
	}

	rawCharge, err := d.bus.ReadWord(regCharge)
	if err != nil {
		return Sample{}, errFactory.Wrap(ErrChargeReadFailed, err)
	}

	return Sample{
		Temperature: d.readTemperature(),
		Voltage:     ConvertVoltage(rawVoltage),
		Charge:      ConvertCharge(rawCharge),
		Timestamp:   time.Now(),
	}, nil
}

// Close releases the thermal zone handle. The I2C bus is owned by the
// caller and closed separately.
func (d *Device) Close() error {
	if d.thermal == nil {
		return nil
	}
	return d.thermal.Close()
}

func (d *Device) readTemperature() int {
	if d.thermal == nil {
		return TemperatureUnavailable
	}

	if _, err := d.thermal.Seek(0, io.SeekStart); err != nil {
		logger.Warn().Err(err).Msg("Thermal zone seek failed")
		return TemperatureUnavailable
	}

	buf := make([]byte, 32)
	n, err := d.thermal.Read(buf)
	if err != nil && err != io.EOF {
		logger.Warn().Err(err).Msg("Thermal zone read failed")
		return TemperatureUnavailable
	}

	raw := strings.TrimSpace(string(buf[:n]))
	milli, err := strconv.Atoi(raw)
	if err != nil || milli <= 0 {
		logger.Warn().Str("value", raw).Msg("Invalid thermal zone value")
		return TemperatureUnavailable
	}

	return milli / milliDegreesPerDegree
}

// ConvertVoltage converts a raw fuel gauge VCELL register to volts.
func ConvertVoltage(raw uint16) float64 {
	return float64(raw) * 1.25 / 1000 / 16
}

// ConvertCharge converts a raw fuel gauge SOC register to percent.
func ConvertCharge(raw uint16) float64 {
	return float64(raw) / 256
}
