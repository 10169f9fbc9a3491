package battery

import "codeberg.org/fervag/x708ctl/internal/errors"

const (
	ErrVoltageReadFailed = errors.ErrorCode("battery_voltage_read_failed")
	ErrChargeReadFailed  = errors.ErrorCode("battery_charge_read_failed")
)
