package i2c

import "codeberg.org/fervag/x708ctl/internal/errors"

const (
	ErrBusOpenFailed      = errors.ErrorCode("i2c_bus_open_failed")
	ErrAddressBindFailed  = errors.ErrorCode("i2c_address_bind_failed")
	ErrRegisterReadFailed = errors.ErrorCode("i2c_register_read_failed")
)
