package power

import "codeberg.org/fervag/x708ctl/internal/errors"

const (
	ErrPowerCommandFailed = errors.ErrorCode("power_command_failed")
	ErrBroadcastFailed    = errors.ErrorCode("power_broadcast_failed")
)
