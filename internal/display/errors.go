package display

import "codeberg.org/fervag/x708ctl/internal/errors"

const (
	ErrTerminalSetup = errors.ErrorCode("display_terminal_setup_failed")
)
