package gpio

import "codeberg.org/fervag/x708ctl/internal/errors"

const (
	ErrLineRequestFailed = errors.ErrorCode("gpio_line_request_failed")
	ErrLineReadFailed    = errors.ErrorCode("gpio_line_read_failed")
	ErrLineWaitFailed    = errors.ErrorCode("gpio_line_wait_failed")

	// ErrButtonWiredHigh means the power button input reads high at
	// startup. The line should idle low; pulled high it would fire
	// spurious reboot/poweroff triggers.
	ErrButtonWiredHigh = errors.ErrorCode("gpio_button_wired_high")
)
