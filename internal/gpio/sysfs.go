package gpio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"codeberg.org/fervag/x708ctl/internal/errors"
	"golang.org/x/sys/unix"
)

const (
	sysfsRoot = "/sys/class/gpio"

	exportSettleDelay = 50 * time.Millisecond
)

type sysfsLine struct {
	pin   int
	value *os.File
}

// RequestInput exports a pin as an input with edge detection on both
// transitions.
func RequestInput(pin int) (InputLine, error) {
	errFactory := errors.New()

	if err := exportPin(pin); err != nil {
		return nil, err
	}

	if err := writeAttr(pin, "direction", "in"); err != nil {
		return nil, err
	}
	if err := writeAttr(pin, "edge", "both"); err != nil {
		return nil, err
	}

	value, err := os.Open(filepath.Join(sysfsRoot, fmt.Sprintf("gpio%d", pin), "value"))
	if err != nil {
		return nil, errFactory.Wrap(ErrLineRequestFailed, err).WithData(pin)
	}

	l := &sysfsLine{pin: pin, value: value}

	// The value fd reports POLLPRI immediately after opening; a first
	// read clears it so WaitEdge only sees real transitions.
	if _, err := l.Read(); err != nil {
		value.Close()
		return nil, err
	}

	return l, nil
}

func (l *sysfsLine) Read() (bool, error) {
	errFactory := errors.New()

	if _, err := l.value.Seek(0, io.SeekStart); err != nil {
		return false, errFactory.Wrap(ErrLineReadFailed, err).WithData(l.pin)
	}

	buf := make([]byte, 1)
	if _, err := l.value.Read(buf); err != nil {
		return false, errFactory.Wrap(ErrLineReadFailed, err).WithData(l.pin)
	}

	return buf[0] == '1', nil
}

func (l *sysfsLine) WaitEdge(timeout time.Duration) (bool, error) {
	errFactory := errors.New()

	fds := []unix.PollFd{{
		Fd:     int32(l.value.Fd()),
		Events: unix.POLLPRI | unix.POLLERR,
	}}

	n, err := unix.Poll(fds, int(timeout.Milliseconds()))
	if err != nil {
		if err == unix.EINTR {
			return false, nil
		}
		return false, errFactory.Wrap(ErrLineWaitFailed, err).WithData(l.pin)
	}

	return n > 0, nil
}

func (l *sysfsLine) Close() error {
	return l.value.Close()
}

// OutputLine is a GPIO output. The power-enable line stays exported
// and high after exit; dropping it would tell the UPS MCU to cut
// power.
type OutputLine struct {
	pin int
}

// RequestOutput exports a pin as an output.
func RequestOutput(pin int) (*OutputLine, error) {
	if err := exportPin(pin); err != nil {
		return nil, err
	}

	if err := writeAttr(pin, "direction", "out"); err != nil {
		return nil, err
	}

	return &OutputLine{pin: pin}, nil
}

// Set drives the line high or low.
func (l *OutputLine) Set(high bool) error {
	v := "0"
	if high {
		v = "1"
	}
	return writeAttr(l.pin, "value", v)
}

func exportPin(pin int) error {
	errFactory := errors.New()

	if _, err := os.Stat(filepath.Join(sysfsRoot, fmt.Sprintf("gpio%d", pin))); err == nil {
		return nil // already exported
	}

	err := os.WriteFile(filepath.Join(sysfsRoot, "export"), []byte(strconv.Itoa(pin)), 0o200)
	if err != nil && !os.IsExist(err) {
		return errFactory.Wrap(ErrLineRequestFailed, err).WithData(pin)
	}

	// The attribute files appear asynchronously after export.
	time.Sleep(exportSettleDelay)

	return nil
}

func writeAttr(pin int, attr, value string) error {
	errFactory := errors.New()

	path := filepath.Join(sysfsRoot, fmt.Sprintf("gpio%d", pin), attr)
	if err := os.WriteFile(path, []byte(value), 0o644); err != nil {
		return errFactory.Wrap(ErrLineRequestFailed, err).WithData(path)
	}

	return nil
}
