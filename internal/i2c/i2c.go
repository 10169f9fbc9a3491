// Package i2c provides word-register access to a single device on a
// Linux /dev/i2c bus. Registers are read in device order (big-endian),
// so callers never deal with SMBus byte swapping themselves.
package i2c

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"codeberg.org/fervag/x708ctl/internal/errors"
	"golang.org/x/sys/unix"
)

// I2C_SLAVE ioctl from linux/i2c-dev.h
const i2cSlave = 0x0703

// WordReader reads 16-bit registers from a fixed device address.
type WordReader interface {
	ReadWord(reg uint8) (uint16, error)
	Close() error
}

type Bus struct {
	file *os.File
	bus  int
	addr uint8
}

// Open opens /dev/i2c-<bus> and binds it to the given slave address.
// It fails fast if the bus device is missing or busy.
func Open(bus int, addr uint8) (*Bus, error) {
	errFactory := errors.New()

	path := fmt.Sprintf("/dev/i2c-%d", bus)
	file, err := os.OpenFile(path, os.O_RDWR, 0o600)
	if err != nil {
		return nil, errFactory.Wrap(ErrBusOpenFailed, err).WithData(path)
	}

	if err := unix.IoctlSetInt(int(file.Fd()), i2cSlave, int(addr)); err != nil {
		file.Close()
		return nil, errFactory.Wrap(ErrAddressBindFailed, err).WithData(addr)
	}

	return &Bus{file: file, bus: bus, addr: addr}, nil
}

// ReadWord reads a 16-bit big-endian register.
func (b *Bus) ReadWord(reg uint8) (uint16, error) {
	errFactory := errors.New()

	if _, err := b.file.Write([]byte{reg}); err != nil {
		return 0, errFactory.Wrap(ErrRegisterReadFailed, err).WithData(reg)
	}

	buf := make([]byte, 2)
	if _, err := io.ReadFull(b.file, buf); err != nil {
		return 0, errFactory.Wrap(ErrRegisterReadFailed, err).WithData(reg)
	}

	return binary.BigEndian.Uint16(buf), nil
}

func (b *Bus) Close() error {
	if b.file == nil {
		return nil
	}
	return b.file.Close()
}
