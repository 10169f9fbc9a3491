package display

import (
	"os"

	"codeberg.org/fervag/x708ctl/internal/errors"
	"golang.org/x/term"
)

const (
	quitKey = 'q'
	ctrlC   = 0x03
	ctrlD   = 0x04
)

// WatchQuit puts stdin into raw mode and reports a quit keypress by
// closing the returned channel. The restore function must run on every
// exit path; it puts the terminal back into its previous state.
func WatchQuit() (<-chan struct{}, func(), error) {
	errFactory := errors.New()

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		// Not interactive; quit only via signal.
		return nil, func() {}, nil
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, func() {}, errFactory.Wrap(ErrTerminalSetup, err)
	}
	restore := func() {
		term.Restore(fd, oldState)
	}

	quit := make(chan struct{})
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				return
			}
			if n == 0 {
				continue
			}
			switch buf[0] {
			// Raw mode disables ISIG, so Ctrl-C arrives as a byte
			// instead of SIGINT.
			case quitKey, quitKey - 'a' + 'A', ctrlC, ctrlD:
				close(quit)
				return
			}
		}
	}()

	return quit, restore, nil
}
