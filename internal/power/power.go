// Package power issues host power-state transitions. Transitions are
// one-shot and irreversible within a process lifetime, which makes
// them safe to request from the monitor loop and the button state
// machine concurrently.
package power

import (
	"os"
	"os/exec"

	"codeberg.org/fervag/x708ctl/internal/errors"
	"codeberg.org/fervag/x708ctl/internal/logger"
)

const (
	poweroffCmd = "/usr/sbin/poweroff"
	rebootCmd   = "/usr/sbin/reboot"
	wallCmd     = "/usr/bin/wall"
)

// Controller requests host power transitions. Poweroff and Reboot do
// not return on success; the process exits with the command's status.
type Controller interface {
	Poweroff() error
	Reboot() error
	// Broadcast writes a message to all logged-in terminal sessions.
	Broadcast(msg string) error
}

type hostController struct{}

// NewController returns the production controller, which shells out to
// poweroff, reboot and wall.
func NewController() Controller {
	return hostController{}
}

func (hostController) Poweroff() error {
	logger.Info().Msg("Powering off")
	return runAndExit(poweroffCmd)
}

func (hostController) Reboot() error {
	logger.Info().Msg("Rebooting")
	return runAndExit(rebootCmd)
}

func (hostController) Broadcast(msg string) error {
	errFactory := errors.New()

	if err := exec.Command(wallCmd, msg).Run(); err != nil {
		return errFactory.Wrap(ErrBroadcastFailed, err)
	}

	return nil
}

func runAndExit(path string) error {
	errFactory := errors.New()

	cmd := exec.Command(path)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		return errFactory.Wrap(ErrPowerCommandFailed, err).WithData(path)
	}

	os.Exit(0)
	return nil
}
