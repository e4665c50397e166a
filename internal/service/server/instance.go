package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/oshokin/alarm-clock/internal/logger"
)

// baseDaemonExecutable is the executable name of the daemon without extension.
const baseDaemonExecutable = "alarm-clockd"

// ErrAlreadyRunning is returned when another daemon process is found.
var ErrAlreadyRunning = errors.New("another alarm-clockd process is already running")

// ensureSingleInstance refuses to start when another daemon process exists.
// Two daemons would register every alarm twice.
func ensureSingleInstance(ctx context.Context) error {
	pid, found, err := findOtherProcess(daemonExecutable())
	if err != nil {
		// The process table is unavailable on some platforms.
		logger.WarnKV(ctx, "Unable to list processes, skipping instance check", "error", err)

		return nil
	}

	if found {
		return fmt.Errorf("%w (pid %d)", ErrAlreadyRunning, pid)
	}

	return nil
}

// findOtherProcess looks for a process with the provided executable name
// other than the current one.
func findOtherProcess(executable string) (int, bool, error) {
	processList, err := ps.Processes()
	if err != nil {
		return 0, false, err
	}

	thisProcessID := os.Getpid()

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if strings.EqualFold(process.Executable(), executable) {
			return process.Pid(), true, nil
		}
	}

	return 0, false, nil
}

// daemonExecutable returns the daemon executable name for the current platform.
func daemonExecutable() string {
	if strings.Contains(strings.ToLower(runtime.GOOS), "windows") {
		return baseDaemonExecutable + ".exe"
	}

	return baseDaemonExecutable
}
