// Package ring surfaces a fired alarm to the user by running a desktop
// notification command.
package ring

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"slices"
	"strings"

	"github.com/oshokin/alarm-clock/internal/logger"
)

// ErrUnsupportedOS indicates there is no built-in notification command for the current OS.
var ErrUnsupportedOS = errors.New("unsupported operating system")

// errEmptyCommand is returned when a configured command has no program.
var errEmptyCommand = errors.New("notification command is empty")

// Notifier runs a notification program for every ring.
type Notifier struct {
	// command is the program and its leading arguments.
	// The title and body are appended on every ring.
	command []string
}

// New creates a notifier. An empty command selects the built-in one for the current OS.
func New(command []string) (*Notifier, error) {
	if len(command) == 0 {
		var err error

		command, err = DefaultCommand(runtime.GOOS)
		if err != nil {
			return nil, err
		}
	}

	if strings.TrimSpace(command[0]) == "" {
		return nil, errEmptyCommand
	}

	return &Notifier{
		command: slices.Clone(command),
	}, nil
}

// DefaultCommand returns the built-in notification command for goos:
// - Linux:   `notify-send -u critical -a alarm-clock`
// - macOS:   `osascript` running a small AppleScript
// - Windows: `msg *`
func DefaultCommand(goos string) ([]string, error) {
	osName := strings.ToLower(goos)

	switch {
	case strings.Contains(osName, "linux"), strings.Contains(osName, "freebsd"):
		return []string{"notify-send", "-u", "critical", "-a", "alarm-clock"}, nil
	case strings.Contains(osName, "darwin"):
		return []string{
			"osascript",
			"-e", "on run argv",
			"-e", "display notification (item 2 of argv) with title (item 1 of argv) sound name \"Glass\"",
			"-e", "end run",
		}, nil
	case strings.Contains(osName, "windows"):
		return []string{"msg.exe", "*"}, nil
	default:
		return nil, fmt.Errorf("unsupported operating system: %s: %w", goos, ErrUnsupportedOS)
	}
}

// Ring starts the notification program with title and body.
// The program is started asynchronously and reaped in the background.
func (n *Notifier) Ring(ctx context.Context, title, body string) error {
	args := append(slices.Clone(n.command[1:]), title, body)

	//nolint:gosec // The command comes from trusted configuration.
	cmd := exec.CommandContext(context.WithoutCancel(ctx), n.command[0], args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start notification command %q: %w", n.command[0], err)
	}

	go func() {
		if err := cmd.Wait(); err != nil {
			logger.WarnKV(ctx, "Notification command failed", "command", n.command[0], "error", err)
		}
	}()

	return nil
}
