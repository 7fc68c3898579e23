// Package bluetoothctl implements controller.Controller by running the
// bluetoothctl command-line tool and scraping its text output.
package bluetoothctl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"unicode/utf8"

	"github.com/creack/pty"
	"github.com/sirupsen/logrus"
	"github.com/srg/bconnect/internal/controller"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Fixed-width layout of a "devices Connected" record:
// "Device " + <17-char address> + " " + <name>
const (
	addressStart  = 7
	addressEnd    = 24
	minRecordSize = 24
)

// Relay modes
const (
	RelayAuto = "auto"
	RelayPipe = "pipe"
	RelayPTY  = "pty"
)

// DefaultPath is the controller binary looked up on PATH.
const DefaultPath = "bluetoothctl"

// Options configures the subprocess adapter.
type Options struct {
	Path   string   // binary to run, DefaultPath if empty
	Args   []string // prepended to every invocation
	Relay  string   // RelayAuto if empty
	Output io.Writer
	Errors io.Writer
	Logger *logrus.Logger
}

// Controller runs one bluetoothctl process per operation, sequentially.
type Controller struct {
	opts   Options
	logger *logrus.Logger
}

var _ controller.Controller = (*Controller)(nil)

// New creates a bluetoothctl adapter.
func New(opts Options) *Controller {
	if opts.Path == "" {
		opts.Path = DefaultPath
	}
	if opts.Relay == "" {
		opts.Relay = RelayAuto
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Errors == nil {
		opts.Errors = os.Stderr
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Controller{opts: opts, logger: logger}
}

// ParseConnected extracts device addresses from "bluetoothctl devices Connected" output.
// Lines shorter than a full record are skipped.
func ParseConnected(text string) []string {
	devices := []string{}
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		if len(line) < minRecordSize {
			continue
		}
		devices = append(devices, line[addressStart:addressEnd])
	}
	return devices
}

// ConnectedDevices runs "devices Connected" and parses its stdout.
// The query's own exit status is ignored; only its output matters.
func (c *Controller) ConnectedDevices(ctx context.Context) ([]string, error) {
	cmd := c.command(ctx, "devices", "Connected")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%w: %s: %w", controller.ErrSpawn, c.opts.Path, err)
		}
		c.logger.WithFields(logrus.Fields{
			"exit_code": exitErr.ExitCode(),
			"stderr":    strings.TrimSpace(stderr.String()),
		}).Warn("Connected-devices query exited with failure")
	}

	if !utf8.Valid(out) {
		return nil, controller.ErrDecode
	}

	devices := ParseConnected(string(out))
	c.logger.WithField("devices", devices).Debug("Queried connected devices")
	return devices, nil
}

// Connect runs "connect <address>", relaying the tool's output.
func (c *Controller) Connect(ctx context.Context, address string) (controller.Status, error) {
	return c.run(ctx, "connect", address)
}

// Disconnect runs "disconnect <address>", relaying the tool's output.
func (c *Controller) Disconnect(ctx context.Context, address string) (controller.Status, error) {
	return c.run(ctx, "disconnect", address)
}

func (c *Controller) command(ctx context.Context, args ...string) *exec.Cmd {
	full := make([]string, 0, len(c.opts.Args)+len(args))
	full = append(full, c.opts.Args...)
	full = append(full, args...)
	return exec.CommandContext(ctx, c.opts.Path, full...)
}

func (c *Controller) run(ctx context.Context, verb, address string) (controller.Status, error) {
	cmd := c.command(ctx, verb, address)
	usePTY := c.usePTY()

	c.logger.WithFields(logrus.Fields{
		"command": verb,
		"address": address,
		"pty":     usePTY,
	}).Debug("Running controller command")

	var err error
	if usePTY {
		err = c.runPTY(cmd)
	} else {
		cmd.Stdout = c.opts.Output
		cmd.Stderr = c.opts.Errors
		err = cmd.Run()
	}

	if err != nil {
		// A process killed by the context did not report a status of its own.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return controller.Status{}, ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return controller.Status{Code: exitErr.ExitCode()}, nil
		}
		return controller.Status{}, fmt.Errorf("%w: %s %s: %w", controller.ErrSpawn, c.opts.Path, verb, err)
	}
	return controller.Status{Code: 0}, nil
}

// runPTY attaches the process to a pseudo-terminal and copies everything it
// prints to the configured output until the terminal is closed.
func (c *Controller) runPTY(cmd *exec.Cmd) error {
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = ptmx.Close() }()

	done := make(chan error, 1)
	go func() {
		_, copyErr := io.Copy(c.opts.Output, ptmx)
		done <- copyErr
	}()

	waitErr := cmd.Wait()
	// Linux reports EIO on the master once the slave side is gone.
	if copyErr := <-done; copyErr != nil && !errors.Is(copyErr, unix.EIO) {
		c.logger.WithError(copyErr).Debug("PTY relay ended with error")
	}
	return waitErr
}

func (c *Controller) usePTY() bool {
	switch c.opts.Relay {
	case RelayPTY:
		return true
	case RelayPipe:
		return false
	}
	f, ok := c.opts.Output.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
