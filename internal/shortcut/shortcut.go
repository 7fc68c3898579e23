// Package shortcut turns an alias or a disconnect-all request into controller
// commands, using the current connection state to decide whether a device must
// be reset before it is connected.
package shortcut

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/srg/bconnect/internal/alias"
	"github.com/srg/bconnect/internal/controller"
	"golang.org/x/term"
)

// ActionKind selects what a run does.
type ActionKind int

const (
	ConnectAlias ActionKind = iota
	DisconnectAll
)

// Action is the single operation requested on the command line.
type Action struct {
	Kind  ActionKind
	Alias string // only for ConnectAlias
}

// Connect builds a ConnectAlias action.
func Connect(name string) Action {
	return Action{Kind: ConnectAlias, Alias: name}
}

// Disconnect builds a DisconnectAll action.
func Disconnect() Action {
	return Action{Kind: DisconnectAll}
}

// BatchPolicy decides what happens when one device of a disconnect-all batch fails.
type BatchPolicy int

const (
	// FailFast aborts the batch on the first error.
	FailFast BatchPolicy = iota
	// KeepGoing attempts every device and returns all errors joined.
	KeepGoing
)

// Options configures a Resolver.
type Options struct {
	Policy BatchPolicy
	Output io.Writer
	Logger *logrus.Logger
}

// Resolver applies the connect/disconnect policy against a controller.
type Resolver struct {
	table  *alias.Table
	ctrl   controller.Controller
	policy BatchPolicy
	out    io.Writer
	logger *logrus.Logger

	ok   *color.Color
	fail *color.Color
}

// NewResolver creates a resolver over an alias table and a controller backend.
func NewResolver(table *alias.Table, ctrl controller.Controller, opts Options) *Resolver {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	r := &Resolver{
		table:  table,
		ctrl:   ctrl,
		policy: opts.Policy,
		out:    opts.Output,
		logger: logger,
		ok:     color.New(color.FgGreen),
		fail:   color.New(color.FgRed),
	}
	if !isTerminal(opts.Output) {
		r.ok.DisableColor()
		r.fail.DisableColor()
	}
	return r
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// ResolveAlias looks up the address for name.
func (r *Resolver) ResolveAlias(name string) (string, error) {
	return r.table.Resolve(name)
}

// QueryConnectedDevices asks the controller for the current connected set.
func (r *Resolver) QueryConnectedDevices(ctx context.Context) ([]string, error) {
	devices, err := r.ctrl.ConnectedDevices(ctx)
	if err != nil {
		return nil, fmt.Errorf("query connected devices: %w", err)
	}
	return devices, nil
}

// DisconnectDevice disconnects address and prints the controller's status.
func (r *Resolver) DisconnectDevice(ctx context.Context, address string) (controller.Status, error) {
	r.logger.WithField("address", address).Info("Disconnecting device")
	status, err := r.ctrl.Disconnect(ctx, address)
	if err != nil {
		return status, fmt.Errorf("disconnect %s: %w", address, err)
	}
	r.printStatus(status)
	return status, nil
}

// ConnectDevice connects address and prints the controller's status.
func (r *Resolver) ConnectDevice(ctx context.Context, address string) (controller.Status, error) {
	r.logger.WithField("address", address).Info("Connecting device")
	status, err := r.ctrl.Connect(ctx, address)
	if err != nil {
		return status, fmt.Errorf("connect %s: %w", address, err)
	}
	r.printStatus(status)
	return status, nil
}

// Run executes action. The connected set is always queried and printed first.
func (r *Resolver) Run(ctx context.Context, action Action) error {
	connected, err := r.QueryConnectedDevices(ctx)
	if err != nil {
		return err
	}
	if err := r.printConnected(connected); err != nil {
		return err
	}

	switch action.Kind {
	case DisconnectAll:
		return r.disconnectAll(ctx, connected)
	case ConnectAlias:
		return r.connectAlias(ctx, action.Alias, connected)
	}
	return fmt.Errorf("unknown action kind %d", action.Kind)
}

func (r *Resolver) disconnectAll(ctx context.Context, connected []string) error {
	var errs []error
	for _, addr := range connected {
		if _, err := r.DisconnectDevice(ctx, addr); err != nil {
			if r.policy == FailFast {
				return err
			}
			r.logger.WithError(err).WithField("address", addr).Warn("Disconnect failed, continuing")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// connectAlias disconnects an already connected device before connecting it again.
// A failed connect after a successful disconnect leaves the device disconnected.
func (r *Resolver) connectAlias(ctx context.Context, name string, connected []string) error {
	addr, err := r.ResolveAlias(name)
	if err != nil {
		return err
	}

	if slices.Contains(connected, addr) {
		r.logger.WithFields(logrus.Fields{
			"alias":   name,
			"address": addr,
		}).Debug("Device already connected, resetting")
		if _, err := r.DisconnectDevice(ctx, addr); err != nil {
			return err
		}
	}

	_, err = r.ConnectDevice(ctx, addr)
	return err
}

func (r *Resolver) printConnected(devices []string) error {
	if len(devices) == 0 {
		fmt.Fprintln(r.out, "No connected devices")
		return nil
	}

	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CONNECTED\tALIAS")
	for _, addr := range devices {
		name, ok := r.table.AliasFor(addr)
		if !ok {
			name = "-"
		}
		fmt.Fprintf(w, "%s\t%s\n", addr, name)
	}
	return w.Flush()
}

func (r *Resolver) printStatus(status controller.Status) {
	c := r.ok
	if !status.Success() {
		c = r.fail
	}
	c.Fprintln(r.out, status.String())
}
