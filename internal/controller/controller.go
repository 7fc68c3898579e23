// Package controller defines the narrow capability the shortcut resolver needs
// from a Bluetooth controller: list the connected devices, connect one,
// disconnect one.
//
// Backends live in subpackages:
//   - bluetoothctl: shells out to the bluetoothctl tool and scrapes its text output
//   - bluez: talks to BlueZ directly over the system D-Bus
package controller

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrSpawn indicates the controller could not be started or reached at all.
	ErrSpawn = errors.New("failed to start controller")
	// ErrDecode indicates the controller produced output that is not valid text.
	ErrDecode = errors.New("controller output is not valid UTF-8")
)

// Status is the raw outcome of a connect or disconnect command.
// A failed Status is informational and never escalated to an error.
type Status struct {
	Code    int    // process exit code, -1 if the backend has no numeric code
	Message string // backend-specific detail for failures
}

// Success reports whether the controller accepted the command.
func (s Status) Success() bool {
	return s.Code == 0
}

func (s Status) String() string {
	if s.Message != "" {
		return fmt.Sprintf("exit status: %d (%s)", s.Code, s.Message)
	}
	return fmt.Sprintf("exit status: %d", s.Code)
}

// Controller is implemented by every backend.
type Controller interface {
	// ConnectedDevices returns the addresses the controller currently reports as connected.
	ConnectedDevices(ctx context.Context) ([]string, error)
	// Connect asks the controller to connect address.
	Connect(ctx context.Context, address string) (Status, error)
	// Disconnect asks the controller to disconnect address.
	Disconnect(ctx context.Context, address string) (Status, error)
}
