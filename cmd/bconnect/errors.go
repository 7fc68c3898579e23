package main

import (
	"errors"
	"fmt"

	"github.com/srg/bconnect/internal/alias"
	"github.com/srg/bconnect/internal/controller"
	"github.com/srg/bconnect/pkg/config"
)

// Command-level errors
var (
	// ErrUsage indicates invalid command-line input; nothing was attempted.
	ErrUsage = errors.New("usage error")
)

// FormatUserError adds a hint for the error kinds a user can act on.
func FormatUserError(err error) string {
	switch {
	case errors.Is(err, controller.ErrSpawn):
		return fmt.Sprintf("%s\n  Is BlueZ installed and bluetooth.service running? Use --controller to pick another backend.", err)
	case errors.Is(err, controller.ErrDecode):
		return fmt.Sprintf("%s\n  The controller printed something that is not text; check its locale settings.", err)
	case errors.Is(err, alias.ErrUnknownAlias), errors.Is(err, config.ErrInvalidConfig):
		return fmt.Sprintf("%s\n  Check the devices section of %s", err, config.DefaultPath())
	}
	return err.Error()
}
