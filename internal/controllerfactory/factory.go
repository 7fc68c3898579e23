package controllerfactory

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/srg/bconnect/internal/controller"
	"github.com/srg/bconnect/internal/controller/bluetoothctl"
	"github.com/srg/bconnect/internal/controller/bluez"
	"github.com/srg/bconnect/pkg/config"
)

// newBluez is swapped in tests; the real constructor needs a system bus.
var newBluez = func(opts bluez.Options) (controller.Controller, error) {
	return bluez.New(opts)
}

// Factory creates the controller backend selected by cfg.
// This is a variable so that it can be overridden in tests.
var Factory = func(cfg *config.Config, out io.Writer, logger *logrus.Logger) (controller.Controller, error) {
	switch cfg.Controller {
	case config.ControllerBluetoothctl:
		return bluetoothctl.New(bluetoothctl.Options{
			Path:   cfg.ControllerPath,
			Relay:  cfg.Relay,
			Output: out,
			Logger: logger,
		}), nil
	case config.ControllerDBus:
		ctrl, err := newBluez(bluez.Options{Output: out, Logger: logger})
		if err != nil {
			return nil, fmt.Errorf("failed to create D-Bus controller: %w", err)
		}
		return ctrl, nil
	}
	return nil, fmt.Errorf("%w: unknown controller %q", config.ErrInvalidConfig, cfg.Controller)
}
