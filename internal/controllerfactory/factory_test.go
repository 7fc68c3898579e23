package controllerfactory

import (
	"bytes"
	"testing"

	"github.com/srg/bconnect/internal/controller"
	"github.com/srg/bconnect/internal/controller/bluetoothctl"
	"github.com/srg/bconnect/internal/controller/bluez"
	"github.com/srg/bconnect/internal/testutils/mocks"
	"github.com/srg/bconnect/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactory_Bluetoothctl(t *testing.T) {
	cfg := config.DefaultConfig()

	ctrl, err := Factory(cfg, &bytes.Buffer{}, nil)
	require.NoError(t, err)
	assert.IsType(t, &bluetoothctl.Controller{}, ctrl)
}

func TestFactory_DBus(t *testing.T) {
	orig := newBluez
	defer func() { newBluez = orig }()

	want := &mocks.MockController{}
	var got bluez.Options
	newBluez = func(opts bluez.Options) (controller.Controller, error) {
		got = opts
		return want, nil
	}

	out := &bytes.Buffer{}
	cfg := config.DefaultConfig()
	cfg.Controller = config.ControllerDBus

	ctrl, err := Factory(cfg, out, nil)
	require.NoError(t, err)
	assert.Same(t, want, ctrl)
	assert.Same(t, out, got.Output)
}

func TestFactory_DBusUnavailable(t *testing.T) {
	orig := newBluez
	defer func() { newBluez = orig }()

	newBluez = func(bluez.Options) (controller.Controller, error) {
		return nil, controller.ErrSpawn
	}

	cfg := config.DefaultConfig()
	cfg.Controller = config.ControllerDBus

	ctrl, err := Factory(cfg, &bytes.Buffer{}, nil)
	assert.Nil(t, ctrl)
	assert.ErrorIs(t, err, controller.ErrSpawn)
}

func TestFactory_Unknown(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Controller = "hcitool"

	ctrl, err := Factory(cfg, &bytes.Buffer{}, nil)
	assert.Nil(t, ctrl)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}
