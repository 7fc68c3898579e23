// Package bluez implements controller.Controller on top of the BlueZ D-Bus API,
// without spawning any helper process.
package bluez

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/sirupsen/logrus"
	"github.com/srg/bconnect/internal/controller"
)

const (
	busName           = "org.bluez"
	deviceIface       = "org.bluez.Device1"
	getManagedObjects = "org.freedesktop.DBus.ObjectManager.GetManagedObjects"
	listNames         = "org.freedesktop.DBus.ListNames"

	// DefaultAdapter is the HCI adapter used when none is configured.
	DefaultAdapter = "hci0"
)

// managedObjects is the reply shape of GetManagedObjects.
type managedObjects map[dbus.ObjectPath]map[string]map[string]dbus.Variant

// caller is the subset of a bus connection the controller needs.
type caller interface {
	Call(ctx context.Context, dest string, path dbus.ObjectPath, method string, args ...interface{}) *dbus.Call
}

// connCaller routes calls through a real bus connection.
type connCaller struct {
	conn *dbus.Conn
}

func (c connCaller) Call(ctx context.Context, dest string, path dbus.ObjectPath, method string, args ...interface{}) *dbus.Call {
	return c.conn.Object(dest, path).CallWithContext(ctx, method, 0, args...)
}

// Options configures the D-Bus backend.
type Options struct {
	Adapter string // HCI adapter name, DefaultAdapter if empty
	Output  io.Writer
	Logger  *logrus.Logger
}

// Controller talks to org.bluez on the system bus.
type Controller struct {
	bus     caller
	adapter string
	out     io.Writer
	logger  *logrus.Logger
}

var _ controller.Controller = (*Controller)(nil)

// New connects to the system bus and checks that BlueZ is present.
func New(opts Options) (*Controller, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, fmt.Errorf("%w: connect to system bus: %w", controller.ErrSpawn, err)
	}

	var names []string
	if err := conn.BusObject().Call(listNames, 0).Store(&names); err != nil {
		return nil, fmt.Errorf("%w: list bus names: %w", controller.ErrSpawn, err)
	}
	found := false
	for _, n := range names {
		if n == busName {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %s not found on system bus (is bluetooth.service running?)", controller.ErrSpawn, busName)
	}

	return newController(connCaller{conn: conn}, opts), nil
}

func newController(bus caller, opts Options) *Controller {
	if opts.Adapter == "" {
		opts.Adapter = DefaultAdapter
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Controller{
		bus:     bus,
		adapter: opts.Adapter,
		out:     opts.Output,
		logger:  logger,
	}
}

func (c *Controller) adapterPath() string {
	return "/org/bluez/" + c.adapter
}

// DeviceObjectPath converts "AA:BB:CC:DD:EE:FF" to "/org/bluez/hci0/dev_AA_BB_CC_DD_EE_FF".
func (c *Controller) DeviceObjectPath(addr string) dbus.ObjectPath {
	escaped := strings.ReplaceAll(strings.ToUpper(addr), ":", "_")
	return dbus.ObjectPath(c.adapterPath() + "/dev_" + escaped)
}

// addressFromPath extracts a MAC address from a device object path on this adapter.
func (c *Controller) addressFromPath(path dbus.ObjectPath) string {
	prefix := c.adapterPath() + "/dev_"
	s := string(path)
	if !strings.HasPrefix(s, prefix) {
		return ""
	}
	return strings.ReplaceAll(s[len(prefix):], "_", ":")
}

// ConnectedDevices lists Device1 objects on the adapter whose Connected property is true,
// ordered by object path.
func (c *Controller) ConnectedDevices(ctx context.Context) ([]string, error) {
	var objects managedObjects
	if err := c.bus.Call(ctx, busName, "/", getManagedObjects).Store(&objects); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", controller.ErrSpawn, getManagedObjects, err)
	}

	paths := make([]string, 0, len(objects))
	for path := range objects {
		paths = append(paths, string(path))
	}
	sort.Strings(paths)

	prefix := c.adapterPath() + "/"
	devices := []string{}
	for _, p := range paths {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		props, ok := objects[dbus.ObjectPath(p)][deviceIface]
		if !ok {
			continue
		}
		connected, _ := props["Connected"].Value().(bool)
		if !connected {
			continue
		}

		addr, _ := props["Address"].Value().(string)
		if addr == "" {
			addr = c.addressFromPath(dbus.ObjectPath(p))
		}
		if addr == "" {
			continue
		}
		devices = append(devices, strings.ToUpper(addr))
	}

	c.logger.WithField("devices", devices).Debug("Queried connected devices")
	return devices, nil
}

// Connect calls Device1.Connect.
func (c *Controller) Connect(ctx context.Context, address string) (controller.Status, error) {
	fmt.Fprintf(c.out, "Attempting to connect to %s\n", address)
	return c.deviceCall(ctx, address, "Connect")
}

// Disconnect calls Device1.Disconnect.
func (c *Controller) Disconnect(ctx context.Context, address string) (controller.Status, error) {
	fmt.Fprintf(c.out, "Attempting to disconnect from %s\n", address)
	return c.deviceCall(ctx, address, "Disconnect")
}

// deviceCall maps BlueZ method errors to a failed Status; anything else means the bus is unusable.
func (c *Controller) deviceCall(ctx context.Context, address, method string) (controller.Status, error) {
	path := c.DeviceObjectPath(address)
	c.logger.WithFields(logrus.Fields{
		"path":   path,
		"method": method,
	}).Debug("Calling BlueZ")

	err := c.bus.Call(ctx, busName, path, deviceIface+"."+method).Err
	if err == nil {
		fmt.Fprintf(c.out, "%s successful\n", method)
		return controller.Status{Code: 0}, nil
	}

	var dbusErr dbus.Error
	if errors.As(err, &dbusErr) {
		fmt.Fprintf(c.out, "Failed to %s: %s\n", strings.ToLower(method), dbusErr.Name)
		return controller.Status{Code: -1, Message: dbusErr.Name}, nil
	}
	return controller.Status{}, fmt.Errorf("%w: %s %s: %w", controller.ErrSpawn, deviceIface, method, err)
}
