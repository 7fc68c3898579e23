package bluez

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/srg/bconnect/internal/controller"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	path   dbus.ObjectPath
	method string
}

// fakeBus answers calls from a method -> reply table and records every call.
type fakeBus struct {
	replies map[string]*dbus.Call
	calls   []recordedCall
}

func (f *fakeBus) Call(_ context.Context, dest string, path dbus.ObjectPath, method string, _ ...interface{}) *dbus.Call {
	f.calls = append(f.calls, recordedCall{path: path, method: method})
	if dest != busName {
		return &dbus.Call{Err: errors.New("unexpected destination " + dest)}
	}
	if reply, ok := f.replies[method]; ok {
		return reply
	}
	return &dbus.Call{}
}

func device(addr string, connected bool) map[string]map[string]dbus.Variant {
	return map[string]map[string]dbus.Variant{
		deviceIface: {
			"Address":   dbus.MakeVariant(addr),
			"Connected": dbus.MakeVariant(connected),
		},
	}
}

func TestDeviceObjectPath(t *testing.T) {
	c := newController(&fakeBus{}, Options{})

	assert.Equal(t, dbus.ObjectPath("/org/bluez/hci0/dev_AC_80_0A_27_99_3E"), c.DeviceObjectPath("AC:80:0A:27:99:3E"))
	assert.Equal(t, dbus.ObjectPath("/org/bluez/hci0/dev_AC_80_0A_27_99_3E"), c.DeviceObjectPath("ac:80:0a:27:99:3e"))

	c = newController(&fakeBus{}, Options{Adapter: "hci1"})
	assert.Equal(t, dbus.ObjectPath("/org/bluez/hci1/dev_AC_80_0A_27_99_3E"), c.DeviceObjectPath("AC:80:0A:27:99:3E"))
}

func TestAddressFromPath(t *testing.T) {
	c := newController(&fakeBus{}, Options{})

	assert.Equal(t, "AC:80:0A:27:99:3E", c.addressFromPath("/org/bluez/hci0/dev_AC_80_0A_27_99_3E"))
	assert.Empty(t, c.addressFromPath("/org/bluez/hci1/dev_AC_80_0A_27_99_3E"))
	assert.Empty(t, c.addressFromPath("/org/bluez/hci0"))
}

func TestConnectedDevices(t *testing.T) {
	objects := managedObjects{
		"/org/bluez":                            {"org.bluez.AgentManager1": {}},
		"/org/bluez/hci0":                       {"org.bluez.Adapter1": {}},
		"/org/bluez/hci0/dev_FC_91_5D_70_51_41": device("FC:91:5D:70:51:41", true),
		"/org/bluez/hci0/dev_AC_80_0A_27_99_3E": device("AC:80:0A:27:99:3E", true),
		"/org/bluez/hci0/dev_14_3F_A6_E7_9B_4F": device("14:3F:A6:E7:9B:4F", false),
		"/org/bluez/hci1/dev_30_50_75_C7_3D_B7": device("30:50:75:C7:3D:B7", true),
		"/org/bluez/hci0/dev_80_C3_BA_55_83_B1": {
			deviceIface: {"Connected": dbus.MakeVariant(true)},
		},
	}
	bus := &fakeBus{replies: map[string]*dbus.Call{
		getManagedObjects: {Body: []interface{}{objects}},
	}}
	c := newController(bus, Options{})

	devices, err := c.ConnectedDevices(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"80:C3:BA:55:83:B1", "AC:80:0A:27:99:3E", "FC:91:5D:70:51:41"}, devices,
		"only connected devices on the adapter MUST be listed, ordered by object path")
	require.Len(t, bus.calls, 1)
	assert.Equal(t, dbus.ObjectPath("/"), bus.calls[0].path)
}

func TestConnectedDevices_OtherAdapter(t *testing.T) {
	objects := managedObjects{
		"/org/bluez/hci0/dev_AC_80_0A_27_99_3E": device("AC:80:0A:27:99:3E", true),
		"/org/bluez/hci1/dev_30_50_75_C7_3D_B7": device("30:50:75:C7:3D:B7", true),
	}
	bus := &fakeBus{replies: map[string]*dbus.Call{
		getManagedObjects: {Body: []interface{}{objects}},
	}}
	c := newController(bus, Options{Adapter: "hci1"})

	devices, err := c.ConnectedDevices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"30:50:75:C7:3D:B7"}, devices, "devices on other adapters MUST NOT be listed")
}

func TestConnectedDevices_BusError(t *testing.T) {
	bus := &fakeBus{replies: map[string]*dbus.Call{
		getManagedObjects: {Err: errors.New("connection closed")},
	}}
	c := newController(bus, Options{})

	devices, err := c.ConnectedDevices(context.Background())
	assert.Nil(t, devices)
	assert.ErrorIs(t, err, controller.ErrSpawn)
}

func TestConnectAndDisconnect(t *testing.T) {
	var out bytes.Buffer
	bus := &fakeBus{}
	c := newController(bus, Options{Output: &out})
	ctx := context.Background()

	status, err := c.Disconnect(ctx, "AC:80:0A:27:99:3E")
	require.NoError(t, err)
	assert.True(t, status.Success())

	status, err = c.Connect(ctx, "AC:80:0A:27:99:3E")
	require.NoError(t, err)
	assert.True(t, status.Success())

	assert.Equal(t, []recordedCall{
		{path: "/org/bluez/hci0/dev_AC_80_0A_27_99_3E", method: "org.bluez.Device1.Disconnect"},
		{path: "/org/bluez/hci0/dev_AC_80_0A_27_99_3E", method: "org.bluez.Device1.Connect"},
	}, bus.calls)
	assert.Equal(t,
		"Attempting to disconnect from AC:80:0A:27:99:3E\nDisconnect successful\n"+
			"Attempting to connect to AC:80:0A:27:99:3E\nConnect successful\n",
		out.String())
}

func TestConnect_BlueZErrorIsStatus(t *testing.T) {
	var out bytes.Buffer
	bus := &fakeBus{replies: map[string]*dbus.Call{
		deviceIface + ".Connect": {Err: dbus.Error{Name: "org.bluez.Error.Failed", Body: []interface{}{"Page Timeout"}}},
	}}
	c := newController(bus, Options{Output: &out})

	status, err := c.Connect(context.Background(), "AC:80:0A:27:99:3E")
	require.NoError(t, err, "BlueZ method errors MUST NOT be escalated")
	assert.False(t, status.Success())
	assert.Equal(t, controller.Status{Code: -1, Message: "org.bluez.Error.Failed"}, status)
	assert.Contains(t, out.String(), "Failed to connect: org.bluez.Error.Failed")
}

func TestDisconnect_TransportErrorIsSpawnError(t *testing.T) {
	bus := &fakeBus{replies: map[string]*dbus.Call{
		deviceIface + ".Disconnect": {Err: errors.New("dbus: connection closed by user")},
	}}
	c := newController(bus, Options{Output: &bytes.Buffer{}})

	_, err := c.Disconnect(context.Background(), "AC:80:0A:27:99:3E")
	assert.ErrorIs(t, err, controller.ErrSpawn)
}
