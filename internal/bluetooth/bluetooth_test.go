package bluetooth

import (
	"context"
	"errors"
	"testing"
)

// fakeRunner returns a Manager whose commands are served from a canned map
// keyed by the joined command line.
func fakeRunner(responses map[string]struct {
	stdout string
	stderr string
	err    error
}) *Manager {
	m := NewManager()
	m.runCommand = func(ctx context.Context, name string, args ...string) (string, string, error) {
		key := name
		for _, a := range args {
			key += " " + a
		}
		r := responses[key]
		return r.stdout, r.stderr, r.err
	}
	return m
}

func TestParseDevices(t *testing.T) {
	output := `Device AA:BB:CC:DD:EE:FF Bone Conduction Headset
Device 11:22:33:44:55:66 Pi Speaker
Controller 00:00:00:00:00:00 not a device
`

	devices := parseDevices(output)
	if len(devices) != 2 {
		t.Fatalf("parsed %d devices, want 2", len(devices))
	}

	if devices[0].MAC != "AA:BB:CC:DD:EE:FF" || devices[0].Name != "Bone Conduction Headset" {
		t.Errorf("device 0 = %+v", devices[0])
	}
	if devices[1].MAC != "11:22:33:44:55:66" || devices[1].Name != "Pi Speaker" {
		t.Errorf("device 1 = %+v", devices[1])
	}
}

func TestParseDevices_Empty(t *testing.T) {
	if got := parseDevices(""); len(got) != 0 {
		t.Errorf("parsed %d devices from empty output, want 0", len(got))
	}
}

func TestManager_Devices(t *testing.T) {
	m := fakeRunner(map[string]struct {
		stdout string
		stderr string
		err    error
	}{
		"bluetoothctl devices": {stdout: "Device AA:BB:CC:DD:EE:FF Headset\n"},
	})

	devices, err := m.Devices()
	if err != nil {
		t.Fatalf("Devices() error = %v", err)
	}
	if len(devices) != 1 || devices[0].Name != "Headset" {
		t.Errorf("Devices() = %v", devices)
	}
}

func TestManager_PairAlreadyExists(t *testing.T) {
	m := fakeRunner(map[string]struct {
		stdout string
		stderr string
		err    error
	}{
		"bluetoothctl pair AA:BB:CC:DD:EE:FF": {
			stderr: "Failed to pair: org.bluez.Error.AlreadyExists",
			err:    errors.New("exit status 1"),
		},
	})

	if err := m.Pair("AA:BB:CC:DD:EE:FF"); err != nil {
		t.Errorf("already-paired device should not be an error, got %v", err)
	}
}

func TestManager_PairFailure(t *testing.T) {
	m := fakeRunner(map[string]struct {
		stdout string
		stderr string
		err    error
	}{
		"bluetoothctl pair AA:BB:CC:DD:EE:FF": {
			stderr: "Failed to pair: org.bluez.Error.AuthenticationFailed",
			err:    errors.New("exit status 1"),
		},
	})

	if err := m.Pair("AA:BB:CC:DD:EE:FF"); err == nil {
		t.Error("pair failure should surface as an error")
	}
}

func TestManager_EmptyMACRejected(t *testing.T) {
	m := NewManager()

	if err := m.Pair(""); err == nil {
		t.Error("Pair with empty MAC should fail")
	}
	if err := m.Trust(""); err == nil {
		t.Error("Trust with empty MAC should fail")
	}
	if err := m.Connect(""); err == nil {
		t.Error("Connect with empty MAC should fail")
	}
	if err := m.Disconnect(""); err == nil {
		t.Error("Disconnect with empty MAC should fail")
	}
}

func TestManager_ConnectReportsConnectedDespiteExitCode(t *testing.T) {
	m := fakeRunner(map[string]struct {
		stdout string
		stderr string
		err    error
	}{
		"bluetoothctl connect AA:BB:CC:DD:EE:FF": {
			stdout: "Attempting to connect\nConnected: yes\n",
			err:    errors.New("exit status 1"),
		},
	})

	if err := m.Connect("AA:BB:CC:DD:EE:FF"); err != nil {
		t.Errorf("connect reporting 'Connected: yes' should succeed, got %v", err)
	}
}
