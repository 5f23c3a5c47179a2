// Package bluetooth manages pairing and connecting the Bluetooth audio
// device that carries spoken announcements. It wraps the system bluetoothctl
// and PulseAudio tools; nothing here touches the recognition path.
package bluetooth

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os/exec"
	"strings"
	"time"
)

// Command timeouts. Pairing can take a while on slow adapters.
const (
	scanTimeout    = 10 * time.Second
	pairTimeout    = 30 * time.Second
	connectTimeout = 20 * time.Second
	defaultTimeout = 10 * time.Second
)

// Device represents a known or discovered Bluetooth device.
type Device struct {
	MAC  string `json:"mac"`
	Name string `json:"name"`
}

// Manager runs Bluetooth management commands.
type Manager struct {
	// runCommand is swappable for tests.
	runCommand func(ctx context.Context, name string, args ...string) (string, string, error)
}

// NewManager creates a Manager that shells out to the system tools.
func NewManager() *Manager {
	return &Manager{
		runCommand: func(ctx context.Context, name string, args ...string) (string, string, error) {
			cmd := exec.CommandContext(ctx, name, args...)
			var stdout, stderr bytes.Buffer
			cmd.Stdout = &stdout
			cmd.Stderr = &stderr
			err := cmd.Run()
			return stdout.String(), stderr.String(), err
		},
	}
}

// Devices lists devices known to bluetoothctl.
func (m *Manager) Devices() ([]Device, error) {
	ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
	defer cancel()

	stdout, stderr, err := m.runCommand(ctx, "bluetoothctl", "devices")
	if err != nil {
		return nil, fmt.Errorf("bluetoothctl devices: %w (%s)", err, strings.TrimSpace(stderr))
	}

	return parseDevices(stdout), nil
}

// Pair pairs with the device at the given MAC address. A device that is
// already paired is not an error.
func (m *Manager) Pair(mac string) error {
	if mac == "" {
		return fmt.Errorf("no MAC address provided")
	}

	ctx, cancel := context.WithTimeout(context.Background(), pairTimeout)
	defer cancel()

	_, stderr, err := m.runCommand(ctx, "bluetoothctl", "pair", mac)
	if err != nil {
		if strings.Contains(stderr, "AlreadyExists") {
			return nil
		}
		return fmt.Errorf("pair %s: %w (%s)", mac, err, strings.TrimSpace(stderr))
	}
	return nil
}

// Trust marks the device as trusted so it reconnects automatically.
func (m *Manager) Trust(mac string) error {
	if mac == "" {
		return fmt.Errorf("no MAC address provided")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	_, stderr, err := m.runCommand(ctx, "bluetoothctl", "trust", mac)
	if err != nil {
		return fmt.Errorf("trust %s: %w (%s)", mac, err, strings.TrimSpace(stderr))
	}
	return nil
}

// Connect connects to the device at the given MAC address.
func (m *Manager) Connect(mac string) error {
	if mac == "" {
		return fmt.Errorf("no MAC address provided")
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	stdout, stderr, err := m.runCommand(ctx, "bluetoothctl", "connect", mac)
	if err != nil {
		if strings.Contains(stdout, "Connected: yes") {
			return nil
		}
		return fmt.Errorf("connect %s: %w (%s)", mac, err, strings.TrimSpace(stderr))
	}
	return nil
}

// Disconnect disconnects the device at the given MAC address.
func (m *Manager) Disconnect(mac string) error {
	if mac == "" {
		return fmt.Errorf("no MAC address provided")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	_, stderr, err := m.runCommand(ctx, "bluetoothctl", "disconnect", mac)
	if err != nil {
		return fmt.Errorf("disconnect %s: %w (%s)", mac, err, strings.TrimSpace(stderr))
	}
	return nil
}

// EnsureAudio makes sure PulseAudio is running so Bluetooth audio output
// works. Failure is logged, not fatal: speech falls back to the default
// audio device.
func (m *Manager) EnsureAudio() bool {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	if _, _, err := m.runCommand(ctx, "pulseaudio", "--check"); err == nil {
		return true
	}

	log.Println("bluetooth: starting PulseAudio")
	if _, stderr, err := m.runCommand(ctx, "pulseaudio", "--start"); err != nil {
		log.Printf("bluetooth: could not start PulseAudio: %v (%s)", err, strings.TrimSpace(stderr))
		return false
	}
	return true
}

// parseDevices parses bluetoothctl "devices" output. Lines look like:
//
//	Device AA:BB:CC:DD:EE:FF Some Headset
func parseDevices(output string) []Device {
	var devices []Device
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if !strings.HasPrefix(line, "Device") {
			continue
		}
		parts := strings.SplitN(line, " ", 3)
		if len(parts) < 3 {
			continue
		}
		devices = append(devices, Device{MAC: parts[1], Name: parts[2]})
	}
	return devices
}
