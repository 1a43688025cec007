package csi

import (
	"fmt"
	"strings"
	"sync"
)

// DeviceProfile describes the column layout a capture device produces.
type DeviceProfile struct {
	Name               string
	TimingColumns      int // leading metadata columns (timestamp_low, bfee_count)
	SubcarriersPerLink int
}

var (
	deviceMu sync.RWMutex

	// devices maps profile name to layout. Extraction never branches on
	// the device name itself, only on the looked-up layout, so new
	// devices register here without touching Extract.
	devices = map[string]DeviceProfile{
		"iwl5300": {
			Name:               "iwl5300",
			TimingColumns:      2,
			SubcarriersPerLink: 30,
		},
	}
)

// LookupDevice returns the profile registered under name (case-insensitive).
func LookupDevice(name string) (DeviceProfile, error) {
	deviceMu.RLock()
	defer deviceMu.RUnlock()

	profile, ok := devices[strings.ToLower(name)]
	if !ok {
		return DeviceProfile{}, fmt.Errorf("%w: %q", ErrUnsupportedDevice, name)
	}
	return profile, nil
}

// RegisterDevice adds or replaces a device profile.
func RegisterDevice(profile DeviceProfile) error {
	if profile.Name == "" {
		return fmt.Errorf("%w: device profile needs a name", ErrMalformedInput)
	}
	if profile.TimingColumns < 0 || profile.SubcarriersPerLink <= 0 {
		return fmt.Errorf("%w: device profile %q has invalid layout", ErrMalformedInput, profile.Name)
	}

	deviceMu.Lock()
	defer deviceMu.Unlock()
	devices[strings.ToLower(profile.Name)] = profile
	return nil
}
