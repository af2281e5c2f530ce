package game

import (
	"github.com/go-errors/errors"
	"github.com/the-lightning-land/simond/machine"
)

// Identity names one device of a Registry by its position. Two devices are
// the same only if they share an Identity, whatever their colors.
type Identity int

const NoIdentity Identity = -1

// Registry is the fixed, ordered set of devices a game is played on.
type Registry struct {
	devices []machine.SignalDevice
}

// NewRegistry builds a registry from devices in the given order. Devices must
// be comparable (pointers in practice) and none may appear twice.
func NewRegistry(devices []machine.SignalDevice) (*Registry, error) {
	if len(devices) == 0 {
		return nil, errors.New("registry needs at least one device")
	}

	seen := make(map[machine.SignalDevice]int, len(devices))

	for i, device := range devices {
		if device == nil {
			return nil, errors.Errorf("device %d is nil", i)
		}

		if j, ok := seen[device]; ok {
			return nil, errors.Errorf("device %d is the same as device %d", i, j)
		}

		seen[device] = i
	}

	r := &Registry{
		devices: make([]machine.SignalDevice, len(devices)),
	}

	copy(r.devices, devices)

	return r, nil
}

func (r *Registry) Len() int {
	return len(r.devices)
}

func (r *Registry) Device(id Identity) machine.SignalDevice {
	return r.devices[id]
}

func (r *Registry) Valid(id Identity) bool {
	return id >= 0 && int(id) < len(r.devices)
}

// Name returns the zone name of id, used for logging.
func (r *Registry) Name(id Identity) string {
	if !r.Valid(id) {
		return "none"
	}

	return r.devices[id].Zone().Name
}
