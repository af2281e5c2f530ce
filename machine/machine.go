package machine

import (
	"time"

	"github.com/go-errors/errors"
)

// ErrDeviceUnavailable is returned by a machine when a zone's hardware can
// not be reached. Callers treat it as fatal.
var ErrDeviceUnavailable = errors.New("device unavailable")

// SignalDevice is one touch zone of the board: a group of pixels, a tone and
// one or more touch pads.
type SignalDevice interface {
	Zone() Zone
	SetColor(c Color) error
	// PlayTone sounds frequency and blocks for the full duration.
	PlayTone(frequency float64, duration time.Duration) error
	IsTouched() (bool, error)
}

type Machine interface {
	Start() error
	Stop() error
	// Devices returns one SignalDevice per zone, in zone order.
	Devices() []SignalDevice
	// Fill sets every pixel of the board to c.
	Fill(c Color) error
	PlayTone(frequency float64, duration time.Duration) error
}
