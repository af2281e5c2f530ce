package game

import (
	"context"
	"time"

	"github.com/go-errors/errors"
)

// DefaultPollInterval is how often the touch pads are read.
const DefaultPollInterval = 100 * time.Millisecond

// InputReader waits for the player to touch a zone.
type InputReader struct {
	registry *Registry
	interval time.Duration
}

func NewInputReader(registry *Registry, interval time.Duration) *InputReader {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	return &InputReader{
		registry: registry,
		interval: interval,
	}
}

// AwaitPress polls all devices once per interval until one of them is
// touched. When several devices are touched in the same poll, the one
// registered first wins. It blocks until a touch, a device error or the
// cancellation of ctx.
func (r *InputReader) AwaitPress(ctx context.Context) (Identity, error) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		id, err := r.poll()
		if err != nil {
			return NoIdentity, err
		}

		if id != NoIdentity {
			return id, nil
		}

		select {
		case <-ctx.Done():
			return NoIdentity, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (r *InputReader) poll() (Identity, error) {
	for i, device := range r.registry.devices {
		touched, err := device.IsTouched()
		if err != nil {
			return NoIdentity, errors.Errorf("Could not read zone %v: %w", device.Zone().Name, err)
		}

		if touched {
			return Identity(i), nil
		}
	}

	return NoIdentity, nil
}
