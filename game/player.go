package game

import (
	"context"
	"time"

	"github.com/go-errors/errors"
	"github.com/the-lightning-land/simond/machine"
)

const (
	// FailureFrequency is the low C0 played when the player loses.
	FailureFrequency = 16.35
	FailureDuration  = 2 * time.Second
)

var FailureColor = machine.Red

// Board is the output shared by all zones.
type Board interface {
	Fill(c machine.Color) error
	PlayTone(frequency float64, duration time.Duration) error
}

// Player drives the zones' lights and tones.
type Player struct {
	registry *Registry
	board    Board
	log      Logger
}

func NewPlayer(registry *Registry, board Board, log Logger) *Player {
	if log == nil {
		log = noopLogger{}
	}

	return &Player{
		registry: registry,
		board:    board,
		log:      log,
	}
}

// StepDuration is how long each step of a replay lasts. It shrinks as the
// sequence grows.
func StepDuration(base time.Duration, length int) time.Duration {
	if length < 1 {
		return base
	}

	return base / time.Duration(length)
}

// Activate clears the board, then lights id and sounds its tone for d.
func (p *Player) Activate(id Identity, d time.Duration) error {
	device := p.registry.Device(id)
	zone := device.Zone()

	err := p.board.Fill(machine.Off)
	if err != nil {
		return errors.Errorf("Could not clear board: %w", err)
	}

	err = device.SetColor(zone.Color)
	if err != nil {
		return errors.Errorf("Could not light zone %v: %w", zone.Name, err)
	}

	err = device.PlayTone(zone.Frequency, d)
	if err != nil {
		return errors.Errorf("Could not play tone of zone %v: %w", zone.Name, err)
	}

	err = device.SetColor(machine.Off)
	if err != nil {
		return errors.Errorf("Could not turn off zone %v: %w", zone.Name, err)
	}

	return nil
}

// Replay shows the whole sequence, one zone after the other. Cancelling ctx
// stops the replay between two steps.
func (p *Player) Replay(ctx context.Context, sequence *Sequence, base time.Duration) error {
	step := StepDuration(base, sequence.Len())

	p.log.Debugf("Replaying %d zones at %v each", sequence.Len(), step)

	for i := 0; i < sequence.Len(); i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := p.Activate(sequence.At(i), step)
		if err != nil {
			return err
		}
	}

	err := p.board.Fill(machine.Off)
	if err != nil {
		return errors.Errorf("Could not clear board: %w", err)
	}

	return nil
}

// SignalFailure lights the whole board in FailureColor while a low tone plays,
// then clears it.
func (p *Player) SignalFailure() error {
	err := p.board.Fill(FailureColor)
	if err != nil {
		return errors.Errorf("Could not show failure: %w", err)
	}

	err = p.board.PlayTone(FailureFrequency, FailureDuration)
	if err != nil {
		return errors.Errorf("Could not play failure tone: %w", err)
	}

	err = p.board.Fill(machine.Off)
	if err != nil {
		return errors.Errorf("Could not clear board: %w", err)
	}

	return nil
}
