package game

import (
	"testing"
	"time"

	"github.com/the-lightning-land/simond/machine"
)

const testFeedback = 500 * time.Millisecond

// fixedSource returns its values in order and starts over when exhausted.
type fixedSource struct {
	values []int
	next   int
}

func (s *fixedSource) Intn(n int) int {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v % n
}

func newTestGame(t *testing.T, values ...int) (*Game, *machine.MockMachine) {
	t.Helper()

	m := machine.NewMockMachine(machine.DefaultZones)

	g, err := NewGame(&Config{
		Devices:          m.Devices(),
		Board:            m,
		StartCount:       4,
		PollInterval:     time.Millisecond,
		FeedbackDuration: testFeedback,
		Source:           &fixedSource{values: values},
	})
	if err != nil {
		t.Fatalf("Failed to create game: %v", err)
	}

	return g, m
}

func pressAll(m *machine.MockMachine, ids ...Identity) {
	for _, id := range ids {
		m.Press(int(id))
	}
}

func countEvents(events []machine.Event, match func(machine.Event) bool) int {
	n := 0
	for _, e := range events {
		if match(e) {
			n++
		}
	}
	return n
}

func isFailureFill(e machine.Event) bool {
	return e.Op == machine.OpFill && e.Color == FailureColor
}

func isFailureTone(e machine.Event) bool {
	return e.Op == machine.OpTone && e.Zone == "" && e.Frequency == FailureFrequency
}
