package machine

import (
	"errors"
	"testing"
	"time"
)

// TestMockPressConsumedOnce reports a press to a single poll only
func TestMockPressConsumedOnce(t *testing.T) {
	m := NewMockMachine(DefaultZones)
	devices := m.Devices()

	m.Press(2)

	touched, err := devices[2].IsTouched()
	if err != nil || !touched {
		t.Fatalf("Expected zone 2 touched, got %v, %v", touched, err)
	}

	touched, _ = devices[2].IsTouched()
	if touched {
		t.Error("Expected press to be consumed")
	}
}

// TestMockPressOtherZones ignores zones not in the current press
func TestMockPressOtherZones(t *testing.T) {
	m := NewMockMachine(DefaultZones)
	devices := m.Devices()

	m.Press(1)
	m.Press(0)

	if touched, _ := devices[0].IsTouched(); touched {
		t.Error("Zone 0 must wait for the press of zone 1")
	}
	if touched, _ := devices[1].IsTouched(); !touched {
		t.Error("Expected zone 1 touched")
	}
	if touched, _ := devices[0].IsTouched(); !touched {
		t.Error("Expected zone 0 touched")
	}
	if m.Pending() != 0 {
		t.Errorf("Expected no pending presses, got %d", m.Pending())
	}
}

func TestMockRecordsEvents(t *testing.T) {
	m := NewMockMachine(DefaultZones)
	red := m.Devices()[3]

	if err := red.SetColor(Red); err != nil {
		t.Fatal(err)
	}
	if err := red.PlayTone(349.23, time.Second); err != nil {
		t.Fatal(err)
	}
	if err := m.Fill(Off); err != nil {
		t.Fatal(err)
	}

	want := []Event{
		{Zone: "red", Op: OpColor, Color: Red},
		{Zone: "red", Op: OpTone, Frequency: 349.23, Duration: time.Second},
		{Op: OpFill, Color: Off},
	}

	got := m.Events()
	if len(got) != len(want) {
		t.Fatalf("Expected %d events, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Event %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}

	m.Reset()
	if len(m.Events()) != 0 {
		t.Error("Expected no events after reset")
	}
}

// TestMockFault wraps injected errors as unavailable devices
func TestMockFault(t *testing.T) {
	m := NewMockMachine(DefaultZones)
	m.Fail(1, errors.New("loose wire"))

	_, err := m.Devices()[1].IsTouched()
	if !errors.Is(err, ErrDeviceUnavailable) {
		t.Errorf("Expected ErrDeviceUnavailable, got %v", err)
	}

	if err := m.Devices()[1].SetColor(Yellow); !errors.Is(err, ErrDeviceUnavailable) {
		t.Errorf("Expected ErrDeviceUnavailable, got %v", err)
	}

	if _, err := m.Devices()[0].IsTouched(); err != nil {
		t.Errorf("Zone 0 should still work, got %v", err)
	}
}

func TestMockStartStop(t *testing.T) {
	m := NewMockMachine(DefaultZones)

	if err := m.Start(); err != nil {
		t.Fatal(err)
	}
	if err := m.Stop(); err != nil {
		t.Fatal(err)
	}

	if !m.Started() || !m.Stopped() {
		t.Error("Expected machine started and stopped")
	}
}
