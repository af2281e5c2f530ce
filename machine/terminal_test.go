package machine

import (
	"testing"
	"time"
)

// TestTerminalKeys maps numbers and first letters to zones
func TestTerminalKeys(t *testing.T) {
	m := NewTerminalMachine(&TerminalMachineConfig{Zones: DefaultZones})

	tests := []struct {
		key  rune
		zone int
	}{
		{'1', 0},
		{'g', 0},
		{'2', 1},
		{'y', 1},
		{'3', 2},
		{'b', 2},
		{'4', 3},
		{'r', 3},
	}

	for _, tt := range tests {
		zone, ok := m.keys[tt.key]
		if !ok || zone != tt.zone {
			t.Errorf("Key %q: expected zone %d, got %d (%v)", tt.key, tt.zone, zone, ok)
		}
	}
}

// TestTerminalKeysSharedLetter keeps the first zone on a shared letter
func TestTerminalKeysSharedLetter(t *testing.T) {
	zones := []Zone{
		{Name: "green", Color: Green},
		{Name: "gold", Color: Yellow},
	}
	m := NewTerminalMachine(&TerminalMachineConfig{Zones: zones})

	if zone := m.keys['g']; zone != 0 {
		t.Errorf("Expected g on zone 0, got %d", zone)
	}
	if zone := m.keys['2']; zone != 1 {
		t.Errorf("Expected 2 on zone 1, got %d", zone)
	}
}

// TestTerminalTouchHold reports a fresh key press once
func TestTerminalTouchHold(t *testing.T) {
	m := NewTerminalMachine(&TerminalMachineConfig{Zones: DefaultZones})
	device := m.Devices()[1]

	if touched, _ := device.IsTouched(); touched {
		t.Error("Expected no touch before a key press")
	}

	m.touchedAt[1] = time.Now()

	if touched, _ := device.IsTouched(); !touched {
		t.Error("Expected touch after a key press")
	}
	if touched, _ := device.IsTouched(); touched {
		t.Error("Expected the key press to be consumed")
	}

	m.touchedAt[1] = time.Now().Add(-2 * touchHold)

	if touched, _ := device.IsTouched(); touched {
		t.Error("Expected a stale key press to be ignored")
	}
}

// TestTerminalSetColorWithoutScreen tracks lit zones before Start
func TestTerminalSetColorWithoutScreen(t *testing.T) {
	m := NewTerminalMachine(&TerminalMachineConfig{Zones: DefaultZones})

	if err := m.Devices()[2].SetColor(Blue); err != nil {
		t.Fatal(err)
	}
	if m.lit[2] != Blue {
		t.Errorf("Expected zone 2 lit blue, got %v", m.lit[2])
	}

	if err := m.Fill(Red); err != nil {
		t.Fatal(err)
	}
	for i, c := range m.lit {
		if c != Red {
			t.Errorf("Zone %d: expected red, got %v", i, c)
		}
	}
}
