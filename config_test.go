package main

import (
	"strings"
	"testing"
	"time"

	"github.com/the-lightning-land/simond/machine"
)

func TestParseTouchPins(t *testing.T) {
	pins, err := parseTouchPins([]string{"green=GPIO5,GPIO6", "Red = GPIO26", "blue=GPIO20,"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := map[string][]string{
		"green": {"GPIO5", "GPIO6"},
		"red":   {"GPIO26"},
		"blue":  {"GPIO20"},
	}

	if len(pins) != len(want) {
		t.Fatalf("Expected %d zones, got %v", len(want), pins)
	}

	for zone, names := range want {
		got := pins[zone]
		if strings.Join(got, ",") != strings.Join(names, ",") {
			t.Errorf("Zone %s: expected %v, got %v", zone, names, got)
		}
	}
}

func TestParseTouchPinsInvalid(t *testing.T) {
	for _, entry := range []string{"green", "=GPIO5", "green="} {
		if _, err := parseTouchPins([]string{entry}); err == nil {
			t.Errorf("Expected error for %q", entry)
		}
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config
		wantErr bool
	}{
		{"defaults", config{StartCount: 4, PollInterval: 100 * time.Millisecond}, false},
		{"no start count", config{StartCount: 0, PollInterval: 100 * time.Millisecond}, true},
		{"no poll interval", config{StartCount: 4}, true},
		{"too bright", config{StartCount: 4, PollInterval: time.Millisecond, Raspberry: &raspberryConfig{Brightness: 1.5}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfig(&tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestFeedPresses turns names and numbers into presses
func TestFeedPresses(t *testing.T) {
	m := machine.NewMockMachine(machine.DefaultZones)

	feedPresses(m, strings.NewReader("green\n4\n\npurple\nBlue\n"))

	if m.Pending() != 3 {
		t.Fatalf("Expected 3 presses, got %d", m.Pending())
	}

	devices := m.Devices()
	for _, zone := range []int{0, 3, 2} {
		if touched, _ := devices[zone].IsTouched(); !touched {
			t.Errorf("Expected zone %d to be pressed next", zone)
		}
	}
}
