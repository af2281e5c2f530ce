package machine

import (
	"sync"
	"time"

	"github.com/go-errors/errors"
)

// Compile time check for protocol compatibility
var _ Machine = (*MockMachine)(nil)

type Op string

const (
	OpColor Op = "color"
	OpTone  Op = "tone"
	OpFill  Op = "fill"
)

// Event is one recorded output call on a MockMachine. Zone is empty for
// calls made on the board itself.
type Event struct {
	Zone      string
	Op        Op
	Color     Color
	Frequency float64
	Duration  time.Duration
}

// MockMachine is an in-memory board. Outputs are recorded instead of driven
// and tones return immediately. Touches are scripted with Press.
type MockMachine struct {
	mu      sync.Mutex
	devices []SignalDevice
	events  []Event
	presses [][]int
	faults  map[int]error
	started bool
	stopped bool
}

type mockDevice struct {
	machine *MockMachine
	index   int
	zone    Zone
}

func NewMockMachine(zones []Zone) *MockMachine {
	m := &MockMachine{
		faults: make(map[int]error),
	}

	for i, zone := range zones {
		m.devices = append(m.devices, &mockDevice{
			machine: m,
			index:   i,
			zone:    zone,
		})
	}

	return m
}

func (m *MockMachine) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.started = true

	return nil
}

func (m *MockMachine) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopped = true

	return nil
}

func (m *MockMachine) Devices() []SignalDevice {
	return m.devices
}

func (m *MockMachine) Fill(c Color) error {
	m.record(Event{Op: OpFill, Color: c})
	return nil
}

func (m *MockMachine) PlayTone(frequency float64, duration time.Duration) error {
	m.record(Event{Op: OpTone, Frequency: frequency, Duration: duration})
	return nil
}

// Press queues a set of zones that are touched together during one poll.
// The set is consumed by the first of its zones that is polled.
func (m *MockMachine) Press(zones ...int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.presses = append(m.presses, zones)
}

// Pending returns the number of queued presses not yet consumed.
func (m *MockMachine) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.presses)
}

// Fail makes every call on zone return err wrapped in ErrDeviceUnavailable.
func (m *MockMachine) Fail(zone int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.faults[zone] = err
}

func (m *MockMachine) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	events := make([]Event, len(m.events))
	copy(events, m.events)

	return events
}

func (m *MockMachine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = nil
}

func (m *MockMachine) Started() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.started
}

func (m *MockMachine) Stopped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.stopped
}

func (m *MockMachine) record(e Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = append(m.events, e)
}

func (m *MockMachine) fault(index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err, ok := m.faults[index]
	if !ok {
		return nil
	}

	return errors.Errorf("zone %s: %v: %w", m.devices[index].Zone().Name, err, ErrDeviceUnavailable)
}

func (d *mockDevice) Zone() Zone {
	return d.zone
}

func (d *mockDevice) SetColor(c Color) error {
	if err := d.machine.fault(d.index); err != nil {
		return err
	}

	d.machine.record(Event{Zone: d.zone.Name, Op: OpColor, Color: c})

	return nil
}

func (d *mockDevice) PlayTone(frequency float64, duration time.Duration) error {
	if err := d.machine.fault(d.index); err != nil {
		return err
	}

	d.machine.record(Event{Zone: d.zone.Name, Op: OpTone, Frequency: frequency, Duration: duration})

	return nil
}

func (d *mockDevice) IsTouched() (bool, error) {
	if err := d.machine.fault(d.index); err != nil {
		return false, err
	}

	m := d.machine

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.presses) == 0 {
		return false, nil
	}

	for _, zone := range m.presses[0] {
		if zone == d.index {
			m.presses = m.presses[1:]
			return true, nil
		}
	}

	return false, nil
}
