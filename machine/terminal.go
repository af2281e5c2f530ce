package machine

import (
	"sync"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/go-errors/errors"
)

// Compile time check for protocol compatibility
var _ Machine = (*TerminalMachine)(nil)

const (
	// touchHold is how long a key press counts as a touch. Terminals report
	// no key release, so a press is a short touch that is consumed when read.
	touchHold = 300 * time.Millisecond

	zoneWidth  = 18
	zoneHeight = 7
)

type TerminalMachineConfig struct {
	Zones []Zone
	// OnQuit is called when the player presses Escape or Ctrl-C.
	OnQuit func()
	Logger Logger
}

// TerminalMachine draws the zones as colored blocks in a terminal and takes
// key presses as touches. Each zone is pressed with the first letter of its
// name or with its number.
type TerminalMachine struct {
	mu        sync.Mutex
	log       Logger
	screen    tcell.Screen
	speaker   *Speaker
	devices   []SignalDevice
	lit       []Color
	touchedAt []time.Time
	keys      map[rune]int
	onQuit    func()
	done      chan struct{}
	wg        sync.WaitGroup
}

type terminalZone struct {
	machine *TerminalMachine
	index   int
	zone    Zone
}

func NewTerminalMachine(config *TerminalMachineConfig) *TerminalMachine {
	m := &TerminalMachine{
		lit:       make([]Color, len(config.Zones)),
		touchedAt: make([]time.Time, len(config.Zones)),
		keys:      make(map[rune]int),
		onQuit:    config.OnQuit,
		done:      make(chan struct{}),
	}

	if config.Logger != nil {
		m.log = config.Logger
	} else {
		m.log = noopLogger{}
	}

	m.speaker = NewSpeaker(m.log)

	for i, zone := range config.Zones {
		m.devices = append(m.devices, &terminalZone{
			machine: m,
			index:   i,
			zone:    zone,
		})

		if i < 9 {
			m.keys[rune('1'+i)] = i
		}

		if zone.Name != "" {
			key := unicode.ToLower([]rune(zone.Name)[0])
			if _, taken := m.keys[key]; !taken {
				m.keys[key] = i
			}
		}
	}

	return m
}

func (m *TerminalMachine) Start() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Errorf("Could not create screen: %v", err)
	}

	err = screen.Init()
	if err != nil {
		return errors.Errorf("Could not initialize screen: %v", err)
	}

	m.screen = screen

	err = m.speaker.Start()
	if err != nil {
		screen.Fini()
		return errors.Errorf("Could not start speaker: %v", err)
	}

	m.mu.Lock()
	m.draw()
	m.mu.Unlock()

	m.wg.Add(1)
	go m.pollEvents()

	return nil
}

func (m *TerminalMachine) Stop() error {
	close(m.done)

	err := m.speaker.Stop()
	if err != nil {
		m.log.Warnf("Could not stop speaker: %v", err)
	}

	// Fini makes PollEvent return nil which ends the event loop
	m.screen.Fini()
	m.wg.Wait()

	return nil
}

func (m *TerminalMachine) Devices() []SignalDevice {
	return m.devices
}

func (m *TerminalMachine) Fill(c Color) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.lit {
		m.lit[i] = c
	}

	m.draw()

	return nil
}

func (m *TerminalMachine) PlayTone(frequency float64, duration time.Duration) error {
	return m.speaker.Play(frequency, duration)
}

func (m *TerminalMachine) pollEvents() {
	defer m.wg.Done()

	for {
		ev := m.screen.PollEvent()
		if ev == nil {
			return
		}

		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
				m.log.Infof("Quit requested from terminal")

				if m.onQuit != nil {
					m.onQuit()
				}

				continue
			}

			if ev.Key() != tcell.KeyRune {
				continue
			}

			index, ok := m.keys[unicode.ToLower(ev.Rune())]
			if !ok {
				continue
			}

			m.mu.Lock()
			m.touchedAt[index] = time.Now()
			m.mu.Unlock()

		case *tcell.EventResize:
			m.mu.Lock()
			m.screen.Sync()
			m.draw()
			m.mu.Unlock()
		}
	}
}

// draw renders all zones side by side. Callers hold m.mu.
func (m *TerminalMachine) draw() {
	if m.screen == nil {
		return
	}

	select {
	case <-m.done:
		return
	default:
	}

	m.screen.Clear()

	for i, device := range m.devices {
		zone := device.Zone()
		x0 := 2 + i*(zoneWidth+2)
		y0 := 2

		lit := m.lit[i]
		outline := tcell.StyleDefault.Foreground(toTcell(zone.Color.Scale(0.5)))
		fill := tcell.StyleDefault.Background(toTcell(lit))

		for y := 0; y < zoneHeight; y++ {
			for x := 0; x < zoneWidth; x++ {
				edge := y == 0 || y == zoneHeight-1 || x == 0 || x == zoneWidth-1

				switch {
				case lit != Off:
					m.screen.SetContent(x0+x, y0+y, ' ', nil, fill)
				case edge:
					m.screen.SetContent(x0+x, y0+y, '█', nil, outline)
				}
			}
		}

		label := []rune(zone.Name)
		if i < 9 {
			label = append([]rune{rune('1' + i), ' '}, label...)
		}

		labelStyle := tcell.StyleDefault.Foreground(toTcell(zone.Color))
		for j, r := range label {
			m.screen.SetContent(x0+1+j, y0+zoneHeight+1, r, nil, labelStyle)
		}
	}

	help := []rune("touch a zone with its number or first letter, esc quits")
	for j, r := range help {
		m.screen.SetContent(2+j, 2+zoneHeight+3, r, nil, tcell.StyleDefault)
	}

	m.screen.Show()
}

func toTcell(c Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func (z *terminalZone) Zone() Zone {
	return z.zone
}

func (z *terminalZone) SetColor(c Color) error {
	m := z.machine

	m.mu.Lock()
	defer m.mu.Unlock()

	m.lit[z.index] = c
	m.draw()

	return nil
}

func (z *terminalZone) PlayTone(frequency float64, duration time.Duration) error {
	return z.machine.speaker.Play(frequency, duration)
}

func (z *terminalZone) IsTouched() (bool, error) {
	m := z.machine

	m.mu.Lock()
	defer m.mu.Unlock()

	at := m.touchedAt[z.index]
	if at.IsZero() {
		return false, nil
	}

	m.touchedAt[z.index] = time.Time{}

	return time.Since(at) < touchHold, nil
}
