package machine

import (
	"sync"
	"time"

	"github.com/go-errors/errors"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/conn/spi"
	"periph.io/x/periph/conn/spi/spireg"
	"periph.io/x/periph/devices/nrzled"
	"periph.io/x/periph/host"
)

// Compile time check for protocol compatibility
var _ Machine = (*RaspberryMachine)(nil)

type RaspberryMachineConfig struct {
	Zones []Zone
	// TouchPins maps a zone name to the GPIO pins of its touch pads.
	TouchPins map[string][]string
	BuzzerPin string
	// SpiPort names the SPI port the NeoPixel ring is wired to.
	SpiPort    string
	PixelCount int
	Brightness float64
	Logger     Logger
}

// RaspberryMachine drives a NeoPixel ring over SPI, a passive buzzer through
// hardware PWM and reads capacitive touch pads from GPIO pins.
type RaspberryMachine struct {
	mu         sync.Mutex
	log        Logger
	config     *RaspberryMachineConfig
	port       spi.PortCloser
	strip      *nrzled.Dev
	pixels     []byte
	buzzer     gpio.PinIO
	devices    []SignalDevice
	zones      []*raspberryZone
	brightness float64
}

type raspberryZone struct {
	machine *RaspberryMachine
	zone    Zone
	pads    []gpio.PinIO
}

func NewRaspberryMachine(config *RaspberryMachineConfig) *RaspberryMachine {
	m := &RaspberryMachine{
		config:     config,
		pixels:     make([]byte, config.PixelCount*3),
		brightness: config.Brightness,
	}

	if config.Logger != nil {
		m.log = config.Logger
	} else {
		m.log = noopLogger{}
	}

	for _, zone := range config.Zones {
		z := &raspberryZone{machine: m, zone: zone}
		m.zones = append(m.zones, z)
		m.devices = append(m.devices, z)
	}

	return m
}

func (m *RaspberryMachine) Start() error {
	_, err := host.Init()
	if err != nil {
		return errors.Errorf("Could not initialize periph host: %v: %w", err, ErrDeviceUnavailable)
	}

	for _, z := range m.zones {
		names := m.config.TouchPins[z.zone.Name]
		if len(names) == 0 {
			return errors.Errorf("No touch pins configured for zone %v", z.zone.Name)
		}

		for _, name := range names {
			pin := gpioreg.ByName(name)
			if pin == nil {
				return errors.Errorf("Touch pin %v of zone %v not found: %w", name, z.zone.Name, ErrDeviceUnavailable)
			}

			err := pin.In(gpio.PullDown, gpio.NoEdge)
			if err != nil {
				return errors.Errorf("Could not set up touch pin %v: %v: %w", name, err, ErrDeviceUnavailable)
			}

			z.pads = append(z.pads, pin)
		}

		m.log.Debugf("Zone %v reads touch pins %v", z.zone.Name, names)
	}

	m.buzzer = gpioreg.ByName(m.config.BuzzerPin)
	if m.buzzer == nil {
		return errors.Errorf("Buzzer pin %v not found: %w", m.config.BuzzerPin, ErrDeviceUnavailable)
	}

	err = m.buzzer.Out(gpio.Low)
	if err != nil {
		return errors.Errorf("Could not set up buzzer pin %v: %v: %w", m.config.BuzzerPin, err, ErrDeviceUnavailable)
	}

	m.port, err = spireg.Open(m.config.SpiPort)
	if err != nil {
		return errors.Errorf("Could not open SPI port %v: %v: %w", m.config.SpiPort, err, ErrDeviceUnavailable)
	}

	opts := nrzled.DefaultOpts
	opts.NumPixels = m.config.PixelCount
	opts.Channels = 3

	m.strip, err = nrzled.NewSPI(m.port, &opts)
	if err != nil {
		m.port.Close()
		return errors.Errorf("Could not open pixel ring: %v: %w", err, ErrDeviceUnavailable)
	}

	return m.Fill(Off)
}

func (m *RaspberryMachine) Stop() error {
	err := m.Fill(Off)
	if err != nil {
		m.log.Warnf("Could not clear pixel ring: %v", err)
	}

	if m.buzzer != nil {
		err := m.buzzer.Out(gpio.Low)
		if err != nil {
			m.log.Warnf("Could not silence buzzer: %v", err)
		}
	}

	if m.strip != nil {
		err := m.strip.Halt()
		if err != nil {
			m.log.Warnf("Could not halt pixel ring: %v", err)
		}
	}

	if m.port != nil {
		err := m.port.Close()
		if err != nil {
			return errors.Errorf("Could not close SPI port: %v", err)
		}
	}

	return nil
}

func (m *RaspberryMachine) Devices() []SignalDevice {
	return m.devices
}

func (m *RaspberryMachine) Fill(c Color) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := 0; i < len(m.pixels)/3; i++ {
		m.setPixel(i, c)
	}

	return m.flush()
}

func (m *RaspberryMachine) PlayTone(frequency float64, duration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.buzzer.PWM(gpio.DutyHalf, physic.Frequency(frequency*float64(physic.Hertz)))
	if err != nil {
		return errors.Errorf("Could not sound buzzer: %v: %w", err, ErrDeviceUnavailable)
	}

	time.Sleep(duration)

	err = m.buzzer.Out(gpio.Low)
	if err != nil {
		return errors.Errorf("Could not silence buzzer: %v: %w", err, ErrDeviceUnavailable)
	}

	return nil
}

// setPixel writes c into the frame buffer. Callers hold m.mu.
func (m *RaspberryMachine) setPixel(index int, c Color) {
	if index < 0 || index*3+2 >= len(m.pixels) {
		return
	}

	c = c.Scale(m.brightness)

	m.pixels[index*3] = c.R
	m.pixels[index*3+1] = c.G
	m.pixels[index*3+2] = c.B
}

// flush sends the frame buffer to the ring. Callers hold m.mu.
func (m *RaspberryMachine) flush() error {
	if m.strip == nil {
		return nil
	}

	_, err := m.strip.Write(m.pixels)
	if err != nil {
		return errors.Errorf("Could not write pixel ring: %v: %w", err, ErrDeviceUnavailable)
	}

	return nil
}

func (z *raspberryZone) Zone() Zone {
	return z.zone
}

func (z *raspberryZone) SetColor(c Color) error {
	m := z.machine

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, pixel := range z.zone.Pixels {
		m.setPixel(pixel, c)
	}

	return m.flush()
}

func (z *raspberryZone) PlayTone(frequency float64, duration time.Duration) error {
	return z.machine.PlayTone(frequency, duration)
}

func (z *raspberryZone) IsTouched() (bool, error) {
	for _, pad := range z.pads {
		if pad.Read() == gpio.High {
			return true, nil
		}
	}

	return false, nil
}
