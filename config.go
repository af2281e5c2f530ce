package main

import (
	"strings"
	"time"

	"github.com/go-errors/errors"
	"github.com/jessevdk/go-flags"
)

const (
	defaultMachine      = "terminal"
	defaultStartCount   = 4
	defaultPollInterval = 100 * time.Millisecond
)

type raspberryConfig struct {
	TouchPins  []string `long:"touchpin" description:"Touch pins of one zone as zone=pin[,pin]. Repeat for each zone." default:"green=GPIO5,GPIO6" default:"yellow=GPIO13,GPIO19" default:"blue=GPIO20,GPIO21" default:"red=GPIO26"`
	BuzzerPin  string   `long:"buzzerpin" description:"PWM capable pin of the passive buzzer" default:"GPIO18"`
	SpiPort    string   `long:"spiport" description:"SPI port of the NeoPixel ring, empty for the first one available"`
	Pixels     int      `long:"pixels" description:"Number of pixels on the ring" default:"10"`
	Brightness float64  `long:"brightness" description:"Pixel brightness between 0 and 1" default:"0.2"`
}

type terminalConfig struct {
	LogFile string `long:"logfile" description:"File to log to while the terminal is in use" default:"simond.log"`
}

type config struct {
	ShowVersion  bool             `short:"V" long:"version" description:"Display version information and exit"`
	Debug        bool             `long:"debug" description:"Start simond in debug mode" env:"SIMOND_DEBUG"`
	Machine      string           `long:"machine" description:"The board to play on" choice:"terminal" choice:"raspberry" choice:"mock" env:"SIMOND_MACHINE"`
	StartCount   int              `long:"startcount" description:"Length of the first sequence" env:"SIMOND_START_COUNT"`
	PollInterval time.Duration    `long:"pollinterval" description:"How often the touch pads are read" env:"SIMOND_POLL_INTERVAL"`
	Feedback     time.Duration    `long:"feedback" description:"How long a correctly touched zone lights up" default:"1s"`
	Seed         int64            `long:"seed" description:"Seed of the zone randomizer, 0 picks one from the clock"`
	Raspberry    *raspberryConfig `group:"Raspberry" namespace:"raspberry"`
	Terminal     *terminalConfig  `group:"Terminal" namespace:"terminal"`
}

// loadConfig parses the command line into a config, starting from defaults.
func loadConfig() (*config, error) {
	cfg := config{
		Machine:      defaultMachine,
		StartCount:   defaultStartCount,
		PollInterval: defaultPollInterval,
	}

	_, err := flags.Parse(&cfg)
	if err != nil {
		return nil, err
	}

	err = validateConfig(&cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validateConfig(cfg *config) error {
	if cfg.StartCount < 1 {
		return errors.Errorf("startcount must be at least 1, got %v", cfg.StartCount)
	}

	if cfg.PollInterval <= 0 {
		return errors.Errorf("pollinterval must be positive, got %v", cfg.PollInterval)
	}

	if cfg.Raspberry != nil && (cfg.Raspberry.Brightness < 0 || cfg.Raspberry.Brightness > 1) {
		return errors.Errorf("brightness must be between 0 and 1, got %v", cfg.Raspberry.Brightness)
	}

	return nil
}

// parseTouchPins turns zone=pin[,pin] entries into a pin list per zone.
func parseTouchPins(entries []string) (map[string][]string, error) {
	pins := make(map[string][]string)

	for _, entry := range entries {
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, errors.Errorf("Invalid touch pin entry %q, expected zone=pin[,pin]", entry)
		}

		zone := strings.ToLower(strings.TrimSpace(parts[0]))

		for _, pin := range strings.Split(parts[1], ",") {
			pin = strings.TrimSpace(pin)
			if pin == "" {
				continue
			}

			pins[zone] = append(pins[zone], pin)
		}
	}

	return pins, nil
}
