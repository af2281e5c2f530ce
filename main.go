package main

import (
	"bufio"
	"context"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/the-lightning-land/simond/game"
	"github.com/the-lightning-land/simond/machine"
)

var (
	// commit stores the current commit hash of this build. This should be set using -ldflags during compilation.
	Commit string
	// version stores the version string of this build. This should be set using -ldflags during compilation.
	Version string
	// date stores the date of this build. This should be set using -ldflags during compilation.
	Date string
)

// simondMain is the true entry point for simond. This is required since defers
// created in the top-level scope of a main method aren't executed if os.Exit() is called.
func simondMain() error {
	log.SetOutput(os.Stdout)
	log.SetLevel(log.InfoLevel)

	// Load CLI configuration and defaults
	cfg, err := loadConfig()
	if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
		return nil
	} else if err != nil {
		return errors.Errorf("Failed parsing arguments: %v", err)
	}

	// Set logger into debug mode if called with --debug
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
		log.Info("Setting debug mode.")
	}

	log.Debug("Loaded config.")

	// Print version of the daemon
	log.Infof("Version %s (commit %s)", Version, Commit)
	log.Infof("Built on %s", Date)

	// Stop here if only version was requested
	if cfg.ShowVersion {
		return nil
	}

	// The terminal board owns the screen, so logs go to a file instead
	if cfg.Machine == "terminal" {
		logFile, err := os.OpenFile(cfg.Terminal.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return errors.Errorf("Could not open log file %v: %v", cfg.Terminal.LogFile, err)
		}

		defer logFile.Close()

		log.SetOutput(logFile)
	}

	// Shutdown is bound once the game exists, the terminal may ask for it earlier
	quit := make(chan struct{}, 1)
	requestQuit := func() {
		select {
		case quit <- struct{}{}:
		default:
		}
	}

	// The hardware controller
	var m machine.Machine

	switch cfg.Machine {
	case "raspberry":
		touchPins, err := parseTouchPins(cfg.Raspberry.TouchPins)
		if err != nil {
			return errors.Errorf("Could not parse touch pins: %v", err)
		}

		m = machine.NewRaspberryMachine(&machine.RaspberryMachineConfig{
			Zones:      machine.DefaultZones,
			TouchPins:  touchPins,
			BuzzerPin:  cfg.Raspberry.BuzzerPin,
			SpiPort:    cfg.Raspberry.SpiPort,
			PixelCount: cfg.Raspberry.Pixels,
			Brightness: cfg.Raspberry.Brightness,
			Logger:     log.WithField("system", "machine"),
		})

		log.Infof("Created Raspberry Pi machine with touch pins %v and buzzer pin %v.",
			cfg.Raspberry.TouchPins, cfg.Raspberry.BuzzerPin)
	case "terminal":
		m = machine.NewTerminalMachine(&machine.TerminalMachineConfig{
			Zones:  machine.DefaultZones,
			OnQuit: requestQuit,
			Logger: log.WithField("system", "machine"),
		})

		log.Info("Created terminal machine.")
	case "mock":
		mock := machine.NewMockMachine(machine.DefaultZones)

		go feedPresses(mock, os.Stdin)

		m = mock

		log.Info("Created a mock machine reading touches from stdin.")
	default:
		return errors.Errorf("Unknown machine type %v", cfg.Machine)
	}

	if err := m.Start(); err != nil {
		return errors.Errorf("Could not start machine: %v", err)
	}

	defer func() {
		err := m.Stop()
		if err != nil {
			log.Errorf("Could not properly stop machine: %v", err)
		} else {
			log.Infof("Stopped machine.")
		}
	}()

	var source game.Source
	if cfg.Seed != 0 {
		source = rand.New(rand.NewSource(cfg.Seed))

		log.Infof("Using fixed seed %v.", cfg.Seed)
	}

	// central controller for everything the game does
	g, err := game.NewGame(&game.Config{
		Devices:          m.Devices(),
		Board:            m,
		StartCount:       cfg.StartCount,
		PollInterval:     cfg.PollInterval,
		FeedbackDuration: cfg.Feedback,
		Source:           source,
		Logger:           log.WithField("system", "game"),
	})
	if err != nil {
		return errors.Errorf("Could not create game: %v", err)
	}

	log.Infof("Created game.")

	// Handle interrupt signals correctly
	go func() {
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, os.Interrupt)

		select {
		case sig := <-signals:
			log.Info(sig)
		case <-quit:
		}

		log.Info("Received an interrupt, stopping game...")
		g.Shutdown()
	}()

	// blocks until the game is lost or shut down
	result, err := g.Run(context.Background())
	if errors.Is(err, game.ErrShutdown) {
		log.Infof("Game shut down after %d rounds.", result.Rounds)
		return nil
	} else if err != nil {
		return errors.Errorf("Failed running game: %v", err)
	}

	log.Infof("Game over. Won %d rounds, last sequence had %d zones.", result.Rounds, result.Length)

	// finish with no error
	return nil
}

// feedPresses reads one zone per line, by name or by number starting at 1,
// and presses it on the mock machine.
func feedPresses(m *machine.MockMachine, r io.Reader) {
	zones := make(map[string]int)
	for i, device := range m.Devices() {
		zones[strings.ToLower(device.Zone().Name)] = i
		zones[strconv.Itoa(i+1)] = i
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if line == "" {
			continue
		}

		zone, ok := zones[line]
		if !ok {
			log.Warnf("Unknown zone %q", line)
			continue
		}

		m.Press(zone)
	}

	if err := scanner.Err(); err != nil {
		log.Errorf("Could not read touches: %v", err)
	}
}

func main() {
	// Call the "real" main in a nested manner so the defers will properly
	// be executed in the case of a graceful shutdown.
	if err := simondMain(); err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
		} else {
			log.WithError(err).Println("Failed running simond.")
		}
		os.Exit(1)
	}
}
