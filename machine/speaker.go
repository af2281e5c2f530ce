package machine

import (
	"sync"
	"time"

	"github.com/go-errors/errors"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Speaker plays sine tones on the default sound card. Without a sound card it
// stays silent and only waits out each tone.
type Speaker struct {
	mu     sync.Mutex
	log    Logger
	silent bool
}

func NewSpeaker(log Logger) *Speaker {
	if log == nil {
		log = noopLogger{}
	}

	return &Speaker{log: log}
}

func (s *Speaker) Start() error {
	err := speaker.Init(sampleRate, sampleRate.N(time.Second/10))
	if err != nil {
		// Non-fatal, the game can run without sound
		s.log.Warnf("Could not initialize speaker, tones will be silent: %v", err)
		s.silent = true
	}

	return nil
}

func (s *Speaker) Stop() error {
	if s.silent {
		return nil
	}

	speaker.Clear()

	return nil
}

// Play sounds frequency for duration and returns once it has finished.
func (s *Speaker) Play(frequency float64, duration time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.silent || duration <= 0 {
		time.Sleep(duration)
		return nil
	}

	tone, err := generators.SineTone(sampleRate, frequency)
	if err != nil {
		return errors.Errorf("Could not generate %v Hz tone: %v", frequency, err)
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(beep.Take(sampleRate.N(duration), tone), beep.Callback(func() {
		close(done)
	})))

	<-done

	return nil
}
