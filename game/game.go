package game

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/go-errors/errors"
	"github.com/the-lightning-land/simond/machine"
)

const (
	DefaultStartCount       = 4
	DefaultFeedbackDuration = time.Second
)

var (
	ErrShutdown = errors.New("game was shut down")
	ErrGameOver = errors.New("game is already lost")
)

type State int

const (
	Playing State = iota
	RoundWon
	Lost
)

func (s State) String() string {
	switch s {
	case Playing:
		return "PLAYING"
	case RoundWon:
		return "ROUND_WON"
	case Lost:
		return "LOST"
	default:
		return "INVALID STATE"
	}
}

type Outcome int

const (
	OutcomeContinuing Outcome = iota
	OutcomeLost
)

func (o Outcome) String() string {
	switch o {
	case OutcomeContinuing:
		return "CONTINUING"
	case OutcomeLost:
		return "LOST"
	default:
		return "INVALID OUTCOME"
	}
}

type Config struct {
	Devices []machine.SignalDevice
	Board   Board
	// StartCount is the length of the first sequence.
	StartCount   int
	PollInterval time.Duration
	// BaseDuration is split over the steps of a replay. Defaults to
	// StartCount seconds.
	BaseDuration     time.Duration
	FeedbackDuration time.Duration
	Source           Source
	Logger           Logger
}

// Result summarizes a finished game.
type Result struct {
	Rounds int
	Length int
}

// Game owns the sequence and runs the rounds. It is driven from a single
// goroutine, only Shutdown may be called from another one.
type Game struct {
	log          Logger
	registry     *Registry
	sequence     *Sequence
	input        *InputReader
	player       *Player
	startCount   int
	base         time.Duration
	feedback     time.Duration
	state        State
	outcome      Outcome
	cursor       int
	rounds       int
	done         chan struct{}
	shutdownOnce sync.Once
}

func NewGame(config *Config) (*Game, error) {
	registry, err := NewRegistry(config.Devices)
	if err != nil {
		return nil, errors.Errorf("Could not create registry: %v", err)
	}

	if config.Board == nil {
		return nil, errors.New("game needs a board")
	}

	game := &Game{
		registry:   registry,
		startCount: config.StartCount,
		base:       config.BaseDuration,
		feedback:   config.FeedbackDuration,
		state:      Playing,
		outcome:    OutcomeContinuing,
		done:       make(chan struct{}),
	}

	if config.Logger != nil {
		game.log = config.Logger
	} else {
		game.log = noopLogger{}
	}

	if game.startCount < 1 {
		game.startCount = DefaultStartCount
	}

	if game.base <= 0 {
		game.base = time.Duration(game.startCount) * time.Second
	}

	if game.feedback <= 0 {
		game.feedback = DefaultFeedbackDuration
	}

	source := config.Source
	if source == nil {
		source = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	game.sequence = NewSequence(registry, source)
	game.input = NewInputReader(registry, config.PollInterval)
	game.player = NewPlayer(registry, config.Board, game.log)

	return game, nil
}

// Seed fills an empty sequence with the starting zones.
func (g *Game) Seed() {
	if g.sequence.Len() > 0 {
		return
	}

	g.sequence.Seed(g.startCount)

	g.log.Debugf("Seeded sequence with %d zones", g.startCount)
}

func (g *Game) Sequence() []Identity {
	return g.sequence.Identities()
}

func (g *Game) Registry() *Registry {
	return g.registry
}

func (g *Game) State() State {
	return g.state
}

func (g *Game) Outcome() Outcome {
	return g.outcome
}

// Cursor is the number of zones the player repeated correctly this round.
func (g *Game) Cursor() int {
	return g.cursor
}

// PlayRound replays the whole sequence and then checks the player's touches
// against it, one zone at a time. It returns RoundWon when every zone was
// repeated and Lost on the first wrong zone, without reading any further
// touches.
func (g *Game) PlayRound(ctx context.Context) (State, error) {
	if g.state == Lost {
		return Lost, ErrGameOver
	}

	ctx, cancel := g.context(ctx)
	defer cancel()

	g.state = Playing
	g.cursor = 0

	err := g.player.Replay(ctx, g.sequence, g.base)
	if err != nil {
		return g.state, g.wrap(err)
	}

	for g.cursor < g.sequence.Len() {
		expected := g.sequence.At(g.cursor)

		actual, err := g.input.AwaitPress(ctx)
		if err != nil {
			return g.state, g.wrap(err)
		}

		if actual != expected {
			g.log.Infof("Expected %v at step %d but got %v", g.registry.Name(expected), g.cursor+1,
				g.registry.Name(actual))

			g.state = Lost
			g.outcome = OutcomeLost

			return g.state, nil
		}

		err = g.player.Activate(actual, g.feedback)
		if err != nil {
			return g.state, g.wrap(err)
		}

		g.cursor++
	}

	g.state = RoundWon
	g.rounds++

	return g.state, nil
}

// Run plays rounds until the player loses, growing the sequence by one zone
// after each won round. A loss is not an error: the failure signal is played
// and the result returned.
func (g *Game) Run(ctx context.Context) (*Result, error) {
	g.Seed()

	g.log.Infof("Starting game with %d zones", g.sequence.Len())

	for {
		state, err := g.PlayRound(ctx)
		if err != nil {
			return g.result(), err
		}

		if state == Lost {
			break
		}

		g.sequence.Grow()

		g.log.Infof("Round %d won, sequence grows to %d", g.rounds, g.sequence.Len())
	}

	err := g.player.SignalFailure()
	if err != nil {
		return g.result(), errors.Errorf("Could not signal failure: %w", err)
	}

	result := g.result()

	g.log.Infof("Game over after %d rounds with a sequence of %d", result.Rounds, result.Length)

	return result, nil
}

// Shutdown stops a running game. A blocked PlayRound or Run returns
// ErrShutdown.
func (g *Game) Shutdown() {
	g.shutdownOnce.Do(func() {
		close(g.done)
	})
}

func (g *Game) result() *Result {
	return &Result{
		Rounds: g.rounds,
		Length: g.sequence.Len(),
	}
}

// context derives a context that is also cancelled by Shutdown.
func (g *Game) context(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	go func() {
		select {
		case <-g.done:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

func (g *Game) wrap(err error) error {
	select {
	case <-g.done:
		return ErrShutdown
	default:
	}

	return err
}
