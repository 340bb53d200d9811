// Package sim implements the archery decision process: one episode is one
// shot. Reset places a new target, Step fires an arrow and integrates it to
// a terminal state in a single call.
//
// The physics, termination, observation and reward pieces are plain
// functions; Env only sequences them and owns the episode state.
package sim

import (
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-archery/internal/config"
	"github.com/vovakirdan/tui-archery/internal/core"
)

// Phase is the lifecycle position of an episode.
type Phase int

const (
	PhaseUninitialized Phase = iota // No reset yet
	PhaseAwaitingShot               // Reset done, waiting for Step
	PhaseInFlight                   // Inside Step, integrating
	PhaseTerminal                   // Step resolved, reset required
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseAwaitingShot:
		return "awaiting-shot"
	case PhaseInFlight:
		return "in-flight"
	case PhaseTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// EpisodeState is the full mutable state of one episode.
type EpisodeState struct {
	Arrow       core.Vec2
	Velocity    core.Vec2
	Target      core.Vec2
	LaunchAngle float64 // Radians; kept for display only
	Phase       Phase
	Tick        int
}

// Info is per-call metadata returned next to observations.
type Info struct {
	Target   core.Vec2
	AngleDeg float64
	Power    float64
	Ticks    int
	Distance float64
	Outcome  Outcome
}

// StepResult is everything Step reports about a resolved shot.
type StepResult struct {
	Observation Observation
	Reward      float64
	Terminated  bool
	Truncated   bool // Always false: there is no time limit
	Hit         bool
	Info        Info
}

// Env is a single archery environment. It is not safe for concurrent use;
// run one Env per goroutine instead, each with its own seed.
type Env struct {
	cfg      config.Archery
	course   Course
	scenario Scenario
	launch   core.Vec2
	rng      *rand.Rand
	sink     Sink
	closed   bool
	state    EpisodeState
}

// Option configures an Env.
type Option func(*Env)

// WithSeed seeds the target placement stream.
func WithSeed(seed int64) Option {
	return func(e *Env) {
		e.rng = rand.New(rand.NewSource(seed))
	}
}

// WithSink attaches a sink that observes every tick.
func WithSink(s Sink) Option {
	return func(e *Env) {
		e.sink = s
	}
}

// New validates cfg and builds an environment. Without WithSeed the
// placement stream is seeded from the clock.
func New(cfg config.Archery, opts ...Option) (*Env, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Env{
		cfg:      cfg,
		course:   CourseFor(cfg),
		scenario: ScenarioFor(cfg),
		launch:   core.V(cfg.Launch.X, cfg.Launch.Y),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return e, nil
}

// Config returns the configuration the environment was built with.
func (e *Env) Config() config.Archery {
	return e.cfg
}

// TickBudget returns the maximum number of ticks one Step may integrate.
func (e *Env) TickBudget() int {
	return e.course.Budget
}

// State returns a copy of the current episode state.
func (e *Env) State() EpisodeState {
	return e.state
}

// Reset starts a new episode, drawing the target from the current stream.
func (e *Env) Reset() (Observation, Info) {
	e.state = EpisodeState{
		Arrow:  e.launch,
		Target: e.scenario.Generate(e.rng),
		Phase:  PhaseAwaitingShot,
	}
	e.emit(OutcomeNone)

	return e.observe(), Info{Target: e.state.Target}
}

// ResetWithSeed reseeds the placement stream and starts a new episode.
// The same seed always yields the same target.
func (e *Env) ResetWithSeed(seed int64) (Observation, Info) {
	e.rng = rand.New(rand.NewSource(seed))
	return e.Reset()
}

// Step fires one arrow and integrates it until it hits the target or
// leaves the world. Usage errors leave the state untouched. A flight
// that exhausts the tick budget still ends the episode.
func (e *Env) Step(a Action) (StepResult, error) {
	switch e.state.Phase {
	case PhaseUninitialized:
		return StepResult{}, ErrStepBeforeReset
	case PhaseTerminal:
		return StepResult{}, ErrEpisodeResolved
	}

	angle, power := MapAction(a, e.cfg.Shot)
	e.state.LaunchAngle = angle
	e.state.Velocity = LaunchVelocity(angle, power)
	e.state.Phase = PhaseInFlight

	flight, err := e.course.Fly(e.state.Arrow, e.state.Velocity, e.state.Target,
		func(tick int, pos, vel core.Vec2, out Outcome) {
			e.state.Arrow = pos
			e.state.Velocity = vel
			e.state.Tick = tick
			e.emit(out)
		})

	e.state.Arrow = flight.Position
	e.state.Velocity = flight.Velocity
	e.state.Tick = flight.Ticks
	e.state.Phase = PhaseTerminal
	if err != nil {
		return StepResult{}, err
	}

	hit := flight.Hit()
	return StepResult{
		Observation: e.observe(),
		Reward:      Reward(hit, flight.Distance, e.cfg.Reward),
		Terminated:  true,
		Truncated:   false,
		Hit:         hit,
		Info: Info{
			Target:   e.state.Target,
			AngleDeg: angle * 180 / math.Pi,
			Power:    power,
			Ticks:    flight.Ticks,
			Distance: flight.Distance,
			Outcome:  flight.Outcome,
		},
	}, nil
}

// Close detaches the sink, closing it if it implements io.Closer.
// Calling Close more than once is a no-op.
func (e *Env) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	sink := e.sink
	e.sink = nil
	if c, ok := sink.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (e *Env) observe() Observation {
	return Encode(e.state.Arrow, e.state.Target, e.cfg.World.Width, e.cfg.World.Height)
}

func (e *Env) emit(out Outcome) {
	if e.sink == nil {
		return
	}
	phase := e.state.Phase
	if out != OutcomeNone {
		phase = PhaseTerminal
	}
	e.sink.Frame(Snapshot{
		Tick:        e.state.Tick,
		Phase:       phase,
		Arrow:       e.state.Arrow,
		Velocity:    e.state.Velocity,
		Target:      e.state.Target,
		LaunchAngle: e.state.LaunchAngle,
		Outcome:     out,
	})
}
