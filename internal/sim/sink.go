package sim

import "github.com/vovakirdan/tui-archery/internal/core"

// Snapshot is a read-only copy of the episode state handed to a Sink.
type Snapshot struct {
	Tick        int
	Phase       Phase
	Arrow       core.Vec2
	Velocity    core.Vec2
	Target      core.Vec2
	LaunchAngle float64
	Outcome     Outcome
}

// Sink receives one snapshot on reset and one per flight tick.
// A sink must not block on wall-clock pacing; it can never alter the
// simulation. If it also implements io.Closer, Env.Close closes it.
type Sink interface {
	Frame(s Snapshot)
}

// Recorder is a Sink that keeps every snapshot it receives.
type Recorder struct {
	frames []Snapshot
}

// Frame implements Sink.
func (r *Recorder) Frame(s Snapshot) {
	r.frames = append(r.frames, s)
}

// Frames returns the recorded snapshots.
func (r *Recorder) Frames() []Snapshot {
	return r.frames
}

// Drain returns the recorded snapshots and forgets them.
func (r *Recorder) Drain() []Snapshot {
	out := r.frames
	r.frames = nil
	return out
}
