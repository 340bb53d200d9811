package sim

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-archery/internal/config"
)

// ErrUsage is wrapped by errors caused by calling the environment out of order.
// They never change episode state.
var ErrUsage = errors.New("sim: usage error")

var (
	// ErrStepBeforeReset is returned by Step before the first Reset.
	ErrStepBeforeReset = fmt.Errorf("%w: step called before reset", ErrUsage)

	// ErrEpisodeResolved is returned by Step when the episode already ended.
	ErrEpisodeResolved = fmt.Errorf("%w: step called on a resolved episode, reset first", ErrUsage)
)

// ErrTickBudgetExceeded is returned when a flight does not reach a terminal
// state within the tick budget. It also matches config.ErrInvalid since only
// a misconfigured world (or a non-finite action) can get there.
var ErrTickBudgetExceeded = fmt.Errorf("%w: flight exceeded tick budget", config.ErrInvalid)
