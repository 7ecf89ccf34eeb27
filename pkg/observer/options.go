package observer

import (
	"time"

	"github.com/rs/zerolog"
)

// Default option values applied by New when the corresponding Options
// field is left at its zero value.
const (
	// DefaultFirstCheckpoint is the initial checkpoint size. One tick is
	// sufficient for almost any workload: the estimate converges within
	// the first few reports.
	DefaultFirstCheckpoint = 1
	// DefaultMaxScaleFactor bounds how much the checkpoint size may grow
	// in a single adjustment. A single anomalously fast window (cache
	// effects, a first-iteration fluke) could otherwise balloon the
	// estimate and starve reports for a long stretch.
	DefaultMaxScaleFactor = 2.0
)

// Options configures an Observer. The zero value selects the defaults
// for every field; optional limits use 0 to mean "absent".
type Options struct {
	// FirstCheckpoint is the initial checkpoint size in ticks.
	// Set it only when you have a strong estimate of how many iterations
	// fit in one target interval and the first couple of reports matter.
	// Default: 1.
	FirstCheckpoint uint64

	// MaxCheckpointSize is a hard ceiling on the checkpoint size,
	// guaranteeing an upper bound on ticks between reports regardless of
	// how the estimate has ramped. 0 means unbounded.
	MaxCheckpointSize uint64

	// Delay is the number of ticks to absorb silently before timing
	// begins. Useful to keep warm-up iterations out of the first
	// measured window. Default: 0.
	Delay uint64

	// MaxScaleFactor is the upper bound on per-adjustment growth of the
	// checkpoint size. Must be >= 1.0; values below 1.0 are rejected by
	// New. Default: 2.0.
	MaxScaleFactor float64

	// RunFor marks the observer finished once this much time has elapsed
	// since timing began. The cutoff is checked only at checkpoint
	// boundaries, so it is best-effort, not a hard deadline. 0 means no
	// cutoff.
	RunFor time.Duration

	// Clock supplies monotonic "now" readings. Default: the system clock.
	Clock Clock

	// Logger, when set, receives a debug event for every checkpoint
	// adjustment. Default: no logging.
	Logger *zerolog.Logger
}

// withDefaults fills in zero-valued fields and validates the bundle.
//
// Returns:
//   - Options: The bundle with defaults applied.
//   - error: A ConfigError if MaxScaleFactor is set below 1.0.
func (opts Options) withDefaults() (Options, error) {
	if opts.MaxScaleFactor == 0 {
		opts.MaxScaleFactor = DefaultMaxScaleFactor
	}
	if opts.MaxScaleFactor < 1.0 {
		return opts, NewConfigError("max scale factor must be >= 1.0, got %g", opts.MaxScaleFactor)
	}
	if opts.FirstCheckpoint == 0 {
		opts.FirstCheckpoint = DefaultFirstCheckpoint
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}
	return opts, nil
}
