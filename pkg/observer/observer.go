// Package observer provides an adaptive progress-reporting throttle for
// long-running, synchronous, single-threaded computations.
//
// Instead of reading the system clock on every iteration, an Observer
// estimates how many iterations ("ticks") span one target reporting
// interval and only consults the clock when that checkpoint is crossed.
// After each report it recomputes the estimate from the observed elapsed
// time, so the tick cost in steady state is a single integer comparison,
// with exactly one clock read per report regardless of report frequency.
//
// The Observer is owned exclusively by the loop that drives it. It is not
// safe for concurrent use; callers with multiple tick sources must funnel
// ticks through a single coordinating owner.
package observer

import (
	"iter"
	"math"
	"time"
)

// uint64Cap bounds the float-to-integer narrowing of a checkpoint
// estimate. Repeated zero-elapsed windows grow the estimate
// geometrically, and an unclamped conversion past MaxUint64 would wrap.
const uint64Cap = float64(1 << 62)

// Observer throttles progress reports to a target wall-clock interval.
// It is a small state machine advanced exclusively by caller-driven
// tick events; it never spawns work, blocks, or wakes up on its own.
type Observer struct {
	target           time.Duration
	checkpointSize   uint64
	maxCheckpoint    uint64 // 0 means unbounded
	maxScaleFactor   float64
	delayRemaining   uint64
	ticks            uint64
	nextCheckpoint   uint64
	lastObservation  time.Time
	firstObservation time.Time
	runFor           time.Duration // 0 means no cutoff
	finished         bool

	clock  Clock
	logger logger
}

// Stats is a point-in-time snapshot of an Observer's bookkeeping,
// suitable for feeding report sinks and diagnostics.
type Stats struct {
	// Ticks is the cumulative tick count observed since timing began
	// (warm-up ticks are not counted).
	Ticks uint64
	// CheckpointSize is the current estimate of ticks per target interval.
	CheckpointSize uint64
	// NextCheckpoint is the tick count at which the next clock read occurs.
	NextCheckpoint uint64
	// Finished reports whether the run-for cutoff has latched.
	Finished bool
}

// New creates an Observer that aims to report once per target interval.
//
// The zero value of Options selects the defaults (see Options). New
// captures the current clock time as the first observation, so the
// first checkpoint window is measured from construction unless a
// warm-up Delay is configured.
//
// Parameters:
//   - target: The desired wall-clock spacing between reports.
//   - opts: The options bundle; the zero value is valid.
//
// Returns:
//   - *Observer: The configured observer.
//   - error: A ConfigError if opts.MaxScaleFactor is set below 1.0.
func New(target time.Duration, opts Options) (*Observer, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	now := opts.Clock.Now()
	return &Observer{
		target:           target,
		checkpointSize:   opts.FirstCheckpoint,
		maxCheckpoint:    opts.MaxCheckpointSize,
		maxScaleFactor:   opts.MaxScaleFactor,
		delayRemaining:   opts.Delay,
		nextCheckpoint:   opts.FirstCheckpoint,
		lastObservation:  now,
		firstObservation: now,
		runFor:           opts.RunFor,
		clock:            opts.Clock,
		logger:           newLogger(opts.Logger),
	}, nil
}

// TickN advances the observer by n iterations at once and reports
// whether a progress report is due now.
//
// While a warm-up delay is pending, ticks are absorbed silently; the
// call that exhausts the delay re-stamps the timing baseline and any
// remainder of n participates in the first measured window. When the
// cumulative tick count crosses the current checkpoint, the clock is
// read once, the checkpoint size is re-estimated from the ratio of
// observed to target elapsed time, and TickN returns true.
//
// TickN keeps functioning after the run-for cutoff latches; only the
// sequence form (Next, Seq) treats a finished observer as exhausted.
//
// Parameters:
//   - n: The tick increment. n = 0 is a no-op returning false.
//
// Returns:
//   - bool: true if a report is due on this call.
func (o *Observer) TickN(n uint64) bool {
	if o.delayRemaining > 0 {
		absorbed := min(n, o.delayRemaining)
		o.delayRemaining -= absorbed
		n -= absorbed
		if o.delayRemaining > 0 {
			return false
		}
		// Warm-up complete: timing starts now.
		now := o.clock.Now()
		o.lastObservation = now
		o.firstObservation = now
	}

	o.ticks += n
	if o.ticks < o.nextCheckpoint {
		return false
	}

	now := o.clock.Now()
	if o.runFor > 0 && now.Sub(o.firstObservation) > o.runFor {
		// The cutoff takes effect for future calls; this report still fires.
		o.finished = true
	}

	elapsed := now.Sub(o.lastObservation)
	o.checkpointSize = o.nextSize(elapsed)
	o.nextCheckpoint += o.checkpointSize
	o.lastObservation = now
	return true
}

// Tick advances the observer by one iteration.
//
// Returns:
//   - bool: true if a report is due on this call.
func (o *Observer) Tick() bool {
	return o.TickN(1)
}

// nextSize derives the checkpoint size for the next window from the
// elapsed time of the one just closed.
func (o *Observer) nextSize(elapsed time.Duration) uint64 {
	prev := o.checkpointSize
	ceiling := math.Min(float64(prev)*o.maxScaleFactor, uint64Cap)

	var raw float64
	if elapsed <= 0 {
		// Clock resolution coarser than the window. Treat as "grow by
		// the scale-factor ceiling" rather than dividing by zero.
		raw = ceiling
	} else {
		ratio := float64(elapsed) / float64(o.target)
		raw = float64(prev) / ratio
	}

	size := uint64(math.Min(raw, ceiling))
	if size < 1 {
		size = 1
	}
	if o.maxCheckpoint > 0 && size > o.maxCheckpoint {
		size = o.maxCheckpoint
	}

	o.logger.adjustment(o.ticks, elapsed, o.target, prev, size)
	return size
}

// Next drives the observer as a sequence of report decisions.
//
// Each call performs Tick and yields its result, except that once the
// run-for cutoff has latched the sequence is exhausted: Next returns
// ok = false and does not advance state. Without a RunFor cutoff the
// sequence is infinite.
//
// Returns:
//   - fire: true if a report is due on this element.
//   - ok: false once the observer is finished (sequence exhausted).
func (o *Observer) Next() (fire, ok bool) {
	if o.finished {
		return false, false
	}
	return o.Tick(), true
}

// Seq returns the observer as a single-use iterator over report
// decisions, one element per tick. The iterator stops after the
// run-for cutoff latches; without one it never stops on its own, so
// bound it from the loop (e.g. break on a work counter).
//
// Returns:
//   - iter.Seq[bool]: One "report due" decision per tick.
func (o *Observer) Seq() iter.Seq[bool] {
	return func(yield func(bool) bool) {
		for {
			fire, ok := o.Next()
			if !ok || !yield(fire) {
				return
			}
		}
	}
}

// Finished reports whether the run-for cutoff has latched. The cutoff
// is evaluated lazily at checkpoint boundaries, so with a large
// checkpoint size the loop can run past RunFor before Finished turns
// true; it is a best-effort bound, not a hard deadline. Once true it
// stays true.
//
// Returns:
//   - bool: true if the observer is finished.
func (o *Observer) Finished() bool {
	return o.finished
}

// Stats returns a snapshot of the observer's current bookkeeping.
//
// Returns:
//   - Stats: The current tick count, checkpoint estimate, next
//     checkpoint, and finished flag.
func (o *Observer) Stats() Stats {
	return Stats{
		Ticks:          o.ticks,
		CheckpointSize: o.checkpointSize,
		NextCheckpoint: o.nextCheckpoint,
		Finished:       o.finished,
	}
}
