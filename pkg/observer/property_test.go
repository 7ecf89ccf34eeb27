package observer

import (
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/agbru/tickwatch/internal/testutil"
)

// tickStep is one randomized advance of the simulated loop: a tick
// increment and the simulated time it took.
type tickStep struct {
	Ticks   uint64
	Elapsed time.Duration
}

// genTickSteps produces random tick/elapsed sequences, including
// zero-tick and zero-elapsed steps to exercise the edge branches.
func genTickSteps() gopter.Gen {
	step := gen.Struct(reflect.TypeOf(tickStep{}), map[string]gopter.Gen{
		"Ticks": gen.UInt64Range(0, 2000),
		"Elapsed": gen.Int64Range(0, int64(5*time.Second)).Map(func(n int64) time.Duration {
			return time.Duration(n)
		}),
	})
	return gen.SliceOfN(200, step)
}

// TestEstimatorInvariants_PropertyBased verifies the structural
// invariants of the checkpoint estimator under arbitrary tick and
// timing sequences:
//
//   - the checkpoint size never drops below 1,
//   - the checkpoint size never exceeds the configured ceiling,
//   - a single adjustment never grows the size beyond the previous
//     size times the scale factor,
//   - the next checkpoint is non-decreasing and each increase equals
//     the size computed at that step.
func TestEstimatorInvariants_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	const (
		target  = 100 * time.Millisecond
		ceiling = 64
		factor  = 2.0
	)

	properties.Property("estimator invariants hold for any tick sequence", prop.ForAll(
		func(steps []tickStep) bool {
			clock := testutil.NewManualClock()
			obs, err := New(target, Options{
				MaxCheckpointSize: ceiling,
				MaxScaleFactor:    factor,
				Clock:             clock,
			})
			if err != nil {
				t.Logf("unexpected construction error: %v", err)
				return false
			}

			prev := obs.Stats()
			for _, step := range steps {
				clock.Advance(step.Elapsed)
				fired := obs.TickN(step.Ticks)
				stats := obs.Stats()

				if stats.CheckpointSize < 1 {
					t.Logf("checkpoint size %d below floor", stats.CheckpointSize)
					return false
				}
				if stats.CheckpointSize > ceiling {
					t.Logf("checkpoint size %d above ceiling %d", stats.CheckpointSize, ceiling)
					return false
				}
				if stats.NextCheckpoint < prev.NextCheckpoint {
					t.Logf("next checkpoint decreased: %d -> %d", prev.NextCheckpoint, stats.NextCheckpoint)
					return false
				}
				if fired {
					if float64(stats.CheckpointSize) > float64(prev.CheckpointSize)*factor {
						t.Logf("growth %d -> %d exceeds factor %g", prev.CheckpointSize, stats.CheckpointSize, factor)
						return false
					}
					if stats.NextCheckpoint-prev.NextCheckpoint != stats.CheckpointSize {
						t.Logf("checkpoint step %d != size %d", stats.NextCheckpoint-prev.NextCheckpoint, stats.CheckpointSize)
						return false
					}
				} else if stats.NextCheckpoint != prev.NextCheckpoint {
					t.Logf("next checkpoint moved without a report: %d -> %d", prev.NextCheckpoint, stats.NextCheckpoint)
					return false
				}
				prev = stats
			}
			return true
		},
		genTickSteps(),
	))

	properties.TestingRun(t)
}

// TestFinishedMonotone_PropertyBased verifies the finished flag is
// sticky: once the run-for cutoff latches, no subsequent tick sequence
// can clear it.
func TestFinishedMonotone_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("finished flag never resets", prop.ForAll(
		func(steps []tickStep) bool {
			clock := testutil.NewManualClock()
			obs, err := New(50*time.Millisecond, Options{
				RunFor: 200 * time.Millisecond,
				Clock:  clock,
			})
			if err != nil {
				t.Logf("unexpected construction error: %v", err)
				return false
			}

			wasFinished := false
			for _, step := range steps {
				clock.Advance(step.Elapsed)
				obs.TickN(step.Ticks)
				if wasFinished && !obs.Finished() {
					return false
				}
				wasFinished = obs.Finished()
			}
			return true
		},
		genTickSteps(),
	))

	properties.TestingRun(t)
}
