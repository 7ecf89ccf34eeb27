// Command tickwatch-demo estimates pi by Monte Carlo sampling while
// throttling its progress output through a tickwatch Observer. It
// demonstrates the three rendering modes: an in-place reprinted line
// (default), a spinner with a live suffix (-spin), and a parallel mode
// (-workers > 1) where each worker owns its own observer and report
// lines are funneled through a single printing owner.
package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/tickwatch/pkg/observer"
	"github.com/agbru/tickwatch/pkg/reprint"
)

func main() {
	interval := flag.Duration("interval", 500*time.Millisecond, "target wall-clock spacing between reports")
	samples := flag.Uint64("n", 200_000_000, "total Monte Carlo samples")
	delay := flag.Uint64("delay", 0, "warm-up ticks absorbed before timing begins")
	maxCheckpoint := flag.Uint64("max-checkpoint", 0, "hard ceiling on ticks between reports (0 = unbounded)")
	runFor := flag.Duration("run-for", 0, "stop reporting after this much time (0 = none)")
	workers := flag.Int("workers", 1, "number of parallel estimation workers")
	spin := flag.Bool("spin", false, "render reports as a spinner suffix instead of a reprinted line")
	verbose := flag.Bool("v", false, "log every checkpoint adjustment")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger().Level(zerolog.InfoLevel)
	if *verbose {
		logger = logger.Level(zerolog.DebugLevel)
	}

	opts := observer.Options{
		Delay:             *delay,
		MaxCheckpointSize: *maxCheckpoint,
		RunFor:            *runFor,
		Logger:            &logger,
	}

	start := time.Now()
	var err error
	if *workers > 1 {
		err = runParallel(logger, *interval, opts, *samples, *workers)
	} else {
		err = runSingle(logger, *interval, opts, *samples, *spin)
	}
	if err != nil {
		logger.Error().Err(err).Msg("demo failed")
		os.Exit(1)
	}

	logger.Info().
		Str("duration", reprint.FormatDuration(time.Since(start))).
		Uint64("samples", *samples).
		Msg("done")
}

// runSingle drives one estimation loop on the calling goroutine, the
// library's primary single-threaded use case.
func runSingle(logger zerolog.Logger, interval time.Duration, opts observer.Options, samples uint64, spin bool) error {
	obs, err := observer.New(interval, opts)
	if err != nil {
		return err
	}

	render := newRenderer(spin)
	defer render.done()

	rng := rand.New(rand.NewPCG(1, uint64(time.Now().UnixNano())))
	var inCircle uint64
	for i := uint64(1); i <= samples; i++ {
		if sampleInCircle(rng) {
			inCircle++
		}
		if obs.Tick() {
			render.line(fmt.Sprintf("π ≈ %.8f  (%s samples)", pi(i, inCircle), humanCount(i)))
			if obs.Finished() {
				logger.Info().Uint64("samples", i).Msg("run-for cutoff reached")
				return nil
			}
		}
	}
	return nil
}

// reportLine is one fired report from a parallel worker.
type reportLine struct {
	worker  int
	text    string
	elapsed time.Duration
}

// runParallel runs independent estimation loops, one observer per
// worker. Observers are single-owner by contract, so workers never
// share one; instead their fired reports are funneled through a
// channel to a single coordinating printer.
func runParallel(logger zerolog.Logger, interval time.Duration, opts observer.Options, samples uint64, workers int) error {
	lines := make(chan reportLine, workers)
	printerDone := make(chan struct{})

	go func() {
		defer close(printerDone)
		printer := reprint.New(os.Stdout)
		defer printer.Done()
		for line := range lines {
			if err := printer.Printf("[worker %d @ %s] %s", line.worker, reprint.FormatDuration(line.elapsed), line.text); err != nil {
				// Non-fatal by contract: the computation keeps running.
				logger.Debug().Err(err).Msg("progress write failed")
			}
		}
	}()

	start := time.Now()
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			obs, err := observer.New(interval, opts)
			if err != nil {
				return err
			}

			rng := rand.New(rand.NewPCG(uint64(w)+1, uint64(time.Now().UnixNano())))
			var inCircle uint64
			for i := uint64(1); i <= samples/uint64(workers); i++ {
				if sampleInCircle(rng) {
					inCircle++
				}
				if obs.Tick() {
					lines <- reportLine{
						worker:  w,
						text:    fmt.Sprintf("π ≈ %.8f  (%s samples)", pi(i, inCircle), humanCount(i)),
						elapsed: time.Since(start),
					}
					if obs.Finished() {
						return nil
					}
				}
			}
			return nil
		})
	}

	err := g.Wait()
	close(lines)
	<-printerDone
	return err
}

// renderer abstracts the two single-loop display modes.
type renderer struct {
	printer *reprint.Printer
	spin    *spinner.Spinner
}

func newRenderer(spin bool) *renderer {
	if spin {
		s := spinner.New(spinner.CharSets[11], 200*time.Millisecond, spinner.WithWriter(os.Stderr))
		s.Start()
		return &renderer{spin: s}
	}
	return &renderer{printer: reprint.New(os.Stdout)}
}

func (r *renderer) line(text string) {
	if r.spin != nil {
		r.spin.Suffix = " " + text
		return
	}
	// Non-fatal by contract: a failed progress write never stops the loop.
	_ = r.printer.Printf("%s", text)
}

func (r *renderer) done() {
	if r.spin != nil {
		r.spin.Stop()
		return
	}
	_ = r.printer.Done()
}

// sampleInCircle draws a point in the unit square and checks whether it
// falls inside the inscribed circle.
func sampleInCircle(rng *rand.Rand) bool {
	x := rng.Float64()*2 - 1
	y := rng.Float64()*2 - 1
	return x*x+y*y <= 1
}

// pi derives the running estimate from the in-circle ratio.
func pi(total, inCircle uint64) float64 {
	if total == 0 {
		return 0
	}
	return float64(inCircle) / float64(total) * 4.0
}

// humanCount formats a sample count with magnitude suffixes.
func humanCount(n uint64) string {
	switch {
	case n >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", float64(n)/1e9)
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1e6)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1e3)
	default:
		return fmt.Sprintf("%d", n)
	}
}
