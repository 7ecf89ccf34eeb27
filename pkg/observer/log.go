package observer

import (
	"time"

	"github.com/rs/zerolog"
)

// logger wraps the optional adjustment trace so the hot path carries a
// value, not a nil check.
type logger struct {
	zl zerolog.Logger
}

// newLogger builds the internal logger from the options field.
func newLogger(l *zerolog.Logger) logger {
	if l == nil {
		return logger{zl: zerolog.Nop()}
	}
	return logger{zl: *l}
}

// adjustment emits a debug event describing one checkpoint resize.
func (lg logger) adjustment(ticks uint64, elapsed, target time.Duration, prev, next uint64) {
	lg.zl.Debug().
		Uint64("ticks", ticks).
		Dur("elapsed", elapsed).
		Dur("target", target).
		Uint64("checkpoint_prev", prev).
		Uint64("checkpoint_next", next).
		Msg("checkpoint adjusted")
}
