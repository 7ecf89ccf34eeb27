// Package reprint writes carriage-return-prefixed lines so that
// repeated calls overwrite the same terminal line. It is the display
// collaborator for progress reporting: the observer decides when a
// report is due, reprint renders it in place.
package reprint

import (
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"
)

// flusher is implemented by buffered writers (e.g. bufio.Writer) that
// need an explicit flush for the line to reach the terminal promptly.
type flusher interface {
	Flush() error
}

// Printer renders a single, repeatedly overwritten status line.
// It pads each write to the length of the longest line printed so far,
// so a shorter update fully clears the remnants of a longer one.
//
// Write or flush failures are returned to the caller but are non-fatal
// by contract: degraded diagnostics must never abort the monitored
// computation.
type Printer struct {
	out     io.Writer
	lastLen int
	width   int // terminal width, 0 if unknown
}

// New creates a Printer writing to out. When out is a terminal, the
// current terminal width is detected once and long lines are truncated
// to fit, preventing wrap-around from breaking the overwrite effect.
//
// Parameters:
//   - out: The destination writer. If nil, os.Stdout is used.
//
// Returns:
//   - *Printer: A new line printer.
func New(out io.Writer) *Printer {
	if out == nil {
		out = os.Stdout
	}
	p := &Printer{out: out}
	if f, ok := out.(*os.File); ok {
		fd := int(f.Fd())
		if term.IsTerminal(fd) {
			if w, _, err := term.GetSize(fd); err == nil && w > 0 {
				p.width = w
			}
		}
	}
	return p
}

// Printf formats the status line and reprints it in place.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - args: Arguments to be formatted into the string.
//
// Returns:
//   - error: A write or flush error. Safe to ignore; the printer
//     remains usable.
func (p *Printer) Printf(format string, args ...any) error {
	line := fmt.Sprintf(format, args...)
	if p.width > 0 && len(line) >= p.width {
		line = line[:p.width-1]
	}

	pad := p.lastLen - len(line)
	p.lastLen = len(line)
	if pad < 0 {
		pad = 0
	}

	if _, err := fmt.Fprintf(p.out, "\r%s%*s", line, pad, ""); err != nil {
		return err
	}
	return p.flush()
}

// Done finalizes the status line with a newline so subsequent output
// starts fresh below it. The printer can be reused afterwards.
//
// Returns:
//   - error: A write or flush error. Safe to ignore.
func (p *Printer) Done() error {
	p.lastLen = 0
	if _, err := fmt.Fprintln(p.out); err != nil {
		return err
	}
	return p.flush()
}

// flush pushes buffered output through, when the writer buffers at all.
func (p *Printer) flush() error {
	if f, ok := p.out.(flusher); ok {
		return f.Flush()
	}
	return nil
}

// FormatDuration formats a time.Duration for display. It shows
// microseconds for durations under a millisecond, milliseconds for
// durations under a second, and the default representation otherwise.
//
// Parameters:
//   - d: The duration to format.
//
// Returns:
//   - string: A formatted string representing the duration.
func FormatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	} else if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}
