package writer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/pkg/errors"

	"github.com/evanr70/usage/internal/usage"
)

const (
	title = "evanr70/usage"

	defaultWidth = 60
	minBarWidth  = 10

	clearScreen = "\033[H\033[2J"
)

// Terminal draws usage snapshots to an io.Writer, one full frame per
// snapshot.
type Terminal struct {
	w     io.Writer
	m     *sync.Mutex
	cores int
	width int
	crlf  bool
}

// TerminalOpt configures a Terminal
type TerminalOpt func(t *Terminal)

// WithWidth sets the number of columns available for a frame
func WithWidth(cols int) TerminalOpt {
	return func(t *Terminal) {
		if cols > 0 {
			t.width = cols
		}
	}
}

// WithCRLF ends every line with "\r\n". Required while the terminal is in
// raw mode.
func WithCRLF() TerminalOpt {
	return func(t *Terminal) {
		t.crlf = true
	}
}

// NewTerminal creates a Terminal for a machine with the given number of
// cores. Bars are drawn for that many cores until the first snapshot arrives.
func NewTerminal(w io.Writer, cores int, opts ...TerminalOpt) *Terminal {
	t := &Terminal{
		w:     w,
		m:     new(sync.Mutex),
		cores: cores,
		width: defaultWidth,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name is the name of this writer
func (t *Terminal) Name() string {
	return "terminal"
}

// Placeholder draws the frame shown before any snapshot is available
func (t *Terminal) Placeholder() error {
	return t.draw("Starting", "Calculating", make(usage.CoreUsage, t.cores))
}

// Write draws the snapshot
func (t *Terminal) Write(snap usage.Snapshot) error {
	return t.draw(snap.Names, snap.Values, snap.Cores)
}

// Run draws the placeholder and then every snapshot received on snaps until
// ctx is done or snaps is closed.
func (t *Terminal) Run(ctx context.Context, snaps <-chan usage.Snapshot) error {
	if err := t.Placeholder(); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case snap, ok := <-snaps:
			if !ok {
				return nil
			}
			if err := t.Write(snap); err != nil {
				return err
			}
		}
	}
}

func (t *Terminal) draw(names, values string, cores usage.CoreUsage) error {
	var buf bytes.Buffer

	buf.WriteString(clearScreen)
	pad := (t.width - len(title)) / 2
	fmt.Fprintf(&buf, "%s%s\n", strings.Repeat(" ", max(pad, 0)), title)
	rule := strings.Repeat("-", t.width)
	buf.WriteString(rule + "\n")

	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	nameLines, valueLines := lines(names), lines(values)
	for i := 0; i < max(len(nameLines), len(valueLines)); i++ {
		fmt.Fprintf(tw, "%s\t%s\n", at(nameLines, i), at(valueLines, i))
	}
	if err := tw.Flush(); err != nil {
		return errors.Wrap(err, "failed to lay out user table")
	}

	buf.WriteString(rule + "\n")
	barWidth := max(t.width-len("cpu00 [] 100.0%"), minBarWidth)
	for i, v := range cores {
		fmt.Fprintf(&buf, "%-5s [%s] %5.1f%%\n", fmt.Sprintf("cpu%d", i), bar(v, barWidth), v)
	}

	out := buf.String()
	if t.crlf {
		out = strings.ReplaceAll(out, "\n", "\r\n")
	}

	t.m.Lock()
	defer t.m.Unlock()
	if _, err := io.WriteString(t.w, out); err != nil {
		return errors.Wrap(err, "failed to draw frame")
	}
	return nil
}

// bar renders v, a percentage clamped to 0..100, as a fixed width bar
func bar(v float64, width int) string {
	v = min(max(v, 0), 100)
	filled := int(v/100*float64(width) + 0.5)
	return strings.Repeat("#", filled) + strings.Repeat(".", width-filled)
}

func lines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func at(l []string, i int) string {
	if i < len(l) {
		return l[i]
	}
	return ""
}
