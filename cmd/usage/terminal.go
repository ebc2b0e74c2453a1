package main

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/evanr70/usage/internal/log"
	"github.com/evanr70/usage/pkg/writer"
)

const (
	enterAltScreen = "\033[?1049h\033[?25l"
	leaveAltScreen = "\033[?25h\033[?1049l"

	ctrlC = 0x03
)

// screen is the terminal the view is drawn on
type screen struct {
	out     io.Writer
	opts    []writer.TerminalOpt
	restore func()
}

// openScreen takes over the terminal when stdout is one: the alternate
// buffer is used and, if stdin is a terminal too, it is put in raw mode so
// single key presses reach quit. restore must be called before exiting.
func openScreen(quit func()) *screen {
	s := &screen{out: os.Stdout, restore: func() {}}

	outFD := int(os.Stdout.Fd())
	if !term.IsTerminal(outFD) {
		return s
	}

	if cols, _, err := term.GetSize(outFD); err == nil {
		s.opts = append(s.opts, writer.WithWidth(cols))
	}
	fmt.Fprint(os.Stdout, enterAltScreen)

	var undo func()
	inFD := int(os.Stdin.Fd())
	if term.IsTerminal(inFD) {
		state, err := term.MakeRaw(inFD)
		if err != nil {
			log.Error("unable to read keys from the terminal, quit with a signal instead: %+v", err)
		} else {
			undo = func() { _ = term.Restore(inFD, state) }
			s.opts = append(s.opts, writer.WithCRLF())
			go watchKeys(os.Stdin, quit)
		}
	}

	s.restore = func() {
		if undo != nil {
			undo()
		}
		fmt.Fprint(os.Stdout, leaveAltScreen)
	}
	return s
}

// watchKeys calls quit once a quit key is read from r
func watchKeys(r io.Reader, quit func()) {
	buf := make([]byte, 64)
	for {
		n, err := r.Read(buf)
		for _, b := range buf[:n] {
			if isQuitKey(b) {
				quit()
				return
			}
		}
		if err != nil {
			return
		}
	}
}

func isQuitKey(b byte) bool {
	switch b {
	case 'q', 'Q', ctrlC:
		return true
	}
	return false
}
