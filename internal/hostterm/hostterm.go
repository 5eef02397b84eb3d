// Package hostterm is the concrete terminal-based host: it implements
// hbios.Delegate on top of termbox-go's cell buffer, and polls stdin in
// a background goroutine the way the teacher's console input driver
// does, forwarding bytes to a caller-supplied sink instead of its own
// internal buffer.
package hostterm

import (
	"context"
	"fmt"
	"os"

	"github.com/nsf/termbox-go"
	"golang.org/x/term"
)

const (
	cols = 80
	rows = 24
)

// Term is a termbox-backed hbios.Delegate plus a background keyboard
// poller.
type Term struct {
	oldState *term.State
	cancel   context.CancelFunc

	row, col int
	attr     termbox.Attribute
}

// New constructs a Term. Call Setup before using it as a Delegate.
func New() *Term {
	return &Term{attr: termbox.ColorDefault}
}

// Setup switches stdin into raw mode, initialises termbox, and starts
// a goroutine that polls keyboard events and forwards each one to
// onChar - typically (*driver.Driver).QueueInput.
func (t *Term) Setup(onChar func(byte)) error {
	var err error
	t.oldState, err = term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return err
	}

	if err = termbox.Init(); err != nil {
		term.Restore(int(os.Stdin.Fd()), t.oldState)
		return err
	}
	termbox.SetInputMode(termbox.InputEsc)

	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	go t.pollKeyboard(ctx, onChar)

	return nil
}

func (t *Term) pollKeyboard(ctx context.Context, onChar func(byte)) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		switch ev := termbox.PollEvent(); ev.Type {
		case termbox.EventKey:
			if ev.Ch != 0 {
				onChar(byte(ev.Ch))
			} else if ev.Key == termbox.KeyEnter {
				onChar('\r')
			} else {
				onChar(byte(ev.Key))
			}
		}
	}
}

// TearDown restores the terminal and stops the keyboard poller.
func (t *Term) TearDown() {
	if t.cancel != nil {
		t.cancel()
	}
	termbox.Close()
	if t.oldState != nil {
		term.Restore(int(os.Stdin.Fd()), t.oldState)
	}
}

// hbios.Delegate implementation.

func (t *Term) VDAClear() {
	termbox.Clear(t.attr, termbox.ColorDefault)
	t.row, t.col = 0, 0
	termbox.Flush()
}

func (t *Term) VDASetCursor(row, col byte) {
	t.row, t.col = int(row), int(col)
	termbox.SetCursor(t.col, t.row)
}

func (t *Term) VDAWriteChar(ch byte) {
	switch ch {
	case '\r':
		t.col = 0
	case '\n':
		t.row++
		if t.row >= rows {
			t.scrollUp(1)
			t.row = rows - 1
		}
	default:
		termbox.SetCell(t.col, t.row, rune(ch), t.attr, termbox.ColorDefault)
		t.col++
		if t.col >= cols {
			t.col = 0
			t.row++
		}
	}
	termbox.SetCursor(t.col, t.row)
	termbox.Flush()
}

func (t *Term) VDAScrollUp(lines byte) {
	t.scrollUp(int(lines))
	termbox.Flush()
}

func (t *Term) scrollUp(lines int) {
	if lines <= 0 {
		return
	}
	cells := termbox.CellBuffer()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			var r rune
			if src := y + lines; src < rows {
				r = cells[src*cols+x].Ch
			}
			termbox.SetCell(x, y, r, t.attr, termbox.ColorDefault)
		}
	}
}

func (t *Term) VDASetAttr(attr byte) {
	t.attr = termbox.Attribute(attr) + 1 // termbox reserves 0 for default
}

func (t *Term) OnBeep(ms int) {
	fmt.Fprint(os.Stdout, "\a")
	_ = ms
}

func (t *Term) OnStatus(text string) {
	fmt.Fprintln(os.Stderr, text)
}

// OnCharacter renders one byte from the console-output ring (the CIO
// function group) onto the same screen VDA writes to - this terminal
// has only one physical surface, so both channels share it.
func (t *Term) OnCharacter(ch byte) {
	t.VDAWriteChar(ch)
}

func (t *Term) OnInputRequested() {}

func (t *Term) HostFileRequestRead(name string) []byte {
	return nil
}

func (t *Term) HostFileDownload(name string, data []byte) {
}
