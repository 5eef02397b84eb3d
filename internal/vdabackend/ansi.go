package vdabackend

import (
	"fmt"
	"io"
	"os"

	"github.com/avwohl/romwbw-emu/internal/hbios"
)

// ansiDelegate renders the VDA function group as a stream of ANSI
// escape sequences, the same escapes the teacher's ADM-3A driver
// translated its byte stream into (cursor home, clear-screen,
// cursor-position, SGR attributes) - but driven directly from VDA's
// already-structured calls rather than decoded from a raw byte stream.
type ansiDelegate struct {
	writer io.Writer
}

func (a *ansiDelegate) VDAClear() {
	fmt.Fprint(a.writer, "\033[H\033[2J")
}

func (a *ansiDelegate) VDASetCursor(row, col byte) {
	fmt.Fprintf(a.writer, "\033[%d;%dH", row+1, col+1)
}

func (a *ansiDelegate) VDAWriteChar(ch byte) {
	fmt.Fprintf(a.writer, "%c", ch)
}

func (a *ansiDelegate) VDAScrollUp(lines byte) {
	if lines == 0 {
		lines = 1
	}
	fmt.Fprintf(a.writer, "\033[%dS", lines)
}

// VDASetAttr maps the low attribute bits to SGR codes: bit 0 reverse
// video, bit 1 half intensity/dim, bit 2 underline, matching the
// ADM-3A driver's <ESC>B0/1/3 sequences.
func (a *ansiDelegate) VDASetAttr(attr byte) {
	fmt.Fprint(a.writer, "\033[0m")
	if attr&0x01 != 0 {
		fmt.Fprint(a.writer, "\033[7m")
	}
	if attr&0x02 != 0 {
		fmt.Fprint(a.writer, "\033[2m")
	}
	if attr&0x04 != 0 {
		fmt.Fprint(a.writer, "\033[4m")
	}
}

func (a *ansiDelegate) OnBeep(ms int) {
	fmt.Fprint(a.writer, "\a")
}

func (a *ansiDelegate) OnStatus(text string) {}

func (a *ansiDelegate) OnCharacter(ch byte) {
	fmt.Fprintf(a.writer, "%c", ch)
}

func (a *ansiDelegate) OnInputRequested() {}

func (a *ansiDelegate) HostFileRequestRead(name string) []byte { return nil }
func (a *ansiDelegate) HostFileDownload(name string, data []byte) {}

func init() {
	Register("ansi", func() hbios.Delegate {
		return &ansiDelegate{writer: os.Stdout}
	})
}
