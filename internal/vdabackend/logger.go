package vdabackend

import "github.com/avwohl/romwbw-emu/internal/hbios"

// LoggerDelegate records every character written through VDAWriteChar
// into an in-memory history, for integration tests that need to assert
// on exactly what the emulated system printed.
type LoggerDelegate struct {
	history []byte
}

func (l *LoggerDelegate) VDAClear()                  { l.history = l.history[:0] }
func (l *LoggerDelegate) VDASetCursor(row, col byte) {}
func (l *LoggerDelegate) VDAWriteChar(ch byte)       { l.history = append(l.history, ch) }
func (l *LoggerDelegate) VDAScrollUp(lines byte)     {}
func (l *LoggerDelegate) VDASetAttr(attr byte)       {}
func (l *LoggerDelegate) OnBeep(ms int)              {}
func (l *LoggerDelegate) OnStatus(text string)       {}
func (l *LoggerDelegate) OnCharacter(ch byte)        { l.history = append(l.history, ch) }
func (l *LoggerDelegate) OnInputRequested()          {}

func (l *LoggerDelegate) HostFileRequestRead(name string) []byte    { return nil }
func (l *LoggerDelegate) HostFileDownload(name string, data []byte) {}

// Output returns everything recorded so far, in order.
func (l *LoggerDelegate) Output() string { return string(l.history) }

func init() {
	Register("logger", func() hbios.Delegate {
		return &LoggerDelegate{}
	})
}
