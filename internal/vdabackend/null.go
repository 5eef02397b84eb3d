package vdabackend

import "github.com/avwohl/romwbw-emu/internal/hbios"

// nullDelegate discards all VDA output; useful for batch runs where
// only disk side-effects matter.
type nullDelegate struct{}

func (nullDelegate) VDAClear()                  {}
func (nullDelegate) VDASetCursor(row, col byte) {}
func (nullDelegate) VDAWriteChar(ch byte)       {}
func (nullDelegate) VDAScrollUp(lines byte)     {}
func (nullDelegate) VDASetAttr(attr byte)       {}
func (nullDelegate) OnBeep(ms int)              {}
func (nullDelegate) OnStatus(text string)       {}
func (nullDelegate) OnCharacter(ch byte)        {}
func (nullDelegate) OnInputRequested()          {}

func (nullDelegate) HostFileRequestRead(name string) []byte    { return nil }
func (nullDelegate) HostFileDownload(name string, data []byte) {}

func init() {
	Register("null", func() hbios.Delegate {
		return nullDelegate{}
	})
}
