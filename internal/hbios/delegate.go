package hbios

// Delegate is the host-side surface HBIOS's VDA function group drives
// directly, plus the console-character and status notifications the
// driver forwards on the delegate's behalf. The input and output rings
// themselves are still owned by Dispatch (spec.md's Design Notes:
// HBIOS, not the CPU or a process-wide singleton, owns the rings);
// OnCharacter is how the driver hands a drained output-ring byte to the
// delegate once RunBatch's loop ends, and OnInputRequested is how it
// tells the delegate the guest has gone into NeedsInput and wants a
// keystroke.
//
// File-picker style operations (HostFileRequestRead, HostFileDownload)
// are part of the collaborator contract but are never invoked by
// Dispatch itself; wiring a concrete file picker to them is a host
// concern explicitly out of scope here.
type Delegate interface {
	VDAClear()
	VDASetCursor(row, col byte)
	VDAWriteChar(ch byte)
	VDAScrollUp(lines byte)
	VDASetAttr(attr byte)

	OnBeep(ms int)
	OnStatus(text string)
	OnCharacter(ch byte)
	OnInputRequested()

	HostFileRequestRead(name string) []byte
	HostFileDownload(name string, data []byte)
}
