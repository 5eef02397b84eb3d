// Package hbios implements the HBIOS dispatch state machine: the
// function-call server RomWBW firmware drives via the OUT (0xEF), A
// instruction, reading/writing Z80 registers and acting on the memory
// and disk-store collaborators it is given.
//
// HBIOS owns the console input and output rings (the canonical design
// per spec.md's Design Notes - not the CPU, not a process-wide
// singleton) and the Idle/NeedsInput/Halted state machine the driver's
// batch loop polls between instructions.
package hbios

import (
	"log/slog"
	"time"

	"github.com/avwohl/romwbw-emu/internal/cpu"
	"github.com/avwohl/romwbw-emu/internal/diskstore"
	"github.com/avwohl/romwbw-emu/internal/memory"
)

// State is the HBIOS dispatch state, polled by the driver's batch loop
// after every CPU instruction.
type State int

const (
	StateIdle State = iota
	StateNeedsInput
	StateHalted
)

// Status codes returned in the A register by HBIOS functions, per
// spec.md §7.
const (
	StatusOK                   = 0x00
	StatusDiskOutOfRange       = 0x01
	StatusDiskNotPresent       = 0x02
	StatusDiskSectorOutOfRange = 0x03
	StatusInvalid              = 0x04
	StatusNoData               = 0x05
)

// Function codes, grouped as in spec.md §4.4's table.
const (
	FnCIOIN     = 0x00
	FnCIOOUT    = 0x01
	FnCIOIST    = 0x02
	FnCIOOST    = 0x03
	FnCIOINIT   = 0x04
	FnCIOQUERY  = 0x05
	FnCIODEVICE = 0x06

	FnDIOSTATUS = 0x10
	FnDIORESET  = 0x11
	FnDIOSEEK   = 0x12
	FnDIOREAD   = 0x13
	FnDIOWRITE  = 0x14
	FnDIOVERIFY = 0x15
	FnDIOFORMAT = 0x16
	FnDIODEVICE = 0x17
	FnDIOMEDIA  = 0x18
	FnDIODEFMED = 0x19
	FnDIOCAP    = 0x1A
	FnDIOGEOM   = 0x1B

	FnRTCGETTIM = 0x20
	FnRTCSETTIM = 0x21

	FnVDACLEAR     = 0x40
	FnVDASETCURSOR = 0x41
	FnVDAWRITECHAR = 0x42
	FnVDASCROLLUP  = 0x43
	FnVDASETATTR   = 0x44
	FnVDAKEYSTATUS = 0x45
	FnVDAKEYREAD   = 0x46

	FnEXTSLICE  = 0xE0
	FnSYSRESET  = 0xF0
	FnSYSVER    = 0xF1
	FnSYSSETBNK = 0xF2
	FnSYSGETBNK = 0xF3
	FnBNKCOPY   = 0xF4
	FnBNKCOPYX  = 0xF5
	FnALLOC     = 0xF6
	FnSYSGET    = 0xF8
	FnSYSSET    = 0xF9
	FnSYSPEEK   = 0xFA
	FnSYSPOKE   = 0xFB
	FnSYSBOOT   = 0xFE
)

// HCB fixed locations used by the bank-copy helper (spec.md §4.4/§6).
const (
	hcbSrcBankAddr = 0xFFE4
	hcbDstBankAddr = 0xFFE7
)

// Version reported by SYSVER. This is the emulated HBIOS API version,
// distinct from the host emulator's own build version (see SysGetHostVersion).
const (
	VersionMajor = 3
	VersionMinor = 2
)

// Sub-codes for SYSGET/SYSSET's C register (spec.md §4.4 leaves these
// vendor-defined beyond sub-code 0x00, the blocking policy flag).
const (
	SysGetBlockingPolicy = 0x00

	// SysGetHostVersion is a vendor extension: HL points at a buffer to
	// receive the host emulator's own version string (not the emulated
	// HBIOS API version), NUL-terminated; E returns its length.
	SysGetHostVersion = 0x01
)

// fn is one entry in the function dispatch table.
type fn struct {
	desc    string
	handler func(d *Dispatch)
}

// Dispatch is the HBIOS function-call server.
type Dispatch struct {
	cpu    *cpu.CPU
	mem    *memory.Memory
	disks  *diskstore.Store
	logger *slog.Logger

	delegate Delegate

	state State

	inputRing  []byte
	outputRing []byte

	blockingAllowed bool
	blockingPoll    func() (byte, bool)

	resetCallback func(warm bool)

	bootInProgress bool

	sliceOffset [diskstore.UnitCount]uint32

	fns map[uint8]fn
}

// New returns a Dispatch wired to the given CPU, memory and disk store.
// Blocking is disabled by default (spec.md §3: "only used by
// non-interactive backends").
func New(c *cpu.CPU, mem *memory.Memory, disks *diskstore.Store, logger *slog.Logger) *Dispatch {
	d := &Dispatch{
		cpu:    c,
		mem:    mem,
		disks:  disks,
		logger: logger,
	}
	d.fns = d.buildFunctionTable()
	return d
}

// SetDelegate installs the video/console-adjacent delegate used by the
// VDA function group.
func (d *Dispatch) SetDelegate(del Delegate) {
	d.delegate = del
}

// SetBlockingAllowed toggles the blocking policy named in spec.md §3.
func (d *Dispatch) SetBlockingAllowed(allowed bool) {
	d.blockingAllowed = allowed
}

// SetBlockingPoll installs the synchronous input source consulted when
// BlockingAllowed is true: a CIOIN or VDAKEYREAD on an empty ring calls
// it repeatedly, sleeping briefly between attempts, instead of
// returning to NeedsInput - only non-interactive backends (a scripted
// feeder reading from a file already fully buffered, say) are expected
// to install one, since this genuinely blocks the calling goroutine
// until it reports a byte.
func (d *Dispatch) SetBlockingPoll(fn func() (byte, bool)) {
	d.blockingPoll = fn
}

// blockingInputOrNeedsInput is the shared CIOIN/VDAKEYREAD tail: pop
// from the ring if non-empty, else block on blockingPoll if the policy
// and a poll function allow it, else fall back to NeedsInput.
func (d *Dispatch) blockingInputOrNeedsInput() (byte, bool) {
	if ch, ok := d.popInput(); ok {
		return ch, true
	}
	if d.blockingAllowed && d.blockingPoll != nil {
		for {
			if ch, ok := d.blockingPoll(); ok {
				return ch, true
			}
			time.Sleep(time.Millisecond)
		}
	}
	return 0, false
}

// SetResetCallback installs the function invoked on SYSRESET.
func (d *Dispatch) SetResetCallback(cb func(warm bool)) {
	d.resetCallback = cb
}

// State returns the current dispatch state.
func (d *Dispatch) State() State {
	return d.state
}

// BootInProgress reports whether SYSBOOT has run and the driver should
// trace boot progress.
func (d *Dispatch) BootInProgress() bool {
	return d.bootInProgress
}

// Reset clears the rings, the dispatch state and the boot-in-progress
// flag.  It does not touch Memory or the Disk Store.
func (d *Dispatch) Reset() {
	d.inputRing = d.inputRing[:0]
	d.outputRing = d.outputRing[:0]
	d.state = StateIdle
	d.bootInProgress = false
}

// QueueInput appends a character to the input ring (FIFO order per
// spec.md §8) and clears NeedsInput if that's what the dispatcher was
// waiting on.
func (d *Dispatch) QueueInput(ch byte) {
	d.inputRing = append(d.inputRing, ch)
	if d.state == StateNeedsInput {
		d.state = StateIdle
	}
}

// HasPendingInput reports whether the input ring is non-empty.
func (d *Dispatch) HasPendingInput() bool {
	return len(d.inputRing) > 0
}

func (d *Dispatch) popInput() (byte, bool) {
	if len(d.inputRing) == 0 {
		return 0, false
	}
	c := d.inputRing[0]
	d.inputRing = d.inputRing[1:]
	return c, true
}

func (d *Dispatch) pushOutput(ch byte) {
	d.outputRing = append(d.outputRing, ch)
}

// DrainOutput returns and clears the accumulated output ring, in the
// exact order characters were pushed by CIOOUT.
func (d *Dispatch) DrainOutput() []byte {
	out := d.outputRing
	d.outputRing = nil
	return out
}

// PopInputDirect pops one character from the input ring, bypassing the
// function-table dispatch - useful for callers (and tests) in other
// packages that need to inspect exactly what QueueInput queued without
// driving a CPU through a CIOIN call.
func (d *Dispatch) PopInputDirect() (byte, bool) {
	return d.popInput()
}

// PushOutputDirect appends one character to the output ring, bypassing
// the function-table dispatch; see PopInputDirect.
func (d *Dispatch) PushOutputDirect(ch byte) {
	d.pushOutput(ch)
}

// OnCPUHalt is wired as the CPU's OnHalt callback by the driver.
func (d *Dispatch) OnCPUHalt() {
	d.state = StateHalted
}

// OnCPUUnimplemented is wired as the CPU's OnUnimplemented callback by
// the driver.
func (d *Dispatch) OnCPUUnimplemented(opcode byte, pc uint16) {
	d.logger.Error("unimplemented opcode",
		slog.String("opcode", formatHex8(opcode)),
		slog.String("pc", formatHex16(pc)))
	if d.delegate != nil {
		d.delegate.OnStatus("UnimplementedOpcode " + formatHex8(opcode) + " at " + formatHex16(pc))
	}
	d.state = StateHalted
}

// Dispatch services one HBIOS function call. It is invoked by the
// driver's port-out handler when the CPU executes OUT (0xEF), A.
func (d *Dispatch) Dispatch() {
	code := d.cpu.B

	f, ok := d.fns[code]
	if !ok {
		d.logger.Warn("unknown HBIOS function", slog.String("code", formatHex8(code)))
		d.cpu.A = StatusInvalid
		return
	}

	d.logger.Debug("HBIOS dispatch", slog.String("fn", f.desc), slog.String("code", formatHex8(code)))
	f.handler(d)
}

func formatHex8(v byte) string  { return hexPrefix + hexDigits(uint64(v), 2) }
func formatHex16(v uint16) string { return hexPrefix + hexDigits(uint64(v), 4) }

const hexPrefix = "0x"

func hexDigits(v uint64, width int) string {
	const digits = "0123456789ABCDEF"
	buf := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		buf[i] = digits[v&0xF]
		v >>= 4
	}
	return string(buf)
}
