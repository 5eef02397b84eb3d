// Package driver wires Memory, CPU, the Disk Store and HBIOS Dispatch
// together into the single object a host embeds: load a ROM, attach
// disks, queue input, run batches of instructions, and drain output.
//
// Driver itself implements cpu.Host, routing every CPU memory access
// through Memory and port writes to either HBIOS (port 0xEF, the
// HB_INVOKE trigger) or the generic signal port (0xEE); writes to other
// ports are ignored, and every port read returns 0xFF.
package driver

import (
	"log/slog"

	"github.com/avwohl/romwbw-emu/internal/cpu"
	"github.com/avwohl/romwbw-emu/internal/diskstore"
	"github.com/avwohl/romwbw-emu/internal/hbios"
	"github.com/avwohl/romwbw-emu/internal/memory"
)

// Ports recognised by the driver's PortOut/PortIn handlers.
const (
	// TriggerPort is the OUT port that invokes an HBIOS function call,
	// per spec.md's Design Notes.
	TriggerPort = 0xEF

	// SignalPort is a generic host-signal port used for side-channel
	// notifications (currently just the beep signal) that don't fit
	// the HBIOS function-table protocol.
	SignalPort = 0xEE
)

// Signal codes written to SignalPort, with the argument in the E
// register at the time of the OUT.
const (
	SignalBeep = 0x01
)

// The two reserved memory disks spec.md §3's Data Model requires at
// emulator start: MD0 backed by a slice of RAM, MD1 by a slice of ROM,
// at fixed unit-table indices near the top of the 16-unit range so
// they never collide with a host-attached physical disk at unit 0.
// The backing banks (RAM 14, ROM 15) are themselves a fixed choice:
// bank 15 is reserved for the always-mapped common area, so MD1 reads
// through it as ordinary ROM; RAM bank 14 is otherwise unused by any
// HBIOS convention this emulator models.
const (
	MD0Unit    = 14
	MD1Unit    = 15
	md0RAMBank = 14
	md1ROMBank = 15
)

// ControlifyMode mirrors the original emulator's console input filter:
// Off passes characters through unchanged, OneChar converts exactly
// the next queued character to its control-code form then reverts to
// Off, and Sticky keeps converting until turned off again.
type ControlifyMode int

const (
	ControlifyOff ControlifyMode = iota
	ControlifyOneChar
	ControlifySticky
)

// Driver owns one complete emulated system.
type Driver struct {
	mem   *memory.Memory
	cpu   *cpu.CPU
	disks *diskstore.Store
	hb    *hbios.Dispatch

	logger *slog.Logger

	running    bool
	controlify ControlifyMode

	bootString []byte
	bootPos    int

	delegate hbios.Delegate
}

// New constructs a Driver with a ROM image loaded, ready for Start.
func New(romData []byte, logger *slog.Logger) (*Driver, error) {
	if logger == nil {
		logger = slog.Default()
	}

	mem := memory.New()
	if err := mem.LoadROM(romData); err != nil {
		return nil, err
	}
	disks := diskstore.New()

	d := &Driver{
		mem:    mem,
		disks:  disks,
		logger: logger,
	}

	c := cpu.New(d)
	d.cpu = c
	d.hb = hbios.New(c, mem, disks, logger)
	d.hb.SetResetCallback(d.handleSysReset)

	return d, nil
}

// Disks returns the disk store, for attaching images before Start.
func (d *Driver) Disks() *diskstore.Store {
	return d.disks
}

// SetDelegate installs the VDA-facing delegate, also used directly by
// the driver for the generic-signal-port beep notification.
func (d *Driver) SetDelegate(del hbios.Delegate) {
	d.delegate = del
	d.hb.SetDelegate(del)
}

// SetBlockingAllowed forwards to the HBIOS dispatcher.
func (d *Driver) SetBlockingAllowed(allowed bool) {
	d.hb.SetBlockingAllowed(allowed)
}

// SetBlockingPoll forwards to the HBIOS dispatcher; see
// hbios.Dispatch.SetBlockingPoll.
func (d *Driver) SetBlockingPoll(fn func() (byte, bool)) {
	d.hb.SetBlockingPoll(fn)
}

// SetBootString stores a line to be queued, CR-terminated, the next
// time Start runs.
func (d *Driver) SetBootString(s string) {
	d.bootString = []byte(s)
	d.bootPos = 0
}

// SetControlify installs the input controlify mode.
func (d *Driver) SetControlify(mode ControlifyMode) {
	d.controlify = mode
}

// handleSysReset is wired as the HBIOS reset callback: it selects ROM
// bank 0 and restarts the CPU at address 0, matching a RomWBW REBOOT.
func (d *Driver) handleSysReset(warm bool) {
	kind := "Cold"
	if warm {
		kind = "Warm"
	}
	d.logger.Info("system reset", slog.String("kind", kind))
	if d.delegate != nil {
		d.delegate.OnStatus(kind + " reset")
	}
	d.mem.SelectBank(0x00)
	d.cpu.PC = 0x0000
	d.cpu.Halted = false
}

// Start performs the canonical wiring order: reset HBIOS state, reset
// the CPU register file, select ROM bank 0, install the reserved
// memory disks, mark the system running, and finally queue the boot
// string (CR-terminated) if one was set.
func (d *Driver) Start() {
	d.hb.Reset()

	d.cpu.Reset()
	d.mem.SelectBank(0x00)
	d.installMemoryDisks()

	d.running = true

	if len(d.bootString) > 0 {
		for _, ch := range d.bootString {
			d.QueueInput(ch)
		}
		d.QueueInput('\r')
		d.bootPos = len(d.bootString)
	}
}

// installMemoryDisks attaches MD0 and MD1, aliasing the live memory
// backing them rather than a snapshot, so writes through DIOWRITE
// (for MD0) show up on the next fetch through the RAM bank itself.
func (d *Driver) installMemoryDisks() {
	_ = d.disks.Attach(MD0Unit, d.mem.RAMBankBytes(md0RAMBank), 1)
	_ = d.disks.Attach(MD1Unit, d.mem.ROMBankBytes(md1ROMBank), 1)
}

// Stop marks the driver not-running; RunBatch becomes a no-op until
// Start (or Reset, which re-arms it) runs again.
func (d *Driver) Stop() {
	d.running = false
}

// Reset is equivalent to Stop followed by Start, without replaying the
// boot string twice (Start already queues it).
func (d *Driver) Reset() {
	d.running = false
	d.Start()
}

// QueueInput appends one character to the HBIOS input ring, applying
// the LF->CR translation and controlify conversion described in
// SPEC_FULL.md, in that order.
func (d *Driver) QueueInput(ch byte) {
	if ch == '\n' {
		ch = '\r'
	}

	if d.controlify != ControlifyOff {
		upper := ch
		if ch >= 'a' && ch <= 'z' {
			upper = ch - 32
		}
		if upper >= '@' && upper <= '_' {
			ch = upper - '@'
		}
		if d.controlify == ControlifyOneChar {
			d.controlify = ControlifyOff
		}
	}

	d.hb.QueueInput(ch)
}

// HasPendingInput reports whether HBIOS has queued input waiting, or a
// boot string is still being replayed (matching the original
// emulator's hasInput semantics).
func (d *Driver) HasPendingInput() bool {
	return d.hb.HasPendingInput() || d.bootPos < len(d.bootString)
}

// RunBatch executes up to count instructions, stopping early if HBIOS
// enters NeedsInput or Halted. After the loop it drains the HBIOS
// output ring, forwarding each byte to the delegate's OnCharacter, and
// tells the delegate OnInputRequested if the batch stopped waiting on
// a keystroke. It returns the number of instructions actually executed
// and the resulting state.
func (d *Driver) RunBatch(count int) (executed int, state hbios.State) {
	if !d.running {
		return 0, d.hb.State()
	}

	if d.hb.State() == hbios.StateNeedsInput {
		return 0, hbios.StateNeedsInput
	}

	state = d.hb.State()
	for i := 0; i < count; i++ {
		d.cpu.Step()
		executed++

		state = d.hb.State()
		if state == hbios.StateNeedsInput || state == hbios.StateHalted {
			if state == hbios.StateHalted {
				d.running = false
			}
			break
		}
	}

	d.drainOutputToDelegate()
	if state == hbios.StateNeedsInput && d.delegate != nil {
		d.delegate.OnInputRequested()
	}
	return executed, state
}

// drainOutputToDelegate forwards the output ring to the delegate when
// one is installed. With no delegate, the ring is left alone so callers
// without a delegate (tests, headless batch runs) can still read it
// back with DrainOutput.
func (d *Driver) drainOutputToDelegate() {
	if d.delegate == nil {
		return
	}
	for _, ch := range d.hb.DrainOutput() {
		d.delegate.OnCharacter(ch)
	}
}

// DrainOutput returns and clears accumulated console output, in order.
func (d *Driver) DrainOutput() []byte {
	return d.hb.DrainOutput()
}

// PC, SP and InstructionCount expose CPU inspection state for
// diagnostics and tests.
func (d *Driver) PC() uint16               { return d.cpu.PC }
func (d *Driver) SP() uint16               { return d.cpu.SP }
func (d *Driver) InstructionCount() uint64 { return d.cpu.InstructionCount }

// cpu.Host implementation.

func (d *Driver) MemRead(addr uint16) byte     { return d.mem.Fetch(addr) }
func (d *Driver) MemWrite(addr uint16, v byte) { d.mem.Store(addr, v) }

func (d *Driver) PortIn(port byte) byte {
	return 0xFF // no input ports are modelled; the bus floats high.
}

func (d *Driver) PortOut(port byte, v byte) {
	switch port {
	case TriggerPort:
		d.hb.Dispatch()
	case SignalPort:
		d.handleSignal(v)
	}
}

func (d *Driver) handleSignal(code byte) {
	switch code {
	case SignalBeep:
		if d.delegate != nil {
			d.delegate.OnBeep(int(d.cpu.E))
		}
	}
}

func (d *Driver) OnHalt() {
	d.hb.OnCPUHalt()
}

func (d *Driver) OnUnimplemented(opcode byte, pc uint16) {
	d.hb.OnCPUUnimplemented(opcode, pc)
}
