package hbios

import (
	"io"
	"log/slog"
	"testing"

	"github.com/avwohl/romwbw-emu/internal/cpu"
	"github.com/avwohl/romwbw-emu/internal/diskstore"
	"github.com/avwohl/romwbw-emu/internal/memory"
)

// fakeCPUHost lets the CPU exist without actually fetching any code;
// these tests drive Dispatch directly rather than through CPU.Step.
type fakeCPUHost struct{}

func (fakeCPUHost) MemRead(addr uint16) byte     { return 0 }
func (fakeCPUHost) MemWrite(addr uint16, v byte) {}
func (fakeCPUHost) PortIn(port byte) byte        { return 0xFF }
func (fakeCPUHost) PortOut(port byte, v byte)    {}
func (fakeCPUHost) OnHalt()                      {}
func (fakeCPUHost) OnUnimplemented(byte, uint16) {}

func newTestDispatch() (*Dispatch, *cpu.CPU, *memory.Memory, *diskstore.Store) {
	mem := memory.New()
	rom := make([]byte, 64*1024)
	mem.LoadROM(rom)
	c := cpu.New(fakeCPUHost{})
	disks := diskstore.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	d := New(c, mem, disks, logger)
	return d, c, mem, disks
}

func TestCIOOutQueuesOutputRing(t *testing.T) {
	d, c, _, _ := newTestDispatch()
	c.B = FnCIOOUT
	c.E = 'X'
	d.Dispatch()
	out := d.DrainOutput()
	if string(out) != "X" {
		t.Fatalf("output = %q, want %q", out, "X")
	}
}

func TestCIOInEmptySetsNeedsInput(t *testing.T) {
	d, c, _, _ := newTestDispatch()
	c.B = FnCIOIN
	d.Dispatch()
	if d.State() != StateNeedsInput {
		t.Fatalf("expected StateNeedsInput, got %v", d.State())
	}
	if c.A != StatusNoData {
		t.Fatalf("A = 0x%02X, want StatusNoData", c.A)
	}
}

func TestCIOInBlocksInsteadOfNeedsInputWhenBlockingAllowed(t *testing.T) {
	d, c, _, _ := newTestDispatch()
	d.SetBlockingAllowed(true)

	var calls int
	d.SetBlockingPoll(func() (byte, bool) {
		calls++
		if calls < 3 {
			return 0, false
		}
		return 'Q', true
	})

	c.B = FnCIOIN
	d.Dispatch()

	if d.State() == StateNeedsInput {
		t.Fatalf("expected blocking policy to avoid NeedsInput")
	}
	if c.A != StatusOK || c.E != 'Q' {
		t.Fatalf("A=0x%02X E=0x%02X, want StatusOK/'Q'", c.A, c.E)
	}
	if calls != 3 {
		t.Fatalf("blockingPoll called %d times, want 3", calls)
	}
}

func TestQueueInputClearsNeedsInput(t *testing.T) {
	d, c, _, _ := newTestDispatch()
	c.B = FnCIOIN
	d.Dispatch()
	if d.State() != StateNeedsInput {
		t.Fatalf("expected NeedsInput before queueing")
	}
	d.QueueInput('Q')
	if d.State() != StateIdle {
		t.Fatalf("expected Idle after QueueInput, got %v", d.State())
	}
	c.B = FnCIOIN
	d.Dispatch()
	if c.A != StatusOK || c.E != 'Q' {
		t.Fatalf("A=0x%02X E=0x%02X, want StatusOK/'Q'", c.A, c.E)
	}
}

func TestUnknownFunctionReturnsInvalid(t *testing.T) {
	d, c, _, _ := newTestDispatch()
	c.B = 0x99
	d.Dispatch()
	if c.A != StatusInvalid {
		t.Fatalf("A = 0x%02X, want StatusInvalid", c.A)
	}
}

func TestDiskCapacityRoundTrip(t *testing.T) {
	d, c, _, disks := newTestDispatch()
	if err := disks.Attach(2, make([]byte, diskstore.SectorSize*diskstore.SectorsPerSlice*2), 2); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	c.B = FnDIOCAP
	c.C = 2
	d.Dispatch()
	if c.A != StatusOK {
		t.Fatalf("A = 0x%02X, want StatusOK", c.A)
	}
	got := uint32(c.DE())<<16 | uint32(c.HL())
	if want := uint32(2 * diskstore.SectorsPerSlice); got != want {
		t.Fatalf("capacity = %d, want %d", got, want)
	}
}

func TestDiskReadWriteThroughMemory(t *testing.T) {
	d, c, mem, disks := newTestDispatch()
	if err := disks.Attach(0, make([]byte, diskstore.SectorSize*2), 1); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	mem.SelectBank(0x81) // a RAM bank: stores through ROM bank 0 would be discarded

	buf := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	addr := uint16(0x1000)
	for i, b := range buf {
		mem.Store(addr+uint16(i), b)
	}

	c.B = FnDIOSEEK
	c.C = 0
	c.SetHL(0)
	c.SetDE(0)
	d.Dispatch()
	if c.A != StatusOK {
		t.Fatalf("seek: A = 0x%02X", c.A)
	}

	c.B = FnDIOWRITE
	c.C = 0
	c.SetHL(addr)
	d.Dispatch()
	if c.A != StatusOK {
		t.Fatalf("write: A = 0x%02X", c.A)
	}

	c.B = FnDIOSEEK
	c.C = 0
	c.SetHL(0)
	d.Dispatch()

	readAddr := uint16(0x2000)
	c.B = FnDIOREAD
	c.C = 0
	c.SetHL(readAddr)
	d.Dispatch()
	if c.A != StatusOK {
		t.Fatalf("read: A = 0x%02X", c.A)
	}
	for i, want := range buf {
		if got := mem.Fetch(readAddr + uint16(i)); got != want {
			t.Fatalf("byte %d: got 0x%02X want 0x%02X", i, got, want)
		}
	}
}

func TestSysSetBnkAndGetBnk(t *testing.T) {
	d, c, mem, _ := newTestDispatch()
	c.B = FnSYSSETBNK
	c.E = 0x83 // RAM bank 3
	d.Dispatch()
	if mem.Bank() != 0x83 {
		t.Fatalf("bank = 0x%02X, want 0x83", mem.Bank())
	}
	c.B = FnSYSGETBNK
	d.Dispatch()
	if c.E != 0x83 {
		t.Fatalf("reported bank = 0x%02X, want 0x83", c.E)
	}
}

func TestSysGetHostVersionWritesNulTerminatedString(t *testing.T) {
	d, c, mem, _ := newTestDispatch()
	mem.SelectBank(0x81) // a RAM bank: stores through ROM bank 0 would be discarded
	c.B = FnSYSGET
	c.C = SysGetHostVersion
	addr := uint16(0x3000)
	c.SetHL(addr)
	d.Dispatch()
	if c.A != StatusOK {
		t.Fatalf("A = 0x%02X, want StatusOK", c.A)
	}
	n := int(c.E)
	if n == 0 {
		t.Fatalf("expected a non-empty version string length")
	}
	for i := 0; i < n; i++ {
		if mem.Fetch(addr+uint16(i)) == 0 {
			t.Fatalf("unexpected NUL within string body at offset %d", i)
		}
	}
	if got := mem.Fetch(addr + uint16(n)); got != 0 {
		t.Fatalf("terminator = 0x%02X, want 0x00", got)
	}
}

func TestSysResetInvokesCallback(t *testing.T) {
	d, c, _, _ := newTestDispatch()
	var gotWarm bool
	var called bool
	d.SetResetCallback(func(warm bool) {
		called = true
		gotWarm = warm
	})
	c.B = FnSYSRESET
	c.E = 1
	d.Dispatch()
	if !called || !gotWarm {
		t.Fatalf("expected warm reset callback invocation")
	}
}

func TestOnCPUUnimplementedHalts(t *testing.T) {
	d, _, _, _ := newTestDispatch()
	d.OnCPUUnimplemented(0xED, 0x1234)
	if d.State() != StateHalted {
		t.Fatalf("expected StateHalted")
	}
}
