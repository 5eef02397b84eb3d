package driver

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/avwohl/romwbw-emu/internal/hbios"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeDelegate records the callbacks RunBatch and the reset callback
// are responsible for driving, for tests that assert on them directly.
type fakeDelegate struct {
	characters     []byte
	statuses       []string
	inputRequested bool
}

func (f *fakeDelegate) VDAClear()                  {}
func (f *fakeDelegate) VDASetCursor(row, col byte) {}
func (f *fakeDelegate) VDAWriteChar(ch byte)       {}
func (f *fakeDelegate) VDAScrollUp(lines byte)     {}
func (f *fakeDelegate) VDASetAttr(attr byte)       {}
func (f *fakeDelegate) OnBeep(ms int)              {}
func (f *fakeDelegate) OnStatus(text string)       { f.statuses = append(f.statuses, text) }
func (f *fakeDelegate) OnCharacter(ch byte)        { f.characters = append(f.characters, ch) }
func (f *fakeDelegate) OnInputRequested()          { f.inputRequested = true }

func (f *fakeDelegate) HostFileRequestRead(name string) []byte    { return nil }
func (f *fakeDelegate) HostFileDownload(name string, data []byte) {}

func newTestDriver(t *testing.T, prog []byte) *Driver {
	t.Helper()
	rom := make([]byte, 64*1024)
	copy(rom, prog)
	d, err := New(rom, testLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d
}

// TestCIOOutReachesOutputRing exercises the OUT (0xEF), A trigger path
// end to end: LD B,FnCIOOUT; LD E,'H'; OUT (0xEF),A; HALT.
func TestCIOOutReachesOutputRing(t *testing.T) {
	prog := []byte{
		0x06, hbios.FnCIOOUT, // LD B,FnCIOOUT
		0x1E, 'H', // LD E,'H'
		0xD3, 0xEF, // OUT (0xEF),A
		0x76, // HALT
	}
	d := newTestDriver(t, prog)
	d.Start()

	_, state := d.RunBatch(10)
	if state != hbios.StateHalted {
		t.Fatalf("state = %v, want StateHalted", state)
	}
	if got := string(d.DrainOutput()); got != "H" {
		t.Fatalf("output = %q, want %q", got, "H")
	}
}

// TestRunBatchForwardsOutputToDelegateOnCharacter exercises spec.md
// §4.5's run_batch contract: drained output goes to OnCharacter, not
// the VDA channel.
func TestRunBatchForwardsOutputToDelegateOnCharacter(t *testing.T) {
	prog := []byte{
		0x06, hbios.FnCIOOUT, // LD B,FnCIOOUT
		0x1E, 'H', // LD E,'H'
		0xD3, 0xEF, // OUT (0xEF),A
		0x76, // HALT
	}
	d := newTestDriver(t, prog)
	del := &fakeDelegate{}
	d.SetDelegate(del)
	d.Start()

	if _, state := d.RunBatch(10); state != hbios.StateHalted {
		t.Fatalf("state = %v, want StateHalted", state)
	}
	if string(del.characters) != "H" {
		t.Fatalf("delegate.OnCharacter saw %q, want %q", del.characters, "H")
	}
}

// TestWarmResetNotifiesDelegateStatus exercises scenario 5's
// on_status-contains-"Warm" expectation.
func TestWarmResetNotifiesDelegateStatus(t *testing.T) {
	prog := []byte{
		0x06, hbios.FnSYSRESET, // LD B,FnSYSRESET
		0x1E, 0x01, // LD E,1 (warm)
		0xD3, 0xEF, // OUT (0xEF),A
		0x00, 0x00, 0x00,
	}
	d := newTestDriver(t, prog)
	del := &fakeDelegate{}
	d.SetDelegate(del)
	d.Start()

	d.RunBatch(3)

	found := false
	for _, s := range del.statuses {
		if strings.Contains(s, "Warm") {
			found = true
		}
	}
	if !found {
		t.Fatalf("delegate.OnStatus calls %v did not contain \"Warm\"", del.statuses)
	}
}

// TestCIOInBlocksThenResumesOnQueueInput exercises the NeedsInput loop:
// the program polls CIOIN until it gets a character, looping back via
// a CP/JR pair each time HBIOS reports StatusNoData.
func TestCIOInBlocksThenResumesOnQueueInput(t *testing.T) {
	prog := []byte{
		0x06, hbios.FnCIOIN, // start: LD B,FnCIOIN
		0xD3, 0xEF, // OUT (0xEF),A
		0xFE, hbios.StatusNoData, // CP StatusNoData
		0x28, 0xF8, // JR Z,start
		0x76, // HALT
	}
	d := newTestDriver(t, prog)
	d.Start()

	_, state := d.RunBatch(20)
	if state != hbios.StateNeedsInput {
		t.Fatalf("state = %v, want StateNeedsInput", state)
	}
	if d.HasPendingInput() {
		t.Fatalf("expected no pending input yet")
	}

	d.QueueInput('Z')
	if !d.HasPendingInput() {
		t.Fatalf("expected pending input after QueueInput")
	}

	_, state = d.RunBatch(20)
	if state != hbios.StateHalted {
		t.Fatalf("state = %v, want StateHalted after input arrives", state)
	}
}

// TestControlifyConvertsLetterToControlCode matches the original
// emulator's one-shot controlify mode.
func TestControlifyConvertsLetterToControlCode(t *testing.T) {
	prog := []byte{0x76} // HALT, never reached in this test
	d := newTestDriver(t, prog)
	d.Start()

	d.SetControlify(ControlifyOneChar)
	d.QueueInput('c') // ^C = 0x03
	ch, ok := d.hb.PopInputDirect()
	if !ok || ch != 0x03 {
		t.Fatalf("got ch=0x%02X ok=%v, want 0x03/true", ch, ok)
	}

	// One-shot mode should have turned itself off.
	d.QueueInput('c')
	ch, ok = d.hb.PopInputDirect()
	if !ok || ch != 'c' {
		t.Fatalf("controlify did not revert to Off: got ch=0x%02X", ch)
	}
}

// TestQueueInputTranslatesLFToCR matches the original emulator's
// newline handling ahead of controlify.
func TestQueueInputTranslatesLFToCR(t *testing.T) {
	d := newTestDriver(t, []byte{0x76})
	d.Start()
	d.QueueInput('\n')
	ch, ok := d.hb.PopInputDirect()
	if !ok || ch != '\r' {
		t.Fatalf("got ch=0x%02X ok=%v, want '\\r'", ch, ok)
	}
}

// TestStartInstallsReservedMemoryDisks exercises spec.md §3's Data
// Model requirement that MD0/MD1 exist from the first Start onward.
func TestStartInstallsReservedMemoryDisks(t *testing.T) {
	d := newTestDriver(t, []byte{0x76})
	d.Start()

	if !d.disks.Present(MD0Unit) {
		t.Fatalf("MD0 (unit %d) not present after Start", MD0Unit)
	}
	if !d.disks.Present(MD1Unit) {
		t.Fatalf("MD1 (unit %d) not present after Start", MD1Unit)
	}
}

// TestWarmResetRestartsAtZero exercises SYSRESET: LD B,FnSYSRESET;
// LD E,1 (warm); OUT (0xEF),A.
func TestWarmResetRestartsAtZero(t *testing.T) {
	prog := []byte{
		0x06, hbios.FnSYSRESET, // LD B,FnSYSRESET
		0x1E, 0x01, // LD E,1 (warm)
		0xD3, 0xEF, // OUT (0xEF),A
		0x00, 0x00, 0x00, // padding so PC isn't left mid-instruction
	}
	d := newTestDriver(t, prog)
	d.Start()

	executed, _ := d.RunBatch(3)
	if executed != 3 {
		t.Fatalf("executed = %d, want 3", executed)
	}
	if d.PC() != 0 {
		t.Fatalf("PC = 0x%04X, want 0 after warm reset", d.PC())
	}
}
