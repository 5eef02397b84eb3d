package simplebios

import (
	"testing"

	"github.com/avwohl/romwbw-emu/internal/memory"
)

func newTestMemory(t *testing.T) *memory.Memory {
	t.Helper()
	m := memory.New()
	if err := m.LoadROM(make([]byte, 64*1024)); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	return m
}

func TestInstallJumpTableSelfReferences(t *testing.T) {
	m := newTestMemory(t)
	Install(m)

	for i := 0; i < entryCount; i++ {
		addr := uint16(BIOSBase + i*3)
		if got := m.Fetch(addr); got != 0xC3 {
			t.Fatalf("entry %d: opcode = 0x%02X, want 0xC3 (JMP)", i, got)
		}
		if got := m.GetU16(addr + 1); got != addr {
			t.Fatalf("entry %d: target = 0x%04X, want 0x%04X", i, got, addr)
		}
	}
}

func TestInstallSkewTable(t *testing.T) {
	m := newTestMemory(t)
	Install(m)

	want := []byte{1, 7, 13, 19, 25, 5, 11, 17, 23, 3, 9, 15, 21,
		2, 8, 14, 20, 26, 6, 12, 18, 24, 4, 10, 16, 22}
	for i, w := range want {
		if got := m.Fetch(uint16(XLTTabAddr + i)); got != w {
			t.Fatalf("xlttab[%d] = %d, want %d", i, got, w)
		}
	}
}

func TestInstallDPB(t *testing.T) {
	m := newTestMemory(t)
	Install(m)

	if got := m.GetU16(DPB0Addr); got != 26 {
		t.Fatalf("SPT = %d, want 26", got)
	}
	if got := m.Fetch(DPB0Addr + 2); got != 3 {
		t.Fatalf("BSH = %d, want 3", got)
	}
	if got := m.GetU16(DPB0Addr + 5); got != 242 {
		t.Fatalf("DSM = %d, want 242", got)
	}
	if got := m.GetU16(DPB0Addr + 7); got != 63 {
		t.Fatalf("DRM = %d, want 63", got)
	}
}

func TestInstallDPHsPointAtSharedDPBAndDistinctVectors(t *testing.T) {
	m := newTestMemory(t)
	Install(m)

	for drive, dph := range dphAddrs {
		if got := m.GetU16(dph + 10); got != DPB0Addr {
			t.Fatalf("drive %d: DPB pointer = 0x%04X, want 0x%04X", drive, got, uint16(DPB0Addr))
		}
		wantCSV := uint16(CSV0Addr + drive*16)
		if got := m.GetU16(dph + 12); got != wantCSV {
			t.Fatalf("drive %d: CSV pointer = 0x%04X, want 0x%04X", drive, got, wantCSV)
		}
		wantALV := uint16(ALV0Addr + drive*31)
		if got := m.GetU16(dph + 14); got != wantALV {
			t.Fatalf("drive %d: ALV pointer = 0x%04X, want 0x%04X", drive, got, wantALV)
		}
	}
}

func TestIsBIOSCall(t *testing.T) {
	if off, ok := IsBIOSCall(BIOSBase + EntryCONOUT); !ok || off != EntryCONOUT {
		t.Fatalf("got off=%d ok=%v, want %d/true", off, ok, EntryCONOUT)
	}
	if off, ok := IsBIOSCall(BIOSBase + EntryCONOUT + 1); !ok || off != EntryCONOUT {
		t.Fatalf("mid-entry PC should still resolve to the entry start: off=%d ok=%v", off, ok)
	}
	if _, ok := IsBIOSCall(BIOSBase - 1); ok {
		t.Fatalf("expected false just below BIOSBase")
	}
	if _, ok := IsBIOSCall(BIOSBase + tableSize); ok {
		t.Fatalf("expected false just past the jump table")
	}
}

func TestSkew(t *testing.T) {
	if got := Skew(1); got != 1 {
		t.Fatalf("Skew(1) = %d, want 1", got)
	}
	if got := Skew(6); got != 5 {
		t.Fatalf("Skew(6) = %d, want 5", got)
	}
	if got := Skew(0); got != 0 {
		t.Fatalf("Skew(0) out of range should pass through unchanged, got %d", got)
	}
}
