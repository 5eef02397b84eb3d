package memory

import "testing"

func romOfSize(n int) []byte {
	r := make([]byte, n)
	for i := range r {
		r[i] = byte(i)
	}
	return r
}

// TestLoadROMRejectsInvalid checks LoadROM's size validation.
func TestLoadROMRejectsInvalid(t *testing.T) {
	m := New()

	if err := m.LoadROM(nil); err != ErrRomInvalid {
		t.Fatalf("expected ErrRomInvalid for empty ROM, got %v", err)
	}
	if err := m.LoadROM(make([]byte, romSize+1)); err != ErrRomInvalid {
		t.Fatalf("expected ErrRomInvalid for oversized ROM, got %v", err)
	}
}

// TestROMImmutable checks that writes never perturb ROM contents.
func TestROMImmutable(t *testing.T) {
	m := New()
	rom := romOfSize(romSize)
	if err := m.LoadROM(rom); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}

	// A write via Store through a selected ROM bank should never touch ROM.
	m.SelectBank(0x00) // ROM bank 0
	m.Store(0x1234, 0xAA)
	if got := m.ReadBank(0x00, 0x1234); got != rom[0x1234] {
		t.Fatalf("ROM byte changed by write: got 0x%02X want 0x%02X", got, rom[0x1234])
	}

	// WriteBank against an explicit ROM bank is discarded too.
	m.WriteBank(0x05, 0x0010, 0xFF)
	if got := m.ReadBank(0x05, 0x0010); got != rom[5*BankSize+0x0010] {
		t.Fatalf("ROM byte changed via WriteBank: got 0x%02X want 0x%02X", got, rom[5*BankSize+0x0010])
	}
}

// TestBankSelectIsolation verifies writes to one RAM bank are invisible
// through a different selected bank.
func TestBankSelectIsolation(t *testing.T) {
	m := New()
	if err := m.LoadROM(romOfSize(romSize)); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}

	m.SelectBank(0x81) // RAM bank 1
	m.Store(0x2000, 0x42)

	m.SelectBank(0x82) // RAM bank 2
	if got := m.Fetch(0x2000); got == 0x42 {
		t.Fatalf("write to RAM bank 1 leaked into RAM bank 2")
	}

	m.SelectBank(0x81)
	if got := m.Fetch(0x2000); got != 0x42 {
		t.Fatalf("RAM bank 1 did not retain its own write: got 0x%02X", got)
	}
}

// TestCommonAreaAliasing verifies the upper half always maps to RAM
// bank 15 regardless of the selected bank.
func TestCommonAreaAliasing(t *testing.T) {
	m := New()
	if err := m.LoadROM(romOfSize(romSize)); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}

	for _, b := range []byte{0x00, 0x83, 0x8F, 0x07} {
		m.SelectBank(b)
		m.Store(0x9000, 0x77)
		if got := m.ReadBank(0x8F, 0x9000); got != 0x77 {
			t.Fatalf("common area write with bank=0x%02X not visible via ReadBank(0x8F,..): got 0x%02X", b, got)
		}
		if got := m.Fetch(0x9000); got != 0x77 {
			t.Fatalf("common area write with bank=0x%02X not visible via Fetch: got 0x%02X", b, got)
		}
	}
}

// TestFirstSelectCopiesHCB checks the page-zero/HCB copy on first
// select of a RAM bank.
func TestFirstSelectCopiesHCB(t *testing.T) {
	m := New()
	rom := romOfSize(romSize)
	if err := m.LoadROM(rom); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}

	m.SelectBank(0x83) // first-ever select of RAM bank 3
	for a := 0; a < hcbSize; a++ {
		want := rom[a]
		if a == apiTypeOffset {
			want = 0x00 // LoadROM patched the API-type byte before the copy
		}
		if got := m.ReadBank(0x83, uint16(a)); got != want {
			t.Fatalf("HCB byte %d not copied: got 0x%02X want 0x%02X", a, got, want)
		}
	}

	// Mutate the copy, then re-select: it must not be re-copied.
	m.WriteBank(0x83, 0x0010, 0x99)
	m.SelectBank(0x80) // switch away
	m.SelectBank(0x83) // switch back: second select, no re-copy
	if got := m.ReadBank(0x83, 0x0010); got != 0x99 {
		t.Fatalf("second select re-copied the HCB, losing the mutation")
	}
}

// TestGetU16 exercises the little-endian word reader through the
// currently selected bank.
func TestGetU16(t *testing.T) {
	m := New()
	if err := m.LoadROM(romOfSize(romSize)); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	m.SelectBank(0x80)
	m.Store(0x100, 0x34)
	m.Store(0x101, 0x12)
	if got := m.GetU16(0x100); got != 0x1234 {
		t.Fatalf("GetU16: got 0x%04X want 0x1234", got)
	}
}

// TestClearRAM checks RAM zeroing and bitmask reset.
func TestClearRAM(t *testing.T) {
	m := New()
	if err := m.LoadROM(romOfSize(romSize)); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	m.SelectBank(0x81)
	m.Store(0x1000, 0x55) // outside the page-zero/HCB region
	m.ClearRAM()
	m.SelectBank(0x81)
	if got := m.Fetch(0x1000); got != 0x00 {
		t.Fatalf("ClearRAM left a stale byte: 0x%02X", got)
	}
	// The bitmask was reset too, so this select re-ran the HCB copy.
	if got := m.Fetch(0x10); got != 0x10 {
		t.Fatalf("HCB not re-copied after ClearRAM: got 0x%02X want 0x10", got)
	}
}
