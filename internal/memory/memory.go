// Package memory implements the banked physical-memory model used by
// the RomWBW/HBIOS emulator core.
//
// Physical storage is two 512KiB arrays, ROM and RAM, each organised as
// sixteen 32KiB banks.  The CPU only ever sees a 64KiB address window:
// 0x0000-0x7FFF is the currently-selected bank's lower half, and
// 0x8000-0xFFFF is the "common area", permanently aliased to RAM bank
// 15's lower half.
package memory

const (
	// BankSize is the size, in bytes, of a single ROM or RAM bank.
	BankSize = 32 * 1024

	// BankCount is the number of ROM banks and the number of RAM banks.
	BankCount = 16

	// romSize and ramSize are the total sizes of the two physical arrays.
	romSize = BankSize * BankCount
	ramSize = BankSize * BankCount

	// CommonBase is the first address of the common area within the
	// 64KiB addressable window.
	CommonBase = 0x8000

	// commonRAMBank is the RAM bank index aliased as the common area.
	commonRAMBank = 0x0F

	// ramSelectBit marks a bank register value as selecting RAM rather
	// than ROM.
	ramSelectBit = 0x80

	// bankIndexMask extracts the low nibble (bank index 0-15) from a
	// bank register value.
	bankIndexMask = 0x0F

	// hcbSize is the size of the HBIOS Configuration Block copied from
	// ROM bank 0 into a RAM bank on its first select.
	hcbSize = 0x0200

	// apiTypeOffset is the ROM offset patched to mark the image as
	// HBIOS (rather than UNA) API type.
	apiTypeOffset = 0x0112
)

// Memory is the banked physical-memory model.
//
// The zero value is not ready for use; construct with New.
type Memory struct {
	rom [romSize]byte
	ram [ramSize]byte

	// bank is the current bank-select register: bit 7 selects RAM vs
	// ROM, the low nibble selects the bank index.
	bank byte

	// initialized tracks, per RAM bank index, whether the first-select
	// page-zero/HCB copy has run yet.
	initialized uint16
}

// New returns a freshly constructed Memory with bank 0 (ROM) selected
// and no RAM bank marked initialized.
func New() *Memory {
	return &Memory{}
}

// SelectBank sets the active bank register.  If b selects a RAM bank
// index that has never been selected before, the page-zero
// (0x0000-0x00FF) and HCB (0x0100-0x01FF) regions are copied from ROM
// bank 0 into that RAM bank first.
func (m *Memory) SelectBank(b byte) {
	m.bank = b

	if b&ramSelectBit != 0 {
		idx := b & bankIndexMask
		m.ensureRAMBankInitialized(idx)
	}
}

// Bank returns the currently selected bank register value.
func (m *Memory) Bank() byte {
	return m.bank
}

// ensureRAMBankInitialized performs the one-time page-zero+HCB copy for
// a RAM bank index, if it hasn't happened yet.
func (m *Memory) ensureRAMBankInitialized(idx byte) {
	bit := uint16(1) << idx
	if m.initialized&bit != 0 {
		return
	}
	m.initialized |= bit

	dst := int(idx) * BankSize
	copy(m.ram[dst:dst+hcbSize], m.rom[0:hcbSize])
}

// Fetch reads a byte from the 64KiB addressable window using the
// currently selected bank.
func (m *Memory) Fetch(addr uint16) byte {
	return m.ReadBank(m.bank, addr)
}

// Store writes a byte to the 64KiB addressable window using the
// currently selected bank.  Writes that resolve to ROM are discarded.
func (m *Memory) Store(addr uint16, v byte) {
	m.WriteBank(m.bank, addr, v)
}

// ReadBank reads a byte using an explicit bank register value, bypassing
// the selected-bank register.  Addresses at or above CommonBase always
// address the common area (RAM bank 15), regardless of b.
func (m *Memory) ReadBank(b byte, addr uint16) byte {
	if addr >= CommonBase {
		return m.ram[commonAreaOffset(addr)]
	}
	if b&ramSelectBit != 0 {
		idx := b & bankIndexMask
		return m.ram[int(idx)*BankSize+int(addr)]
	}
	idx := b & bankIndexMask
	return m.rom[int(idx)*BankSize+int(addr)]
}

// WriteBank writes a byte using an explicit bank register value,
// bypassing the selected-bank register.  Writes that resolve to ROM
// (explicitly or via the common area, which is always RAM) are
// discarded only when the target bank is ROM; the common area is
// always writable since it is RAM bank 15.
func (m *Memory) WriteBank(b byte, addr uint16, v byte) {
	if addr >= CommonBase {
		m.ram[commonAreaOffset(addr)] = v
		return
	}
	if b&ramSelectBit == 0 {
		// ROM: writes are discarded (Invariant A).
		return
	}
	idx := b & bankIndexMask
	m.ram[int(idx)*BankSize+int(addr)] = v
}

// commonAreaOffset computes the RAM bank-15 offset aliased by a common
// area address: 0x0F*32768 + (addr-0x8000).
func commonAreaOffset(addr uint16) int {
	return commonRAMBank*BankSize + int(addr-CommonBase)
}

// RAMBankBytes returns a slice aliasing RAM bank idx's 32KiB region
// directly, rather than copying it — used to back a memory-disk unit
// so disk I/O against it reads and writes live memory instead of a
// snapshot taken at attach time.
func (m *Memory) RAMBankBytes(idx byte) []byte {
	idx &= bankIndexMask
	start := int(idx) * BankSize
	return m.ram[start : start+BankSize]
}

// ROMBankBytes is RAMBankBytes's ROM counterpart.
func (m *Memory) ROMBankBytes(idx byte) []byte {
	idx &= bankIndexMask
	start := int(idx) * BankSize
	return m.rom[start : start+BankSize]
}

// GetU16 reads a little-endian 16-bit word from the addressable window
// using the currently selected bank.
func (m *Memory) GetU16(addr uint16) uint16 {
	lo := m.Fetch(addr)
	hi := m.Fetch(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

// ClearRAM zeroes all RAM and clears the initialized-banks bitmask.
func (m *Memory) ClearRAM() {
	for i := range m.ram {
		m.ram[i] = 0
	}
	m.initialized = 0
}

// LoadROM copies up to 512KiB of data starting at ROM address 0, clears
// RAM, patches the API-type byte at ROM offset 0x0112 to mark the image
// as HBIOS rather than UNA, and copies the first 512 bytes of ROM
// (page zero + HCB) into RAM bank 0 as the initial HCB.
func (m *Memory) LoadROM(data []byte) error {
	if len(data) == 0 {
		return ErrRomInvalid
	}
	if len(data) > romSize {
		return ErrRomInvalid
	}

	for i := range m.rom {
		m.rom[i] = 0
	}
	copy(m.rom[:], data)

	m.ClearRAM()

	m.rom[apiTypeOffset] = 0x00

	copy(m.ram[0:hcbSize], m.rom[0:hcbSize])
	m.initialized = 1 // bank 0 is now considered initialized

	return nil
}
