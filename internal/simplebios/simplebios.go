// Package simplebios installs the plain CP/M 2.2 BIOS memory layout:
// a jump table, one disk parameter block, four disk parameter headers
// and their work areas, built directly into memory rather than loaded
// from an assembled BIOS image.
//
// This is the boundary contract for a secondary, non-HBIOS boot path:
// a CCP+BDOS image loaded at CPMLoadAddr expects to find a complete
// BIOS resident at BIOSBase. Servicing the BIOS calls themselves (what
// a host does when the CPU's PC lands inside the jump table, since
// those entries are never really executed) is the external
// collaborator's job; this package only builds and identifies the
// table, bit-exact, so that boundary is independently testable.
package simplebios

import "github.com/avwohl/romwbw-emu/internal/memory"

const (
	// CPMLoadAddr is the conventional CCP+BDOS load address for a
	// plain (non-banked) CP/M 2.2 system.
	CPMLoadAddr = 0xE000

	// BIOSBase is the first address of the 17-entry BIOS jump table.
	BIOSBase = 0xF600

	XLTTabAddr = 0xF633
	DPB0Addr   = 0xF64D
	DPH0Addr   = 0xF65C
	DPH1Addr   = 0xF66C
	DPH2Addr   = 0xF67C
	DPH3Addr   = 0xF68C
	DirBufAddr = 0xF69C
	CSV0Addr   = 0xF71C
	ALV0Addr   = 0xF75C
)

// BIOS entry offsets, relative to BIOSBase, in jump-table order.
const (
	EntryBOOT   = 0x00
	EntryWBOOT  = 0x03
	EntryCONST  = 0x06
	EntryCONIN  = 0x09
	EntryCONOUT = 0x0C
	EntryLIST   = 0x0F
	EntryPUNCH  = 0x12
	EntryREADER = 0x15
	EntryHOME   = 0x18
	EntrySELDSK = 0x1B
	EntrySETTRK = 0x1E
	EntrySETSEC = 0x21
	EntrySETDMA = 0x24
	EntryREAD   = 0x27
	EntryWRITE  = 0x2A
	EntryPRSTAT = 0x2D
	EntrySECTRN = 0x30

	entryCount = 17
	tableSize  = 0x33 // 17 entries * 3 bytes
)

// Disk geometry for the single supported format: an 8" SSSD image.
const (
	Tracks     = 77
	Sectors    = 26
	SectorSize = 128
	TrackSize  = Sectors * SectorSize
	DiskSize   = Tracks * TrackSize
)

// skewTable is the IBM 8" SSSD sector translation table (1-indexed
// physical sector numbers).
var skewTable = [26]byte{
	1, 7, 13, 19, 25, 5, 11, 17, 23, 3, 9, 15, 21,
	2, 8, 14, 20, 26, 6, 12, 18, 24, 4, 10, 16, 22,
}

// Skew maps a 1-based logical sector number to its physical sector
// number via skewTable, for SECTRN. Out-of-range input is returned
// unchanged.
func Skew(logical byte) byte {
	if logical < 1 || int(logical) > len(skewTable) {
		return logical
	}
	return skewTable[logical-1]
}

// Install writes the complete BIOS layout into mem's currently
// selected bank: a self-referential jump table (the host traps every
// entry rather than ever executing it, but several CP/M programs read
// the table's bytes directly, so it needs to look plausible), the
// sector skew table, one DPB and four DPHs for drives A-D, and zeroed
// work areas.
func Install(mem *memory.Memory) {
	for i := 0; i < entryCount; i++ {
		addr := uint16(BIOSBase + i*3)
		mem.Store(addr, 0xC3) // JMP
		mem.Store(addr+1, byte(addr))
		mem.Store(addr+2, byte(addr>>8))
	}

	for i, s := range skewTable {
		mem.Store(uint16(XLTTabAddr+i), s)
	}

	installDPB(mem)
	installDPHs(mem)

	for i := 0; i < 128; i++ {
		mem.Store(uint16(DirBufAddr+i), 0)
	}
	for i := 0; i < 64; i++ {
		mem.Store(uint16(CSV0Addr+i), 0)
	}
	for i := 0; i < 124; i++ {
		mem.Store(uint16(ALV0Addr+i), 0)
	}
}

// installDPB writes the 15-byte Disk Parameter Block for an 8" SSSD
// volume: 26 128-byte sectors/track, 1K allocation blocks, 243 blocks
// (DSM 242), 64 directory entries, directory occupies blocks 0-1,
// 2 reserved tracks.
func installDPB(mem *memory.Memory) {
	dpb := []byte{
		26, 0, // SPT
		3,      // BSH
		7,      // BLM
		0,      // EXM
		242, 0, // DSM
		63, 0, // DRM
		0xC0, 0, // AL0/AL1
		16, 0, // CKS
		2, 0, // OFF
	}
	for i, b := range dpb {
		mem.Store(uint16(DPB0Addr+i), b)
	}
}

var dphAddrs = [4]uint16{DPH0Addr, DPH1Addr, DPH2Addr, DPH3Addr}

// installDPHs writes the four 16-byte Disk Parameter Headers, each
// pointing at the shared DPB/DIRBUF and its own 16-byte checksum
// vector and 31-byte allocation vector.
func installDPHs(mem *memory.Memory) {
	for drive := 0; drive < 4; drive++ {
		dph := dphAddrs[drive]
		csv := uint16(CSV0Addr + drive*16)
		alv := uint16(ALV0Addr + drive*31)

		mem.Store(dph+0, 0) // XLT: disk images are not skewed
		mem.Store(dph+1, 0)
		for i := 2; i <= 7; i++ {
			mem.Store(dph+uint16(i), 0) // BDOS scratch area
		}
		mem.Store(dph+8, byte(uint16(DirBufAddr)&0xFF))
		mem.Store(dph+9, byte(uint16(DirBufAddr)>>8))
		mem.Store(dph+10, byte(uint16(DPB0Addr)&0xFF))
		mem.Store(dph+11, byte(uint16(DPB0Addr)>>8))
		mem.Store(dph+12, byte(csv))
		mem.Store(dph+13, byte(csv>>8))
		mem.Store(dph+14, byte(alv))
		mem.Store(dph+15, byte(alv>>8))
	}
}

// IsBIOSCall reports whether pc has landed inside the BIOS jump table,
// and if so, which entry offset (0x00, 0x03, ... 0x30) it landed on.
func IsBIOSCall(pc uint16) (offset uint16, ok bool) {
	if pc < BIOSBase || pc >= BIOSBase+tableSize {
		return 0, false
	}
	off := pc - BIOSBase
	return off - off%3, true
}
