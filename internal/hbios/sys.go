package hbios

import "github.com/avwohl/romwbw-emu/internal/version"

// System function group (0xF0-0xFE) plus EXTSLICE (0xE0).

func (d *Dispatch) extSlice() {
	u := d.unit()
	n := uint32(d.cpu.E)
	sectors, sliceSectors, err := d.disks.Capacity(u)
	if err != nil {
		d.cpu.A = diskStatus(err)
		return
	}
	if n*sliceSectors >= sectors {
		d.cpu.A = StatusDiskOutOfRange
		return
	}
	d.sliceOffset[u] = n * sliceSectors
	d.cpu.A = diskStatus(d.disks.Seek(u, d.sliceOffset[u]))
}

func (d *Dispatch) sysReset() {
	warm := d.cpu.E == 0x01
	d.bootInProgress = false
	if d.resetCallback != nil {
		d.resetCallback(warm)
	}
	d.cpu.A = StatusOK
}

func (d *Dispatch) sysVer() {
	d.cpu.D = VersionMajor
	d.cpu.E = VersionMinor
	d.cpu.A = StatusOK
}

func (d *Dispatch) sysSetBnk() {
	d.mem.SelectBank(d.cpu.E)
	d.cpu.A = StatusOK
}

func (d *Dispatch) sysGetBnk() {
	d.cpu.E = d.mem.Bank()
	d.cpu.A = StatusOK
}

// bnkCopy implements the bank-copy helper named in spec.md's Design
// Notes: it copies a run of bytes between two explicit banks,
// independent of whichever bank the CPU currently has selected, using
// the HCB-fixed bank-number cells as the source/destination banks and
// HL/DE/BC as address/address/length.
func (d *Dispatch) bnkCopy() {
	srcBank := d.mem.Fetch(hcbSrcBankAddr)
	dstBank := d.mem.Fetch(hcbDstBankAddr)
	src := d.cpu.HL()
	dst := d.cpu.DE()
	length := d.cpu.BC()

	for i := uint16(0); i < length; i++ {
		v := d.mem.ReadBank(srcBank, src+i)
		d.mem.WriteBank(dstBank, dst+i, v)
	}
	d.cpu.A = StatusOK
}

// bnkCopyX is the extended form: the same copy, but crossing the
// 32KiB bank boundary is explicit in the caller's addresses (HL/DE can
// each legally reach into 0x8000-0xFFFF, which always resolves to the
// common RAM bank regardless of srcBank/dstBank - see
// internal/memory's WriteBank).
func (d *Dispatch) bnkCopyX() {
	d.bnkCopy()
}

func (d *Dispatch) sysAlloc() {
	// No dynamic HBIOS memory allocator is modelled; every request
	// reports the single available common-area scratch region.
	d.cpu.SetHL(0x8000)
	d.cpu.A = StatusOK
}

func (d *Dispatch) sysGet() {
	switch d.cpu.C {
	case SysGetBlockingPolicy:
		d.cpu.E = b2u8(d.blockingAllowed)
	case SysGetHostVersion:
		s := version.String()
		addr := d.cpu.HL()
		for i := 0; i < len(s); i++ {
			d.mem.Store(addr+uint16(i), s[i])
		}
		d.mem.Store(addr+uint16(len(s)), 0)
		d.cpu.E = byte(len(s))
	default:
		d.cpu.E = 0
	}
	d.cpu.A = StatusOK
}

func (d *Dispatch) sysSet() {
	switch d.cpu.C {
	case SysGetBlockingPolicy:
		d.blockingAllowed = d.cpu.E != 0
	}
	d.cpu.A = StatusOK
}

func b2u8(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func (d *Dispatch) sysPeek() {
	d.cpu.E = d.mem.Fetch(d.cpu.HL())
	d.cpu.A = StatusOK
}

func (d *Dispatch) sysPoke() {
	d.mem.Store(d.cpu.HL(), d.cpu.E)
	d.cpu.A = StatusOK
}

// sysBoot marks the boot sequence in progress and, if a boot unit is
// present, seeks it to the start. Firmware is expected to keep issuing
// DIOREAD calls itself; this function only records that a boot attempt
// has begun so the driver can report boot progress through Delegate.
func (d *Dispatch) sysBoot() {
	d.bootInProgress = true
	u := d.unit()
	if d.disks.Present(u) {
		d.cpu.A = diskStatus(d.disks.Seek(u, 0))
		return
	}
	d.cpu.A = StatusDiskNotPresent
}

func (d *Dispatch) buildFunctionTable() map[uint8]fn {
	return map[uint8]fn{
		FnCIOIN:     {"CIOIN", (*Dispatch).cioIn},
		FnCIOOUT:    {"CIOOUT", (*Dispatch).cioOut},
		FnCIOIST:    {"CIOIST", (*Dispatch).cioIst},
		FnCIOOST:    {"CIOOST", (*Dispatch).cioOst},
		FnCIOINIT:   {"CIOINIT", (*Dispatch).cioInit},
		FnCIOQUERY:  {"CIOQUERY", (*Dispatch).cioQuery},
		FnCIODEVICE: {"CIODEVICE", (*Dispatch).cioDevice},

		FnDIOSTATUS: {"DIOSTATUS", (*Dispatch).dioStatus},
		FnDIORESET:  {"DIORESET", (*Dispatch).dioReset},
		FnDIOSEEK:   {"DIOSEEK", (*Dispatch).dioSeek},
		FnDIOREAD:   {"DIOREAD", (*Dispatch).dioRead},
		FnDIOWRITE:  {"DIOWRITE", (*Dispatch).dioWrite},
		FnDIOVERIFY: {"DIOVERIFY", (*Dispatch).dioVerify},
		FnDIOFORMAT: {"DIOFORMAT", (*Dispatch).dioFormat},
		FnDIODEVICE: {"DIODEVICE", (*Dispatch).dioDevice},
		FnDIOMEDIA:  {"DIOMEDIA", (*Dispatch).dioMedia},
		FnDIODEFMED: {"DIODEFMED", (*Dispatch).dioDefMed},
		FnDIOCAP:    {"DIOCAP", (*Dispatch).dioCap},
		FnDIOGEOM:   {"DIOGEOM", (*Dispatch).dioGeom},

		FnRTCGETTIM: {"RTCGETTIM", (*Dispatch).rtcGetTim},
		FnRTCSETTIM: {"RTCSETTIM", (*Dispatch).rtcSetTim},

		FnVDACLEAR:     {"VDACLEAR", (*Dispatch).vdaClear},
		FnVDASETCURSOR: {"VDASETCURSOR", (*Dispatch).vdaSetCursor},
		FnVDAWRITECHAR: {"VDAWRITECHAR", (*Dispatch).vdaWriteChar},
		FnVDASCROLLUP:  {"VDASCROLLUP", (*Dispatch).vdaScrollUp},
		FnVDASETATTR:   {"VDASETATTR", (*Dispatch).vdaSetAttr},
		FnVDAKEYSTATUS: {"VDAKEYSTATUS", (*Dispatch).vdaKeyStatus},
		FnVDAKEYREAD:   {"VDAKEYREAD", (*Dispatch).vdaKeyRead},

		FnEXTSLICE: {"EXTSLICE", (*Dispatch).extSlice},

		FnSYSRESET:  {"SYSRESET", (*Dispatch).sysReset},
		FnSYSVER:    {"SYSVER", (*Dispatch).sysVer},
		FnSYSSETBNK: {"SYSSETBNK", (*Dispatch).sysSetBnk},
		FnSYSGETBNK: {"SYSGETBNK", (*Dispatch).sysGetBnk},
		FnBNKCOPY:   {"BNKCOPY", (*Dispatch).bnkCopy},
		FnBNKCOPYX:  {"BNKCOPYX", (*Dispatch).bnkCopyX},
		FnALLOC:     {"ALLOC", (*Dispatch).sysAlloc},
		FnSYSGET:    {"SYSGET", (*Dispatch).sysGet},
		FnSYSSET:    {"SYSSET", (*Dispatch).sysSet},
		FnSYSPEEK:   {"SYSPEEK", (*Dispatch).sysPeek},
		FnSYSPOKE:   {"SYSPOKE", (*Dispatch).sysPoke},
		FnSYSBOOT:   {"SYSBOOT", (*Dispatch).sysBoot},
	}
}
