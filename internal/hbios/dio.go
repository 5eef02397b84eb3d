package hbios

import "github.com/avwohl/romwbw-emu/internal/diskstore"

// Disk I/O function group (0x10-0x1B). Register C carries the disk
// unit index (0-15). A sector-LBA-taking function reads the 32-bit
// LBA as HL (low word) / DE (high word); a buffer-taking function
// reads/writes 512 bytes starting at the address in HL, through the
// currently selected memory bank.

func diskStatus(err error) byte {
	switch err {
	case nil:
		return StatusOK
	case diskstore.ErrUnitOutOfRange:
		return StatusDiskOutOfRange
	case diskstore.ErrNotPresent:
		return StatusDiskNotPresent
	case diskstore.ErrSectorOutOfRange:
		return StatusDiskSectorOutOfRange
	default:
		return StatusInvalid
	}
}

func (d *Dispatch) unit() int {
	return int(d.cpu.C)
}

func lba(hi, lo uint16) uint32 {
	return uint32(hi)<<16 | uint32(lo)
}

func (d *Dispatch) dioStatus() {
	d.cpu.A = StatusOK
	if !d.disks.Present(d.unit()) {
		d.cpu.A = StatusDiskNotPresent
	}
}

func (d *Dispatch) dioReset() {
	d.cpu.A = diskStatus(d.disks.Seek(d.unit(), 0))
}

func (d *Dispatch) dioSeek() {
	l := lba(d.cpu.DE(), d.cpu.HL())
	d.cpu.A = diskStatus(d.disks.Seek(d.unit(), l))
}

func (d *Dispatch) dioRead() {
	buf := make([]byte, diskstore.SectorSize)
	err := d.disks.ReadSector(d.unit(), buf)
	d.cpu.A = diskStatus(err)
	if err != nil {
		return
	}
	addr := d.cpu.HL()
	for i, b := range buf {
		d.mem.Store(addr+uint16(i), b)
	}
}

func (d *Dispatch) dioWrite() {
	buf := make([]byte, diskstore.SectorSize)
	addr := d.cpu.HL()
	for i := range buf {
		buf[i] = d.mem.Fetch(addr + uint16(i))
	}
	d.cpu.A = diskStatus(d.disks.WriteSector(d.unit(), buf))
}

func (d *Dispatch) dioVerify() {
	buf := make([]byte, diskstore.SectorSize)
	d.cpu.A = diskStatus(d.disks.ReadSector(d.unit(), buf))
}

func (d *Dispatch) dioFormat() {
	d.cpu.A = StatusOK
}

func (d *Dispatch) dioDevice() {
	if d.disks.Present(d.unit()) {
		d.cpu.A = StatusOK
		d.cpu.E = 0x00
	} else {
		d.cpu.A = StatusOK
		d.cpu.E = 0x01
	}
}

func (d *Dispatch) dioMedia() {
	d.cpu.A = StatusOK
	d.cpu.E = 0x01 // fixed, non-removable media
}

func (d *Dispatch) dioDefMed() {
	d.cpu.A = StatusOK
}

func (d *Dispatch) dioCap() {
	sectors, _, err := d.disks.Capacity(d.unit())
	d.cpu.A = diskStatus(err)
	d.cpu.SetHL(uint16(sectors))
	d.cpu.SetDE(uint16(sectors >> 16))
}

func (d *Dispatch) dioGeom() {
	_, sliceSectors, err := d.disks.Capacity(d.unit())
	d.cpu.A = diskStatus(err)
	d.cpu.SetHL(uint16(sliceSectors))
	d.cpu.SetDE(diskstore.SectorSize)
}
