// Package diskstore implements the virtual disk subsystem: a fixed
// table of 16 block devices, addressed by unit index, whose contents
// live entirely in host memory and are optionally persisted as
// byte-blobs by the caller.
//
// A disk image is divided into 8MiB "slices" (16384 512-byte sectors
// each); a unit may expose 1-8 of the slices present in its backing
// blob as distinct logical units via SetSliceCount/Capacity, per
// spec.md §3/§4.3.
package diskstore

import "errors"

const (
	// SectorSize is the fixed sector size, in bytes, of every disk
	// unit managed by the store.
	SectorSize = 512

	// SectorsPerSlice is the number of sectors in one 8MiB slice.
	SectorsPerSlice = 16384

	// UnitCount is the number of disk units in the table.
	UnitCount = 16
)

var (
	// ErrUnitOutOfRange is returned for a unit index outside 0..15.
	ErrUnitOutOfRange = errors.New("disk unit out of range")

	// ErrNotPresent is returned when an operation targets a unit with
	// no blob attached.
	ErrNotPresent = errors.New("disk unit not present")

	// ErrSectorOutOfRange is returned when a read or write would
	// access a sector beyond the attached blob's length (Invariant C).
	ErrSectorOutOfRange = errors.New("sector out of range")

	// ErrSliceCount is returned by SetSliceCount for n outside 1..8.
	ErrSliceCount = errors.New("slice count must be between 1 and 8")
)

// unit holds the state of a single disk device.
type unit struct {
	present     bool
	data        []byte
	sliceCount  uint8
	position    uint32
	dirty       bool
}

// Store is the 16-unit disk table.
type Store struct {
	units [UnitCount]unit
}

// New returns an empty Store with all units absent.
func New() *Store {
	return &Store{}
}

func checkUnit(u int) error {
	if u < 0 || u >= UnitCount {
		return ErrUnitOutOfRange
	}
	return nil
}

// Attach installs a blob as the backing data for unit u, resetting its
// seek position and dirty flag.  sliceCount must be between 1 and 8.
func (s *Store) Attach(u int, data []byte, sliceCount uint8) error {
	if err := checkUnit(u); err != nil {
		return err
	}
	if sliceCount < 1 || sliceCount > 8 {
		return ErrSliceCount
	}
	s.units[u] = unit{
		present:    true,
		data:       data,
		sliceCount: sliceCount,
	}
	return nil
}

// Detach marks unit u absent and drops its backing bytes.
func (s *Store) Detach(u int) error {
	if err := checkUnit(u); err != nil {
		return err
	}
	s.units[u] = unit{}
	return nil
}

// CloseAll detaches every unit.
func (s *Store) CloseAll() {
	for i := range s.units {
		s.units[i] = unit{}
	}
}

// SetSliceCount changes the number of slices exposed by unit u.
func (s *Store) SetSliceCount(u int, n uint8) error {
	if err := checkUnit(u); err != nil {
		return err
	}
	if n < 1 || n > 8 {
		return ErrSliceCount
	}
	s.units[u].sliceCount = n
	return nil
}

// Seek sets the current sector position for unit u.  No bounds check is
// performed here; out-of-range positions are caught on the next access.
func (s *Store) Seek(u int, lba uint32) error {
	if err := checkUnit(u); err != nil {
		return err
	}
	s.units[u].position = lba
	return nil
}

// Position returns unit u's current sector position.
func (s *Store) Position(u int) (uint32, error) {
	if err := checkUnit(u); err != nil {
		return 0, err
	}
	return s.units[u].position, nil
}

// Present reports whether a blob is attached to unit u.
func (s *Store) Present(u int) bool {
	if checkUnit(u) != nil {
		return false
	}
	return s.units[u].present
}

// Dirty reports whether unit u has been written to since attach/reset.
func (s *Store) Dirty(u int) bool {
	if checkUnit(u) != nil {
		return false
	}
	return s.units[u].dirty
}

// Data returns the raw backing bytes for unit u, for host persistence.
// Per spec.md §5, calling this while a batch is mid-flight is
// undefined; callers are expected to call it only between batches.
func (s *Store) Data(u int) ([]byte, error) {
	if err := checkUnit(u); err != nil {
		return nil, err
	}
	if !s.units[u].present {
		return nil, ErrNotPresent
	}
	return s.units[u].data, nil
}

// ReadSector reads 512 bytes at the unit's current position into buf,
// then advances the position by one sector.  buf must be at least
// SectorSize bytes; only the first SectorSize bytes are written.
func (s *Store) ReadSector(u int, buf []byte) error {
	if err := checkUnit(u); err != nil {
		return err
	}
	dk := &s.units[u]
	if !dk.present {
		return ErrNotPresent
	}
	start := int64(dk.position) * SectorSize
	if start+SectorSize > int64(len(dk.data)) {
		return ErrSectorOutOfRange
	}
	copy(buf, dk.data[start:start+SectorSize])
	dk.position++
	return nil
}

// WriteSector writes the first SectorSize bytes of buf at the unit's
// current position, then advances the position by one sector.
func (s *Store) WriteSector(u int, buf []byte) error {
	if err := checkUnit(u); err != nil {
		return err
	}
	dk := &s.units[u]
	if !dk.present {
		return ErrNotPresent
	}
	start := int64(dk.position) * SectorSize
	if start+SectorSize > int64(len(dk.data)) {
		return ErrSectorOutOfRange
	}
	copy(dk.data[start:start+SectorSize], buf[:SectorSize])
	dk.position++
	dk.dirty = true
	return nil
}

// Capacity returns the total sector count visible through unit u's
// attached slices, and the sector count of a single slice
// (SectorsPerSlice), for DIOCAP/DIOGEOM-style queries.
func (s *Store) Capacity(u int) (sectors uint32, sliceSectors uint32, err error) {
	if err = checkUnit(u); err != nil {
		return 0, 0, err
	}
	dk := &s.units[u]
	return uint32(dk.sliceCount) * SectorsPerSlice, SectorsPerSlice, nil
}
