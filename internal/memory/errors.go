package memory

import "errors"

// ErrRomInvalid is returned by LoadROM when given empty or oversized ROM
// data.
var ErrRomInvalid = errors.New("ROM data is empty or exceeds 512KiB")
