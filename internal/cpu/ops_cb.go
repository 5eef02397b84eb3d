package cpu

// stepCB decodes and executes a CB-prefixed opcode.  When mode is not
// idxNone, disp is the displacement byte already fetched between the
// DD/FD prefix and the CB opcode byte (the Z80's fixed DDCB/FDCB
// instruction layout), and the operand is always (IX+d)/(IY+d)
// regardless of the z field - the "copy result into register z" side
// effect some real chips exhibit for z!=6 is undocumented and not
// reproduced here.
func (c *CPU) stepCB(mode indexMode, disp byte) {
	// Every byte fetched as an opcode bumps R (see fetchOpcode): an
	// unprefixed CB instruction bumps it twice (CB, then the opcode
	// below), a DDCB/FDCB instruction three times (DD/FD, CB, then the
	// opcode byte below that follows the displacement).
	pcBefore := c.PC
	opcode := c.fetchOpcode()

	x := opcode >> 6
	y := (opcode >> 3) & 7
	z := opcode & 7

	var addr uint16
	usesMemory := mode != idxNone || z == 6
	if usesMemory {
		addr = c.hlAddr(mode, disp)
	}

	read := func() byte {
		if usesMemory {
			return c.read8(addr)
		}
		return c.reg8(z, idxNone, 0)
	}
	write := func(v byte) {
		if mode != idxNone {
			c.write8(addr, v)
			if z != 6 {
				// Documented subset only writes to memory.
			}
			return
		}
		if z == 6 {
			c.write8(addr, v)
			return
		}
		c.setReg8(z, idxNone, 0, v)
	}

	switch x {
	case 0:
		if y == 6 {
			// SLL/SLS: undocumented, not implemented.
			c.reportUnimplemented(opcode, pcBefore)
			return
		}
		write(c.rotateCB(y, read()))
	case 1:
		c.bit(y, read())
	case 2:
		write(setBit(y, read(), false))
	default:
		write(setBit(y, read(), true))
	}
}
