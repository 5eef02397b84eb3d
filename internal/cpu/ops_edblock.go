package cpu

// execEDBlock implements the sixteen block transfer/search/IO
// instructions: LDI/LDD/LDIR/LDDR, CPI/CPD/CPIR/CPDR, INI/IND/INIR/
// INDR, OUTI/OUTD/OTIR/OTDR.
//
// Per spec.md §4.2, a repeating form (LDIR etc.) performs exactly one
// iteration per Step call: if BC (or B, for the IN/OUT forms) is still
// non-zero afterwards, PC is rewound to re-execute the same
// instruction on the next Step; otherwise execution falls through.
func (c *CPU) execEDBlock(opcode byte) {
	y := (opcode >> 3) & 7
	z := opcode & 7

	increment := y == 4 || y == 6
	repeat := y == 6 || y == 7

	var step int16 = 1
	if !increment {
		step = -1
	}

	switch z {
	case 0:
		c.blockLD(step, repeat)
	case 1:
		c.blockCP(step, repeat)
	case 2:
		c.blockIN(step, repeat)
	default:
		c.blockOUT(step, repeat)
	}
}

func (c *CPU) blockLD(step int16, repeat bool) {
	hl := c.HL()
	de := c.DE()
	v := c.read8(hl)
	c.write8(de, v)

	c.SetHL(uint16(int32(hl) + int32(step)))
	c.SetDE(uint16(int32(de) + int32(step)))
	bc := c.BC() - 1
	c.SetBC(bc)

	// S, Z and C are left untouched by LDI/LDD/LDIR/LDDR.
	c.setFlag(FlagH, false)
	c.setFlag(FlagN, false)
	c.setFlag(FlagPV, bc != 0)

	if repeat && bc != 0 {
		c.PC -= 2
	}
}

func (c *CPU) blockCP(step int16, repeat bool) {
	hl := c.HL()
	v := c.read8(hl)
	a := c.A

	res := a - v
	c.setSZ(res)
	halfCarry := (a & 0x0F) < (v & 0x0F)
	c.setFlag(FlagH, halfCarry)
	c.setFlag(FlagN, true)

	c.SetHL(uint16(int32(hl) + int32(step)))
	bc := c.BC() - 1
	c.SetBC(bc)
	c.setFlag(FlagPV, bc != 0)

	if repeat && bc != 0 && res != 0 {
		c.PC -= 2
	}
}

func (c *CPU) blockIN(step int16, repeat bool) {
	hl := c.HL()
	v := c.host.PortIn(c.C)
	c.write8(hl, v)
	c.SetHL(uint16(int32(hl) + int32(step)))
	c.B--
	c.setFlag(FlagZ, c.B == 0)
	c.setFlag(FlagN, true)

	if repeat && c.B != 0 {
		c.PC -= 2
	}
}

func (c *CPU) blockOUT(step int16, repeat bool) {
	hl := c.HL()
	v := c.read8(hl)
	c.host.PortOut(c.C, v)
	c.SetHL(uint16(int32(hl) + int32(step)))
	c.B--
	c.setFlag(FlagZ, c.B == 0)
	c.setFlag(FlagN, true)

	if repeat && c.B != 0 {
		c.PC -= 2
	}
}
