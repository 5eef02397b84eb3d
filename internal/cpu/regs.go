package cpu

// indexBase returns the 16-bit value HL has been substituted with under
// the given index mode (IX, IY, or HL itself under idxNone).
func (c *CPU) indexBase(mode indexMode) uint16 {
	switch mode {
	case idxIX:
		return c.IX
	case idxIY:
		return c.IY
	default:
		return c.HL()
	}
}

func (c *CPU) setIndexBase(mode indexMode, v uint16) {
	switch mode {
	case idxIX:
		c.IX = v
	case idxIY:
		c.IY = v
	default:
		c.SetHL(v)
	}
}

// hlAddr resolves the effective address of an (HL)/(IX+d)/(IY+d)
// operand.  Under an index mode the displacement byte must already
// have been fetched (it always immediately follows the DD/FD prefix,
// before any other operand, including a CB opcode byte).
func (c *CPU) hlAddr(mode indexMode, disp byte) uint16 {
	if mode == idxNone {
		return c.HL()
	}
	return uint16(int32(c.indexBase(mode)) + int32(int8(disp)))
}

// reg8 reads one of the eight 3-bit-encoded 8-bit operands (B,C,D,E,H,L,
// (HL),A). Under an index mode, code 6 - the (HL) slot - becomes
// (IX+d)/(IY+d); codes 4 and 5 (H, L) are the undocumented IXH/IXL/
// IYH/IYL forms and are reported via reportUnimplemented, per the
// package doc comment's strict-mode contract.
func (c *CPU) reg8(code byte, mode indexMode, disp byte) byte {
	switch code {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		if mode != idxNone {
			c.reportUnimplemented(c.curOpcode, c.curPC)
			return 0
		}
		return c.H
	case 5:
		if mode != idxNone {
			c.reportUnimplemented(c.curOpcode, c.curPC)
			return 0
		}
		return c.L
	case 6:
		return c.read8(c.hlAddr(mode, disp))
	default:
		return c.A
	}
}

func (c *CPU) setReg8(code byte, mode indexMode, disp byte, v byte) {
	switch code {
	case 0:
		c.B = v
	case 1:
		c.C = v
	case 2:
		c.D = v
	case 3:
		c.E = v
	case 4:
		if mode != idxNone {
			c.reportUnimplemented(c.curOpcode, c.curPC)
			return
		}
		c.H = v
	case 5:
		if mode != idxNone {
			c.reportUnimplemented(c.curOpcode, c.curPC)
			return
		}
		c.L = v
	case 6:
		c.write8(c.hlAddr(mode, disp), v)
	default:
		c.A = v
	}
}

// reg16 reads one of the four 2-bit-encoded 16-bit pairs used by
// LD rp,nn / INC rp / DEC rp / ADD HL,rp, with rp index 2 (HL)
// substituted for IX/IY under an index mode.
func (c *CPU) reg16(p byte, mode indexMode) uint16 {
	switch p {
	case 0:
		return c.BC()
	case 1:
		return c.DE()
	case 2:
		return c.indexBase(mode)
	default:
		return c.SP
	}
}

func (c *CPU) setReg16(p byte, mode indexMode, v uint16) {
	switch p {
	case 0:
		c.SetBC(v)
	case 1:
		c.SetDE(v)
	case 2:
		c.setIndexBase(mode, v)
	default:
		c.SP = v
	}
}

// reg16Push reads one of the four push/pop-encoded pairs (BC,DE,HL,AF),
// with HL substituted for IX/IY under an index mode.
func (c *CPU) reg16Push(p byte, mode indexMode) uint16 {
	switch p {
	case 0:
		return c.BC()
	case 1:
		return c.DE()
	case 2:
		return c.indexBase(mode)
	default:
		return c.AF()
	}
}

func (c *CPU) setReg16Push(p byte, mode indexMode, v uint16) {
	switch p {
	case 0:
		c.SetBC(v)
	case 1:
		c.SetDE(v)
	case 2:
		c.setIndexBase(mode, v)
	default:
		c.SetAF(v)
	}
}

// condition evaluates one of the eight 3-bit-encoded condition codes
// (NZ,Z,NC,C,PO,PE,P,M).
func (c *CPU) condition(y byte) bool {
	switch y {
	case 0:
		return !c.flag(FlagZ)
	case 1:
		return c.flag(FlagZ)
	case 2:
		return !c.flag(FlagC)
	case 3:
		return c.flag(FlagC)
	case 4:
		return !c.flag(FlagPV)
	case 5:
		return c.flag(FlagPV)
	case 6:
		return !c.flag(FlagS)
	default:
		return c.flag(FlagS)
	}
}
