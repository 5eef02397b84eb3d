package hbios

// Video Display Adapter function group (0x40-0x4E). Each output
// function calls straight through to the Delegate; when no delegate has
// been installed, they are no-ops that still report success, so a
// headless driver can run a VDA-using ROM without a display attached.
// The two keyboard functions read HBIOS's own input ring instead.

func (d *Dispatch) vdaClear() {
	if d.delegate != nil {
		d.delegate.VDAClear()
	}
	d.cpu.A = StatusOK
}

func (d *Dispatch) vdaSetCursor() {
	if d.delegate != nil {
		d.delegate.VDASetCursor(d.cpu.D, d.cpu.E)
	}
	d.cpu.A = StatusOK
}

func (d *Dispatch) vdaWriteChar() {
	if d.delegate != nil {
		d.delegate.VDAWriteChar(d.cpu.E)
	}
	d.cpu.A = StatusOK
}

func (d *Dispatch) vdaScrollUp() {
	if d.delegate != nil {
		d.delegate.VDAScrollUp(d.cpu.E)
	}
	d.cpu.A = StatusOK
}

func (d *Dispatch) vdaSetAttr() {
	if d.delegate != nil {
		d.delegate.VDASetAttr(d.cpu.E)
	}
	d.cpu.A = StatusOK
}

func (d *Dispatch) vdaKeyStatus() {
	if d.HasPendingInput() {
		d.cpu.A = 0xFF
	} else {
		d.cpu.A = 0x00
	}
}

func (d *Dispatch) vdaKeyRead() {
	if ch, ok := d.blockingInputOrNeedsInput(); ok {
		d.cpu.A = StatusOK
		d.cpu.E = ch
		return
	}
	d.cpu.A = StatusNoData
	d.state = StateNeedsInput
}
