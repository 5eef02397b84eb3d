package hbios

// Console I/O function group (0x00-0x06). Register C carries the
// console unit selector; only unit 0 (the single emulated console) is
// recognised, but the functions don't reject other values since real
// firmware sometimes probes units speculatively.

func (d *Dispatch) cioIn() {
	if ch, ok := d.blockingInputOrNeedsInput(); ok {
		d.cpu.A = StatusOK
		d.cpu.E = ch
		return
	}
	d.cpu.A = StatusNoData
	d.cpu.E = 0
	d.state = StateNeedsInput
}

func (d *Dispatch) cioOut() {
	d.pushOutput(d.cpu.E)
	d.cpu.A = StatusOK
}

func (d *Dispatch) cioIst() {
	if d.HasPendingInput() {
		d.cpu.A = 0xFF
	} else {
		d.cpu.A = 0x00
	}
}

func (d *Dispatch) cioOst() {
	// No output flow control is modelled; the console is always ready.
	d.cpu.A = 0xFF
}

func (d *Dispatch) cioInit() {
	d.cpu.A = StatusOK
}

func (d *Dispatch) cioQuery() {
	d.cpu.A = StatusOK
	d.cpu.E = 1 // one console unit is present
}

func (d *Dispatch) cioDevice() {
	d.cpu.A = StatusOK
	d.cpu.E = 0x01 // ANSI-capable console device type
}
