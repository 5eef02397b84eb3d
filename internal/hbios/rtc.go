package hbios

import "time"

// Real-time clock function group. The emulated RTC is read-only and
// reflects host wall-clock time BCD-encoded the way RomWBW firmware
// expects: year-100, month, day, hour, minute, second, each 0-99.

func bcd(v int) byte {
	return byte((v/10)<<4 | (v % 10))
}

func (d *Dispatch) rtcGetTim() {
	now := time.Now()
	d.cpu.B = bcd(now.Year() % 100)
	d.cpu.C = bcd(int(now.Month()))
	d.cpu.D = bcd(now.Day())
	d.cpu.E = bcd(now.Hour())
	d.cpu.H = bcd(now.Minute())
	d.cpu.L = bcd(now.Second())
	d.cpu.A = StatusOK
}

func (d *Dispatch) rtcSetTim() {
	// The emulated clock tracks host time and cannot be set.
	d.cpu.A = StatusInvalid
}
