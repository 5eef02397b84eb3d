// Package version stores the emulator's own release identifier in one
// place, since it is needed both by the CLI's -version flag and by the
// SYSGET host-version extension (internal/hbios's sysGet, sub-code
// SysGetHostVersion) - duplicating the string in both spots would be a
// recipe for the two answers drifting apart.
package version

import "fmt"

// number is populated with the release tag, via a build-time Action in
// the source distribution.
var number = "unreleased"

// Banner returns a one-line, newline-terminated string suitable for
// printing with -version.
func Banner() string {
	return fmt.Sprintf("romwbw-emu %s\n", number)
}

// String returns the bare version number.
func String() string {
	return number
}
