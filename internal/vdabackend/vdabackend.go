// Package vdabackend is a registry of headless VDA delegates: hbios.Delegate
// implementations that don't need a real terminal, selected by name at
// startup the same way the teacher's consoleout package selects an output
// driver. internal/hostterm covers the interactive termbox case; these
// drivers are for ANSI pipes, scripted automation and tests.
package vdabackend

import "github.com/avwohl/romwbw-emu/internal/hbios"

// Constructor builds one backend instance.
type Constructor func() hbios.Delegate

var registry = map[string]Constructor{}

// Register makes a backend available by name.
func Register(name string, ctor Constructor) {
	registry[name] = ctor
}

// New constructs the named backend, or reports that no such name is registered.
func New(name string) (hbios.Delegate, bool) {
	ctor, ok := registry[name]
	if !ok {
		return nil, false
	}
	return ctor(), true
}

// Names returns every registered backend name, for a usage message.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	return names
}
