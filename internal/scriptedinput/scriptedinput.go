// Package scriptedinput feeds console input from a file instead of a
// real keyboard, for batch runs and automation - the same job the
// teacher's consolein file-driver does, adapted to feed a Driver's
// QueueInput instead of being polled through a ConsoleInput interface.
//
// A '#' byte in the script is not queued; it instead introduces a
// one-second pause, matching the teacher driver's reasoning: some
// guest software polls for input while processing something else, and
// without an artificial delay a character queued too early can be
// dropped on a fast host.
package scriptedinput

import (
	"os"
	"time"
)

// Feeder walks a script's bytes one at a time.
type Feeder struct {
	content    []byte
	offset     int
	delayUntil time.Time
}

// Load reads path into a new Feeder.
func Load(path string) (*Feeder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &Feeder{content: data}, nil
}

// Pending reports whether Next would currently return a byte: there is
// unconsumed script content and no pause is in effect. A '#' at the
// current offset is consumed here and starts a one-second pause, so
// Pending reports false until that pause has elapsed.
func (f *Feeder) Pending() bool {
	if time.Now().Before(f.delayUntil) {
		return false
	}
	if f.offset < len(f.content) && f.content[f.offset] == '#' {
		f.offset++
		f.delayUntil = time.Now().Add(time.Second)
		return false
	}
	return f.offset < len(f.content)
}

// Next returns the script's next byte and advances past it; ok is false
// once the script is exhausted. Next does not wait out a pause itself:
// a '#' it reaches without a prior Pending call is swallowed, starts
// the pause, and the following byte (if any) is returned in its place.
func (f *Feeder) Next() (ch byte, ok bool) {
	for f.offset < len(f.content) {
		b := f.content[f.offset]
		f.offset++
		if b == '#' {
			f.delayUntil = time.Now().Add(time.Second)
			continue
		}
		return b, true
	}
	return 0, false
}
