// SPDX-License-Identifier: Unlicense OR MIT

package gpu

import (
	"errors"
)

type slotState uint8

const (
	slotEmpty slotState = iota
	slotOccupied
)

// programSlot holds the active program. A program in the slot is
// always linked.
type programSlot struct {
	state slotState
	prog  *Program
}

var errNotLinked = errors.New("gpu: program is not linked")

func (s slotState) String() string {
	if s == slotOccupied {
		return "occupied"
	}
	return "empty"
}

// install makes p the active program and releases the previous one,
// if any. The previous program is released after the swap so the slot
// never becomes empty on the way.
func (s *programSlot) install(p *Program) error {
	if p == nil || p.Status() != StatusLinked || p.released() {
		return errNotLinked
	}
	old := s.prog
	s.prog = p
	s.state = slotOccupied
	if old != nil && old != p {
		old.release()
	}
	return nil
}

// active returns the installed program.
func (s *programSlot) active() (*Program, bool) {
	if s.state != slotOccupied {
		return nil, false
	}
	return s.prog, true
}

// teardown releases the installed program and empties the slot. It
// is the only way back to the empty state.
func (s *programSlot) teardown() {
	if s.prog != nil {
		s.prog.release()
	}
	s.prog = nil
	s.state = slotEmpty
}
