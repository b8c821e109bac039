package handpan

import (
	"fmt"

	"github.com/MusicFlow-app/HandFlow/pkg/score"
)

// Slot is one tone field on the instrument.
type Slot struct {
	Position int  `json:"position"` // 0 is the ding, then the tone circle ascending
	MIDI     int  `json:"midi"`     // reference pitch of the tone field
	TPC      int  `json:"tpc"`      // engraved spelling for note labels
	Ding     bool `json:"ding"`     // central note
}

// Class returns the slot's pitch class (0-11).
func (s Slot) Class() int {
	return ((s.MIDI % 12) + 12) % 12
}

// Name returns the slot's spelled note name with octave, e.g. "B♭3".
func (s Slot) Name() string {
	return score.Pitch{MIDI: s.MIDI, TPC: s.TPC}.Name()
}

// Layout is one concrete instrument: a scale family built at a given size.
type Layout struct {
	Name      string `json:"name"`       // scale family, e.g. "D Kurd"
	NoteCount int    `json:"note_count"` // number of slots, 9-13
	Slots     []Slot `json:"slots"`      // ding first, then ascending
}

// String returns the display name, e.g. "D Kurd (9 notes)".
func (l Layout) String() string {
	return fmt.Sprintf("%s (%d notes)", l.Name, l.NoteCount)
}

// Ding returns the central slot.
func (l Layout) Ding() Slot {
	return l.Slots[0]
}

// HasClass reports whether any slot carries the given pitch class.
func (l Layout) HasClass(class int) bool {
	for _, s := range l.Slots {
		if s.Class() == class {
			return true
		}
	}
	return false
}

// SlotForClass returns the slot matching the given pitch class, or false if
// the class is not on the instrument. When several slots share the class
// (most scales repeat notes across octaves), the slot whose reference pitch
// is closest to midi wins; at equal distance the lower position wins, which
// keeps the mapping deterministic.
func (l Layout) SlotForClass(class, midi int) (Slot, bool) {
	best := -1
	for i, s := range l.Slots {
		if s.Class() != class {
			continue
		}
		if best < 0 || abs(s.MIDI-midi) < abs(l.Slots[best].MIDI-midi) {
			best = i
		}
	}
	if best < 0 {
		return Slot{}, false
	}
	return l.Slots[best], true
}

// NoteNames returns the spelled names of all slots in position order.
func (l Layout) NoteNames() []string {
	names := make([]string, len(l.Slots))
	for i, s := range l.Slots {
		names[i] = s.Name()
	}
	return names
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
