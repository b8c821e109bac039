package score

import "fmt"

// SentinelPitch is the reserved pitch value for silent placeholders.
// Events carrying it are never transposed, mapped, or marked in-scale.
const SentinelPitch = 0

// Pitch is a single notated pitch: the semitone value (standard MIDI note
// number) plus the tonal pitch class that records how the source spelled it
// (F♯ versus G♭ and so on).
type Pitch struct {
	MIDI int `json:"midi"` // Semitone value; SentinelPitch means silent
	TPC  int `json:"tpc"`  // Tonal pitch class spelling, -1..33
}

// IsSentinel reports whether the pitch is the silent placeholder.
func (p Pitch) IsSentinel() bool { return p.MIDI == SentinelPitch }

// Class returns the pitch class (0-11), octave ignored.
func (p Pitch) Class() int {
	return ((p.MIDI % 12) + 12) % 12
}

// Octave returns the scientific octave number: middle C (MIDI 60) is octave 4.
func (p Pitch) Octave() int { return p.MIDI/12 - 1 }

// Name returns the spelled note name with octave, e.g. "D4" or "F♯3".
// Sentinel pitches have no name.
func (p Pitch) Name() string {
	if p.IsSentinel() {
		return ""
	}
	return fmt.Sprintf("%s%d", Letter(p.TPC), p.Octave())
}

// tpcNames spells the tonal pitch classes along the circle of fifths,
// from F double-flat (TPC -1) to B double-sharp (TPC 33).
var tpcNames = [35]string{
	"F♭♭", "C♭♭", "G♭♭", "D♭♭", "A♭♭", "E♭♭", "B♭♭",
	"F♭", "C♭", "G♭", "D♭", "A♭", "E♭", "B♭",
	"F", "C", "G", "D", "A", "E", "B",
	"F♯", "C♯", "G♯", "D♯", "A♯", "E♯", "B♯",
	"F♯♯", "C♯♯", "G♯♯", "D♯♯", "A♯♯", "E♯♯", "B♯♯",
}

// Letter returns the note letter with accidentals for a tonal pitch class,
// or "?" when the value is outside the notated range.
func Letter(tpc int) string {
	idx := tpc + 1
	if idx < 0 || idx >= len(tpcNames) {
		return "?"
	}
	return tpcNames[idx]
}

// Respellings of each pitch class when transposition forces a new spelling.
// Upward transposition spells chromatic notes sharp, downward spells them flat.
var (
	sharpTPC = [12]int{14, 21, 16, 23, 18, 13, 20, 15, 22, 17, 24, 19}
	flatTPC  = [12]int{14, 9, 16, 11, 18, 13, 8, 15, 10, 17, 12, 19}
)

// DefaultTPC returns the sharp-wise spelling for a semitone value, used when
// the source markup omits the tonal pitch class.
func DefaultTPC(midi int) int {
	return sharpTPC[Pitch{MIDI: midi}.Class()]
}

// Transpose shifts a pitch by the given number of semitones and respells it.
// A zero shift returns the pitch unchanged, preserving the original spelling.
// Sentinel pitches are immune and always returned as-is.
func Transpose(p Pitch, semitones int) Pitch {
	if p.IsSentinel() || semitones == 0 {
		return p
	}
	out := Pitch{MIDI: p.MIDI + semitones}
	if semitones > 0 {
		out.TPC = sharpTPC[out.Class()]
	} else {
		out.TPC = flatTPC[out.Class()]
	}
	return out
}
