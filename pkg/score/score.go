package score

import (
	"fmt"

	"github.com/MusicFlow-app/HandFlow/pkg/errors"
)

// Metadata holds the work-level tags of a score.
// Missing tags default to "Unknown" at decode time.
type Metadata struct {
	Title    string `json:"title"`
	Composer string `json:"composer"`
	Arranger string `json:"arranger"`
}

// Document is a fully decoded score: work metadata plus an ordered list of
// parts. Documents are immutable after decoding and safe for concurrent reads.
type Document struct {
	Meta  Metadata `json:"meta"`
	Parts []Part   `json:"parts"`

	// Degraded counts events the decoder could not fully interpret and
	// downgraded to rests of equal duration. Diagnostic only.
	Degraded int `json:"degraded,omitempty"`
}

// Part returns the part at the given index.
// Returns INVALID_PART_SELECTION when the index is out of range.
func (d *Document) Part(index int) (*Part, error) {
	if index < 0 || index >= len(d.Parts) {
		return nil, errors.New(errors.ErrCodeInvalidPartSelection,
			"part index %d out of range (score has %d parts)", index, len(d.Parts))
	}
	return &d.Parts[index], nil
}

// PartNames returns the display names of all parts in order.
func (d *Document) PartNames() []string {
	names := make([]string, len(d.Parts))
	for i, p := range d.Parts {
		names[i] = p.Name
	}
	return names
}

// Part is one staff of the source score with its measures in order.
type Part struct {
	Name     string    `json:"name"`     // Display name, including "(Treble)"/"(Bass)" for two-staff parts
	StaffID  int       `json:"staff_id"` // Staff identifier from the source markup
	Measures []Measure `json:"measures"`
}

// VoiceEvents returns the part's events for one voice across all measures,
// preserving source order. This is the event stream the resolver scores.
func (p *Part) VoiceEvents(voice int) []Event {
	var out []Event
	for i := range p.Measures {
		out = append(out, p.Measures[i].VoiceEvents(voice)...)
	}
	return out
}

// TimeSig is a time signature. The zero value means "not set".
type TimeSig struct {
	Beats int `json:"beats"` // Numerator
	Unit  int `json:"unit"`  // Denominator
}

// IsZero reports whether the signature is unset.
func (t TimeSig) IsZero() bool { return t.Beats == 0 && t.Unit == 0 }

// String renders the signature as "beats/unit".
func (t TimeSig) String() string { return fmt.Sprintf("%d/%d", t.Beats, t.Unit) }

// Sixtyfourths returns the nominal measure length in 64th-note units.
// 4/4 is 64, 3/4 is 48, 6/8 is 48.
func (t TimeSig) Sixtyfourths() int {
	if t.Unit == 0 {
		return 0
	}
	return t.Beats * 64 / t.Unit
}

// Measure holds the events of one measure in source order. Time is the
// signature active in this measure, whether or not the measure changed it.
type Measure struct {
	Number int     `json:"number"` // 1-based measure number
	Time   TimeSig `json:"time"`
	Events []Event `json:"events"`
}

// VoiceEvents returns the measure's events belonging to the given voice,
// preserving source order.
func (m *Measure) VoiceEvents(voice int) []Event {
	var out []Event
	for _, e := range m.Events {
		if e.Voice == voice {
			out = append(out, e)
		}
	}
	return out
}

// EventKind distinguishes the closed set of event variants.
type EventKind int

const (
	// EventNote is a sounded event with one or more simultaneous pitches.
	EventNote EventKind = iota
	// EventRest is a silent event carrying only a duration.
	EventRest
)

// Event is a single timed entry within a measure: a chord or a rest.
type Event struct {
	Kind     EventKind `json:"kind"`
	Duration Duration  `json:"duration"`
	Voice    int       `json:"voice"`             // Voice index within the staff (0-based)
	Pitches  []Pitch   `json:"pitches,omitempty"` // Sounded pitches; nil for rests
}

// IsRest reports whether the event is a rest.
func (e Event) IsRest() bool { return e.Kind == EventRest }

// Rest constructs a rest event.
func Rest(d Duration, voice int) Event {
	return Event{Kind: EventRest, Duration: d, Voice: voice}
}

// Note constructs a note event from its pitches.
func Note(d Duration, voice int, pitches ...Pitch) Event {
	return Event{Kind: EventNote, Duration: d, Voice: voice, Pitches: pitches}
}
