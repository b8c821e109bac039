// Package tablature assembles a decoded score and a resolved transposition
// into the final renderable document.
//
// Assembly is a pure annotation pass. Measures and events keep their source
// order and durations; each sounded pitch gains its placement on the drum.
// Nothing is ever dropped: out-of-scale pitches are flagged, not filtered,
// and the play-only-in-scale switch travels through untouched for the
// render layer to act on.
package tablature

import (
	"github.com/MusicFlow-app/HandFlow/pkg/errors"
	"github.com/MusicFlow-app/HandFlow/pkg/handpan"
	"github.com/MusicFlow-app/HandFlow/pkg/score"
	"github.com/MusicFlow-app/HandFlow/pkg/transpose"
)

// Options selects what to assemble and what to pass through to rendering.
type Options struct {
	Part            int  `json:"part"`              // index into the document's parts
	Voice           int  `json:"voice"`             // voice within the part
	PlayOnlyInScale bool `json:"play_only_inscale"` // playback filter, forwarded untouched
}

// Document is the assembled tablature, built fresh per request and never
// mutated after assembly.
type Document struct {
	Meta            score.Metadata        `json:"meta"`
	Part            string                `json:"part"`
	Voice           int                   `json:"voice"`
	Layout          handpan.Layout        `json:"layout"`
	Offset          int                   `json:"offset"`
	Coverage        float64               `json:"coverage"`
	Auto            bool                  `json:"auto"`
	Candidates      []transpose.Candidate `json:"candidates,omitempty"` // ranked scan, auto mode only
	PlayOnlyInScale bool                  `json:"play_only_inscale"`
	Degraded        int                   `json:"degraded,omitempty"` // decoder downgrades, diagnostic
	Measures        []Measure             `json:"measures"`
}

// Measure mirrors one source measure with its events annotated.
type Measure struct {
	Number       int           `json:"number"`
	Time         score.TimeSig `json:"time"`
	NewSignature bool          `json:"new_signature"` // first measure, or the signature just changed
	Events       []Event       `json:"events"`
}

// Event is one annotated note or rest.
type Event struct {
	Rest     bool           `json:"rest"`
	Duration score.Duration `json:"duration"`
	Notes    []Note         `json:"notes,omitempty"` // empty for rests
}

// Note is a single pitch of a note event, placed on the drum. Out-of-scale
// pitches keep a stable visual position derived from their pitch class.
type Note struct {
	Pitch    score.Pitch `json:"pitch"`    // transposed and respelled
	Name     string      `json:"name"`     // spelled label, "" for sentinels
	Position int         `json:"position"` // slot position; pitch class when out of scale
	InScale  bool        `json:"in_scale"`
	Ding     bool        `json:"ding"`
}

// Assemble builds the tablature for one selected part and voice. The layout
// and offset come from the resolution result; assembly itself chooses
// neither.
func Assemble(doc *score.Document, res *transpose.Result, opts Options) (*Document, error) {
	part, err := doc.Part(opts.Part)
	if err != nil {
		return nil, err
	}
	if err := errors.ValidateVoice(opts.Voice); err != nil {
		return nil, err
	}

	out := &Document{
		Meta:            doc.Meta,
		Part:            part.Name,
		Voice:           opts.Voice,
		Layout:          res.Layout(),
		Offset:          res.Offset,
		Coverage:        res.Coverage,
		Auto:            res.Auto,
		Candidates:      res.Candidates,
		PlayOnlyInScale: opts.PlayOnlyInScale,
		Degraded:        doc.Degraded,
		Measures:        make([]Measure, 0, len(part.Measures)),
	}

	var prev score.TimeSig
	for i, m := range part.Measures {
		out.Measures = append(out.Measures, Measure{
			Number:       m.Number,
			Time:         m.Time,
			NewSignature: i == 0 || m.Time != prev,
			Events:       annotate(m.VoiceEvents(opts.Voice), res),
		})
		prev = m.Time
	}
	return out, nil
}

func annotate(events []score.Event, res *transpose.Result) []Event {
	out := make([]Event, 0, len(events))
	for _, ev := range events {
		if ev.IsRest() {
			out = append(out, Event{Rest: true, Duration: ev.Duration})
			continue
		}
		notes := make([]Note, 0, len(ev.Pitches))
		for _, p := range ev.Pitches {
			notes = append(notes, placeNote(res.Place(p)))
		}
		out = append(out, Event{Duration: ev.Duration, Notes: notes})
	}
	return out
}

func placeNote(placed transpose.Placement) Note {
	note := Note{
		Pitch:   placed.Pitch,
		Name:    placed.Pitch.Name(),
		InScale: placed.InScale,
	}
	if placed.InScale {
		note.Position = placed.Slot.Position
		note.Ding = placed.Slot.Ding
	} else {
		note.Position = placed.Pitch.Class()
	}
	return note
}

// InScaleCount returns how many placed notes landed on the drum, over the
// total number of sounded pitches. Sentinels count in neither.
func (d *Document) InScaleCount() (in, total int) {
	for _, m := range d.Measures {
		for _, ev := range m.Events {
			for _, n := range ev.Notes {
				if n.Pitch.IsSentinel() {
					continue
				}
				total++
				if n.InScale {
					in++
				}
			}
		}
	}
	return in, total
}
