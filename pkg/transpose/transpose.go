package transpose

import (
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/MusicFlow-app/HandFlow/pkg/errors"
	"github.com/MusicFlow-app/HandFlow/pkg/handpan"
	"github.com/MusicFlow-app/HandFlow/pkg/score"
)

// Supported offset range in semitones, two octaves either way.
const (
	MinOffset = -24
	MaxOffset = 24
)

// Mode selects how the transposition offset is chosen.
type Mode string

const (
	ModeAuto   Mode = "auto"   // scan the full range for best coverage
	ModeManual Mode = "manual" // caller supplies the offset
)

// Candidate is one scored offset from the auto scan.
type Candidate struct {
	Offset   int     `json:"offset"`
	Coverage float64 `json:"coverage"` // Matched / Total, 0 when Total is 0
	Matched  int     `json:"matched"`  // sounded pitches that land on a slot
	Total    int     `json:"total"`    // sounded pitches considered
}

// Result carries the chosen offset and maps source pitches onto the drum.
type Result struct {
	Offset     int         // semitones applied to every sounded pitch
	Coverage   float64     // coverage achieved at Offset
	Auto       bool        // true when the offset came from the scan
	Candidates []Candidate // ranked scan, best first; nil in manual mode

	layout handpan.Layout
}

// Placement is the outcome of mapping one source pitch onto the drum.
type Placement struct {
	Pitch   score.Pitch  // transposed and respelled
	Slot    handpan.Slot // zero value when out of scale
	InScale bool
}

// Resolve chooses the offset for the given mode. The offset argument is
// only consulted in manual mode.
func Resolve(events []score.Event, layout handpan.Layout, mode Mode, offset int) (*Result, error) {
	switch mode {
	case ModeAuto:
		return Auto(events, layout), nil
	case ModeManual:
		return Manual(events, layout, offset)
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown transposition mode %q", mode)
	}
}

// Manual applies a caller-chosen offset after range validation.
func Manual(events []score.Event, layout handpan.Layout, offset int) (*Result, error) {
	if offset < MinOffset || offset > MaxOffset {
		return nil, errors.New(errors.ErrCodeTransposeOutOfRange,
			"transposition %+d is outside the supported range [%d, %+d] semitones",
			offset, MinOffset, MaxOffset)
	}
	c := scoreOffset(collectPitches(events), layout, offset)
	return &Result{Offset: offset, Coverage: c.Coverage, layout: layout}, nil
}

// Auto scores every offset in the supported range and picks the best. Ties
// resolve to the smallest absolute offset, then the numerically lower one,
// so the same score and layout always produce the same offset.
func Auto(events []score.Event, layout handpan.Layout) *Result {
	candidates := scanOffsets(collectPitches(events), layout)
	best := candidates[0]
	return &Result{
		Offset:     best.Offset,
		Coverage:   best.Coverage,
		Auto:       true,
		Candidates: candidates,
		layout:     layout,
	}
}

// Layout returns the layout the result was resolved against.
func (r *Result) Layout() handpan.Layout {
	return r.layout
}

// Place maps one source pitch through the chosen offset onto the drum.
// Sentinel pitches pass through untransposed and never land on a slot.
func (r *Result) Place(p score.Pitch) Placement {
	if p.IsSentinel() {
		return Placement{Pitch: p}
	}
	moved := score.Transpose(p, r.Offset)
	slot, ok := r.layout.SlotForClass(moved.Class(), moved.MIDI)
	if !ok {
		return Placement{Pitch: moved}
	}
	return Placement{Pitch: moved, Slot: slot, InScale: true}
}

// collectPitches gathers the sounded pitches the scan scores: every pitch
// of every note event, chords contributing one entry per pitch, sentinels
// excluded.
func collectPitches(events []score.Event) []score.Pitch {
	var pitches []score.Pitch
	for _, ev := range events {
		if ev.IsRest() {
			continue
		}
		for _, p := range ev.Pitches {
			if !p.IsSentinel() {
				pitches = append(pitches, p)
			}
		}
	}
	return pitches
}

func scanOffsets(pitches []score.Pitch, layout handpan.Layout) []Candidate {
	candidates := make([]Candidate, MaxOffset-MinOffset+1)

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i := range candidates {
		i := i
		g.Go(func() error {
			candidates[i] = scoreOffset(pitches, layout, MinOffset+i)
			return nil
		})
	}
	_ = g.Wait() // scoring has no failure path

	// Matched stands in for Coverage here: every candidate shares the same
	// Total, and integer compares dodge float equality.
	sort.Slice(candidates, func(a, b int) bool {
		ca, cb := candidates[a], candidates[b]
		if ca.Matched != cb.Matched {
			return ca.Matched > cb.Matched
		}
		if abs(ca.Offset) != abs(cb.Offset) {
			return abs(ca.Offset) < abs(cb.Offset)
		}
		return ca.Offset < cb.Offset
	})
	return candidates
}

func scoreOffset(pitches []score.Pitch, layout handpan.Layout, offset int) Candidate {
	c := Candidate{Offset: offset, Total: len(pitches)}
	for _, p := range pitches {
		if layout.HasClass(score.Transpose(p, offset).Class()) {
			c.Matched++
		}
	}
	if c.Total > 0 {
		c.Coverage = float64(c.Matched) / float64(c.Total)
	}
	return c
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
