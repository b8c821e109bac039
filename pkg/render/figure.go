package render

import (
	"bytes"
	"fmt"
	"math"

	"github.com/MusicFlow-app/HandFlow/pkg/handpan"
	"github.com/MusicFlow-app/HandFlow/pkg/score"
)

// Figure geometry. The drum is drawn in a square viewBox with the ding in
// the center and the tone circle on a fixed ring around it.
const (
	figureSize   = 300.0 // viewBox edge
	figureCenter = figureSize / 2
	shellRadius  = 140.0
	ringRadius   = 95.0
	dingRadius   = 34.0
	noteRadius   = 24.0
)

// FigureOption configures handpan figure rendering via [RenderFigure].
type FigureOption func(*figureRenderer)

type figureRenderer struct {
	highlights map[int]score.Duration
	outOfScale bool
}

// WithHighlight fills the slot at the given position with the duration's
// color. Chords highlight several positions at once.
func WithHighlight(position int, d score.Duration) FigureOption {
	return func(r *figureRenderer) { r.highlights[position] = d }
}

// WithOutOfScale marks the whole figure as missing the drum: the shell and
// note classes switch to their "-out-" variants and nothing is highlighted.
func WithOutOfScale() FigureOption {
	return func(r *figureRenderer) { r.outOfScale = true }
}

// RenderFigure draws the layout as an SVG handpan figure. Every slot gets
// a stable element id ("note_0" for the ding upward) so scripts and styles
// can address single tone fields.
func RenderFigure(layout handpan.Layout, opts ...FigureOption) []byte {
	r := figureRenderer{highlights: make(map[int]score.Duration)}
	for _, opt := range opts {
		opt(&r)
	}

	baseClass, noteClass := "base-svg", "note-svg"
	if r.outOfScale {
		baseClass, noteClass = "base-out-svg", "note-out-svg"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.0f %.0f" class="handpan-figure">`+"\n",
		figureSize, figureSize)
	fmt.Fprintf(&buf, `  <circle class="%s" cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n",
		baseClass, figureCenter, figureCenter, shellRadius)

	for _, slot := range layout.Slots {
		cx, cy := slotCenter(slot.Position, layout.NoteCount)
		radius := noteRadius
		if slot.Ding {
			radius = dingRadius
		}
		fmt.Fprintf(&buf, `  <circle id="note_%d" class="%s"%s cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n",
			slot.Position, noteClass, highlightStyle(r.highlights, slot.Position), cx, cy, radius)
		fmt.Fprintf(&buf, `  <text class="note-name" x="%.1f" y="%.1f" text-anchor="middle">%s</text>`+"\n",
			cx, cy+5, slot.Name())
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// highlightStyle renders the inline style for a highlighted slot. The
// string shape matches what the player's stylesheet overrides.
func highlightStyle(highlights map[int]score.Duration, position int) string {
	d, ok := highlights[position]
	if !ok {
		return ""
	}
	color, ok := DurationColor(d)
	if !ok {
		return ""
	}
	return fmt.Sprintf(` style="fill:%s;stroke: black;stroke-width: 0.25em;"`, color)
}

// slotCenter places a slot in the figure. The ding sits in the middle; the
// tone circle starts at the bottom and climbs alternately right and left,
// which is how the instrument itself is laid out.
func slotCenter(position, noteCount int) (cx, cy float64) {
	if position == 0 {
		return figureCenter, figureCenter
	}

	step := 360.0 / float64(noteCount-1)
	swing := float64(position/2) * step
	angle := 90 + swing // even positions climb the left side
	if position%2 == 1 {
		angle = 90 - swing // odd positions climb the right side
	}

	rad := angle * math.Pi / 180
	return figureCenter + ringRadius*math.Cos(rad), figureCenter + ringRadius*math.Sin(rad)
}
