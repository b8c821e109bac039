package render

import (
	"bytes"
	"fmt"

	"github.com/MusicFlow-app/HandFlow/pkg/score"
)

// RenderRest draws the rest glyph for a duration class, filled with the
// duration's color. The glyph group carries the "rest-svg" class the
// stylesheet targets.
func RenderRest(d score.Duration) []byte {
	color, ok := DurationColor(d)
	if !ok {
		color = "#000000"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 40 60" class="rest rest-%s">`+"\n", d)
	fmt.Fprintf(&buf, `  <g class="rest-svg" style="fill:%s">`+"\n", color)
	restGlyph(&buf, d)
	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

// restGlyph emits the body of a rest symbol. Whole and half rests are the
// hanging and sitting bars, the quarter rest is the squiggle, and shorter
// rests are a slanted stem with one hook per flag.
func restGlyph(buf *bytes.Buffer, d score.Duration) {
	switch d {
	case score.DurationWhole:
		buf.WriteString(`    <rect x="10" y="20" width="20" height="8"/>` + "\n")
	case score.DurationHalf:
		buf.WriteString(`    <rect x="10" y="28" width="20" height="8"/>` + "\n")
	case score.DurationQuarter:
		buf.WriteString(`    <path d="M17 10 L26 20 L19 28 L27 38 C19 34 15 40 21 48 C11 44 13 34 20 36 L14 28 L22 19 Z"/>` + "\n")
	default:
		hooks := int(d - score.DurationEighth + 1)
		fmt.Fprintf(buf, `    <path d="M%d 12 L16 52 L18 52 L%d 12 Z"/>`+"\n", 14+hooks*4, 16+hooks*4)
		for i := 0; i < hooks; i++ {
			y := 14 + i*10
			x := 14 + (hooks-i)*4
			fmt.Fprintf(buf, `    <circle cx="%d" cy="%d" r="3"/>`+"\n", x-8, y+2)
			fmt.Fprintf(buf, `    <path d="M%d %d Q%d %d %d %d L%d %d Z"/>`+"\n",
				x-8, y+4, x-2, y+8, x, y, x-1, y)
		}
	}
}
