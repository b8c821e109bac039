package render

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/MusicFlow-app/HandFlow/pkg/score"
	"github.com/MusicFlow-app/HandFlow/pkg/tablature"
)

// RenderMeasures emits the HTML fragment for the whole tablature. The
// attribute and class names here are load-bearing: the player script reads
// sigN/sigD for timing, pitches for the synthesizer and duration for the
// reader bar, and the stylesheet keys on the measure/notes/note classes.
func RenderMeasures(doc *tablature.Document) []byte {
	var buf bytes.Buffer
	for _, m := range doc.Measures {
		if m.NewSignature {
			buf.WriteString("<div class='measure'>\n<div class='signature'>\n")
			fmt.Fprintf(&buf, "<div class='sigN'>%d</div>\n<div class='sigD'>%d</div>\n", m.Time.Beats, m.Time.Unit)
			buf.WriteString("</div>\n</div>\n")
		}

		buf.WriteString("<div class='measure'>\n")
		fmt.Fprintf(&buf, "<div class='measure-header'>Measure: %d</div>\n", m.Number)

		if len(m.Events) > 0 {
			buf.WriteString("<div class='notes'>\n")
			for _, ev := range m.Events {
				renderEvent(&buf, doc, m.Time, ev)
			}
			buf.WriteString("</div>\n")
		}
		buf.WriteString("</div>\n")
	}
	return buf.Bytes()
}

func renderEvent(buf *bytes.Buffer, doc *tablature.Document, sig score.TimeSig, ev tablature.Event) {
	var (
		svg     []byte
		class   string
		label   bytes.Buffer
		pitches []string
	)

	if ev.Rest {
		class = "restsvg"
		svg = RenderRest(ev.Duration)
		pitches = append(pitches, "0")
	} else {
		class = "handpansvg"
		var opts []FigureOption
		anyInScale := false
		for _, n := range ev.Notes {
			style := "outscale"
			if n.InScale {
				style = "inscale"
				anyInScale = true
				opts = append(opts, WithHighlight(n.Position, ev.Duration))
			}
			fmt.Fprintf(&label, "<span class='noteformated %s'>%s</span>", style, n.Name)
			// Out-of-scale pitches still render, but the play-only switch
			// keeps them out of the sounded list.
			if n.InScale || !doc.PlayOnlyInScale {
				pitches = append(pitches, strconv.Itoa(n.Pitch.MIDI))
			}
		}
		if !anyInScale {
			opts = append(opts, WithOutOfScale())
		}
		svg = RenderFigure(doc.Layout, opts...)
	}

	fmt.Fprintf(buf, "<div class='note' sigN='%d' sigD='%d' pitches='%s' duration='%s'><div class='svg_container %s'>%s</div><div class='note-label'>%s</div></div>\n",
		sig.Beats, sig.Unit, strings.Join(pitches, ";"), ev.Duration, class, svg, label.String())
}

// LegendHTML renders the duration legend: one entry per duration class
// with its color box and rest glyph.
func LegendHTML() []byte {
	var buf bytes.Buffer
	buf.WriteString("<div id=\"legends\" class=\"information-container\">\n")
	buf.WriteString("<h3 class=\"info-title\">Note & Rest Duration Legend</h3>\n")
	buf.WriteString("<div class=\"legend-items\">\n")
	for _, d := range LegendDurations() {
		color, _ := DurationColor(d)
		buf.WriteString("<div class=\"legend-item\">\n")
		fmt.Fprintf(&buf, "<div class=\"color-box\" style=\"background-color:%s;\"></div>\n", color)
		fmt.Fprintf(&buf, "<span class=\"duration-label\">%s</span>\n", d)
		fmt.Fprintf(&buf, "<div class=\"rest-box\">%s</div>\n", RenderRest(d))
		buf.WriteString("</div>\n")
	}
	buf.WriteString("</div>\n</div>\n")
	return buf.Bytes()
}
