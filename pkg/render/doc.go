// Package render turns assembled tablatures into their output formats.
//
// # Overview
//
// A renderer transforms a [tablature.Document] into bytes for the view
// layer. This package provides:
//
//   - HTML: the measures fragment the score player consumes
//   - SVG: generated handpan figures and rest glyphs
//   - JSON: the full document for external tools
//
// # HTML Fragment
//
// [RenderMeasures] emits one block per measure: a signature block whenever
// the time signature changes, a header, and one note div per event. Each
// note div carries the data attributes the in-browser player reads (active
// signature, sounded pitches, duration class) and embeds the SVG figure
// for that event. Out-of-scale notes stay in the markup with an "outscale"
// label class; the play-only-in-scale switch only controls whether their
// pitches end up in the sounded-pitch list.
//
// # Handpan Figure
//
// [RenderFigure] draws the instrument: the shell, the ding in the center
// and the tone circle in the traditional zigzag, lowest note at the bottom
// and ascending alternately right and left. Options highlight played slots
// with the duration color:
//
//	svg := render.RenderFigure(layout,
//	    render.WithHighlight(4, score.DurationQuarter),
//	)
//
// Events with no in-scale note swap the shell and note classes to their
// "-out-" variants so stylesheets can dim the whole drum.
//
// # JSON Output
//
// [RenderJSON] marshals the document as indented JSON, the serializable
// form of the output contract.
//
// [tablature.Document]: github.com/MusicFlow-app/HandFlow/pkg/tablature.Document
package render
