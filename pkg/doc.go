// Package pkg provides the core libraries for HandFlow tablature compilation.
//
// # Overview
//
// HandFlow compiles MuseScore archives (.mscz) into handpan tablature: every
// note of a piece is mapped onto a playing position of a chosen drum, after
// transposing the piece so that as much of it as possible fits the drum's
// scale. The pkg directory is organized into four main areas:
//
//  1. Score model - [score] document types and the [score/mscz] decoder
//  2. Domain logic - [handpan] layouts, [transpose] resolution, [tablature] assembly
//  3. Output - [render] sinks (HTML measures, SVG figures, JSON)
//  4. Infrastructure - [pipeline] orchestration, [cache], [store], [errors], [buildinfo]
//
// # Architecture
//
// The typical data flow through HandFlow:
//
//	MuseScore archive (.mscz)
//	         ↓
//	    [score/mscz] package (decode to the score document)
//	         ↓
//	    [transpose] package (offset resolution + slot placement)
//	         ↓
//	    [tablature] package (annotate one part and voice)
//	         ↓
//	    [render] package (HTML / SVG / JSON output)
//
// # Quick Start
//
// Compile an archive against a drum:
//
//	import (
//	    "bytes"
//	    "github.com/MusicFlow-app/HandFlow/pkg/handpan"
//	    "github.com/MusicFlow-app/HandFlow/pkg/render"
//	    "github.com/MusicFlow-app/HandFlow/pkg/score/mscz"
//	    "github.com/MusicFlow-app/HandFlow/pkg/tablature"
//	    "github.com/MusicFlow-app/HandFlow/pkg/transpose"
//	)
//
//	// 1. Decode the archive
//	doc, _ := mscz.DecodeScore(bytes.NewReader(archive))
//
//	// 2. Pick a drum
//	layout, _ := handpan.Default().Lookup("D Kurd", 9)
//
//	// 3. Resolve the transposition
//	part, _ := doc.Part(0)
//	res, _ := transpose.Resolve(part.VoiceEvents(0), layout, transpose.ModeAuto, 0)
//
//	// 4. Assemble and render
//	tab, _ := tablature.Assemble(doc, res, tablature.Options{})
//	html := render.RenderMeasures(tab)
//
// Or run the same stages through [pipeline.Runner], which adds stage caching
// and is what the CLI and the web server share.
//
// # Main Packages
//
// ## Score Model
//
// [score] - Instrument-neutral score document: parts, measures, events,
// pitches with tonal pitch class spelling, duration classes.
//
// [score/mscz] - MuseScore archive decoder. Unsupported notations degrade to
// rests instead of failing the decode.
//
// ## Domain Logic
//
// [handpan] - Static layout registry: nine scale families built into drums of
// 9 to 13 notes, each slot carrying its position, pitch class, and reference
// pitch.
//
// [transpose] - Offset resolution over [-24, +24] semitones. Auto mode scans
// every offset concurrently and ranks candidates by pitch-class coverage;
// manual mode validates a requested offset. Also places pitches onto slots.
//
// [tablature] - Pure annotation pass joining a decoded document with a
// resolution into renderable measures (positions, in-scale flags, the ding).
//
// ## Output
//
// [render] - Output sinks: HTML measure fragments with duration colors and
// player data attributes, generated SVG handpan figures, and the JSON
// document contract.
//
// ## Infrastructure
//
// [pipeline] - Complete compile pipeline (decode → resolve → assemble →
// render) used by CLI and server. Ensures consistent behavior and caching
// across entry points.
//
// [cache] - Content-addressed stage cache with memory, file, and null
// backends. Keys derive from input hashes, so identical requests reuse
// earlier stages.
//
// [store] - Uploaded-score store with memory, file, Redis, and MongoDB
// backends. Uploads carry a TTL; a janitor sweeps expired ones.
//
// [errors] - Structured errors with a closed set of machine-readable codes,
// shared by the CLI and the HTTP boundary.
//
// [buildinfo] - Build-time version information injected via ldflags.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/transpose/...  # Specific package
//
// Store backend integration tests are opt-in via environment:
//
//	HANDFLOW_TEST_REDIS=localhost:6379 go test ./pkg/store/...
//
// [score]: https://pkg.go.dev/github.com/MusicFlow-app/HandFlow/pkg/score
// [score/mscz]: https://pkg.go.dev/github.com/MusicFlow-app/HandFlow/pkg/score/mscz
// [handpan]: https://pkg.go.dev/github.com/MusicFlow-app/HandFlow/pkg/handpan
// [transpose]: https://pkg.go.dev/github.com/MusicFlow-app/HandFlow/pkg/transpose
// [tablature]: https://pkg.go.dev/github.com/MusicFlow-app/HandFlow/pkg/tablature
// [render]: https://pkg.go.dev/github.com/MusicFlow-app/HandFlow/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/MusicFlow-app/HandFlow/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/MusicFlow-app/HandFlow/pkg/pipeline#Runner
// [cache]: https://pkg.go.dev/github.com/MusicFlow-app/HandFlow/pkg/cache
// [store]: https://pkg.go.dev/github.com/MusicFlow-app/HandFlow/pkg/store
// [errors]: https://pkg.go.dev/github.com/MusicFlow-app/HandFlow/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/MusicFlow-app/HandFlow/pkg/buildinfo
package pkg
