// Package score defines the instrument-neutral intermediate representation
// of a decoded music score.
//
// # Overview
//
// HandFlow compiles a notated score into handpan tablature. This package
// provides the data model that sits between the container decoder and the
// transposition/assembly stages: an ordered list of parts, each an ordered
// list of measures, each an ordered list of timed events (chords and rests).
// Nothing in this package knows about handpan layouts or rendering.
//
// # Model
//
// A [Document] holds work metadata and parts. A [Part] corresponds to one
// staff of the source score; multi-staff parts appear as separate entries
// labeled "(Treble)" and "(Bass)". A [Measure] carries the time signature
// active at that point (signatures are sticky: a measure without an explicit
// change inherits the previous one) and its events in source order. An
// [Event] is a tagged variant: a note with one or more simultaneous pitches,
// or a rest with no pitches. The event set is closed so consumers can match
// exhaustively.
//
// # Durations
//
// Durations are a fixed class enumeration from whole to sixty-fourth, see
// [Duration]. [Duration.Sixtyfourths] and [TimeSig.Sixtyfourths] express
// lengths in 64th-note units so measure fill can be checked with integer
// arithmetic.
//
// # Sentinel pitches
//
// Pitch value 0 is reserved as a silent placeholder ([SentinelPitch]). It is
// never transposed, never mapped to an instrument slot, and never marked
// in-scale. Rests have no pitches at all; the sentinel covers placeholder
// pitches inside note events.
//
// # Concurrency
//
// Documents are built once by the decoder and read-only afterwards. They are
// safe for concurrent reads; no stage mutates a Document after decode.
package score
