// Package handpan describes the physical instruments a score can be
// compiled for: which notes a given drum carries and where they sit.
//
// # Overview
//
// A handpan has a small fixed set of tuned tone fields, typically 9 to 13,
// arranged around a central "ding". Which pitches those fields carry is
// determined by the scale family (D Kurd, Celtic, Hijaz, ...). This package
// holds the static catalog of supported instruments and exposes it as
// immutable [Layout] values.
//
// # Catalog
//
// The catalog is embedded at build time from scales.toml. Each scale family
// lists its largest tone field; smaller variants are derived by clipping the
// highest notes, so a 13-note family yields layouts for every note count
// from 9 to 13. Families smaller than a requested count simply have no
// layout at that size.
//
// Use [Default] for the embedded catalog and [Registry.Lookup] to resolve a
// (scale name, note count) pair:
//
//	layout, err := handpan.Default().Lookup("D Kurd", 9)
//
// # Concurrency
//
// The default registry is built once and never mutated afterwards, so it is
// safe for unsynchronized concurrent reads. [Layout] and [Slot] are plain
// values; callers may copy and retain them freely.
package handpan
