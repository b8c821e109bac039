// Package transpose chooses the transposition offset that fits a score
// onto a handpan, and maps each pitch to its tone field.
//
// # Overview
//
// A handpan carries at most 13 pitch classes, so most scores need a uniform
// semitone shift before a useful share of their notes lands on the drum.
// The resolver supports two modes. Manual mode applies a caller-chosen
// offset after range validation. Auto mode scores every offset in
// [MinOffset, MaxOffset] by coverage, the fraction of sounded pitches whose
// transposed pitch class matches some slot, and picks the winner.
//
// # Tie-breaking
//
// Offsets an octave apart reach identical coverage on the same layout, so
// ties are common. They resolve deterministically: highest coverage first,
// then smallest absolute offset, then the numerically lower offset. The
// full ranked scan is kept on the [Result] so callers can present the
// runners-up.
//
// # Concurrency
//
// The scan is a bounded pure computation. Candidates are scored in
// parallel, each goroutine writing only its own slot, and the final
// ordering comes from an explicit sort, so sequential and parallel runs
// produce identical results.
package transpose
