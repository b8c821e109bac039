package errors

import (
	"strings"
	"unicode"
)

// Input length caps enforced at the boundary.
const (
	maxFilenameLen  = 256
	maxScaleNameLen = 64
)

// ValidateScoreFilename screens an uploaded score filename before any
// filesystem or archive work touches it. A name passes when it is a plain
// basename of at most 256 characters, carries a .mscz or .mscx extension,
// and contains no control characters or traversal sequences.
func ValidateScoreFilename(name string) error {
	switch {
	case name == "":
		return New(ErrCodeInvalidInput, "score filename cannot be empty")
	case len(name) > maxFilenameLen:
		return New(ErrCodeInvalidInput, "score filename too long (max %d characters)", maxFilenameLen)
	case !printable(name):
		return New(ErrCodeInvalidInput, "score filename contains invalid control characters")
	case strings.ContainsAny(name, `/\`):
		return New(ErrCodeInvalidInput, "score filename cannot contain path separators")
	case strings.Contains(name, ".."):
		return New(ErrCodeInvalidInput, "score filename cannot contain traversal sequences")
	}

	lower := strings.ToLower(name)
	if !strings.HasSuffix(lower, ".mscz") && !strings.HasSuffix(lower, ".mscx") {
		return New(ErrCodeInvalidInput, "score filename must end in .mscz or .mscx, got %q", name)
	}
	return nil
}

// ValidateScaleName screens a layout scale name before registry lookup.
// Registry misses report UNKNOWN_LAYOUT separately; this guards the
// boundary against junk input.
func ValidateScaleName(name string) error {
	switch {
	case name == "":
		return New(ErrCodeInvalidInput, "scale name cannot be empty")
	case len(name) > maxScaleNameLen:
		return New(ErrCodeInvalidInput, "scale name too long (max %d characters)", maxScaleNameLen)
	case !printable(name):
		return New(ErrCodeInvalidInput, "scale name contains invalid control characters")
	}
	return nil
}

// NoteCount bounds for supported handpan layouts.
const (
	MinNoteCount = 9
	MaxNoteCount = 13
)

// ValidateNoteCount rejects note counts outside the supported drum sizes.
func ValidateNoteCount(count int) error {
	if count < MinNoteCount || count > MaxNoteCount {
		return New(ErrCodeInvalidInput, "note count must be between %d and %d, got %d", MinNoteCount, MaxNoteCount, count)
	}
	return nil
}

// ValidateVoice rejects voice indexes outside a MuseScore staff, which
// carries up to four voices.
func ValidateVoice(voice int) error {
	if voice < 0 || voice > 3 {
		return New(ErrCodeInvalidInput, "voice must be between 0 and 3, got %d", voice)
	}
	return nil
}

// printable reports whether s is free of control characters, null bytes
// included.
func printable(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}
