package score

import (
	"encoding/json"

	"github.com/MusicFlow-app/HandFlow/pkg/errors"
)

// Duration is a note or rest duration class. The set is closed: every event
// in a decoded score carries exactly one of these values.
type Duration int

const (
	DurationWhole Duration = iota
	DurationHalf
	DurationQuarter
	DurationEighth
	DurationSixteenth
	DurationThirtySecond
	DurationSixtyFourth
)

// durationNames uses the source markup's spelling, which also names the
// CSS classes and color keys downstream.
var durationNames = [...]string{"whole", "half", "quarter", "eighth", "16th", "32nd", "64th"}

// String returns the markup token for the duration class.
func (d Duration) String() string {
	if !d.Valid() {
		return "unknown"
	}
	return durationNames[d]
}

// Valid reports whether d is one of the defined classes.
func (d Duration) Valid() bool {
	return d >= DurationWhole && d <= DurationSixtyFourth
}

// Sixtyfourths returns the duration in 64th-note units: whole is 64,
// half is 32, down to sixty-fourth at 1.
func (d Duration) Sixtyfourths() int {
	if !d.Valid() {
		return 0
	}
	return 64 >> d
}

// ParseDuration maps a score-markup durationType token to its class.
// "measure" denotes a full-measure rest and is treated as whole.
// Unknown tokens return UNSUPPORTED_EVENT; the decoder degrades the event
// to a rest instead of failing the parse.
func ParseDuration(token string) (Duration, error) {
	switch token {
	case "measure", "whole":
		return DurationWhole, nil
	case "half":
		return DurationHalf, nil
	case "quarter":
		return DurationQuarter, nil
	case "eighth":
		return DurationEighth, nil
	case "16th":
		return DurationSixteenth, nil
	case "32nd":
		return DurationThirtySecond, nil
	case "64th":
		return DurationSixtyFourth, nil
	default:
		return 0, errors.New(errors.ErrCodeUnsupportedEvent, "unsupported duration token %q", token)
	}
}

// MarshalJSON writes the duration as its markup token, so serialized scores
// stay readable and match the render layer's CSS class names.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON parses a markup token back into a duration class.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var token string
	if err := json.Unmarshal(data, &token); err != nil {
		return err
	}
	parsed, err := ParseDuration(token)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
