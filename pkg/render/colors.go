package render

import "github.com/MusicFlow-app/HandFlow/pkg/score"

// durationColors maps each duration class to its display color. The scheme
// runs from cool colors for the shortest values to dark red for whole
// notes, and doubles as the player's legend.
var durationColors = map[score.Duration]string{
	score.DurationSixtyFourth:  "#B13B8E",
	score.DurationThirtySecond: "#4B348B",
	score.DurationSixteenth:    "#4563AC",
	score.DurationEighth:       "#32CD32",
	score.DurationQuarter:      "#DAA520",
	score.DurationHalf:         "#FF4500",
	score.DurationWhole:        "#8B0000",
}

// DurationColor returns the display color for a duration class.
func DurationColor(d score.Duration) (string, bool) {
	color, ok := durationColors[d]
	return color, ok
}

// LegendDurations lists the duration classes in legend order, shortest
// first.
func LegendDurations() []score.Duration {
	return []score.Duration{
		score.DurationSixtyFourth,
		score.DurationThirtySecond,
		score.DurationSixteenth,
		score.DurationEighth,
		score.DurationQuarter,
		score.DurationHalf,
		score.DurationWhole,
	}
}
