package transpose

import (
	"reflect"
	"strings"
	"testing"

	"github.com/MusicFlow-app/HandFlow/pkg/errors"
	"github.com/MusicFlow-app/HandFlow/pkg/handpan"
	"github.com/MusicFlow-app/HandFlow/pkg/score"
)

// cNaturalMinor matches the reference scenario: seven slots covering pitch
// classes {0, 2, 3, 5, 7, 8, 10}.
func cNaturalMinor() handpan.Layout {
	return handpan.Layout{
		Name:      "C Minor",
		NoteCount: 7,
		Slots: []handpan.Slot{
			{Position: 0, MIDI: 48, TPC: 14, Ding: true},
			{Position: 1, MIDI: 50, TPC: 16},
			{Position: 2, MIDI: 51, TPC: 11},
			{Position: 3, MIDI: 53, TPC: 13},
			{Position: 4, MIDI: 55, TPC: 15},
			{Position: 5, MIDI: 56, TPC: 10},
			{Position: 6, MIDI: 58, TPC: 12},
		},
	}
}

func quarters(midis ...int) []score.Event {
	var events []score.Event
	for _, midi := range midis {
		p := score.Pitch{MIDI: midi, TPC: score.DefaultTPC(midi)}
		events = append(events, score.Note(score.DurationQuarter, 0, p))
	}
	return events
}

func dKurd9(t *testing.T) handpan.Layout {
	t.Helper()
	layout, err := handpan.Default().Lookup("D Kurd", 9)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	return layout
}

func TestAutoPerfectFitPrefersZeroOffset(t *testing.T) {
	layout := dKurd9(t)

	var midis []int
	for _, slot := range layout.Slots {
		midis = append(midis, slot.MIDI)
	}
	res := Auto(quarters(midis...), layout)

	if res.Offset != 0 {
		t.Errorf("Auto() offset = %d, want 0", res.Offset)
	}
	if res.Coverage != 1.0 {
		t.Errorf("Auto() coverage = %v, want 1.0", res.Coverage)
	}
	if !res.Auto {
		t.Error("Auto() result not flagged as auto")
	}

	// Octave shifts reach full coverage too; zero must win on magnitude.
	for _, c := range res.Candidates {
		if (c.Offset == 12 || c.Offset == -12) && c.Coverage != 1.0 {
			t.Errorf("candidate %+d coverage = %v, want 1.0", c.Offset, c.Coverage)
		}
	}
}

func TestAutoTieBreakPrefersLowerOffset(t *testing.T) {
	// One pitch class against slots a minor third away on either side:
	// +3 and -3 tie on coverage and magnitude, so -3 must win.
	layout := handpan.Layout{
		Name:      "tritone pair",
		NoteCount: 2,
		Slots: []handpan.Slot{
			{Position: 0, MIDI: 51, TPC: 11, Ding: true},
			{Position: 1, MIDI: 57, TPC: 17},
		},
	}

	res := Auto(quarters(60), layout)
	if res.Offset != -3 {
		t.Errorf("Auto() offset = %d, want -3", res.Offset)
	}
	if res.Coverage != 1.0 {
		t.Errorf("Auto() coverage = %v, want 1.0", res.Coverage)
	}
}

func TestAutoScenarioFindsBetterOffset(t *testing.T) {
	// C D E F against C natural minor: offset 0 covers 3 of 4, but
	// shifting down a tone lands every pitch on the drum.
	res := Auto(quarters(60, 62, 64, 65), cNaturalMinor())

	if res.Offset != -2 {
		t.Errorf("Auto() offset = %d, want -2", res.Offset)
	}
	if res.Coverage != 1.0 {
		t.Errorf("Auto() coverage = %v, want 1.0", res.Coverage)
	}
}

func TestManualScenarioCoverage(t *testing.T) {
	res, err := Manual(quarters(60, 62, 64, 65), cNaturalMinor(), 0)
	if err != nil {
		t.Fatalf("Manual() error = %v", err)
	}

	if res.Coverage != 0.75 {
		t.Errorf("Manual() coverage = %v, want 0.75", res.Coverage)
	}
	if res.Auto {
		t.Error("Manual() result flagged as auto")
	}
	if res.Candidates != nil {
		t.Error("Manual() result carries scan candidates")
	}

	e4 := score.Pitch{MIDI: 64, TPC: 18}
	if got := res.Place(e4); got.InScale {
		t.Errorf("Place(E4) in scale = true, want false")
	}
	c4 := score.Pitch{MIDI: 60, TPC: 14}
	placed := res.Place(c4)
	if !placed.InScale {
		t.Fatal("Place(C4) in scale = false, want true")
	}
	if !placed.Slot.Ding {
		t.Errorf("Place(C4) slot position = %d, want the ding", placed.Slot.Position)
	}
}

func TestManualOutOfRange(t *testing.T) {
	tests := []struct {
		name   string
		offset int
	}{
		{"far above", 37},
		{"just above", 25},
		{"just below", -25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Manual(quarters(60), dKurd9(t), tt.offset)
			if err == nil {
				t.Fatal("Manual() error = nil, want TRANSPOSE_OUT_OF_RANGE")
			}
			if !errors.Is(err, errors.ErrCodeTransposeOutOfRange) {
				t.Errorf("Manual() error code = %v, want %v", errors.GetCode(err), errors.ErrCodeTransposeOutOfRange)
			}
			if msg := err.Error(); !strings.Contains(msg, "-24") || !strings.Contains(msg, "+24") {
				t.Errorf("Manual() error = %q, want the valid range stated", msg)
			}
		})
	}
}

func TestManualBoundsAccepted(t *testing.T) {
	for _, offset := range []int{MinOffset, -12, 0, 12, MaxOffset} {
		if _, err := Manual(quarters(60), dKurd9(t), offset); err != nil {
			t.Errorf("Manual(%d) error = %v, want nil", offset, err)
		}
	}
}

func TestResolveDispatch(t *testing.T) {
	layout := dKurd9(t)
	events := quarters(62)

	auto, err := Resolve(events, layout, ModeAuto, 99)
	if err != nil {
		t.Fatalf("Resolve(auto) error = %v", err)
	}
	if !auto.Auto || auto.Offset != 0 {
		t.Errorf("Resolve(auto) = offset %d auto %v, want 0 true", auto.Offset, auto.Auto)
	}

	manual, err := Resolve(events, layout, ModeManual, -5)
	if err != nil {
		t.Fatalf("Resolve(manual) error = %v", err)
	}
	if manual.Auto || manual.Offset != -5 {
		t.Errorf("Resolve(manual) = offset %d auto %v, want -5 false", manual.Offset, manual.Auto)
	}

	if _, err := Resolve(events, layout, Mode("sideways"), 0); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Resolve(sideways) error = %v, want INVALID_INPUT", err)
	}
}

func TestSentinelImmunity(t *testing.T) {
	layout := dKurd9(t)
	events := []score.Event{
		score.Note(score.DurationQuarter, 0, score.Pitch{MIDI: score.SentinelPitch}),
		score.Note(score.DurationQuarter, 0, score.Pitch{MIDI: 62, TPC: 16}),
	}

	res := Auto(events, layout)
	if res.Candidates[0].Total != 1 {
		t.Errorf("scan total = %d, want 1 (sentinel excluded)", res.Candidates[0].Total)
	}
	if res.Offset != 0 || res.Coverage != 1.0 {
		t.Errorf("Auto() = offset %d coverage %v, want 0 and 1.0", res.Offset, res.Coverage)
	}

	placed := res.Place(score.Pitch{MIDI: score.SentinelPitch})
	if placed.InScale {
		t.Error("Place(sentinel) in scale = true, want false")
	}
	if placed.Pitch.MIDI != score.SentinelPitch {
		t.Errorf("Place(sentinel) pitch = %d, want untouched sentinel", placed.Pitch.MIDI)
	}
}

func TestAutoDeterminism(t *testing.T) {
	events := quarters(60, 62, 64, 65, 67)
	layout := dKurd9(t)

	first := Auto(events, layout)
	second := Auto(events, layout)

	if first.Offset != second.Offset {
		t.Errorf("offsets differ across runs: %d vs %d", first.Offset, second.Offset)
	}
	if !reflect.DeepEqual(first.Candidates, second.Candidates) {
		t.Error("candidate rankings differ across runs")
	}
}

func TestCandidatesFullyOrdered(t *testing.T) {
	res := Auto(quarters(60, 62, 64, 65), cNaturalMinor())

	if got, want := len(res.Candidates), MaxOffset-MinOffset+1; got != want {
		t.Fatalf("scan produced %d candidates, want %d", got, want)
	}
	for i := 1; i < len(res.Candidates); i++ {
		prev, cur := res.Candidates[i-1], res.Candidates[i]
		if cur.Matched > prev.Matched {
			t.Fatalf("candidate %d outscores its predecessor: %+v after %+v", i, cur, prev)
		}
		if cur.Matched == prev.Matched {
			if abs(cur.Offset) < abs(prev.Offset) {
				t.Fatalf("candidate %d breaks magnitude ordering: %+v after %+v", i, cur, prev)
			}
			if abs(cur.Offset) == abs(prev.Offset) && cur.Offset < prev.Offset {
				t.Fatalf("candidate %d breaks numeric ordering: %+v after %+v", i, cur, prev)
			}
		}
	}
}

func TestPlaceRespellsByDirection(t *testing.T) {
	layout := dKurd9(t)

	up, err := Manual(quarters(60), layout, 1)
	if err != nil {
		t.Fatalf("Manual() error = %v", err)
	}
	moved := up.Place(score.Pitch{MIDI: 60, TPC: 14})
	if moved.Pitch.MIDI != 61 || moved.Pitch.TPC != 21 {
		t.Errorf("Place(+1) pitch = %d/%d, want 61/21 (C sharp)", moved.Pitch.MIDI, moved.Pitch.TPC)
	}
	if moved.InScale {
		t.Error("Place(+1) C sharp marked in scale on a Kurd")
	}

	down, err := Manual(quarters(60), layout, -2)
	if err != nil {
		t.Fatalf("Manual() error = %v", err)
	}
	flat := down.Place(score.Pitch{MIDI: 60, TPC: 14})
	if flat.Pitch.MIDI != 58 || flat.Pitch.TPC != 12 {
		t.Errorf("Place(-2) pitch = %d/%d, want 58/12 (B flat)", flat.Pitch.MIDI, flat.Pitch.TPC)
	}
	if !flat.InScale {
		t.Error("Place(-2) B flat not in scale on a Kurd")
	}
}

func TestPlacePicksNearestSlot(t *testing.T) {
	layout, err := handpan.Default().Lookup("D Kurd", 13)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	res, err := Manual(nil, layout, 0)
	if err != nil {
		t.Fatalf("Manual() error = %v", err)
	}

	// Pitch class 2 lives at positions 0, 4 and 11; D5 sits on 11.
	placed := res.Place(score.Pitch{MIDI: 74, TPC: 16})
	if !placed.InScale {
		t.Fatal("Place(D5) in scale = false, want true")
	}
	if placed.Slot.Position != 11 {
		t.Errorf("Place(D5) slot position = %d, want 11", placed.Slot.Position)
	}
}

func TestAutoEmptyScore(t *testing.T) {
	res := Auto(nil, dKurd9(t))
	if res.Offset != 0 {
		t.Errorf("Auto() offset = %d, want 0", res.Offset)
	}
	if res.Coverage != 0 {
		t.Errorf("Auto() coverage = %v, want 0", res.Coverage)
	}
}
