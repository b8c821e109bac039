package render

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/MusicFlow-app/HandFlow/pkg/handpan"
	"github.com/MusicFlow-app/HandFlow/pkg/score"
)

func kurd9(t *testing.T) handpan.Layout {
	t.Helper()
	layout, err := handpan.Default().Lookup("D Kurd", 9)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	return layout
}

func TestRenderFigureSlots(t *testing.T) {
	svg := string(RenderFigure(kurd9(t)))

	for pos := 0; pos < 9; pos++ {
		id := fmt.Sprintf(`id="note_%d"`, pos)
		if !strings.Contains(svg, id) {
			t.Errorf("figure missing %s", id)
		}
	}
	if got := strings.Count(svg, "<circle"); got != 10 {
		t.Errorf("figure has %d circles, want 10 (shell plus 9 slots)", got)
	}
	if !strings.Contains(svg, `class="base-svg"`) {
		t.Error("figure missing the shell class")
	}
	if !strings.Contains(svg, ">D3</text>") {
		t.Error("figure missing the ding label")
	}
}

func TestRenderFigureHighlight(t *testing.T) {
	svg := string(RenderFigure(kurd9(t), WithHighlight(4, score.DurationQuarter)))

	want := `id="note_4" class="note-svg" style="fill:#DAA520;stroke: black;stroke-width: 0.25em;"`
	if !strings.Contains(svg, want) {
		t.Errorf("figure missing highlighted slot:\n%s", svg)
	}
	if strings.Count(svg, "style=") != 1 {
		t.Errorf("figure styles %d slots, want 1", strings.Count(svg, "style="))
	}
}

func TestRenderFigureChordHighlights(t *testing.T) {
	svg := string(RenderFigure(kurd9(t),
		WithHighlight(4, score.DurationHalf),
		WithHighlight(8, score.DurationHalf),
	))

	if strings.Count(svg, "fill:#FF4500") != 2 {
		t.Errorf("chord highlight count = %d, want 2", strings.Count(svg, "fill:#FF4500"))
	}
}

func TestRenderFigureOutOfScale(t *testing.T) {
	svg := string(RenderFigure(kurd9(t), WithOutOfScale()))

	if !strings.Contains(svg, `class="base-out-svg"`) {
		t.Error("figure missing base-out-svg shell")
	}
	if !strings.Contains(svg, `class="note-out-svg"`) {
		t.Error("figure missing note-out-svg slots")
	}
	if strings.Contains(svg, `class="base-svg"`) || strings.Contains(svg, `class="note-svg"`) {
		t.Error("out-of-scale figure still carries in-scale classes")
	}
}

func TestRenderFigureDeterministic(t *testing.T) {
	layout := kurd9(t)
	first := RenderFigure(layout, WithHighlight(2, score.DurationEighth))
	second := RenderFigure(layout, WithHighlight(2, score.DurationEighth))

	if !bytes.Equal(first, second) {
		t.Error("repeated renders differ")
	}
}

func TestSlotCenterGeometry(t *testing.T) {
	closeTo := func(got, want float64) bool { return math.Abs(got-want) < 0.01 }

	// The ding sits in the middle.
	cx, cy := slotCenter(0, 9)
	if !closeTo(cx, figureCenter) || !closeTo(cy, figureCenter) {
		t.Errorf("slotCenter(0) = (%v, %v), want the center", cx, cy)
	}

	// Position 1 is the lowest tone field, straight below the ding.
	cx, cy = slotCenter(1, 9)
	if !closeTo(cx, figureCenter) || !closeTo(cy, figureCenter+ringRadius) {
		t.Errorf("slotCenter(1) = (%v, %v), want bottom of the ring", cx, cy)
	}

	// Successive positions alternate sides.
	left, _ := slotCenter(2, 9)
	right, _ := slotCenter(3, 9)
	if left >= figureCenter {
		t.Errorf("slotCenter(2) x = %v, want left of center", left)
	}
	if right <= figureCenter {
		t.Errorf("slotCenter(3) x = %v, want right of center", right)
	}

	// All ring positions are distinct.
	seen := make(map[[2]int]bool)
	for pos := 1; pos < 9; pos++ {
		x, y := slotCenter(pos, 9)
		key := [2]int{int(math.Round(x)), int(math.Round(y))}
		if seen[key] {
			t.Errorf("slotCenter(%d) collides with another slot at %v", pos, key)
		}
		seen[key] = true
	}
}

func TestRenderRest(t *testing.T) {
	tests := []struct {
		name      string
		duration  score.Duration
		wantClass string
		wantFill  string
	}{
		{"quarter", score.DurationQuarter, `class="rest rest-quarter"`, "fill:#DAA520"},
		{"half", score.DurationHalf, `class="rest rest-half"`, "fill:#FF4500"},
		{"whole", score.DurationWhole, `class="rest rest-whole"`, "fill:#8B0000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svg := string(RenderRest(tt.duration))
			if !strings.Contains(svg, tt.wantClass) {
				t.Errorf("rest missing %s:\n%s", tt.wantClass, svg)
			}
			if !strings.Contains(svg, tt.wantFill) {
				t.Errorf("rest missing %s", tt.wantFill)
			}
			if !strings.Contains(svg, `class="rest-svg"`) {
				t.Error("rest missing the rest-svg group")
			}
		})
	}
}

func TestRenderRestFlagCounts(t *testing.T) {
	tests := []struct {
		duration  score.Duration
		wantHooks int
	}{
		{score.DurationEighth, 1},
		{score.DurationSixteenth, 2},
		{score.DurationThirtySecond, 3},
		{score.DurationSixtyFourth, 4},
	}

	for _, tt := range tests {
		svg := string(RenderRest(tt.duration))
		if got := strings.Count(svg, "<circle"); got != tt.wantHooks {
			t.Errorf("%s rest has %d hooks, want %d", tt.duration, got, tt.wantHooks)
		}
	}
}
