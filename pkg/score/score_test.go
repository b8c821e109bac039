package score

import (
	"testing"

	"github.com/MusicFlow-app/HandFlow/pkg/errors"
)

func testDocument() *Document {
	return &Document{
		Meta: Metadata{Title: "Test Song", Composer: "Unknown", Arranger: "Unknown"},
		Parts: []Part{
			{Name: "Piano (Treble)", StaffID: 1},
			{Name: "Piano (Bass)", StaffID: 2},
		},
	}
}

func TestDocumentPart(t *testing.T) {
	doc := testDocument()

	p, err := doc.Part(0)
	if err != nil {
		t.Fatalf("Part(0) error = %v", err)
	}
	if p.Name != "Piano (Treble)" {
		t.Errorf("Part(0).Name = %q, want %q", p.Name, "Piano (Treble)")
	}

	for _, idx := range []int{-1, 2, 10} {
		_, err := doc.Part(idx)
		if err == nil {
			t.Errorf("Part(%d) error = nil, want INVALID_PART_SELECTION", idx)
			continue
		}
		if !errors.Is(err, errors.ErrCodeInvalidPartSelection) {
			t.Errorf("Part(%d) error code = %v, want INVALID_PART_SELECTION", idx, errors.GetCode(err))
		}
	}
}

func TestPartNames(t *testing.T) {
	doc := testDocument()
	names := doc.PartNames()
	want := []string{"Piano (Treble)", "Piano (Bass)"}
	if len(names) != len(want) {
		t.Fatalf("PartNames() returned %d names, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("PartNames()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestTimeSig(t *testing.T) {
	tests := []struct {
		sig        TimeSig
		wantString string
		want64ths  int
	}{
		{TimeSig{4, 4}, "4/4", 64},
		{TimeSig{3, 4}, "3/4", 48},
		{TimeSig{6, 8}, "6/8", 48},
		{TimeSig{2, 2}, "2/2", 64},
		{TimeSig{5, 4}, "5/4", 80},
	}

	for _, tt := range tests {
		if got := tt.sig.String(); got != tt.wantString {
			t.Errorf("TimeSig%v.String() = %q, want %q", tt.sig, got, tt.wantString)
		}
		if got := tt.sig.Sixtyfourths(); got != tt.want64ths {
			t.Errorf("TimeSig%v.Sixtyfourths() = %d, want %d", tt.sig, got, tt.want64ths)
		}
	}

	if !(TimeSig{}).IsZero() {
		t.Error("zero TimeSig.IsZero() = false, want true")
	}
	if (TimeSig{4, 4}).IsZero() {
		t.Error("TimeSig{4,4}.IsZero() = true, want false")
	}
}

func TestVoiceEvents(t *testing.T) {
	m := Measure{
		Number: 1,
		Time:   TimeSig{4, 4},
		Events: []Event{
			Note(DurationQuarter, 0, Pitch{MIDI: 62, TPC: 16}),
			Note(DurationQuarter, 1, Pitch{MIDI: 50, TPC: 16}),
			Rest(DurationHalf, 0),
			Note(DurationQuarter, 0, Pitch{MIDI: 69, TPC: 17}),
		},
	}

	v0 := m.VoiceEvents(0)
	if len(v0) != 3 {
		t.Fatalf("VoiceEvents(0) returned %d events, want 3", len(v0))
	}
	if !v0[1].IsRest() {
		t.Error("VoiceEvents(0)[1].IsRest() = false, want true")
	}

	v1 := m.VoiceEvents(1)
	if len(v1) != 1 {
		t.Fatalf("VoiceEvents(1) returned %d events, want 1", len(v1))
	}
	if v1[0].Pitches[0].MIDI != 50 {
		t.Errorf("VoiceEvents(1)[0] pitch = %d, want 50", v1[0].Pitches[0].MIDI)
	}

	if got := m.VoiceEvents(3); got != nil {
		t.Errorf("VoiceEvents(3) = %v, want nil", got)
	}
}

func TestEventConstructors(t *testing.T) {
	n := Note(DurationEighth, 0, Pitch{MIDI: 60, TPC: 14}, Pitch{MIDI: 64, TPC: 18})
	if n.Kind != EventNote || len(n.Pitches) != 2 {
		t.Errorf("Note() = %+v, want note with 2 pitches", n)
	}
	r := Rest(DurationWhole, 2)
	if r.Kind != EventRest || r.Pitches != nil || r.Voice != 2 {
		t.Errorf("Rest() = %+v, want rest in voice 2 with no pitches", r)
	}
}
