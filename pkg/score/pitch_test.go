package score

import "testing"

func TestPitchClassAndOctave(t *testing.T) {
	tests := []struct {
		midi      int
		wantClass int
		wantOct   int
	}{
		{60, 0, 4},  // middle C
		{62, 2, 4},  // D4
		{50, 2, 3},  // D3
		{69, 9, 4},  // A4
		{77, 5, 5},  // F5
		{12, 0, 0},  // C0
		{127, 7, 9}, // G9
	}

	for _, tt := range tests {
		p := Pitch{MIDI: tt.midi}
		if got := p.Class(); got != tt.wantClass {
			t.Errorf("Pitch{%d}.Class() = %d, want %d", tt.midi, got, tt.wantClass)
		}
		if got := p.Octave(); got != tt.wantOct {
			t.Errorf("Pitch{%d}.Octave() = %d, want %d", tt.midi, got, tt.wantOct)
		}
	}
}

func TestPitchName(t *testing.T) {
	tests := []struct {
		name string
		p    Pitch
		want string
	}{
		{"D4", Pitch{MIDI: 62, TPC: 16}, "D4"},
		{"A3", Pitch{MIDI: 57, TPC: 17}, "A3"},
		{"Bb3", Pitch{MIDI: 58, TPC: 12}, "B♭3"},
		{"Fsharp4", Pitch{MIDI: 66, TPC: 20}, "F♯4"},
		{"Csharp4", Pitch{MIDI: 61, TPC: 21}, "C♯4"},
		{"sentinel", Pitch{MIDI: SentinelPitch}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Name(); got != tt.want {
				t.Errorf("Name() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLetterBounds(t *testing.T) {
	if got := Letter(-1); got != "F♭♭" {
		t.Errorf("Letter(-1) = %q, want F♭♭", got)
	}
	if got := Letter(33); got != "B♯♯" {
		t.Errorf("Letter(33) = %q, want B♯♯", got)
	}
	if got := Letter(-2); got != "?" {
		t.Errorf("Letter(-2) = %q, want ?", got)
	}
	if got := Letter(34); got != "?" {
		t.Errorf("Letter(34) = %q, want ?", got)
	}
}

func TestTranspose(t *testing.T) {
	tests := []struct {
		name      string
		p         Pitch
		semitones int
		want      Pitch
	}{
		{
			name:      "zero shift keeps spelling",
			p:         Pitch{MIDI: 63, TPC: 11}, // E♭4
			semitones: 0,
			want:      Pitch{MIDI: 63, TPC: 11},
		},
		{
			name:      "upward spells sharp",
			p:         Pitch{MIDI: 60, TPC: 14}, // C4
			semitones: 1,
			want:      Pitch{MIDI: 61, TPC: 21}, // C♯4
		},
		{
			name:      "downward spells flat",
			p:         Pitch{MIDI: 60, TPC: 14}, // C4
			semitones: -1,
			want:      Pitch{MIDI: 59, TPC: 19}, // B3
		},
		{
			name:      "downward chromatic spells flat",
			p:         Pitch{MIDI: 62, TPC: 16}, // D4
			semitones: -4,
			want:      Pitch{MIDI: 58, TPC: 12}, // B♭3
		},
		{
			name:      "octave up keeps natural",
			p:         Pitch{MIDI: 62, TPC: 16},
			semitones: 12,
			want:      Pitch{MIDI: 74, TPC: 16},
		},
		{
			name:      "sentinel immune",
			p:         Pitch{MIDI: SentinelPitch, TPC: 0},
			semitones: 7,
			want:      Pitch{MIDI: SentinelPitch, TPC: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Transpose(tt.p, tt.semitones); got != tt.want {
				t.Errorf("Transpose(%+v, %d) = %+v, want %+v", tt.p, tt.semitones, got, tt.want)
			}
		})
	}
}
