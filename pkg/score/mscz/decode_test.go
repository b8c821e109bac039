package mscz

import (
	"strings"
	"testing"

	"github.com/MusicFlow-app/HandFlow/pkg/errors"
	"github.com/MusicFlow-app/HandFlow/pkg/score"
)

const pianoScore = `<?xml version="1.0" encoding="UTF-8"?>
<museScore version="3.02">
  <Score>
    <metaTag name="workTitle">Moon Dance</metaTag>
    <metaTag name="composer">A. Writer</metaTag>
    <Part>
      <Staff id="1"><StaffType group="pitched"/></Staff>
      <Staff id="2"><StaffType group="pitched"/></Staff>
      <Instrument>
        <longName>Piano</longName>
        <trackName>Piano</trackName>
      </Instrument>
    </Part>
    <Staff id="1">
      <Measure>
        <voice>
          <TimeSig><sigN>4</sigN><sigD>4</sigD></TimeSig>
          <Chord><durationType>quarter</durationType><Note><pitch>62</pitch><tpc>16</tpc></Note></Chord>
          <Chord><durationType>quarter</durationType><Note><pitch>64</pitch><tpc>18</tpc></Note><Note><pitch>69</pitch><tpc>17</tpc></Note></Chord>
          <Rest><durationType>half</durationType></Rest>
        </voice>
      </Measure>
      <Measure>
        <voice>
          <Chord><durationType>whole</durationType><Note><pitch>65</pitch><tpc>13</tpc></Note></Chord>
        </voice>
      </Measure>
    </Staff>
    <Staff id="2">
      <Measure>
        <voice>
          <TimeSig><sigN>4</sigN><sigD>4</sigD></TimeSig>
          <Rest><durationType>measure</durationType></Rest>
        </voice>
      </Measure>
    </Staff>
  </Score>
</museScore>`

func decode(t *testing.T, markup string) *score.Document {
	t.Helper()
	doc, err := DecodeScore(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("DecodeScore() error = %v", err)
	}
	return doc
}

func TestDecodeScoreMetadata(t *testing.T) {
	doc := decode(t, pianoScore)

	if doc.Meta.Title != "Moon Dance" {
		t.Errorf("Title = %q, want %q", doc.Meta.Title, "Moon Dance")
	}
	if doc.Meta.Composer != "A. Writer" {
		t.Errorf("Composer = %q, want %q", doc.Meta.Composer, "A. Writer")
	}
	if doc.Meta.Arranger != "Unknown" {
		t.Errorf("Arranger = %q, want %q", doc.Meta.Arranger, "Unknown")
	}
}

func TestDecodeScoreParts(t *testing.T) {
	doc := decode(t, pianoScore)

	if len(doc.Parts) != 2 {
		t.Fatalf("got %d parts, want 2", len(doc.Parts))
	}
	if doc.Parts[0].Name != "Piano (Treble)" || doc.Parts[0].StaffID != 1 {
		t.Errorf("parts[0] = %q staff %d, want Piano (Treble) staff 1", doc.Parts[0].Name, doc.Parts[0].StaffID)
	}
	if doc.Parts[1].Name != "Piano (Bass)" || doc.Parts[1].StaffID != 2 {
		t.Errorf("parts[1] = %q staff %d, want Piano (Bass) staff 2", doc.Parts[1].Name, doc.Parts[1].StaffID)
	}
}

func TestDecodeScoreMeasures(t *testing.T) {
	doc := decode(t, pianoScore)

	treble := doc.Parts[0]
	if len(treble.Measures) != 2 {
		t.Fatalf("got %d measures, want 2", len(treble.Measures))
	}

	m1 := treble.Measures[0]
	if m1.Time != (score.TimeSig{Beats: 4, Unit: 4}) {
		t.Errorf("measure 1 time = %v, want 4/4", m1.Time)
	}
	if len(m1.Events) != 3 {
		t.Fatalf("measure 1 has %d events, want 3", len(m1.Events))
	}
	if m1.Events[0].Kind != score.EventNote || m1.Events[0].Duration != score.DurationQuarter {
		t.Errorf("event 0 = %+v, want quarter note", m1.Events[0])
	}
	if got := m1.Events[0].Pitches[0]; got != (score.Pitch{MIDI: 62, TPC: 16}) {
		t.Errorf("event 0 pitch = %+v, want D4", got)
	}
	if len(m1.Events[1].Pitches) != 2 {
		t.Errorf("event 1 has %d pitches, want 2 (chord)", len(m1.Events[1].Pitches))
	}
	if !m1.Events[2].IsRest() || m1.Events[2].Duration != score.DurationHalf {
		t.Errorf("event 2 = %+v, want half rest", m1.Events[2])
	}

	// Signature is sticky into the second measure.
	m2 := treble.Measures[1]
	if m2.Time != (score.TimeSig{Beats: 4, Unit: 4}) {
		t.Errorf("measure 2 time = %v, want inherited 4/4", m2.Time)
	}
	if m2.Number != 2 {
		t.Errorf("measure 2 number = %d, want 2", m2.Number)
	}
}

func TestDecodeScoreMeasureRestIsWhole(t *testing.T) {
	doc := decode(t, pianoScore)

	bass := doc.Parts[1]
	ev := bass.Measures[0].Events[0]
	if !ev.IsRest() || ev.Duration != score.DurationWhole {
		t.Errorf("measure rest = %+v, want whole rest", ev)
	}
}

func TestDecodeScoreVoices(t *testing.T) {
	markup := `<museScore><Score>
  <Part><Staff id="1"/><trackName>Drum</trackName></Part>
  <Staff id="1">
    <Measure>
      <voice>
        <TimeSig><sigN>4</sigN><sigD>4</sigD></TimeSig>
        <Chord><durationType>whole</durationType><Note><pitch>62</pitch><tpc>16</tpc></Note></Chord>
      </voice>
      <voice>
        <Rest><durationType>whole</durationType></Rest>
      </voice>
    </Measure>
  </Staff>
</Score></museScore>`

	doc := decode(t, markup)
	events := doc.Parts[0].Measures[0].Events
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Voice != 0 {
		t.Errorf("first event voice = %d, want 0", events[0].Voice)
	}
	if events[1].Voice != 1 {
		t.Errorf("second event voice = %d, want 1", events[1].Voice)
	}
}

func TestDecodeScoreWithoutVoiceWrappers(t *testing.T) {
	markup := `<museScore><Score>
  <Part><Staff id="1"/><trackName>Flute</trackName></Part>
  <Staff id="1">
    <Measure>
      <TimeSig><sigN>3</sigN><sigD>4</sigD></TimeSig>
      <Chord><durationType>quarter</durationType><Note><pitch>60</pitch><tpc>14</tpc></Note></Chord>
      <Rest><durationType>half</durationType></Rest>
    </Measure>
  </Staff>
</Score></museScore>`

	doc := decode(t, markup)
	m := doc.Parts[0].Measures[0]
	if m.Time != (score.TimeSig{Beats: 3, Unit: 4}) {
		t.Errorf("time = %v, want 3/4", m.Time)
	}
	if len(m.Events) != 2 || m.Events[0].Voice != 0 || m.Events[1].Voice != 0 {
		t.Errorf("events = %+v, want two voice-0 events", m.Events)
	}
}

func TestDecodeScoreDegradesUnknownDuration(t *testing.T) {
	markup := `<museScore><Score>
  <Part><Staff id="1"/><trackName>Flute</trackName></Part>
  <Staff id="1">
    <Measure>
      <voice>
        <TimeSig><sigN>4</sigN><sigD>4</sigD></TimeSig>
        <Chord><durationType>quarter</durationType><Note><pitch>60</pitch><tpc>14</tpc></Note></Chord>
        <Chord><durationType>128th</durationType><Note><pitch>62</pitch><tpc>16</tpc></Note></Chord>
        <Chord><durationType>quarter</durationType><Note><pitch>64</pitch><tpc>18</tpc></Note></Chord>
        <Chord><durationType>quarter</durationType><Note><pitch>65</pitch><tpc>13</tpc></Note></Chord>
      </voice>
    </Measure>
  </Staff>
</Score></museScore>`

	doc := decode(t, markup)
	if doc.Degraded != 1 {
		t.Errorf("Degraded = %d, want 1", doc.Degraded)
	}

	events := doc.Parts[0].Measures[0].Events
	if len(events) != 4 {
		t.Fatalf("got %d events, want 4 (order preserved)", len(events))
	}
	degraded := events[1]
	if !degraded.IsRest() {
		t.Fatalf("degraded event = %+v, want rest", degraded)
	}
	// Three valid quarters leave one quarter of the 4/4 measure unaccounted
	// for, so the placeholder resolves to a quarter rest.
	if degraded.Duration != score.DurationQuarter {
		t.Errorf("degraded duration = %v, want quarter", degraded.Duration)
	}
}

func TestDecodeScoreDegradesChordWithoutPitches(t *testing.T) {
	markup := `<museScore><Score>
  <Part><Staff id="1"/><trackName>Flute</trackName></Part>
  <Staff id="1">
    <Measure>
      <voice>
        <TimeSig><sigN>4</sigN><sigD>4</sigD></TimeSig>
        <Chord><durationType>half</durationType></Chord>
        <Chord><durationType>half</durationType><Note><pitch>60</pitch><tpc>14</tpc></Note></Chord>
      </voice>
    </Measure>
  </Staff>
</Score></museScore>`

	doc := decode(t, markup)
	events := doc.Parts[0].Measures[0].Events
	if !events[0].IsRest() || events[0].Duration != score.DurationHalf {
		t.Errorf("pitchless chord = %+v, want half rest", events[0])
	}
	if doc.Degraded != 1 {
		t.Errorf("Degraded = %d, want 1", doc.Degraded)
	}
}

func TestDecodeScoreMissingTPCFallsBackToSharps(t *testing.T) {
	markup := `<museScore><Score>
  <Part><Staff id="1"/><trackName>Flute</trackName></Part>
  <Staff id="1">
    <Measure>
      <voice>
        <TimeSig><sigN>4</sigN><sigD>4</sigD></TimeSig>
        <Chord><durationType>whole</durationType><Note><pitch>61</pitch></Note></Chord>
      </voice>
    </Measure>
  </Staff>
</Score></museScore>`

	doc := decode(t, markup)
	p := doc.Parts[0].Measures[0].Events[0].Pitches[0]
	if p.TPC != 21 { // C sharp
		t.Errorf("fallback TPC = %d, want 21", p.TPC)
	}
}

func TestDecodeScoreNoStaves(t *testing.T) {
	_, err := DecodeScore(strings.NewReader(`<museScore><Score></Score></museScore>`))
	if !errors.Is(err, errors.ErrCodeScoreUnparsable) {
		t.Errorf("error = %v, want SCORE_UNPARSABLE", err)
	}
}

func TestDecodeScoreMalformedMarkup(t *testing.T) {
	_, err := DecodeScore(strings.NewReader(`<museScore><Score><Staff id="1"><Measure>`))
	if !errors.Is(err, errors.ErrCodeScoreUnparsable) {
		t.Errorf("error = %v, want SCORE_UNPARSABLE", err)
	}
}

func TestDecodeScoreStaffWithoutID(t *testing.T) {
	markup := `<museScore><Score>
  <Part><Staff id="1"/><trackName>Flute</trackName></Part>
  <Staff><Measure/></Staff>
</Score></museScore>`

	_, err := DecodeScore(strings.NewReader(markup))
	if !errors.Is(err, errors.ErrCodeScoreUnparsable) {
		t.Errorf("error = %v, want SCORE_UNPARSABLE", err)
	}
}

func TestDecodeScoreSignatureChange(t *testing.T) {
	markup := `<museScore><Score>
  <Part><Staff id="1"/><trackName>Flute</trackName></Part>
  <Staff id="1">
    <Measure>
      <voice>
        <TimeSig><sigN>4</sigN><sigD>4</sigD></TimeSig>
        <Rest><durationType>measure</durationType></Rest>
      </voice>
    </Measure>
    <Measure>
      <voice>
        <TimeSig><sigN>3</sigN><sigD>4</sigD></TimeSig>
        <Rest><durationType>half</durationType></Rest>
        <Rest><durationType>quarter</durationType></Rest>
      </voice>
    </Measure>
    <Measure>
      <voice>
        <Rest><durationType>half</durationType></Rest>
        <Rest><durationType>quarter</durationType></Rest>
      </voice>
    </Measure>
  </Staff>
</Score></museScore>`

	doc := decode(t, markup)
	measures := doc.Parts[0].Measures
	want := []score.TimeSig{{Beats: 4, Unit: 4}, {Beats: 3, Unit: 4}, {Beats: 3, Unit: 4}}
	for i, sig := range want {
		if measures[i].Time != sig {
			t.Errorf("measure %d time = %v, want %v", i+1, measures[i].Time, sig)
		}
	}
}
