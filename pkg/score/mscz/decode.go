package mscz

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/MusicFlow-app/HandFlow/pkg/errors"
	"github.com/MusicFlow-app/HandFlow/pkg/score"
)

// unknownDuration marks events whose durationType token was not recognized.
// They are resolved to concrete rests once the whole measure is known.
const unknownDuration = score.Duration(-1)

// DecodeScore parses score markup into a document. Parts are declared in
// <Part> blocks (track name plus staff ids); measures live in the top-level
// <Staff> blocks that follow. Two-staff parts are split into "(Treble)" and
// "(Bass)" entries. Structural failures return SCORE_UNPARSABLE.
func DecodeScore(r io.Reader) (*score.Document, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	p := &parser{
		dec:    dec,
		labels: make(map[int]string),
		bodies: make(map[int][]score.Measure),
		meta:   score.Metadata{Title: "Unknown", Composer: "Unknown", Arranger: "Unknown"},
	}
	if err := p.run(); err != nil {
		if errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeScoreUnparsable, err, "parse score markup")
	}

	doc := &score.Document{Meta: p.meta, Degraded: p.degraded}
	for _, id := range p.bodyOrder {
		name := p.labels[id]
		if name == "" {
			name = "Part " + strconv.Itoa(id)
		}
		doc.Parts = append(doc.Parts, score.Part{
			Name:     name,
			StaffID:  id,
			Measures: p.bodies[id],
		})
	}
	if len(doc.Parts) == 0 {
		return nil, errors.New(errors.ErrCodeScoreUnparsable, "score has no staves with measures")
	}
	return doc, nil
}

type parser struct {
	dec  *xml.Decoder
	meta score.Metadata

	// Part declarations: staff id -> display label, in declaration order.
	labels map[int]string

	// Staff bodies: staff id -> measures, in body order.
	bodies    map[int][]score.Measure
	bodyOrder []int

	sig      score.TimeSig // sticky time signature
	degraded int
}

func (p *parser) run() error {
	for {
		tok, err := p.dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "metaTag":
			if err := p.metaTag(start); err != nil {
				return err
			}
		case "Part":
			if err := p.part(); err != nil {
				return err
			}
		case "Staff":
			id, ok := intAttr(start, "id")
			if !ok {
				return errors.New(errors.ErrCodeScoreUnparsable, "staff element missing id attribute")
			}
			if err := p.staffBody(id); err != nil {
				return err
			}
		}
	}
}

// metaTag records workTitle, composer and arranger tags.
func (p *parser) metaTag(start xml.StartElement) error {
	name := attr(start, "name")
	text, err := p.elementText()
	if err != nil {
		return err
	}
	if text == "" {
		return nil
	}
	switch name {
	case "workTitle":
		p.meta.Title = text
	case "composer":
		p.meta.Composer = text
	case "arranger":
		p.meta.Arranger = text
	}
	return nil
}

// part reads one <Part> declaration: its track name and staff ids.
// The track name may sit directly under the part or inside its
// <Instrument> block; the last one seen wins. A part with exactly two
// staves is split into treble and bass entries.
func (p *parser) part() error {
	var name string
	var staves []int
	depth := 1
	for depth > 0 {
		tok, err := p.dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == "Staff" && depth == 1:
				if id, ok := intAttr(t, "id"); ok {
					staves = append(staves, id)
				}
				if err := p.dec.Skip(); err != nil {
					return err
				}
			case t.Name.Local == "trackName":
				text, err := p.elementText()
				if err != nil {
					return err
				}
				if text != "" {
					name = text
				}
			default:
				depth++
			}
		case xml.EndElement:
			depth--
		}
	}
	if name == "" {
		name = "Part"
	}
	if len(staves) == 2 {
		p.labels[staves[0]] = name + " (Treble)"
		p.labels[staves[1]] = name + " (Bass)"
	} else {
		for _, id := range staves {
			p.labels[id] = name
		}
	}
	return nil
}

// staffBody reads the measures of one top-level <Staff> block.
func (p *parser) staffBody(id int) error {
	var measures []score.Measure
	num := 0
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "Measure" {
				num++
				m, err := p.measure(num)
				if err != nil {
					return err
				}
				measures = append(measures, m)
			} else if err := p.dec.Skip(); err != nil {
				return err
			}
		case xml.EndElement:
			if _, seen := p.bodies[id]; !seen {
				p.bodyOrder = append(p.bodyOrder, id)
			}
			p.bodies[id] = measures
			return nil
		}
	}
}

// measure reads one <Measure> subtree. Newer markup wraps events in <voice>
// blocks; older markup puts them directly under the measure (a single voice).
func (p *parser) measure(num int) (score.Measure, error) {
	m := score.Measure{Number: num, Time: p.sig}
	voice := 0
	var unknown []int
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return m, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "voice" {
				if err := p.voiceBody(&m, voice, &unknown); err != nil {
					return m, err
				}
				voice++
				continue
			}
			if err := p.item(t.Name.Local, &m, voice, &unknown); err != nil {
				return m, err
			}
		case xml.EndElement:
			p.resolveUnknown(&m, unknown)
			return m, nil
		}
	}
}

// voiceBody reads the events of one <voice> wrapper.
func (p *parser) voiceBody(m *score.Measure, voice int, unknown *[]int) error {
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if err := p.item(t.Name.Local, m, voice, unknown); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

// item dispatches one element inside a measure or voice. Elements that are
// not events or time signatures (clefs, dynamics, spanners, tuplet ratios)
// are skipped wholesale.
func (p *parser) item(name string, m *score.Measure, voice int, unknown *[]int) error {
	switch name {
	case "TimeSig":
		sig, err := p.timeSig()
		if err != nil {
			return err
		}
		if !sig.IsZero() {
			p.sig = sig
			m.Time = sig
		}
		return nil
	case "Chord":
		ev, err := p.chord(voice)
		if err != nil {
			return err
		}
		if ev.Duration == unknownDuration {
			*unknown = append(*unknown, len(m.Events))
		}
		m.Events = append(m.Events, ev)
		return nil
	case "Rest":
		ev, err := p.rest(voice)
		if err != nil {
			return err
		}
		if ev.Duration == unknownDuration {
			*unknown = append(*unknown, len(m.Events))
		}
		m.Events = append(m.Events, ev)
		return nil
	default:
		return p.dec.Skip()
	}
}

// timeSig reads a <TimeSig> subtree into a signature.
func (p *parser) timeSig() (score.TimeSig, error) {
	var sig score.TimeSig
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return sig, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "sigN":
				n, err := p.elementInt()
				if err != nil {
					return sig, err
				}
				if n > 0 {
					sig.Beats = n
				}
			case "sigD":
				n, err := p.elementInt()
				if err != nil {
					return sig, err
				}
				if n > 0 {
					sig.Unit = n
				}
			default:
				if err := p.dec.Skip(); err != nil {
					return sig, err
				}
			}
		case xml.EndElement:
			return sig, nil
		}
	}
}

// chord reads a <Chord> subtree into a note event. Chords without a single
// usable pitch, or with an unrecognized duration token, degrade to rests.
func (p *parser) chord(voice int) (score.Event, error) {
	var durTok string
	var pitches []score.Pitch
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return score.Event{}, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "durationType":
				text, err := p.elementText()
				if err != nil {
					return score.Event{}, err
				}
				durTok = text
			case "Note":
				pitch, ok, err := p.note()
				if err != nil {
					return score.Event{}, err
				}
				if ok {
					pitches = append(pitches, pitch)
				}
			default:
				if err := p.dec.Skip(); err != nil {
					return score.Event{}, err
				}
			}
		case xml.EndElement:
			dur, err := score.ParseDuration(durTok)
			if err != nil {
				p.degraded++
				return score.Rest(unknownDuration, voice), nil
			}
			if len(pitches) == 0 {
				p.degraded++
				return score.Rest(dur, voice), nil
			}
			return score.Note(dur, voice, pitches...), nil
		}
	}
}

// rest reads a <Rest> subtree into a rest event.
func (p *parser) rest(voice int) (score.Event, error) {
	var durTok string
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return score.Event{}, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "durationType" {
				text, err := p.elementText()
				if err != nil {
					return score.Event{}, err
				}
				durTok = text
			} else if err := p.dec.Skip(); err != nil {
				return score.Event{}, err
			}
		case xml.EndElement:
			dur, err := score.ParseDuration(durTok)
			if err != nil {
				p.degraded++
				return score.Rest(unknownDuration, voice), nil
			}
			return score.Rest(dur, voice), nil
		}
	}
}

// note reads a <Note> subtree. The second return is false when the note has
// no parseable pitch. A missing or out-of-range spelling falls back to the
// sharp respelling of the pitch class.
func (p *parser) note() (score.Pitch, bool, error) {
	midi := -1
	tpc := -1000
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return score.Pitch{}, false, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "pitch":
				n, err := p.elementInt()
				if err != nil {
					return score.Pitch{}, false, err
				}
				midi = n
			case "tpc":
				n, err := p.elementInt()
				if err != nil {
					return score.Pitch{}, false, err
				}
				tpc = n
			default:
				if err := p.dec.Skip(); err != nil {
					return score.Pitch{}, false, err
				}
			}
		case xml.EndElement:
			if midi < 0 || midi > 127 {
				return score.Pitch{}, false, nil
			}
			pitch := score.Pitch{MIDI: midi, TPC: tpc}
			if tpc < -1 || tpc > 33 {
				pitch.TPC = score.DefaultTPC(midi)
			}
			return pitch, true, nil
		}
	}
}

// resolveUnknown assigns durations to events whose token was unrecognized.
// Each placeholder becomes a rest filling an equal share of whatever the
// measure's signature leaves unaccounted for, so measure fill survives the
// degradation. Falls back to quarter when nothing can be inferred.
func (p *parser) resolveUnknown(m *score.Measure, unknown []int) {
	if len(unknown) == 0 {
		return
	}
	byVoice := make(map[int][]int)
	for _, idx := range unknown {
		v := m.Events[idx].Voice
		byVoice[v] = append(byVoice[v], idx)
	}
	for v, idxs := range byVoice {
		known := 0
		for _, e := range m.Events {
			if e.Voice == v && e.Duration.Valid() {
				known += e.Duration.Sixtyfourths()
			}
		}
		share := 0
		if total := m.Time.Sixtyfourths(); total > known {
			share = (total - known) / len(idxs)
		}
		dur := classAtMost(share)
		for _, idx := range idxs {
			m.Events[idx].Duration = dur
		}
	}
}

// classAtMost returns the largest duration class not exceeding the given
// number of 64th-note units, defaulting to quarter when none fits.
func classAtMost(n int) score.Duration {
	for d := score.DurationWhole; d <= score.DurationSixtyFourth; d++ {
		if d.Sixtyfourths() <= n {
			return d
		}
	}
	return score.DurationQuarter
}

// elementText reads the character data of the current element through its
// closing tag.
func (p *parser) elementText() (string, error) {
	var sb strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := p.dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 1 {
				sb.Write(t)
			}
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

// elementInt reads the current element's text as an integer.
// Unparseable text reads as -1 rather than failing the document.
func (p *parser) elementInt() (int, error) {
	text, err := p.elementText()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return -1, nil
	}
	return n, nil
}

func attr(start xml.StartElement, name string) string {
	for _, a := range start.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func intAttr(start xml.StartElement, name string) (int, bool) {
	v := attr(start, name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
