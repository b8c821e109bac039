package handpan

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/agnivade/levenshtein"

	"github.com/MusicFlow-app/HandFlow/pkg/errors"
)

//go:embed scales.toml
var catalogTOML []byte

// Registry is an immutable catalog of handpan layouts, keyed by scale name
// and note count. Build one with [Load] or use the embedded [Default].
type Registry struct {
	layouts  []Layout          // note count ascending, then family order
	index    map[layoutKey]int // (name, count) to position in layouts
	families []string          // family names in catalog order
}

type layoutKey struct {
	name  string // lowercased scale name
	notes int
}

type catalogFile struct {
	Families []catalogFamily `toml:"family"`
}

type catalogFamily struct {
	Name string `toml:"name"`
	MIDI []int  `toml:"midi"`
	TPC  []int  `toml:"tpc"`
}

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns the registry built from the embedded catalog. The registry
// is built on first use and shared afterwards.
func Default() *Registry {
	defaultOnce.Do(func() {
		reg, err := Load(catalogTOML)
		if err != nil {
			panic(fmt.Sprintf("handpan: embedded catalog invalid: %v", err))
		}
		defaultRegistry = reg
	})
	return defaultRegistry
}

// Load parses a TOML catalog and derives every buildable layout from it.
// Each family yields one layout per note count from errors.MinNoteCount to
// errors.MaxNoteCount that its tone field can cover, clipped from the top.
func Load(data []byte) (*Registry, error) {
	var cat catalogFile
	if err := toml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(cat.Families) == 0 {
		return nil, fmt.Errorf("catalog has no scale families")
	}

	seen := make(map[string]bool, len(cat.Families))
	for _, fam := range cat.Families {
		if err := validateFamily(fam); err != nil {
			return nil, fmt.Errorf("family %q: %w", fam.Name, err)
		}
		key := strings.ToLower(fam.Name)
		if seen[key] {
			return nil, fmt.Errorf("duplicate scale family %q", fam.Name)
		}
		seen[key] = true
	}

	reg := &Registry{index: make(map[layoutKey]int)}
	for _, fam := range cat.Families {
		reg.families = append(reg.families, fam.Name)
	}
	for notes := errors.MinNoteCount; notes <= errors.MaxNoteCount; notes++ {
		for _, fam := range cat.Families {
			if len(fam.MIDI) < notes {
				continue
			}
			layout := buildLayout(fam, notes)
			reg.index[layoutKey{strings.ToLower(fam.Name), notes}] = len(reg.layouts)
			reg.layouts = append(reg.layouts, layout)
		}
	}
	return reg, nil
}

func validateFamily(fam catalogFamily) error {
	if fam.Name == "" {
		return fmt.Errorf("missing name")
	}
	if len(fam.MIDI) != len(fam.TPC) {
		return fmt.Errorf("%d midi values but %d tpc values", len(fam.MIDI), len(fam.TPC))
	}
	if len(fam.MIDI) < errors.MinNoteCount || len(fam.MIDI) > errors.MaxNoteCount {
		return fmt.Errorf("%d notes, want %d-%d", len(fam.MIDI), errors.MinNoteCount, errors.MaxNoteCount)
	}
	for i, midi := range fam.MIDI {
		if midi < 1 || midi > 127 {
			return fmt.Errorf("midi %d out of range", midi)
		}
		if i > 0 && midi <= fam.MIDI[i-1] {
			return fmt.Errorf("midi %d not ascending", midi)
		}
	}
	for _, tpc := range fam.TPC {
		if tpc < -1 || tpc > 33 {
			return fmt.Errorf("tpc %d out of range", tpc)
		}
	}
	return nil
}

func buildLayout(fam catalogFamily, notes int) Layout {
	slots := make([]Slot, notes)
	for i := 0; i < notes; i++ {
		slots[i] = Slot{
			Position: i,
			MIDI:     fam.MIDI[i],
			TPC:      fam.TPC[i],
			Ding:     i == 0,
		}
	}
	return Layout{Name: fam.Name, NoteCount: notes, Slots: slots}
}

// Lookup resolves a scale name and note count to a layout. The name match is
// case-insensitive. Misses return an UNKNOWN_LAYOUT error that names the
// closest known scale, so upload forms can surface typos directly.
func (r *Registry) Lookup(name string, noteCount int) (Layout, error) {
	if i, ok := r.index[layoutKey{strings.ToLower(name), noteCount}]; ok {
		return r.layouts[i], nil
	}
	for _, fam := range r.families {
		if strings.EqualFold(fam, name) {
			return Layout{}, errors.New(errors.ErrCodeUnknownLayout,
				"scale %q is not built with %d notes", fam, noteCount)
		}
	}
	if closest := r.closest(name); closest != "" {
		return Layout{}, errors.New(errors.ErrCodeUnknownLayout,
			"unknown handpan scale %q (closest match: %s)", name, closest)
	}
	return Layout{}, errors.New(errors.ErrCodeUnknownLayout, "unknown handpan scale %q", name)
}

// closest returns the catalog family name with the smallest edit distance
// to name, or "" when nothing comes reasonably close.
func (r *Registry) closest(name string) string {
	target := strings.ToLower(name)
	best, bestDist := "", -1
	for _, fam := range r.families {
		dist := levenshtein.ComputeDistance(target, strings.ToLower(fam))
		if bestDist < 0 || dist < bestDist {
			best, bestDist = fam, dist
		}
	}
	if bestDist < 0 || bestDist > len(best) {
		return ""
	}
	return best
}

// Layouts returns every buildable layout, ordered by note count and then by
// catalog family order. The slice is shared; callers must not modify it.
func (r *Registry) Layouts() []Layout {
	return r.layouts
}

// LayoutsWithCount returns the layouts built at exactly the given note count,
// in catalog family order.
func (r *Registry) LayoutsWithCount(noteCount int) []Layout {
	var out []Layout
	for _, l := range r.layouts {
		if l.NoteCount == noteCount {
			out = append(out, l)
		}
	}
	return out
}

// Families returns the scale family names in catalog order.
func (r *Registry) Families() []string {
	return r.families
}
