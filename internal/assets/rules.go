package assets

import (
	_ "embed"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// Rules is the editable naming knowledge behind candidate generation.
// All keys are stored in their canonical form (see placeKey and nameKey), so
// spellings that differ only in case, accents, or spacing share one entry.
type Rules struct {
	virtualPlaces map[string]struct{}
	placeAliases  map[string][]string
	keywords      map[string][]string
	overrides     map[string]map[string][]string
}

// rulesFile is the on-disk YAML shape of Rules.
type rulesFile struct {
	VirtualPlaces []string                       `yaml:"virtual_places"`
	PlaceAliases  map[string][]string            `yaml:"place_aliases"`
	Keywords      map[string][]string            `yaml:"keywords"`
	Overrides     map[string]map[string][]string `yaml:"overrides"`
}

// DefaultRules returns the rules embedded in the binary.
func DefaultRules() *Rules {
	r, err := ParseRules(defaultRulesYAML)
	if err != nil {
		panic("assets: embedded rules.yaml is invalid: " + err.Error())
	}
	return r
}

// LoadRules reads a rules YAML file from disk.
func LoadRules(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("assets.LoadRules: %w", err)
	}
	r, err := ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("assets.LoadRules: %s: %w", path, err)
	}
	return r, nil
}

// ParseRules decodes and canonicalises a rules document.
// Entries whose keys collapse to the same canonical key are merged in sorted
// key order so the result does not depend on map iteration order.
func ParseRules(data []byte) (*Rules, error) {
	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}

	r := &Rules{
		virtualPlaces: make(map[string]struct{}),
		placeAliases:  make(map[string][]string),
		keywords:      make(map[string][]string),
		overrides:     make(map[string]map[string][]string),
	}
	for _, p := range f.VirtualPlaces {
		r.virtualPlaces[placeKey(p)] = struct{}{}
	}
	for _, p := range sortedKeys(f.PlaceAliases) {
		k := placeKey(p)
		r.placeAliases[k] = dedupe(append(r.placeAliases[k], f.PlaceAliases[p]...))
	}
	for _, kw := range sortedKeys(f.Keywords) {
		k := nameKey(kw)
		frags := f.Keywords[kw]
		if len(frags) == 0 {
			frags = []string{k}
		}
		r.keywords[k] = dedupe(append(r.keywords[k], frags...))
	}
	for _, p := range sortedKeys(f.Overrides) {
		pk := placeKey(p)
		byName := r.overrides[pk]
		if byName == nil {
			byName = make(map[string][]string)
			r.overrides[pk] = byName
		}
		for _, n := range sortedKeys(f.Overrides[p]) {
			nk := nameKey(n)
			byName[nk] = dedupe(append(byName[nk], f.Overrides[p][n]...))
		}
	}
	return r, nil
}

// IsVirtual reports whether place is an aggregate label such as "Favoritos".
func (r *Rules) IsVirtual(place string) bool {
	_, ok := r.virtualPlaces[placeKey(place)]
	return ok
}

func (r *Rules) aliases(place string) []string {
	return r.placeAliases[placeKey(place)]
}

func (r *Rules) override(place, name string) []string {
	return r.overrides[placeKey(place)][nameKey(name)]
}

// keywordFragments returns the fragments for every keyword token of name, in
// token order.
func (r *Rules) keywordFragments(name string) []string {
	var out []string
	for _, tok := range tokens(nameKey(name)) {
		out = append(out, r.keywords[tok]...)
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
