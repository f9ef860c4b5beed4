// Package assets guesses where the image and narration files of a place or
// activity live, and probes the guesses in priority order.
//
// Asset files are named by hand after the place and the activity, e.g.
// ROMA_Coliseu.jpg or FLORENCA_duomo.jpeg, so the resolver produces an
// ordered, duplicate-free list of candidate paths built from several
// spellings of both names, and a Prober picks the first one that exists.
package assets

import (
	"fmt"
	"net/url"
	"strings"
)

// Kind selects the asset family a candidate list is built for.
type Kind string

const (
	KindImage Kind = "image"
	KindAudio Kind = "audio"
	// KindThumb is a place thumbnail: {PLACE}.{ext} with no entity name.
	KindThumb Kind = "thumb"
)

// ParseKind validates a kind string.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(s)); k {
	case KindImage, KindAudio, KindThumb:
		return k, nil
	default:
		return "", fmt.Errorf("unknown asset kind %q", s)
	}
}

// Profile is the per-kind part of candidate generation. Extensions and
// Prefixes are in priority order.
type Profile struct {
	Extensions []string
	Prefixes   []string
}

// ImageProfile orders extensions by how common they are among the shipped
// assets: jpg, png, jpeg, webp. The canonical /public path is tried before
// the direct fallback.
var ImageProfile = Profile{
	Extensions: []string{"jpg", "png", "jpeg", "webp"},
	Prefixes:   []string{"/public/Images", "/Images"},
}

// AudioProfile covers narration files.
var AudioProfile = Profile{
	Extensions: []string{"mp3"},
	Prefixes:   []string{"/public/Audio", "/Audio"},
}

// PlaceLister supplies the concrete place names virtual places expand to.
type PlaceLister interface {
	PlaceNames() []string
}

// Resolver builds candidate paths. It is pure: the same rules, places, and
// inputs always produce the same list.
type Resolver struct {
	rules  *Rules
	places PlaceLister
	image  Profile
	audio  Profile
}

// NewResolver constructs a Resolver. places may be nil, in which case virtual
// places do not expand.
func NewResolver(rules *Rules, places PlaceLister) *Resolver {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Resolver{rules: rules, places: places, image: ImageProfile, audio: AudioProfile}
}

// Candidates dispatches on kind. For KindThumb the name is ignored.
func (r *Resolver) Candidates(kind Kind, place, name string) []string {
	switch kind {
	case KindImage:
		return r.ImageCandidates(place, name)
	case KindAudio:
		return r.AudioCandidates(place, name)
	case KindThumb:
		return r.PlaceThumbCandidates(place)
	default:
		return nil
	}
}

// ImageCandidates returns image paths for an entity filed under place.
// Both a place and a name are required.
func (r *Resolver) ImageCandidates(place, name string) []string {
	if strings.TrimSpace(place) == "" || strings.TrimSpace(name) == "" {
		return nil
	}
	return r.crossProduct(r.image, r.placeVariants(place), r.nameVariants(place, name))
}

// AudioCandidates returns narration paths for an entity. place may be empty,
// in which case only the generic by-name fallbacks are produced. The list
// always ends with the bare name (original, then upper case) and, when a
// place is given, the place alone as a generic narration for that place.
func (r *Resolver) AudioCandidates(place, name string) []string {
	if strings.TrimSpace(name) == "" {
		return nil
	}
	var out []string
	if strings.TrimSpace(place) != "" {
		out = r.crossProduct(r.audio, r.placeVariants(place), r.nameVariants(place, name))
	}

	trailing := []string{name, strings.ToUpper(name)}
	if strings.TrimSpace(place) != "" {
		trailing = append(trailing, place, placeKey(place))
	}
	for _, base := range trailing {
		out = append(out, r.paths(r.audio, base)...)
	}
	return dedupe(out)
}

// PlaceThumbCandidates returns thumbnail paths for a place on its own.
func (r *Resolver) PlaceThumbCandidates(place string) []string {
	if strings.TrimSpace(place) == "" {
		return nil
	}
	var out []string
	for _, v := range r.placeVariants(place) {
		out = append(out, r.paths(r.image, v)...)
	}
	return dedupe(out)
}

// crossProduct yields place × name × extension × prefix, place outermost.
func (r *Resolver) crossProduct(p Profile, places, names []string) []string {
	out := make([]string, 0, len(places)*len(names)*len(p.Extensions)*len(p.Prefixes))
	for _, pl := range places {
		for _, n := range names {
			out = append(out, r.paths(p, pl+"_"+n)...)
		}
	}
	return dedupe(out)
}

// paths expands one filename base into every extension and prefix.
func (r *Resolver) paths(p Profile, base string) []string {
	escaped := url.PathEscape(base)
	out := make([]string, 0, len(p.Extensions)*len(p.Prefixes))
	for _, ext := range p.Extensions {
		for _, prefix := range p.Prefixes {
			out = append(out, prefix+"/"+escaped+"."+ext)
		}
	}
	return out
}

// placeVariants returns the spellings tried for place: upper case with
// spaces, without spaces, and underscore-joined, then any aliases. A virtual
// place additionally contributes the variants of every known place.
func (r *Resolver) placeVariants(place string) []string {
	variants := spellings(place)
	variants = append(variants, r.rules.aliases(place)...)
	if r.rules.IsVirtual(place) {
		for _, p := range r.concretePlaces() {
			variants = append(variants, spellings(p)...)
			variants = append(variants, r.rules.aliases(p)...)
		}
	}
	return dedupe(variants)
}

func spellings(place string) []string {
	upper := strings.ToUpper(stripDiacritics(place))
	return []string{upper, removeSpaces(upper), underscoreSpaces(upper)}
}

// nameVariants returns the entity-name spellings in priority order:
// overrides first, then the literal and folded spellings, then keywords.
func (r *Resolver) nameVariants(place, name string) []string {
	noAccents := stripDiacritics(name)

	var names []string
	names = append(names, r.overridesFor(place, name)...)
	names = append(names,
		name,
		noAccents,
		removeSpaces(name),
		removeSpaces(noAccents),
		removeNonAlnum(name),
		removeNonAlnum(noAccents),
		removeSpaces(titleCaseWords(noAccents)),
	)
	names = append(names, r.rules.keywordFragments(name)...)
	return dedupe(names)
}

// overridesFor looks up name under place, or under every concrete place when
// place is virtual, since aggregate views list activities from many cities.
func (r *Resolver) overridesFor(place, name string) []string {
	out := append([]string(nil), r.rules.override(place, name)...)
	if r.rules.IsVirtual(place) {
		for _, p := range r.concretePlaces() {
			out = append(out, r.rules.override(p, name)...)
		}
	}
	return out
}

func (r *Resolver) concretePlaces() []string {
	if r.places == nil {
		return nil
	}
	return r.places.PlaceNames()
}
