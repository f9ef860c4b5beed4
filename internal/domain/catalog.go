package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Catalog is the read-only content document: countries, their cities, and
// each city's activities. It is supplied externally and never mutated.
type Catalog struct {
	Countries []Country `json:"countries"`
}

// Country groups the cities of one country.
type Country struct {
	Name   string `json:"name"`
	Flag   string `json:"flag,omitempty"`
	Cities []City `json:"cities"`
}

// City owns its activities. Activity names are assumed unique within a city.
type City struct {
	Name       string     `json:"name"`
	Activities []Activity `json:"activities"`
}

// Activity is a catalog entry a traveller can favorite, mark visited, or add
// to a trip day.
type Activity struct {
	Name           string       `json:"name"`
	Description    string       `json:"description"`
	SuggestedTime  string       `json:"suggested_time"`
	MapCoordinates *Coordinates `json:"map_coordinates,omitempty"`
	NarrationAudio string       `json:"narration_audio,omitempty"`
}

// Coordinates is a WGS84 point.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// MapURL builds the external map-provider query link for c.
func (c Coordinates) MapURL() string {
	return "https://www.google.com/maps?q=" +
		strconv.FormatFloat(c.Latitude, 'f', -1, 64) + "," +
		strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}

// Validate reports coordinates outside the WGS84 range.
func (c Coordinates) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 || c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w: coordinates out of range", ErrValidation)
	}
	return nil
}

// CatalogEntry is an activity together with the city and country that own it.
type CatalogEntry struct {
	Activity
	City    string `json:"city"`
	Country string `json:"country"`
}

// PlaceNames returns every city name in document order.
func (c *Catalog) PlaceNames() []string {
	var names []string
	for _, country := range c.Countries {
		for _, city := range country.Cities {
			names = append(names, city.Name)
		}
	}
	return names
}

// Entries flattens the document into one entry per activity.
func (c *Catalog) Entries() []CatalogEntry {
	var out []CatalogEntry
	for _, country := range c.Countries {
		for _, city := range country.Cities {
			for _, a := range city.Activities {
				out = append(out, CatalogEntry{Activity: a, City: city.Name, Country: country.Name})
			}
		}
	}
	return out
}

// FindActivity looks up an activity by city and activity name, ignoring case.
func (c *Catalog) FindActivity(city, name string) (CatalogEntry, error) {
	for _, e := range c.Entries() {
		if strings.EqualFold(e.City, city) && strings.EqualFold(e.Name, name) {
			return e, nil
		}
	}
	return CatalogEntry{}, fmt.Errorf("activity %q in %q: %w", name, city, ErrNotFound)
}

// FindByName returns the first activity with the given name in any city.
// Favorites and visited sets store bare names, so this is how they are
// resolved back to catalog entries.
func (c *Catalog) FindByName(name string) (CatalogEntry, bool) {
	for _, e := range c.Entries() {
		if e.Name == name {
			return e, true
		}
	}
	return CatalogEntry{}, false
}

// Search returns activities whose name contains query (case insensitive),
// deduplicated by name and city. An empty query matches everything.
func (c *Catalog) Search(query string) []CatalogEntry {
	q := strings.ToLower(strings.TrimSpace(query))
	seen := make(map[string]struct{})
	out := []CatalogEntry{}
	for _, e := range c.Entries() {
		if !strings.Contains(strings.ToLower(e.Name), q) {
			continue
		}
		key := e.Name + "__" + e.City
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}
	return out
}
