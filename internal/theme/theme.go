package theme

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultUOffset lines the equirectangular textures up with the coordinate mapping (the prime
// meridian faces +Z).
var DefaultUOffset = -1475 / (2 * math.Pi)

// ErrUnknown is returned by Set.Get for names that are not declared.
var ErrUnknown = errors.New("unknown theme")

// Theme is one globe surface texture.
type Theme struct {
	Name    string  `yaml:"name"`
	Label   string  `yaml:"label"`
	Texture string  `yaml:"texture"`
	UOffset float64 `yaml:"uOffset"`
}

// Set is the list of themes in declaration order.
type Set struct {
	Themes []Theme `yaml:"themes"`
}

// Default is used when no themes file is found.
func Default() Set {
	return Set{Themes: []Theme{
		{Name: "earth", Label: "Earth", Texture: "assets/textures/earth.jpg", UOffset: DefaultUOffset},
		{Name: "bathymetry", Label: "Bathymetry", Texture: "assets/textures/bathymetry.png", UOffset: DefaultUOffset},
		{Name: "topography", Label: "Topography", Texture: "assets/textures/topography.png", UOffset: DefaultUOffset},
	}}
}

// Load reads a themes file. A missing file yields Default; names are lower-cased and must be
// unique, and every theme needs a texture.
func Load(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Set{}, fmt.Errorf("theme: %w", err)
	}
	return Parse(data)
}

// Parse decodes a themes document.
func Parse(data []byte) (Set, error) {
	var s Set
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Set{}, fmt.Errorf("theme: %w", err)
	}
	if len(s.Themes) == 0 {
		return Set{}, errors.New("theme: no themes declared")
	}
	seen := make(map[string]bool, len(s.Themes))
	for i := range s.Themes {
		t := &s.Themes[i]
		t.Name = strings.ToLower(strings.TrimSpace(t.Name))
		if t.Name == "" {
			return Set{}, fmt.Errorf("theme: entry %d has no name", i)
		}
		if seen[t.Name] {
			return Set{}, fmt.Errorf("theme: duplicate name %q", t.Name)
		}
		seen[t.Name] = true
		if t.Texture == "" {
			return Set{}, fmt.Errorf("theme %q: no texture", t.Name)
		}
		if t.Label == "" {
			t.Label = t.Name
		}
	}
	return s, nil
}

// Get returns the theme called name (case-insensitive).
func (s Set) Get(name string) (Theme, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, t := range s.Themes {
		if t.Name == name {
			return t, nil
		}
	}
	return Theme{}, fmt.Errorf("%w: %s", ErrUnknown, name)
}

// Names lists theme names in order.
func (s Set) Names() []string {
	out := make([]string, len(s.Themes))
	for i, t := range s.Themes {
		out[i] = t.Name
	}
	return out
}
