package layout

import (
	"errors"
	"fmt"
	"os"

	"trolley/navigator/internal/domain"

	"gopkg.in/yaml.v3"
)

// ErrUnknownSection is returned when a lookup references a section id that
// the store layout does not define.
var ErrUnknownSection = errors.New("unknown section")

// Registry is the read-only section table for one store layout. It is
// populated once at layout-load time and never mutated, so it is safe for
// concurrent readers without locking.
type Registry struct {
	entrance domain.Coordinate
	sections map[string]domain.Section
	order    []string
	hints    map[string]string
}

// NewRegistry builds a registry from authored sections. Duplicate section
// ids are a configuration error and reject the whole layout.
func NewRegistry(entrance domain.Coordinate, sections []domain.Section) (*Registry, error) {
	r := &Registry{
		entrance: entrance,
		sections: make(map[string]domain.Section, len(sections)),
		order:    make([]string, 0, len(sections)),
		hints:    make(map[string]string),
	}

	for _, section := range sections {
		if section.ID == "" {
			return nil, fmt.Errorf("section %q has no id", section.Name)
		}
		if _, exists := r.sections[section.ID]; exists {
			return nil, fmt.Errorf("duplicate section id %q in layout", section.ID)
		}
		r.sections[section.ID] = section
		r.order = append(r.order, section.ID)
	}

	return r, nil
}

// Entrance returns the fixed entrance coordinate routes start from.
func (r *Registry) Entrance() domain.Coordinate {
	return r.entrance
}

// Lookup resolves a section id to its authored section.
func (r *Registry) Lookup(id string) (domain.Section, error) {
	section, ok := r.sections[id]
	if !ok {
		return domain.Section{}, fmt.Errorf("section %q: %w", id, ErrUnknownSection)
	}
	return section, nil
}

// Sections returns all sections in registration order.
func (r *Registry) Sections() []domain.Section {
	out := make([]domain.Section, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.sections[id])
	}
	return out
}

// ArrivalHint returns the canned first-hop instruction for a section, if
// the layout author wrote one.
func (r *Registry) ArrivalHint(id string) (string, bool) {
	hint, ok := r.hints[id]
	return hint, ok
}

// File is the on-disk layout document. Coordinates are in layout-pixel
// space, matching the store's SVG map.
type File struct {
	Entrance domain.Coordinate `yaml:"entrance"`
	Sections []FileSection     `yaml:"sections"`
}

type FileSection struct {
	ID           string  `yaml:"id"`
	Name         string  `yaml:"name"`
	Color        string  `yaml:"color"`
	SVGElementID string  `yaml:"svg_element_id"`
	X            float64 `yaml:"x"`
	Y            float64 `yaml:"y"`
	Priority     int     `yaml:"priority"`
	Landmark     string  `yaml:"landmark"`
	ArrivalHint  string  `yaml:"arrival_hint"`
}

// LoadFile reads a YAML layout file and builds the registry for it.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a registry from raw YAML layout content.
func Parse(data []byte) (*Registry, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode layout: %w", err)
	}

	sections := make([]domain.Section, 0, len(file.Sections))
	for _, fs := range file.Sections {
		if fs.Name == "" {
			return nil, fmt.Errorf("section %q has no name", fs.ID)
		}
		if fs.Priority < 0 {
			return nil, fmt.Errorf("section %q has negative priority %d", fs.ID, fs.Priority)
		}
		sections = append(sections, domain.Section{
			ID:           fs.ID,
			Name:         fs.Name,
			Color:        fs.Color,
			SVGElementID: fs.SVGElementID,
			Position:     domain.Coordinate{X: fs.X, Y: fs.Y},
			Priority:     fs.Priority,
			Landmark:     fs.Landmark,
		})
	}

	registry, err := NewRegistry(file.Entrance, sections)
	if err != nil {
		return nil, err
	}

	for _, fs := range file.Sections {
		if fs.ArrivalHint != "" {
			registry.hints[fs.ID] = fs.ArrivalHint
		}
	}

	return registry, nil
}
