package domain

// Section is a named region of a store layout. Sections are authored once
// per store and never change for the lifetime of a layout.
type Section struct {
	ID           string     `json:"id"`
	StoreID      string     `json:"store_id"`
	Name         string     `json:"name"`
	Color        string     `json:"color"`
	SVGElementID string     `json:"svg_element_id"` // ID of the SVG element to highlight
	Position     Coordinate `json:"position"`
	Priority     int        `json:"priority"` // Lower = visited earlier, 0 = unranked (visited last)
	Landmark     string     `json:"landmark,omitempty"`
}

// Ranked reports whether the store operator assigned this section an
// explicit traversal priority.
func (s Section) Ranked() bool {
	return s.Priority > 0
}
