package route

import (
	"math"

	"trolley/navigator/internal/domain"
	"trolley/navigator/internal/layout"
)

// Planner orders shopping-list items into a walk path through the store.
// It is a greedy priority-first heuristic, not a shortest-total-path
// optimizer: the operator-assigned section priority always wins over raw
// distance, so a store can force fresh produce before frozen foods.
type Planner struct {
	registry *layout.Registry
}

func NewPlanner(registry *layout.Registry) *Planner {
	return &Planner{registry: registry}
}

// UnroutableItem is a shopping-list item whose product references a section
// the layout does not define. Such items are reported, never dropped.
type UnroutableItem struct {
	Item domain.ListItem
	Err  error
}

type candidate struct {
	section domain.Section
	items   []domain.ListItem
	seen    int // First-seen input position, the final tie-break
}

// ComputeRoute partitions items by section and walks the candidates
// greedily from entrance: lowest priority rank first, distance from the
// current position breaking ties, input order breaking full ties. The
// result contains exactly one step per distinct resolvable section.
//
// ComputeRoute is pure: no I/O, no shared state, identical inputs give an
// identical sequence.
func (p *Planner) ComputeRoute(items []domain.ListItem, entrance domain.Coordinate) ([]domain.RouteStep, []UnroutableItem) {
	var (
		candidates []*candidate
		bySection  = make(map[string]*candidate)
		unroutable []UnroutableItem
	)

	for _, item := range items {
		sectionID := item.Product.SectionID
		if c, ok := bySection[sectionID]; ok {
			c.items = append(c.items, item)
			continue
		}

		section, err := p.registry.Lookup(sectionID)
		if err != nil {
			unroutable = append(unroutable, UnroutableItem{Item: item, Err: err})
			continue
		}

		c := &candidate{
			section: section,
			items:   []domain.ListItem{item},
			seen:    len(candidates),
		}
		bySection[sectionID] = c
		candidates = append(candidates, c)
	}

	steps := make([]domain.RouteStep, 0, len(candidates))
	position := entrance

	for len(candidates) > 0 {
		best := 0
		for i := 1; i < len(candidates); i++ {
			if better(candidates[i], candidates[best], position) {
				best = i
			}
		}

		chosen := candidates[best]
		candidates = append(candidates[:best], candidates[best+1:]...)

		direction := headingFor(position, chosen.section.Position)
		instruction := p.instructionFor(len(steps) == 0, direction, chosen.section)

		steps = append(steps, domain.RouteStep{
			Section:     chosen.section,
			Items:       chosen.items,
			Direction:   direction,
			Instruction: instruction,
		})
		position = chosen.section.Position
	}

	return steps, unroutable
}

// better reports whether a should be visited before b from position.
func better(a, b *candidate, position domain.Coordinate) bool {
	ra, rb := rank(a.section), rank(b.section)
	if ra != rb {
		return ra < rb
	}

	da := position.DistanceTo(a.section.Position)
	db := position.DistanceTo(b.section.Position)
	if da != db {
		return da < db
	}

	return a.seen < b.seen
}

// rank maps a section's priority to its selection rank. Sections without
// an explicit priority sort after every ranked section.
func rank(s domain.Section) int {
	if s.Ranked() {
		return s.Priority
	}
	return math.MaxInt
}
