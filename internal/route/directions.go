package route

import (
	"fmt"
	"math"

	"trolley/navigator/internal/domain"
)

// headingFor derives the icon tag for a hop from the dominant displacement
// axis. Layout y grows toward the front of the store, so negative dy means
// walking deeper into the store.
func headingFor(from, to domain.Coordinate) domain.Direction {
	dx := to.X - from.X
	dy := to.Y - from.Y

	if math.Abs(dx) > math.Abs(dy) {
		if dx > 0 {
			return domain.DirectionRight
		}
		return domain.DirectionLeft
	}

	if dy <= 0 {
		return domain.DirectionStraight
	}
	return domain.DirectionBack
}

// instructionFor builds the spoken instruction for a hop. The first hop
// from the entrance prefers the layout author's canned arrival hint when
// one exists.
func (p *Planner) instructionFor(firstHop bool, direction domain.Direction, section domain.Section) string {
	if firstHop {
		if hint, ok := p.registry.ArrivalHint(section.ID); ok {
			return hint
		}
	}

	var base string
	switch direction {
	case domain.DirectionLeft:
		base = fmt.Sprintf("Turn left and head to %s", section.Name)
	case domain.DirectionRight:
		base = fmt.Sprintf("Turn right and head to %s", section.Name)
	case domain.DirectionStraight:
		base = fmt.Sprintf("Continue straight ahead to %s", section.Name)
	case domain.DirectionBack:
		base = fmt.Sprintf("Head back toward the front of the store to %s", section.Name)
	}

	if section.Landmark != "" {
		return base + ", " + section.Landmark
	}
	return base
}
