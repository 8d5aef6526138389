package route

import (
	"errors"
	"time"

	"trolley/navigator/internal/domain"
	"trolley/navigator/internal/shopping"
)

// State is the navigation phase of a shopping session.
type State string

const (
	StateNotStarted State = "not_started"
	StateInProgress State = "in_progress"
	StateFinished   State = "finished"
)

var (
	// ErrEmptyRoute rejects starting navigation with nothing to route.
	ErrEmptyRoute = errors.New("route is empty")
	// ErrNotNavigating rejects advance/retreat outside an active session.
	ErrNotNavigating = errors.New("navigation is not in progress")
)

// Session is one shopper's trip: a shopping list plus navigation progress
// through the computed route. The route is recomputed from the remaining
// uncollected items on every start and advance, since collecting an item
// changes the candidate set. A Session is not safe for concurrent use.
type Session struct {
	ID        string
	StoreID   string
	List      *shopping.List
	CreatedAt time.Time
	LastSeen  time.Time

	planner  *Planner
	entrance domain.Coordinate

	state      State
	stepIndex  int
	route      []domain.RouteStep
	unroutable []UnroutableItem
}

func NewSession(id, storeID string, planner *Planner, entrance domain.Coordinate) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        id,
		StoreID:   storeID,
		List:      shopping.NewList(),
		CreatedAt: now,
		LastSeen:  now,
		planner:   planner,
		entrance:  entrance,
		state:     StateNotStarted,
	}
}

func (s *Session) State() State {
	return s.state
}

// StepIndex is only meaningful while the session is in progress.
func (s *Session) StepIndex() int {
	return s.stepIndex
}

// Route returns the most recently computed route and the items that could
// not be resolved to a layout section.
func (s *Session) Route() ([]domain.RouteStep, []UnroutableItem) {
	return s.route, s.unroutable
}

// Recompute refreshes the route from the remaining uncollected items
// without touching navigation state.
func (s *Session) Recompute() []domain.RouteStep {
	s.route, s.unroutable = s.planner.ComputeRoute(s.List.Remaining(), s.entrance)
	return s.route
}

// Start begins navigation at the first step. Starting with an empty route
// fails with ErrEmptyRoute and leaves the session untouched.
func (s *Session) Start() error {
	if s.state == StateInProgress {
		return nil
	}
	if len(s.Recompute()) == 0 {
		return ErrEmptyRoute
	}
	s.state = StateInProgress
	s.stepIndex = 0
	return nil
}

// Advance recomputes the route from the remaining items and moves to the
// next step, finishing when the route is exhausted.
func (s *Session) Advance() error {
	if s.state != StateInProgress {
		return ErrNotNavigating
	}
	s.Recompute()
	if s.stepIndex+1 < len(s.route) {
		s.stepIndex++
		return nil
	}
	s.state = StateFinished
	return nil
}

// Retreat steps back one stop. It is a no-op at the first step and does
// not recompute the route.
func (s *Session) Retreat() error {
	if s.state != StateInProgress {
		return ErrNotNavigating
	}
	if s.stepIndex > 0 {
		s.stepIndex--
	}
	return nil
}

// CurrentStep returns the step the shopper is walking toward.
func (s *Session) CurrentStep() (domain.RouteStep, bool) {
	if s.state != StateInProgress || s.stepIndex >= len(s.route) {
		return domain.RouteStep{}, false
	}
	return s.route[s.stepIndex], true
}

// HighlightedSection is the declarative highlight value for rendering
// layers: the id of the section the shopper is currently headed to. The
// core only ever emits ids, never touches the drawable itself.
func (s *Session) HighlightedSection() (string, bool) {
	step, ok := s.CurrentStep()
	if !ok {
		return "", false
	}
	return step.Section.ID, true
}

// Touch records activity for idle-session expiry.
func (s *Session) Touch() {
	s.LastSeen = time.Now().UTC()
}
