package route

import (
	"errors"
	"testing"

	"trolley/navigator/internal/domain"
)

func testSession(t *testing.T) *Session {
	t.Helper()
	registry := testRegistry(t,
		testSection("produce", 10, 10, 1),
		testSection("dairy", 50, 10, 2),
	)
	return NewSession("s1", "store1", NewPlanner(registry), registry.Entrance())
}

func TestStartRequiresNonEmptyRoute(t *testing.T) {
	session := testSession(t)

	if err := session.Start(); !errors.Is(err, ErrEmptyRoute) {
		t.Errorf("expected ErrEmptyRoute, got %v", err)
	}
	if session.State() != StateNotStarted {
		t.Errorf("failed start must leave session NotStarted, got %s", session.State())
	}
}

func TestStartAndWalkThroughRoute(t *testing.T) {
	session := testSession(t)
	session.List.Add(domain.Product{ID: "apples", SectionID: "produce"})
	session.List.Add(domain.Product{ID: "milk", SectionID: "dairy"})

	if err := session.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if session.State() != StateInProgress || session.StepIndex() != 0 {
		t.Fatalf("expected InProgress at step 0, got %s step %d", session.State(), session.StepIndex())
	}

	sectionID, ok := session.HighlightedSection()
	if !ok || sectionID != "produce" {
		t.Errorf("expected produce highlighted, got %q ok=%v", sectionID, ok)
	}

	if err := session.Advance(); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if session.StepIndex() != 1 {
		t.Errorf("expected step 1, got %d", session.StepIndex())
	}

	if err := session.Advance(); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if session.State() != StateFinished {
		t.Errorf("expected Finished, got %s", session.State())
	}
	if _, ok := session.CurrentStep(); ok {
		t.Error("finished session should have no current step")
	}
}

func TestRetreat(t *testing.T) {
	session := testSession(t)
	session.List.Add(domain.Product{ID: "apples", SectionID: "produce"})
	session.List.Add(domain.Product{ID: "milk", SectionID: "dairy"})

	if err := session.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// No-op at the first step
	if err := session.Retreat(); err != nil {
		t.Fatalf("Retreat failed: %v", err)
	}
	if session.StepIndex() != 0 {
		t.Errorf("retreat at step 0 must be a no-op, got step %d", session.StepIndex())
	}

	if err := session.Advance(); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if err := session.Retreat(); err != nil {
		t.Fatalf("Retreat failed: %v", err)
	}
	if session.StepIndex() != 0 {
		t.Errorf("expected step 0 after retreat, got %d", session.StepIndex())
	}
}

func TestTransitionsOutsideNavigation(t *testing.T) {
	session := testSession(t)

	if err := session.Advance(); !errors.Is(err, ErrNotNavigating) {
		t.Errorf("expected ErrNotNavigating from Advance, got %v", err)
	}
	if err := session.Retreat(); !errors.Is(err, ErrNotNavigating) {
		t.Errorf("expected ErrNotNavigating from Retreat, got %v", err)
	}
}

func TestAdvanceRecomputesFromRemainingItems(t *testing.T) {
	session := testSession(t)
	session.List.Add(domain.Product{ID: "apples", SectionID: "produce"})
	session.List.Add(domain.Product{ID: "milk", SectionID: "dairy"})

	if err := session.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Collecting the produce item shrinks the candidate set, so the next
	// advance finishes the single remaining-section route.
	session.List.Toggle("apples")
	if err := session.Advance(); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if session.State() != StateFinished {
		t.Errorf("expected Finished after collecting all but one section, got %s", session.State())
	}

	steps, _ := session.Route()
	if len(steps) != 1 || steps[0].Section.ID != "dairy" {
		t.Errorf("expected recomputed route with only dairy, got %v", sectionOrder(steps))
	}
}

func TestStartIsIdempotentWhileInProgress(t *testing.T) {
	session := testSession(t)
	session.List.Add(domain.Product{ID: "apples", SectionID: "produce"})

	if err := session.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := session.Start(); err != nil {
		t.Fatalf("second Start failed: %v", err)
	}
	if session.State() != StateInProgress {
		t.Errorf("expected InProgress, got %s", session.State())
	}
}
