package route

import (
	"errors"
	"reflect"
	"testing"

	"trolley/navigator/internal/domain"
	"trolley/navigator/internal/layout"
)

func testRegistry(t *testing.T, sections ...domain.Section) *layout.Registry {
	t.Helper()
	registry, err := layout.NewRegistry(domain.Coordinate{}, sections)
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	return registry
}

func testSection(id string, x, y float64, priority int) domain.Section {
	return domain.Section{
		ID:       id,
		Name:     id,
		Position: domain.Coordinate{X: x, Y: y},
		Priority: priority,
	}
}

func itemIn(sectionID, productID string) domain.ListItem {
	return domain.ListItem{
		Product: domain.Product{
			ID:        productID,
			Name:      productID,
			SectionID: sectionID,
		},
	}
}

func sectionOrder(steps []domain.RouteStep) []string {
	order := make([]string, 0, len(steps))
	for _, step := range steps {
		order = append(order, step.Section.ID)
	}
	return order
}

func TestComputeRoutePriorityThenDistance(t *testing.T) {
	planner := NewPlanner(testRegistry(t,
		testSection("a", 0, 0, 1),
		testSection("b", 10, 0, 2),
		testSection("c", 1, 0, 2),
	))

	steps, unroutable := planner.ComputeRoute([]domain.ListItem{
		itemIn("b", "p1"),
		itemIn("a", "p2"),
		itemIn("c", "p3"),
	}, domain.Coordinate{X: 0, Y: 0})

	if len(unroutable) != 0 {
		t.Fatalf("expected no unroutable items, got %d", len(unroutable))
	}

	want := []string{"a", "c", "b"}
	if got := sectionOrder(steps); !reflect.DeepEqual(got, want) {
		t.Errorf("expected order %v, got %v", want, got)
	}
}

func TestComputeRoutePriorityBeatsDistance(t *testing.T) {
	// The ranked section is much farther than the unranked one but must
	// still come first.
	planner := NewPlanner(testRegistry(t,
		testSection("far", 1000, 1000, 1),
		testSection("near", 1, 1, 2),
	))

	steps, _ := planner.ComputeRoute([]domain.ListItem{
		itemIn("near", "p1"),
		itemIn("far", "p2"),
	}, domain.Coordinate{})

	want := []string{"far", "near"}
	if got := sectionOrder(steps); !reflect.DeepEqual(got, want) {
		t.Errorf("expected order %v, got %v", want, got)
	}
}

func TestComputeRouteOneStepPerSection(t *testing.T) {
	planner := NewPlanner(testRegistry(t,
		testSection("a", 0, 0, 1),
		testSection("b", 5, 0, 2),
	))

	steps, _ := planner.ComputeRoute([]domain.ListItem{
		itemIn("a", "p1"),
		itemIn("b", "p2"),
		itemIn("a", "p3"),
		itemIn("a", "p4"),
	}, domain.Coordinate{})

	if len(steps) != 2 {
		t.Fatalf("expected one step per distinct section, got %d steps", len(steps))
	}
	if len(steps[0].Items) != 3 {
		t.Errorf("expected 3 items grouped at section a, got %d", len(steps[0].Items))
	}
	if len(steps[1].Items) != 1 {
		t.Errorf("expected 1 item at section b, got %d", len(steps[1].Items))
	}
}

func TestComputeRouteFullTieBreaksByInputOrder(t *testing.T) {
	// Same priority, same distance from the entrance: input order decides,
	// and repeated runs must agree.
	planner := NewPlanner(testRegistry(t,
		testSection("east", 5, 0, 1),
		testSection("west", -5, 0, 1),
	))

	items := []domain.ListItem{
		itemIn("west", "p1"),
		itemIn("east", "p2"),
	}

	first, _ := planner.ComputeRoute(items, domain.Coordinate{})
	if got := sectionOrder(first); got[0] != "west" {
		t.Errorf("expected input order to win the tie, got %v", got)
	}

	for i := 0; i < 10; i++ {
		again, _ := planner.ComputeRoute(items, domain.Coordinate{})
		if !reflect.DeepEqual(sectionOrder(again), sectionOrder(first)) {
			t.Fatalf("run %d produced a different order: %v vs %v", i, sectionOrder(again), sectionOrder(first))
		}
	}
}

func TestComputeRouteUnrankedSectionsVisitLast(t *testing.T) {
	planner := NewPlanner(testRegistry(t,
		testSection("unranked", 1, 0, 0),
		testSection("ranked", 100, 0, 9),
	))

	steps, _ := planner.ComputeRoute([]domain.ListItem{
		itemIn("unranked", "p1"),
		itemIn("ranked", "p2"),
	}, domain.Coordinate{})

	want := []string{"ranked", "unranked"}
	if got := sectionOrder(steps); !reflect.DeepEqual(got, want) {
		t.Errorf("expected order %v, got %v", want, got)
	}
}

func TestComputeRouteUnresolvableSection(t *testing.T) {
	planner := NewPlanner(testRegistry(t,
		testSection("a", 0, 0, 1),
	))

	steps, unroutable := planner.ComputeRoute([]domain.ListItem{
		itemIn("a", "p1"),
		itemIn("ghost", "p2"),
	}, domain.Coordinate{})

	if len(steps) != 1 || steps[0].Section.ID != "a" {
		t.Errorf("expected routing to continue for resolvable sections, got %v", sectionOrder(steps))
	}
	if len(unroutable) != 1 {
		t.Fatalf("expected 1 unroutable item, got %d", len(unroutable))
	}
	if unroutable[0].Item.Product.ID != "p2" {
		t.Errorf("expected p2 to be unroutable, got %s", unroutable[0].Item.Product.ID)
	}
	if !errors.Is(unroutable[0].Err, layout.ErrUnknownSection) {
		t.Errorf("expected ErrUnknownSection, got %v", unroutable[0].Err)
	}
}

func TestComputeRouteEmptyItems(t *testing.T) {
	planner := NewPlanner(testRegistry(t, testSection("a", 0, 0, 1)))

	steps, unroutable := planner.ComputeRoute(nil, domain.Coordinate{})
	if len(steps) != 0 {
		t.Errorf("expected empty route, got %d steps", len(steps))
	}
	if len(unroutable) != 0 {
		t.Errorf("expected no unroutable items, got %d", len(unroutable))
	}
}

func TestComputeRouteWalksFromPreviousStop(t *testing.T) {
	// After visiting a, the current position moves to a, so between two
	// equal-priority candidates the one nearer to a wins even if it is
	// farther from the entrance.
	planner := NewPlanner(testRegistry(t,
		testSection("a", 100, 0, 1),
		testSection("nearA", 101, 0, 2),
		testSection("nearEntrance", 5, 0, 2),
	))

	steps, _ := planner.ComputeRoute([]domain.ListItem{
		itemIn("nearEntrance", "p1"),
		itemIn("nearA", "p2"),
		itemIn("a", "p3"),
	}, domain.Coordinate{})

	want := []string{"a", "nearA", "nearEntrance"}
	if got := sectionOrder(steps); !reflect.DeepEqual(got, want) {
		t.Errorf("expected order %v, got %v", want, got)
	}
}
