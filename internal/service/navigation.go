package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"trolley/navigator/internal/domain"
	"trolley/navigator/internal/events"
	"trolley/navigator/internal/layout"
	"trolley/navigator/internal/repository"
	"trolley/navigator/internal/route"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("session not found")

// NavigationService owns the active shopping sessions for all stores.
// Shopping lists are ephemeral: they live in process memory and die with
// the session. Only catalog data is persisted.
//
// Each session has a single owner, but the HTTP layer is concurrent, so
// all session access is serialized behind the service mutex.
type NavigationService struct {
	repository repository.CatalogRepository
	highlights events.HighlightPublisher
	entrance   domain.Coordinate
	sessionTTL time.Duration

	// fileRegistry, when set, overrides the database layout for every
	// store. Used by single-store deployments driven by a layout file.
	fileRegistry *layout.Registry

	mu         sync.Mutex
	sessions   map[string]*route.Session
	registries map[string]*layout.Registry
}

func NewNavigationService(
	repository repository.CatalogRepository,
	highlights events.HighlightPublisher,
	fileRegistry *layout.Registry,
	entrance domain.Coordinate,
	sessionTTL time.Duration,
) *NavigationService {
	if fileRegistry != nil {
		entrance = fileRegistry.Entrance()
	}
	return &NavigationService{
		repository:   repository,
		highlights:   highlights,
		entrance:     entrance,
		sessionTTL:   sessionTTL,
		fileRegistry: fileRegistry,
		sessions:     make(map[string]*route.Session),
		registries:   make(map[string]*layout.Registry),
	}
}

// SessionView is the session snapshot returned to API clients.
type SessionView struct {
	ID                 string             `json:"id"`
	StoreID            string             `json:"store_id"`
	State              route.State        `json:"state"`
	StepIndex          int                `json:"step_index"`
	Items              []domain.ListItem  `json:"items"`
	Route              []domain.RouteStep `json:"route"`
	Unroutable         []UnroutableView   `json:"unroutable,omitempty"`
	HighlightedSection string             `json:"highlighted_section,omitempty"`
}

// UnroutableView reports a shopping-list item whose section the store
// layout does not define.
type UnroutableView struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	SectionID   string `json:"section_id"`
	Error       string `json:"error"`
}

// CreateSession opens a new shopping session for a store.
func (s *NavigationService) CreateSession(ctx context.Context, storeID string) (SessionView, error) {
	if _, err := s.repository.GetStore(ctx, storeID); err != nil {
		return SessionView{}, err
	}

	registry, err := s.registryFor(ctx, storeID)
	if err != nil {
		return SessionView{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session := route.NewSession(uuid.NewString(), storeID, route.NewPlanner(registry), registry.Entrance())
	s.sessions[session.ID] = session

	log.Infof("Created session %s for store %s", session.ID, storeID)
	return snapshot(session), nil
}

// GetSession returns the current snapshot of a session.
func (s *NavigationService) GetSession(sessionID string) (SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.session(sessionID)
	if err != nil {
		return SessionView{}, err
	}
	session.Recompute()
	return snapshot(session), nil
}

// AddItem puts a catalog product on the session's shopping list.
func (s *NavigationService) AddItem(ctx context.Context, sessionID, productID string) (SessionView, error) {
	product, err := s.repository.GetProduct(ctx, productID)
	if err != nil {
		return SessionView{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.session(sessionID)
	if err != nil {
		return SessionView{}, err
	}

	if !session.List.Add(product) {
		log.Debugf("Product %s already on list for session %s", productID, sessionID)
	}
	session.Recompute()
	return snapshot(session), nil
}

// RemoveItem drops a product from the session's shopping list.
func (s *NavigationService) RemoveItem(sessionID, productID string) (SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.session(sessionID)
	if err != nil {
		return SessionView{}, err
	}

	if !session.List.Remove(productID) {
		return SessionView{}, fmt.Errorf("product %s: %w", productID, repository.ErrNotFound)
	}
	session.Recompute()
	return snapshot(session), nil
}

// ToggleItem flips an item's collected flag.
func (s *NavigationService) ToggleItem(sessionID, productID string) (SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.session(sessionID)
	if err != nil {
		return SessionView{}, err
	}

	if _, ok := session.List.Toggle(productID); !ok {
		return SessionView{}, fmt.Errorf("product %s: %w", productID, repository.ErrNotFound)
	}
	session.Recompute()
	return snapshot(session), nil
}

// Route recomputes and returns the walk path for the remaining items.
func (s *NavigationService) Route(sessionID string) (SessionView, error) {
	return s.GetSession(sessionID)
}

// Start begins turn-by-turn navigation for a session.
func (s *NavigationService) Start(ctx context.Context, sessionID string) (SessionView, error) {
	return s.transition(ctx, sessionID, (*route.Session).Start)
}

// Advance moves to the next route step, finishing at the end.
func (s *NavigationService) Advance(ctx context.Context, sessionID string) (SessionView, error) {
	return s.transition(ctx, sessionID, (*route.Session).Advance)
}

// Retreat steps back one stop.
func (s *NavigationService) Retreat(ctx context.Context, sessionID string) (SessionView, error) {
	return s.transition(ctx, sessionID, (*route.Session).Retreat)
}

func (s *NavigationService) transition(ctx context.Context, sessionID string, fn func(*route.Session) error) (SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.session(sessionID)
	if err != nil {
		return SessionView{}, err
	}

	if err := fn(session); err != nil {
		return SessionView{}, err
	}

	s.publishHighlight(ctx, session)
	return snapshot(session), nil
}

// publishHighlight emits the declarative highlight value for rendering
// layers. Publishing is best effort: a broken event channel must not fail
// the shopper's navigation request.
func (s *NavigationService) publishHighlight(ctx context.Context, session *route.Session) {
	sectionID, _ := session.HighlightedSection()
	err := s.highlights.PublishHighlight(ctx, events.HighlightEvent{
		SessionID: session.ID,
		StoreID:   session.StoreID,
		SectionID: sectionID,
		At:        time.Now().UTC(),
	})
	if err != nil {
		log.Warnf("Failed to publish highlight for session %s: %v", session.ID, err)
	}
}

// PruneIdle drops sessions idle longer than the session TTL.
func (s *NavigationService) PruneIdle() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().UTC().Add(-s.sessionTTL)
	for id, session := range s.sessions {
		if session.LastSeen.Before(cutoff) {
			delete(s.sessions, id)
			log.Infof("Expired idle session %s", id)
		}
	}
}

// RunJanitor prunes idle sessions until the context is cancelled.
func (s *NavigationService) RunJanitor(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.PruneIdle()
		}
	}
}

// InvalidateLayout drops the cached registry for a store, forcing a
// rebuild from the repository on the next session. Called after imports
// and seeding.
func (s *NavigationService) InvalidateLayout(storeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.registries, storeID)
}

func (s *NavigationService) session(sessionID string) (*route.Session, error) {
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrSessionNotFound)
	}
	session.Touch()
	return session, nil
}

// registryFor builds (or reuses) the immutable section registry for a
// store. The layout-file registry, when configured, wins over the
// database layout.
func (s *NavigationService) registryFor(ctx context.Context, storeID string) (*layout.Registry, error) {
	if s.fileRegistry != nil {
		return s.fileRegistry, nil
	}

	s.mu.Lock()
	if registry, ok := s.registries[storeID]; ok {
		s.mu.Unlock()
		return registry, nil
	}
	s.mu.Unlock()

	sections, err := s.repository.SectionsByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}

	registry, err := layout.NewRegistry(s.entrance, sections)
	if err != nil {
		return nil, fmt.Errorf("store %s has an invalid layout: %w", storeID, err)
	}

	s.mu.Lock()
	s.registries[storeID] = registry
	s.mu.Unlock()
	return registry, nil
}

func snapshot(session *route.Session) SessionView {
	steps, unroutable := session.Route()

	view := SessionView{
		ID:        session.ID,
		StoreID:   session.StoreID,
		State:     session.State(),
		StepIndex: session.StepIndex(),
		Items:     session.List.Items(),
		Route:     steps,
	}

	for _, u := range unroutable {
		view.Unroutable = append(view.Unroutable, UnroutableView{
			ProductID:   u.Item.Product.ID,
			ProductName: u.Item.Product.Name,
			SectionID:   u.Item.Product.SectionID,
			Error:       u.Err.Error(),
		})
	}

	if sectionID, ok := session.HighlightedSection(); ok {
		view.HighlightedSection = sectionID
	}

	return view
}
