package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"trolley/navigator/internal/config"
	"trolley/navigator/internal/domain"
	"trolley/navigator/internal/events"
	"trolley/navigator/internal/repository"
	"trolley/navigator/internal/service"
)

// fakeCatalog is an in-memory CatalogRepository for handler tests.
type fakeCatalog struct {
	stores     map[string]domain.Store
	sections   map[string]domain.Section
	categories map[string]domain.Category
	products   map[string]domain.Product
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		stores:     make(map[string]domain.Store),
		sections:   make(map[string]domain.Section),
		categories: make(map[string]domain.Category),
		products:   make(map[string]domain.Product),
	}
}

func (f *fakeCatalog) SaveStore(_ context.Context, store domain.Store) error {
	f.stores[store.ID] = store
	return nil
}

func (f *fakeCatalog) ListStores(_ context.Context) ([]domain.Store, error) {
	stores := []domain.Store{}
	for _, s := range f.stores {
		stores = append(stores, s)
	}
	return stores, nil
}

func (f *fakeCatalog) GetStore(_ context.Context, id string) (domain.Store, error) {
	store, ok := f.stores[id]
	if !ok {
		return domain.Store{}, fmt.Errorf("store %s: %w", id, repository.ErrNotFound)
	}
	return store, nil
}

func (f *fakeCatalog) StoreData(ctx context.Context, storeID string) (domain.StoreData, error) {
	store, err := f.GetStore(ctx, storeID)
	if err != nil {
		return domain.StoreData{}, err
	}
	sections, _ := f.SectionsByStore(ctx, storeID)
	categories, _ := f.CategoriesByStore(ctx, storeID)
	products := []domain.Product{}
	for _, p := range f.products {
		products = append(products, p)
	}
	return domain.StoreData{Store: store, Sections: sections, Categories: categories, Products: products}, nil
}

func (f *fakeCatalog) SaveSection(_ context.Context, section domain.Section) error {
	f.sections[section.ID] = section
	return nil
}

func (f *fakeCatalog) SectionsByStore(_ context.Context, storeID string) ([]domain.Section, error) {
	sections := []domain.Section{}
	for _, s := range f.sections {
		if s.StoreID == storeID {
			sections = append(sections, s)
		}
	}
	return sections, nil
}

func (f *fakeCatalog) SaveCategory(_ context.Context, category domain.Category) error {
	f.categories[category.ID] = category
	return nil
}

func (f *fakeCatalog) CategoriesByStore(_ context.Context, storeID string) ([]domain.Category, error) {
	categories := []domain.Category{}
	for _, c := range f.categories {
		if c.StoreID == storeID {
			categories = append(categories, c)
		}
	}
	return categories, nil
}

func (f *fakeCatalog) SaveProduct(_ context.Context, product domain.Product) error {
	f.products[product.ID] = product
	return nil
}

func (f *fakeCatalog) SaveProducts(ctx context.Context, products []domain.Product) error {
	for _, p := range products {
		f.SaveProduct(ctx, p)
	}
	return nil
}

func (f *fakeCatalog) GetProduct(_ context.Context, id string) (domain.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return domain.Product{}, fmt.Errorf("product %s: %w", id, repository.ErrNotFound)
	}
	return product, nil
}

func (f *fakeCatalog) ProductsByCategory(_ context.Context, categoryID string) ([]domain.Product, error) {
	products := []domain.Product{}
	for _, p := range f.products {
		if p.CategoryID == categoryID {
			products = append(products, p)
		}
	}
	return products, nil
}

func (f *fakeCatalog) SearchProducts(_ context.Context, query string) ([]domain.Product, error) {
	products := []domain.Product{}
	for _, p := range f.products {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(query)) {
			products = append(products, p)
		}
	}
	return products, nil
}

func (f *fakeCatalog) Reset(_ context.Context) error {
	f.stores = make(map[string]domain.Store)
	f.sections = make(map[string]domain.Section)
	f.categories = make(map[string]domain.Category)
	f.products = make(map[string]domain.Product)
	return nil
}

type recordingPublisher struct {
	published []events.HighlightEvent
}

func (p *recordingPublisher) PublishHighlight(_ context.Context, event events.HighlightEvent) error {
	p.published = append(p.published, event)
	return nil
}

func seedCatalog(catalog *fakeCatalog) {
	ctx := context.Background()
	catalog.SaveStore(ctx, domain.Store{ID: "store1", Name: "SuperMart Central"})
	catalog.SaveSection(ctx, domain.Section{
		ID: "produce", StoreID: "store1", Name: "Fresh Produce",
		Position: domain.Coordinate{X: 225, Y: 560}, Priority: 1,
	})
	catalog.SaveSection(ctx, domain.Section{
		ID: "frozen", StoreID: "store1", Name: "Frozen Foods",
		Position: domain.Coordinate{X: 150, Y: 375}, Priority: 14,
	})
	catalog.SaveCategory(ctx, domain.Category{ID: "fruit", StoreID: "store1", SectionID: "produce", Name: "Fresh Fruits"})
	catalog.SaveProduct(ctx, domain.Product{ID: "apples", CategoryID: "fruit", SectionID: "produce", Name: "Fresh Apples", Price: 2.99})
	catalog.SaveProduct(ctx, domain.Product{ID: "pizza", CategoryID: "fruit", SectionID: "frozen", Name: "Frozen Pizza", Price: 4.49})
}

func newTestServer(t *testing.T) (*Server, *fakeCatalog, *recordingPublisher) {
	t.Helper()
	catalog := newFakeCatalog()
	publisher := &recordingPublisher{}
	navigation := service.NewNavigationService(
		catalog, publisher, nil,
		domain.Coordinate{X: 600, Y: 775},
		time.Hour,
	)
	srv := New(config.ServerConfig{Host: "localhost", Port: 0}, catalog, navigation)
	return srv, catalog, publisher
}

func do(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return v
}

func TestRootEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)

	w := do(t, srv, http.MethodGet, "/api/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	body := decode[map[string]string](t, w)
	if body["message"] == "" {
		t.Error("expected a service banner")
	}
}

func TestGetStoreNotFound(t *testing.T) {
	srv, _, _ := newTestServer(t)

	w := do(t, srv, http.MethodGet, "/api/stores/ghost", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestSearchProducts(t *testing.T) {
	srv, catalog, _ := newTestServer(t)
	seedCatalog(catalog)

	w := do(t, srv, http.MethodGet, "/api/products/search/APPLE", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	products := decode[[]domain.Product](t, w)
	if len(products) != 1 || products[0].ID != "apples" {
		t.Errorf("expected case-insensitive match on apples, got %+v", products)
	}
}

func TestCreateStoreAndFetchData(t *testing.T) {
	srv, _, _ := newTestServer(t)

	w := do(t, srv, http.MethodPost, "/api/stores", map[string]string{
		"name":       "Corner Shop",
		"address":    "1 Side Street",
		"layout_svg": "<svg></svg>",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	store := decode[domain.Store](t, w)
	if store.ID == "" {
		t.Fatal("expected a generated store id")
	}

	w = do(t, srv, http.MethodGet, "/api/stores/"+store.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	data := decode[domain.StoreData](t, w)
	if data.Store.Name != "Corner Shop" {
		t.Errorf("unexpected store payload: %+v", data.Store)
	}
}

func TestSessionLifecycle(t *testing.T) {
	srv, catalog, publisher := newTestServer(t)
	seedCatalog(catalog)

	w := do(t, srv, http.MethodPost, "/api/stores/store1/sessions", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("create session: expected 200, got %d", w.Code)
	}
	session := decode[service.SessionView](t, w)
	if session.State != "not_started" {
		t.Errorf("expected not_started, got %s", session.State)
	}

	// Starting with an empty list is rejected
	w = do(t, srv, http.MethodPost, "/api/sessions/"+session.ID+"/navigation/start", nil)
	if w.Code != http.StatusConflict {
		t.Errorf("start with empty route: expected 409, got %d", w.Code)
	}

	for _, productID := range []string{"apples", "pizza"} {
		w = do(t, srv, http.MethodPost, "/api/sessions/"+session.ID+"/items", map[string]string{"product_id": productID})
		if w.Code != http.StatusOK {
			t.Fatalf("add %s: expected 200, got %d", productID, w.Code)
		}
	}

	w = do(t, srv, http.MethodGet, "/api/sessions/"+session.ID+"/route", nil)
	view := decode[service.SessionView](t, w)
	if len(view.Route) != 2 {
		t.Fatalf("expected 2 route steps, got %d", len(view.Route))
	}
	if view.Route[0].Section.ID != "produce" {
		t.Errorf("expected produce first (priority 1), got %s", view.Route[0].Section.ID)
	}

	w = do(t, srv, http.MethodPost, "/api/sessions/"+session.ID+"/navigation/start", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("start: expected 200, got %d", w.Code)
	}
	view = decode[service.SessionView](t, w)
	if view.State != "in_progress" || view.HighlightedSection != "produce" {
		t.Errorf("unexpected state after start: %s highlighted %s", view.State, view.HighlightedSection)
	}
	if len(publisher.published) == 0 {
		t.Error("expected a highlight event after start")
	}

	// Collect the produce item, then advance: route shrinks to frozen only
	w = do(t, srv, http.MethodPost, "/api/sessions/"+session.ID+"/items/apples/toggle", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("toggle: expected 200, got %d", w.Code)
	}

	w = do(t, srv, http.MethodPost, "/api/sessions/"+session.ID+"/navigation/advance", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("advance: expected 200, got %d", w.Code)
	}
	view = decode[service.SessionView](t, w)
	if view.State != "finished" {
		t.Errorf("expected finished after advancing past the last step, got %s", view.State)
	}
}

func TestAddUnknownProduct(t *testing.T) {
	srv, catalog, _ := newTestServer(t)
	seedCatalog(catalog)

	w := do(t, srv, http.MethodPost, "/api/stores/store1/sessions", nil)
	session := decode[service.SessionView](t, w)

	w = do(t, srv, http.MethodPost, "/api/sessions/"+session.ID+"/items", map[string]string{"product_id": "ghost"})
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown product, got %d", w.Code)
	}
}

func TestUnroutableItemSurfacesInView(t *testing.T) {
	srv, catalog, _ := newTestServer(t)
	seedCatalog(catalog)
	catalog.SaveProduct(context.Background(), domain.Product{
		ID: "orphan", CategoryID: "fruit", SectionID: "missing-section", Name: "Orphan",
	})

	w := do(t, srv, http.MethodPost, "/api/stores/store1/sessions", nil)
	session := decode[service.SessionView](t, w)

	do(t, srv, http.MethodPost, "/api/sessions/"+session.ID+"/items", map[string]string{"product_id": "apples"})
	w = do(t, srv, http.MethodPost, "/api/sessions/"+session.ID+"/items", map[string]string{"product_id": "orphan"})
	if w.Code != http.StatusOK {
		t.Fatalf("adding an unroutable product should succeed, got %d", w.Code)
	}

	view := decode[service.SessionView](t, w)
	if len(view.Route) != 1 {
		t.Errorf("expected routing to continue for resolvable items, got %d steps", len(view.Route))
	}
	if len(view.Unroutable) != 1 || view.Unroutable[0].ProductID != "orphan" {
		t.Errorf("expected orphan reported unroutable, got %+v", view.Unroutable)
	}
}

func TestSessionNotFound(t *testing.T) {
	srv, _, _ := newTestServer(t)

	w := do(t, srv, http.MethodGet, "/api/sessions/ghost", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
