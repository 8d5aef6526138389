package server

import (
	"net/http"
	"time"

	"trolley/navigator/internal/domain"
	"trolley/navigator/internal/layout"
	"trolley/navigator/internal/service"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Smart Supermarket Trolley Assistant API"})
}

type createStoreRequest struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	LayoutSVG string `json:"layout_svg"`
}

func (s *Server) handleCreateStore(w http.ResponseWriter, r *http.Request) {
	var req createStoreRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: err.Error()})
		return
	}

	store := domain.Store{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Address:   req.Address,
		LayoutSVG: req.LayoutSVG,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repository.SaveStore(r.Context(), store); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, store)
}

func (s *Server) handleListStores(w http.ResponseWriter, r *http.Request) {
	stores, err := s.repository.ListStores(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stores)
}

func (s *Server) handleGetStore(w http.ResponseWriter, r *http.Request) {
	data, err := s.repository.StoreData(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

type createSectionRequest struct {
	StoreID      string  `json:"store_id"`
	Name         string  `json:"name"`
	Color        string  `json:"color"`
	SVGElementID string  `json:"svg_element_id"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Priority     int     `json:"priority"`
	Landmark     string  `json:"landmark"`
}

func (s *Server) handleCreateSection(w http.ResponseWriter, r *http.Request) {
	var req createSectionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: err.Error()})
		return
	}

	section := domain.Section{
		ID:           uuid.NewString(),
		StoreID:      req.StoreID,
		Name:         req.Name,
		Color:        req.Color,
		SVGElementID: req.SVGElementID,
		Position:     domain.Coordinate{X: req.X, Y: req.Y},
		Priority:     req.Priority,
		Landmark:     req.Landmark,
	}

	// Sections posted without a coordinate fall back to the center of
	// their region in the store's layout SVG.
	if section.Position == (domain.Coordinate{}) && section.SVGElementID != "" {
		store, err := s.repository.GetStore(r.Context(), req.StoreID)
		if err != nil {
			writeError(w, err)
			return
		}
		if regions, err := layout.ParseLayoutSVG(store.LayoutSVG); err == nil {
			if region, ok := regions[section.SVGElementID]; ok {
				section.Position = region.Center
			}
		} else {
			log.Warnf("Could not derive coordinate for section %s: %v", section.ID, err)
		}
	}

	if err := s.repository.SaveSection(r.Context(), section); err != nil {
		writeError(w, err)
		return
	}

	s.navigation.InvalidateLayout(section.StoreID)
	writeJSON(w, http.StatusOK, section)
}

type createCategoryRequest struct {
	StoreID   string `json:"store_id"`
	SectionID string `json:"section_id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: err.Error()})
		return
	}

	category := domain.Category{
		ID:        uuid.NewString(),
		StoreID:   req.StoreID,
		SectionID: req.SectionID,
		Name:      req.Name,
		Color:     req.Color,
	}
	if err := s.repository.SaveCategory(r.Context(), category); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, category)
}

func (s *Server) handleCategoryProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.repository.ProductsByCategory(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

type createProductRequest struct {
	CategoryID  string  `json:"category_id"`
	SectionID   string  `json:"section_id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: err.Error()})
		return
	}

	product := domain.Product{
		ID:          uuid.NewString(),
		CategoryID:  req.CategoryID,
		SectionID:   req.SectionID,
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
	}
	if err := s.repository.SaveProduct(r.Context(), product); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := s.repository.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (s *Server) handleSearchProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.repository.SearchProducts(r.Context(), r.PathValue("query"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (s *Server) handleInitializeSampleData(w http.ResponseWriter, r *http.Request) {
	storeID, err := service.SeedSampleData(r.Context(), s.repository)
	if err != nil {
		writeError(w, err)
		return
	}

	s.navigation.InvalidateLayout(storeID)
	writeJSON(w, http.StatusOK, map[string]string{
		"message":  "Sample data initialized successfully!",
		"store_id": storeID,
	})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.navigation.CreateSession(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.navigation.GetSession(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: err.Error()})
		return
	}

	view, err := s.navigation.AddItem(r.Context(), r.PathValue("id"), req.ProductID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	view, err := s.navigation.RemoveItem(r.PathValue("id"), r.PathValue("productID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleToggleItem(w http.ResponseWriter, r *http.Request) {
	view, err := s.navigation.ToggleItem(r.PathValue("id"), r.PathValue("productID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	view, err := s.navigation.Route(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleNavigation(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	var (
		view service.SessionView
		err  error
	)
	switch action := r.PathValue("action"); action {
	case "start":
		view, err = s.navigation.Start(r.Context(), sessionID)
	case "advance":
		view, err = s.navigation.Advance(r.Context(), sessionID)
	case "retreat":
		view, err = s.navigation.Retreat(r.Context(), sessionID)
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "unknown navigation action: " + action})
		return
	}

	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
