package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"trolley/navigator/internal/config"
	"trolley/navigator/internal/repository"
	"trolley/navigator/internal/route"
	"trolley/navigator/internal/service"

	log "github.com/sirupsen/logrus"
)

// Server is the HTTP API for the catalog and navigation sessions.
type Server struct {
	repository repository.CatalogRepository
	navigation *service.NavigationService
	cors       []string
	httpServer *http.Server
}

func New(cfg config.ServerConfig, repo repository.CatalogRepository, navigation *service.NavigationService) *Server {
	s := &Server{
		repository: repo,
		navigation: navigation,
		cors:       cfg.CORSOrigins,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/", s.handleRoot)

	mux.HandleFunc("POST /api/stores", s.handleCreateStore)
	mux.HandleFunc("GET /api/stores", s.handleListStores)
	mux.HandleFunc("GET /api/stores/{id}", s.handleGetStore)

	mux.HandleFunc("POST /api/sections", s.handleCreateSection)
	mux.HandleFunc("POST /api/categories", s.handleCreateCategory)
	mux.HandleFunc("GET /api/categories/{id}/products", s.handleCategoryProducts)

	mux.HandleFunc("POST /api/products", s.handleCreateProduct)
	mux.HandleFunc("GET /api/products/{id}", s.handleGetProduct)
	mux.HandleFunc("GET /api/products/search/{query}", s.handleSearchProducts)

	mux.HandleFunc("POST /api/initialize-sample-data", s.handleInitializeSampleData)

	mux.HandleFunc("POST /api/stores/{id}/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("POST /api/sessions/{id}/items", s.handleAddItem)
	mux.HandleFunc("DELETE /api/sessions/{id}/items/{productID}", s.handleRemoveItem)
	mux.HandleFunc("POST /api/sessions/{id}/items/{productID}/toggle", s.handleToggleItem)
	mux.HandleFunc("GET /api/sessions/{id}/route", s.handleRoute)
	mux.HandleFunc("POST /api/sessions/{id}/navigation/{action}", s.handleNavigation)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           s.withCORS(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves HTTP until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Infof("HTTP server listening on %s", s.httpServer.Addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := "*"
		if len(s.cors) > 0 && s.cors[0] != "*" {
			origin = s.cors[0]
			for _, allowed := range s.cors {
				if allowed == r.Header.Get("Origin") {
					origin = allowed
					break
				}
			}
		}
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// writeError maps domain errors to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, service.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Detail: err.Error()})
	case errors.Is(err, route.ErrEmptyRoute), errors.Is(err, route.ErrNotNavigating):
		writeJSON(w, http.StatusConflict, errorResponse{Detail: err.Error()})
	default:
		log.Errorf("Request failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "internal server error"})
	}
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
