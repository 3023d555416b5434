package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/remcenter/repairdesk-backend/internal/api/handlers"
	"github.com/remcenter/repairdesk-backend/internal/api/middleware"
	"github.com/remcenter/repairdesk-backend/internal/application/service"
)

// Config holds API server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string
}

// DefaultConfig returns sensible defaults for the API server.
func DefaultConfig() Config {
	return Config{
		Port:           8080,
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
	}
}

// Server is the HTTP API server.
type Server struct {
	config     Config
	router     chi.Router
	httpServer *http.Server
	logger     *slog.Logger
	svc        *service.WorkspaceService
}

// NewServer creates a new API server around a workspace service.
func NewServer(cfg Config, svc *service.WorkspaceService, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config: cfg,
		router: chi.NewRouter(),
		logger: logger,
		svc:    svc,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	// CORS
	corsConfig := middleware.CORSConfig{
		AllowedOrigins: s.config.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}
	s.router.Use(middleware.CORS(corsConfig))

	// Request logging
	s.router.Use(middleware.Logging(s.logger))
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check (no /api prefix - for load balancers)
	healthHandler := handlers.NewHealthHandler()
	s.router.Get("/health", healthHandler.ServeHTTP)

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		// Board and pool
		boardHandler := handlers.NewBoardHandler(s.svc)
		r.Get("/board", boardHandler.Get)
		r.Get("/board/summary", boardHandler.Summary)
		r.Delete("/board", boardHandler.Clear)
		r.Post("/positions", boardHandler.CreatePosition)
		r.Post("/positions/from-group", boardHandler.CreateFromGroup)
		r.Post("/positions/combined", boardHandler.CreateCombined)
		r.Post("/positions/move", boardHandler.Move)
		r.Post("/positions/{id}/return", boardHandler.ReturnToPool)
		r.Delete("/positions/{id}", boardHandler.Delete)
		r.Post("/positions/{id}/clone", boardHandler.Clone)
		r.Post("/positions/{id}/resize", boardHandler.Resize)
		r.Put("/positions/{id}/service", boardHandler.SetService)

		// Item-level edits and additions
		itemsHandler := handlers.NewItemsHandler(s.svc)
		r.Put("/positions/{id}/items/{itemId}/price", itemsHandler.EditPrice)
		r.Put("/positions/{id}/items/{itemId}/hours", itemsHandler.EditHours)
		r.Put("/positions/{id}/items/{itemId}/bearing", itemsHandler.SubstituteBearing)
		r.Put("/positions/{id}/items/{itemId}/motor", itemsHandler.SubstituteMotor)
		r.Put("/positions/{id}/items/{itemId}/wire", itemsHandler.SubstituteWire)
		r.Put("/positions/{id}/items/{itemId}/employee", itemsHandler.SubstituteEmployee)
		r.Post("/items/manual", itemsHandler.CreateManual)
		r.Post("/positions/{id}/items/catalog", itemsHandler.CreateFromCatalog)

		// Archive
		archiveHandler := handlers.NewArchiveHandler(s.svc)
		r.Post("/archive/save", archiveHandler.SaveAll)
		r.Get("/archive", archiveHandler.List)
		r.Get("/archive/{id}", archiveHandler.Get)
		r.Delete("/archive/{id}", archiveHandler.Delete)
		r.Post("/archive/load", archiveHandler.Load)
		r.Post("/archive/load-group", archiveHandler.LoadGroup)

		// Templates
		templatesHandler := handlers.NewTemplatesHandler(s.svc)
		r.Get("/templates", templatesHandler.List)
		r.Post("/templates", templatesHandler.Save)
		r.Post("/templates/{id}/load", templatesHandler.Load)
		r.Delete("/templates/{id}", templatesHandler.Delete)

		// Substitution catalogs
		catalogHandler := handlers.NewCatalogHandler(s.svc)
		r.Get("/catalog/bearings", catalogHandler.ListBearings)
		r.Post("/catalog/bearings", catalogHandler.CreateBearing)
		r.Post("/catalog/bearings/import", catalogHandler.ImportBearings)
		r.Get("/catalog/motors", catalogHandler.ListMotors)
		r.Post("/catalog/motors", catalogHandler.CreateMotor)
		r.Post("/catalog/motors/import", catalogHandler.ImportMotors)
		r.Get("/catalog/wires", catalogHandler.ListWires)
		r.Post("/catalog/wires", catalogHandler.CreateWire)
		r.Post("/catalog/wires/import", catalogHandler.ImportWires)
		r.Get("/catalog/employees", catalogHandler.ListEmployees)
		r.Post("/catalog/employees", catalogHandler.CreateEmployee)

		// References and workspace selection
		refsHandler := handlers.NewReferencesHandler(s.svc)
		r.Get("/counterparties", refsHandler.ListCounterparties)
		r.Post("/counterparties/import", refsHandler.ImportCounterparties)
		r.Get("/documents", refsHandler.ListDocuments)
		r.Post("/documents/import", refsHandler.ImportDocuments)
		r.Get("/selection", refsHandler.GetSelection)
		r.Put("/selection/counterparty", refsHandler.SelectCounterparty)
		r.Put("/selection/document", refsHandler.SelectDocument)
		r.Post("/import/items", refsHandler.ImportItems)
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting API server", "addr", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")

	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}
