package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/nvolkova/avcatalog/internal/config"
	"github.com/nvolkova/avcatalog/internal/database"
	"github.com/nvolkova/avcatalog/internal/report"
)

type Server struct {
	cfg      *config.Config
	db       *database.DB
	hub      *Hub
	exporter *Exporter
	mux      *http.ServeMux
}

func New(cfg *config.Config, db *database.DB) *Server {
	hub := NewHub()
	gen := report.NewGenerator(db, cfg.Exports.Directory, cfg.Exports.Font, cfg.Exports.BoldFont)

	s := &Server{
		cfg:      cfg,
		db:       db,
		hub:      hub,
		exporter: NewExporter(gen, hub),
		mux:      http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	slog.Info("starting server", "addr", addr)

	handler := recoveryMiddleware(securityHeaders(loggingMiddleware(s.mux)))
	return http.ListenAndServe(addr, handler)
}

func (s *Server) registerRoutes() {
	// Catalog CRUD
	s.mux.HandleFunc("/api/manufacturers", s.handleManufacturers)
	s.mux.HandleFunc("/api/manufacturers/", s.handleManufacturer)
	s.mux.HandleFunc("/api/products", s.handleProducts)
	s.mux.HandleFunc("/api/products/", s.handleProduct)
	s.mux.HandleFunc("/api/malware", s.handleMalwareCollection)
	s.mux.HandleFunc("/api/malware/", s.handleMalwareEntry)
	s.mux.HandleFunc("/api/signatures", s.handleSignatures)
	s.mux.HandleFunc("/api/signatures/", s.handleSignature)

	// Support endpoints
	s.mux.HandleFunc("/api/next-id", s.handleNextID)
	s.mux.HandleFunc("/api/stats", s.handleStats)

	// Exports
	s.mux.HandleFunc("/api/export/workbook", s.handleExport("workbook"))
	s.mux.HandleFunc("/api/export/statistical", s.handleExport("statistical"))
	s.mux.HandleFunc("/api/export/detailed", s.handleExport("detailed"))

	// WebSocket event feed
	s.mux.HandleFunc("/ws", s.handleWebSocket)
}
