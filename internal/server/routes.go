package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Digest
	mux.HandleFunc("/api/digest/run", s.app.DigestHandler.RunHandler)       // POST (single target), GET (batch)
	mux.HandleFunc("/api/digest/status", s.app.DigestHandler.StatusHandler) // GET - job scheduling state

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// Catch-all for unknown API paths
	mux.HandleFunc("/", s.app.APIHandler.NotFoundHandler)

	return mux
}
