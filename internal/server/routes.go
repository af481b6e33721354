package server

import (
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/bobmcallan/revpulse/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/diagnostics", s.handleDiagnostics)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)

	// Businesses
	mux.HandleFunc("/api/businesses/", s.routeBusinesses)
	mux.HandleFunc("/api/businesses", s.handleBusinessList)

	// Reviews (cross-business, by ID)
	mux.HandleFunc("/api/reviews/", s.routeReviews)

	// Alerts (cross-business, by ID)
	mux.HandleFunc("/api/alerts/", s.routeAlerts)
}

// routeReviews dispatches /api/reviews/{id}.
func (s *Server) routeReviews(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/reviews/")
	if id == "" || strings.Contains(id, "/") {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}
	s.handleReviewGet(w, r, id)
}

// routeBusinesses dispatches /api/businesses/{name}/{sub} to the handlers.
func (s *Server) routeBusinesses(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/businesses/")
	parts := strings.SplitN(rest, "/", 2)
	name := parts[0]
	if name == "" {
		s.handleBusinessList(w, r)
		return
	}

	sub := ""
	if len(parts) == 2 {
		sub = parts[1]
	}

	switch sub {
	case "reviews":
		s.handleReviews(w, r, name)
	case "summary":
		s.handleSummary(w, r, name)
	case "health":
		s.handleHealthScore(w, r, name)
	case "trends":
		s.handleTrends(w, r, name)
	case "compare":
		s.handleCompare(w, r, name)
	case "alerts":
		s.handleAlertHistory(w, r, name)
	case "alerts/evaluate":
		s.handleAlertEvaluate(w, r, name)
	case "rules":
		s.handleRules(w, r, name)
	default:
		if strings.HasPrefix(sub, "rules/") {
			s.handleRuleDelete(w, r, strings.TrimPrefix(sub, "rules/"))
			return
		}
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

// routeAlerts dispatches /api/alerts/{id}/ack.
func (s *Server) routeAlerts(w http.ResponseWriter, r *http.Request) {
	if strings.HasSuffix(r.URL.Path, "/ack") {
		s.handleAlertAck(w, r, PathParam(r, "/api/alerts/", "/ack"))
		return
	}
	WriteError(w, http.StatusNotFound, "Not found")
}

// handleHealth responds to GET/HEAD /api/health with {"status":"ok"}.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleVersion responds to GET/HEAD /api/version with version info.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// handleDiagnostics responds to GET /api/diagnostics with runtime info.
func (s *Server) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"version":    common.GetVersion(),
		"uptime":     time.Since(s.app.StartupTime).String(),
		"goroutines": runtime.NumGoroutine(),
		"heap_mb":    mem.HeapAlloc / 1024 / 1024,
	})
}

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}
