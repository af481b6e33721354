package server

import (
	"net/http"

	"github.com/bobmcallan/revpulse/internal/models"
)

// handleAlertEvaluate handles POST /api/businesses/{name}/alerts/evaluate.
func (s *Server) handleAlertEvaluate(w http.ResponseWriter, r *http.Request, name string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	created, err := s.app.AlertService.Evaluate(r.Context(), name)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if created == nil {
		created = []models.AnalysisAlert{}
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"business": name,
		"raised":   len(created),
		"alerts":   created,
	})
}

// handleAlertHistory handles GET /api/businesses/{name}/alerts.
// The unacknowledged=true query filters to open alerts.
func (s *Server) handleAlertHistory(w http.ResponseWriter, r *http.Request, name string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	var alerts []models.AnalysisAlert
	var err error
	if r.URL.Query().Get("unacknowledged") == "true" {
		alerts, err = s.app.Storage.AlertStore().GetUnacknowledged(r.Context(), name)
	} else {
		alerts, err = s.app.AlertService.GetHistory(r.Context(), name)
	}
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if alerts == nil {
		alerts = []models.AnalysisAlert{}
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"business": name,
		"count":    len(alerts),
		"alerts":   alerts,
	})
}

// handleAlertAck handles POST /api/alerts/{id}/ack.
func (s *Server) handleAlertAck(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Alert ID is required")
		return
	}
	found, err := s.app.AlertService.Acknowledge(r.Context(), id)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		WriteError(w, http.StatusNotFound, "Alert not found")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"id":           id,
		"acknowledged": true,
	})
}

// handleRules dispatches GET (list) and POST (create/update) for
// /api/businesses/{name}/rules.
func (s *Server) handleRules(w http.ResponseWriter, r *http.Request, name string) {
	switch r.Method {
	case http.MethodGet:
		rules, err := s.app.AlertService.GetRules(r.Context(), name)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if rules == nil {
			rules = []models.NotificationRule{}
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"business": name,
			"rules":    rules,
		})
	case http.MethodPost:
		var rule models.NotificationRule
		if !DecodeJSON(w, r, &rule) {
			return
		}
		rule.BusinessName = name
		if err := s.app.AlertService.SaveRule(r.Context(), &rule); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		WriteJSON(w, http.StatusCreated, rule)
	default:
		w.Header().Set("Allow", "GET, POST")
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// handleRuleDelete handles DELETE /api/businesses/{name}/rules/{id}.
func (s *Server) handleRuleDelete(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Rule ID is required")
		return
	}
	if err := s.app.AlertService.DeleteRule(r.Context(), id); err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"id":      id,
		"deleted": true,
	})
}
