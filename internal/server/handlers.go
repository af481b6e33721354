package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/bobmcallan/revpulse/internal/interfaces"
	"github.com/bobmcallan/revpulse/internal/models"
)

// businessEntry is one row of the business list.
type businessEntry struct {
	Name    string `json:"name"`
	Reviews int    `json:"reviews"`
}

// handleBusinessList handles GET /api/businesses.
func (s *Server) handleBusinessList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	names, err := s.app.Storage.ReviewStore().ListBusinesses(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	businesses := make([]businessEntry, 0, len(names))
	for _, name := range names {
		count, err := s.app.Storage.ReviewStore().CountReviews(r.Context(), name)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		businesses = append(businesses, businessEntry{Name: name, Reviews: count})
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"businesses": businesses})
}

// handleReviewGet handles GET /api/reviews/{id}.
func (s *Server) handleReviewGet(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	review, err := s.app.Storage.ReviewStore().GetReview(r.Context(), id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Review not found")
			return
		}
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, review)
}

// handleReviews dispatches GET (list), POST (ingest), and DELETE (purge)
// for /api/businesses/{name}/reviews.
func (s *Server) handleReviews(w http.ResponseWriter, r *http.Request, name string) {
	switch r.Method {
	case http.MethodGet:
		reviews, err := s.app.Storage.ReviewStore().GetReviews(r.Context(), name)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if reviews == nil {
			reviews = []models.Review{}
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"business": name,
			"count":    len(reviews),
			"reviews":  reviews,
		})
	case http.MethodPost:
		var body struct {
			Reviews []models.Review `json:"reviews"`
		}
		if !DecodeJSON(w, r, &body) {
			return
		}
		if len(body.Reviews) == 0 {
			WriteError(w, http.StatusBadRequest, "At least one review is required")
			return
		}
		stored, err := s.app.AnalysisService.IngestReviews(r.Context(), name, body.Reviews)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusCreated, map[string]interface{}{
			"business": name,
			"stored":   stored,
		})
	case http.MethodDelete:
		deleted, err := s.app.AnalysisService.DeleteReviews(r.Context(), name)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"business": name,
			"deleted":  deleted,
		})
	default:
		w.Header().Set("Allow", "GET, POST, DELETE")
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// handleSummary handles GET /api/businesses/{name}/summary.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request, name string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	cfg, ok := analysisConfigFromQuery(w, r)
	if !ok {
		return
	}
	summary, err := s.app.AnalysisService.GetSummary(r.Context(), name, cfg)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, summary)
}

// handleHealthScore handles GET /api/businesses/{name}/health.
func (s *Server) handleHealthScore(w http.ResponseWriter, r *http.Request, name string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	cfg, ok := analysisConfigFromQuery(w, r)
	if !ok {
		return
	}
	health, err := s.app.AnalysisService.GetHealthScore(r.Context(), name, cfg)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, health)
}

// handleTrends handles GET /api/businesses/{name}/trends.
func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request, name string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	report, err := s.app.AnalysisService.GetTrends(r.Context(), name)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, report)
}

// handleCompare handles POST /api/businesses/{name}/compare.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request, name string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	var body struct {
		Current  periodBody `json:"current"`
		Previous periodBody `json:"previous"`
	}
	if !DecodeJSON(w, r, &body) {
		return
	}
	current, err := body.Current.spec("current")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	previous, err := body.Previous.spec("previous")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	metrics, err := s.app.AnalysisService.ComparePeriods(r.Context(), name, current, previous)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, metrics)
}

// periodBody is the wire form of one comparison period.
type periodBody struct {
	Label string `json:"label"`
	Start string `json:"start"`
	End   string `json:"end"`
}

func (p periodBody) spec(fallbackLabel string) (interfaces.PeriodSpec, error) {
	start, err := parseTimeParam(p.Start)
	if err != nil {
		return interfaces.PeriodSpec{}, err
	}
	end, err := parseTimeParam(p.End)
	if err != nil {
		return interfaces.PeriodSpec{}, err
	}
	label := p.Label
	if label == "" {
		label = fallbackLabel
	}
	return interfaces.PeriodSpec{Label: label, Start: start, End: end}, nil
}

// analysisConfigFromQuery builds an AnalysisConfig from query parameters.
// Supported: period_start, period_end (RFC 3339 or YYYY-MM-DD), staff,
// themes, actions (bool), recent_months (int). Writes a 400 and returns
// false on a malformed parameter.
func analysisConfigFromQuery(w http.ResponseWriter, r *http.Request) (*models.AnalysisConfig, bool) {
	q := r.URL.Query()
	cfg := models.NewAnalysisConfig()

	if v := q.Get("period_start"); v != "" {
		t, err := parseTimeParam(v)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid period_start: "+err.Error())
			return nil, false
		}
		cfg.PeriodStart = t
	}
	if v := q.Get("period_end"); v != "" {
		t, err := parseTimeParam(v)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid period_end: "+err.Error())
			return nil, false
		}
		cfg.PeriodEnd = t
	}
	for param, target := range map[string]*bool{
		"staff":   &cfg.IncludeStaff,
		"themes":  &cfg.IncludeThemes,
		"actions": &cfg.IncludeActions,
	} {
		if v := q.Get(param); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				WriteError(w, http.StatusBadRequest, "Invalid "+param+": must be a boolean")
				return nil, false
			}
			*target = b
		}
	}
	if v := q.Get("recent_months"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			WriteError(w, http.StatusBadRequest, "Invalid recent_months: must be a positive integer")
			return nil, false
		}
		cfg.RecentMonths = n
	}
	return &cfg, true
}

// parseTimeParam accepts RFC 3339 timestamps or bare YYYY-MM-DD dates (UTC).
func parseTimeParam(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
