package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/roster-cli/internal/model"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 200
)

type healthResponse struct {
	Status string `json:"status"`
}

type registryResponse struct {
	Source   string    `json:"source"`
	Count    int       `json:"count"`
	LoadedAt time.Time `json:"loaded_at"`
}

type bulkResponse struct {
	Results []model.VerificationResult `json:"results"`
	Summary model.Summary              `json:"summary"`
}

type searchResponse struct {
	Query   string               `json:"query"`
	Count   int                  `json:"count"`
	Records []model.RosterRecord `json:"records"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (s *Server) handleRegistry(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.registryInfo())
}

func (s *Server) registryInfo() registryResponse {
	return registryResponse{
		Source:   s.roster.Source(),
		Count:    s.roster.Len(),
		LoadedAt: s.roster.LoadedAt().UTC(),
	}
}

// handleVerify handles POST /v1/verify with a single application.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var app model.Application
	if !s.decode(w, r, &app) {
		return
	}
	fillID(&app)

	writeJSON(w, http.StatusOK, s.verifier.Verify(r.Context(), app))
}

// handleVerifyBulk handles POST /v1/verify/bulk with an array of applications.
func (s *Server) handleVerifyBulk(w http.ResponseWriter, r *http.Request) {
	var apps []model.Application
	if !s.decode(w, r, &apps) {
		return
	}
	if len(apps) == 0 {
		writeError(w, http.StatusBadRequest, "at least one application is required")
		return
	}
	if len(apps) > s.opts.MaxBulkSize {
		writeError(w, http.StatusRequestEntityTooLarge,
			"too many applications: limit is "+strconv.Itoa(s.opts.MaxBulkSize))
		return
	}
	for i := range apps {
		fillID(&apps[i])
	}

	results := s.verifier.VerifyAll(r.Context(), apps)
	writeJSON(w, http.StatusOK, bulkResponse{Results: results, Summary: model.Summarize(results)})
}

// handleSearch handles GET /v1/registry/search?q=&limit=.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	limit := defaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxSearchLimit)
	}

	records := s.verifier.FindByName(q, limit)
	if records == nil {
		records = []model.RosterRecord{}
	}
	writeJSON(w, http.StatusOK, searchResponse{Query: q, Count: len(records), Records: records})
}

// handleReload handles POST /v1/registry/reload. A failed reload keeps
// serving the previous roster and answers 503.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.roster.Reload(r.Context()); err != nil {
		s.log.Error("registry reload failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.registryInfo())
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func fillID(app *model.Application) {
	if strings.TrimSpace(app.ApplicationID) == "" {
		app.ApplicationID = uuid.NewString()
	}
}
