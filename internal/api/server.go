// Package api exposes the simulator over HTTP: run execution, recorded
// run retrieval, controller configuration, and debug charts.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/veloforge/brakesim/internal/db"
	"github.com/veloforge/brakesim/internal/fuzzy"
	"github.com/veloforge/brakesim/internal/monitoring"
	"github.com/veloforge/brakesim/internal/recorder"
	"github.com/veloforge/brakesim/internal/session"
	"github.com/veloforge/brakesim/internal/units"
)

// ANSI escape codes for request logging
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"
const colorYellow = "\033[33m"

// Server serves the simulation API. Each POST /api/runs executes a fresh
// headless session; the server never shares live simulation state between
// requests.
type Server struct {
	db     *db.DB
	engine *fuzzy.Engine
	units  string
}

// NewServer creates a Server persisting runs to database and using engine
// as the controller for new runs.
func NewServer(database *db.DB, engine *fuzzy.Engine, displayUnits string) *Server {
	if !units.IsValid(displayUnits) {
		displayUnits = units.MPS
	}
	if engine == nil {
		engine = fuzzy.NewEngine(nil)
	}
	return &Server{db: database, engine: engine, units: displayUnits}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	}
}

// logRequests wraps a handler with method/path/status/duration logging.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(lrw, r)
		monitoring.Logf("%s%s%s %s %s %v",
			colorCyan, r.Method, colorReset, r.URL.Path,
			statusCodeColor(lrw.statusCode), time.Since(start))
	})
}

// Handler returns the full API routing table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/runs", s.handleCreateRun)
	mux.HandleFunc("GET /api/runs", s.handleListRuns)
	mux.HandleFunc("GET /api/runs/{id}", s.handleGetRun)
	mux.HandleFunc("GET /api/runs/{id}/samples", s.handleGetSamples)
	mux.HandleFunc("GET /api/runs/{id}/chart", s.handleRunChart)
	mux.HandleFunc("GET /api/config", s.handleGetConfig)
	mux.HandleFunc("PUT /api/config", s.handleReplaceConfig)
	mux.HandleFunc("GET /api/controller/chart", s.handleControllerChart)
	return logRequests(mux)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		monitoring.Logf("failed to encode response: %v", err)
	}
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// createRunRequest is the body of POST /api/runs. Zero-valued fields fall
// back to the defaults.
type createRunRequest struct {
	Params  *session.Params `json:"params,omitempty"`
	SaveRun bool            `json:"save"`
}

// runSummary is recorder.Summary with speeds converted to the server's
// display units. Its speed keys are unit-neutral; SpeedUnits names the
// unit they are expressed in.
type runSummary struct {
	SpeedUnits string  `json:"speed_units"`
	Duration   float64 `json:"duration_s"`
	Travel     float64 `json:"travel_m"`
	MaxSpeed   float64 `json:"max_speed"`
	P50Speed   float64 `json:"p50_speed"`
	P85Speed   float64 `json:"p85_speed"`
	P95Speed   float64 `json:"p95_speed"`
	MaxDecel   float64 `json:"max_decel_mps2"`
	MaxBrake   float64 `json:"max_brake"`
	Steps      int     `json:"steps"`
}

type createRunResponse struct {
	RunID   string      `json:"run_id"`
	Reason  string      `json:"reason"`
	Eject   interface{} `json:"eject,omitempty"`
	Summary runSummary  `json:"summary"`
}

// handleCreateRun executes a headless run synchronously and returns its
// terminal classification and summary.
func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	var req createRunRequest
	// An empty body means "run with defaults".
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	params := session.DefaultParams()
	if req.Params != nil {
		params = *req.Params
	}
	if err := params.Validate(); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess := session.New(s.engine, nil)
	sess.Reset(params)
	res, err := sess.Run(r.Context(), 16*time.Millisecond)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("run failed: %v", err))
		return
	}

	if req.SaveRun && s.db != nil {
		if err := s.db.RecordRun(*res, sess.Samples()); err != nil {
			s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("persisting run: %v", err))
			return
		}
	}

	resp := createRunResponse{
		RunID:   res.RunID,
		Reason:  res.Stop.Reason.String(),
		Summary: s.convertSummary(res.Summary),
	}
	if res.Stop.Eject != nil {
		resp.Eject = res.Stop.Eject
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// convertSummary applies display-unit conversion to the speed fields and
// labels the result with the unit used.
func (s *Server) convertSummary(sum recorder.Summary) runSummary {
	return runSummary{
		SpeedUnits: s.units,
		Duration:   sum.Duration,
		Travel:     sum.Travel,
		MaxSpeed:   units.ConvertSpeed(sum.MaxSpeedMps, s.units),
		P50Speed:   units.ConvertSpeed(sum.P50SpeedMps, s.units),
		P85Speed:   units.ConvertSpeed(sum.P85SpeedMps, s.units),
		P95Speed:   units.ConvertSpeed(sum.P95SpeedMps, s.units),
		MaxDecel:   sum.MaxDecel,
		MaxBrake:   sum.MaxBrake,
		Steps:      sum.Steps,
	}
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.writeJSONError(w, http.StatusServiceUnavailable, "no run database configured")
		return
	}
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 1000 {
			limit = v
		}
	}
	runs, err := s.db.ListRuns(limit)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.writeJSONError(w, http.StatusServiceUnavailable, "no run database configured")
		return
	}
	rec, err := s.db.GetRun(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, db.ErrRunNotFound) {
			s.writeJSONError(w, http.StatusNotFound, err.Error())
			return
		}
		s.writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleGetSamples(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.writeJSONError(w, http.StatusServiceUnavailable, "no run database configured")
		return
	}
	samples, err := s.db.GetSamples(r.PathValue("id"))
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if u := r.URL.Query().Get("units"); u != "" && units.IsValid(u) {
		for i := range samples {
			samples[i].V = units.ConvertSpeed(samples[i].V, u)
		}
	}
	s.writeJSON(w, http.StatusOK, samples)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.engine.Config())
}

// handleReplaceConfig swaps in a whole new controller configuration.
// Partial updates are rejected by construction: the body must decode into
// a complete ControllerConfig.
func (s *Server) handleReplaceConfig(w http.ResponseWriter, r *http.Request) {
	var cfg fuzzy.ControllerConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("invalid controller config: %v", err))
		return
	}
	if err := s.engine.SetConfig(&cfg); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "replaced"})
}
