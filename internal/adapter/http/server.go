package http

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/risk-map-client/internal/client"
	"github.com/couchcryptid/risk-map-client/internal/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed templates/page.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

// maxBodyBytes bounds every event body.
const maxBodyBytes = 64 << 10

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// PageConfig holds the static settings rendered into the page shell.
type PageConfig struct {
	TileURL string
}

// Server serves the page shell, forwards user gestures to page sessions, and
// exposes health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	store      *client.Store
	page       PageConfig
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the page, session, and operational routes.
func NewServer(addr string, store *client.Store, ready ReadinessChecker, page PageConfig, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		store:  store,
		page:   page,
		logger: logger,
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /sessions/{id}", s.handleSnapshot)
	mux.HandleFunc("POST /sessions/{id}/map/click", s.handleMapClick)
	mux.HandleFunc("POST /sessions/{id}/marker/dragend", s.handleMarkerDragEnd)
	mux.HandleFunc("POST /sessions/{id}/fields", s.handleFields)
	mux.HandleFunc("POST /sessions/{id}/submit", s.handleSubmit)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type pageData struct {
	Session  client.SessionSnapshot
	TileURL  string
	Boroughs []string
	Places   []string
	Genders  []string
	Races    []string
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	sess := s.store.Create()
	s.logger.Debug("session created", "session", sess.ID())

	data := pageData{
		Session:  sess.Snapshot(),
		TileURL:  s.page.TileURL,
		Boroughs: []string{"Manhattan", "Brooklyn", "Queens", "Bronx", "Staten Island"},
		Places:   []string{"In park", "In public housing", "In station", "Other"},
		Genders:  []string{"Female", "Male"},
		Races: []string{
			"AMERICAN INDIAN/ALASKAN NATIVE", "ASIAN / PACIFIC ISLANDER", "BLACK",
			"BLACK HISPANIC", "OTHER", "UNKNOWN", "WHITE", "WHITE HISPANIC",
		},
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		s.logger.Error("render page", "error", err)
	}
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

type pointRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

func (s *Server) handleMapClick(w http.ResponseWriter, r *http.Request) {
	s.handlePoint(w, r, (*client.Session).MapClick)
}

func (s *Server) handleMarkerDragEnd(w http.ResponseWriter, r *http.Request) {
	s.handlePoint(w, r, (*client.Session).MarkerDragEnd)
}

func (s *Server) handlePoint(w http.ResponseWriter, r *http.Request, apply func(*client.Session, domain.Coordinate) domain.Coordinate) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var body pointRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Lat == nil || body.Lng == nil {
		writeError(w, http.StatusBadRequest, "lat and lng are required")
		return
	}

	apply(sess, domain.NewCoordinate(*body.Lat, *body.Lng))
	sess.RefreshAddress(r.Context())
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleFields(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var values map[string]string
	if !decodeBody(w, r, &values) {
		return
	}
	if err := sess.ApplyFields(values); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var values map[string]string
	if r.ContentLength != 0 && !decodeBody(w, r, &values) {
		return
	}

	err := sess.Submit(r.Context(), values)
	switch {
	case errors.Is(err, client.ErrUnknownField):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, client.ErrSubmitInFlight):
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	// Prediction failures are reported through the snapshot's alert.
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*client.Session, bool) {
	sess, err := s.store.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	return sess, true
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client may have gone away
}
