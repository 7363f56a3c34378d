package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/oddsdeck/oddsdeck/internal/catalog"
	"github.com/oddsdeck/oddsdeck/internal/facade"
	"github.com/oddsdeck/oddsdeck/pkg/models"
)

// Server is the JSON boundary the dashboard frontend consumes. It only ever
// sees canonical events; raw payloads and validation results stay internal.
type Server struct {
	facade     *facade.Facade
	log        *zap.Logger
	httpServer *http.Server
}

// NewServer creates the API server on the given port.
func NewServer(f *facade.Facade, log *zap.Logger, port string) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{facade: f, log: log}

	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods("GET")
	api.HandleFunc("/events/live", s.handleLive).Methods("GET")
	api.HandleFunc("/events/upcoming", s.handleUpcoming).Methods("GET")
	api.HandleFunc("/events/region/{region}", s.handleByRegion).Methods("GET")
	api.HandleFunc("/events/sport/{sport}", s.handleBySport).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	s.httpServer = &http.Server{
		Addr:         ":" + port,
		Handler:      c.Handler(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start blocks serving HTTP until Stop or a listener error.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Stop shuts the server down gracefully.
func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.log.Warn("server shutdown", zap.Error(err))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().Unix(),
	})
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.facade.FetchLive(r.Context()))
}

func (s *Server) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.facade.FetchUpcoming(r.Context()))
}

func (s *Server) handleByRegion(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["region"]
	region, ok := models.ParseRegion(raw)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "unknown region: " + raw,
		})
		return
	}
	writeJSON(w, http.StatusOK, s.facade.FetchByRegion(r.Context(), region))
}

func (s *Server) handleBySport(w http.ResponseWriter, r *http.Request) {
	sport := mux.Vars(r)["sport"]
	if !catalog.IsAllowed(sport) {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "unknown sport: " + sport,
		})
		return
	}
	writeJSON(w, http.StatusOK, s.facade.FetchBySport(r.Context(), sport))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
