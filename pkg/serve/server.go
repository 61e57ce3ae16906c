package serve

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/cellserve/cellserve/pkg/dataset"
	"github.com/cellserve/cellserve/pkg/route"
)

// Session is one immutable serving generation: a route table and the
// manifest describing it.
type Session struct {
	Table    *route.Table
	Manifest dataset.Manifest
}

// Server serves the current Session over HTTP. It starts without one;
// requests arriving before the first Swap get 503s.
type Server struct {
	mu      sync.RWMutex
	current *Session

	counters *counters
	hub      *Hub
	mux      *http.ServeMux
}

// New creates a Server and registers its routes.
func New() *Server {
	s := &Server{counters: newCounters(), mux: http.NewServeMux()}
	s.hub = NewHub(s.currentManifest)

	s.mux.HandleFunc("/manifest", s.manifest)
	s.mux.HandleFunc("/health", s.health)
	s.mux.HandleFunc("/metrics", s.metrics)
	s.mux.Handle("/ws", s.hub)
	s.mux.HandleFunc("/", s.dispatch)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Hub returns the live-reload hub so the caller can run its lifecycle loop.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Swap installs sess as the current serving session and notifies connected
// live-reload clients with its manifest.
func (s *Server) Swap(sess *Session) {
	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()

	s.counters.sessionSwaps.Add(1)
	s.hub.Broadcast(sess.Manifest)
}

func (s *Server) currentSession() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Server) currentManifest() (dataset.Manifest, bool) {
	sess := s.currentSession()
	if sess == nil {
		return dataset.Manifest{}, false
	}
	return sess.Manifest, true
}

// --- route handlers ---------------------------------------------------------

// dispatch serves a data route through the current session's table.
func (s *Server) dispatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	sess := s.currentSession()
	if sess == nil {
		jsonErr(w, http.StatusServiceUnavailable, "no serving session")
		return
	}

	body, err := sess.Table.Dispatch(r.URL.Path)
	if err != nil {
		if errors.Is(err, route.ErrNotFound) {
			s.counters.notFound.Add(1)
			jsonErr(w, http.StatusNotFound, "not found")
			return
		}
		s.counters.failed.Add(1)
		slog.Error("payload build failed", "path", r.URL.Path, "err", err)
		jsonErr(w, http.StatusInternalServerError, "payload build failed")
		return
	}

	s.counters.served.Add(1)
	s.counters.payloadBytes.Add(int64(len(body)))

	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	w.Write(body) //nolint:errcheck
}

// manifest returns GET /manifest — every served file definition.
func (s *Server) manifest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	sess := s.currentSession()
	if sess == nil {
		jsonErr(w, http.StatusServiceUnavailable, "no serving session")
		return
	}
	jsonResp(w, http.StatusOK, sess.Manifest)
}

// health returns GET /health — serving status and session counts.
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	resp := HealthResponse{Status: "starting"}
	if sess := s.currentSession(); sess != nil {
		resp.Status = "serving"
		resp.Datasets = len(sess.Manifest.Datasets)
		resp.Routes = sess.Table.Len()
		for _, d := range sess.Manifest.Datasets {
			resp.Files += len(d.Files)
		}
	}
	jsonResp(w, http.StatusOK, resp)
}

// --- helpers ----------------------------------------------------------------

func jsonResp(w http.ResponseWriter, code int, v any) {
	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
