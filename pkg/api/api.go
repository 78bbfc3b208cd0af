// Package api exposes a tiny JSON-over-HTTP API for the resolvq
// daemon. It listens on a Unix domain socket (path comes from config)
// and delegates all business logic to internal/resolver and
// internal/hoststore. No third-party HTTP framework is used — just
// net/http + encoding/json — keeping the binary small.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/lc/resolvq/internal/buildinfo"
	"github.com/lc/resolvq/internal/hoststore"
	"github.com/lc/resolvq/internal/resolver"
	"github.com/lc/resolvq/internal/socket"
)

// SubmitRequest asks the daemon to resolve an address in the background.
type SubmitRequest struct {
	Address string `json:"address"`
}

// SubmitResponse reports whether the address was admitted to the queue.
// false means it was dropped (queue full) or already pending; the
// daemon will not retry on the caller's behalf.
type SubmitResponse struct {
	Accepted bool `json:"accepted"`
}

// HostResponse is the stored hostname for a single address, if any.
type HostResponse struct {
	Address  string `json:"address"`
	Hostname string `json:"hostname,omitempty"`
	Found    bool   `json:"found"`
}

// StatusResponse represents the daemon status.
type StatusResponse struct {
	Active        bool          `json:"active"`
	Queued        int           `json:"queued"`
	QueueCapacity int           `json:"queue_capacity"`
	Resolved      int64         `json:"resolved"`
	Failed        int64         `json:"failed"`
	Dropped       int64         `json:"dropped"`
	Hosts         int           `json:"hosts"`
	Uptime        time.Duration `json:"uptime"`
	Version       string        `json:"version"`
	Commit        string        `json:"commit"`
	Instance      string        `json:"instance"`
}

// -------- server -----------------------------------------------------

// Server handles HTTP API requests over a Unix domain socket.
type Server struct {
	svc      *resolver.Service
	store    hoststore.Store
	start    time.Time
	instance string
	mux      *http.ServeMux
	srv      *http.Server
}

// New creates an API server over the given resolver service and
// hostname store. Each server gets a fresh instance id so operators
// can tell daemon restarts apart in status output.
func New(svc *resolver.Service, store hoststore.Store) *Server {
	s := &Server{
		svc:      svc,
		store:    store,
		start:    time.Now(),
		instance: uuid.NewString(),
		mux:      http.NewServeMux(),
	}

	s.mux.HandleFunc("/v1/submit", s.handleSubmit)
	s.mux.HandleFunc("/v1/host", s.handleHost)
	s.mux.HandleFunc("/v1/hosts", s.handleHosts)
	s.mux.HandleFunc("/v1/status", s.handleStatus)

	s.srv = &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// ListenAndServe starts the Unix-socket HTTP server.
func (s *Server) ListenAndServe(path string) error {
	ln, err := socket.Listen(path)
	if err != nil {
		return err
	}
	return s.srv.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error { return s.srv.Shutdown(ctx) }

// Handler returns the server's HTTP handler, for tests.
func (s *Server) Handler() http.Handler { return s.mux }

// handleSubmit feeds one address into the resolution queue.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Address == "" {
		http.Error(w, "address required", http.StatusBadRequest)
		return
	}

	resp := SubmitResponse{Accepted: s.svc.Submit(req.Address)}
	writeJSON(w, resp)
}

// handleHost looks up the stored hostname for one address.
func (s *Server) handleHost(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	addr := r.URL.Query().Get("address")
	if addr == "" {
		http.Error(w, "address required", http.StatusBadRequest)
		return
	}

	hostname, found := s.store.Get(addr)
	writeJSON(w, HostResponse{Address: addr, Hostname: hostname, Found: found})
}

// handleHosts returns all resolved pairs.
func (s *Server) handleHosts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, s.store.Snapshot())
}

// handleStatus returns the daemon status.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	st := s.svc.Stats()
	writeJSON(w, StatusResponse{
		Active:        st.Active,
		Queued:        st.Queued,
		QueueCapacity: st.Capacity,
		Resolved:      st.Resolved,
		Failed:        st.Failed,
		Dropped:       st.Dropped,
		Hosts:         s.store.Len(),
		Uptime:        time.Since(s.start),
		Version:       buildinfo.Version,
		Commit:        buildinfo.Commit,
		Instance:      s.instance,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, fmt.Sprintf("Error encoding response: %v", err), http.StatusInternalServerError)
	}
}
