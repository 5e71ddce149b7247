// Package apitest is an in-memory double of the open2fa remote API,
// used by client tests. It implements exactly the contract documented
// in package remoteapi and nothing more: blobs are held in a map, the
// process dies with the data.
package apitest

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/liberfy/open2fa/internal/models"
	"github.com/liberfy/open2fa/internal/remoteapi"
)

// Server holds one collection of encrypted secrets per RemoteID. A
// credential pair is bound on first use; later requests with the same
// RemoteID but a different RemoteSecret are rejected with 401.
type Server struct {
	mu          sync.Mutex
	credentials map[string]string                   // remote ID -> remote secret
	collections map[string][]models.EncryptedSecret // remote ID -> entries
}

// New returns an empty Server.
func New() *Server {
	return &Server{
		credentials: make(map[string]string),
		collections: make(map[string][]models.EncryptedSecret),
	}
}

// Router mounts the API routes and returns the handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.auth)
	r.Post("/register", s.register)
	r.Post("/totps", s.push)
	r.Get("/totps", s.list)
	r.Delete("/totps", s.delete)
	return r
}

// Count returns the number of entries stored for a RemoteID.
func (s *Server) Count(remoteID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.collections[remoteID])
}

// auth binds unseen credential pairs and rejects mismatched secrets.
func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(remoteapi.HeaderID)
		secret := r.Header.Get(remoteapi.HeaderSecret)
		if id == "" || secret == "" {
			http.Error(w, "missing credentials", http.StatusUnauthorized)
			return
		}
		s.mu.Lock()
		known, ok := s.credentials[id]
		if !ok {
			s.credentials[id] = secret
		}
		s.mu.Unlock()
		if ok && known != secret {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	// Binding happened in the auth middleware; registering twice with
	// the same pair is a no-op.
	w.WriteHeader(http.StatusOK)
}

func (s *Server) push(w http.ResponseWriter, r *http.Request) {
	var req remoteapi.PushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	id := r.Header.Get(remoteapi.HeaderID)

	pushed := make(map[string]bool, len(req.TOTPs))
	for _, t := range req.TOTPs {
		pushed[t.Name] = true
	}

	s.mu.Lock()
	kept := s.collections[id][:0]
	for _, existing := range s.collections[id] {
		if !pushed[existing.Name] {
			kept = append(kept, existing)
		}
	}
	s.collections[id] = append(kept, req.TOTPs...)
	s.mu.Unlock()

	resp := remoteapi.PushResponse{Accepted: make([]string, 0, len(req.TOTPs))}
	for _, t := range req.TOTPs {
		resp.Accepted = append(resp.Accepted, t.Name)
	}
	writeJSON(w, resp)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	id := r.Header.Get(remoteapi.HeaderID)
	s.mu.Lock()
	out := make([]models.EncryptedSecret, len(s.collections[id]))
	copy(out, s.collections[id])
	s.mu.Unlock()
	writeJSON(w, remoteapi.ListResponse{TOTPs: out})
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	id := r.Header.Get(remoteapi.HeaderID)
	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "missing name", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	kept := s.collections[id][:0]
	deleted := 0
	for _, t := range s.collections[id] {
		if t.Name == name {
			deleted++
			continue
		}
		kept = append(kept, t)
	}
	s.collections[id] = kept
	s.mu.Unlock()
	writeJSON(w, remoteapi.DeleteResponse{Deleted: deleted})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
